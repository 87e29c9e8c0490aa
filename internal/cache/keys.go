package cache

import (
	"strings"
	"time"
)

const (
	GlobalKeyPrefix = "quizhub"

	// TombstoneTTL outlives any in-flight profile read.
	TombstoneTTL = 5 * time.Minute
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// UserProfileKey is the key of the cached public profile of a user.
func UserProfileKey(userID string) string {
	return GenerateCacheKey("user", "profile", userID)
}

// JobLockKey is the lease key guarding a periodic job.
func JobLockKey(job string) string {
	return GenerateCacheKey("worker", "lock", job)
}

// UserTombstoneKey marks a deleted user for profile cache writers.
func UserTombstoneKey(userID string) string {
	return GenerateCacheKey("user", "tombstone", userID)
}
