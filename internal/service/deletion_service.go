package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizhub/internal/cache"
	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/metrics"

	"go.uber.org/zap"
)

// DeletionService drives the account deletion lifecycle.
type DeletionService interface {
	// Schedule moves an active account to pending deletion after the grace period.
	Schedule(ctx context.Context, authID string, mode string) (*domain.User, error)
	// Cancel returns a pending account to active.
	Cancel(ctx context.Context, authID string) (*domain.User, error)
	// Execute deletes the account identified by authID now.
	Execute(ctx context.Context, authID string, modeOverride string) error
	// ExecuteUser deletes the account identified by userID now.
	ExecuteUser(ctx context.Context, userID string, modeOverride string) error
	// ExecuteDue deletes userID only if it is still pending deletion and due at
	// now. It reports false when the user cancelled or is already gone.
	ExecuteDue(ctx context.Context, userID string, now time.Time) (bool, error)
}

type deletionServiceImpl struct {
	tx          domain.TransactionManager
	users       domain.UserRepository
	quizzes     domain.QuizRepository
	friendships domain.FriendshipRepository
	outbox      domain.IdentityOutbox
	relay       OutboxRelay
	cache       domain.Cache
	recorder    metrics.Recorder
	gracePeriod time.Duration
	now         func() time.Time
}

// NewDeletionService creates a new DeletionService. cache and recorder may be nil.
func NewDeletionService(
	tx domain.TransactionManager,
	users domain.UserRepository,
	quizzes domain.QuizRepository,
	friendships domain.FriendshipRepository,
	outbox domain.IdentityOutbox,
	relay OutboxRelay,
	profileCache domain.Cache,
	recorder metrics.Recorder,
	gracePeriod time.Duration,
) DeletionService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if gracePeriod <= 0 {
		gracePeriod = domain.DefaultGracePeriod
	}
	return &deletionServiceImpl{
		tx:          tx,
		users:       users,
		quizzes:     quizzes,
		friendships: friendships,
		outbox:      outbox,
		relay:       relay,
		cache:       profileCache,
		recorder:    recorder,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}
}

func (s *deletionServiceImpl) Schedule(ctx context.Context, authID string, mode string) (*domain.User, error) {
	if mode == "" {
		return nil, domain.NewInvalidInputError("Deletion mode is required")
	}
	deletionMode, err := domain.ParseDeletionMode(mode)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}
	if user.IsPlaceholder {
		return nil, domain.NewInvalidOperationError("The placeholder account cannot be deleted")
	}
	if user.Status() != domain.StatusActive {
		return nil, domain.NewInvalidStateError("Account deletion is already scheduled")
	}

	pending := domain.NewPendingDeletion(s.now().UTC(), s.gracePeriod, deletionMode)
	ok, err := s.users.ScheduleDeletion(ctx, user.ID, pending)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule deletion: %w", err)
	}
	if !ok {
		// Lost a race with another schedule or an execute.
		return nil, domain.NewInvalidStateError("Account deletion is already scheduled")
	}

	s.invalidateProfile(ctx, user.ID)
	user.Lifecycle = pending
	logger.Get().Info("Account deletion scheduled",
		zap.String("user_id", user.ID),
		zap.String("mode", string(deletionMode)),
		zap.Time("scheduled_for", pending.ScheduledFor))
	return user, nil
}

func (s *deletionServiceImpl) Cancel(ctx context.Context, authID string) (*domain.User, error) {
	ok, err := s.users.CancelDeletion(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel deletion: %w", err)
	}

	user, err := s.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}
	if !ok {
		return nil, domain.NewInvalidStateError("Account is not pending deletion")
	}

	s.invalidateProfile(ctx, user.ID)
	logger.Get().Info("Account deletion cancelled", zap.String("user_id", user.ID))
	return user, nil
}

func (s *deletionServiceImpl) Execute(ctx context.Context, authID string, modeOverride string) error {
	user, err := s.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.NewUserNotFoundError()
	}
	return s.ExecuteUser(ctx, user.ID, modeOverride)
}

func (s *deletionServiceImpl) ExecuteUser(ctx context.Context, userID string, modeOverride string) error {
	var override domain.DeletionMode
	if modeOverride != "" {
		m, err := domain.ParseDeletionMode(modeOverride)
		if err != nil {
			return err
		}
		override = m
	}
	_, err := s.execute(ctx, userID, override, nil)
	return err
}

func (s *deletionServiceImpl) ExecuteDue(ctx context.Context, userID string, now time.Time) (bool, error) {
	return s.execute(ctx, userID, "", func(user *domain.User) bool {
		pending, ok := user.PendingDeletion()
		return ok && pending.Due(now)
	})
}

// execute locks the user row and runs the cascade. When eligible is set and
// rejects the locked row, nothing is deleted and execute reports false.
func (s *deletionServiceImpl) execute(ctx context.Context, userID string, override domain.DeletionMode, eligible func(*domain.User) bool) (bool, error) {
	var (
		deleted *domain.User
		mode    domain.DeletionMode
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.LockUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if user == nil {
			if eligible != nil {
				return nil
			}
			return domain.NewUserNotFoundError()
		}
		if user.IsPlaceholder {
			return domain.NewInvalidOperationError("The placeholder account cannot be deleted")
		}
		if eligible != nil && !eligible(user) {
			return nil
		}

		mode = effectiveMode(user, override)
		if err := s.cascade(ctx, user, mode); err != nil {
			return err
		}
		deleted = user
		return nil
	})
	if err != nil {
		if mode != "" {
			s.recorder.RecordDeletion(string(mode), metrics.ResultFailure)
		}
		return false, err
	}
	if deleted == nil {
		logger.Get().Info("Skipped deletion of account no longer due", zap.String("user_id", userID))
		return false, nil
	}

	s.recorder.RecordDeletion(string(mode), metrics.ResultSuccess)
	s.tombstoneProfile(ctx, deleted.ID)
	logger.Get().Info("Account deleted",
		zap.String("user_id", deleted.ID),
		zap.String("mode", string(mode)))

	// The outbox row stays for the relay if this attempt fails.
	if err := s.relay.Deliver(ctx, deleted.AuthID, 0, s.now()); err != nil {
		logger.Get().Warn("Identity cleanup deferred to outbox relay",
			zap.String("user_id", deleted.ID),
			zap.Error(err))
	}
	return true, nil
}

func effectiveMode(user *domain.User, override domain.DeletionMode) domain.DeletionMode {
	if override != "" {
		return override
	}
	if pending, ok := user.PendingDeletion(); ok && pending.Mode != "" {
		return pending.Mode
	}
	return domain.DefaultDeletionMode
}

// cascade removes everything that references user, then user itself. It runs
// inside the execute transaction and every step is safe to repeat.
func (s *deletionServiceImpl) cascade(ctx context.Context, user *domain.User, mode domain.DeletionMode) error {
	quizIDs, err := s.quizzes.ListQuizIDsByOwner(ctx, user.ID)
	if err != nil {
		return err
	}

	switch mode {
	case domain.ModePreserveQuizzes:
		placeholder, err := s.users.EnsurePlaceholder(ctx)
		if err != nil {
			return fmt.Errorf("failed to ensure placeholder user: %w", err)
		}
		if _, err := s.quizzes.ReassignOwner(ctx, user.ID, placeholder.ID); err != nil {
			return err
		}
	default:
		if len(quizIDs) > 0 {
			if err := s.users.RemoveQuizzesFromAllFavourites(ctx, quizIDs); err != nil {
				return err
			}
			if _, err := s.quizzes.DeleteQuizzesByOwner(ctx, user.ID); err != nil {
				return err
			}
		}
	}

	if _, err := s.quizzes.RemoveAttemptsByUser(ctx, user.ID); err != nil {
		return err
	}
	if _, err := s.friendships.DeleteFriendshipsByUser(ctx, user.ID); err != nil {
		return err
	}
	ok, err := s.users.DeleteUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewUserNotFoundError()
	}
	if err := s.outbox.Enqueue(ctx, user.AuthID, s.now()); err != nil {
		return fmt.Errorf("failed to enqueue identity deletion: %w", err)
	}

	logger.Get().Debug("Deletion cascade applied",
		zap.String("user_id", user.ID),
		zap.String("mode", string(mode)),
		zap.Int("owned_quizzes", len(quizIDs)))
	return nil
}

func (s *deletionServiceImpl) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.UserProfileKey(userID)); err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Failed to invalidate profile cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// tombstoneProfile marks userID deleted before dropping its cached profile, so
// a profile read racing the delete removes what it writes back.
func (s *deletionServiceImpl) tombstoneProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cache.UserTombstoneKey(userID), "1", cache.TombstoneTTL); err != nil {
		logger.Get().Warn("Failed to write profile tombstone", zap.String("user_id", userID), zap.Error(err))
	}
	s.invalidateProfile(ctx, userID)
}
