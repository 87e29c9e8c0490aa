package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"quizhub/internal/domain"
	"quizhub/internal/util"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories. Transactions
// are serialised and roll back to a snapshot on error, which mirrors the row lock
// taken by LockUserByID.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users       map[string]*domain.User
	quizzes     map[string]*domain.Quiz
	friendships map[string]*domain.Friendship
	outbox      map[string]*domain.IdentityDeletion

	deleteUserCalls int
	failDeleteUser  map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:          map[string]*domain.User{},
		quizzes:        map[string]*domain.Quiz{},
		friendships:    map[string]*domain.Friendship{},
		outbox:         map[string]*domain.IdentityDeletion{},
		failDeleteUser: map[string]error{},
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Favourites = append([]string(nil), u.Favourites...)
	return &c
}

func copyQuiz(q *domain.Quiz) *domain.Quiz {
	c := *q
	c.Questions = append([]domain.Question(nil), q.Questions...)
	c.Attempts = append([]domain.Attempt(nil), q.Attempts...)
	return &c
}

type memSnapshot struct {
	users       map[string]*domain.User
	quizzes     map[string]*domain.Quiz
	friendships map[string]*domain.Friendship
	outbox      map[string]*domain.IdentityDeletion
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		users:       make(map[string]*domain.User, len(s.users)),
		quizzes:     make(map[string]*domain.Quiz, len(s.quizzes)),
		friendships: make(map[string]*domain.Friendship, len(s.friendships)),
		outbox:      make(map[string]*domain.IdentityDeletion, len(s.outbox)),
	}
	for k, v := range s.users {
		snap.users[k] = copyUser(v)
	}
	for k, v := range s.quizzes {
		snap.quizzes[k] = copyQuiz(v)
	}
	for k, v := range s.friendships {
		f := *v
		snap.friendships[k] = &f
	}
	for k, v := range s.outbox {
		d := *v
		snap.outbox[k] = &d
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.quizzes, s.friendships, s.outbox = snap.users, snap.quizzes, snap.friendships, snap.outbox
}

// --- domain.TransactionManager ---

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// --- seeding helpers ---

func (s *memStore) addUser(id, authID, username string) *domain.User {
	u := domain.NewUser(id, authID, username, username+"@example.com")
	s.mu.Lock()
	s.users[id] = u
	s.mu.Unlock()
	return copyUser(u)
}

func (s *memStore) addQuiz(id, owner string) *domain.Quiz {
	q := &domain.Quiz{
		ID:        id,
		Title:     "Quiz " + id,
		Category:  "science",
		CreatedBy: owner,
		Questions: []domain.Question{{
			ID:   id + "-q1",
			Text: "Question",
			Answers: []domain.Answer{
				{ID: id + "-a1", Text: "Right", IsCorrect: true},
				{ID: id + "-a2", Text: "Wrong"},
			},
		}},
		ReqToPass: 1,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.quizzes[id] = q
	s.mu.Unlock()
	return copyQuiz(q)
}

func (s *memStore) user(id string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u)
	}
	return nil
}

func (s *memStore) quiz(id string) *domain.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.quizzes[id]; ok {
		return copyQuiz(q)
	}
	return nil
}

func (s *memStore) placeholders() []*domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, u := range s.users {
		if u.AuthID == domain.PlaceholderAuthID {
			out = append(out, copyUser(u))
		}
	}
	return out
}

// --- domain.UserRepository ---

func (s *memStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthID == user.AuthID {
			return domain.NewConflictError("User already exists")
		}
		if !u.IsPlaceholder && strings.EqualFold(u.Username, user.Username) {
			return domain.NewConflictError("Username already taken")
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *memStore) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.user(userID), nil
}

func (s *memStore) GetUserByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthID == authID {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (s *memStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if !u.IsPlaceholder && strings.EqualFold(u.Username, username) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (s *memStore) LockUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.user(userID), nil
}

func (s *memStore) UsernameTaken(ctx context.Context, username string, excludeUserID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if !u.IsPlaceholder && u.ID != excludeUserID && strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SearchUsers(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, u := range s.users {
		if !u.IsPlaceholder && strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) UpdateProfile(ctx context.Context, userID string, update domain.UserProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.IsPlaceholder {
		return nil, nil
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.ProfilePic != nil {
		u.ProfilePic = *update.ProfilePic
	}
	if update.Theme != nil {
		u.Theme = *update.Theme
	}
	return copyUser(u), nil
}

func (s *memStore) ScheduleDeletion(ctx context.Context, userID string, pending domain.PendingDeletion) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.IsPlaceholder || u.Status() != domain.StatusActive {
		return false, nil
	}
	u.Lifecycle = pending
	return true, nil
}

func (s *memStore) CancelDeletion(ctx context.Context, authID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthID == authID && u.Status() == domain.StatusPendingDeletion {
			u.Lifecycle = domain.Active{}
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) ListDueDeletions(ctx context.Context, now time.Time) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.User
	for _, u := range s.users {
		if p, ok := u.PendingDeletion(); ok && !u.IsPlaceholder && p.Due(now) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) EnsurePlaceholder(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthID == domain.PlaceholderAuthID {
			u.IsPlaceholder = true
			return copyUser(u), nil
		}
	}
	p := domain.NewUser(util.NewULID(), domain.PlaceholderAuthID, domain.PlaceholderUsername, domain.PlaceholderEmail)
	p.IsPlaceholder = true
	s.users[p.ID] = p
	return copyUser(p), nil
}

func (s *memStore) DeleteUser(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failDeleteUser[userID]; err != nil {
		return false, err
	}
	u, ok := s.users[userID]
	if !ok || u.IsPlaceholder {
		return false, nil
	}
	delete(s.users, userID)
	s.deleteUserCalls++
	return true, nil
}

func (s *memStore) AddFavourite(ctx context.Context, userID, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	if !u.HasFavourite(quizID) {
		u.Favourites = append(u.Favourites, quizID)
	}
	return nil
}

func (s *memStore) RemoveFavourite(ctx context.Context, userID, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Favourites = without(u.Favourites, map[string]bool{quizID: true})
	}
	return nil
}

func (s *memStore) RemoveQuizzesFromAllFavourites(ctx context.Context, quizIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]bool, len(quizIDs))
	for _, id := range quizIDs {
		drop[id] = true
	}
	for _, u := range s.users {
		u.Favourites = without(u.Favourites, drop)
	}
	return nil
}

func without(ids []string, drop map[string]bool) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

// --- domain.QuizRepository ---

func (s *memStore) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = copyQuiz(quiz)
	return nil
}

func (s *memStore) GetQuizByID(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return s.quiz(quizID), nil
}

func (s *memStore) QuizExists(ctx context.Context, quizID string) (bool, error) {
	return s.quiz(quizID) != nil, nil
}

func (s *memStore) ListQuizzes(ctx context.Context, category string) ([]domain.QuizSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.QuizSummary{}
	for _, q := range s.quizzes {
		if category == "" || q.Category == category {
			out = append(out, domain.QuizSummary{ID: q.ID, Title: q.Title, Category: q.Category, CreatedBy: q.CreatedBy, QuestionCount: len(q.Questions)})
		}
	}
	return out, nil
}

func (s *memStore) GetQuizSummaries(ctx context.Context, quizIDs []string) ([]domain.QuizSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.QuizSummary{}
	for _, id := range quizIDs {
		if q, ok := s.quizzes[id]; ok {
			out = append(out, domain.QuizSummary{ID: q.ID, Title: q.Title, Category: q.Category, CreatedBy: q.CreatedBy, QuestionCount: len(q.Questions)})
		}
	}
	return out, nil
}

func (s *memStore) DeleteQuiz(ctx context.Context, quizID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return false, nil
	}
	delete(s.quizzes, quizID)
	return true, nil
}

func (s *memStore) AddAttempt(ctx context.Context, attempt *domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[attempt.QuizID]
	if !ok {
		return errors.New("quiz does not exist")
	}
	q.Attempts = append(q.Attempts, *attempt)
	return nil
}

func (s *memStore) ListQuizIDsByOwner(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for _, q := range s.quizzes {
		if q.CreatedBy == userID {
			ids = append(ids, q.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memStore) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, q := range s.quizzes {
		if q.CreatedBy == fromUserID {
			q.CreatedBy = toUserID
			n++
		}
	}
	return n, nil
}

func (s *memStore) DeleteQuizzesByOwner(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, q := range s.quizzes {
		if q.CreatedBy == userID {
			delete(s.quizzes, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) RemoveAttemptsByUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, q := range s.quizzes {
		kept := q.Attempts[:0:0]
		for _, a := range q.Attempts {
			if a.UserID == userID {
				n++
				continue
			}
			kept = append(kept, a)
		}
		q.Attempts = kept
	}
	return n, nil
}

// --- domain.FriendshipRepository ---

func (s *memStore) CreateFriendship(ctx context.Context, f *domain.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.friendships {
		if existing.Involves(f.User1ID) && existing.Involves(f.User2ID) {
			return domain.NewConflictError("Friendship already exists")
		}
	}
	c := *f
	s.friendships[f.ID] = &c
	return nil
}

func (s *memStore) GetFriendship(ctx context.Context, a, b string) (*domain.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.friendships {
		if f.Involves(a) && f.Involves(b) {
			c := *f
			return &c, nil
		}
	}
	return nil, nil
}

func (s *memStore) AcceptFriendship(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.friendships[id]; ok {
		f.Accepted = true
	}
	return nil
}

func (s *memStore) DeleteFriendship(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.friendships, id)
	return nil
}

func (s *memStore) ListFriendships(ctx context.Context, userID string) ([]*domain.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Friendship
	for _, f := range s.friendships {
		if f.Involves(userID) {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) DeleteFriendshipsByUser(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, f := range s.friendships {
		if f.Involves(userID) {
			delete(s.friendships, id)
			n++
		}
	}
	return n, nil
}

// --- domain.IdentityOutbox ---

func (s *memStore) Enqueue(ctx context.Context, authID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.outbox[authID]; !ok {
		s.outbox[authID] = &domain.IdentityDeletion{ID: util.NewULID(), AuthID: authID, NextAttemptAt: at, CreatedAt: at}
	}
	return nil
}

func (s *memStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.IdentityDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.IdentityDeletion
	for _, d := range s.outbox {
		if !d.NextAttemptAt.After(now) {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuthID < out[j].AuthID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) MarkDelivered(ctx context.Context, authID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outbox, authID)
	return nil
}

func (s *memStore) MarkFailed(ctx context.Context, authID string, lastError string, nextAttemptAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.outbox[authID]; ok {
		d.Attempts++
		d.LastError = lastError
		d.NextAttemptAt = nextAttemptAt
	}
	return nil
}

func (s *memStore) outboxRow(authID string) *domain.IdentityDeletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.outbox[authID]; ok {
		c := *d
		return &c
	}
	return nil
}

// fakeIdentityAdmin records deleted provider accounts.
type fakeIdentityAdmin struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeIdentityAdmin) DeleteAccount(ctx context.Context, authID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, authID)
	return nil
}

func (f *fakeIdentityAdmin) DeleteAccounts(ctx context.Context, authIDs []string) error {
	for _, id := range authIDs {
		if err := f.DeleteAccount(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeIdentityAdmin) ListAccounts(ctx context.Context, pageSize int, pageToken string) (*domain.IdentityAccountPage, error) {
	return &domain.IdentityAccountPage{}, nil
}

func (f *fakeIdentityAdmin) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeIdentityAdmin) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// memCache is a map-backed domain.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
