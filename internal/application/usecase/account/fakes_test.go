package account

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

// fakeUserRepo mimics the Postgres repo, including the unique-index
// guarantee: Insert and Update reject duplicate normalized emails under a
// single lock, so concurrent creates behave like the real store.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) findByEmailLocked(email string) *user.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func clone(u *user.User) *user.User {
	cp := *u
	if u.Reset != nil {
		rc := *u.Reset
		cp.Reset = &rc
	}
	return &cp
}

func (r *fakeUserRepo) Insert(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findByEmailLocked(u.Email) != nil {
		return apperror.NewConflict("User", "email", u.Email)
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u := r.findByEmailLocked(email); u != nil {
		return clone(u), nil
	}
	return nil, apperror.NewNotFound("User", email)
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		return clone(u), nil
	}
	return nil, apperror.NewNotFound("User", id.String())
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return apperror.NewNotFound("User", u.ID.String())
	}
	if other := r.findByEmailLocked(u.Email); other != nil && other.ID != u.ID {
		return apperror.NewConflict("User", "email", u.Email)
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.PasswordHash = u.PasswordHash
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, email, hashedToken string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findByEmailLocked(email)
	if u == nil {
		return apperror.NewNotFound("User", email)
	}
	u.Reset = &user.ResetRecord{HashedToken: hashedToken, Expires: expires}
	return nil
}

func (r *fakeUserRepo) ConsumeResetToken(_ context.Context, email, hashedToken string, now time.Time) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.findByEmailLocked(email)
	if u == nil || u.Reset == nil || u.Reset.HashedToken != hashedToken || u.Reset.IsExpired(now) {
		return nil, apperror.NewNotFound("PendingReset", email)
	}
	u.Reset = nil
	return clone(u), nil
}

// expireReset backdates the pending reset, for expiry tests.
func (r *fakeUserRepo) expireReset(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u := r.findByEmailLocked(email); u != nil && u.Reset != nil {
		u.Reset.Expires = time.Now().Add(-time.Minute)
	}
}

func (r *fakeUserRepo) snapshot(email string) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u := r.findByEmailLocked(email); u != nil {
		return clone(u)
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
	seq      int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]uuid.UUID)}
}

func (s *fakeSessionStore) Create(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	token := fmt.Sprintf("session-token-%d", s.seq)
	s.sessions[token] = userID
	return token, nil
}

func (s *fakeSessionStore) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sessions[token]; ok {
		return id, nil
	}
	return uuid.Nil, apperror.NewNotFound("Session", "token")
}

func (s *fakeSessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

type fakeGate struct {
	secure bool
}

func (g fakeGate) Secure(context.Context) bool { return g.secure }

type captureMailer struct {
	mu     sync.Mutex
	sent   []string // reset strings in send order
	emails []string
	err    error
}

func (m *captureMailer) SendReset(_ context.Context, email, resetString string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.emails = append(m.emails, email)
	m.sent = append(m.sent, resetString)
	return nil
}

func (m *captureMailer) lastReset() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}
