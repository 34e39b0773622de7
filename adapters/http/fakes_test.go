package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haiminh/geoatlas/internal/domain/place"
	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *memUserRepo) byEmailLocked(email string) *user.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (r *memUserRepo) Insert(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byEmailLocked(u.Email) != nil {
		return apperror.NewConflict("User", "email", u.Email)
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.byEmailLocked(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("User", email)
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.NewNotFound("User", id.String())
}

func (r *memUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return apperror.NewNotFound("User", u.ID.String())
	}
	if other := r.byEmailLocked(u.Email); other != nil && other.ID != u.ID {
		return apperror.NewConflict("User", "email", u.Email)
	}
	stored.Name, stored.Email, stored.PasswordHash = u.Name, u.Email, u.PasswordHash
	return nil
}

func (r *memUserRepo) SetResetToken(_ context.Context, email, hashedToken string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byEmailLocked(email)
	if u == nil {
		return apperror.NewNotFound("User", email)
	}
	u.Reset = &user.ResetRecord{HashedToken: hashedToken, Expires: expires}
	return nil
}

func (r *memUserRepo) ConsumeResetToken(_ context.Context, email, hashedToken string, now time.Time) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byEmailLocked(email)
	if u == nil || u.Reset == nil || u.Reset.HashedToken != hashedToken || u.Reset.IsExpired(now) {
		return nil, apperror.NewNotFound("PendingReset", email)
	}
	u.Reset = nil
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]uuid.UUID
	seq      int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]uuid.UUID)}
}

func (s *memSessionStore) Create(_ context.Context, userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	token := fmt.Sprintf("tok-%d", s.seq)
	s.sessions[token] = userID
	return token, nil
}

func (s *memSessionStore) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.sessions[token]; ok {
		return id, nil
	}
	return uuid.Nil, apperror.NewNotFound("Session", "token")
}

func (s *memSessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

type memMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *memMailer) SendReset(_ context.Context, _, resetString string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, resetString)
	return nil
}

func (m *memMailer) lastReset() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type memPlaceRepo struct {
	places []place.Place
}

func (r *memPlaceRepo) FindInBBox(_ context.Context, box place.BBox, limit int) ([]place.Place, error) {
	results := make([]place.Place, 0)
	for _, p := range r.places {
		if p.Lon >= box.West && p.Lon <= box.East && p.Lat >= box.South && p.Lat <= box.North {
			results = append(results, p)
		}
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (r *memPlaceRepo) FindNear(_ context.Context, q place.NearQuery) ([]place.Place, error) {
	if q.Limit > 0 && len(r.places) > q.Limit {
		return r.places[:q.Limit], nil
	}
	return r.places, nil
}
