package account

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

func newSignupUseCase(repo *fakeUserRepo, sessions *fakeSessionStore, secure bool) *SignupUseCase {
	creds := NewCredentialStore(repo, logger.NewNop())
	return NewSignupUseCase(creds, sessions, fakeGate{secure: secure}, logger.NewNop())
}

func TestSignup_Success(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	uc := newSignupUseCase(repo, sessions, true)

	output, err := uc.Execute(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "Ada@Example.COM",
		Password: "luggage12345",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", output.User.Email)
	assert.Equal(t, "Ada", output.User.Name)
	assert.NotEmpty(t, output.SessionToken)

	// Session points back at the new user.
	id, err := sessions.Resolve(context.Background(), output.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, output.User.ID, id)

	// Plaintext never persisted.
	stored := repo.snapshot("ada@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "luggage12345", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "luggage12345")
}

func TestSignup_Validation(t *testing.T) {
	uc := newSignupUseCase(newFakeUserRepo(), newFakeSessionStore(), true)

	cases := []struct {
		name  string
		input SignupInput
	}{
		{"missing email", SignupInput{Name: "No Email", Password: "luggage"}},
		{"missing password", SignupInput{Name: "No Password", Email: "a@b.com"}},
		{"missing name", SignupInput{Email: "a@b.com", Password: "luggage"}},
		{"malformed email", SignupInput{Name: "Typo", Email: "not-an-email", Password: "luggage"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.input)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}

func TestSignup_DuplicateEmailAnyCase(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newSignupUseCase(repo, newFakeSessionStore(), true)

	_, err := uc.Execute(context.Background(), SignupInput{Name: "First", Email: "Foo@Bar.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), SignupInput{Name: "Second", Email: "foo@BAR.COM", Password: "pw2"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, repo.count())
}

func TestSignup_InsecureChannelTouchesNothing(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	uc := newSignupUseCase(repo, sessions, false)

	_, err := uc.Execute(context.Background(), SignupInput{Name: "Eve", Email: "eve@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrInsecureChannel)

	assert.Equal(t, 0, repo.count())
	assert.Empty(t, sessions.sessions)
}

func TestSignup_ConcurrentSameEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newSignupUseCase(repo, newFakeSessionStore(), true)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Execute(context.Background(), SignupInput{
				Name:     "Racer",
				Email:    "race@example.com",
				Password: "pw",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, apperror.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, repo.count())
}
