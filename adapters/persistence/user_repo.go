package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type postgresUserRepo struct {
	db     DB
	logger logger.Logger
}

func NewPostgresUserRepo(db DB, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

func (r *postgresUserRepo) Insert(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`
	_, err := r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperror.NewConflict("User", "email", u.Email)
		}
		return apperror.NewInternal("failed to insert user", err)
	}
	return nil
}

const userColumns = `id, name, email, password_hash, reset_token_hash, reset_expires_at, created_at, updated_at`

func (r *postgresUserRepo) scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var resetHash *string
	var resetExpires *time.Time

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&resetHash,
		&resetExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resetHash != nil && resetExpires != nil {
		u.Reset = &user.ResetRecord{HashedToken: *resetHash, Expires: *resetExpires}
	}
	return u, nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

	u, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User", email)
		}
		return nil, apperror.NewInternal("failed to query user by email", err)
	}
	return u, nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("User", id.String())
		}
		return nil, apperror.NewInternal("failed to query user by id", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperror.NewConflict("User", "email", u.Email)
		}
		return apperror.NewInternal("failed to update user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("User", u.ID.String())
	}
	return nil
}

func (r *postgresUserRepo) SetResetToken(ctx context.Context, email, hashedToken string, expires time.Time) error {
	query := `
		UPDATE users
		SET reset_token_hash = $2, reset_expires_at = $3, updated_at = now()
		WHERE email = lower($1)
	`
	tag, err := r.db.Exec(ctx, query, email, hashedToken, expires)
	if err != nil {
		return apperror.NewInternal("failed to set reset token", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("User", email)
	}
	return nil
}

// ConsumeResetToken clears the pending reset and returns the user in one
// conditional UPDATE. Match, expiry check and clear happen in a single
// statement, so two concurrent redemptions of the same token see exactly
// one row affected between them.
func (r *postgresUserRepo) ConsumeResetToken(ctx context.Context, email, hashedToken string, now time.Time) (*user.User, error) {
	query := `
		UPDATE users
		SET reset_token_hash = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE email = lower($1) AND reset_token_hash = $2 AND reset_expires_at > $3
		RETURNING id, name, email, password_hash, created_at, updated_at
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, email, hashedToken, now).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("PendingReset", email)
		}
		return nil, apperror.NewInternal("failed to consume reset token", err)
	}
	return u, nil
}
