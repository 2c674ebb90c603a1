// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package postgres implements the account directory and company registry on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// poolIface is the pgxpool surface the repository uses. pgxmock.PgxPoolIface
// satisfies it in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const selectAccount = `
SELECT a.id, a.name, a.email, a.password_hash, a.phone_number, a.role, a.bio,
       a.resume_url, a.resume_storage_id, a.profile_pic_url, a.profile_pic_storage_id,
       a.subscription, a.created_at,
       COALESCE(ARRAY_AGG(DISTINCT s.name ORDER BY s.name) FILTER (WHERE s.name IS NOT NULL), '{}') AS skills
FROM accounts a
LEFT JOIN account_skills ak ON ak.account_id = a.id
LEFT JOIN skills s ON s.id = ak.skill_id
`

// accountRow mirrors selectAccount's columns for pgxscan.
type accountRow struct {
	ID                  string     `db:"id"`
	Name                string     `db:"name"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	PhoneNumber         string     `db:"phone_number"`
	Role                string     `db:"role"`
	Bio                 *string    `db:"bio"`
	ResumeURL           *string    `db:"resume_url"`
	ResumeStorageID     *string    `db:"resume_storage_id"`
	ProfilePicURL       *string    `db:"profile_pic_url"`
	ProfilePicStorageID *string    `db:"profile_pic_storage_id"`
	Subscription        *time.Time `db:"subscription"`
	CreatedAt           time.Time  `db:"created_at"`
	Skills              []string   `db:"skills"`
}

func (r accountRow) account() (*auth.Account, error) {
	id, err := ulid.Parse(r.ID)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CORRUPT_ID").With("account_id", r.ID).Wrap(err)
	}
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return &auth.Account{
		ID:                  id,
		Name:                r.Name,
		Email:               r.Email,
		PasswordHash:        r.PasswordHash,
		PhoneNumber:         r.PhoneNumber,
		Role:                auth.Role(r.Role),
		Bio:                 r.Bio,
		ResumeURL:           r.ResumeURL,
		ResumeStorageID:     r.ResumeStorageID,
		ProfilePicURL:       r.ProfilePicURL,
		ProfilePicStorageID: r.ProfilePicStorageID,
		Subscription:        r.Subscription,
		Skills:              skills,
		CreatedAt:           r.CreatedAt,
	}, nil
}

// AccountRepository implements auth.AccountRepository and the profile
// repository on PostgreSQL.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a repository over pool, typically a *pgxpool.Pool.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

var _ auth.AccountRepository = (*AccountRepository)(nil)

// Create inserts account and fills its CreatedAt. A unique violation on
// email is reported as auth.ErrEmailTaken.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, phone_number, role, bio,
		                      resume_url, resume_storage_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		account.ID.String(), account.Name, account.Email, account.PasswordHash,
		account.PhoneNumber, string(account.Role), account.Bio,
		account.ResumeURL, account.ResumeStorageID,
	).Scan(&account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ACCOUNT_EMAIL_TAKEN").With("constraint", pgErr.ConstraintName).Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").With("operation", "insert account").Wrap(err)
	}
	if account.Skills == nil {
		account.Skills = []string{}
	}
	return nil
}

// GetByEmail returns the account registered under email, skills aggregated.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.getOne(ctx, "email", selectAccount+`WHERE a.email = $1 GROUP BY a.id`, email)
}

// GetByID returns the account with id, skills aggregated.
func (r *AccountRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	return r.getOne(ctx, "id", selectAccount+`WHERE a.id = $1 GROUP BY a.id`, id.String())
}

func (r *AccountRepository) getOne(ctx context.Context, by, query string, arg string) (*auth.Account, error) {
	var row accountRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, oops.Code("ACCOUNT_NOT_FOUND").With("by", by).Wrap(auth.ErrNotFound)
		}
		return nil, oops.Code("ACCOUNT_QUERY_FAILED").With("by", by).Wrap(err)
	}
	return row.account()
}

// UpdatePassword replaces the stored hash for id.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	return r.update(ctx, "password", id,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`,
		passwordHash)
}

// UpdateDetails applies the non-empty fields of u.
func (r *AccountRepository) UpdateDetails(ctx context.Context, id ulid.ULID, u auth.ProfileUpdate) error {
	return r.update(ctx, "details", id, `
		UPDATE accounts
		SET name = COALESCE(NULLIF($2, ''), name),
		    phone_number = COALESCE(NULLIF($3, ''), phone_number),
		    bio = COALESCE(NULLIF($4, ''), bio),
		    updated_at = now()
		WHERE id = $1`,
		u.Name, u.PhoneNumber, u.Bio)
}

// UpdateResume points the account at a newly stored resume.
func (r *AccountRepository) UpdateResume(ctx context.Context, id ulid.ULID, file auth.StoredFile) error {
	return r.update(ctx, "resume", id,
		`UPDATE accounts SET resume_url = $2, resume_storage_id = $3, updated_at = now() WHERE id = $1`,
		file.URL, file.StorageID)
}

// UpdateProfilePicture points the account at a newly stored picture.
func (r *AccountRepository) UpdateProfilePicture(ctx context.Context, id ulid.ULID, file auth.StoredFile) error {
	return r.update(ctx, "profile_picture", id,
		`UPDATE accounts SET profile_pic_url = $2, profile_pic_storage_id = $3, updated_at = now() WHERE id = $1`,
		file.URL, file.StorageID)
}

func (r *AccountRepository) update(ctx context.Context, field string, id ulid.ULID, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, append([]any{id.String()}, args...)...)
	if err != nil {
		return oops.Code("ACCOUNT_UPDATE_FAILED").With("field", field).With("account_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").With("account_id", id.String()).Wrap(auth.ErrNotFound)
	}
	return nil
}
