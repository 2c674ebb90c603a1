// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/company"
)

// CompanyRepository implements company.Repository on PostgreSQL.
type CompanyRepository struct {
	pool poolIface
}

// NewCompanyRepository creates a repository over pool, typically a *pgxpool.Pool.
func NewCompanyRepository(pool poolIface) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

var _ company.Repository = (*CompanyRepository)(nil)

// NameTaken reports whether a company is registered under name.
func (r *CompanyRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE name = $1)`, name).Scan(&taken)
	if err != nil {
		return false, oops.Code("COMPANY_QUERY_FAILED").With("company", name).Wrap(err)
	}
	return taken, nil
}

// Create inserts c and fills its CreatedAt. A unique violation on name is
// reported as company.ErrNameTaken.
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO companies (company_id, name, description, website, logo, logo_public_id, recruiter_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		c.ID.String(), c.Name, c.Description, c.Website,
		c.LogoURL, c.LogoStorageID, c.RecruiterID.String(),
	).Scan(&c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("COMPANY_NAME_TAKEN").With("constraint", pgErr.ConstraintName).Wrap(company.ErrNameTaken)
		}
		return oops.Code("COMPANY_CREATE_FAILED").With("company", c.Name).Wrap(err)
	}
	return nil
}
