// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/profile"
)

var _ profile.Repository = (*AccountRepository)(nil)

// AddSkill links the named skill to the account in one transaction. The
// skill catalog row is created on first use and shared afterwards. added is
// false when the account already had the skill.
func (r *AccountRepository) AddSkill(ctx context.Context, id ulid.ULID, name string) (added bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, oops.Code("TX_BEGIN_FAILED").With("operation", "add skill").Wrap(err)
	}

	added, err = addSkillTx(ctx, tx, id.String(), name)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return false, oops.Code("TX_ROLLBACK_FAILED").With("cause", err.Error()).Wrap(rbErr)
		}
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, oops.Code("TX_COMMIT_FAILED").With("operation", "add skill").Wrap(err)
	}
	return added, nil
}

func addSkillTx(ctx context.Context, tx pgx.Tx, accountID, name string) (bool, error) {
	var exists int
	err := tx.QueryRow(ctx, `SELECT 1 FROM accounts WHERE id = $1 FOR SHARE`, accountID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, oops.Code("ACCOUNT_NOT_FOUND").With("account_id", accountID).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return false, oops.Code("SKILL_ADD_FAILED").With("step", "lock account").Wrap(err)
	}

	var skillID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO skills (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&skillID)
	if err != nil {
		return false, oops.Code("SKILL_ADD_FAILED").With("step", "upsert skill").With("skill", name).Wrap(err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO account_skills (account_id, skill_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, accountID, skillID)
	if err != nil {
		return false, oops.Code("SKILL_ADD_FAILED").With("step", "link skill").With("skill", name).Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveSkill unlinks the named skill from the account. The catalog row is
// kept. removed is false when no association existed.
func (r *AccountRepository) RemoveSkill(ctx context.Context, id ulid.ULID, name string) (removed bool, err error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM account_skills
		WHERE account_id = $1
		  AND skill_id = (SELECT id FROM skills WHERE name = $2)`,
		id.String(), name)
	if err != nil {
		return false, oops.Code("SKILL_REMOVE_FAILED").With("account_id", id.String()).With("skill", name).Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}
