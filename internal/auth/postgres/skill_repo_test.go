// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/pkg/errutil"
)

const (
	lockAccountSQL = "SELECT 1 FROM accounts WHERE id = $1 FOR SHARE"
	upsertSkillSQL = "INSERT INTO skills (name) VALUES ($1)"
	linkSkillSQL   = "INSERT INTO account_skills (account_id, skill_id) VALUES ($1, $2)"
)

func TestAccountRepository_AddSkill(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		linked    int64
		wantAdded bool
	}{
		{name: "new association", linked: 1, wantAdded: true},
		{name: "already linked", linked: 0, wantAdded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta(lockAccountSQL)).
				WithArgs(id.String()).
				WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
			mock.ExpectQuery(regexp.QuoteMeta(upsertSkillSQL)).
				WithArgs("Go").
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
			mock.ExpectExec(regexp.QuoteMeta(linkSkillSQL)).
				WithArgs(id.String(), int64(7)).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.linked))
			mock.ExpectCommit()

			added, err := NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdded, added)
		})
	}
}

func TestAccountRepository_AddSkill_RollsBack(t *testing.T) {
	id := ulid.Make()

	t.Run("unknown account", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(lockAccountSQL)).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}))
		mock.ExpectRollback()

		_, err := NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("link failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(lockAccountSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(upsertSkillSQL)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectExec(regexp.QuoteMeta(linkSkillSQL)).
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		_, err := NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
		errutil.AssertErrorCode(t, err, "SKILL_ADD_FAILED")
		errutil.AssertErrorContext(t, err, "step", "link skill")
	})

	t.Run("rollback failure keeps both errors", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(lockAccountSQL)).
			WillReturnError(errors.New("conn lost"))
		mock.ExpectRollback().WillReturnError(errors.New("tx closed"))

		_, err := NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
		errutil.AssertErrorCode(t, err, "TX_ROLLBACK_FAILED")
		assert.Contains(t, err.Error(), "tx closed")
	})
}

func TestAccountRepository_AddSkill_BeginAndCommitFailures(t *testing.T) {
	id := ulid.Make()

	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
	_, err := NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
	errutil.AssertErrorCode(t, err, "TX_BEGIN_FAILED")

	mock = newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockAccountSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(upsertSkillSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta(linkSkillSQL)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
	_, err = NewAccountRepository(mock).AddSkill(context.Background(), id, "Go")
	errutil.AssertErrorCode(t, err, "TX_COMMIT_FAILED")
}

func TestAccountRepository_RemoveSkill(t *testing.T) {
	id := ulid.Make()

	for _, affected := range []int64{0, 1} {
		mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM account_skills")).
			WithArgs(id.String(), "Go").
			WillReturnResult(pgxmock.NewResult("DELETE", affected))

		removed, err := NewAccountRepository(mock).RemoveSkill(context.Background(), id, "Go")
		require.NoError(t, err)
		assert.Equal(t, affected == 1, removed)
	}

	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM account_skills")).
		WillReturnError(errors.New("boom"))
	_, err := NewAccountRepository(mock).RemoveSkill(context.Background(), id, "Go")
	errutil.AssertErrorCode(t, err, "SKILL_REMOVE_FAILED")
}
