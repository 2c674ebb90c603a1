// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/auth/postgres"
	"github.com/hireheaven/hireheaven/internal/company"
)

func createAccount(t *testing.T, repo *postgres.AccountRepository, email string) *auth.Account {
	t.Helper()
	account := &auth.Account{
		ID:           ulid.Make(),
		Name:         "Ada",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		PhoneNumber:  "555-0100",
		Role:         auth.RoleJobseeker,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	t.Cleanup(func() {
		_, _ = testPool.Exec(context.Background(), `DELETE FROM accounts WHERE id = $1`, account.ID.String())
	})
	return account
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewAccountRepository(testPool)

	created := createAccount(t, repo, "roundtrip@example.com")
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "roundtrip@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, []string{}, byEmail.Skills)
	assert.Nil(t, byEmail.Bio)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := postgres.NewAccountRepository(testPool)
	createAccount(t, repo, "dup@example.com")

	err := repo.Create(context.Background(), &auth.Account{
		ID: ulid.Make(), Name: "Eve", Email: "dup@example.com",
		PasswordHash: "x", PhoneNumber: "1", Role: auth.RoleRecruiter,
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestAccountRepository_ConcurrentRegistrationOneWins(t *testing.T) {
	repo := postgres.NewAccountRepository(testPool)
	ctx := context.Background()

	const racers = 8
	errs := make([]error, racers)
	ids := make([]ulid.ULID, racers)
	var wg sync.WaitGroup
	for i := range racers {
		ids[i] = ulid.Make()
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, &auth.Account{
				ID: ids[i], Name: "Racer", Email: "race@example.com",
				PasswordHash: "x", PhoneNumber: "1", Role: auth.RoleRecruiter,
			})
		}()
	}
	wg.Wait()
	t.Cleanup(func() {
		_, _ = testPool.Exec(ctx, `DELETE FROM accounts WHERE email = 'race@example.com'`)
	})

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	}
	assert.Equal(t, 1, wins)
}

func TestAccountRepository_ProfileUpdates(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewAccountRepository(testPool)
	account := createAccount(t, repo, "profile@example.com")

	require.NoError(t, repo.UpdateDetails(ctx, account.ID, auth.ProfileUpdate{Bio: "compiler person"}))
	require.NoError(t, repo.UpdateResume(ctx, account.ID, auth.StoredFile{URL: "https://cdn/r.pdf", StorageID: "resumes/r"}))
	require.NoError(t, repo.UpdateProfilePicture(ctx, account.ID, auth.StoredFile{URL: "https://cdn/p.png", StorageID: "avatars/p"}))
	require.NoError(t, repo.UpdatePassword(ctx, account.ID, "rehashed"))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name, "empty name keeps stored value")
	require.NotNil(t, got.Bio)
	assert.Equal(t, "compiler person", *got.Bio)
	require.NotNil(t, got.ResumeStorageID)
	assert.Equal(t, "resumes/r", *got.ResumeStorageID)
	require.NotNil(t, got.ProfilePicURL)
	assert.Equal(t, "https://cdn/p.png", *got.ProfilePicURL)
	assert.Equal(t, "rehashed", got.PasswordHash)

	err = repo.UpdatePassword(ctx, ulid.Make(), "x")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestAccountRepository_SkillAssociations(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewAccountRepository(testPool)
	ada := createAccount(t, repo, "skills-ada@example.com")
	bob := createAccount(t, repo, "skills-bob@example.com")

	added, err := repo.AddSkill(ctx, ada.ID, "Go")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddSkill(ctx, ada.ID, "Go")
	require.NoError(t, err)
	assert.False(t, added, "second add is a no-op")

	added, err = repo.AddSkill(ctx, bob.ID, "Go")
	require.NoError(t, err)
	assert.True(t, added, "catalog row is shared")

	_, err = repo.AddSkill(ctx, ada.ID, "Postgres")
	require.NoError(t, err)

	var links int
	require.NoError(t, testPool.QueryRow(ctx,
		`SELECT count(*) FROM account_skills WHERE account_id = $1`, ada.ID.String()).Scan(&links))
	assert.Equal(t, 2, links)

	got, err := repo.GetByID(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres"}, got.Skills)

	removed, err := repo.RemoveSkill(ctx, ada.ID, "Go")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.RemoveSkill(ctx, ada.ID, "Go")
	require.NoError(t, err)
	assert.False(t, removed)

	var catalog int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT count(*) FROM skills WHERE name = 'Go'`).Scan(&catalog))
	assert.Equal(t, 1, catalog, "catalog rows survive unlinking")

	_, err = repo.AddSkill(ctx, ulid.Make(), "Go")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestCompanyRepository_UniqueName(t *testing.T) {
	ctx := context.Background()
	owner := createAccount(t, postgres.NewAccountRepository(testPool), "company-owner@example.com")
	repo := postgres.NewCompanyRepository(testPool)

	first := &company.Company{
		ID:            ulid.Make(),
		Name:          "Initech",
		Description:   "Software that works",
		Website:       "https://initech.example.com",
		LogoURL:       "https://cdn.example.com/logo.png",
		LogoStorageID: "logos/logo.png",
		RecruiterID:   owner.ID,
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.False(t, first.CreatedAt.IsZero())

	taken, err := repo.NameTaken(ctx, "Initech")
	require.NoError(t, err)
	assert.True(t, taken)

	second := *first
	second.ID = ulid.Make()
	assert.ErrorIs(t, repo.Create(ctx, &second), company.ErrNameTaken)
}
