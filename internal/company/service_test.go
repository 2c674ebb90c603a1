// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package company_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/auth/mocks"
	"github.com/hireheaven/hireheaven/internal/company"
)

// fakeCompanies is an in-memory company repository keyed by name.
type fakeCompanies struct {
	byName    map[string]*company.Company
	lookupErr error
	createErr error
}

func newFakeCompanies() *fakeCompanies {
	return &fakeCompanies{byName: map[string]*company.Company{}}
}

func (f *fakeCompanies) NameTaken(_ context.Context, name string) (bool, error) {
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.byName[name]
	return ok, nil
}

func (f *fakeCompanies) Create(_ context.Context, c *company.Company) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byName[c.Name]; ok {
		return company.ErrNameTaken
	}
	c.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cp := *c
	f.byName[c.Name] = &cp
	return nil
}

func recruiter() *auth.Account {
	return &auth.Account{ID: ulid.Make(), Name: "Grace", Role: auth.RoleRecruiter}
}

func validInput() company.CreateInput {
	return company.CreateInput{
		Name:        " Initech ",
		Description: "Software that works",
		Website:     "https://initech.example.com",
		Logo:        &auth.Attachment{Filename: "logo.png", ContentType: "image/png", Content: []byte("png")},
	}
}

func newService(t *testing.T, account *auth.Account, repo company.Repository, uploader auth.Uploader) *company.Service {
	t.Helper()
	accounts := mocks.NewMockAccountRepository(t)
	if account != nil {
		accounts.On("GetByID", mock.Anything, account.ID).Return(account, nil).Maybe()
	}
	svc, err := company.NewService(accounts, repo, uploader, nil)
	require.NoError(t, err)
	return svc
}

func requireKind(t *testing.T, err error, kind auth.Kind) *auth.Failure {
	t.Helper()
	var f *auth.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, kind, f.Kind)
	return f
}

func TestNewService_RequiresDependencies(t *testing.T) {
	accounts := mocks.NewMockAccountRepository(t)
	uploader := mocks.NewMockUploader(t)

	_, err := company.NewService(nil, newFakeCompanies(), uploader, nil)
	require.Error(t, err)
	_, err = company.NewService(accounts, nil, uploader, nil)
	require.Error(t, err)
	_, err = company.NewService(accounts, newFakeCompanies(), nil, nil)
	require.Error(t, err)
}

func TestService_Create(t *testing.T) {
	owner := recruiter()
	repo := newFakeCompanies()
	uploader := mocks.NewMockUploader(t)
	uploader.On("Upload", mock.Anything, mock.MatchedBy(func(a auth.Attachment) bool { return a.Filename == "logo.png" })).
		Return(auth.StoredFile{URL: "https://cdn.example.com/logo.png", StorageID: "logos/logo.png"}, nil).Once()

	before := testutil.ToFloat64(company.Creations.WithLabelValues(company.OutcomeCreated))

	got, err := newService(t, owner, repo, uploader).Create(context.Background(), owner.ID, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.Name)
	assert.Equal(t, "https://cdn.example.com/logo.png", got.LogoURL)
	assert.Equal(t, "logos/logo.png", got.LogoStorageID)
	assert.Equal(t, owner.ID, got.RecruiterID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Contains(t, repo.byName, "Initech")
	assert.InDelta(t, before+1, testutil.ToFloat64(company.Creations.WithLabelValues(company.OutcomeCreated)), 0)
}

func TestService_Create_RejectsJobseekers(t *testing.T) {
	seeker := recruiter()
	seeker.Role = auth.RoleJobseeker
	repo := newFakeCompanies()
	uploader := mocks.NewMockUploader(t)

	_, err := newService(t, seeker, repo, uploader).Create(context.Background(), seeker.ID, validInput())
	f := requireKind(t, err, auth.KindForbidden)
	assert.Equal(t, company.MsgForbidden, f.Message)
	assert.Empty(t, repo.byName)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestService_Create_UnknownAccount(t *testing.T) {
	accounts := mocks.NewMockAccountRepository(t)
	accounts.On("GetByID", mock.Anything, mock.Anything).Return(nil, auth.ErrNotFound)
	svc, err := company.NewService(accounts, newFakeCompanies(), mocks.NewMockUploader(t), nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ulid.Make(), validInput())
	f := requireKind(t, err, auth.KindNotFound)
	assert.Equal(t, auth.MsgUserNotFound, f.Message)
}

func TestService_Create_RequiresFields(t *testing.T) {
	owner := recruiter()
	tests := []struct {
		name   string
		mutate func(*company.CreateInput)
	}{
		{"name", func(in *company.CreateInput) { in.Name = "  " }},
		{"description", func(in *company.CreateInput) { in.Description = "" }},
		{"website", func(in *company.CreateInput) { in.Website = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := newService(t, owner, newFakeCompanies(), mocks.NewMockUploader(t)).Create(context.Background(), owner.ID, in)
			f := requireKind(t, err, auth.KindValidation)
			assert.Equal(t, company.MsgMissingFields, f.Message)
		})
	}
}

func TestService_Create_DuplicateNameSkipsUpload(t *testing.T) {
	owner := recruiter()
	repo := newFakeCompanies()
	repo.byName["Initech"] = &company.Company{Name: "Initech"}
	uploader := mocks.NewMockUploader(t)

	_, err := newService(t, owner, repo, uploader).Create(context.Background(), owner.ID, validInput())
	f := requireKind(t, err, auth.KindConflict)
	assert.Equal(t, company.MsgNameTaken, f.Message)
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestService_Create_RequiresLogo(t *testing.T) {
	owner := recruiter()
	in := validInput()
	in.Logo = nil

	_, err := newService(t, owner, newFakeCompanies(), mocks.NewMockUploader(t)).Create(context.Background(), owner.ID, in)
	f := requireKind(t, err, auth.KindValidation)
	assert.Equal(t, company.MsgLogoRequired, f.Message)
}

func TestService_Create_UploadFailure(t *testing.T) {
	owner := recruiter()
	repo := newFakeCompanies()
	uploader := mocks.NewMockUploader(t)
	uploader.On("Upload", mock.Anything, mock.Anything).Return(auth.StoredFile{}, errors.New("s3 down"))

	_, err := newService(t, owner, repo, uploader).Create(context.Background(), owner.ID, validInput())
	f := requireKind(t, err, auth.KindUpstream)
	assert.Equal(t, auth.MsgUploadFailed, f.Message)
	assert.Empty(t, repo.byName)
}

func TestService_Create_FailedInsertRemovesLogo(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		kind      auth.Kind
	}{
		{"name raced", company.ErrNameTaken, auth.KindConflict},
		{"store down", errors.New("db down"), auth.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner := recruiter()
			repo := newFakeCompanies()
			repo.createErr = tt.createErr
			uploader := mocks.NewMockUploader(t)
			uploader.On("Upload", mock.Anything, mock.Anything).
				Return(auth.StoredFile{URL: "https://cdn.example.com/logo.png", StorageID: "logos/logo.png"}, nil)
			uploader.On("Delete", mock.Anything, "logos/logo.png").Return(nil).Once()

			_, err := newService(t, owner, repo, uploader).Create(context.Background(), owner.ID, validInput())
			requireKind(t, err, tt.kind)
		})
	}
}

func TestService_Create_NameLookupFailure(t *testing.T) {
	owner := recruiter()
	repo := newFakeCompanies()
	repo.lookupErr = errors.New("db down")

	_, err := newService(t, owner, repo, mocks.NewMockUploader(t)).Create(context.Background(), owner.ID, validInput())
	f := requireKind(t, err, auth.KindInternal)
	assert.Equal(t, auth.MsgInternal, f.Message)
}
