// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package company registers the companies recruiters hire for.
package company

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// Messages returned to callers.
const (
	MsgCreated       = "Company create successfully"
	MsgForbidden     = "Forbidden - Only Recruiters can create companies"
	MsgMissingFields = "Bad Request - Missing required fields"
	MsgNameTaken     = "Conflict - Company with this name already exists"
	MsgLogoRequired  = "Company Logo is required"
)

// ErrNameTaken is returned by repositories when the unique name constraint rejects an insert.
var ErrNameTaken = errors.New("company name already registered")

// Company is a hiring organisation owned by one recruiter.
type Company struct {
	ID            ulid.ULID `json:"company_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Website       string    `json:"website"`
	LogoURL       string    `json:"logo"`
	LogoStorageID string    `json:"logo_public_id"`
	RecruiterID   ulid.ULID `json:"recruiter_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateInput is the recruiter's company submission.
type CreateInput struct {
	Name        string
	Description string
	Website     string
	Logo        *auth.Attachment
}

// Accounts resolves the caller's account.
type Accounts interface {
	GetByID(ctx context.Context, id ulid.ULID) (*auth.Account, error)
}

// Repository persists companies.
type Repository interface {
	// NameTaken reports whether a company is already registered under name.
	NameTaken(ctx context.Context, name string) (bool, error)

	// Create inserts company and fills its CreatedAt.
	// Returns ErrNameTaken when the name is already registered.
	Create(ctx context.Context, company *Company) error
}

// Service implements company registration.
type Service struct {
	accounts Accounts
	repo     Repository
	uploader auth.Uploader
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(accounts Accounts, repo Repository, uploader auth.Uploader, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("COMPANY_INVALID_DEPENDENCY").Errorf("account lookup is required")
	}
	if repo == nil {
		return nil, oops.Code("COMPANY_INVALID_DEPENDENCY").Errorf("company repository is required")
	}
	if uploader == nil {
		return nil, oops.Code("COMPANY_INVALID_DEPENDENCY").Errorf("uploader is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, repo: repo, uploader: uploader, logger: logger}, nil
}

// Create registers a company owned by recruiterID. Only recruiters may
// create companies and names are unique. The logo is uploaded last and
// removed again if the insert fails.
func (s *Service) Create(ctx context.Context, recruiterID ulid.ULID, in CreateInput) (*Company, error) {
	account, err := s.accounts.GetByID(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return nil, auth.NotFoundFailure(auth.MsgUserNotFound, err)
		}
		return nil, operationFailure(err, "load recruiter")
	}
	if account.Role != auth.RoleRecruiter {
		Creations.WithLabelValues(string(auth.KindForbidden)).Inc()
		return nil, auth.ForbiddenFailure(MsgForbidden)
	}

	company := &Company{
		ID:          ulid.Make(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Website:     strings.TrimSpace(in.Website),
		RecruiterID: recruiterID,
	}
	if company.Name == "" || company.Description == "" || company.Website == "" {
		return nil, auth.ValidationFailure(MsgMissingFields)
	}

	taken, err := s.repo.NameTaken(ctx, company.Name)
	if err != nil {
		return nil, operationFailure(err, "check company name")
	}
	if taken {
		Creations.WithLabelValues(string(auth.KindConflict)).Inc()
		return nil, auth.ConflictFailure(MsgNameTaken, nil)
	}

	if in.Logo.Empty() {
		return nil, auth.ValidationFailure(MsgLogoRequired)
	}
	stored, err := s.uploader.Upload(ctx, *in.Logo)
	if err != nil {
		return nil, auth.UpstreamFailure(auth.MsgUploadFailed, oops.Code("COMPANY_UPLOAD_FAILED").
			With("company", company.Name).
			Wrap(err))
	}
	company.LogoURL = stored.URL
	company.LogoStorageID = stored.StorageID

	if err := s.repo.Create(ctx, company); err != nil {
		s.discardLogo(ctx, stored.StorageID)
		if errors.Is(err, ErrNameTaken) {
			Creations.WithLabelValues(string(auth.KindConflict)).Inc()
			return nil, auth.ConflictFailure(MsgNameTaken, err)
		}
		return nil, operationFailure(err, "create company")
	}

	Creations.WithLabelValues(OutcomeCreated).Inc()
	s.logger.InfoContext(ctx, "company created",
		"company_id", company.ID.String(),
		"recruiter_id", recruiterID.String())
	return company, nil
}

// discardLogo removes a logo whose company row was never written.
func (s *Service) discardLogo(ctx context.Context, storageID string) {
	if err := s.uploader.Delete(ctx, storageID); err != nil {
		s.logger.WarnContext(ctx, "stored file not removed",
			"operation", "delete logo",
			"storage_id", storageID,
			"error", err)
	}
}

func operationFailure(err error, operation string) error {
	return auth.InternalFailure(oops.Code("COMPANY_OPERATION_FAILED").With("operation", operation).Wrap(err))
}
