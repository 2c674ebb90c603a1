// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package profile reads and edits account profiles and their skill tags.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// Messages returned to callers.
const (
	MsgProfileUpdated  = "Profile Updated Successfully"
	MsgPictureUpdated  = "Profile Picture Updated Successfully"
	MsgResumeUpdated   = "Resume Updated Successfully"
	MsgNoImage         = "No Image file uploaded"
	MsgNoResume        = "No PDF file uploaded"
	MsgResumeForbidden = "Only jobseekers can upload a resume"
	MsgMissingSkill    = "Please provide a skill name"
	MsgSkillExists     = "Skill already exists"
	msgSkillAddedFmt   = "Skill %s added successfully"
	msgSkillRemovedFmt = "Skill %s deleted successfully"
	msgSkillMissingFmt = "Skill %s was not found"
)

// Repository is the profile side of the account directory.
type Repository interface {
	GetByID(ctx context.Context, id ulid.ULID) (*auth.Account, error)
	UpdateDetails(ctx context.Context, id ulid.ULID, u auth.ProfileUpdate) error
	UpdateResume(ctx context.Context, id ulid.ULID, file auth.StoredFile) error
	UpdateProfilePicture(ctx context.Context, id ulid.ULID, file auth.StoredFile) error
	// AddSkill links a skill atomically; added is false if it was already linked.
	AddSkill(ctx context.Context, id ulid.ULID, name string) (added bool, err error)
	RemoveSkill(ctx context.Context, id ulid.ULID, name string) (removed bool, err error)
}

// Service implements the profile operations.
type Service struct {
	repo     Repository
	uploader auth.Uploader
	logger   *slog.Logger
}

// NewService creates a Service.
func NewService(repo Repository, uploader auth.Uploader, logger *slog.Logger) (*Service, error) {
	if repo == nil {
		return nil, oops.Code("PROFILE_INVALID_DEPENDENCY").Errorf("profile repository is required")
	}
	if uploader == nil {
		return nil, oops.Code("PROFILE_INVALID_DEPENDENCY").Errorf("uploader is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, uploader: uploader, logger: logger}, nil
}

// Get returns the public profile of id.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*auth.Profile, error) {
	account, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := account.Profile()
	return &p, nil
}

func (s *Service) load(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "load profile")
	}
	return account, nil
}

// UpdateDetails applies the non-empty fields of u and returns the result.
func (s *Service) UpdateDetails(ctx context.Context, id ulid.ULID, u auth.ProfileUpdate) (*auth.Profile, error) {
	u = auth.ProfileUpdate{
		Name:        strings.TrimSpace(u.Name),
		PhoneNumber: strings.TrimSpace(u.PhoneNumber),
		Bio:         strings.TrimSpace(u.Bio),
	}
	if !u.Empty() {
		if err := s.repo.UpdateDetails(ctx, id, u); err != nil {
			return nil, classify(err, "update details")
		}
	}
	return s.Get(ctx, id)
}

// UpdateProfilePicture stores file as the account picture, superseding the previous one.
func (s *Service) UpdateProfilePicture(ctx context.Context, id ulid.ULID, file *auth.Attachment) (*auth.Profile, error) {
	if file.Empty() {
		return nil, auth.ValidationFailure(MsgNoImage)
	}
	account, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.replaceFile(ctx, "profile_picture", *file, deref(account.ProfilePicStorageID),
		func(stored auth.StoredFile) error { return s.repo.UpdateProfilePicture(ctx, id, stored) })
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateResume stores file as the account resume, superseding the previous one.
// Recruiter accounts never carry a resume.
func (s *Service) UpdateResume(ctx context.Context, id ulid.ULID, file *auth.Attachment) (*auth.Profile, error) {
	if file.Empty() {
		return nil, auth.ValidationFailure(MsgNoResume)
	}
	account, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role != auth.RoleJobseeker {
		return nil, auth.ValidationFailure(MsgResumeForbidden)
	}
	err = s.replaceFile(ctx, "resume", *file, deref(account.ResumeStorageID),
		func(stored auth.StoredFile) error { return s.repo.UpdateResume(ctx, id, stored) })
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// replaceFile uploads file, points the account row at it through save and
// only then removes previousID. When save fails the fresh object is removed
// instead, so the row never references a missing object.
func (s *Service) replaceFile(ctx context.Context, kind string, file auth.Attachment, previousID string, save func(auth.StoredFile) error) error {
	stored, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return auth.UpstreamFailure(auth.MsgUploadFailed, oops.Code("PROFILE_UPLOAD_FAILED").
			With("kind", kind).
			Wrap(err))
	}
	if err := save(stored); err != nil {
		s.discard(ctx, kind, stored.StorageID)
		return classify(err, "update "+kind)
	}
	if previousID != "" && previousID != stored.StorageID {
		s.discard(ctx, kind, previousID)
	}
	return nil
}

// discard removes a stored object. Failure leaves an orphan and is logged only.
func (s *Service) discard(ctx context.Context, kind, storageID string) {
	if err := s.uploader.Delete(ctx, storageID); err != nil {
		s.logger.WarnContext(ctx, "stored file not removed",
			"operation", "delete "+kind,
			"storage_id", storageID,
			"error", err)
	}
}

// AddSkill tags the account with name. Adding a skill it already has succeeds
// with MsgSkillExists.
func (s *Service) AddSkill(ctx context.Context, id ulid.ULID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", auth.ValidationFailure(MsgMissingSkill)
	}
	added, err := s.repo.AddSkill(ctx, id, name)
	if err != nil {
		return "", classify(err, "add skill")
	}
	if !added {
		SkillChanges.WithLabelValues(ChangeUnchanged).Inc()
		return MsgSkillExists, nil
	}
	SkillChanges.WithLabelValues(ChangeAdded).Inc()
	s.logger.InfoContext(ctx, "skill added", "account_id", id.String(), "skill", name)
	return fmt.Sprintf(msgSkillAddedFmt, name), nil
}

// RemoveSkill removes the tag name from the account.
func (s *Service) RemoveSkill(ctx context.Context, id ulid.ULID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", auth.ValidationFailure(MsgMissingSkill)
	}
	removed, err := s.repo.RemoveSkill(ctx, id, name)
	if err != nil {
		return "", classify(err, "remove skill")
	}
	if !removed {
		return "", auth.NotFoundFailure(fmt.Sprintf(msgSkillMissingFmt, name), nil)
	}
	SkillChanges.WithLabelValues(ChangeRemoved).Inc()
	return fmt.Sprintf(msgSkillRemovedFmt, name), nil
}

func classify(err error, operation string) error {
	if errors.Is(err, auth.ErrNotFound) {
		return auth.NotFoundFailure(auth.MsgUserNotFound, err)
	}
	return auth.InternalFailure(oops.Code("PROFILE_OPERATION_FAILED").With("operation", operation).Wrap(err))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
