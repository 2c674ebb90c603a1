// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Role is the closed set of account roles.
type Role string

// Account roles.
const (
	RoleRecruiter Role = "recruiter"
	RoleJobseeker Role = "jobseeker"
)

// ErrInvalidRole is returned by ParseRole for values outside the role set.
var ErrInvalidRole = oops.Code("AUTH_INVALID_ROLE").Errorf("invalid role")

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRecruiter, RoleJobseeker:
		return Role(s), nil
	default:
		return "", oops.Code("AUTH_INVALID_ROLE").With("role", s).Wrap(ErrInvalidRole)
	}
}

// Account is a registered identity.
type Account struct {
	ID                  ulid.ULID
	Name                string
	Email               string
	PasswordHash        string
	PhoneNumber         string
	Role                Role
	Bio                 *string
	ResumeURL           *string
	ResumeStorageID     *string
	ProfilePicURL       *string
	ProfilePicStorageID *string
	Subscription        *time.Time
	Skills              []string
	CreatedAt           time.Time
}

// Profile is the public projection of an Account. It has no password field.
type Profile struct {
	ID                  string     `json:"user_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PhoneNumber         string     `json:"phone_number"`
	Role                Role       `json:"role"`
	Bio                 *string    `json:"bio"`
	ResumeURL           *string    `json:"resume"`
	ResumeStorageID     *string    `json:"resume_public_id"`
	ProfilePicURL       *string    `json:"profile_picture"`
	ProfilePicStorageID *string    `json:"profile_picture_public_id"`
	Subscription        *time.Time `json:"subscription"`
	Skills              []string   `json:"skills"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Profile returns the public projection of a.
func (a *Account) Profile() Profile {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return Profile{
		ID:                  a.ID.String(),
		Name:                a.Name,
		Email:               a.Email,
		PhoneNumber:         a.PhoneNumber,
		Role:                a.Role,
		Bio:                 a.Bio,
		ResumeURL:           a.ResumeURL,
		ResumeStorageID:     a.ResumeStorageID,
		ProfilePicURL:       a.ProfilePicURL,
		ProfilePicStorageID: a.ProfilePicStorageID,
		Subscription:        a.Subscription,
		Skills:              skills,
		CreatedAt:           a.CreatedAt,
	}
}

// NormalizeEmail is the single email canonicalization applied before any
// lookup or insert: surrounding whitespace removed, lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Attachment is an uploaded file held in memory.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Empty reports whether the attachment carries no content.
func (a *Attachment) Empty() bool {
	return a == nil || len(a.Content) == 0
}

// StoredFile is the upload collaborator's answer: a stable URL and a revocable storage id.
type StoredFile struct {
	URL       string
	StorageID string
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create inserts the account and fills CreatedAt.
	// Returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, account *Account) error

	// GetByEmail returns the account with its skills aggregated.
	// Returns ErrNotFound if no account has the email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns the account with its skills aggregated.
	// Returns ErrNotFound if no account has the id.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// UpdatePassword replaces the password hash.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error
}

// Uploader stores attachments outside the relational store.
type Uploader interface {
	// Upload stores the attachment under a fresh storage id.
	Upload(ctx context.Context, file Attachment) (StoredFile, error)

	// Delete removes a stored file. An empty storageID is a no-op.
	Delete(ctx context.Context, storageID string) error
}

// ProfileUpdate carries editable profile fields. Empty strings keep the
// stored value.
type ProfileUpdate struct {
	Name        string
	PhoneNumber string
	Bio         string
}

// Empty reports whether no field would change.
func (u ProfileUpdate) Empty() bool {
	return u.Name == "" && u.PhoneNumber == "" && u.Bio == ""
}
