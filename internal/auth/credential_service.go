// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hireheaven/hireheaven/pkg/errutil"
)

var tracer = otel.Tracer("hireheaven/auth")

// Lifetimes used when CredentialConfig leaves them zero.
const (
	DefaultSessionTTL    = 15 * 24 * time.Hour
	DefaultResetTokenTTL = 15 * time.Minute
	DefaultResetStoreTTL = 900 * time.Second
)

// Acknowledgement messages.
const (
	MsgRegistered    = "User registered successfully"
	MsgPasswordReset = "Password reset successfully"

	// ForgotPasswordMessage is returned for every accepted forgot-password
	// request, whether or not the email belongs to an account.
	ForgotPasswordMessage = "If that email exists, we have sent a reset link"
)

const resetKeyPrefix = "forgot:"

// ResetKey returns the ephemeral store key holding the live reset token for email.
func ResetKey(email string) string {
	return resetKeyPrefix + email
}

// CredentialConfig holds token lifetimes and the frontend base URL used in reset links.
type CredentialConfig struct {
	FrontendURL   string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	ResetStoreTTL time.Duration
}

func (c *CredentialConfig) applyDefaults() {
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	if c.ResetTokenTTL <= 0 {
		c.ResetTokenTTL = DefaultResetTokenTTL
	}
	if c.ResetStoreTTL <= 0 {
		c.ResetStoreTTL = DefaultResetStoreTTL
	}
	c.FrontendURL = strings.TrimRight(c.FrontendURL, "/")
}

// CredentialServiceDeps are the collaborators of CredentialService. All are required.
type CredentialServiceDeps struct {
	Accounts   AccountRepository
	Hasher     PasswordHasher
	Tokens     TokenSigner
	ResetStore ResetTokenStore
	Mailer     MailDispatcher
	Mails      MailRenderer
	Uploader   Uploader
}

func (d CredentialServiceDeps) validate() error {
	switch {
	case d.Accounts == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("accounts repository is required")
	case d.Hasher == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	case d.Tokens == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token signer is required")
	case d.ResetStore == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("reset token store is required")
	case d.Mailer == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("mail dispatcher is required")
	case d.Mails == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("mail renderer is required")
	case d.Uploader == nil:
		return oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("uploader is required")
	}
	return nil
}

// CredentialOption configures a CredentialService.
type CredentialOption func(*CredentialService)

// WithLogger sets the service logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) CredentialOption {
	return func(s *CredentialService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// CredentialService implements registration, login and password recovery.
type CredentialService struct {
	deps   CredentialServiceDeps
	cfg    CredentialConfig
	logger *slog.Logger

	// dummyHash is verified when a login email is unknown so that both
	// failure paths cost one verification with the configured parameters.
	dummyHash string
}

// NewCredentialService creates a CredentialService.
func NewCredentialService(deps CredentialServiceDeps, cfg CredentialConfig, opts ...CredentialOption) (*CredentialService, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	dummyHash, err := deps.Hasher.Hash(ulid.Make().String())
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").With("operation", "hash dummy password").Wrap(err)
	}

	s := &CredentialService{
		deps:      deps,
		cfg:       cfg,
		logger:    slog.Default(),
		dummyHash: dummyHash,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterInput is the registration request. Resume is required for jobseekers
// and ignored for recruiters.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        string
	Bio         string
	Resume      *Attachment
}

// Session is returned by Register and Login.
type Session struct {
	Message string  `json:"message"`
	Account Profile `json:"user"`
	Token   string  `json:"token"`
}

// Register creates an account and issues a session token.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (_ *Session, err error) {
	ctx, span := tracer.Start(ctx, "auth.register")
	defer finish(span, OpRegister, time.Now(), &err)

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	if name == "" || email == "" || in.Password == "" || phone == "" || strings.TrimSpace(in.Role) == "" {
		return nil, ValidationFailure(MsgMissingDetails)
	}

	role, err := ParseRole(strings.TrimSpace(in.Role))
	if err != nil {
		return nil, ValidationFailure(MsgInvalidRole)
	}
	span.SetAttributes(attribute.String("account.role", string(role)))

	// Advisory only: the unique index on email is what enforces uniqueness.
	if _, lookupErr := s.deps.Accounts.GetByEmail(ctx, email); lookupErr == nil {
		return nil, conflictFailure(nil)
	} else if !errors.Is(lookupErr, ErrNotFound) {
		return nil, InternalFailure(oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "lookup account").
			Wrap(lookupErr))
	}

	if role == RoleJobseeker && in.Resume.Empty() {
		return nil, ValidationFailure(MsgResumeRequired)
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, InternalFailure(oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err))
	}

	account := &Account{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  phone,
		Role:         role,
		Skills:       []string{},
	}
	if bio := strings.TrimSpace(in.Bio); bio != "" {
		account.Bio = &bio
	}

	if role == RoleJobseeker {
		stored, uploadErr := s.deps.Uploader.Upload(ctx, *in.Resume)
		if uploadErr != nil {
			return nil, UpstreamFailure(MsgUploadFailed, oops.Code("AUTH_RESUME_UPLOAD_FAILED").
				With("operation", "upload resume").
				Wrap(uploadErr))
		}
		account.ResumeURL = &stored.URL
		account.ResumeStorageID = &stored.StorageID
	}

	if err := s.deps.Accounts.Create(ctx, account); err != nil {
		s.discardResume(ctx, account)
		if errors.Is(err, ErrEmailTaken) {
			return nil, conflictFailure(err)
		}
		return nil, InternalFailure(oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create account").
			Wrap(err))
	}

	token, err := s.issueSession(account)
	if err != nil {
		return nil, InternalFailure(err)
	}

	s.logger.InfoContext(ctx, "account registered",
		"account_id", account.ID.String(),
		"role", string(role))

	return &Session{Message: MsgRegistered, Account: account.Profile(), Token: token}, nil
}

// LoginInput is the login request.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token. An unknown email and
// a wrong password produce the same failure.
func (s *CredentialService) Login(ctx context.Context, in LoginInput) (_ *Session, err error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer finish(span, OpLogin, time.Now(), &err)

	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ValidationFailure(MsgMissingDetails)
	}

	account, lookupErr := s.deps.Accounts.GetByEmail(ctx, email)

	targetHash := s.dummyHash
	exists := false
	switch {
	case lookupErr == nil:
		targetHash = account.PasswordHash
		exists = true
	case !errors.Is(lookupErr, ErrNotFound):
		return nil, InternalFailure(oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "lookup account").
			Wrap(lookupErr))
	}

	valid, verifyErr := s.deps.Hasher.Verify(in.Password, targetHash)
	if verifyErr != nil {
		if !exists {
			return nil, invalidCredentials()
		}
		return nil, InternalFailure(oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr))
	}
	if !exists || !valid {
		return nil, invalidCredentials()
	}

	s.upgradeHash(ctx, account, in.Password)

	token, err := s.issueSession(account)
	if err != nil {
		return nil, InternalFailure(err)
	}

	return &Session{
		Message: "Welcome Back " + account.Name,
		Account: account.Profile(),
		Token:   token,
	}, nil
}

// discardResume removes a resume uploaded for an account that was not created.
func (s *CredentialService) discardResume(ctx context.Context, account *Account) {
	if account.ResumeStorageID == nil {
		return
	}
	if err := s.deps.Uploader.Delete(ctx, *account.ResumeStorageID); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "orphaned resume not removed", err,
			"storage_id", *account.ResumeStorageID)
	}
}

// upgradeHash rehashes legacy hashes after a successful login. Failure is logged only.
func (s *CredentialService) upgradeHash(ctx context.Context, account *Account, password string) {
	if !s.deps.Hasher.NeedsUpgrade(account.PasswordHash) {
		return
	}
	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		s.logger.WarnContext(ctx, "password hash upgrade failed",
			"operation", "hash password",
			"account_id", account.ID.String(),
			"error", err)
		return
	}
	if err := s.deps.Accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		s.logger.WarnContext(ctx, "password hash upgrade failed",
			"operation", "update password",
			"account_id", account.ID.String(),
			"error", err)
		return
	}
	account.PasswordHash = hash
}

// ForgotPassword starts password recovery. The returned message does not
// depend on whether the email belongs to an account.
func (s *CredentialService) ForgotPassword(ctx context.Context, email string) (_ string, err error) {
	ctx, span := tracer.Start(ctx, "auth.forgot_password")
	defer finish(span, OpForgotPassword, time.Now(), &err)

	email = NormalizeEmail(email)
	if email == "" {
		return "", ValidationFailure(MsgMissingEmail)
	}

	account, err := s.deps.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "password reset requested for unknown email", "email", email)
			return ForgotPasswordMessage, nil
		}
		return "", InternalFailure(oops.Code("AUTH_FORGOT_PASSWORD_FAILED").
			With("operation", "lookup account").
			Wrap(err))
	}

	// Mail delivery is the only best-effort step; a reset that cannot be
	// issued is reported rather than acknowledged.
	if err := s.issueReset(ctx, account); err != nil {
		return "", InternalFailure(err)
	}

	return ForgotPasswordMessage, nil
}

func (s *CredentialService) issueReset(ctx context.Context, account *Account) error {
	token, err := s.deps.Tokens.Sign(TokenClaims{
		Email:   account.Email,
		Purpose: PurposeReset,
	}, s.cfg.ResetTokenTTL)
	if err != nil {
		return oops.Code("RESET_ISSUE_FAILED").With("operation", "sign token").Wrap(err)
	}

	if err := s.deps.ResetStore.Set(ctx, ResetKey(account.Email), token, s.cfg.ResetStoreTTL); err != nil {
		return oops.Code("RESET_ISSUE_FAILED").With("operation", "store token").Wrap(err)
	}

	mail, err := s.deps.Mails.ForgotPassword(account.Email, s.ResetURL(token))
	if err != nil {
		return oops.Code("RESET_ISSUE_FAILED").With("operation", "render mail").Wrap(err)
	}

	s.deps.Mailer.Dispatch(ctx, mail)
	return nil
}

// ResetURL returns the frontend link that carries token.
func (s *CredentialService) ResetURL(token string) string {
	return s.cfg.FrontendURL + "/reset/" + token
}

// ResetPassword consumes a reset token and replaces the account password.
// A token is accepted at most once and only while it is the latest one issued.
func (s *CredentialService) ResetPassword(ctx context.Context, token, newPassword string) (_ string, err error) {
	ctx, span := tracer.Start(ctx, "auth.reset_password")
	defer finish(span, OpResetPassword, time.Now(), &err)

	if strings.TrimSpace(token) == "" {
		return "", invalidResetToken(nil)
	}
	if newPassword == "" {
		return "", ValidationFailure(MsgMissingPassword)
	}

	claims, err := s.deps.Tokens.Verify(token)
	if err != nil {
		return "", invalidResetToken(err)
	}
	if claims.Purpose != PurposeReset || claims.Email == "" {
		return "", invalidResetToken(nil)
	}

	email := NormalizeEmail(claims.Email)
	key := ResetKey(email)

	stored, ok, err := s.deps.ResetStore.Get(ctx, key)
	if err != nil {
		return "", InternalFailure(oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "read stored token").
			Wrap(err))
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return "", invalidResetToken(nil)
	}

	account, err := s.deps.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", NotFoundFailure(MsgUserNotFound, err)
		}
		return "", InternalFailure(oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "lookup account").
			Wrap(err))
	}

	hash, err := s.deps.Hasher.Hash(newPassword)
	if err != nil {
		return "", InternalFailure(oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err))
	}

	if err := s.deps.Accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return "", InternalFailure(oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err))
	}

	if err := s.deps.ResetStore.Delete(ctx, key); err != nil {
		return "", InternalFailure(oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "consume stored token").
			Wrap(err))
	}

	s.logger.InfoContext(ctx, "password reset", "account_id", account.ID.String())
	return MsgPasswordReset, nil
}

// AuthenticateSession resolves a session token to the account id it was issued for.
func (s *CredentialService) AuthenticateSession(_ context.Context, token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, newFailure(KindUnauthenticated, MsgAuthRequired, nil)
	}
	claims, err := s.deps.Tokens.Verify(token)
	if err != nil {
		return ulid.ULID{}, newFailure(KindUnauthenticated, MsgAuthRequired, err)
	}
	if claims.Purpose != PurposeSession {
		return ulid.ULID{}, newFailure(KindUnauthenticated, MsgAuthRequired, nil)
	}
	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, newFailure(KindUnauthenticated, MsgAuthRequired, err)
	}
	return id, nil
}

func (s *CredentialService) issueSession(account *Account) (string, error) {
	token, err := s.deps.Tokens.Sign(TokenClaims{
		Subject: account.ID.String(),
		Purpose: PurposeSession,
	}, s.cfg.SessionTTL)
	if err != nil {
		return "", oops.Code("AUTH_SESSION_ISSUE_FAILED").
			With("operation", "sign session token").
			Wrap(err)
	}
	return token, nil
}

func invalidCredentials() *Failure {
	return newFailure(KindInvalidCredentials, MsgInvalidCredentials, nil)
}

func invalidResetToken(err error) *Failure {
	return newFailure(KindInvalidCredentials, MsgInvalidResetToken, err)
}

func conflictFailure(err error) *Failure {
	return ConflictFailure(MsgEmailTaken, err)
}

func finish(span trace.Span, operation string, start time.Time, errp *error) {
	if err := *errp; err != nil {
		span.SetAttributes(attribute.String("auth.failure_kind", string(KindOf(err))))
		if KindOf(err) == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
	recordOperation(operation, start, *errp)
}
