// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/company"
)

// Credentials is the credential service surface the API drives.
type Credentials interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, in auth.LoginInput) (*auth.Session, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	AuthenticateSession(ctx context.Context, token string) (ulid.ULID, error)
}

// Profiles is the profile service surface the API drives.
type Profiles interface {
	Get(ctx context.Context, id ulid.ULID) (*auth.Profile, error)
	UpdateDetails(ctx context.Context, id ulid.ULID, u auth.ProfileUpdate) (*auth.Profile, error)
	UpdateProfilePicture(ctx context.Context, id ulid.ULID, file *auth.Attachment) (*auth.Profile, error)
	UpdateResume(ctx context.Context, id ulid.ULID, file *auth.Attachment) (*auth.Profile, error)
	AddSkill(ctx context.Context, id ulid.ULID, name string) (string, error)
	RemoveSkill(ctx context.Context, id ulid.ULID, name string) (string, error)
}

// Companies is the company service surface the API drives.
type Companies interface {
	Create(ctx context.Context, recruiterID ulid.ULID, in company.CreateInput) (*company.Company, error)
}

// DefaultMaxUploadBytes caps multipart request bodies.
const DefaultMaxUploadBytes = 10 << 20

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Credentials Credentials
	Profiles    Profiles
	Companies   Companies
	Logger      *slog.Logger

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// RecoveryPerMinute limits forgot/reset requests per client IP. Zero disables the limit.
	RecoveryPerMinute int
	// MaxUploadBytes caps multipart bodies. Defaults to DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Middleware runs after request id and real IP are set, before routing.
	Middleware []func(http.Handler) http.Handler
}

type api struct {
	creds     Credentials
	profiles  Profiles
	companies Companies
	logger    *slog.Logger
	maxUpload int64
}

// NewRouter builds the HTTP handler for the account API.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Credentials == nil {
		return nil, oops.Code("HTTPAPI_INVALID_CONFIG").Errorf("credential service is required")
	}
	if cfg.Profiles == nil {
		return nil, oops.Code("HTTPAPI_INVALID_CONFIG").Errorf("profile service is required")
	}
	if cfg.Companies == nil {
		return nil, oops.Code("HTTPAPI_INVALID_CONFIG").Errorf("company service is required")
	}
	a := &api{
		creds:     cfg.Credentials,
		profiles:  cfg.Profiles,
		companies: cfg.Companies,
		logger:    cfg.Logger,
		maxUpload: cfg.MaxUploadBytes,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.maxUpload <= 0 {
		a.maxUpload = DefaultMaxUploadBytes
	}

	allowed := cfg.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Middleware...)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)
		r.Group(func(r chi.Router) {
			if cfg.RecoveryPerMinute > 0 {
				r.Use(httprate.LimitByIP(cfg.RecoveryPerMinute, time.Minute))
			}
			r.Post("/forgot", a.forgotPassword)
			r.Post("/reset/{token}", a.resetPassword)
		})
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(a.authenticate)
		r.Get("/me", a.myProfile)
		r.Get("/{userID}", a.userProfile)
		r.Put("/update/profile", a.updateProfile)
		r.Put("/update/pic", a.updateProfilePicture)
		r.Put("/update/resume", a.updateResume)
		r.Post("/skill/add", a.addSkill)
		r.Put("/skill/delete", a.removeSkill)
	})

	r.Route("/api/job", func(r chi.Router) {
		r.Use(a.authenticate)
		r.Post("/company/new", a.createCompany)
	})

	return r, nil
}
