// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

// Package token signs and verifies HS256 JWTs carrying a purpose tag.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed structure, wrong algorithm or expiry.
var ErrInvalidToken = errors.New("token expired or invalid")

// ErrEmptySecret is returned by NewJWTSigner for an empty secret.
var ErrEmptySecret = errors.New("jwt secret cannot be empty")

// Claims is the JWT body.
type Claims struct {
	jwt.RegisteredClaims
	Purpose auth.TokenPurpose `json:"type"`
	Email   string            `json:"email,omitempty"`
}

// JWTSigner implements auth.TokenSigner.
type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a JWTSigner.
type Option func(*JWTSigner)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTSigner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(iss string) Option {
	return func(s *JWTSigner) {
		s.issuer = iss
	}
}

// NewJWTSigner creates a signer using secret as the HMAC key.
func NewJWTSigner(secret string, opts ...Option) (*JWTSigner, error) {
	if secret == "" {
		return nil, oops.Code("TOKEN_INVALID_CONFIG").Wrap(ErrEmptySecret)
	}
	s := &JWTSigner{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign issues a token expiring ttl from now. Every token carries a unique
// id, so two tokens issued within the same second still differ.
func (s *JWTSigner) Sign(claims auth.TokenClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", oops.Code("TOKEN_SIGN_FAILED").Errorf("ttl must be positive, got %s", ttl)
	}
	now := s.now()
	body := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   claims.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: claims.Purpose,
		Email:   claims.Email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, body).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *JWTSigner) Verify(tokenString string) (*auth.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var body Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &body, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").With("reason", err.Error()).Wrap(ErrInvalidToken)
	}
	if !parsed.Valid {
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrInvalidToken)
	}

	out := &auth.TokenClaims{
		Subject: body.Subject,
		Email:   body.Email,
		Purpose: body.Purpose,
	}
	if body.ExpiresAt != nil {
		out.ExpiresAt = body.ExpiresAt.Time
	}
	return out, nil
}

var _ auth.TokenSigner = (*JWTSigner)(nil)
