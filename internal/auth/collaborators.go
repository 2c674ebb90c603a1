// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package auth

import (
	"context"
	"time"

	"github.com/hireheaven/hireheaven/internal/notify"
)

// TokenPurpose tags what a signed token may be used for.
type TokenPurpose string

// Token purposes.
const (
	PurposeSession TokenPurpose = "session"
	PurposeReset   TokenPurpose = "reset"
)

// TokenClaims is the payload carried by a signed token.
// Session tokens bind Subject (the account id); reset tokens bind Email.
type TokenClaims struct {
	Subject   string
	Email     string
	Purpose   TokenPurpose
	ExpiresAt time.Time
}

// TokenSigner issues and verifies signed, expiring tokens.
type TokenSigner interface {
	// Sign encodes claims with an expiry ttl from now.
	Sign(claims TokenClaims, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry and returns the decoded claims.
	Verify(token string) (*TokenClaims, error)
}

// ResetTokenStore is an expiring key-value store holding the one live
// reset token per email.
type ResetTokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Delete(ctx context.Context, key string) error
}

// MailDispatcher hands a mail off for delivery. Dispatch never reports an
// outcome; delivery failures stay with the dispatcher.
type MailDispatcher interface {
	Dispatch(ctx context.Context, mail notify.Mail)
}

// MailRenderer builds outbound mails.
type MailRenderer interface {
	ForgotPassword(to, resetURL string) (notify.Mail, error)
}
