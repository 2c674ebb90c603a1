// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
)

type accountKey struct{}

// AccountID returns the authenticated account id stored by the session middleware.
func AccountID(ctx context.Context) (ulid.ULID, bool) {
	id, ok := ctx.Value(accountKey{}).(ulid.ULID)
	return id, ok
}

func (a *api) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.creds.AuthenticateSession(r.Context(), bearerToken(r))
		if err != nil {
			fail(w, r, a.logger, err, 0)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, id)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
