// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/pkg/errutil"
)

type messageBody struct {
	Message string `json:"message"`
}

// StatusFor maps a failure kind to its HTTP status.
func StatusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation:
		return http.StatusBadRequest
	case auth.KindConflict:
		return http.StatusConflict
	case auth.KindInvalidCredentials, auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindUnauthenticated:
		return http.StatusUnauthorized
	case auth.KindForbidden:
		return http.StatusForbidden
	case auth.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageBody{Message: msg})
}

// fail writes err as a failure response. status overrides the kind mapping when non-zero.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, status int) {
	kind := auth.KindOf(err)
	if status == 0 {
		status = StatusFor(kind)
	}
	if kind == auth.KindInternal || kind == auth.KindUpstream {
		errutil.LogErrorContext(r.Context(), logger, "request failed", err,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status)
	}
	writeMessage(w, status, auth.PublicMessage(err))
}
