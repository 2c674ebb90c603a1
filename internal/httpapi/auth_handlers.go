// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// register accepts a JSON body, or multipart form fields plus an optional
// "resume" file part. JSON registrations carry no resume.
func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var (
		form   registerForm
		resume *auth.Attachment
	)
	if isJSON(r) {
		if err := decodeJSON(r, w, &form); err != nil {
			fail(w, r, a.logger, err, 0)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
		if err := r.ParseMultipartForm(a.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			fail(w, r, a.logger, auth.ValidationFailure(MsgInvalidBody), 0)
			return
		}
		form = registerForm{
			Name:        r.FormValue("name"),
			Email:       r.FormValue("email"),
			Password:    r.FormValue("password"),
			PhoneNumber: r.FormValue("phoneNumber"),
			Role:        r.FormValue("role"),
			Bio:         r.FormValue("bio"),
		}
		if err := checkForm(r.Context(), &form); err != nil {
			fail(w, r, a.logger, err, 0)
			return
		}
		var err error
		if resume, err = readAttachment(r, "resume"); err != nil {
			fail(w, r, a.logger, err, 0)
			return
		}
	}

	session, err := a.creds.Register(r.Context(), auth.RegisterInput{
		Name:        form.Name,
		Email:       form.Email,
		Password:    form.Password,
		PhoneNumber: form.PhoneNumber,
		Role:        form.Role,
		Bio:         form.Bio,
		Resume:      resume,
	})
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	session, err := a.creds.Login(r.Context(), auth.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (a *api) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var form forgotForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	msg, err := a.creds.ForgotPassword(r.Context(), form.Email)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// resetPassword answers a rejected token with 400 rather than the 404 used for
// bad login credentials.
func (a *api) resetPassword(w http.ResponseWriter, r *http.Request) {
	var form resetForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	msg, err := a.creds.ResetPassword(r.Context(), chi.URLParam(r, "token"), form.Password)
	if err != nil {
		status := 0
		if auth.KindOf(err) == auth.KindInvalidCredentials {
			status = http.StatusBadRequest
		}
		fail(w, r, a.logger, err, status)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}
