// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/profile"
)

type profileResponse struct {
	Message string        `json:"message"`
	Account *auth.Profile `json:"user"`
}

func (a *api) myProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := AccountID(r.Context())
	p, err := a.profiles.Get(r.Context(), id)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) userProfile(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		fail(w, r, a.logger, auth.NotFoundFailure(auth.MsgUserNotFound, nil), 0)
		return
	}
	p, err := a.profiles.Get(r.Context(), id)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) updateProfile(w http.ResponseWriter, r *http.Request) {
	var form profileForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	id, _ := AccountID(r.Context())
	p, err := a.profiles.UpdateDetails(r.Context(), id, auth.ProfileUpdate{
		Name:        form.Name,
		PhoneNumber: form.PhoneNumber,
		Bio:         form.Bio,
	})
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Message: profile.MsgProfileUpdated, Account: p})
}

func (a *api) updateProfilePicture(w http.ResponseWriter, r *http.Request) {
	a.replaceFile(w, r, a.profiles.UpdateProfilePicture, profile.MsgPictureUpdated)
}

func (a *api) updateResume(w http.ResponseWriter, r *http.Request) {
	a.replaceFile(w, r, a.profiles.UpdateResume, profile.MsgResumeUpdated)
}

type replaceFunc func(ctx context.Context, id ulid.ULID, file *auth.Attachment) (*auth.Profile, error)

// replaceFile reads the "file" part and hands it to update.
func (a *api) replaceFile(w http.ResponseWriter, r *http.Request, update replaceFunc, okMsg string) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	file, err := readAttachment(r, "file")
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	id, _ := AccountID(r.Context())
	p, err := update(r.Context(), id, file)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Message: okMsg, Account: p})
}

func (a *api) addSkill(w http.ResponseWriter, r *http.Request) {
	var form skillForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	id, _ := AccountID(r.Context())
	msg, err := a.profiles.AddSkill(r.Context(), id, form.SkillName)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

func (a *api) removeSkill(w http.ResponseWriter, r *http.Request) {
	var form skillForm
	if err := decodeJSON(r, w, &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	id, _ := AccountID(r.Context())
	msg, err := a.profiles.RemoveSkill(r.Context(), id, form.SkillName)
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}
