// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/hireheaven/hireheaven/internal/auth"
)

// Messages for malformed requests.
const (
	MsgInvalidBody  = "Invalid request body"
	MsgInvalidEmail = "Please enter a valid email"
)

const maxJSONBody = 1 << 20

var (
	formValidator = newValidator()
	formModifier  = modifiers.New()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Presence is checked by the services so their messages reach the client
// unchanged; forms only normalize and reject malformed values.

type registerForm struct {
	Name        string `json:"name" mod:"trim" validate:"max=120"`
	Email       string `json:"email" mod:"trim,lcase" validate:"omitempty,email,max=254"`
	Password    string `json:"password" validate:"max=256"`
	PhoneNumber string `json:"phoneNumber" mod:"trim" validate:"max=32"`
	Role        string `json:"role" mod:"trim" validate:"omitempty,oneof=jobseeker recruiter"`
	Bio         string `json:"bio" mod:"trim" validate:"max=2000"`
}

type loginForm struct {
	Email    string `json:"email" mod:"trim,lcase" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=256"`
}

type forgotForm struct {
	Email string `json:"email" mod:"trim,lcase" validate:"omitempty,email,max=254"`
}

type resetForm struct {
	Password string `json:"password" validate:"max=256"`
}

type profileForm struct {
	Name        string `json:"name" mod:"trim" validate:"max=120"`
	PhoneNumber string `json:"phoneNumber" mod:"trim" validate:"max=32"`
	Bio         string `json:"bio" mod:"trim" validate:"max=2000"`
}

type companyForm struct {
	Name        string `json:"name" mod:"trim" validate:"max=200"`
	Description string `json:"description" mod:"trim" validate:"max=5000"`
	Website     string `json:"website" mod:"trim" validate:"max=2048"`
}

type skillForm struct {
	SkillName string `json:"skillName" mod:"trim" validate:"max=64"`
}

// isJSON reports whether r declares a JSON body.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads r's body into form, then normalizes and validates it.
// An empty body leaves form zero-valued.
func decodeJSON(r *http.Request, w http.ResponseWriter, form any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(form); err != nil && !errors.Is(err, io.EOF) {
		return auth.ValidationFailure(MsgInvalidBody)
	}
	return checkForm(r.Context(), form)
}

func checkForm(ctx context.Context, form any) error {
	if err := formModifier.Struct(ctx, form); err != nil {
		return auth.InternalFailure(oops.Code("FORM_MODIFY_FAILED").Wrap(err))
	}
	if err := formValidator.Struct(form); err != nil {
		return formFailure(err)
	}
	return nil
}

func formFailure(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return auth.ValidationFailure(MsgInvalidBody)
	}
	switch field := fieldErrs[0].Field(); field {
	case "email":
		return auth.ValidationFailure(MsgInvalidEmail)
	case "role":
		return auth.ValidationFailure(auth.MsgInvalidRole)
	default:
		return auth.ValidationFailure("Invalid value for " + field)
	}
}

// readAttachment returns the uploaded file in field, or nil if there is none.
func readAttachment(r *http.Request, field string) (*auth.Attachment, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil //nolint:nilnil // absent file is not an error
	}
	if err != nil {
		return nil, auth.ValidationFailure(MsgInvalidBody)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, auth.ValidationFailure(MsgInvalidBody)
	}
	return &auth.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
