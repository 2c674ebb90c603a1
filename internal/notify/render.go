// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package notify

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/samber/oops"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// ForgotPasswordSubject is the subject line of the password reset mail.
const ForgotPasswordSubject = "Reset Your Password - Hireheaven"

// Renderer renders mail bodies from the embedded templates.
type Renderer struct {
	templates *template.Template
	resetTTL  time.Duration
}

// NewRenderer parses the embedded templates. resetTTL is the lifetime quoted
// in the password reset mail.
func NewRenderer(resetTTL time.Duration) (*Renderer, error) {
	t, err := template.New("mail").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, oops.Code("MAIL_TEMPLATE_PARSE_FAILED").Wrap(err)
	}
	return &Renderer{templates: t, resetTTL: resetTTL}, nil
}

// ForgotPassword renders the password reset mail for to.
func (r *Renderer) ForgotPassword(to, resetURL string) (Mail, error) {
	html, err := r.render("forgot_password", map[string]any{
		"Product":   "Hireheaven",
		"ResetURL":  template.URL(resetURL), //nolint:gosec // built from configured frontend URL and a signed token
		"ExpiresIn": humanize(r.resetTTL),
	})
	if err != nil {
		return Mail{}, err
	}
	return Mail{To: to, Subject: ForgotPasswordSubject, HTML: html}, nil
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", oops.Code("MAIL_RENDER_FAILED").With("template", name).Wrap(err)
	}
	return buf.String(), nil
}

func humanize(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short time"
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d.Round(time.Minute)/time.Minute), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
