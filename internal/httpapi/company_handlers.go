// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package httpapi

import (
	"errors"
	"net/http"

	"github.com/hireheaven/hireheaven/internal/auth"
	"github.com/hireheaven/hireheaven/internal/company"
)

type companyResponse struct {
	Message string           `json:"message"`
	Company *company.Company `json:"company"`
}

// createCompany accepts multipart fields name, description and website plus
// the logo as the "file" part.
func (a *api) createCompany(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(a.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		fail(w, r, a.logger, auth.ValidationFailure(MsgInvalidBody), 0)
		return
	}

	form := companyForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Website:     r.FormValue("website"),
	}
	if err := checkForm(r.Context(), &form); err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	logo, err := readAttachment(r, "file")
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}

	id, _ := AccountID(r.Context())
	c, err := a.companies.Create(r.Context(), id, company.CreateInput{
		Name:        form.Name,
		Description: form.Description,
		Website:     form.Website,
		Logo:        logo,
	})
	if err != nil {
		fail(w, r, a.logger, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, companyResponse{Message: company.MsgCreated, Company: c})
}
