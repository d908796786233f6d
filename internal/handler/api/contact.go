// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/util"
)

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if err := handler.DecodeJSON(w, r, &in); err != nil {
		handler.Error(w, r, err)
		return
	}
	c, err := h.contacts.Submit(r.Context(), in, service.ContactMeta{
		IPAddress: util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Created(w, "Thank you for your message! I'll get back to you soon.", map[string]int64{"id": c.ID})
}
