// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"filippo.io/csrf/gorilla"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/util"
)

// CSRF rejects cross-origin unsafe requests using Fetch metadata headers.
// allowedOrigins are full origins (the CORS allow list); their hosts are trusted.
func CSRF(authKey []byte, allowedOrigins []string) func(http.Handler) http.Handler {
	opts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(csrfFailed))}
	if hosts := trustedHosts(allowedOrigins); len(hosts) > 0 {
		opts = append(opts, csrf.TrustedOrigins(hosts))
	}
	return csrf.Protect(authKey, opts...)
}

// trustedHosts converts origins like "http://localhost:5173" to the
// host-only form the csrf package expects.
func trustedHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if o == "" || o == "*" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			hosts = append(hosts, o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
		logging.KeyIP, util.ClientIP(r),
		logging.KeyURL, r.URL.Path,
		logging.KeyCategory, "security",
	)
	writeError(w, http.StatusForbidden, "Forbidden - CSRF validation failed")
}
