// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		remote  string
		want    string
	}{
		{"no list trusts everyone", nil, "203.0.113.9:1234", "198.51.100.7"},
		{"trusted cidr", []string{"10.0.0.0/8"}, "10.1.2.3:1234", "198.51.100.7"},
		{"trusted single ip", []string{"192.0.2.1"}, "192.0.2.1:80", "198.51.100.7"},
		{"untrusted peer", []string{"10.0.0.0/8"}, "203.0.113.9:1234", "203.0.113.9:1234"},
		{"invalid entries ignored", []string{"bogus", "10.0.0.0/8"}, "10.0.0.1:1", "198.51.100.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(tt.proxies)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			req.Header.Set("X-Forwarded-For", "198.51.100.7")
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
