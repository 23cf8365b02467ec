// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/toeirei/fleetmaster/internal/auth"
	"github.com/toeirei/fleetmaster/internal/logging"
)

type ctxKey int

const subjectKey ctxKey = iota

// SubjectFrom returns the authenticated subject of a request, if any.
func SubjectFrom(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// requireBearer verifies the HS256 bearer token of every request.
func requireBearer(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := auth.VerifyToken(strings.TrimSpace(token), secret)
			if err != nil {
				logging.Warnf("server: rejected token: %v", err)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, claims.Subject)))
		})
	}
}

// logRequests writes one debug line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Debugf("server: %s %s %d %s request_id=%s", r.Method, r.URL.Path, rec.status, time.Since(start), r.Header.Get("X-Request-Id"))
	})
}
