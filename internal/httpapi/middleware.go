package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/todolist/internal/auth"
)

const requestIDHeader = "X-Request-ID"

type contextKey int

const (
	requestIDKey contextKey = iota
	ownerKey
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// OwnerFromContext returns the username verified by the auth middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey).(string)
	return owner, ok && owner != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id (reusing a client-supplied one) and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		fields := []any{"method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start), "request_id", id}
		switch {
		case rec.status >= 500:
			s.logger.Error("request failed", fields...)
		case rec.status >= 400:
			s.logger.Warn("request rejected", fields...)
		default:
			s.logger.Debug("request served", fields...)
		}
	})
}

// requireAuth admits requests carrying a valid Bearer token and stores the verified owner in the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized", "Authorization header is required")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid authorization header format. Use: Bearer <token>")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized", "Token is required")
			return
		}
		res, err := s.authn.Resume(token)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired, please log in again"
			}
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized", msg)
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, res.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
