package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"workledger/internal/platform/metrics"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims represents the claims the middleware expects from the validator.
// The surrounding platform authenticates callers; the registry only consumes
// the subject and the verifier capability flag.
type TokenClaims struct {
	Subject  string
	Verifier bool
	JTI      string
}

type contextKeySubject struct{}
type contextKeyVerifier struct{}

// GetSubject retrieves the authenticated caller identity from the context.
func GetSubject(ctx context.Context) string {
	subject, ok := ctx.Value(contextKeySubject{}).(string)
	if !ok {
		return ""
	}
	return subject
}

// HasVerifierCapability reports whether the authenticated caller holds the
// verifier capability.
func HasVerifierCapability(ctx context.Context) bool {
	verifier, ok := ctx.Value(contextKeyVerifier{}).(bool)
	return ok && verifier
}

// WithIdentity returns a context carrying the given caller identity. Intended
// for tests and non-HTTP callers.
func WithIdentity(ctx context.Context, subject string, verifier bool) context.Context {
	ctx = context.WithValue(ctx, contextKeySubject{}, subject)
	return context.WithValue(ctx, contextKeyVerifier{}, verifier)
}

// RequireAuth validates the bearer token and places the caller identity into
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(validator TokenValidator, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				if m != nil {
					m.IncrementAuthFailures()
				}
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				if m != nil {
					m.IncrementAuthFailures()
				}
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = WithIdentity(ctx, claims.Subject, claims.Verifier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
