package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates operator tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type contextKeyOperator struct{}

// ContextKeyOperator is exported for use in handlers.
var ContextKeyOperator = contextKeyOperator{}

// GetOperator retrieves the authenticated operator name from the context.
func GetOperator(ctx context.Context) string {
	operator, ok := ctx.Value(ContextKeyOperator).(string)
	if !ok {
		return ""
	}
	return operator
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth guards admin routes: a valid bearer token is required and the
// operator name is placed on the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token", "error", err)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyOperator, claims.Operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
