package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dropshoplabs/dropshop-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the shopper's cart session from the X-Session-Id header.
// A request without one gets a fresh session id, echoed back in the response
// so the client can persist it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
