package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// TokenHeader is the request header carrying the session token.
const TokenHeader = "auth-token"

const accessDenied = "Access Denied"

type contextKey string

// UserIDKey is the context key for the authenticated user ID.
const UserIDKey = contextKey("userID")

// UserIDFromContext returns the user ID attached by TokenMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a copy of ctx carrying the user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// TokenMiddleware rejects requests without a valid auth-token header with
// 400 "Access Denied" and passes the verified user ID down via context.
func TokenMiddleware(tokens TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				deny(w)
				return
			}

			userID, ok := verify(tokens, tokenStr)
			if !ok {
				deny(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// verify runs token verification to completion, turning panics into rejection.
func verify(tokens TokenManager, tokenStr string) (userID string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Token verification panicked")
			userID, ok = "", false
		}
	}()

	userID, err := tokens.Verify(tokenStr)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected auth token")
		return "", false
	}
	return userID, true
}

func deny(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(accessDenied))
}
