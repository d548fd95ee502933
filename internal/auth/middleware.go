package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values stored under it.
type contextKey string

const userKey contextKey = "user"

const unauthorizedBody = `{"error":true,"message":"Unauthorized"}`

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads "Authorization: Bearer <token>", verifies the token and stores the
// embedded user snapshot in the request context. A missing header, a header
// without a token, or a token that fails verification (bad signature, expired,
// malformed) all end the request with 401 and the standard envelope.
//
// The middleware does NOT check that the user still exists. Handlers that
// need fresh data re-read it (see HandleGetUser).
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(unauthorizedBody))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.User)))
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated user snapshot.
func WithUser(ctx context.Context, u SessionUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext retrieves the authenticated user snapshot.
// Returns (zero, false) when the request did not pass RequireAuth.
func UserFromContext(ctx context.Context) (SessionUser, bool) {
	u, ok := ctx.Value(userKey).(SessionUser)
	return u, ok && u.ID != ""
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func authenticate(r *http.Request, tokens *TokenService) (*Claims, error) {
	token, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, ErrTokenInvalid
	}
	return tokens.Verify(token)
}
