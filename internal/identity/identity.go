// Package identity provides anonymous per-device identity for chat clients.
//
// Authentication proper is delegated to the frontend's auth provider; this
// middleware only guarantees every request carries a stable user id so
// history and profiles can be keyed. Clients that are signed in send their
// provider id in the X-Maiya-User header; everyone else gets a durable
// anonymous cookie.
package identity

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AnonCookieName is the cookie carrying the anonymous user id.
	AnonCookieName = "maiya_anon_id"
	// UserHeaderName lets authenticated clients supply their own id.
	UserHeaderName = "X-Maiya-User"

	anonCookieMaxAge = 180 * 24 * time.Hour
)

type contextKey int

const userIDKey contextKey = iota

// userIDPattern bounds accepted header-supplied ids.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// UserIDFromContext extracts the user id from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// Middleware resolves a user id for every request: header first, then the
// anonymous cookie, minting a fresh cookie when neither is present.
func Middleware(secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := resolveHeaderID(r)

			if userID == "" {
				userID = resolveCookieID(r)
				if userID == "" {
					userID = "anon_" + uuid.NewString()
					http.SetCookie(w, &http.Cookie{
						Name:     AnonCookieName,
						Value:    userID,
						Path:     "/",
						MaxAge:   int(anonCookieMaxAge.Seconds()),
						HttpOnly: true,
						Secure:   secureCookies,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveHeaderID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(UserHeaderName))
	if id == "" || !userIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func resolveCookieID(r *http.Request) string {
	cookie, err := r.Cookie(AnonCookieName)
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(cookie.Value, "anon_") {
		return ""
	}
	if _, err := uuid.Parse(strings.TrimPrefix(cookie.Value, "anon_")); err != nil {
		return ""
	}
	return cookie.Value
}
