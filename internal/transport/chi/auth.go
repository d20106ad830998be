package chi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// adminPrefix marks routes that mutate the visibility deny-set.
const adminPrefix = "/v1/admin/"

type scopeKey struct{}

// callerScope is what the presented key grants.
type callerScope int

const (
	// scopeOpen means authentication is disabled and every caller is trusted.
	scopeOpen callerScope = iota
	scopeSearch
	scopeAdmin
)

// admin reports whether the caller may use admin-only switches.
func (c callerScope) admin() bool { return c != scopeSearch }

func scopeFrom(ctx context.Context) callerScope {
	if c, ok := ctx.Value(scopeKey{}).(callerScope); ok {
		return c
	}
	return scopeOpen
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// apiKeys grant the search routes; adminKeys grant everything, including the
// admin routes. If no keys are set, authentication is disabled (pass-through).
// With api keys but no admin keys, api keys also grant the admin routes.
// The granted scope rides the request context; skipping visibility checks
// on a search needs admin scope.
func BearerAuthMiddleware(apiKeys, adminKeys []string) func(http.Handler) http.Handler {
	search := nonEmpty(apiKeys)
	admin := nonEmpty(adminKeys)
	if len(admin) == 0 {
		admin = search
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled: pass everything through.
		if len(search) == 0 && len(admin) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				unauthorized(w, "authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			scope := scopeSearch
			if matches(admin, token) {
				scope = scopeAdmin
			}
			if strings.HasPrefix(r.URL.Path, adminPrefix) {
				if scope != scopeAdmin {
					writeError(w, http.StatusForbidden, CodeUnauthorized, "admin api key required")
					return
				}
			} else if scope != scopeAdmin && !matches(search, token) {
				unauthorized(w, "invalid api key")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey{}, scope)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="solrdex"`)
	writeError(w, http.StatusUnauthorized, CodeUnauthorized, msg)
}

// matches compares token against every key in constant time per key.
func matches(keys [][]byte, token string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	return found == 1
}

func nonEmpty(keys []string) [][]byte {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}
