package middleware

import (
	"context"
	"net/http"
	"strings"

	goGate "github.com/MrEthical07/goGate"
)

// DefaultCookieName is the session cookie read by [FromCookie] when the
// name is left empty.
const DefaultCookieName = "gogate_session"

type principalContextKey struct{}

// PrincipalFromContext returns the session principal injected by [Gate].
// Any request carrying a valid token gets one, exempt paths included,
// so a sign-in page can tell an already-authenticated visitor apart.
func PrincipalFromContext(ctx context.Context) (*goGate.SessionPrincipal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*goGate.SessionPrincipal)
	return p, ok
}

// TokenExtractor pulls the session token out of a request. Returning ""
// means the request carries no session.
type TokenExtractor func(r *http.Request) string

// FromCookie extracts the token from a cookie.
func FromCookie(name string) TokenExtractor {
	if name == "" {
		name = DefaultCookieName
	}
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// FromAuthorizationHeader extracts a bearer token.
func FromAuthorizationHeader(r *http.Request) string {
	const bearer = "Bearer "
	value := r.Header.Get("Authorization")
	if !strings.HasPrefix(value, bearer) {
		return ""
	}
	return value[len(bearer):]
}

// Gate returns middleware enforcing the engine's decision on every
// request. Redirects use 302 so browsers land on the sign-in page with
// a GET. A nil extract defaults to [FromCookie] with
// [DefaultCookieName].
func Gate(engine *goGate.Engine, extract TokenExtractor) func(http.Handler) http.Handler {
	if extract == nil {
		extract = FromCookie(DefaultCookieName)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			token := extract(r)

			decision := engine.GateRequest(r.URL.Path, token)
			if !decision.Allow {
				http.Redirect(w, r, decision.Location, http.StatusFound)
				return
			}

			// The decision already vetted the token on non-exempt
			// paths; Validate here recovers the claims for the handler.
			if token != "" {
				if principal, err := engine.Validate(token); err == nil {
					ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
