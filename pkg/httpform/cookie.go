package httpform

import (
	"net/http"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/session"
)

// sessionFor returns the form session of the browser behind r, issuing a
// session cookie when the request has none (or a malformed one).
func sessionFor(w http.ResponseWriter, r *http.Request, opts Options) (form.SessionStore, error) {
	if opts.DisableSessions || opts.Sessions == nil {
		return nil, nil
	}

	id := ""
	if cookie, err := r.Cookie(opts.CookieName); err == nil && session.ValidID(cookie.Value) {
		id = cookie.Value
	}
	if id == "" {
		id = session.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     opts.CookieName,
			Value:    id,
			Path:     opts.CookiePath,
			HttpOnly: true,
			Secure:   opts.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return opts.Sessions.Scope(id)
}
