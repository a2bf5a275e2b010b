package httpapi

import (
	"context"
	"net/http"

	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// SessionCookie carries the server-side session id.
const SessionCookie = "agenda_sid"

// LoginPath is where unauthenticated requests get redirected.
const LoginPath = "/login/index"

type ctxKey int

const authKey ctxKey = iota

// AuthInfo is the authenticated caller attached to the request context.
type AuthInfo struct {
	SessionID string
	Session   store.Session
}

// authFrom returns the authenticated caller, if any.
func authFrom(r *http.Request) (AuthInfo, bool) {
	info, ok := r.Context().Value(authKey).(AuthInfo)
	return info, ok
}

// RequireLogin resolves the session cookie and rejects unauthenticated
// requests with a redirect to the login page (the response contract of the
// original application). Infrastructure failures are a 500, not a redirect,
// so a Redis outage does not masquerade as a logout.
func RequireLogin(sessions *store.SessionStore, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		sess, err := sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			if err == store.ErrMiss {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			logger.Error("session lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
			return
		}

		ctx := context.WithValue(r.Context(), authKey, AuthInfo{
			SessionID: cookie.Value,
			Session:   *sess,
		})
		next(w, r.WithContext(ctx))
	}
}
