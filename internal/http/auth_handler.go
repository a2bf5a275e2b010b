package httpapi

import (
	"net/http"

	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth     service.AuthService
	sessions *store.SessionStore
	logger   *zap.Logger
}

func NewAuthHandler(auth service.AuthService, sessions *store.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

// Index answers the login page route. Rendering lives in the frontend; the
// backend only confirms the route so redirects have somewhere to land.
func (h *AuthHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(map[string]string{"page": "login"}))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("requisição inválida"))
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	account, violations, err := h.auth.Register(r.Context(), email, password)
	if err != nil {
		h.logger.Error("registration failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		return
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusBadRequest, Invalid(violations))
		return
	}

	writeJSON(w, http.StatusCreated, Ok(map[string]string{
		"account_id": account.AccountID,
		"email":      account.Email,
	}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("requisição inválida"))
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	account, violations, err := h.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		h.logger.Error("authentication failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		return
	}
	if len(violations) > 0 {
		writeJSON(w, http.StatusUnauthorized, Invalid(violations))
		return
	}

	sid, err := h.sessions.Create(r.Context(), store.Session{
		AccountID: account.AccountID,
		Email:     account.Email,
	})
	if err != nil {
		h.logger.Error("session create failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, Ok(map[string]string{
		"account_id": account.AccountID,
		"email":      account.Email,
	}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("session destroy failed", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, LoginPath, http.StatusFound)
}
