package httpapi

import (
	"net/http"
	"strings"

	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux (no third-party routing
// dependency needed for a route table this small).
type Router struct {
	mux      *http.ServeMux
	sessions *store.SessionStore
	logger   *zap.Logger
}

func NewRouter(sessions *store.SessionStore, logger *zap.Logger) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		sessions: sessions,
		logger:   logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// protected wires the session middleware in front of a handler.
func (r *Router) protected(h http.HandlerFunc) http.HandlerFunc {
	return RequireLogin(r.sessions, r.logger, h)
}

func method(m string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != m {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterAuthRoutes wires the login/registration routes.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/login/index", method(http.MethodGet, h.Index))
	r.Handle("/login/register", method(http.MethodPost, h.Register))
	r.Handle("/login/login", method(http.MethodPost, h.Login))
	r.Handle("/login/logout", method(http.MethodGet, h.Logout))
}

// RegisterContactRoutes wires the home listing and the contact CRUD/search,
// all behind the session middleware.
func (r *Router) RegisterContactRoutes(c *ContactHandler) {
	r.Handle("/", r.protected(func(w http.ResponseWriter, req *http.Request) {
		// "/" on ServeMux is a catch-all; anything else is a 404
		if req.URL.Path != "/" {
			writeJSON(w, http.StatusNotFound, Fail("não encontrado"))
			return
		}
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c.Home(w, req)
	}))

	r.Handle("/contato/index", r.protected(method(http.MethodGet, c.Index)))
	r.Handle("/contato/register", r.protected(method(http.MethodPost, c.Create)))
	r.Handle("/contato/busca", r.protected(method(http.MethodGet, c.Search)))
	r.Handle("/contato/delete-todos", r.protected(method(http.MethodGet, c.DeleteAll)))

	r.Handle("/contato/index/", r.protected(method(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(req.URL.Path, "/contato/index/")
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("não encontrado"))
			return
		}
		c.Get(w, req, id)
	})))

	r.Handle("/contato/edit/", r.protected(method(http.MethodPost, func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(req.URL.Path, "/contato/edit/")
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("não encontrado"))
			return
		}
		c.Edit(w, req, id)
	})))

	r.Handle("/contato/delete/", r.protected(method(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id, ok := pathID(req.URL.Path, "/contato/delete/")
		if !ok {
			writeJSON(w, http.StatusNotFound, Fail("não encontrado"))
			return
		}
		c.Delete(w, req, id)
	})))
}

// RegisterImportExportRoutes wires the CSV import and the export downloads.
func (r *Router) RegisterImportExportRoutes(imp *ImportHandler, exp *ExportHandler) {
	r.Handle("/contato/importar-csv", r.protected(func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			imp.Index(w, req)
		case http.MethodPost:
			imp.ImportCSV(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	r.Handle("/contato/exportar", r.protected(method(http.MethodGet, exp.PDF)))
	r.Handle("/contato/exportar-csv", r.protected(method(http.MethodGet, exp.CSV)))
	r.Handle("/contato/exportar-xlsx", r.protected(method(http.MethodGet, exp.XLSX)))
}

// pathID extracts the trailing id segment of a pattern like /contato/edit/{id}.
func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
