package httpapi

import (
	"net/http"

	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// ContactHandler serves the contact CRUD, the home listing and the search.
type ContactHandler struct {
	contacts service.ContactService
	flashes  *store.FlashStore
	logger   *zap.Logger
}

func NewContactHandler(contacts service.ContactService, flashes *store.FlashStore, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, flashes: flashes, logger: logger}
}

// flash queues a one-time message bundle for the caller's session; failures
// are logged, never fatal, so a Redis hiccup cannot break a finished write.
func (h *ContactHandler) flash(r *http.Request, flash store.Flash) {
	auth, ok := authFrom(r)
	if !ok {
		return
	}
	if err := h.flashes.Put(r.Context(), auth.SessionID, flash); err != nil {
		h.logger.Warn("flash store failed", zap.Error(err))
	}
}

func (h *ContactHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if err == repository.ErrNotFound {
		writeJSON(w, http.StatusNotFound, Fail("não encontrado"))
		return
	}
	h.logger.Error("contact operation failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
}

// contactForm reads the raw contact payload from a form post.
func contactForm(r *http.Request) map[string]any {
	return map[string]any{
		"nome":      r.PostFormValue("nome"),
		"sobrenome": r.PostFormValue("sobrenome"),
		"email":     r.PostFormValue("email"),
		"telefone":  r.PostFormValue("telefone"),
	}
}

// Home lists the caller's contacts, newest first, with any pending flash.
func (h *ContactHandler) Home(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	contacts, err := h.contacts.List(r.Context(), auth.Session.AccountID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	flash, err := h.flashes.Take(r.Context(), auth.SessionID)
	if err != nil {
		h.logger.Warn("flash take failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"contatos":      contacts,
		"totalContatos": len(contacts),
		"flash":         flash,
	}))
}

// Index answers the blank contact form route with any pending flash
// (rendering lives in the frontend).
func (h *ContactHandler) Index(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	flash, err := h.flashes.Take(r.Context(), auth.SessionID)
	if err != nil {
		h.logger.Warn("flash take failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"contato": map[string]any{}, "flash": flash}))
}

// Create registers a contact and redirects per the original contract:
// violations go back to the blank form, success to the new contact's page.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("requisição inválida"))
		return
	}

	contact, violations, err := h.contacts.Create(r.Context(), auth.Session.AccountID, contactForm(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(violations) > 0 {
		h.flash(r, store.Flash{Errors: violations})
		http.Redirect(w, r, "/contato/index", http.StatusFound)
		return
	}

	h.flash(r, store.Flash{Success: []string{"Contato registrado com sucesso!"}})
	http.Redirect(w, r, "/contato/index/"+contact.ContactID, http.StatusFound)
}

// Get fetches one owned contact (the edit form's data source). Absence and
// someone else's contact answer the same 404.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	auth, _ := authFrom(r)

	contact, err := h.contacts.Get(r.Context(), auth.Session.AccountID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	flash, err := h.flashes.Take(r.Context(), auth.SessionID)
	if err != nil {
		h.logger.Warn("flash take failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"contato": contact,
		"flash":   flash,
	}))
}

func (h *ContactHandler) Edit(w http.ResponseWriter, r *http.Request, id string) {
	auth, _ := authFrom(r)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("requisição inválida"))
		return
	}

	contact, violations, err := h.contacts.Update(r.Context(), auth.Session.AccountID, id, contactForm(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(violations) > 0 {
		h.flash(r, store.Flash{Errors: violations})
		http.Redirect(w, r, "/contato/index/"+id, http.StatusFound)
		return
	}

	h.flash(r, store.Flash{Success: []string{"Contato editado com sucesso!"}})
	http.Redirect(w, r, "/contato/index/"+contact.ContactID, http.StatusFound)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	auth, _ := authFrom(r)

	if _, err := h.contacts.Delete(r.Context(), auth.Session.AccountID, id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.flash(r, store.Flash{Success: []string{"Contato apagado com sucesso"}})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *ContactHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	if _, err := h.contacts.DeleteAll(r.Context(), auth.Session.AccountID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.flash(r, store.Flash{Success: []string{"Todos os contatos foram apagados."}})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Search answers the paginated, filtered listing.
// Query parameters: q, ordem (asc|desc), pagina, limite.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)
	query := r.URL.Query()

	page, err := h.contacts.Search(r.Context(), auth.Session.AccountID, service.SearchQuery{
		Term:  query.Get("q"),
		Order: query.Get("ordem"),
		Page:  parseInt(query.Get("pagina"), service.DefaultPage),
		Limit: parseInt(query.Get("limite"), service.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(page))
}
