package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeKV is an in-memory stand-in for Redis.
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV { return &fakeKV{data: make(map[string]string)} }

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return val, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

// testApp wires the full handler stack over in-memory repositories.
type testApp struct {
	router   *Router
	contacts *repository.MemoryContactsRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := zap.NewNop()

	kv := newFakeKV()
	sessions := store.NewSessionStore(kv, time.Hour)
	flashes := store.NewFlashStore(kv, time.Hour)

	accounts := repository.NewMemoryAccountsRepo()
	contacts := repository.NewMemoryContactsRepo()

	authSvc := service.NewAuthService(accounts, logger)
	contactSvc := service.NewContactService(contacts, logger)
	importer := service.NewImportService(contacts, logger)
	exporter := service.NewExportService(contacts, t.TempDir(), 1000, logger)

	router := NewRouter(sessions, logger)
	router.RegisterAuthRoutes(NewAuthHandler(authSvc, sessions, logger))
	router.RegisterContactRoutes(NewContactHandler(contactSvc, flashes, logger))
	router.RegisterImportExportRoutes(
		NewImportHandler(importer, flashes, logger),
		NewExportHandler(exporter, flashes, logger),
	)

	return &testApp{router: router, contacts: contacts}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return a.do(req)
}

// signup registers and logs in a fresh account, returning the session cookie.
func (a *testApp) signup(t *testing.T, email string) *http.Cookie {
	t.Helper()
	creds := url.Values{"email": {email}, "password": {"123456"}}

	rec := a.postForm("/login/register", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.postForm("/login/login", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env Result[map[string]any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Result
}

func decodeViolations(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var env Result[[]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, ResultError, env.Code)
	return env.Result
}

func newContactForm(nome, telefone string) url.Values {
	return url.Values{
		"nome":     {nome},
		"telefone": {telefone},
	}
}

func TestRequireLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	// an unknown session id redirects the same way
	rec = app.get("/contato/index", &http.Cookie{Name: SessionCookie, Value: "stale"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	creds := url.Values{"email": {"teste@teste.com"}, "password": {"123456"}}

	rec := app.postForm("/login/register", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.postForm("/login/register", creds, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeViolations(t, rec), validation.MsgDuplicateAccount)
}

func TestLoginBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "teste@teste.com")

	rec := app.postForm("/login/login",
		url.Values{"email": {"teste@teste.com"}, "password": {"errada"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{validation.MsgInvalidCredentials}, decodeViolations(t, rec))

	// unknown account gets the exact same answer
	rec = app.postForm("/login/login",
		url.Values{"email": {"ninguem@teste.com"}, "password": {"123456"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{validation.MsgInvalidCredentials}, decodeViolations(t, rec))
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.get("/login/logout", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	// the old cookie no longer resolves to a session
	rec = app.get("/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
}

func TestCreateContactRedirectsAndFlashes(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.postForm("/contato/register", newContactForm("Marcelo", "(21)99999-9999"), cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/contato/index/"))

	rec = app.get(location, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodePayload(t, rec)

	contact, ok := payload["contato"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Marcelo", contact["nome"])
	assert.Equal(t, "21999999999", contact["telefoneLimpo"])

	flash, ok := payload["flash"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, flash["success"], "Contato registrado com sucesso!")

	// the flash is read-once
	rec = app.get(location, cookie)
	payload = decodePayload(t, rec)
	assert.Empty(t, payload["flash"])
}

func TestCreateContactViolations(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.postForm("/contato/register", url.Values{"sobrenome": {"Silva"}}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contato/index", rec.Header().Get("Location"))

	rec = app.get("/contato/index", cookie)
	payload := decodePayload(t, rec)
	flash, ok := payload["flash"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, flash["errors"], validation.MsgNameRequired)
	assert.Contains(t, flash["errors"], validation.MsgContactRequired)

	// nothing was written
	rec = app.get("/", cookie)
	payload = decodePayload(t, rec)
	assert.Equal(t, float64(0), payload["totalContatos"])
}

func TestGetContactIsOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	owner := app.signup(t, "dona@teste.com")
	intruder := app.signup(t, "intruso@teste.com")

	rec := app.postForm("/contato/register", newContactForm("Ana", "(21)91234-5678"), owner)
	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")

	rec = app.get(location, intruder)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.get("/contato/index/nao-existe", owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditContact(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.postForm("/contato/register", newContactForm("Ana", "(21)91234-5678"), cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/contato/index/")

	rec = app.postForm("/contato/edit/"+id, newContactForm("Beatriz", "(21)91234-5678"), cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contato/index/"+id, rec.Header().Get("Location"))

	rec = app.get("/contato/index/"+id, cookie)
	payload := decodePayload(t, rec)
	contact := payload["contato"].(map[string]any)
	assert.Equal(t, "Beatriz", contact["nome"])
}

func TestDeleteAllContacts(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	app.postForm("/contato/register", newContactForm("Ana", "(21)91234-5678"), cookie)
	app.postForm("/contato/register", newContactForm("Bruno", "(21)92222-3333"), cookie)

	rec := app.get("/contato/delete-todos", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.get("/", cookie)
	payload := decodePayload(t, rec)
	assert.Equal(t, float64(0), payload["totalContatos"])
	flash := payload["flash"].(map[string]any)
	assert.Contains(t, flash["success"], "Todos os contatos foram apagados.")
}

func TestSearchEndpoint(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	for _, nome := range []string{"Ana", "Bruno", "Carla", "Diego"} {
		rec := app.postForm("/contato/register",
			url.Values{"nome": {nome}, "email": {strings.ToLower(nome) + "@email.com"}}, cookie)
		require.Equal(t, http.StatusFound, rec.Code)
	}

	rec := app.get("/contato/busca?ordem=desc&limite=2&pagina=2", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodePayload(t, rec)

	assert.Equal(t, float64(4), payload["totalContatos"])
	assert.Equal(t, float64(2), payload["totalPaginas"])
	assert.Equal(t, float64(2), payload["paginaAtual"])

	contacts := payload["contatos"].([]any)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Bruno", contacts[0].(map[string]any)["nome"])
	assert.Equal(t, "Ana", contacts[1].(map[string]any)["nome"])

	rec = app.get("/contato/busca?q=carla", cookie)
	payload = decodePayload(t, rec)
	assert.Equal(t, float64(1), payload["totalContatos"])
}

func TestExportCSVEndpoint(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	// nothing to export yet
	rec := app.get("/contato/exportar-csv", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	app.postForm("/contato/register", newContactForm("Ana", "(21)91234-5678"), cookie)

	rec = app.get("/contato/exportar-csv", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "agenda.csv")

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"nome","sobrenome","email","telefone"`, lines[0])
	assert.Equal(t, `"Ana","","","(21)91234-5678"`, lines[1])
}

func TestExportPDFEndpoint(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")
	app.postForm("/contato/register", newContactForm("Ana", "(21)91234-5678"), cookie)

	rec := app.get("/contato/exportar?tipo=todos", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "agenda.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	// an unknown tipo bounces back home with a flash
	rec = app.get("/contato/exportar?tipo=zip", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestImportCSVEndpoint(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	csv := "nome,sobrenome,email,telefone\n" +
		"Marcelo,Silva,marcelo@email.com,(21)99999-9999\n" +
		"Joana,,joana@email.com,\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("csvFile", "contatos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/contato/importar-csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	rec := app.do(req)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contato/importar-csv", rec.Header().Get("Location"))

	rec = app.get("/contato/importar-csv", cookie)
	payload := decodePayload(t, rec)
	flash := payload["flash"].(map[string]any)
	assert.Contains(t, flash["success"], "2 contato(s) importado(s) com sucesso.")

	rec = app.get("/", cookie)
	payload = decodePayload(t, rec)
	assert.Equal(t, float64(2), payload["totalContatos"])
}

func TestImportCSVWithoutFile(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.postForm("/contato/importar-csv", url.Values{}, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contato/importar-csv", rec.Header().Get("Location"))
}

func TestUnknownRouteIs404(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.get("/nada-por-aqui", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signup(t, "teste@teste.com")

	rec := app.get("/contato/register", cookie)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
