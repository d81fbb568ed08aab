package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"congrega/internal/adapters/archive"
	"congrega/internal/adapters/email"
	accountStore "congrega/internal/adapters/storage/account"
	congregationStore "congrega/internal/adapters/storage/congregation"
	eventStore "congrega/internal/adapters/storage/event"
	ministryStore "congrega/internal/adapters/storage/ministry"
	musicianStore "congrega/internal/adapters/storage/musician"
	reinforcementStore "congrega/internal/adapters/storage/reinforcement"
	reportStore "congrega/internal/adapters/storage/report"
	"congrega/internal/adapters/storage/storagetest"
	"congrega/internal/application/dataaccess"
	"congrega/internal/application/orchestrators"
	"congrega/internal/application/querycache"
)

const (
	testAdminEmail    = "admin@congrega.test"
	testAdminPassword = "senha-muito-segura"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// testApp is a running dashboard over a migrated in-memory database.
type testApp struct {
	t        *testing.T
	srv      *httptest.Server
	client   *http.Client
	registry *dataaccess.Registry
	caches   *querycache.Set
	reports  *reportStore.SQLStore
}

func newTestApp(t *testing.T, authRequired bool) *testApp {
	t.Helper()
	db := storagetest.Open(t)
	caches := querycache.NewSet(0, nil)
	registry := dataaccess.NewRegistry(dataaccess.Stores{
		Congregations:  congregationStore.NewSQLStore(db),
		Ministry:       ministryStore.NewSQLStore(db),
		Musicians:      musicianStore.NewSQLStore(db),
		Events:         eventStore.NewSQLStore(db),
		Reinforcements: reinforcementStore.NewSQLStore(db),
	}, caches)
	accounts := accountStore.NewSQLStore(db)
	reports := reportStore.NewSQLStore(db)
	arch, err := archive.NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = orchestrators.ExecuteEnsureAdmin(context.Background(), orchestrators.EnsureAdminInput{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	}, orchestrators.CreateAccountDeps{AccountStore: accounts})
	require.NoError(t, err)

	handler, err := NewMux(Deps{
		Registry:     registry,
		Caches:       caches,
		Accounts:     accounts,
		Reports:      reports,
		Archive:      arch,
		Sender:       email.NewNoopSender(),
		DB:           db,
		AuthRequired: authRequired,
		CSRFKey:      []byte("test-csrf-key"),
		Now:          func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testApp{t: t, srv: srv, client: client, registry: registry, caches: caches, reports: reports}
}

// get returns the status and body of GET path.
func (a *testApp) get(path string) (int, string) {
	a.t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, string(body)
}

// token fetches page and returns the CSRF token rendered in its forms.
func (a *testApp) token(page string) string {
	a.t.Helper()
	_, body := a.get(page)
	m := csrfInput.FindStringSubmatch(body)
	require.NotNil(a.t, m, "no csrf token on %s", page)
	return m[1]
}

// post submits form to path with a token taken from page.
func (a *testApp) post(page, path string, form url.Values) *http.Response {
	a.t.Helper()
	form.Set("csrf_token", a.token(page))
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) send(method, path, body string) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(a.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.client.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func congregationForm(name string) url.Values {
	return url.Values{
		"name":        {name},
		"address":     {"Rua das Flores, 100"},
		"city":        {"Campinas"},
		"state":       {"sp"},
		"responsible": {"Irmão Responsável"},
		"capacity":    {"250"},
		"status":      {"ativa"},
	}
}

// createCongregation posts the create form and returns the stored record's id.
func (a *testApp) createCongregation(name string) string {
	a.t.Helper()
	resp := a.post("/congregacoes?novo=1", "/congregacoes", congregationForm(name))
	require.Equal(a.t, http.StatusSeeOther, resp.StatusCode)
	list, err := a.registry.Congregations().List(context.Background(), congregationStore.ListFilter{})
	require.NoError(a.t, err)
	for _, c := range list {
		if c.Name == name {
			return c.ID
		}
	}
	a.t.Fatalf("congregation %q not stored", name)
	return ""
}

func TestCongregations_CreateRedirectsWithToast(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.post("/congregacoes?novo=1", "/congregacoes", congregationForm("Congregação Teste"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/congregacoes", resp.Header.Get("Location"))

	status, body := app.get("/congregacoes")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Congregação cadastrada!")
	assert.Contains(t, body, "Congregação Teste")
	assert.Contains(t, body, "Campinas/SP")

	// The toast is shown once.
	_, body = app.get("/congregacoes")
	assert.NotContains(t, body, "Congregação cadastrada!")
}

func TestCongregations_InvalidKeepsInputAndStoresNothing(t *testing.T) {
	app := newTestApp(t, false)

	form := congregationForm("ab")
	form.Set("address", "Rua Sem Número")
	resp := app.post("/congregacoes?novo=1", "/congregacoes", form)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "Nome deve ter pelo menos 3 caracteres")
	assert.Contains(t, body, `value="Rua Sem Número"`)
	assert.Contains(t, body, "<dialog open")

	list, err := app.registry.Congregations().List(context.Background(), congregationStore.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCongregations_EditKeepsID(t *testing.T) {
	app := newTestApp(t, false)
	id := app.createCongregation("Congregação Central")

	status, body := app.get("/congregacoes?editar=" + id)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `action="/congregacoes/`+id+`"`)
	assert.Contains(t, body, `value="Congregação Central"`)

	form := congregationForm("Congregação Central")
	form.Set("status", "inativa")
	resp := app.post("/congregacoes?editar="+id, "/congregacoes/"+id, form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	got, err := app.registry.Congregations().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "inativa", got.Status)

	list, err := app.registry.Congregations().List(context.Background(), congregationStore.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCongregations_EditUnknownIDIs404(t *testing.T) {
	app := newTestApp(t, false)

	status, body := app.get("/congregacoes?editar=nao-existe")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Registro não encontrado")
}

func TestCongregations_DeleteRefreshesList(t *testing.T) {
	app := newTestApp(t, false)
	id := app.createCongregation("Congregação Removida")

	// Warm the cached list before deleting.
	_, body := app.get("/congregacoes")
	require.Contains(t, body, "Congregação Removida")

	resp := app.post("/congregacoes", "/congregacoes/"+id+"/excluir", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = app.get("/congregacoes")
	assert.Contains(t, body, "Congregação removido(a)")
	assert.NotContains(t, body, "<td>Congregação Removida")
	assert.Contains(t, body, "Nenhuma congregação cadastrada.")
}

func TestCSRF_RejectsFormWithoutToken(t *testing.T) {
	app := newTestApp(t, false)
	app.get("/congregacoes")

	resp, err := app.client.PostForm(app.srv.URL+"/congregacoes", congregationForm("Sem Token"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMinistry_ServedCongregationsFollowRole(t *testing.T) {
	app := newTestApp(t, false)
	app.createCongregation("Congregação Central")

	cases := []struct {
		role   string
		hidden bool
	}{
		{role: "anciao", hidden: false},
		{role: "cooperador", hidden: true},
		{role: "diaconisa", hidden: true},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			// Missing name keeps the modal open with the posted role.
			resp := app.post("/ministerio?novo=1", "/ministerio", url.Values{"role": {tc.role}})
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			body := readBody(t, resp)
			if tc.hidden {
				assert.Contains(t, body, `diacono " hidden>`)
			} else {
				assert.NotContains(t, body, `diacono " hidden>`)
			}
		})
	}
}

func TestMusicians_SearchIgnoresAccents(t *testing.T) {
	app := newTestApp(t, false)
	congID := app.createCongregation("Congregação Central")

	for _, name := range []string{"João Pereira", "Maria Souza"} {
		resp := app.post("/musical?novo=1", "/musical", url.Values{
			"name":            {name},
			"instrument":      {"Violino"},
			"congregation_id": {congID},
			"status":          {"ativo"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, name)
	}

	_, body := app.get("/musical?q=" + url.QueryEscape("joao"))
	assert.Contains(t, body, "João Pereira")
	assert.NotContains(t, body, "Maria Souza")
}

func TestAPI_CongregationLifecycle(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.send(http.MethodPost, "/api/congregations", `{
		"name": "Congregação API",
		"address": "Avenida Brasil, 500",
		"city": "Santos",
		"state": "SP",
		"responsible": "Irmão Responsável",
		"capacity": 120,
		"status": "ativa"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID       string
		Name     string
		Capacity int
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Congregação API", created.Name)
	assert.Equal(t, 120, created.Capacity)

	resp = app.send(http.MethodGet, "/api/congregations/"+created.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A partial update keeps the fields it does not name.
	resp = app.send(http.MethodPut, "/api/congregations/"+created.ID, `{"status": "em_construcao"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		ID       string
		Name     string
		Address  string
		Capacity int
		Status   string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "em_construcao", updated.Status)
	assert.Equal(t, "Congregação API", updated.Name)
	assert.Equal(t, "Avenida Brasil, 500", updated.Address)
	assert.Equal(t, 120, updated.Capacity)

	resp = app.send(http.MethodPut, "/api/congregations/"+created.ID, `{"name": "x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var invalid struct {
		Error  string
		Fields map[string]string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&invalid))
	assert.Equal(t, "dados inválidos", invalid.Error)
	assert.Len(t, invalid.Fields, 1)
	assert.Contains(t, invalid.Fields, "name")

	resp = app.send(http.MethodPut, "/api/congregations/desconhecida", `{"status": "ativa"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.send(http.MethodDelete, "/api/congregations/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = app.send(http.MethodGet, "/api/congregations/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.send(http.MethodGet, "/api/congregations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", readBody(t, resp))
}

func TestReinforcements_InProgressCampaignIsNotDisplaced(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.send(http.MethodPost, "/api/reinforcements", `{
		"congregation_name": "Central",
		"event_type": "culto_oficial",
		"date": "2026-03-08",
		"time": "19:30",
		"objective": "Reforma do telhado",
		"goal": "1.500,00",
		"collected": "250,00",
		"status": "em_andamento"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.post("/reforcos-coletas?novo=1", "/reforcos-coletas", url.Values{
		"congregation_name": {"Central"},
		"event_type":        {"rjm"},
		"date":              {"2026-02-01"},
		"time":              {"10:00"},
		"objective":         {"Construção do salão"},
		"goal":              {"800"},
		"status":            {"agendado"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "já existe um reforço em andamento para Central")
	assert.Contains(t, body, `value="Construção do salão"`, "posted input is kept")

	resp = app.send(http.MethodGet, "/api/reinforcements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []struct {
		Status    string
		Collected int64
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "em_andamento", list[0].Status)
	assert.Equal(t, int64(25000), list[0].Collected)
}

func TestAPI_RejectsMalformedJSON(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.send(http.MethodPost, "/api/musicians", `{"name": {"nested": true}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.send(http.MethodPost, "/api/musicians", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDecodeJSONForm(t *testing.T) {
	values, err := decodeJSONForm(strings.NewReader(`{
		"name": "Ana",
		"capacity": 42,
		"active": true,
		"served_congregations": ["a", "b"],
		"notes": null
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Ana", values.Get("name"))
	assert.Equal(t, "42", values.Get("capacity"))
	assert.Equal(t, "true", values.Get("active"))
	assert.Equal(t, []string{"a", "b"}, values["served_congregations"])
	_, ok := values["notes"]
	assert.False(t, ok)
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t, false)

	status, body := app.get("/pagina-inexistente")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "/pagina-inexistente")

	status, body = app.get("/api/nada")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"rota não encontrada"}`, body)
}

func TestPages_RenderEmpty(t *testing.T) {
	app := newTestApp(t, false)

	for _, path := range []string{"/", "/congregacoes", "/ministerio", "/musical", "/agendamentos", "/reforcos-coletas", "/relatorios", "/listas", "/ebi", "/darpe"} {
		status, body := app.get(path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Contains(t, body, "<nav", path)
	}
}

func TestLists_ShowsRostersAndSidebarEntry(t *testing.T) {
	app := newTestApp(t, false)

	status, body := app.get("/listas")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Escala de Porteiros")
	assert.Contains(t, body, "Pessoas Escaladas")
	assert.Contains(t, body, `<span class="count">107</span>`)

	_, body = app.get("/")
	assert.Contains(t, body, `href="/listas"`)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, false)

	status, body := app.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestAuth_RedirectsWithoutSession(t *testing.T) {
	app := newTestApp(t, true)

	resp, err := app.client.Get(app.srv.URL + "/congregacoes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = app.send(http.MethodGet, "/api/congregations", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	status, _ := app.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth_LoginAndLogout(t *testing.T) {
	app := newTestApp(t, true)

	resp := app.post("/login", "/login", url.Values{"email": {testAdminEmail}, "password": {"senha-errada-123"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Não foi possível entrar")

	resp = app.post("/login", "/login", url.Values{"email": {testAdminEmail}, "password": {testAdminPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	status, body := app.get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Bem-vindo!")
	assert.Contains(t, body, testAdminEmail)
	scopes := app.caches.Len()
	require.Positive(t, scopes, "the dashboard read through the session's cache scope")

	resp = app.post("/", "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, scopes-1, app.caches.Len(), "logout drops the session's cache scope")

	r, err := app.client.Get(app.srv.URL + "/")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusSeeOther, r.StatusCode)
}

func TestAuth_LoginValidation(t *testing.T) {
	app := newTestApp(t, true)

	resp := app.post("/login", "/login", url.Values{"email": {"nao-e-email"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `value="nao-e-email"`)
}

func TestReports_GenerateAndDownload(t *testing.T) {
	app := newTestApp(t, false)
	app.createCongregation("Congregação Central")

	resp := app.post("/relatorios", "/relatorios", url.Values{"kind": {"geral"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := app.get("/relatorios")
	assert.Contains(t, body, "Relatório gerado!")

	list, err := app.reports.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	resp = app.send(http.MethodGet, "/relatorios/"+list[0].ID+"/arquivo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, readBody(t, resp), "Congregação Central")

	status, _ := app.get("/relatorios/desconhecido/arquivo")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReports_InvalidKind(t *testing.T) {
	app := newTestApp(t, false)

	resp := app.post("/relatorios", "/relatorios", url.Values{"kind": {"semanal"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Selecione o tipo de relatório")
}

func TestAuth_ChangePassword(t *testing.T) {
	app := newTestApp(t, true)
	resp := app.post("/login", "/login", url.Values{"email": {testAdminEmail}, "password": {testAdminPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post("/conta/senha", "/conta/senha", url.Values{
		"current_password": {testAdminPassword},
		"new_password":     {"nova-senha-segura"},
		"confirm_password": {"outra-coisa-qualquer"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "As senhas não conferem")

	resp = app.post("/conta/senha", "/conta/senha", url.Values{
		"current_password": {"senha-incorreta"},
		"new_password":     {"nova-senha-segura"},
		"confirm_password": {"nova-senha-segura"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "senha atual incorreta")

	resp = app.post("/conta/senha", "/conta/senha", url.Values{
		"current_password": {testAdminPassword},
		"new_password":     {"nova-senha-segura"},
		"confirm_password": {"nova-senha-segura"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = app.post("/", "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = app.post("/login", "/login", url.Values{"email": {testAdminEmail}, "password": {"nova-senha-segura"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}
