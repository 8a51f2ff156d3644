package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zone/internal/auth"
	"zone/internal/dates"
	"zone/internal/index"
	"zone/internal/metrics"
	"zone/internal/notes"
)

type testEnv struct {
	store  *notes.Store
	idx    *index.Index
	server *Server
	public string
}

func newTestEnv(t *testing.T, withIndex bool) *testEnv {
	t.Helper()
	root := t.TempDir()
	store := notes.NewStore(filepath.Join(root, "daily"), filepath.Join(root, "named"))
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	public := filepath.Join(root, "public")
	if err := os.MkdirAll(filepath.Join(public, "app"), 0o755); err != nil {
		t.Fatalf("mkdir public: %v", err)
	}
	writeFile(t, filepath.Join(public, "index.html"), "<html>editor</html>")
	writeFile(t, filepath.Join(public, "app.js"), "console.log(1)")
	writeFile(t, filepath.Join(public, "app", "index.html"), "<html>app</html>")

	env := &testEnv{store: store, public: public}
	if withIndex {
		idx, err := index.Open(filepath.Join(root, "index.sqlite"))
		if err != nil {
			t.Fatalf("open index: %v", err)
		}
		t.Cleanup(func() { _ = idx.Close() })
		if err := idx.Init(context.Background(), store); err != nil {
			t.Fatalf("init index: %v", err)
		}
		store.Observe(idx)
		env.idx = idx
	}
	env.server = NewServer(Options{Store: store, Index: env.idx, PublicDir: public, Metrics: metrics.New()})
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreateDailyNote(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodPost, "/notes", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	n := decode[notes.Note](t, rec)
	if !dates.Match(n.ID) {
		t.Fatalf("expected a daily id, got %q", n.ID)
	}
	if !strings.Contains(n.Content, "# todo") {
		t.Fatalf("expected daily template, got %q", n.Content)
	}

	again := decode[notes.Note](t, env.do(t, http.MethodPost, "/notes", ""))
	if again.ID != n.ID {
		t.Fatalf("expected same daily note, got %q and %q", n.ID, again.ID)
	}
}

func TestNamedNoteLifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodPost, "/notes", `{"title":"Reading list","content":"- [ ] dune"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[notes.Note](t, rec)
	if !strings.HasPrefix(created.ID, "n-") {
		t.Fatalf("expected named id, got %q", created.ID)
	}

	got := decode[notes.Note](t, env.do(t, http.MethodGet, "/notes/"+created.ID, ""))
	if got.Title != "Reading list" || got.Content != "- [ ] dune" {
		t.Fatalf("unexpected note %+v", got)
	}

	rec = env.do(t, http.MethodPut, "/notes/"+created.ID, `{"content":"- [x] dune"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[notes.Note](t, rec)
	if updated.Title != "Reading list" || updated.Content != "- [x] dune" {
		t.Fatalf("unexpected update %+v", updated)
	}

	list := decode[[]notes.Summary](t, env.do(t, http.MethodGet, "/notes/named", ""))
	if len(list) != 1 || list[0].Slug != "reading-list" {
		t.Fatalf("unexpected named list %+v", list)
	}

	rec = env.do(t, http.MethodDelete, "/notes/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/notes/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestNoteErrors(t *testing.T) {
	env := newTestEnv(t, false)
	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodGet, "/notes/n-missing1", "", http.StatusNotFound},
		{http.MethodGet, "/notes/bogus", "", http.StatusBadRequest},
		{http.MethodDelete, "/notes/n-missing1", "", http.StatusNotFound},
		{http.MethodPut, "/notes/n-missing1", `{"content":"x"}`, http.StatusNotFound},
		{http.MethodPut, "/notes/n-missing1", `{not json`, http.StatusBadRequest},
		{http.MethodPost, "/notes", `[1,2]`, http.StatusBadRequest},
		{http.MethodPatch, "/notes/n-missing1", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := env.do(t, tc.method, tc.target, tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.want, rec.Code)
		}
	}
}

func TestHighlightEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodPost, "/highlight", `{"content":"- [ ] buy **milk**\nsee [here](http://x.com)"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[highlightResponse](t, rec)
	if len(resp.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(resp.Lines))
	}
	if !strings.Contains(resp.Lines[0], `class="todo"`) || !strings.Contains(resp.Lines[0], `class="bold"`) {
		t.Fatalf("unexpected first line %s", resp.Lines[0])
	}
	if resp.Links["(http://x.com)"] != "[here]" {
		t.Fatalf("unexpected links %v", resp.Links)
	}
	if resp.Tree != nil {
		t.Fatalf("tree should be omitted without ?tree=1")
	}

	resp = decode[highlightResponse](t, env.do(t, http.MethodPost, "/highlight?tree=1", `{"content":"*x*"}`))
	if len(resp.Tree) != 1 || resp.Tree[0].Class != "line" {
		t.Fatalf("unexpected tree %+v", resp.Tree)
	}
}

func TestNoteLinksAndView(t *testing.T) {
	env := newTestEnv(t, false)
	title, content := "Links", "see [docs](https://go.dev)\n\n```go\nfunc main() {}\n```"
	n, err := env.store.Create(context.Background(), notes.Fields{Title: &title, Content: &content})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	links := decode[struct {
		Links map[string]string `json:"links"`
	}](t, env.do(t, http.MethodGet, "/notes/"+n.ID+"/links", ""))
	if links.Links["(https://go.dev)"] != "[docs]" {
		t.Fatalf("unexpected links %v", links.Links)
	}

	rec := env.do(t, http.MethodGet, "/notes/"+n.ID+"/view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Links</title>") || !strings.Contains(body, `href="https://go.dev"`) {
		t.Fatalf("unexpected view body %s", body)
	}
	if !strings.Contains(body, "chroma") {
		t.Fatalf("expected highlighted code block in %s", body)
	}
}

func TestStaticFiles(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "<html>editor</html>" {
		t.Fatalf("unexpected index response %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Fatalf("unexpected index content type %q", ct)
	}

	rec = env.do(t, http.MethodGet, "/app.js", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/javascript" {
		t.Fatalf("unexpected js response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = env.do(t, http.MethodGet, "/app", "")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/app/" {
		t.Fatalf("expected redirect to /app/, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if rec := env.do(t, http.MethodGet, "/app/", ""); rec.Body.String() != "<html>app</html>" {
		t.Fatalf("unexpected nested index %q", rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/missing.css", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/nothing/", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for directory without index, got %d", rec.Code)
	}
}

func TestQueryEndpointsNeedIndex(t *testing.T) {
	env := newTestEnv(t, false)
	for _, target := range []string{"/search?q=x", "/tasks", "/links"} {
		if rec := env.do(t, http.MethodGet, target, ""); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", target, rec.Code)
		}
	}
}

func TestQueryEndpoints(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	title, content := "Groceries", "- [ ] oat milk\n- [x] bread\nsee [shop](https://shop.example)"
	n, err := env.store.Create(ctx, notes.Fields{Title: &title, Content: &content})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks := decode[struct {
		Tasks []index.Task `json:"tasks"`
	}](t, env.do(t, http.MethodGet, "/tasks", ""))
	if len(tasks.Tasks) != 1 || tasks.Tasks[0].NoteID != n.ID || !strings.Contains(tasks.Tasks[0].Text, "oat milk") {
		t.Fatalf("unexpected tasks %+v", tasks.Tasks)
	}

	links := decode[struct {
		Links []index.Link `json:"links"`
	}](t, env.do(t, http.MethodGet, "/links", ""))
	if len(links.Links) != 1 || links.Links[0].URL != "https://shop.example" || links.Links[0].Text != "shop" {
		t.Fatalf("unexpected links %+v", links.Links)
	}

	search := decode[struct {
		Query   string               `json:"query"`
		Results []index.SearchResult `json:"results"`
	}](t, env.do(t, http.MethodGet, "/search?q=bread", ""))
	if len(search.Results) != 1 || search.Results[0].ID != n.ID {
		t.Fatalf("unexpected search results %+v", search.Results)
	}
}

func TestBasicAuth(t *testing.T) {
	env := newTestEnv(t, false)
	h := NewServer(Options{
		Store:     env.store,
		PublicDir: env.public,
		Auth:      auth.Static{User: "ann", Password: "secret"},
	}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="zone"` {
		t.Fatalf("unexpected challenge %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.SetBasicAuth("ann", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.SetBasicAuth("ann", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	env.do(t, http.MethodGet, "/notes", "")
	env.do(t, http.MethodPost, "/highlight", `{"content":"a\nb"}`)

	rec := env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`zone_http_requests_total{route="GET /notes",status="200"} 1`,
		`zone_highlight_lines_total 2`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
