package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/sitefrag/internal/checksum"
	"github.com/starford/sitefrag/internal/index"
	"github.com/starford/sitefrag/internal/navigation"
	"github.com/starford/sitefrag/internal/siteservice"
	"github.com/starford/sitefrag/internal/testutil"
)

// testEnv sets up a temp site, journal, service, and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string, pages map[string]string) (http.Handler, string) {
	t.Helper()
	return testEnvWithSSE(t, authToken, pages, nil)
}

func testEnvWithSSE(t *testing.T, authToken string, pages map[string]string, sseHandler http.Handler) (http.Handler, string) {
	t.Helper()
	root, store := testutil.TestSite(t, pages)
	db := testutil.TestDB(t)
	svc := siteservice.NewService(store, db, navigation.DefaultTable(), siteservice.DefaultLayout())
	return NewRouter(svc, authToken != "", authToken, sseHandler), root
}

func do(t *testing.T, h http.Handler, method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestInlineEndpoint(t *testing.T) {
	router, root := testEnv(t, "", map[string]string{
		"about.html": testutil.PlaceholderPage("About", "../js/header-footer-loader.js"),
	})

	w := do(t, router, http.MethodPost, "/inline", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inline status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RunResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Kind != "inline" || resp.Updated != 2 || resp.Failed != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.Contains(testutil.ReadFile(t, root, "pages/about.html"), "nav-about active") {
		t.Error("about page not inlined")
	}
}

func TestInlineEndpoint_Failure(t *testing.T) {
	router, _ := testEnv(t, "", map[string]string{"bare.html": testutil.BarePage})

	w := do(t, router, http.MethodPost, "/inline", nil, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("inline status = %d, want 422", w.Code)
	}
	var resp RunResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Failed != 1 || !strings.Contains(resp.Error, "region not found") {
		t.Errorf("resp = %+v", resp)
	}
}

func TestExtractEndpoint_PartialFailure(t *testing.T) {
	router, _ := testEnv(t, "", map[string]string{
		"about.html": testutil.MarkupPage("About"),
		"bare.html":  testutil.BarePage,
	})

	w := do(t, router, http.MethodPost, "/extract", nil, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("extract status = %d, want 422", w.Code)
	}
	var resp RunResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Updated != 1 || resp.Failed != 1 || len(resp.Results) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPagesAndRunsEndpoints(t *testing.T) {
	router, _ := testEnv(t, "", map[string]string{
		"about.html": testutil.PlaceholderPage("About", "../js/header-footer-loader.js"),
	})

	w := do(t, router, http.MethodGet, "/pages", nil, nil)
	var pages PagesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &pages)
	if w.Code != http.StatusOK || len(pages.Pages) != 2 {
		t.Fatalf("pages status = %d, body = %s", w.Code, w.Body.String())
	}
	for _, p := range pages.Pages {
		if p.State != index.StateUntracked {
			t.Errorf("%s: state = %s before any run", p.Path, p.State)
		}
	}

	do(t, router, http.MethodPost, "/inline", nil, nil)

	w = do(t, router, http.MethodGet, "/pages", nil, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &pages)
	for _, p := range pages.Pages {
		if p.State != index.StateInSync {
			t.Errorf("%s: state = %s after inline", p.Path, p.State)
		}
	}

	w = do(t, router, http.MethodGet, "/runs?limit=5", nil, nil)
	var runs RunsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &runs)
	if len(runs.Runs) != 1 || runs.Runs[0].FinishedAt == nil {
		t.Errorf("runs = %+v", runs)
	}
}

func TestNavEndpoint(t *testing.T) {
	router, _ := testEnv(t, "", nil)

	w := do(t, router, http.MethodGet, "/nav/derma", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("nav status = %d", w.Code)
	}
	var links NavLinks
	_ = json.Unmarshal(w.Body.Bytes(), &links)
	if links.Home != "pages/dermatology.html" || links.Subpage != "dermatology.html" {
		t.Errorf("links = %+v", links)
	}

	w = do(t, router, http.MethodGet, "/nav/blog", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown entry = %d, want 404", w.Code)
	}
}

func TestFragmentGetAndPut(t *testing.T) {
	router, root := testEnv(t, "", nil)

	w := do(t, router, http.MethodGet, "/fragments/footer", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var frag FragmentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &frag)
	if frag.Content != testutil.FooterFragment || frag.Checksum != checksum.Sum([]byte(testutil.FooterFragment)) {
		t.Errorf("fragment = %+v", frag)
	}
	if w.Header().Get("ETag") != `"`+frag.Checksum+`"` {
		t.Errorf("ETag = %q", w.Header().Get("ETag"))
	}

	body, _ := json.Marshal(UpdateFragmentRequest{Content: "<footer>v2</footer>"})
	w = do(t, router, http.MethodPut, "/fragments/footer", body, map[string]string{"If-Match": `"` + frag.Checksum + `"`})
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := testutil.ReadFile(t, root, "includes/footer.html"); got != "<footer>v2</footer>" {
		t.Errorf("footer on disk = %q", got)
	}

	// Same precondition again is now stale.
	w = do(t, router, http.MethodPut, "/fragments/footer", body, map[string]string{"If-Match": frag.Checksum})
	if w.Code != http.StatusConflict {
		t.Errorf("stale put = %d, want 409", w.Code)
	}
}

func TestFragmentErrors(t *testing.T) {
	router, _ := testEnv(t, "", nil)

	if w := do(t, router, http.MethodGet, "/fragments/sidebar", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown fragment = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPut, "/fragments/header", []byte("not json"), nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad body = %d, want 400", w.Code)
	}
	body, _ := json.Marshal(UpdateFragmentRequest{Content: "  "})
	if w := do(t, router, http.MethodPut, "/fragments/header", body, nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty content = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, _ := testEnv(t, "secret", nil)
	w := do(t, router, http.MethodGet, "/pages", nil, map[string]string{"Authorization": "Bearer secret"})
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router, _ := testEnv(t, "secret", nil)
	w := do(t, router, http.MethodPost, "/inline", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router, _ := testEnv(t, "secret", nil)
	w := do(t, router, http.MethodGet, "/fragments/header", nil, map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	router, _ := testEnv(t, "", nil)
	w := do(t, router, http.MethodGet, "/pages", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("disabled auth = %d, want 200", w.Code)
	}
}

// blockingSSE writes the stream headers and blocks until the client leaves.
var blockingSSE = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	router, _ := testEnvWithSSE(t, "secret", nil, blockingSSE)
	w := do(t, router, http.MethodGet, "/events", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router, _ := testEnvWithSSE(t, "tok", nil, blockingSSE)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with valid token = %d, want 200", w.Code)
	}
}

func TestStaticHandler_NoCache(t *testing.T) {
	_, root := testEnv(t, "", nil)
	h := StaticHandler(root)

	w := do(t, h, http.MethodGet, "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("static status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<title>Home</title>") {
		t.Error("home page not served")
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-cache") {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestSSEEvents_QueryToken(t *testing.T) {
	router, _ := testEnvWithSSE(t, "tok", nil, blockingSSE)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events?access_token=tok", nil).WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with query token = %d, want 200", w.Code)
	}

	// The query parameter is only honoured for event streams.
	w = do(t, router, http.MethodGet, "/pages?access_token=tok", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("query token on /pages = %d, want 401", w.Code)
	}
}

func TestStaticHandler_HidesNonSiteFiles(t *testing.T) {
	_, root := testEnv(t, "", map[string]string{"about.html": testutil.MarkupPage("About")})
	testutil.WriteFile(t, root, ".env", "TOKEN=s3cret\n")
	testutil.WriteFile(t, root, "config/config.yaml", "auth:\n  mode: token\n  token: s3cret\n")
	testutil.WriteFile(t, root, "sitefrag.db", "SQLite format 3")
	testutil.WriteFile(t, root, "sitefrag.db-wal", "wal")
	testutil.WriteFile(t, root, "state/journal", "journal")
	testutil.WriteFile(t, root, "js/.cache/x.js", "cached")

	h := StaticHandler(root,
		filepath.Join(root, "state", "journal"),
		filepath.Join(root, "config", "config.yaml"),
		filepath.Join(root, "config"),
	)

	for _, target := range []string{
		"/.env",
		"/config/config.yaml",
		"/config/",
		"/sitefrag.db",
		"/sitefrag.db-wal",
		"/state/journal",
		"/js/.cache/x.js",
		"/pages/../.env",
	} {
		w := do(t, h, http.MethodGet, target, nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
		if strings.Contains(w.Body.String(), "s3cret") {
			t.Errorf("GET %s leaked the token", target)
		}
	}

	for _, target := range []string{"/", "/pages/about.html", "/includes/header.html"} {
		if w := do(t, h, http.MethodGet, target, nil, nil); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, w.Code)
		}
	}
}

func TestStaticHandler_RootNotHidden(t *testing.T) {
	_, root := testEnv(t, "", nil)
	// A config file next to the pages hides itself, not the whole site.
	h := StaticHandler(root, filepath.Join(root, "config.yaml"), root)

	if w := do(t, h, http.MethodGet, "/", nil, nil); w.Code != http.StatusOK {
		t.Errorf("GET / = %d, want 200", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/config.yaml", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET /config.yaml = %d, want 404", w.Code)
	}
}
