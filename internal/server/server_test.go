package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/server"
	"github.com/raysh454/configlens/internal/testutil"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := server.Config{
		ServerAddr: ":0",
		AppConfig: &app.Config{
			Platform:     "CISCO_IOS",
			HistoryPath:  filepath.Join(dir, "history.db"),
			SettingsPath: filepath.Join(dir, "settings.toml"),
			ServerAddr:   ":0",
		},
		Logger: &testutil.DummyLogger{},
	}

	s, err := server.NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestServer_CORS_HeaderPresent(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/platforms", "")

	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

func TestServer_Preflight(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "OPTIONS", "/compare", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); methods != "POST" {
		t.Errorf("expected allowed methods POST, got %q", methods)
	}
}

func TestServer_Compare(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/compare",
		`{"source":"hostname r1\nmtu 9000","target":"hostname r1\nmtu 1500"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		HasDiff    bool `json:"has_diff"`
		Structural struct {
			Rows []map[string]any `json:"rows"`
		} `json:"structural"`
	}
	decodeJSON(t, rec, &res)
	if !res.HasDiff {
		t.Error("expected a diff")
	}
	if len(res.Structural.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(res.Structural.Rows))
	}
}

func TestServer_Compare_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/compare", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Compare_UnknownPlatform(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/compare",
		`{"source":"a","target":"b","platform":"NETSCREEN"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_Compare_PersistAndFetchRun(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/compare",
		`{"source":"a","target":"b","persist":true,"source_name":"x.cfg","target_name":"y.cfg"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		RunID string `json:"run_id"`
	}
	decodeJSON(t, rec, &res)
	if res.RunID == "" {
		t.Fatal("expected a run id")
	}

	rec = doJSON(t, s, "GET", "/runs/"+res.RunID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching the run, got %d", rec.Code)
	}
	var run struct {
		SourceName string `json:"source_name"`
	}
	decodeJSON(t, rec, &run)
	if run.SourceName != "x.cfg" {
		t.Errorf("expected persisted source name, got %q", run.SourceName)
	}

	rec = doJSON(t, s, "GET", "/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing runs, got %d", rec.Code)
	}
	var runs []map[string]any
	decodeJSON(t, rec, &runs)
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}

	rec = doJSON(t, s, "DELETE", "/runs/"+res.RunID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 deleting the run, got %d", rec.Code)
	}
	rec = doJSON(t, s, "GET", "/runs/"+res.RunID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestServer_GetRun_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/runs/does-not-exist", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_Validate(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/validate",
		`{"running":"ntp server 1.1.1.1","change":"no ntp server 1.1.1.1","expected":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		IsValid bool `json:"is_valid"`
	}
	decodeJSON(t, rec, &res)
	if !res.IsValid {
		t.Error("declared removal must validate")
	}
}

func TestServer_Platforms(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/platforms", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Platforms []string `json:"platforms"`
		Supported []string `json:"supported"`
	}
	decodeJSON(t, rec, &res)
	if len(res.Platforms) == 0 {
		t.Error("expected a non-empty platform list")
	}
	found := false
	for _, p := range res.Supported {
		if p == "CISCO_IOS" {
			found = true
		}
	}
	if !found {
		t.Errorf("CISCO_IOS must be in the supported list, got %v", res.Supported)
	}
}
