package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/algoviz/pkg/metrics"
	"github.com/matzehuels/algoviz/pkg/observability"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/store"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// demoDocument records unbounded BST inserts; unbounded moves complete
// without a ticker.
func demoDocument(t *testing.T, id string) []byte {
	t.Helper()
	tree := structure.NewTree()
	keys := []int{5, 3, 8}
	for _, v := range keys {
		if _, err := tree.AddNode(viz.IntKey(v)); err != nil {
			t.Fatal(err)
		}
	}
	s := scenario.New(tree, scenario.WithID(id), scenario.WithName("demo"))
	for _, v := range keys {
		if err := tree.Insert(context.Background(), s, viz.IntKey(v)); err != nil {
			t.Fatalf("Insert(%d): %v", v, err)
		}
	}
	var buf bytes.Buffer
	if err := s.Export(&buf, scenario.FormatJSON); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, store.Store) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	st := store.Instrument(fs, store.BackendFile)
	srv := httptest.NewServer(New(st, opts...))
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, contentType string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["version"] == "" || got["commit"] == "" {
		t.Errorf("body = %s", body)
	}
}

func TestScenarioLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	doc := demoDocument(t, "demo")
	url := srv.URL + "/scenarios/demo"

	resp, body := do(t, http.MethodPut, url, "application/json", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/scenarios", "", nil)
	var infos []store.Info
	if err := json.Unmarshal(body, &infos); err != nil {
		t.Fatalf("list body %s: %v", body, err)
	}
	if len(infos) != 1 || infos[0].ID != "demo" {
		t.Errorf("list = %+v", infos)
	}

	resp, body = do(t, http.MethodGet, url, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", resp.StatusCode)
	}
	got, err := scenario.Decode(bytes.NewReader(body), scenario.FormatJSON)
	if err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	want, _ := scenario.Decode(bytes.NewReader(doc), scenario.FormatJSON)
	if len(got.Commands) != len(want.Commands) || got.Name != "demo" {
		t.Errorf("stored document has %d commands, want %d", len(got.Commands), len(want.Commands))
	}

	resp, body = do(t, http.MethodGet, url+"?format=yaml", "", nil)
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("yaml Content-Type = %q", ct)
	}
	if !strings.Contains(string(body), "commands:") {
		t.Errorf("yaml body = %.200s", body)
	}

	resp, _ = do(t, http.MethodDelete, url, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d", resp.StatusCode)
	}
	resp, body = do(t, http.MethodGet, url, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d: %s", resp.StatusCode, body)
	}
}

func TestPutYAML(t *testing.T) {
	srv, _ := newTestServer(t)
	doc, err := scenario.Decode(bytes.NewReader(demoDocument(t, "yml")), scenario.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := doc.Encode(&buf, scenario.FormatYAML); err != nil {
		t.Fatal(err)
	}
	resp, body := do(t, http.MethodPut, srv.URL+"/scenarios/yml", "application/yaml", buf.Bytes())
	if resp.StatusCode != http.StatusOK {
		t.Errorf("PUT yaml status = %d: %s", resp.StatusCode, body)
	}
}

func TestPutErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	unresolved := `{"id":"bad","nodes":[{"key":1,"x":0,"y":0,"tox":0,"toy":0,"state":"alive"}],` +
		`"commands":[{"action":"link","from":1,"side":"left","to":2}]}`

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		code   string
	}{
		{"id mismatch", "other", string(demoDocument(t, "demo")), http.StatusBadRequest, "INVALID_ID"},
		{"malformed", "bad", "{", http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown action", "bad", `{"id":"bad","commands":[{"action":"jump","node":1}]}`, http.StatusBadRequest, ""},
		{"unresolved reference", "bad", unresolved, http.StatusUnprocessableEntity, "UNRESOLVED_REFERENCE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPut, srv.URL+"/scenarios/"+tt.id, "application/json", []byte(tt.body))
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var e ErrorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatalf("error body %s: %v", body, err)
			}
			if tt.code != "" && e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestFrames(t *testing.T) {
	srv, st := newTestServer(t)
	if err := st.Put(context.Background(), "demo", demoDocument(t, "demo")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"final frame", "/scenarios/demo/frame.svg", http.StatusOK},
		{"first frame", "/scenarios/demo/frame.svg?step=0", http.StatusOK},
		{"structure", "/scenarios/demo/structure.svg?step=4", http.StatusOK},
		{"detailed structure", "/scenarios/demo/structure.svg?detailed", http.StatusOK},
		{"bad step", "/scenarios/demo/frame.svg?step=x", http.StatusBadRequest},
		{"missing", "/scenarios/none/frame.svg", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+tt.path, "", nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %.200s", resp.StatusCode, tt.status, body)
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(string(body), "<svg") {
				t.Errorf("body is not SVG: %.200s", body)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := metrics.New(nil)
	reg.Register()
	t.Cleanup(observability.Reset)

	srv, _ := newTestServer(t, WithMetrics(reg.Handler()))
	do(t, http.MethodGet, srv.URL+"/healthz", "", nil)
	do(t, http.MethodGet, srv.URL+"/scenarios/nope", "", nil)

	_, body := do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	for _, want := range []string{
		`algoviz_http_requests_total{method="GET",route="/healthz",status="200"} 1`,
		`route="/scenarios/{id}`,
		`status="404"`,
		`algoviz_store_operations_total`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
