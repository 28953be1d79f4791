package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetpack/pkg/pipeline"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(NewServer(runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postPack(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(srv.URL+"/v1/pack", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var v map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	if v["version"] == "" {
		t.Error("missing version field")
	}
}

func TestPack(t *testing.T) {
	srv := newTestServer(t)
	resp := postPack(t, srv, packRequest{
		Images: []sheet.Dim{
			{Ref: "a.png", Width: 100, Height: 200},
			{Ref: "b.png", Width: 300, Height: 150},
		},
		Paper: "a4",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out packResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.RunID == "" || out.DocHash == "" {
		t.Error("missing run metadata")
	}
	if out.Pages == 0 || len(out.Document.Pages) != out.Pages {
		t.Errorf("page count mismatch: pages=%d document=%d",
			out.Pages, len(out.Document.Pages))
	}

	rects, err := sheet.Normalize([]sheet.Dim{
		{Ref: "a.png", Width: 100, Height: 200},
		{Ref: "b.png", Width: 300, Height: 150},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := out.Document.Validate(rects); err != nil {
		t.Errorf("returned document invalid: %v", err)
	}
}

func TestPackCustomPaper(t *testing.T) {
	srv := newTestServer(t)
	resp := postPack(t, srv, packRequest{
		Images: []sheet.Dim{{Ref: "a", Width: 10, Height: 10}},
		Paper:  "100x200",
		Unit:   "pt",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out packResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if got := out.Document.Pages[0].Size; got.W != 100 || got.H != 200 {
		t.Errorf("page size = %gx%g, want 100x200", got.W, got.H)
	}
}

func TestPackValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"no images", packRequest{Paper: "a4"}},
		{"bad dimension", packRequest{
			Images: []sheet.Dim{{Ref: "a", Width: -5, Height: 10}},
		}},
		{"bad paper", packRequest{
			Images: []sheet.Dim{{Ref: "a", Width: 10, Height: 10}},
			Paper:  "b17",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postPack(t, srv, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestPackMalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/pack", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPackUnknownField(t *testing.T) {
	srv := newTestServer(t)
	resp := postPack(t, srv, map[string]any{
		"images":  []sheet.Dim{{Ref: "a", Width: 10, Height: 10}},
		"bogus":   true,
		"another": 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Request-ID", "client-supplied")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("X-Request-ID = %q, want client-supplied", got)
	}
}
