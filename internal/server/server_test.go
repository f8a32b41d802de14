package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/geodash/internal/app"
	"github.com/playperu/geodash/internal/exploration"
	"github.com/playperu/geodash/internal/kv"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestApp(t *testing.T, opts app.Options) *app.App {
	t.Helper()
	if opts.POICount == 0 {
		opts.POICount = 5
	}
	a, err := app.New(context.Background(), kv.NewMemory(), discard, opts)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// newTestServer returns the full router over an in-memory app.
func newTestServer(t *testing.T, opts Options) (http.Handler, *app.App) {
	t.Helper()
	a := newTestApp(t, app.Options{Exploration: exploration.Options{CaptureRadius: 50}})
	s := New("127.0.0.1:0", discard, a, opts)
	t.Cleanup(func() { s.broker.Close() })
	return s.srv.Handler, a
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if requiresJSON(method) {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}
