package internal

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/api"
	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/testutil"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRootRouter_Health(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Delays = DelaysConfig{}
	svc, db, err := NewService(cfg, testutil.Logger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer db.Close()

	r := newRootRouter(api.NewRouter(svc, false, "", http.NotFoundHandler(), api.RateLimit{}), db)

	if w := get(t, r, "/health/live"); w.Code != http.StatusOK {
		t.Errorf("live = %d", w.Code)
	}
	w := get(t, r, "/health/ready")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("ready = %d %s", w.Code, w.Body.String())
	}
	if w := get(t, r, "/api/styles"); w.Code != http.StatusOK {
		t.Errorf("api mount = %d", w.Code)
	}
}

func TestRootRouter_NotReadyWithEmptyIndex(t *testing.T) {
	r := newRootRouter(http.NotFoundHandler(), testutil.TestDB(t))

	w := get(t, r, "/health/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready = %d, want 503", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	if w := get(t, r, "/health/live"); w.Code != http.StatusOK {
		t.Errorf("live = %d, liveness must not depend on the index", w.Code)
	}
}

func TestRootRouter_NotReadyWithClosedIndex(t *testing.T) {
	db := testutil.TestIndex(t, faq.Default().Records())
	r := newRootRouter(http.NotFoundHandler(), db)
	if w := get(t, r, "/health/ready"); w.Code != http.StatusOK {
		t.Fatalf("ready before close = %d", w.Code)
	}

	_ = db.Close()
	if w := get(t, r, "/health/ready"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready after close = %d, want 503", w.Code)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_StopsWhenContextEnds(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = freePort(t)

	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := Run(ctx, WithConfig(cfg), WithLogger(logger)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := logs.String()
	for _, want := range []string{"Knowledge base indexed", "Starting HTTP server", "Server stopped successfully"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
