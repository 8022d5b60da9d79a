package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/session"
	"github.com/starford/sowilo/internal/sse"
	"github.com/starford/sowilo/internal/testutil"
)

type envOptions struct {
	authToken string
	limit     RateLimit
	sse       http.Handler
}

// testEnv wires an in-memory index, a seeded generator and zero delays behind
// the router. A non-empty token enables auth.
func testEnv(t *testing.T, o envOptions) http.Handler {
	t.Helper()

	kb := faq.Default()
	db := testutil.TestIndex(t, kb.Records())

	svc := service.New(
		faq.NewMatcher(kb),
		music.NewGenerator(music.WithSource(rand.NewPCG(3, 4))),
		session.NewStore(10, faq.DefaultGreeting),
		service.WithIndex(db),
		service.WithSampleRate(8000),
		service.WithLogger(testutil.Logger()),
	)
	return NewRouter(svc, o.authToken != "", o.authToken, o.sse, o.limit)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, w.Body.String())
	}
	return v
}

func newSession(t *testing.T, h http.Handler) session.State {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session = %d", w.Code)
	}
	return decode[session.State](t, w)
}

func TestAsk(t *testing.T) {
	router := testEnv(t, envOptions{})

	w := do(t, router, http.MethodPost, "/ask", map[string]string{"question": "How do I submit my work?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	res := decode[AskResponse](t, w)
	if !res.Found || !strings.HasPrefix(res.Answer, "Submit your completed tasks") {
		t.Errorf("answer = %+v", res)
	}

	w = do(t, router, http.MethodPost, "/ask", map[string]string{"question": "asdf qqqq"})
	res = decode[AskResponse](t, w)
	if res.Found || res.Answer != faq.DefaultFallback {
		t.Errorf("expected fallback, got %+v", res)
	}
}

func TestAsk_BadRequests(t *testing.T) {
	router := testEnv(t, envOptions{})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPost, "/ask", map[string]string{"question": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty question = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Errorf("missing error body: %s", w.Body.String())
	}
}

func TestListAndSearchFAQs(t *testing.T) {
	router := testEnv(t, envOptions{})

	w := do(t, router, http.MethodGet, "/faqs", nil)
	list := decode[FAQListResponse](t, w)
	if list.Total != 10 || len(list.FAQs) != 10 {
		t.Errorf("total = %d", list.Total)
	}

	w = do(t, router, http.MethodGet, "/faqs/search?q=certificate&limit=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	found := decode[SearchResponse](t, w)
	if len(found.Results) == 0 || len(found.Results) > 3 {
		t.Errorf("results = %+v", found.Results)
	}

	w = do(t, router, http.MethodGet, "/faqs/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", w.Code)
	}
}

func TestStyles(t *testing.T) {
	router := testEnv(t, envOptions{})
	resp := decode[StylesResponse](t, do(t, router, http.MethodGet, "/styles", nil))
	if len(resp.Styles) != 2 || resp.Styles[1].Name != music.StyleJazz {
		t.Errorf("styles = %+v", resp.Styles)
	}
}

func TestGenerate(t *testing.T) {
	router := testEnv(t, envOptions{})

	w := do(t, router, http.MethodPost, "/generate", map[string]any{"style": "classical", "length": 50})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	out := decode[GenerateResponse](t, w)
	if len(out.Notes) != 50 {
		t.Errorf("len = %d", len(out.Notes))
	}
	palette, _ := music.StyleClassical.Palette()
	for _, ev := range out.Notes {
		if !slices.Contains(palette, ev.Pitch) {
			t.Errorf("pitch %q outside classical palette", ev.Pitch)
		}
	}

	for _, body := range []map[string]any{
		{"style": "rock", "length": 50},
		{"style": "jazz", "length": 5},
		{"style": "jazz", "length": -1},
	} {
		if w := do(t, router, http.MethodPost, "/generate", body); w.Code != http.StatusBadRequest {
			t.Errorf("%v = %d, want 400", body, w.Code)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	router := testEnv(t, envOptions{})
	st := newSession(t, router)
	if len(st.Messages) != 1 || st.Messages[0].Text != faq.DefaultGreeting {
		t.Fatalf("new session messages = %+v", st.Messages)
	}

	w := do(t, router, http.MethodPost, "/sessions/"+st.ID+"/messages", map[string]string{"text": "What are the perks?"})
	if w.Code != http.StatusOK {
		t.Fatalf("message = %d, body = %s", w.Code, w.Body.String())
	}
	reply := decode[MessageResponse](t, w)
	if !reply.Match.Found || len(reply.State.Messages) != 3 {
		t.Errorf("reply = %+v", reply)
	}

	w = do(t, router, http.MethodPost, "/sessions/"+st.ID+"/messages", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank message = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, "/sessions/"+st.ID, nil)
	if got := decode[session.State](t, w); len(got.Messages) != 3 {
		t.Errorf("messages after blank send = %d, want 3", len(got.Messages))
	}

	w = do(t, router, http.MethodDelete, "/sessions/"+st.ID, nil)
	if got := decode[session.State](t, w); got.ID != st.ID || len(got.Messages) != 1 {
		t.Errorf("reset = %+v", got)
	}
}

func TestSessionNotFound(t *testing.T) {
	router := testEnv(t, envOptions{})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope"},
		{http.MethodDelete, "/sessions/nope"},
		{http.MethodGet, "/sessions/nope/sequence"},
		{http.MethodPost, "/sessions/nope/playback"},
		{http.MethodGet, "/sessions/nope/sequence/export"},
	} {
		if w := do(t, router, tc.method, tc.path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, w.Code)
		}
	}
}

func TestSequenceFlow(t *testing.T) {
	router := testEnv(t, envOptions{})
	st := newSession(t, router)
	base := "/sessions/" + st.ID

	if w := do(t, router, http.MethodGet, base+"/sequence", nil); w.Code != http.StatusNotFound {
		t.Errorf("sequence before generation = %d, want 404", w.Code)
	}

	w := do(t, router, http.MethodPost, base+"/sequence", map[string]any{"style": "jazz", "length": 30})
	if w.Code != http.StatusOK {
		t.Fatalf("generate = %d, body = %s", w.Code, w.Body.String())
	}

	view := decode[SequenceResponse](t, do(t, router, http.MethodGet, base+"/sequence", nil))
	if view.Length != 30 || len(view.Preview) != 20 || view.Remaining != 10 || view.Style != music.StyleJazz {
		t.Errorf("view = length %d preview %d remaining %d style %s", view.Length, len(view.Preview), view.Remaining, view.Style)
	}

	pb := decode[PlaybackResponse](t, do(t, router, http.MethodPost, base+"/playback", nil))
	if len(pb.Tones) != 30 || pb.Total != view.TotalSeconds {
		t.Errorf("playback tones = %d total = %v", len(pb.Tones), pb.Total)
	}
}

func TestExports(t *testing.T) {
	router := testEnv(t, envOptions{})
	st := newSession(t, router)
	base := "/sessions/" + st.ID
	do(t, router, http.MethodPost, base+"/sequence", map[string]any{"style": "classical", "length": 20})

	cases := []struct {
		path, mime, filename, magic string
	}{
		{"/sequence/export", "application/json", "generated_music_sequence.json", "[\n  {"},
		{"/sequence/midi", "audio/midi", "generated_music_sequence.mid", "MThd"},
		{"/sequence/wav", "audio/wav", "generated_music_sequence.wav", "RIFF"},
	}
	for _, tc := range cases {
		w := do(t, router, http.MethodGet, base+tc.path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s = %d", tc.path, w.Code)
			continue
		}
		if ct := w.Header().Get("Content-Type"); ct != tc.mime {
			t.Errorf("%s Content-Type = %q", tc.path, ct)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, tc.filename) {
			t.Errorf("%s Content-Disposition = %q", tc.path, cd)
		}
		if !strings.HasPrefix(w.Body.String(), tc.magic) {
			t.Errorf("%s body starts with %q", tc.path, w.Body.String()[:min(8, w.Body.Len())])
		}

		etag := w.Header().Get("ETag")
		req := httptest.NewRequest(http.MethodGet, base+tc.path, nil)
		req.Header.Set("If-None-Match", etag)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotModified {
			t.Errorf("%s conditional = %d, want 304", tc.path, w.Code)
		}
	}

	w := do(t, router, http.MethodGet, base+"/sequence/export", nil)
	seq, err := music.ReadJSON(w.Body)
	if err != nil || len(seq) != 20 {
		t.Errorf("exported JSON: %d events, %v", len(seq), err)
	}
}

func TestETagMatches(t *testing.T) {
	const etag = `"abc"`
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"nope", "abc"`, true},
		{`"nope",W/"abc"`, true},
		{"*", true},
		{`"abcd"`, false},
		{`"xabc"`, false},
		{`abc`, false},
		{`"nope"`, false},
	}
	for _, tc := range cases {
		if got := etagMatches(tc.header, etag); got != tc.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestExport_ConditionalHeaders(t *testing.T) {
	router := testEnv(t, envOptions{})
	st := newSession(t, router)
	path := "/sessions/" + st.ID + "/sequence/export"
	do(t, router, http.MethodPost, "/sessions/"+st.ID+"/sequence", map[string]any{"style": "jazz", "length": 20})

	etag := do(t, router, http.MethodGet, path, nil).Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	digest := strings.Trim(etag, `"`)

	cases := []struct {
		header string
		want   int
	}{
		{"*", http.StatusNotModified},
		{`"stale", ` + etag, http.StatusNotModified},
		{"W/" + etag, http.StatusNotModified},
		{`"` + digest + `0"`, http.StatusOK},
		{`"x` + digest + `"`, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("If-None-Match", tc.header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("If-None-Match %q = %d, want %d", tc.header, w.Code, tc.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	router := testEnv(t, envOptions{limit: RateLimit{RequestsPerSecond: 0.001, Burst: 2}})

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(t, router, http.MethodGet, "/styles", nil).Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want 200 200 429", codes)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := testEnv(t, envOptions{authToken: "secret123"})
	req := httptest.NewRequest(http.MethodGet, "/styles", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingOrWrongToken(t *testing.T) {
	router := testEnv(t, envOptions{authToken: "secret123"})
	for _, header := range []string{"", "Bearer wrong", "secret123"} {
		req := httptest.NewRequest(http.MethodGet, "/faqs", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q = %d, want 401", header, w.Code)
		}
	}
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	broker := sse.NewBroker(time.Second)
	defer broker.Close()
	router := testEnv(t, envOptions{authToken: "tok", sse: broker})

	w := do(t, router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with valid token = %d, want 200", w.Code)
	}
}
