package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"graph-history/internal/history"
)

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"2023/Dec/30/cpu.png":         {Data: []byte("png")},
		"2024/Jan/1/cpu.png":          {Data: []byte("png")},
		"2024/Feb/1/cpu.png":          {Data: []byte("png")},
		"2024/Feb/2/cpu.png":          {Data: []byte("png")},
		"2024/Feb/2/mem.svg":          {Data: []byte("<svg/>")},
		"2024/Feb/2/cpu_maxfreqs.png": {Data: []byte("png")},
		"2024/Feb/2/notes.txt":        {Data: []byte("x")},
	}
}

func newTestServer(t *testing.T, fsys fstest.MapFS) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{
		OutputDir: "output",
		FS:        fsys,
		Load:      func() (*history.History, error) { return history.Scan(fsys) },
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewServer_RequiresLoader(t *testing.T) {
	if _, err := NewServer(ServerConfig{OutputDir: "x"}); err == nil {
		t.Fatalf("expected error without loader")
	}
}

func TestNewServer_PropagatesLoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewServer(ServerConfig{
		FS:   fstest.MapFS{},
		Load: func() (*history.History, error) { return nil, boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestIndex_DefaultsToLatest(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	rr := do(t, s.Handler(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		`<option value="2024" selected>2024</option>`,
		`<option value="Feb" selected>Feb</option>`,
		`<option value="2" selected>2</option>`,
		`/output/2024/Feb/2/cpu.png`,
		`/output/2024/Feb/2/mem.svg`,
		`@get('/picker/sync')`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q\n%s", want, body)
		}
	}
	if strings.Contains(body, "maxfreqs") || strings.Contains(body, "notes.txt") {
		t.Fatalf("expected maxfreqs and non-image files to be excluded\n%s", body)
	}
}

func TestIndex_PostSelectsByName(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	form := url.Values{"year": {"2023"}, "month": {"Dec"}, "day": {"30"}}
	rr := do(t, s.Handler(), http.MethodPost, "/", strings.NewReader(form.Encode()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<option value="Dec" selected>Dec</option>`) {
		t.Fatalf("expected Dec selected\n%s", body)
	}
	if strings.Contains(body, `value="Feb"`) {
		t.Fatalf("expected months of 2023 only\n%s", body)
	}
	if !strings.Contains(body, "/output/2023/Dec/30/cpu.png") {
		t.Fatalf("expected 2023/Dec/30 graphs\n%s", body)
	}
}

func TestIndex_UnknownNameIsBadRequest(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	rr := do(t, s.Handler(), http.MethodGet, "/?year=1999", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `class="error"`) || !strings.Contains(body, "not found") {
		t.Fatalf("expected error message\n%s", body)
	}
	if !strings.Contains(body, `<option value="2024" selected>2024</option>`) {
		t.Fatalf("expected fallback to latest\n%s", body)
	}
}

func TestIndex_EmptyHistory(t *testing.T) {
	s := newTestServer(t, fstest.MapFS{})
	rr := do(t, s.Handler(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No graphs found in output") {
		t.Fatalf("expected empty notice\n%s", rr.Body.String())
	}
}

func TestIndex_Rescan(t *testing.T) {
	fsys := fixtureFS()
	s := newTestServer(t, fsys)
	fsys["2025/Mar/3/cpu.png"] = &fstest.MapFile{Data: []byte("png")}

	rr := do(t, s.Handler(), http.MethodGet, "/", nil)
	if strings.Contains(rr.Body.String(), `value="2025"`) {
		t.Fatalf("expected cached history before rescan")
	}
	rr = do(t, s.Handler(), http.MethodGet, "/?rescan=1", nil)
	if !strings.Contains(rr.Body.String(), `<option value="2025" selected>2025</option>`) {
		t.Fatalf("expected 2025 after rescan\n%s", rr.Body.String())
	}
}

func TestLatest(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/latest", nil)
	if rr.Code != http.StatusMovedPermanently || rr.Header().Get("Location") != "/" {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}

	rr = do(t, h, http.MethodGet, "/latest/MEM", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "/output/2024/Feb/2/mem.svg") || strings.Contains(body, "cpu.png") {
		t.Fatalf("expected only mem graphs\n%s", body)
	}
}

func TestLatest_DefaultFiltersRedirect(t *testing.T) {
	fsys := fixtureFS()
	s, err := NewServer(ServerConfig{
		FS:      fsys,
		Load:    func() (*history.History, error) { return history.Scan(fsys) },
		Filters: "cpu",
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	rr := do(t, s.Handler(), http.MethodGet, "/latest", nil)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/latest/cpu" {
		t.Fatalf("status=%d location=%q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLatest_GraphURLsCarryVersion(t *testing.T) {
	mod := time.Date(2024, time.February, 2, 10, 30, 0, 0, time.UTC)
	fsys := fixtureFS()
	fsys["2024/Feb/2/cpu.png"].ModTime = mod

	rr := do(t, newTestServer(t, fsys).Handler(), http.MethodGet, "/latest/cpu", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	want := fmt.Sprintf(`src="/output/2024/Feb/2/cpu.png?v=%d"`, mod.UnixMilli())
	if body := rr.Body.String(); !strings.Contains(body, want) {
		t.Fatalf("expected %s\n%s", want, body)
	}
}

func TestIndex_GraphURLsCarryVersion(t *testing.T) {
	rr := do(t, newTestServer(t, fixtureFS()).Handler(), http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, g := range []string{"/output/2024/Feb/2/cpu.png?v=", "/output/2024/Feb/2/mem.svg?v="} {
		if !strings.Contains(body, g) {
			t.Fatalf("expected %s\n%s", g, body)
		}
	}
}

func TestLatest_DefaultFiltersRedirectIsEscaped(t *testing.T) {
	fsys := fixtureFS()
	s, err := NewServer(ServerConfig{
		FS:      fsys,
		Load:    func() (*history.History, error) { return history.Scan(fsys) },
		Filters: "cpu mem/x",
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	rr := do(t, s.Handler(), http.MethodGet, "/latest", nil)
	if got := rr.Header().Get("Location"); rr.Code != http.StatusFound || got != "/latest/cpu%20mem%2Fx" {
		t.Fatalf("status=%d location=%q", rr.Code, got)
	}
}

func TestPickerSync_YearChange(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	q := url.Values{"datastar": {`{"year":"2023","month":"Feb","day":"2","changed":"year"}`}}
	rr := do(t, s.Handler(), http.MethodGet, "/picker/sync?"+q.Encode(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		"event: datastar-patch-elements",
		"selector #month",
		`<option value="Dec" selected>Dec</option>`,
		`<option value="30" selected>30</option>`,
		"/output/2023/Dec/30/cpu.png",
		"event: datastar-patch-signals",
		`"month":"Dec"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected SSE body to contain %q\n%s", want, body)
		}
	}
}

func TestPickerSync_MonthChange(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	q := url.Values{"datastar": {`{"year":"2024","month":"Jan","day":"2","changed":"month"}`}}
	rr := do(t, s.Handler(), http.MethodGet, "/picker/sync?"+q.Encode(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<option value="Jan" selected>Jan</option>`) {
		t.Fatalf("expected Jan to stay selected\n%s", body)
	}
	if !strings.Contains(body, `<option value="1" selected>1</option>`) {
		t.Fatalf("expected day 1 selected\n%s", body)
	}
}

func TestPickerSync_UnknownYear(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	q := url.Values{"datastar": {`{"year":"1999","changed":"year"}`}}
	rr := do(t, s.Handler(), http.MethodGet, "/picker/sync?"+q.Encode(), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestTreeOutputAndHealth(t *testing.T) {
	s := newTestServer(t, fixtureFS())
	h := s.Handler()

	rr := do(t, h, http.MethodGet, "/tree", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "<h1>Graph history</h1>") {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/output/2024/Feb/2/mem.svg", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "<svg/>" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "ok" {
		t.Fatalf("status=%d body=%q", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/static/app.css", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("status=%d ct=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
}
