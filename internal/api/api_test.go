package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/head"
	"github.com/ambambokili/kili/internal/respond"
)

type stubSource struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.data, s.err
}

func (s *stubSource) set(data []byte, err error) {
	s.mu.Lock()
	s.data, s.err = data, err
	s.mu.Unlock()
}

var testSite = head.Site{
	Name:         "Ambambo Kili",
	Tagline:      "Malayalam kids songs",
	URL:          "https://example.com/ambambokili",
	ChannelURL:   "https://www.youtube.com/@ambambokili",
	DefaultThumb: "/img/default.jpg",
}

func day(n int) catalog.Timestamp {
	return catalog.NewTimestamp(time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC))
}

// fixture: ten Animals songs, three Rhymes, one Festivals.  Newest first
// by day number.
func fixture(t *testing.T) []byte {
	t.Helper()
	var vids []catalog.Video
	for i := 1; i <= 10; i++ {
		vids = append(vids, catalog.Video{
			Slug:       "animal-" + string(rune('a'+i-1)),
			Title:      "Animal Song " + string(rune('A'+i-1)),
			Categories: []string{"Animals"},
			Tags:       []string{"zoo"},
			Published:  day(i),
			Duration:   "PT2M30S",
			YouTubeID:  "yt" + string(rune('a'+i-1)),
		})
	}
	vids = append(vids,
		catalog.Video{Slug: "twinkle", Title: "Twinkle", Categories: []string{"Rhymes", "Animals"}, Tags: []string{"star", "night"}, Published: day(20), ThumbURL: "/img/twinkle.jpg", DescriptionShort: "A star song.", YouTubeID: "tw1", Duration: "PT1H2M3S"},
		catalog.Video{Slug: "rain", Title: "Rain Rain", Categories: []string{"Rhymes"}, Published: day(15)},
		catalog.Video{Slug: "moon", Title: "Moon", Categories: []string{"Rhymes"}, Published: day(14)},
		catalog.Video{Slug: "onam", Title: "Onam Song", Categories: []string{"Festivals"}, Published: day(11)},
	)
	raw, err := json.Marshal(vids)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func newHandler(t *testing.T, src *stubSource, opts Options) *Handler {
	t.Helper()
	if src.data == nil && src.err == nil {
		src.data = fixture(t)
	}
	return New(catalog.NewStore(src), testSite, opts)
}

func chiReq(url string, params map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func slugsOf(vs []catalog.Video) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Slug
	}
	return out
}

func TestHome(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})
	rr := httptest.NewRecorder()
	h.serve("home", h.home).ServeHTTP(rr, chiReq("/api/home", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[homeResponse](t, rr)

	wantLatest := []string{"twinkle", "rain", "moon", "onam", "animal-j", "animal-i", "animal-h", "animal-g"}
	if diff := cmp.Diff(wantLatest, slugsOf(resp.Latest)); diff != "" {
		t.Errorf("latest mismatch (-want +got):\n%s", diff)
	}

	wantCats := []categoryCard{
		{Name: "Animals", Slug: "animals", Count: 11, Thumb: "https://example.com/img/twinkle.jpg"},
		{Name: "Rhymes", Slug: "rhymes", Count: 3, Thumb: "https://example.com/img/twinkle.jpg"},
		{Name: "Festivals", Slug: "festivals", Count: 1, Thumb: "https://example.com/img/default.jpg"},
	}
	if diff := cmp.Diff(wantCats, resp.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if resp.Head.Title != "Ambambo Kili – Malayalam kids songs" {
		t.Errorf("head title = %q", resp.Head.Title)
	}
}

func TestList(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{PerPage: 4})

	cases := []struct {
		name      string
		url       string
		wantSlugs []string
		wantPage  int
		wantPages int
		wantTotal int
	}{
		{"first page", "/api/videos", []string{"twinkle", "rain", "moon", "onam"}, 1, 4, 14},
		{"search title", "/api/videos?q=%20RAIN%20", []string{"rain"}, 1, 1, 1},
		{"search tag", "/api/videos?q=nig", []string{"twinkle"}, 1, 1, 1},
		{"category", "/api/videos?category=Rhymes", []string{"twinkle", "rain", "moon"}, 1, 1, 3},
		{"both", "/api/videos?q=zoo&category=Rhymes", []string{}, 1, 1, 0},
		{"page clamped", "/api/videos?page=99", []string{"animal-b", "animal-a"}, 4, 4, 14},
		{"bad page", "/api/videos?page=x", []string{"twinkle", "rain", "moon", "onam"}, 1, 4, 14},
		{"per_page", "/api/videos?per_page=2&page=2", []string{"moon", "onam"}, 2, 7, 14},
		{"category case", "/api/videos?category=rhymes", []string{}, 1, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.serve("list", h.list).ServeHTTP(rr, chiReq(tc.url, nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			resp := decode[listResponse](t, rr)
			if diff := cmp.Diff(tc.wantSlugs, slugsOf(resp.Items)); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			if resp.Page != tc.wantPage || resp.TotalPages != tc.wantPages || resp.TotalCount != tc.wantTotal {
				t.Errorf("page=%d pages=%d total=%d, want %d %d %d",
					resp.Page, resp.TotalPages, resp.TotalCount, tc.wantPage, tc.wantPages, tc.wantTotal)
			}
			if diff := cmp.Diff([]string{"Animals", "Festivals", "Rhymes"}, resp.Categories); diff != "" {
				t.Errorf("chips mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVideo_OK(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})
	rr := httptest.NewRecorder()
	h.serve("video", h.video).ServeHTTP(rr, chiReq("/api/videos/twinkle", map[string]string{"slug": "twinkle"}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[videoResponse](t, rr)
	if resp.Video.Slug != "twinkle" || resp.DurationText != "1h 2m 3s" {
		t.Errorf("unexpected video: %+v", resp)
	}
	if diff := cmp.Diff([]string{"rain", "moon", "animal-j"}, slugsOf(resp.Related)); diff != "" {
		t.Errorf("related mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"rain", "moon", "animal-j", "animal-i"}, slugsOf(resp.More)); diff != "" {
		t.Errorf("more mismatch (-want +got):\n%s", diff)
	}
	wantPoints := []string{
		"Encourages learning about star.",
		"Encourages learning about night.",
		"Celebrates rhymes themes with Malayalam vocabulary.",
		"Celebrates animals themes with Malayalam vocabulary.",
	}
	if diff := cmp.Diff(wantPoints, resp.EducationalPoints); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	if resp.WatchURL != "https://www.youtube.com/watch?v=tw1" {
		t.Errorf("watch url = %q", resp.WatchURL)
	}
	if resp.Head.Title != "Twinkle – Ambambo Kili" {
		t.Errorf("head title = %q", resp.Head.Title)
	}
}

func TestVideo_NotFound(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})
	rr := httptest.NewRecorder()
	h.serve("video", h.video).ServeHTTP(rr, chiReq("/api/videos/nope", map[string]string{"slug": "nope"}))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	resp := decode[respond.ErrorResponse](t, rr)
	if resp.Error.Code != "VIDEO_NOT_FOUND" || resp.Error.Message != "Video not found." {
		t.Errorf("unexpected envelope: %+v", resp.Error)
	}
}

func TestRelated_Count(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})

	cases := []struct {
		url  string
		want int
	}{
		{"/api/videos/rain/related", 3},
		{"/api/videos/rain/related?count=1", 1},
		{"/api/videos/rain/related?count=0", 0},
		{"/api/videos/rain/related?count=-4", 0},
		{"/api/videos/rain/related?count=500", 13},
		{"/api/videos/rain/related?count=abc", 3},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.serve("related", h.related).ServeHTTP(rr, chiReq(tc.url, map[string]string{"slug": "rain"}))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.url, rr.Code)
		}
		resp := decode[relatedResponse](t, rr)
		if len(resp.Items) != tc.want {
			t.Errorf("%s: got %d items, want %d", tc.url, len(resp.Items), tc.want)
		}
		for _, v := range resp.Items {
			if v.Slug == "rain" {
				t.Errorf("%s: target returned in its own related list", tc.url)
			}
		}
	}
}

func TestCategories(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})
	rr := httptest.NewRecorder()
	h.serve("categories", h.categories).ServeHTTP(rr, chiReq("/api/categories", nil))

	resp := decode[categoriesResponse](t, rr)
	var names []string
	for _, c := range resp.Categories {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Animals", "Rhymes", "Festivals"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCategory(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{})

	rr := httptest.NewRecorder()
	h.serve("category", h.category).ServeHTTP(rr, chiReq("/api/categories/rhymes", map[string]string{"slug": "rhymes"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decode[categoryResponse](t, rr)
	if resp.Name != "Rhymes" || resp.Count != 3 || resp.Intro == "" {
		t.Errorf("unexpected category: %+v", resp)
	}
	if diff := cmp.Diff([]string{"twinkle", "rain", "moon"}, slugsOf(resp.Videos)); diff != "" {
		t.Errorf("videos mismatch (-want +got):\n%s", diff)
	}

	rr = httptest.NewRecorder()
	h.serve("category", h.category).ServeHTTP(rr, chiReq("/api/categories/space", map[string]string{"slug": "space"}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if env := decode[respond.ErrorResponse](t, rr); env.Error.Code != "CATEGORY_NOT_FOUND" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestLoadFailureThenRecovery(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	h := newHandler(t, src, Options{ResponseEntries: 8})

	rr := httptest.NewRecorder()
	h.serve("home", h.home).ServeHTTP(rr, chiReq("/api/home", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	env := decode[respond.ErrorResponse](t, rr)
	if env.Error.Code != "CATALOG_UNAVAILABLE" || env.Error.Message != catalog.UserMessage {
		t.Errorf("unexpected envelope: %+v", env.Error)
	}

	src.set(fixture(t), nil)
	rr = httptest.NewRecorder()
	h.serve("home", h.home).ServeHTTP(rr, chiReq("/api/home", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 after recovery, got %d", rr.Code)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
}

func TestMemoization(t *testing.T) {
	h := newHandler(t, &stubSource{}, Options{ResponseEntries: 8})
	list := h.serve("list", h.list)

	first := httptest.NewRecorder()
	list.ServeHTTP(first, chiReq("/api/videos?q=song&page=1", nil))
	second := httptest.NewRecorder()
	list.ServeHTTP(second, chiReq("/api/videos?page=1&q=song", nil))

	if first.Body.String() != second.Body.String() {
		t.Errorf("memoized body differs")
	}
	if n := h.memo.Len(); n != 1 {
		t.Errorf("memo entries = %d, want 1", n)
	}
	scrape := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(scrape.Body.String(), "\nresponse_cache_entries 1\n") {
		t.Errorf("response_cache_entries gauge not 1:\n%s", scrape.Body.String())
	}

	miss := httptest.NewRecorder()
	h.serve("video", h.video).ServeHTTP(miss, chiReq("/api/videos/nope", map[string]string{"slug": "nope"}))
	if n := h.memo.Len(); n != 1 {
		t.Errorf("404 was memoized: entries = %d", n)
	}
}

func TestRouter(t *testing.T) {
	src := &stubSource{}
	h := newHandler(t, src, Options{})
	srv := httptest.NewServer(NewRouter(h, RouterOptions{}))
	defer srv.Close()

	cases := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/home", http.StatusOK},
		{"/api/videos/twinkle", http.StatusOK},
		{"/api/videos/twinkle/related?count=2", http.StatusOK},
		{"/api/categories/animals", http.StatusOK},
		{"/api/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		res, err := http.Get(srv.URL + tc.path)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != tc.want {
			t.Errorf("%s: status %d, want %d", tc.path, res.StatusCode, tc.want)
		}
		if res.Header.Get("X-Request-Id") == "" {
			t.Errorf("%s: missing X-Request-Id", tc.path)
		}
	}
}

func TestRouter_NotReady(t *testing.T) {
	h := newHandler(t, &stubSource{err: errors.New("boom")}, Options{})
	srv := httptest.NewServer(NewRouter(h, RouterOptions{}))
	defer srv.Close()

	for _, path := range []string{"/readyz", "/api/videos"} {
		res, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("%s: status %d, want 503", path, res.StatusCode)
		}
		if res.Header.Get("Retry-After") == "" {
			t.Errorf("%s: missing Retry-After", path)
		}
	}

	res, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("healthz: status %d, want 200", res.StatusCode)
	}
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>kili</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHandler(t, &stubSource{}, Options{})
	srv := httptest.NewServer(NewRouter(h, RouterOptions{StaticDir: dir}))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("static index: status %d", res.StatusCode)
	}
}
