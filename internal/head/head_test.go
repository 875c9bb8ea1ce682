// internal/head/head_test.go
//
// Builder output and the per-page SEO constructors.
//
// Run: go test ./internal/head -v

package head

import (
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ambambokili/kili/internal/catalog"
)

var site = Site{
	Name:         "Ambambo Kili",
	Tagline:      "Malayalam kids songs, stories, and Kerala cartoons",
	URL:          "https://icodeforpassion.github.io/ambambokili",
	ChannelURL:   "https://www.youtube.com/@AmbamboKili",
	DefaultThumb: "/ambambokili/assets/img/placeholder.jpg",
}

func metaValue(h Head, attr, key string) string {
	for _, m := range h.Meta {
		if m.Attr == attr && m.Key == key {
			return m.Content
		}
	}
	return ""
}

func TestBuilderReplacesKeyedTags(t *testing.T) {
	b := New()
	b.SetTitle("first")
	b.SetTitle(`Rain & "Thunder"`)
	b.Name("description", "one")
	b.Name("description", "two")
	b.Link("canonical", "https://a/")
	b.Link("canonical", "https://b/")

	h := b.Head()
	if len(h.Meta) != 1 || h.Meta[0].Content != "two" {
		t.Errorf("Meta = %+v", h.Meta)
	}
	if len(h.Links) != 1 || h.Links[0].Href != "https://b/" {
		t.Errorf("Links = %+v", h.Links)
	}

	want := `<title>Rain &amp; &#34;Thunder&#34;</title>` +
		`<meta name="description" content="two">` +
		`<link rel="canonical" href="https://b/">`
	if string(h.HTML) != want {
		t.Errorf("HTML =\n%s\nwant\n%s", h.HTML, want)
	}
}

func TestJSONLDIsScriptSafe(t *testing.T) {
	b := New()
	if err := b.JSONLD(map[string]string{"name": "</script><b>x</b>"}); err != nil {
		t.Fatal(err)
	}
	html := string(b.Render())
	if strings.Count(html, "</script>") != 1 {
		t.Errorf("script tag broken out of: %s", html)
	}
}

func TestForVideo(t *testing.T) {
	long := strings.Repeat("അ", 200) // multi-byte runes
	v := catalog.Video{
		Slug:             "baby-elephant-bath",
		Title:            "Baby Elephant Bath Time",
		DescriptionShort: long,
		Duration:         "PT4M",
		ThumbURL:         "https://i.ytimg.com/vi/eleBath01/hqdefault.jpg",
		YouTubeID:        "eleBath01",
		Published:        catalog.Timestamp{Raw: "2024-03-20"},
	}
	h := ForVideo(site, v).Head()

	if h.Title != "Baby Elephant Bath Time – Ambambo Kili" {
		t.Errorf("Title = %q", h.Title)
	}
	if got := []rune(metaValue(h, "name", "description")); len(got) != 157 {
		t.Errorf("description runes = %d, want 157", len(got))
	}
	if h.Links[0].Href != "https://icodeforpassion.github.io/ambambokili/videos/baby-elephant-bath/" {
		t.Errorf("canonical = %q", h.Links[0].Href)
	}
	checks := map[[2]string]string{
		{"property", "og:type"}:  "video.other",
		{"name", "twitter:card"}: "player",
		{"property", "og:image"}: v.ThumbURL,
		{"name", "robots"}:       "index, follow",
	}
	for k, want := range checks {
		if got := metaValue(h, k[0], k[1]); got != want {
			t.Errorf("%s=%s: %q, want %q", k[0], k[1], got, want)
		}
	}

	if len(h.JSONLD) != 1 {
		t.Fatalf("JSONLD blocks = %d", len(h.JSONLD))
	}
	var ld map[string]any
	if err := json.Unmarshal(h.JSONLD[0], &ld); err != nil {
		t.Fatal(err)
	}
	if ld["@type"] != "VideoObject" || ld["uploadDate"] != "2024-03-20" ||
		ld["embedUrl"] != "https://www.youtube.com/embed/eleBath01" {
		t.Errorf("VideoObject = %v", ld)
	}
	logo := ld["publisher"].(map[string]any)["logo"].(map[string]any)
	if logo["url"] != "https://icodeforpassion.github.io/ambambokili/assets/img/placeholder.jpg" {
		t.Errorf("logo = %v", logo["url"])
	}
}

func TestForVideoWithoutThumbUsesDefault(t *testing.T) {
	h := ForVideo(site, catalog.Video{Slug: "x", Title: "X"}).Head()
	want := "https://icodeforpassion.github.io/ambambokili/assets/img/placeholder.jpg"
	if got := metaValue(h, "property", "og:image"); got != want {
		t.Errorf("og:image = %q, want %q", got, want)
	}
}

func TestForCategory(t *testing.T) {
	h := ForCategory(site, "Festivals", "festivals", 7).Head()
	if h.Title != "Festivals Malayalam Kids Songs – Ambambo Kili" {
		t.Errorf("Title = %q", h.Title)
	}
	wantDesc := "Enjoy 7 festivals themed Malayalam kids songs and cartoons from Ambambo Kili."
	if got := metaValue(h, "name", "description"); got != wantDesc {
		t.Errorf("description = %q", got)
	}
	if got := metaValue(h, "name", "twitter:card"); got != "summary_large_image" {
		t.Errorf("twitter:card = %q", got)
	}
	if h.Links[0].Href != site.URL+"/categories/festivals/" {
		t.Errorf("canonical = %q", h.Links[0].Href)
	}
}

func TestForHome(t *testing.T) {
	h := ForHome(site).Head()
	var ld struct {
		Type   string `json:"@type"`
		Action struct {
			Target string `json:"target"`
		} `json:"potentialAction"`
	}
	if err := json.Unmarshal(h.JSONLD[0], &ld); err != nil {
		t.Fatal(err)
	}
	if ld.Type != "WebSite" || ld.Action.Target != site.URL+"/videos/?q={search_term_string}" {
		t.Errorf("WebSite = %+v", ld)
	}
}

func TestSiteAbs(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"https://cdn.example/x.jpg": "https://cdn.example/x.jpg",
		"/ambambokili/img/a.jpg":    "https://icodeforpassion.github.io/ambambokili/img/a.jpg",
	}
	for in, want := range cases {
		if got := site.Abs(in); got != want {
			t.Errorf("Abs(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStructuredDataLogsEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	b := New()
	structuredData(b, map[string]any{"@type": "Broken", "bad": make(chan int)})
	structuredData(b, map[string]any{"@type": "WebSite"})

	if n := len(b.Head().JSONLD); n != 1 {
		t.Errorf("json-ld blocks = %d, want 1", n)
	}
	entries := logs.FilterMessage("json-ld dropped").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["type"]; got != "Broken" {
		t.Errorf("logged type = %v", got)
	}
}
