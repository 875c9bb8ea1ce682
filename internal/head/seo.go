// internal/head/seo.go
//
// Page metadata for the public site.
//
// Context
// -------
// The front end is static HTML; only the <head> differs per video and per
// category.  These constructors produce the exact tags each page needs so
// the client just applies them.
//
// Notes
// -----
// • Every page carries the same Open Graph / Twitter set (see page()).
//   Video pages switch og:type to video.other and twitter:card to player.
// • Relative image paths are resolved against the origin of Site.URL.

package head

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/config"
)

// maxDescription is the rune limit for meta descriptions.
const maxDescription = 157

// Site is the public identity used in metadata.
type Site struct {
	Name         string
	Tagline      string
	URL          string // no trailing slash
	ChannelURL   string
	DefaultThumb string
}

// SiteFromConfig copies the relevant config fields.
func SiteFromConfig(c config.Site) Site {
	return Site{
		Name:         c.Name,
		Tagline:      c.Tagline,
		URL:          strings.TrimRight(c.SiteURL, "/"),
		ChannelURL:   c.ChannelURL,
		DefaultThumb: c.DefaultThumb,
	}
}

// Abs turns a root-relative path into an absolute URL on the site's
// origin.  Absolute URLs pass through.
func (s Site) Abs(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return s.URL + p
	}
	return u.Scheme + "://" + u.Host + "/" + strings.TrimLeft(p, "/")
}

// VideoURL is the canonical page of a video.
func (s Site) VideoURL(slug string) string { return s.URL + "/videos/" + slug + "/" }

// CategoryURL is the canonical page of a category.
func (s Site) CategoryURL(slug string) string { return s.URL + "/categories/" + slug + "/" }

type page struct {
	title       string
	description string
	canonical   string
	image       string
	ogType      string
}

func (s Site) page(p page) *Builder {
	if p.ogType == "" {
		p.ogType = "website"
	}
	image := p.image
	if image == "" {
		image = s.Abs(s.DefaultThumb)
	}
	card := "summary_large_image"
	if p.ogType == "video.other" {
		card = "player"
	}

	b := New()
	b.SetTitle(p.title)
	b.Name("description", p.description)
	b.Link("canonical", p.canonical)
	b.Property("og:title", p.title)
	b.Property("og:description", p.description)
	b.Property("og:type", p.ogType)
	b.Property("og:url", p.canonical)
	b.Property("og:image", image)
	b.Name("twitter:title", p.title)
	b.Name("twitter:description", p.description)
	b.Name("twitter:card", card)
	b.Name("twitter:image", image)
	return b
}

// ForHome describes the landing page and its site search.
func ForHome(s Site) *Builder {
	title := s.Name
	if s.Tagline != "" {
		title = s.Name + " – " + s.Tagline
	}
	b := s.page(page{
		title:       title,
		description: truncate(s.Tagline, maxDescription),
		canonical:   s.URL + "/",
	})
	structuredData(b, map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     s.Name,
		"url":      s.URL,
		"potentialAction": map[string]any{
			"@type":       "SearchAction",
			"target":      s.URL + "/videos/?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	})
	return b
}

// ForVideo describes a video page.
func ForVideo(s Site, v catalog.Video) *Builder {
	canonical := s.VideoURL(v.Slug)
	b := s.page(page{
		title:       v.Title + " – " + s.Name,
		description: truncate(v.DescriptionShort, maxDescription),
		canonical:   canonical,
		image:       v.ThumbURL,
		ogType:      "video.other",
	})
	b.Name("robots", "index, follow")
	structuredData(b, map[string]any{
		"@context":     "https://schema.org",
		"@type":        "VideoObject",
		"name":         v.Title,
		"description":  v.DescriptionShort,
		"thumbnailUrl": []string{v.ThumbURL},
		"uploadDate":   v.Published,
		"duration":     v.Duration,
		"embedUrl":     "https://www.youtube.com/embed/" + v.YouTubeID,
		"url":          canonical,
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  s.Name,
			"url":   s.ChannelURL,
			"logo": map[string]any{
				"@type": "ImageObject",
				"url":   s.Abs(s.DefaultThumb),
			},
		},
	})
	return b
}

// structuredData adds ld to b.  A value that cannot be encoded is logged
// and left out; the page still gets its meta tags.
func structuredData(b *Builder, ld map[string]any) {
	if err := b.JSONLD(ld); err != nil {
		zap.S().Warnw("json-ld dropped", "type", ld["@type"], "err", err)
	}
}

// ForCategory describes a category page holding count videos.
func ForCategory(s Site, name, slug string, count int) *Builder {
	return s.page(page{
		title: fmt.Sprintf("%s Malayalam Kids Songs – %s", name, s.Name),
		description: fmt.Sprintf("Enjoy %d %s themed Malayalam kids songs and cartoons from %s.",
			count, strings.ToLower(name), s.Name),
		canonical: s.CategoryURL(slug),
	})
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
