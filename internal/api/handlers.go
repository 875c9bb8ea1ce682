package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/head"
)

type categoryCard struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
	Thumb string `json:"thumb_url"`
}

type homeResponse struct {
	Latest     []catalog.Video `json:"latest"`
	Categories []categoryCard  `json:"categories"`
	Head       head.Head       `json:"head"`
}

type listResponse struct {
	catalog.Result
	Categories []string `json:"categories"`
}

type videoResponse struct {
	Video             catalog.Video   `json:"video"`
	DurationText      string          `json:"duration_text"`
	EducationalPoints []string        `json:"educational_points"`
	WatchURL          string          `json:"watch_url,omitempty"`
	EmbedURL          string          `json:"embed_url,omitempty"`
	ChannelURL        string          `json:"channel_url,omitempty"`
	Related           []catalog.Video `json:"related"`
	More              []catalog.Video `json:"more"`
	Head              head.Head       `json:"head"`
}

type relatedResponse struct {
	Slug  string          `json:"slug"`
	Items []catalog.Video `json:"items"`
}

type categoriesResponse struct {
	Categories []categoryCard `json:"categories"`
}

type categoryResponse struct {
	Name   string          `json:"name"`
	Slug   string          `json:"slug"`
	Intro  string          `json:"intro"`
	Count  int             `json:"count"`
	Videos []catalog.Video `json:"videos"`
	Head   head.Head       `json:"head"`
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/home", h.serve("home", h.home))
	r.Get("/videos", h.serve("list", h.list))
	r.Get("/videos/{slug}", h.serve("video", h.video))
	r.Get("/videos/{slug}/related", h.serve("related", h.related))
	r.Get("/categories", h.serve("categories", h.categories))
	r.Get("/categories/{slug}", h.serve("category", h.category))
}

// GET /api/home
func (h *Handler) home(_ *http.Request, snap *catalog.Snapshot) (any, *problem) {
	return homeResponse{
		Latest:     snap.Latest(latestCount),
		Categories: h.cards(snap.PopularCategories(popularCount)),
		Head:       head.ForHome(h.site).Head(),
	}, nil
}

// GET /api/videos?q=&category=&page=&per_page=
func (h *Handler) list(r *http.Request, snap *catalog.Snapshot) (any, *problem) {
	q := r.URL.Query()
	res := snap.Query(catalog.Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Page:     intParam(r, "page", 1, 1, 1<<20),
		PerPage:  intParam(r, "per_page", h.perPage, 1, maxPerPage),
	})
	return listResponse{Result: res, Categories: snap.CategoryNames()}, nil
}

// GET /api/videos/{slug}
func (h *Handler) video(r *http.Request, snap *catalog.Snapshot) (any, *problem) {
	v, ok := snap.BySlug(strings.TrimSpace(chi.URLParam(r, "slug")))
	if !ok {
		return nil, errVideoNotFound
	}
	resp := videoResponse{
		Video:             v,
		DurationText:      catalog.FormatDuration(v.Duration),
		EducationalPoints: catalog.EducationalPoints(v),
		ChannelURL:        h.site.ChannelURL,
		Related:           snap.Related(v, relatedCount, catalog.RelatedOptions{}),
		More:              snap.Related(v, moreCount, catalog.RelatedOptions{ExcludeSlug: v.Slug}),
		Head:              head.ForVideo(h.site, v).Head(),
	}
	if v.YouTubeID != "" {
		resp.WatchURL = "https://www.youtube.com/watch?v=" + v.YouTubeID
		resp.EmbedURL = "https://www.youtube.com/embed/" + v.YouTubeID
	}
	return resp, nil
}

// GET /api/videos/{slug}/related?count=
func (h *Handler) related(r *http.Request, snap *catalog.Snapshot) (any, *problem) {
	v, ok := snap.BySlug(strings.TrimSpace(chi.URLParam(r, "slug")))
	if !ok {
		return nil, errVideoNotFound
	}
	count := intParam(r, "count", relatedCount, 0, maxRelatedCount)
	return relatedResponse{
		Slug:  v.Slug,
		Items: snap.Related(v, count, catalog.RelatedOptions{}),
	}, nil
}

// GET /api/categories
func (h *Handler) categories(_ *http.Request, snap *catalog.Snapshot) (any, *problem) {
	return categoriesResponse{Categories: h.cards(snap.PopularCategories(0))}, nil
}

// GET /api/categories/{slug}
func (h *Handler) category(r *http.Request, snap *catalog.Snapshot) (any, *problem) {
	c, ok := snap.CategoryBySlug(strings.TrimSpace(chi.URLParam(r, "slug")))
	if !ok {
		return nil, errCategoryNotFound
	}
	return categoryResponse{
		Name:   c.Name,
		Slug:   c.Slug,
		Intro:  catalog.CategoryIntro(c.Name),
		Count:  c.Count(),
		Videos: c.Videos,
		Head:   head.ForCategory(h.site, c.Name, c.Slug, c.Count()).Head(),
	}, nil
}

func (h *Handler) cards(cats []catalog.Category) []categoryCard {
	out := make([]categoryCard, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryCard{
			Name:  c.Name,
			Slug:  c.Slug,
			Count: c.Count(),
			Thumb: h.site.Abs(c.Thumb(h.site.DefaultThumb)),
		})
	}
	return out
}
