// internal/api/api.go
//
// JSON API over the catalog Store.
//
// Context
// -------
// The public site is static HTML plus a small presenter script.  Every page
// asks this package for its data: the home page for the latest videos and
// popular categories, the library for a filtered page, the video and
// category pages for one record and its head tags.
//
// Workflow
// --------
//   serve(kind, build)
//     ├─ EnsureLoaded        → 503 CATALOG_UNAVAILABLE on LoadFailure
//     ├─ memo lookup         → hit: write cached bytes
//     ├─ build(snapshot)     → 404 problems pass straight through
//     └─ encode, memoize, write
//
// Notes
// -----
// • A Snapshot never changes once published, so an encoded body is valid
//   for as long as the snapshot it was built from is current.  Entries
//   remember their snapshot and are ignored after a reload.
// • Only 200 bodies are memoized.  Error envelopes carry the request id.

package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/cache"
	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/head"
	"github.com/ambambokili/kili/internal/metrics"
	"github.com/ambambokili/kili/internal/middleware"
	"github.com/ambambokili/kili/internal/respond"
)

const (
	latestCount     = 8
	popularCount    = 6
	relatedCount    = 3
	moreCount       = 4
	maxRelatedCount = 24
	maxPerPage      = 100
)

// Options tune a Handler.  Zero values take the defaults.
type Options struct {
	PerPage         int // library page size; default catalog.DefaultPerPage
	ResponseEntries int // memoized bodies; 0 disables memoization
}

// Handler serves the /api routes.
type Handler struct {
	store   *catalog.Store
	site    head.Site
	perPage int
	memo    *cache.LRU[string, memoEntry]
}

type memoEntry struct {
	snap *catalog.Snapshot
	body []byte
}

// problem is a non-200 answer produced by a build function.
type problem struct {
	status  int
	code    string
	message string
}

var (
	errVideoNotFound    = &problem{http.StatusNotFound, "VIDEO_NOT_FOUND", "Video not found."}
	errCategoryNotFound = &problem{http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found."}
)

// New wires a Handler to store.
func New(store *catalog.Store, site head.Site, opts Options) *Handler {
	h := &Handler{
		store:   store,
		site:    site,
		perPage: opts.PerPage,
	}
	if h.perPage <= 0 {
		h.perPage = catalog.DefaultPerPage
	}
	if opts.ResponseEntries > 0 {
		h.memo = cache.New[string, memoEntry](opts.ResponseEntries)
	}
	return h
}

// serve runs the shared load / memo / encode path around build.
func (h *Handler) serve(kind string, build func(r *http.Request, snap *catalog.Snapshot) (any, *problem)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := middleware.RequestIDFromContext(r.Context())

		if err := h.store.EnsureLoaded(r.Context()); err != nil {
			respond.Unavailable(w, "CATALOG_UNAVAILABLE", catalog.UserMessage, rid)
			return
		}
		snap := h.store.Snapshot()
		metrics.CatalogQueriesTotal.WithLabelValues(kind).Inc()

		key := memoKey(r)
		if body, ok := h.lookup(key, snap); ok {
			respond.Raw(w, http.StatusOK, body)
			return
		}

		v, p := build(r, snap)
		if p != nil {
			respond.Error(w, p.status, p.code, p.message, rid, nil)
			return
		}
		body, err := json.Marshal(v)
		if err != nil {
			zap.S().Errorw("encode response", "path", r.URL.Path, "err", err)
			respond.Internal(w, rid)
			return
		}
		h.remember(key, snap, body)
		respond.Raw(w, http.StatusOK, body)
	}
}

func (h *Handler) lookup(key string, snap *catalog.Snapshot) ([]byte, bool) {
	if h.memo == nil {
		return nil, false
	}
	e, ok := h.memo.Get(key)
	if !ok || e.snap != snap {
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
	return e.body, true
}

func (h *Handler) remember(key string, snap *catalog.Snapshot, body []byte) {
	if h.memo != nil {
		h.memo.Add(key, memoEntry{snap: snap, body: body})
		metrics.ResponseCacheEntries.Set(float64(h.memo.Len()))
	}
}

// memoKey is the path plus the query with its keys sorted, so ?a=1&b=2 and
// ?b=2&a=1 share an entry.
func memoKey(r *http.Request) string {
	q, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return r.URL.Path + "?" + r.URL.RawQuery
	}
	return r.URL.Path + "?" + q.Encode()
}

// intParam reads a query integer.  Missing or malformed values give def;
// out-of-range values are clamped.
func intParam(r *http.Request, name string, def, lo, hi int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return min(max(i, lo), hi)
}
