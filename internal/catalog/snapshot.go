package catalog

import (
	"sort"
	"time"

	"github.com/ambambokili/kili/internal/slug"
)

// Snapshot is a read-only view of one successful load.  Every method is
// safe for concurrent use.
type Snapshot struct {
	videos   []Video
	bySlug   map[string]int
	order    []string // category names, first appearance in canonical order
	index    map[string][]Video
	loadedAt time.Time
}

var emptySnapshot = &Snapshot{
	bySlug: map[string]int{},
	index:  map[string][]Video{},
}

// Category is one entry of the category index.
type Category struct {
	Name   string
	Slug   string
	Videos []Video
}

// Count is the number of member videos.
func (c Category) Count() int { return len(c.Videos) }

// Thumb returns the first member's thumbnail, or fallback when there is none.
func (c Category) Thumb(fallback string) string {
	if len(c.Videos) > 0 && c.Videos[0].ThumbURL != "" {
		return c.Videos[0].ThumbURL
	}
	return fallback
}

// Len is the number of videos.
func (s *Snapshot) Len() int { return len(s.videos) }

// LoadedAt is when the snapshot was built.  Zero for the empty snapshot.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Videos returns all videos, newest first.
func (s *Snapshot) Videos() []Video {
	out := make([]Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// Latest returns up to n videos from the front of the canonical order.
func (s *Snapshot) Latest(n int) []Video {
	n = min(max(n, 0), len(s.videos))
	out := make([]Video, n)
	copy(out, s.videos[:n])
	return out
}

// BySlug finds a video.  With duplicate slugs the first in canonical order
// wins.
func (s *Snapshot) BySlug(sl string) (Video, bool) {
	i, ok := s.bySlug[sl]
	if !ok {
		return Video{}, false
	}
	return s.videos[i], true
}

// Category returns the index entry for an exact category name.
func (s *Snapshot) Category(name string) (Category, bool) {
	vids, ok := s.index[name]
	if !ok {
		return Category{}, false
	}
	return Category{Name: name, Slug: slug.Make(name), Videos: vids}, true
}

// CategoryBySlug returns the first category, in index order, whose slug
// matches.
func (s *Snapshot) CategoryBySlug(sl string) (Category, bool) {
	for _, name := range s.order {
		if slug.Make(name) == sl {
			return s.Category(name)
		}
	}
	return Category{}, false
}

// Categories returns the index in first-appearance order.
func (s *Snapshot) Categories() []Category {
	out := make([]Category, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Category{Name: name, Slug: slug.Make(name), Videos: s.index[name]})
	}
	return out
}

// PopularCategories returns up to n categories by member count, largest
// first.  Equal counts keep index order.  n <= 0 returns all of them.
func (s *Snapshot) PopularCategories(n int) []Category {
	cats := s.Categories()
	sort.SliceStable(cats, func(i, j int) bool {
		return len(cats[i].Videos) > len(cats[j].Videos)
	})
	if n > 0 && n < len(cats) {
		cats = cats[:n]
	}
	return cats
}

// CategoryNames returns every category name sorted alphabetically.
func (s *Snapshot) CategoryNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	sort.Strings(names)
	return names
}

// Related picks videos for target from this snapshot's canonical order.
func (s *Snapshot) Related(target Video, count int, opts RelatedOptions) []Video {
	return Related(target, s.videos, count, opts)
}
