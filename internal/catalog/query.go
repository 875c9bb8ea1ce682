package catalog

import "strings"

// DefaultPerPage is the page size used when Query.PerPage is not positive.
const DefaultPerPage = 12

// Query selects a page of videos.  Search and Category are independently
// optional and ANDed when both are set.
type Query struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

// Result is one page of a filtered listing.  Page is always within
// [1, TotalPages] and TotalPages is at least 1.
type Result struct {
	Items      []Video `json:"items"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
	TotalCount int     `json:"total_count"`
}

// Query filters the canonical order and slices out the requested page.
func (s *Snapshot) Query(q Query) Result {
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))

	filtered := make([]Video, 0, len(s.videos))
	for _, v := range s.videos {
		if term != "" && !matchesSearch(v, term) {
			continue
		}
		if q.Category != "" && !v.HasCategory(q.Category) {
			continue
		}
		filtered = append(filtered, v)
	}

	total := len(filtered)
	totalPages := max(1, (total+perPage-1)/perPage)
	page := min(max(q.Page, 1), totalPages)
	start := (page - 1) * perPage
	end := min(start+perPage, total)

	items := make([]Video, end-start)
	copy(items, filtered[start:end])
	return Result{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalCount: total,
	}
}

// matchesSearch expects term already lower-cased.
func matchesSearch(v Video, term string) bool {
	if strings.Contains(strings.ToLower(v.Title), term) {
		return true
	}
	for _, t := range v.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}
