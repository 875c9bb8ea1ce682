package catalog

// RelatedOptions tunes Related.  ExcludeSlug defaults to the target's slug.
type RelatedOptions struct {
	ExcludeSlug string
}

// Related returns up to count videos for target.  Candidates sharing a
// category with target come first in pool order; the remainder is filled
// from the other candidates, also in pool order.  The target never appears
// and no slug appears twice.
func Related(target Video, pool []Video, count int, opts RelatedOptions) []Video {
	if count <= 0 {
		return []Video{}
	}
	exclude := opts.ExcludeSlug
	if exclude == "" {
		exclude = target.Slug
	}

	seen := make(map[string]struct{}, len(pool))
	candidates := make([]Video, 0, len(pool))
	for _, v := range pool {
		if v.Slug == exclude || v.Slug == target.Slug {
			continue
		}
		if _, dup := seen[v.Slug]; dup {
			continue
		}
		seen[v.Slug] = struct{}{}
		candidates = append(candidates, v)
	}

	out := make([]Video, 0, min(count, len(candidates)))
	picked := make([]bool, len(candidates))
	for i, v := range candidates {
		if len(out) == count {
			return out
		}
		if v.SharesCategory(target) {
			out = append(out, v)
			picked[i] = true
		}
	}
	for i, v := range candidates {
		if len(out) == count {
			break
		}
		if !picked[i] {
			out = append(out, v)
		}
	}
	return out
}
