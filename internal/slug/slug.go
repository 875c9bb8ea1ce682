// internal/slug/slug.go
//
// Slug helpers for category and video URLs.
//
// Rules (Make)
// ------------
// 1. Lower-case everything.
// 2. Replace every “&” with the word “and”.
// 3. Convert any run of non-[a-z0-9] characters to one “-”.  That strips
//    spaces, punctuation, emoji, and non-ASCII script (Malayalam titles
//    collapse to nothing, so the English display name must carry the slug).
// 4. Trim leading / trailing “-”.
//
// Notes
// -----
// • Slugs are derived on demand from display names, never stored.  Two
//   names can collide (“Rhymes & Songs” vs “Rhymes and Songs”); Collisions
//   reports them so `kili check` can flag the data instead of us rewriting
//   the rules.
// • No length cap and no fallback value.  An empty result is allowed.

package slug

import (
	"sort"
	"strings"
)

// Make converts text → lower-kebab ASCII.
func Make(text string) string {
	lower := strings.ReplaceAll(strings.ToLower(text), "&", "and")

	var b strings.Builder
	b.Grow(len(lower))

	lastWasDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// Collisions groups distinct names by slug and returns only the slugs shared
// by two or more names.  Names inside each group keep their input order.
func Collisions(names []string) map[string][]string {
	groups := make(map[string][]string)
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		s := Make(n)
		groups[s] = append(groups[s], n)
	}

	out := make(map[string][]string)
	for s, g := range groups {
		if len(g) > 1 {
			out[s] = g
		}
	}
	return out
}

// Keys returns the collision slugs in sorted order, for stable reporting.
func Keys(collisions map[string][]string) []string {
	keys := make([]string, 0, len(collisions))
	for k := range collisions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
