package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var isoDuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// FormatDuration renders an ISO-8601 time duration such as "PT1H2M3S" as
// "1h 2m 3s".  Missing components are omitted.  Input that does not carry
// a PT designator yields "".
func FormatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	for i, unit := range []string{"h", "m", "s"} {
		if m[i+1] != "" {
			parts = append(parts, m[i+1]+unit)
		}
	}
	return strings.Join(parts, " ")
}

const maxEducationalPoints = 6

// EducationalPoints lists what a video teaches: its first four tags, then
// its categories.  Duplicate lines are dropped and at most six are
// returned.
func EducationalPoints(v Video) []string {
	var points []string
	seen := map[string]struct{}{}
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		points = append(points, p)
	}
	for _, t := range v.Tags[:min(4, len(v.Tags))] {
		add(fmt.Sprintf("Encourages learning about %s.", strings.ToLower(t)))
	}
	for _, c := range v.Categories {
		add(fmt.Sprintf("Celebrates %s themes with Malayalam vocabulary.", strings.ToLower(c)))
	}
	if len(points) > maxEducationalPoints {
		points = points[:maxEducationalPoints]
	}
	return points
}

// CategoryIntro is the lead paragraph of a category page.
func CategoryIntro(name string) string {
	return fmt.Sprintf("Sing, dance, and imagine with our %s collection. "+
		"These Malayalam kids videos blend Kerala rhythms, stories, and bright "+
		"characters to make family screen time meaningful.", strings.ToLower(name))
}
