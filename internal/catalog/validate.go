// internal/catalog/validate.go
//
// Offline data checks used by `kili check`.
//
// Context
// -------
// Loading never validates records; a well-formed document is served as-is.
// These checks exist for whoever edits videos.json so that a broken entry
// is caught before it is published.
//
// Notes
// -----
// • Field rules live in the `validate` tags on Video.
// • Duplicate slugs and category slug collisions are collection-level and
//   are checked here by hand.

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ambambokili/kili/internal/slug"
)

// Problem is one finding.  Index is the record position in the source
// document, or -1 for collection-level findings.
type Problem struct {
	Index   int
	Slug    string
	Field   string
	Message string
}

func (p Problem) String() string {
	if p.Index < 0 {
		return fmt.Sprintf("%s: %s", p.Field, p.Message)
	}
	return fmt.Sprintf("#%d (%s) %s: %s", p.Index, p.Slug, p.Field, p.Message)
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate returns every problem found in videos, in document order.
func Validate(videos []Video) []Problem {
	var problems []Problem

	firstSeen := map[string]int{}
	for i, v := range videos {
		if err := validate.Struct(v); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				problems = append(problems, Problem{Index: i, Slug: v.Slug, Field: "record", Message: err.Error()})
				continue
			}
			for _, fe := range verrs {
				problems = append(problems, Problem{
					Index:   i,
					Slug:    v.Slug,
					Field:   strings.TrimPrefix(fe.Namespace(), "Video."),
					Message: "failed " + fe.Tag(),
				})
			}
		}
		if v.Published.Time.IsZero() {
			problems = append(problems, Problem{Index: i, Slug: v.Slug, Field: "published", Message: "missing"})
		}
		if v.Slug != "" {
			if j, dup := firstSeen[v.Slug]; dup {
				problems = append(problems, Problem{
					Index:   i,
					Slug:    v.Slug,
					Field:   "slug",
					Message: fmt.Sprintf("duplicate of #%d", j),
				})
			} else {
				firstSeen[v.Slug] = i
			}
			if made := slug.Make(v.Slug); made != v.Slug {
				problems = append(problems, Problem{
					Index:   i,
					Slug:    v.Slug,
					Field:   "slug",
					Message: fmt.Sprintf("not normalised (want %q)", made),
				})
			}
		}
	}

	snap := NewSnapshot(videos)
	collisions := slug.Collisions(snap.order)
	for _, key := range slug.Keys(collisions) {
		problems = append(problems, Problem{
			Index:   -1,
			Field:   "categories",
			Message: fmt.Sprintf("slug %q is shared by %s", key, strings.Join(collisions[key], ", ")),
		})
	}
	return problems
}
