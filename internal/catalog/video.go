// internal/catalog/video.go
//
// Video record as published in videos.json.
//
// Context
// -------
// The core reads only Slug, Title, Categories, Tags, and Published.  Every
// other field is opaque: it is decoded, carried, and re-encoded unchanged
// so the presentation layer sees what the data file contains.
//
// Notes
// -----
// • Published keeps the raw string so responses echo it byte-for-byte;
//   the parsed time is used only for ordering.
// • Records are never mutated after decode.  Slices inside a Video are
//   shared between snapshot views, so callers must treat them as read-only.

package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Video is one catalog entry.
type Video struct {
	Slug             string    `json:"slug"              validate:"required"`
	Title            string    `json:"title"             validate:"required"`
	Categories       []string  `json:"categories"        validate:"required,min=1,dive,required"`
	Tags             []string  `json:"tags"              validate:"omitempty,dive,required"`
	Published        Timestamp `json:"published"`
	Duration         string    `json:"duration,omitempty"`
	ThumbURL         string    `json:"thumb_url,omitempty"`
	DescriptionShort string    `json:"description_short,omitempty"`
	DescriptionLong  string    `json:"description_long,omitempty"`
	YouTubeID        string    `json:"yt_id,omitempty"`
	PlaylistURLs     []string  `json:"playlist_urls,omitempty"`
	Lyrics           []string  `json:"lyrics,omitempty"`
}

// HasCategory reports exact membership.
func (v Video) HasCategory(name string) bool {
	for _, c := range v.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// SharesCategory reports whether v and other have at least one category in
// common.
func (v Video) SharesCategory(other Video) bool {
	for _, c := range v.Categories {
		if other.HasCategory(c) {
			return true
		}
	}
	return false
}

//
// Timestamp
//

// publishedLayouts are tried in order.  Bare dates are what the data file
// mostly carries; full timestamps appear on newer uploads.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is a published date that remembers its source text.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// NewTimestamp builds a Timestamp from t, formatted as RFC 3339.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339)}
}

// UnmarshalJSON accepts null, RFC 3339, and YYYY-MM-DD.  A null or empty
// value yields the zero time, which sorts last.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("published: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range publishedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: parsed, Raw: s}
			return nil
		}
	}
	return fmt.Errorf("published: unrecognised date %q", s)
}

// MarshalJSON writes the source text back out.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case t.Raw != "":
		return json.Marshal(t.Raw)
	case !t.Time.IsZero():
		return json.Marshal(t.Time.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// Decode parses a videos.json document.  A JSON null decodes to an empty
// collection; anything that is not an array of records is an error.
func Decode(data []byte) ([]Video, error) {
	var videos []Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	return videos, nil
}
