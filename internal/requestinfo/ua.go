// internal/requestinfo/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.

package requestinfo

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// UA carries the attributes used by the access log.
//
// Example (Chrome on Android):
//
//	Browser   "Chrome"
//	Version   "124.0.6367"
//	OS        "Android"
//	OSVersion "14"
//	Device    "Mobile"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", "TV", or "Other".
type UA struct {
	Browser     string `json:"browser"`
	Version     string `json:"version,omitempty"`
	OS          string `json:"os"`
	OSVersion   string `json:"os_version,omitempty"`
	Device      string `json:"device"`
	Platform    string `json:"platform"`
	IsBot       bool   `json:"bot"`
	PrimaryLang string `json:"lang,omitempty"`
}

// ParseUA converts raw headers into a UA struct.
func ParseUA(raw, acceptLang string) UA {
	ua := surfer.Parse(raw)

	info := UA{
		Browser:     strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		Version:     versionToString(ua.Browser.Version),
		OS:          strings.TrimPrefix(ua.OS.Name.String(), "OS"),
		OSVersion:   versionToString(ua.OS.Version),
		Platform:    strings.TrimPrefix(ua.OS.Platform.String(), "Platform"),
		IsBot:       ua.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	case surfer.DeviceTV:
		info.Device = "TV"
	default:
		info.Device = "Other"
	}

	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}

// primaryLang extracts the first language tag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(strings.TrimSpace(tag), ";")
	return strings.ToLower(tag)
}
