// internal/config/model.go
//
// Typed configuration model for Kili.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `KILI_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Defaults are filled after unmarshal (defaults.go) and validation runs
// last; the app fails fast if required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr  string   `koanf:"listen_addr"  validate:"required,hostname_port"`
	ForceHTTPS  bool     `koanf:"force_https"`
	CORSOrigins []string `koanf:"cors_origins" validate:"dive,required"`
	StaticDir   string   `koanf:"static_dir"`
}

//
// Catalog section
//

// Catalog selects where videos.json comes from.
//
// `source` picks one of three backends.  Only the fields of the chosen
// backend are checked: `path` for file, `url` for http, and the `s3`
// block for s3.
type Catalog struct {
	Source       string        `koanf:"source"        validate:"required,oneof=file http s3"`
	Path         string        `koanf:"path"`
	URL          string        `koanf:"url"           validate:"omitempty,url"`
	S3           S3            `koanf:"s3"`
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
	PerPage      int           `koanf:"per_page"      validate:"gte=1,lte=100"`
}

// S3 points at an object in an S3-compatible bucket.  Empty keys mean
// anonymous access.  `secret_key` is normally a `vault:` reference.
type S3 struct {
	Endpoint  string `koanf:"endpoint"   validate:"omitempty,url"`
	Region    string `koanf:"region"`
	Bucket    string `koanf:"bucket"`
	Key       string `koanf:"key"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

//
// Cache section
//

// Cache tunes the two caching layers: the optional Valkey copy of the raw
// document, and the in-process LRU of encoded API responses.
type Cache struct {
	ValkeyAddr      string        `koanf:"valkey_addr"      validate:"omitempty,hostname_port"`
	ValkeyPassword  string        `koanf:"valkey_password"`
	ValkeyDB        int           `koanf:"valkey_db"        validate:"gte=0,lte=15"`
	TTL             time.Duration `koanf:"ttl"              validate:"gte=0"`
	ResponseEntries int           `koanf:"response_entries" validate:"gte=0"`
}

//
// Site section
//

// Site carries the public identity used in SEO metadata.
type Site struct {
	Name         string `koanf:"name"          validate:"required"`
	Tagline      string `koanf:"tagline"`
	SiteURL      string `koanf:"site_url"      validate:"required,url"`
	ChannelURL   string `koanf:"channel_url"   validate:"omitempty,url"`
	PlaylistURL  string `koanf:"playlist_url"  validate:"omitempty,url"`
	DefaultThumb string `koanf:"default_thumb"`
	ContactEmail string `koanf:"contact_email" validate:"omitempty,email"`
}

//
// Log section
//

// Log controls the file logger.  An empty Dir means `<root>/logs`.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Tee   *bool  `koanf:"tee"`
}

//
// Geo section
//

// Geo enables country lookup from a MaxMind City database.  Empty disables
// it.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or KILI_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // KILI_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Catalog Catalog `koanf:"catalog"`
	Cache   Cache   `koanf:"cache"`
	Site    Site    `koanf:"site"`
	Log     Log     `koanf:"log"`
	Geo     Geo     `koanf:"geo"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}
