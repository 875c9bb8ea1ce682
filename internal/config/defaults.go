package config

import (
	"path/filepath"
	"time"
)

// Defaults for keys that may be absent from YAML and env.
const (
	DefaultListenAddr      = ":8080"
	DefaultSource          = "file"
	DefaultFetchTimeout    = 10 * time.Second
	DefaultPerPage         = 12
	DefaultCacheTTL        = 5 * time.Minute
	DefaultResponseEntries = 512
	DefaultS3Region        = "us-east-1"
	DefaultLogLevel        = "info"
)

// applyDefaults fills zero values.  Relative paths are anchored at root.
func applyDefaults(cfg *Config, root string) {
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = DefaultListenAddr
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = DefaultSource
	}
	if cfg.Catalog.Source == "file" && cfg.Catalog.Path == "" {
		cfg.Catalog.Path = filepath.Join("data", "videos.json")
	}
	if cfg.Catalog.FetchTimeout == 0 {
		cfg.Catalog.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Catalog.PerPage == 0 {
		cfg.Catalog.PerPage = DefaultPerPage
	}
	if cfg.Catalog.S3.Region == "" {
		cfg.Catalog.S3.Region = DefaultS3Region
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.ResponseEntries == 0 {
		cfg.Cache.ResponseEntries = DefaultResponseEntries
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	cfg.Catalog.Path = anchor(root, cfg.Catalog.Path)
	cfg.HTTP.StaticDir = anchor(root, cfg.HTTP.StaticDir)
	cfg.Geo.DBPath = anchor(root, cfg.Geo.DBPath)
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(root, "logs")
	} else {
		cfg.Log.Dir = anchor(root, cfg.Log.Dir)
	}
}

func anchor(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
