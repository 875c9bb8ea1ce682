// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree and fills defaults.  Any tag mismatch
// or validation error aborts startup, ensuring the binary never runs with
// partial, malformed, or missing configuration.
//
// Field rules live in the struct tags of model.go.  The one cross-field
// rule, "the chosen catalog source must be fully described", is a struct
// level validation registered below.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.
//   • Section dividers use the simple comment style.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(catalogSource, Catalog{})
	return val
}()

//
// rules
//

// catalogSource requires the fields of whichever backend is selected.
func catalogSource(sl validator.StructLevel) {
	c := sl.Current().Interface().(Catalog)
	switch c.Source {
	case "file":
		if c.Path == "" {
			sl.ReportError(c.Path, "Path", "path", "required_for_file", "")
		}
	case "http":
		if c.URL == "" {
			sl.ReportError(c.URL, "URL", "url", "required_for_http", "")
		}
	case "s3":
		if c.S3.Bucket == "" {
			sl.ReportError(c.S3.Bucket, "Bucket", "bucket", "required_for_s3", "")
		}
		if c.S3.Key == "" {
			sl.ReportError(c.S3.Key, "Key", "key", "required_for_s3", "")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			sl.ReportError(c.S3.SecretKey, "SecretKey", "secret_key", "s3_key_pair", "")
		}
	}
}

//
// public API
//

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
