// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any failure aborts startup, so the binary never runs with a
// half-configured storage backend.
//
// Tag rules cover single fields.  The one cross-field rule, “the selected
// backend has its connection setting”, is a struct-level validation
// registered below.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(storageRules, Storage{})
	return val
}

// storageRules requires Endpoint for http and DSN for sql.
func storageRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(Storage)
	switch s.Backend {
	case "http":
		if s.Endpoint == "" {
			sl.ReportError(s.Endpoint, "Endpoint", "endpoint", "required_for_http", "")
		}
	case "sql":
		if s.DSN == "" {
			sl.ReportError(s.DSN, "DSN", "dsn", "required_for_sql", "")
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
