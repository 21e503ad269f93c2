// Package validation checks configuration and command input.
//
// Struct tag validation uses go-playground/validator and reports failures as
// an INVALID_CONFIG AppError whose details list each field:
//
//	type Config struct {
//	    TopN int `mapstructure:"top_n" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Command arguments are checked programmatically and reported as
// INVALID_INPUT:
//
//	v := validation.New()
//	v.Required("file", path).Min("top", n, 1)
//	err := v.Validate()
package validation
