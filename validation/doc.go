// Package validation checks pipeline definitions and runner configuration.
//
// Struct tag validation uses go-playground/validator:
//
//	type Definition struct {
//	    Name  string   `yaml:"name" validate:"required"`
//	    Pipes []string `yaml:"pipes" validate:"dive,required"`
//	}
//	err := validation.Validate(def)
//
// Programmatic validation collects field errors:
//
//	v := validation.New()
//	v.Required("name", name).OneOf("format", format, []string{"json", "console"})
//	err := v.Validate()
package validation
