// Package validation checks inputs before they reach the network.
//
// Struct tag validation (go-playground/validator) is used for decoded
// entities; the programmatic Validator is used for request payloads whose
// optional fields are not visible to struct tags.
//
//	err := validation.Validate(project)
//
//	v := validation.New()
//	v.Required("name", req.Name)
//	err := v.Validate()
package validation
