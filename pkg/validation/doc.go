// Package validation provides validation results, validators and
// validating properties built on the reactive core.
//
// A validating property pairs a reactive.Property with a derived Result
// that is recomputed on every write:
//
//	email := validation.NewProperty("", validation.HasSuffix("@gmail.com", ErrInvalidEmail))
//	email.Set("a@gmail.com")
//	email.Result().Get().IsValid() // true
//
// Gate combines a value with any number of boolean gates into a
// "validated value" that holds the zero value while a gate is closed.
package validation
