// Package errors provides coded, categorized errors for formbind.
//
// Every error users can see has a stable code (e.g., "F003") that maps to a
// fixed message, a longer explanation and, where useful, a hint. Codes are
// what the binding layer sends over the wire and what tests match on.
//
// # Error Categories
//
//   - validation: a form field or the submitted form is invalid
//   - service: the username service could not answer
//   - config: the configuration file is invalid
//   - protocol: a binding client sent a malformed message
//
// # Usage
//
//	err := errors.New("F003")
//	errors.Is(err, errors.New("F003")) // true, codes match
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F003: The username has been taken.
//	//
//	//   Hint: Pick a different address.
package errors
