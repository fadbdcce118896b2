package validation

import "strings"

// Result is the outcome of validating a value. The zero Result is valid.
type Result struct {
	err error
}

// Valid returns a passing result.
func Valid() Result {
	return Result{}
}

// Invalid returns a failing result carrying err. A nil err yields a valid
// result.
func Invalid(err error) Result {
	return Result{err: err}
}

// IsValid reports whether the result passed.
func (r Result) IsValid() bool {
	return r.err == nil
}

// Err returns the failure, or nil.
func (r Result) Err() error {
	return r.err
}

// Reason returns the human-readable failure reason, or "" when valid.
// Errors exposing Reason() string report that instead of Error().
func (r Result) Reason() string {
	if r.err == nil {
		return ""
	}
	if rr, ok := r.err.(interface{ Reason() string }); ok {
		return rr.Reason()
	}
	return r.err.Error()
}

// Reasons joins the reasons of the failing results with "\n", in argument
// order. It returns "" when every result is valid.
func Reasons(results ...Result) string {
	var reasons []string
	for _, r := range results {
		if reason := r.Reason(); reason != "" {
			reasons = append(reasons, reason)
		}
	}
	return strings.Join(reasons, "\n")
}
