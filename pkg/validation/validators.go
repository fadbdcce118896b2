package validation

import "strings"

// Validator checks a single value.
type Validator[T any] func(value T) Result

// PassThrough accepts every value.
func PassThrough[T any]() Validator[T] {
	return func(T) Result {
		return Valid()
	}
}

// ----------------------------------------------------------------------------
// String Validators
// ----------------------------------------------------------------------------

// HasSuffix fails with err unless the value ends with suffix.
func HasSuffix(suffix string, err error) Validator[string] {
	return func(value string) Result {
		if !strings.HasSuffix(value, suffix) {
			return Invalid(err)
		}
		return Valid()
	}
}

// NotEmpty fails with err for blank values.
func NotEmpty(err error) Validator[string] {
	return func(value string) Result {
		if strings.TrimSpace(value) == "" {
			return Invalid(err)
		}
		return Valid()
	}
}

// ----------------------------------------------------------------------------
// Other Validators
// ----------------------------------------------------------------------------

// IsTrue fails with err unless the value is true.
func IsTrue(err error) Validator[bool] {
	return func(value bool) Result {
		if !value {
			return Invalid(err)
		}
		return Valid()
	}
}

// Matches fails with err unless both values are equal. It is meant for
// NewPropertyWith, comparing a field against another one.
func Matches[T comparable](err error) func(value, other T) Result {
	return func(value, other T) Result {
		if value != other {
			return Invalid(err)
		}
		return Valid()
	}
}

// All runs validators in order and returns the first failure.
func All[T any](validators ...Validator[T]) Validator[T] {
	return func(value T) Result {
		for _, v := range validators {
			if r := v(value); !r.IsValid() {
				return r
			}
		}
		return Valid()
	}
}
