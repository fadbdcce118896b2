package validation

import "github.com/vango-dev/formbind/pkg/reactive"

// Property is a reactive property with a derived validation result.
//
// The result is recomputed synchronously on every write, before any
// subscriber registered after construction is notified.
type Property[T any] struct {
	*reactive.Property[T]

	result *reactive.Memo[Result]
}

// NewProperty creates a validating property. A nil validator accepts every
// value.
func NewProperty[T any](initial T, v Validator[T]) *Property[T] {
	if v == nil {
		v = PassThrough[T]()
	}
	p := &Property[T]{Property: reactive.NewProperty(initial)}
	p.result = reactive.NewMemo(func() Result {
		return v(p.Get())
	}, p.Property)
	return p
}

// NewPropertyWith creates a validating property whose validator also reads
// other. The result is recomputed when either value changes.
func NewPropertyWith[T, U any](initial T, other reactive.Readable[U], v func(value T, other U) Result) *Property[T] {
	p := &Property[T]{Property: reactive.NewProperty(initial)}
	p.result = reactive.NewMemo(func() Result {
		return v(p.Get(), other.Get())
	}, p.Property, other)
	return p
}

// Result returns the derived validation result.
func (p *Property[T]) Result() reactive.Readable[Result] {
	return p.result
}

// Validation returns the current validation result.
func (p *Property[T]) Validation() Result {
	return p.result.Get()
}

// Dispose detaches the derived result from its sources.
func (p *Property[T]) Dispose() {
	p.result.Dispose()
}

// Passed derives whether r is currently valid.
func Passed(r reactive.Readable[Result]) *reactive.Memo[bool] {
	return reactive.NewMemo(func() bool {
		return r.Get().IsValid()
	}, r)
}

// Gate derives a value that mirrors value while every gate is true and
// holds the zero value otherwise. With no gates it mirrors value.
func Gate[T any](value reactive.Readable[T], gates ...reactive.Readable[bool]) *reactive.Memo[T] {
	sources := make([]reactive.Source, 0, len(gates)+1)
	sources = append(sources, value)
	for _, g := range gates {
		sources = append(sources, g)
	}

	return reactive.NewMemo(func() T {
		for _, g := range gates {
			if !g.Get() {
				var zero T
				return zero
			}
		}
		return value.Get()
	}, sources...)
}
