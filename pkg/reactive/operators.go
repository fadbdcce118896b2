package reactive

import "sync"

// Map returns a stream of fn applied to every value of src.
func Map[T, U any](src Stream[T], fn func(T) U) *Pipe[U] {
	out := NewPipe[U]()
	out.hold(src.Subscribe(func(v T) {
		out.Send(fn(v))
	}))
	return out
}

// Filter returns a stream of the values of src for which keep returns true.
func Filter[T any](src Stream[T], keep func(T) bool) *Pipe[T] {
	out := NewPipe[T]()
	out.hold(src.Subscribe(func(v T) {
		if keep(v) {
			out.Send(v)
		}
	}))
	return out
}

// Pair holds the latest values of two combined sources.
type Pair[A, B any] struct {
	First  A
	Second B
}

// CombineLatest2 emits the latest pair of values every time either source
// emits. The pair starts from both sources' current values, so the first
// emission already carries a complete pair.
func CombineLatest2[A, B any](a Readable[A], b Readable[B]) *Pipe[Pair[A, B]] {
	out := NewPipe[Pair[A, B]]()

	var mu sync.Mutex
	latest := Pair[A, B]{First: a.Get(), Second: b.Get()}

	out.hold(a.Subscribe(func(v A) {
		mu.Lock()
		latest.First = v
		snapshot := latest
		mu.Unlock()
		out.Send(snapshot)
	}))
	out.hold(b.Subscribe(func(v B) {
		mu.Lock()
		latest.Second = v
		snapshot := latest
		mu.Unlock()
		out.Send(snapshot)
	}))
	return out
}
