package reactive

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeBroadcast(t *testing.T) {
	p := NewPipe[string]()

	var a, b []string
	p.Subscribe(func(v string) { a = append(a, v) })
	p.Send("x")
	p.Subscribe(func(v string) { b = append(b, v) })
	p.Send("y")

	assert.Equal(t, []string{"x", "y"}, a)
	assert.Equal(t, []string{"y"}, b)
}

func TestPipeDispose(t *testing.T) {
	src := NewProperty(0)
	out := Map(src, strconv.Itoa)

	var got []string
	out.Subscribe(func(v string) { got = append(got, v) })

	src.Set(1)
	out.Dispose()
	out.Dispose()
	src.Set(2)
	out.Send("manual")

	assert.Equal(t, []string{"1"}, got)
	assert.Equal(t, 0, src.subs.count())
}

func TestMap(t *testing.T) {
	src := NewProperty(0)
	out := Map(src, func(v int) int { return v + 1 })

	var got []int
	out.Subscribe(func(v int) { got = append(got, v) })
	src.Set(1)
	src.Set(41)

	assert.Equal(t, []int{2, 42}, got)
}

func TestFilter(t *testing.T) {
	src := NewProperty("")
	out := Filter(src, func(v string) bool { return v != "" })

	var got []string
	out.Subscribe(func(v string) { got = append(got, v) })
	src.Set("a")
	src.Set("")
	src.Set("b")

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCombineLatest2(t *testing.T) {
	email := NewProperty("e")
	confirm := NewProperty("c")
	out := CombineLatest2[string, string](email, confirm)

	var got []Pair[string, string]
	out.Subscribe(func(p Pair[string, string]) { got = append(got, p) })

	email.Set("e1")
	confirm.Set("c1")
	email.Set("e1") // every emission counts

	assert.Equal(t, []Pair[string, string]{
		{First: "e1", Second: "c"},
		{First: "e1", Second: "c1"},
		{First: "e1", Second: "c1"},
	}, got)
}

func TestCombineLatest2MixedTypes(t *testing.T) {
	name := NewProperty("a")
	accepted := NewProperty(false)
	out := CombineLatest2[string, bool](name, accepted)

	var last Pair[string, bool]
	out.Subscribe(func(p Pair[string, bool]) { last = p })
	accepted.Set(true)

	assert.Equal(t, Pair[string, bool]{First: "a", Second: true}, last)
}
