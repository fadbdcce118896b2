package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyGetReturnsLastWrite(t *testing.T) {
	for _, s := range []string{"", "a", "a@gmail.com", "ünïcode", "  spaced  "} {
		p := NewProperty("initial")
		p.Set(s)
		assert.Equal(t, s, p.Get())
	}
}

func TestPropertyNotifiesEveryWriteInOrder(t *testing.T) {
	p := NewProperty(0)

	var order []string
	p.Subscribe(func(v int) { order = append(order, "first") })
	p.Subscribe(func(v int) { order = append(order, "second") })

	p.Set(1)
	p.Set(1) // equal writes still notify

	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestPropertyDoesNotReplayToLateSubscribers(t *testing.T) {
	p := NewProperty("a")
	p.Set("b")

	var got []string
	p.Subscribe(func(v string) { got = append(got, v) })
	assert.Empty(t, got)

	p.Set("c")
	assert.Equal(t, []string{"c"}, got)
}

func TestPropertyUnsubscribe(t *testing.T) {
	p := NewProperty(0)

	var a, b int
	subA := p.Subscribe(func(v int) { a = v })
	p.Subscribe(func(v int) { b = v })

	subA.Unsubscribe()
	subA.Unsubscribe() // idempotent

	p.Set(7)
	assert.Equal(t, 0, a)
	assert.Equal(t, 7, b)
	assert.Equal(t, 1, p.subs.count())
}

func TestPropertyUnsubscribeKeepsOrder(t *testing.T) {
	p := NewProperty(0)

	var order []int
	p.Subscribe(func(int) { order = append(order, 1) })
	middle := p.Subscribe(func(int) { order = append(order, 2) })
	p.Subscribe(func(int) { order = append(order, 3) })
	p.Subscribe(func(int) { order = append(order, 4) })

	middle.Unsubscribe()
	p.Set(1)

	assert.Equal(t, []int{1, 3, 4}, order)
}

func TestPropertyUpdate(t *testing.T) {
	p := NewProperty(1)

	var got int
	p.Subscribe(func(v int) { got = v })
	p.Update(func(v int) int { return v * 10 })

	assert.Equal(t, 10, p.Get())
	assert.Equal(t, 10, got)
}

func TestPropertyOnChange(t *testing.T) {
	p := NewProperty(false)

	calls := 0
	sub := p.OnChange(func() { calls++ })
	p.Set(true)
	p.Set(true)
	sub.Unsubscribe()
	p.Set(false)

	assert.Equal(t, 2, calls)
	require.NotNil(t, p.OnChange(nil))
}

func TestPropertyIDsAreUnique(t *testing.T) {
	a := NewProperty(0)
	b := NewProperty(0)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNilSubscriptionUnsubscribe(t *testing.T) {
	var s *Subscription
	assert.NotPanics(t, s.Unsubscribe)
}
