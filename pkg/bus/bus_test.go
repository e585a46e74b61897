package bus

import (
	"reflect"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := New[string]()

	var got []string
	b.Subscribe("tag", func(v string) { got = append(got, "first:"+v) })
	b.Subscribe("tag", func(v string) { got = append(got, "second:"+v) })
	b.Subscribe("other", func(v string) { got = append(got, "other:"+v) })

	b.Publish("tag", "a")
	b.Publish("tag", "b")

	want := []string{"first:a", "second:a", "first:b", "second:b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delivery order = %v, want %v", got, want)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	b := New[int]()
	// Must not panic or block.
	b.Publish("empty", 42)
}

func TestUnsubscribe(t *testing.T) {
	b := New[int]()

	var first, second int
	s1 := b.Subscribe("tag", func(int) { first++ })
	b.Subscribe("tag", func(int) { second++ })

	b.Publish("tag", 1)
	s1.Unsubscribe()
	b.Publish("tag", 2)

	if first != 1 {
		t.Errorf("unsubscribed listener called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining listener called %d times, want 2", second)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	b := New[int]()

	calls := 0
	s1 := b.Subscribe("tag", func(int) { calls++ })
	s2 := b.Subscribe("tag", func(int) { calls++ })

	s1.Unsubscribe()
	s1.Unsubscribe()
	s1.Unsubscribe()

	b.Publish("tag", 1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	_ = s2

	var nilSub *Subscription[int]
	nilSub.Unsubscribe() // must not panic
}

func TestReset(t *testing.T) {
	b := New[int]()

	calls := 0
	s := b.Subscribe("tag", func(int) { calls++ })

	b.Reset()
	b.Publish("tag", 1)
	if calls != 0 {
		t.Errorf("listener survived Reset, calls = %d", calls)
	}
	if b.Len("tag") != 0 {
		t.Errorf("Len after Reset = %d, want 0", b.Len("tag"))
	}

	// Stale handle from before the reset is harmless.
	s.Unsubscribe()
}

func TestSubscribeDuringPublish(t *testing.T) {
	b := New[int]()

	lateCalls := 0
	b.Subscribe("tag", func(int) {
		b.Subscribe("tag", func(int) { lateCalls++ })
	})

	b.Publish("tag", 1)
	if lateCalls != 0 {
		t.Errorf("listener added during publish received the same publish")
	}

	b.Publish("tag", 2)
	if lateCalls != 1 {
		t.Errorf("late listener calls = %d, want 1", lateCalls)
	}
}
