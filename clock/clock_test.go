package clock

import (
	"testing"
	"time"
)

func TestManual(t *testing.T) {
	c := NewManual(10)
	if c.CurrentIndex() != 10 {
		t.Fatalf("want 10, got %d", c.CurrentIndex())
	}
	c.Tick(1)
	c.Tick(4)
	if c.CurrentIndex() != 15 {
		t.Fatalf("want 15, got %d", c.CurrentIndex())
	}
	c.Set(3)
	if c.CurrentIndex() != 3 {
		t.Fatalf("want 3, got %d", c.CurrentIndex())
	}
}

func TestCounterIsAdvancer(t *testing.T) {
	var clk Clock = NewCounter(7)
	adv, ok := clk.(Advancer)
	if !ok {
		t.Fatal("counter does not advance")
	}
	adv.Advance()
	if clk.CurrentIndex() != 8 {
		t.Fatalf("want 8, got %d", clk.CurrentIndex())
	}
	for _, c := range []Clock{NewUnix(), NewManual(1), Fixed(1)} {
		if _, ok := c.(Advancer); ok {
			t.Fatalf("%T must not be advanced by commits", c)
		}
	}
}

func TestUnix(t *testing.T) {
	u := &Unix{now: func() time.Time { return time.Unix(1_700_000_000, 0) }}
	if u.CurrentIndex() != 1_700_000_000 {
		t.Fatalf("unexpected index %d", u.CurrentIndex())
	}
	u.now = func() time.Time { return time.Unix(-5, 0) }
	if u.CurrentIndex() != 0 {
		t.Fatalf("pre-epoch time must clamp to 0, got %d", u.CurrentIndex())
	}
	if Fixed(9).CurrentIndex() != 9 {
		t.Fatal("fixed clock")
	}
}
