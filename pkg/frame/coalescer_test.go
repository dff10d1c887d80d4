package frame

import "testing"

func TestSynchronousFlush(t *testing.T) {
	var got []int
	c := NewCoalescer(func(v int) { got = append(got, v) }, nil)

	c.Push(1)
	c.Push(2)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("flushed = %v, want [1 2]", got)
	}
	if c.Pending() {
		t.Fatalf("nothing should be pending after synchronous flushes")
	}
}

func TestIntermediatePayloadsAreDropped(t *testing.T) {
	// A manual scheduler standing in for a frame loop: callbacks queue up
	// and run only when the frame fires.
	var frames []func()
	schedule := func(f func()) { frames = append(frames, f) }

	var got []string
	c := NewCoalescer(func(v string) { got = append(got, v) }, schedule)

	c.Push("a")
	c.Push("b")
	c.Push("c")

	if len(frames) != 1 {
		t.Fatalf("scheduled frames = %d, want 1 while a flush is pending", len(frames))
	}
	if len(got) != 0 {
		t.Fatalf("flushed before the frame fired: %v", got)
	}

	frames[0]()
	if len(got) != 1 || got[0] != "c" {
		t.Fatalf("flushed = %v, want only the latest payload", got)
	}
}

func TestPushDuringFlushIsNotLost(t *testing.T) {
	var frames []func()
	schedule := func(f func()) { frames = append(frames, f) }

	var c *Coalescer[int]
	var got []int
	c = NewCoalescer(func(v int) {
		got = append(got, v)
		if v == 1 {
			c.Push(2)
		}
	}, schedule)

	c.Push(1)
	for len(frames) > 0 {
		f := frames[0]
		frames = frames[1:]
		f()
	}

	if len(got) != 2 || got[1] != 2 {
		t.Fatalf("flushed = %v, want the payload pushed mid-flush to follow", got)
	}
}

func TestZeroValuePayloadStillFlushes(t *testing.T) {
	calls := 0
	c := NewCoalescer(func(v int) { calls++ }, nil)

	c.Push(0)
	if calls != 1 {
		t.Fatalf("flush calls = %d, want 1", calls)
	}
}
