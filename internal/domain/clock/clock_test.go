package clock

import (
	"testing"
	"time"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func testClock(offset time.Duration) (*Clock, *fakeNow) {
	fake := &fakeNow{t: time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)}
	c := New(FixedOffset(offset))
	c.now = func() time.Time { return fake.t }
	return c, fake
}

func TestStartStopAccumulates(t *testing.T) {
	t.Parallel()

	c, fake := testClock(0)
	state := TimerState{MatchID: "m1"}

	state = c.Start(state, "FIRST_HALF")
	fake.advance(10 * time.Minute)
	state = c.Stop(state)

	if state.Running {
		t.Fatalf("timer still running after stop")
	}
	if state.BaseElapsed != 10*time.Minute {
		t.Fatalf("elapsed = %v, want 10m", state.BaseElapsed)
	}

	fake.advance(5 * time.Minute)
	if got := c.Read(state); got != 10*time.Minute {
		t.Fatalf("stopped read = %v, want constant 10m", got)
	}

	state = c.Start(state, "")
	fake.advance(2 * time.Minute)
	if got := c.Read(state); got != 12*time.Minute {
		t.Fatalf("resumed read = %v, want 12m", got)
	}
	if state.Label != "FIRST_HALF" {
		t.Fatalf("label = %q, want kept", state.Label)
	}
}

func TestStartAndStopAreIdempotent(t *testing.T) {
	t.Parallel()

	c, fake := testClock(0)
	state := c.Start(TimerState{MatchID: "m1"}, "FIRST_HALF")
	startedAt := state.StartedAt

	fake.advance(time.Minute)
	state = c.Start(state, "FIRST_HALF")
	if !state.StartedAt.Equal(startedAt) {
		t.Fatalf("second start moved StartedAt")
	}

	state = c.Stop(state)
	elapsed := state.BaseElapsed
	fake.advance(time.Minute)
	state = c.Stop(state)
	if state.BaseElapsed != elapsed {
		t.Fatalf("second stop changed elapsed: %v -> %v", elapsed, state.BaseElapsed)
	}
}

func TestReadIsNonDecreasingWhileRunning(t *testing.T) {
	t.Parallel()

	c, fake := testClock(0)
	state := c.Start(TimerState{MatchID: "m1"}, "FIRST_HALF")

	fake.advance(3 * time.Minute)
	first := c.Read(state)
	fake.advance(time.Second)
	second := c.Read(state)
	if second < first {
		t.Fatalf("reads decreased: %v then %v", first, second)
	}

	// A backwards local clock never drives the display below the base.
	fake.advance(-10 * time.Minute)
	if got := c.Read(state); got < state.BaseElapsed {
		t.Fatalf("read %v fell below base %v", got, state.BaseElapsed)
	}
}

func TestRebaseReplacesBase(t *testing.T) {
	t.Parallel()

	c, fake := testClock(0)
	state := c.Start(TimerState{MatchID: "m1"}, "FIRST_HALF")
	fake.advance(46 * time.Minute)
	state = c.Stop(state)

	state = c.Rebase(state, 45*time.Minute, "SECOND_HALF")
	if state.BaseElapsed != 45*time.Minute {
		t.Fatalf("base = %v, want 45m", state.BaseElapsed)
	}
	if state.Label != "SECOND_HALF" {
		t.Fatalf("label = %q, want SECOND_HALF", state.Label)
	}

	state = c.Start(state, "")
	fake.advance(90 * time.Second)
	if got := c.Read(state); got != 45*time.Minute+90*time.Second {
		t.Fatalf("read = %v, want 46m30s", got)
	}
}

func TestOffsetCorrectsNow(t *testing.T) {
	t.Parallel()

	c, fake := testClock(90 * time.Second)
	if got := c.Now(); !got.Equal(fake.t.Add(90 * time.Second)) {
		t.Fatalf("now = %v, want local+90s", got)
	}

	// Start and read share the same corrected clock, so a constant offset
	// cancels out of elapsed time.
	state := c.Start(TimerState{MatchID: "m1"}, "FIRST_HALF")
	fake.advance(5 * time.Minute)
	if got := c.Read(state); got != 5*time.Minute {
		t.Fatalf("read = %v, want 5m", got)
	}
}
