package clock

import (
	"context"
	"time"
)

// TimerState is stored separately from the match document so that clock
// writes never contend with scoring writes. Displayed elapsed time is
// BaseElapsed plus, while running, the distance from StartedAt to the
// server-corrected now.
type TimerState struct {
	MatchID     string
	Label       string
	Running     bool
	BaseElapsed time.Duration
	StartedAt   time.Time
	UpdatedAt   time.Time
}

// OffsetSource reports the measured delta between the authoritative server
// clock and the local clock. A zero offset means the local clock is the
// authority. Staleness skews the displayed time by the staleness amount;
// that is accepted, not retried.
type OffsetSource interface {
	Offset() time.Duration
}

// FixedOffset is an OffsetSource with a constant delta.
type FixedOffset time.Duration

func (f FixedOffset) Offset() time.Duration { return time.Duration(f) }

// Clock applies timer transitions using a server-corrected now. It performs
// no I/O; persisting the resulting TimerState is the caller's concern.
type Clock struct {
	offsets OffsetSource
	now     func() time.Time
}

func New(offsets OffsetSource) *Clock {
	if offsets == nil {
		offsets = FixedOffset(0)
	}
	return &Clock{offsets: offsets, now: time.Now}
}

// Now is the server-corrected wall clock.
func (c *Clock) Now() time.Time {
	return c.now().Add(c.offsets.Offset())
}

func (c *Clock) Start(state TimerState, label string) TimerState {
	if state.Running {
		return state
	}
	now := c.Now()
	state.Running = true
	state.StartedAt = now
	if label != "" {
		state.Label = label
	}
	state.UpdatedAt = now
	return state
}

func (c *Clock) Stop(state TimerState) TimerState {
	if !state.Running {
		return state
	}
	now := c.Now()
	state.BaseElapsed += now.Sub(state.StartedAt)
	state.Running = false
	state.StartedAt = time.Time{}
	state.UpdatedAt = now
	return state
}

// Read returns the elapsed time without mutating state. Safe to call on every
// display tick; successive reads are non-decreasing while running and
// constant while stopped.
func (c *Clock) Read(state TimerState) time.Duration {
	if !state.Running {
		return state.BaseElapsed
	}
	elapsed := state.BaseElapsed + c.Now().Sub(state.StartedAt)
	if elapsed < state.BaseElapsed {
		return state.BaseElapsed
	}
	return elapsed
}

// Rebase replaces the accumulated base, for period transitions that restart
// or carry over time (45:00 second-half restart, 90:00/105:00 extra time).
// A running timer keeps running against the new base.
func (c *Clock) Rebase(state TimerState, base time.Duration, label string) TimerState {
	now := c.Now()
	state.BaseElapsed = base
	if state.Running {
		state.StartedAt = now
	}
	if label != "" {
		state.Label = label
	}
	state.UpdatedAt = now
	return state
}

// Repository persists timer records keyed by match.
type Repository interface {
	Get(ctx context.Context, matchID string) (TimerState, bool, error)
	Put(ctx context.Context, state TimerState) error
}
