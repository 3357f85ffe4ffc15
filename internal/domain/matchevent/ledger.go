package matchevent

import "iter"

// Ledger is an append-only, time-ordered list of events for one match.
// Events are never edited or removed; every aggregate in the system must be
// recomputable by folding over All.
type Ledger struct {
	events []Event
}

func NewLedger(events []Event) *Ledger {
	return &Ledger{events: append([]Event(nil), events...)}
}

// Append assigns the next sequence number and records the event.
func (l *Ledger) Append(event Event) Event {
	event.Seq = int64(len(l.events)) + 1
	l.events = append(l.events, event)
	return event
}

func (l *Ledger) Len() int {
	return len(l.events)
}

// All yields events in insertion order. The sequence is finite and
// restartable, so consumers can fold over it as many times as they need.
func (l *Ledger) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, event := range l.events {
			if !yield(event) {
				return
			}
		}
	}
}

// Snapshot copies the ledger contents for persistence or transport.
func (l *Ledger) Snapshot() []Event {
	return append([]Event(nil), l.events...)
}
