package matchevent_test

import (
	"testing"

	"github.com/turfbook/live-scoring/internal/domain/matchevent"
)

func TestLedgerAppendAssignsSequence(t *testing.T) {
	t.Parallel()

	ledger := matchevent.NewLedger(nil)
	first := ledger.Append(matchevent.Event{MatchID: "m1", Type: matchevent.TypeDelivery})
	second := ledger.Append(matchevent.Event{MatchID: "m1", Type: matchevent.TypeWicket})

	if first.Seq != 1 || second.Seq != 2 {
		t.Fatalf("sequences = %d, %d, want 1, 2", first.Seq, second.Seq)
	}
	if ledger.Len() != 2 {
		t.Fatalf("len = %d, want 2", ledger.Len())
	}
}

func TestLedgerAllIsRestartable(t *testing.T) {
	t.Parallel()

	ledger := matchevent.NewLedger(nil)
	for i := 0; i < 3; i++ {
		ledger.Append(matchevent.Event{MatchID: "m1", Type: matchevent.TypeDelivery, Runs: i})
	}

	seq := ledger.All()
	for pass := 0; pass < 2; pass++ {
		var runs []int
		for event := range seq {
			runs = append(runs, event.Runs)
		}
		if len(runs) != 3 || runs[0] != 0 || runs[2] != 2 {
			t.Fatalf("pass %d yielded %v", pass, runs)
		}
	}
}

func TestLedgerSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	ledger := matchevent.NewLedger(nil)
	ledger.Append(matchevent.Event{MatchID: "m1", Type: matchevent.TypeGoal})

	snapshot := ledger.Snapshot()
	snapshot[0].MatchID = "mutated"

	for event := range ledger.All() {
		if event.MatchID != "m1" {
			t.Fatalf("snapshot mutation reached the ledger: %q", event.MatchID)
		}
	}
}

func TestDismissalAndExtraHelpers(t *testing.T) {
	t.Parallel()

	if got := matchevent.NormalizeDismissal(" caught "); got != matchevent.DismissalCaught {
		t.Fatalf("normalize = %q", got)
	}
	if matchevent.IsValidDismissal("HIT_WICKET") {
		t.Fatalf("unknown dismissal accepted")
	}
	if !matchevent.CountsBall(matchevent.ExtraBye) || !matchevent.CountsBall(matchevent.ExtraLegBye) {
		t.Fatalf("byes must count a ball")
	}
	if matchevent.CountsBall(matchevent.ExtraWide) || matchevent.CountsBall(matchevent.ExtraNoBall) {
		t.Fatalf("wides and no-balls must not count a ball")
	}
	if !matchevent.ConcedesRuns(matchevent.ExtraWide) || matchevent.ConcedesRuns(matchevent.ExtraBye) {
		t.Fatalf("bowler charging rules inverted")
	}
}
