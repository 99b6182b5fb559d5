package pagebreak

import "testing"

func uniform(n int, h float64) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Height: h}
	}
	return items
}

func TestDecidePlaceWhenEverythingFits(t *testing.T) {
	r := Decide(uniform(3, 10), 100, 800, 2, 2)
	if r.Decision != Place {
		t.Fatalf("expected Place, got %v", r.Decision)
	}
}

func TestDecideWidowOrphanExampleFromSpec(t *testing.T) {
	// §8 scenario 5: 6 lines, minWidow=2, minOrphan=2, remaining fits
	// exactly 5 lines -> split must be 4/2, not 5/1.
	items := uniform(6, 10)
	r := Decide(items, 50, 800, 2, 2)
	if r.Decision != Split {
		t.Fatalf("expected Split, got %v", r.Decision)
	}
	if r.K != 4 {
		t.Fatalf("expected split at 4, got %d", r.K)
	}
}

func TestDecideAtomicBlockBelowMinimaMovesWhole(t *testing.T) {
	// n=3 < minOrphan+minWidow=4: must be atomic.
	items := uniform(3, 10)
	r := Decide(items, 15, 800, 2, 2)
	if r.Decision != MoveToNextPage {
		t.Fatalf("expected MoveToNextPage for atomic block, got %v", r.Decision)
	}
}

func TestDecideMovesWhenOrphanWouldResult(t *testing.T) {
	// Only 1 line fits (< minOrphan=2); whole block fits on a fresh page.
	items := uniform(5, 10)
	r := Decide(items, 15, 800, 2, 2)
	if r.Decision != MoveToNextPage {
		t.Fatalf("expected MoveToNextPage, got %v", r.Decision)
	}
}
