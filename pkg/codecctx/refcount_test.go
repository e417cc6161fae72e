package codecctx

import "testing"

func TestTrackAllocFreeBalances(t *testing.T) {
	const kind = "test_resource"
	before := LiveCounts()[kind]

	TrackAlloc(kind)
	TrackAlloc(kind)
	TrackFree(kind)

	if got, want := LiveCounts()[kind], before+1; got != want {
		t.Fatalf("LiveCounts[%s] = %d, want %d", kind, got, want)
	}

	TrackFree(kind)
	if got, want := LiveCounts()[kind], before; got != want {
		t.Fatalf("LiveCounts[%s] = %d, want %d after balancing free", kind, got, want)
	}
}

func TestLiveTotalSumsAllKinds(t *testing.T) {
	before := LiveTotal()
	TrackAlloc("kind_a")
	TrackAlloc("kind_b")
	if got, want := LiveTotal(), before+2; got != want {
		t.Fatalf("LiveTotal() = %d, want %d", got, want)
	}
	TrackFree("kind_a")
	TrackFree("kind_b")
}
