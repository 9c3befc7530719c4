package dedup

import (
	"strings"
	"testing"
)

// TestPipelineEndToEnd exercises the full BuildIndex -> BuildNeighbours ->
// Cluster -> Histogram flow against a small fake source, the same
// combination cmd/dedup's driver runs in sequence.
func TestPipelineEndToEnd(t *testing.T) {
	src := &fakeSource{records: []fakeRecord{
		{fp(0, 0), false},
		{fp(0, 0), false}, // duplicate, same leaf as above
		{fp(0, 1), false}, // distance 1 from the above
		{fp(3, 3), false}, // far from everything
	}}

	trie, total, inserted, err := BuildIndex(src, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || inserted != 4 {
		t.Fatalf("total/inserted = %d/%d, want 4/4", total, inserted)
	}

	BuildNeighbours(trie, 1)

	clusters, err := Cluster(trie, PolicyAdjacency)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2 (one for {0,0}/{0,1}, one for {3,3})", len(clusters))
	}

	hist := Histogram(clusters)
	if hist[3] != 1 || hist[1] != 1 {
		t.Errorf("Histogram() = %v, want size-3 and size-1 clusters, one each", hist)
	}

	var buf strings.Builder
	trie.Fprint(&buf)
	dump := buf.String()
	if !strings.Contains(dump, "leaves=3") {
		t.Errorf("Fprint output missing leaf count: %s", dump)
	}
	if !strings.Contains(dump, "count=2") {
		t.Errorf("Fprint output missing the duplicated leaf's count: %s", dump)
	}
	if strings.Count(dump, "cluster=-") != 0 {
		t.Errorf("every leaf should have a cluster assigned after Cluster runs: %s", dump)
	}
}
