package dedup

import (
	"fmt"
	"io"
)

// Fprint writes a human-readable summary of the trie to w: one line per
// leaf, in canonical walk order, showing its fingerprint, count, and
// cluster id once clustering has run. Useful during development and
// debugging, the same role bart's dump/dumpString play for its routing
// tables.
func (t *Trie) Fprint(w io.Writer) {
	fmt.Fprintf(w, "trie: length=%d sigma=%d leaves=%d\n", t.length, t.sigma, t.size)
	for path, leaf := range t.Walk() {
		clusterID := "-"
		if leaf.cluster != nil {
			clusterID = fmt.Sprintf("%d", leaf.cluster.ID)
		}
		fmt.Fprintf(w, "  %s count=%d neighbours=%d cluster=%s\n",
			path, leaf.count, len(leaf.neighbours), clusterID)
	}
}
