package dedup

// BuildNeighbours populates every leaf's neighbour list with the leaves
// within Hamming distance d, mutating the trie in place. It must run after
// every fingerprint has been added and before Cluster.
//
// For each (path, u) yielded by Walk, every (_, v) yielded by Hamming(path,
// d) with v != u is a candidate edge. Each unordered pair {u, v} surfaces
// twice this way (once from u's walk, once from v's), so the pair is only
// recorded once, keyed on the leaves' insertion order (seq) rather than a
// hash set: u only appends v (and v, symmetrically, u) when v.seq > u.seq,
// i.e. during the walk turn of whichever leaf of the pair has the lower
// seq, whether that turn comes first or second in walk order.
func BuildNeighbours(t *Trie, d int) {
	for path, u := range t.Walk() {
		for _, v := range t.Hamming(path, d) {
			if v == u || v.seq <= u.seq {
				continue
			}
			u.addNeighbour(v)
			v.addNeighbour(u)
		}
	}
}
