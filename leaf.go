package dedup

// Leaf is the per-fingerprint record the trie creates the first time a
// fingerprint is added: one equivalence class of identical fingerprints.
// The trie owns the leaf; it is destroyed with the trie. count and lines
// are frozen after the insertion pass, neighbours after the neighbour
// pass, and cluster is set exactly once during clustering.
type Leaf struct {
	seq        int      // stable creation order, used to dedup neighbour pairs
	count      int
	lines      []int
	neighbours []*Leaf
	cluster    *Cluster
}

// Count returns the number of insertions that landed on this leaf.
func (l *Leaf) Count() int { return l.count }

// Lines returns the record identifiers that produced this leaf's
// fingerprint, in insertion order. len(Lines()) == Count().
func (l *Leaf) Lines() []int { return l.lines }

// Neighbours returns the leaves within the configured Hamming distance of
// this leaf, excluding itself. Populated by BuildNeighbours; nil before.
func (l *Leaf) Neighbours() []*Leaf { return l.neighbours }

// Cluster returns the cluster this leaf was assigned to, or nil before
// clustering has run.
func (l *Leaf) Cluster() *Cluster { return l.cluster }

// addNeighbour appends other to l's neighbour list. Callers are
// responsible for the symmetric append and for not introducing duplicates
// or self-edges; see BuildNeighbours.
func (l *Leaf) addNeighbour(other *Leaf) {
	l.neighbours = append(l.neighbours, other)
}
