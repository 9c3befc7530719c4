package dedup

import (
	"fmt"

	"github.com/jfjlaros/dedup/internal/workstack"
)

// Cluster is a partition class of leaves, built by Adjacency or
// Directional. Clusters are owned by the caller as a flat slice; a leaf's
// Cluster() back-reference is non-owning.
type Cluster struct {
	// ID is assigned in cluster-creation order, starting at 0, and forms a
	// contiguous range [0, N) over the returned slice.
	ID int
	// Size is the sum of Count() over every member leaf.
	Size int
	// MaxLeaf is the representative member: the one with the highest
	// Count() under the adjacency policy, or the local-maximum peak under
	// the directional policy (see Directional's doc comment).
	MaxLeaf *Leaf
	// MaxCount equals MaxLeaf.Count().
	MaxCount int
}

// Policy selects a clustering algorithm for Cluster.
type Policy string

const (
	// PolicyAdjacency clusters leaves into the connected components of the
	// neighbour graph.
	PolicyAdjacency Policy = "adjacency"
	// PolicyDirectional clusters leaves using a local-maximum walk and a
	// monotone-decreasing-count descent, modelling PCR amplification bias.
	PolicyDirectional Policy = "directional"
)

// Cluster partitions every leaf of t into clusters under the given policy.
// BuildNeighbours must have already been run on t with the intended
// Hamming distance; Cluster only reads neighbour lists, it does not build
// them. Returns ErrInvalidConfiguration for an unrecognised policy.
func Cluster(t *Trie, policy Policy) ([]*Cluster, error) {
	switch policy {
	case PolicyAdjacency:
		return adjacency(t), nil
	case PolicyDirectional:
		return directional(t), nil
	default:
		return nil, fmt.Errorf("%w: unrecognised policy %q", ErrInvalidConfiguration, policy)
	}
}

// atLeastDouble reports whether a is at least twice b, i.e. whether a
// neighbour with count a should be treated as the true sequence of a leaf
// with count b (b is a PCR-amplification error of a). The "-1" makes this
// true for any a>=1 when b==0, so a zero-count neighbour — if one ever
// existed — can never block the local-maximum walk. This exact predicate
// is load-bearing; do not simplify it to a >= 2*b.
func atLeastDouble(a, b int) bool {
	return a > 2*b-1
}

// atMostHalf is the inverse of atLeastDouble: whether b is the true
// sequence and a a PCR error of b.
func atMostHalf(a, b int) bool {
	return atLeastDouble(b, a)
}

// adjacency implements the adjacency ("maximum") policy: a flood fill over
// the neighbour graph, one cluster per connected component. Recursion is
// replaced by an explicit LIFO stack — the number of leaves in a
// component can exceed any safe native call-stack depth.
func adjacency(t *Trie) []*Cluster {
	var clusters []*Cluster
	nextID := 0

	for _, seed := range t.Walk() {
		if seed.cluster != nil {
			continue
		}

		c := &Cluster{ID: nextID}
		nextID++
		clusters = append(clusters, c)

		stack := workstack.New(seed)
		for {
			leaf, ok := stack.Pop()
			if !ok {
				break
			}
			if leaf.cluster != nil {
				// Pushed more than once via two different neighbours.
				continue
			}

			leaf.cluster = c
			c.Size += leaf.count
			if leaf.count > c.MaxCount {
				c.MaxLeaf = leaf
				c.MaxCount = leaf.count
			}

			for i := len(leaf.neighbours) - 1; i >= 0; i-- {
				n := leaf.neighbours[i]
				if n.cluster == nil {
					stack.Push(n)
				}
			}
		}
	}

	return clusters
}

// directional implements the directional policy: from each unclustered
// seed, walk to a local-maximum "peak" (the neighbour that is at least
// double the current leaf's count, repeated until no such neighbour
// remains), then assign the peak and every reachable leaf whose count is
// at most half its parent's into one cluster.
//
// localMaximum never steps onto an already-clustered leaf, so in practice
// a seed's peak is always unclustered at this point: assignDirectionalChain
// always explores the full qualifying subtree in one pass, and the
// doubling/halving predicates are exact mirrors of one another, so any
// leaf reachable from a peak by climbing is already reachable from that
// peak by descent. The peak.cluster != nil branch below is kept as a
// defensive fallback — merge into the existing cluster rather than mint a
// second one or overwrite the peak's cluster pointer — for the case where
// a future change to either predicate breaks that invariant.
func directional(t *Trie) []*Cluster {
	var clusters []*Cluster
	nextID := 0

	for _, seed := range t.Walk() {
		if seed.cluster != nil {
			continue
		}

		peak := localMaximum(seed)

		var c *Cluster
		assignPeak := true
		if peak.cluster != nil {
			c = peak.cluster
			assignPeak = false
		} else {
			c = &Cluster{ID: nextID, MaxLeaf: peak, MaxCount: peak.count}
			nextID++
			clusters = append(clusters, c)
		}

		assignDirectionalChain(c, peak, assignPeak)
	}

	return clusters
}

// localMaximum repeatedly scans leaf.neighbours in order; on finding an
// unclustered neighbour with atLeastDouble(neighbour.count, leaf.count) it
// jumps there and restarts the scan. It terminates, and returns the final
// leaf, once a full scan finds no qualifying neighbour.
func localMaximum(leaf *Leaf) *Leaf {
	for i := 0; i < len(leaf.neighbours); {
		n := leaf.neighbours[i]
		i++
		if n.cluster == nil && atLeastDouble(n.count, leaf.count) {
			leaf = n
			i = 0
		}
	}
	return leaf
}

// directionalItem pairs a leaf with whether the stack-based descent still
// needs to assign it (false only for an already-clustered merge peak).
type directionalItem struct {
	leaf   *Leaf
	assign bool
}

// assignDirectionalChain assigns start (if assign) and every reachable,
// unclustered leaf satisfying atMostHalf of its parent's count, into c.
// Iterative via an explicit stack for the same reason as adjacency.
func assignDirectionalChain(c *Cluster, start *Leaf, assign bool) {
	stack := workstack.New(directionalItem{start, assign})
	for {
		it, ok := stack.Pop()
		if !ok {
			break
		}

		leaf := it.leaf
		if it.assign {
			if leaf.cluster != nil {
				// Reached via two different parents before either pop
				// assigned it; the first pop already explored onward.
				continue
			}
			leaf.cluster = c
			c.Size += leaf.count
		}

		for i := len(leaf.neighbours) - 1; i >= 0; i-- {
			n := leaf.neighbours[i]
			if n.cluster == nil && atMostHalf(n.count, leaf.count) {
				stack.Push(directionalItem{n, true})
			}
		}
	}
}
