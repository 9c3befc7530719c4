// Package dedup implements the in-memory index and clustering engine for
// UMI-tagged paired-end read deduplication: a fixed-alphabet trie of read
// fingerprints, a Hamming-radius neighbour graph over its leaves, and two
// policies (adjacency, directional) for partitioning that graph into
// clusters.
package dedup

import (
	"fmt"
	"iter"

	"github.com/jfjlaros/dedup/fingerprint"
)

// Trie is a rooted sigma-ary tree keyed by fixed-length fingerprints. Every
// inserted fingerprint terminates at a unique node at depth Length, which
// carries exactly one Leaf; internal nodes carry none. The trie owns every
// node and leaf it creates.
type Trie struct {
	root    *node
	length  int
	sigma   int
	nextSeq int
	size    int
}

// NewTrie returns an empty trie for fingerprints of the given length over
// an alphabet of size sigma. It returns ErrInvalidConfiguration if length
// is not positive or sigma is less than 2.
func NewTrie(length, sigma int) (*Trie, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidConfiguration, length)
	}
	if sigma <= 1 {
		return nil, fmt.Errorf("%w: sigma must be at least 2, got %d", ErrInvalidConfiguration, sigma)
	}
	return &Trie{root: new(node), length: length, sigma: sigma}, nil
}

// Len returns the number of distinct leaves (equivalence classes) stored.
func (t *Trie) Len() int { return t.size }

// Length returns the fixed fingerprint length L this trie was built for.
func (t *Trie) Length() int { return t.length }

// Sigma returns the alphabet size sigma this trie was built for.
func (t *Trie) Sigma() int { return t.sigma }

func (t *Trie) validate(fp fingerprint.Fingerprint) error {
	if len(fp) != t.length {
		return fmt.Errorf("%w: got length %d, want %d", ErrFingerprintLength, len(fp), t.length)
	}
	for i, s := range fp {
		if int(s) >= t.sigma {
			return fmt.Errorf("%w: symbol %d at position %d, sigma is %d", ErrSymbolOutOfRange, s, i, t.sigma)
		}
	}
	return nil
}

// Add descends from the root, creating missing nodes, and returns the leaf
// at depth Length: a fresh leaf with Count()==1 if this is the first
// fingerprint to reach that node, or the existing leaf with Count()
// incremented otherwise. Add cannot fail except on configuration mismatch
// (wrong length or out-of-range symbol).
func (t *Trie) Add(fp fingerprint.Fingerprint) (*Leaf, error) {
	if err := t.validate(fp); err != nil {
		return nil, err
	}

	n := t.root
	for _, s := range fp {
		n = n.child(t.sigma, s)
	}

	if n.leaf == nil {
		n.leaf = &Leaf{seq: t.nextSeq}
		t.nextSeq++
		t.size++
	}
	n.leaf.count++
	return n.leaf, nil
}

// Find is a pure lookup: it returns the leaf for fp and true, or nil and
// false if fp was never added (a missing prefix child, or a terminal node
// with no leaf).
func (t *Trie) Find(fp fingerprint.Fingerprint) (*Leaf, bool) {
	if len(fp) != t.length {
		return nil, false
	}

	n := t.root
	for _, s := range fp {
		if int(s) >= t.sigma {
			return nil, false
		}
		n = n.childAt(s)
		if n == nil {
			return nil, false
		}
	}
	return n.leaf, n.leaf != nil
}

// Walk yields every leaf exactly once, in canonical order: depth-first,
// children visited in symbol order 0..sigma-1. The sequence is finite and
// restartable — ranging over it twice yields the same order both times,
// since it is unaffected by anything except the trie's own mutations.
func (t *Trie) Walk() iter.Seq2[fingerprint.Fingerprint, *Leaf] {
	return func(yield func(fingerprint.Fingerprint, *Leaf) bool) {
		path := make(fingerprint.Fingerprint, t.length)
		var walk func(n *node, depth int) bool
		walk = func(n *node, depth int) bool {
			if n == nil {
				return true
			}
			if depth == t.length {
				if n.leaf == nil {
					return true
				}
				return yield(append(fingerprint.Fingerprint(nil), path...), n.leaf)
			}
			for s := 0; s < t.sigma; s++ {
				c := n.childAt(fingerprint.Symbol(s))
				if c == nil {
					continue
				}
				path[depth] = fingerprint.Symbol(s)
				if !walk(c, depth+1) {
					return false
				}
			}
			return true
		}
		walk(t.root, 0)
	}
}

// Hamming yields every leaf whose fingerprint has Hamming distance <= d
// from path, including the leaf at path itself. Order is unspecified but
// deterministic across repeated calls on an unchanged trie. d > Length is
// treated as d == Length.
//
// The descent tracks a mismatch budget initialised to d: at depth k it
// recurses into the child for symbol path[k] without spending budget, and
// into every other present child while spending one unit of budget,
// pruning subtrees once the budget is exhausted. This bounds the work to
// roughly sum_{i<=d} C(L,i)*(sigma-1)^i rather than sigma^L.
func (t *Trie) Hamming(path fingerprint.Fingerprint, d int) iter.Seq2[fingerprint.Fingerprint, *Leaf] {
	if d > t.length {
		d = t.length
	}
	if d < 0 {
		d = 0
	}

	return func(yield func(fingerprint.Fingerprint, *Leaf) bool) {
		if len(path) != t.length {
			return
		}
		out := make(fingerprint.Fingerprint, t.length)
		var descend func(n *node, depth, budget int) bool
		descend = func(n *node, depth, budget int) bool {
			if n == nil {
				return true
			}
			if depth == t.length {
				if n.leaf == nil {
					return true
				}
				return yield(append(fingerprint.Fingerprint(nil), out...), n.leaf)
			}
			want := path[depth]
			for s := 0; s < t.sigma; s++ {
				sym := fingerprint.Symbol(s)
				nextBudget := budget
				if sym != want {
					if budget <= 0 {
						continue
					}
					nextBudget = budget - 1
				}
				c := n.childAt(sym)
				if c == nil {
					continue
				}
				out[depth] = sym
				if !descend(c, depth+1, nextBudget) {
					return false
				}
			}
			return true
		}
		descend(t.root, 0, d)
	}
}
