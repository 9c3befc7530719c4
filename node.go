package dedup

import "github.com/jfjlaros/dedup/fingerprint"

// node is one level of the sigma-ary trie. Unlike a variable-depth,
// path-compressed node built for a sparse, wide branching factor, every
// inserted fingerprint here runs all the way to depth L, so nodes need no
// path compression and no popcount-compressed child storage: a plain
// sigma-wide slice is dense enough in practice, since sigma is small (4
// for nucleotides) by construction.
type node struct {
	children []*node // lazily allocated, len == sigma once used
	leaf     *Leaf   // set only at depth L
}

// child returns the child at symbol s, creating it and the children slice
// on first use.
func (n *node) child(sigma int, s fingerprint.Symbol) *node {
	if n.children == nil {
		n.children = make([]*node, sigma)
	}
	c := n.children[s]
	if c == nil {
		c = new(node)
		n.children[s] = c
	}
	return c
}

// childAt returns the child at symbol s without creating it.
func (n *node) childAt(s fingerprint.Symbol) *node {
	if n.children == nil {
		return nil
	}
	return n.children[s]
}
