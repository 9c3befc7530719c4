// Package config validates the engine's three recognised options before
// any trie work starts: L (fingerprint length), D (Hamming distance), and
// Policy (adjacency or directional), plus an optional alphabet size Sigma.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jfjlaros/dedup"
	"github.com/jfjlaros/dedup/fingerprint"
)

// Config holds the engine's recognised options.
type Config struct {
	// L is the fixed fingerprint length. Must be positive.
	L int `validate:"gt=0"`
	// D is the maximum Hamming distance for neighbour edges. Must be
	// non-negative and no greater than L.
	D int `validate:"gte=0,ltefield=L"`
	// Sigma is the alphabet size. Defaults to fingerprint.DefaultSigma
	// (4) when zero.
	Sigma int `validate:"gte=0"`
	// Policy selects the clustering algorithm.
	Policy dedup.Policy `validate:"oneof=adjacency directional"`
}

var validate = validator.New()

// Validate checks c against the invalid-configuration conditions (L<=0,
// D<0, D>L, or an unrecognised policy), returning a wrapped
// dedup.ErrInvalidConfiguration on failure.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", dedup.ErrInvalidConfiguration, err)
	}
	return nil
}

// EffectiveSigma returns c.Sigma, defaulting to fingerprint.DefaultSigma
// when c.Sigma is zero.
func (c Config) EffectiveSigma() int {
	if c.Sigma == 0 {
		return fingerprint.DefaultSigma
	}
	return c.Sigma
}

// NewTrie validates c and builds an empty trie sized for it.
func (c Config) NewTrie() (*dedup.Trie, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return dedup.NewTrie(c.L, c.EffectiveSigma())
}
