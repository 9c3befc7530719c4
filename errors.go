package dedup

import "errors"

// Sentinel errors for the engine's three fatal conditions. Wrap these with
// fmt.Errorf("...: %w", ErrX) for call-site detail; callers can still
// match with errors.Is.
var (
	// ErrInvalidConfiguration is returned before any work starts when L<=0,
	// D<0, D>L, or the clustering policy is unrecognised.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrFingerprintLength is returned when a fingerprint from the source
	// is not exactly length L. The trie is left in a well-defined partial
	// state: everything inserted before the offending fingerprint stands.
	ErrFingerprintLength = errors.New("fingerprint length mismatch")

	// ErrSymbolOutOfRange is returned when a fingerprint symbol is >= sigma.
	ErrSymbolOutOfRange = errors.New("symbol out of range")
)
