package dedup

import "github.com/jfjlaros/dedup/fingerprint"

// FingerprintSource is the external collaborator that feeds the trie: a
// finite, ordered sequence of (record_id, fingerprint, filtered) triples.
// It follows the bufio.Scanner idiom — call Next until ok is false, then
// check Err for anything that went wrong along the way — so the same
// collaborator can report non-fatal warnings (a desynchronised input
// stream, say) without aborting the insertion pass early.
type FingerprintSource interface {
	Next() (id int, fp fingerprint.Fingerprint, filtered bool, ok bool)
	Err() error
}

// BuildIndex consumes source once, inserting every non-filtered
// fingerprint into a new trie of the given length and sigma. It returns
// the populated trie, the total number of records seen, and the number
// actually inserted. A filtered record is counted in total but never
// reaches the trie.
func BuildIndex(source FingerprintSource, length, sigma int) (t *Trie, total, inserted int, err error) {
	t, err = NewTrie(length, sigma)
	if err != nil {
		return nil, 0, 0, err
	}

	for {
		id, fp, filtered, ok := source.Next()
		if !ok {
			break
		}
		total++
		if filtered {
			continue
		}

		leaf, addErr := t.Add(fp)
		if addErr != nil {
			return t, total, inserted, addErr
		}
		leaf.lines = append(leaf.lines, id)
		inserted++
	}

	if srcErr := source.Err(); srcErr != nil {
		return t, total, inserted, srcErr
	}
	return t, total, inserted, nil
}
