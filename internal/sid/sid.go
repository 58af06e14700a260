// Package sid computes stable fingerprints used to give ColloML's
// value-sets (lists, reified-variable argument tuples, flattened unions) a
// canonical, deterministic order that does not depend on insertion order.
package sid

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint is a stable digest of a canonical string representation.
type Fingerprint string

// Of hashes the canonical string form of one element. Callers pass a
// deterministic rendering (e.g. a value's String() method) so that equal
// elements always fingerprint equal regardless of where they appear.
func Of(canonical string) Fingerprint {
	sum := sha256.Sum256([]byte(canonical))
	return Fingerprint(hex.EncodeToString(sum[:])[:16])
}

// OfParts hashes several canonical parts joined by a separator byte that
// cannot appear in any part's own rendering, so e.g. OfParts("ab", "c")
// cannot collide with OfParts("a", "bc").
func OfParts(parts ...string) Fingerprint {
	return Of(strings.Join(parts, "\x1f"))
}

// Less orders two elements by fingerprint, giving list/union canonicalisation
// a total order that is independent of insertion order and stable across
// runs (unlike map iteration or a pointer/identity ordering).
func Less(aCanonical, bCanonical string) bool {
	return Of(aCanonical) < Of(bCanonical)
}

// SortByCanonical sorts items in place by the fingerprint of their canonical
// string form, breaking ties (distinct strings, rare fingerprint collision)
// by the canonical string itself so the order is always total.
func SortByCanonical(items []string) {
	sort.Slice(items, func(i, j int) bool {
		fi, fj := Of(items[i]), Of(items[j])
		if fi != fj {
			return fi < fj
		}
		return items[i] < items[j]
	})
}
