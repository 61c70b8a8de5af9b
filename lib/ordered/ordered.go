// Package ordered provides the ordered-container façades Map, Set and
// MultiSet. Each façade owns exactly one red-black tree engine instance
// (lib/tree) and translates its public surface into engine calls; the
// engine never calls back. Uniqueness is decided here: Map and Set always
// insert with unique keys, MultiSet never does.
//
// None of the containers is safe for concurrent use; callers serialize
// access themselves.
package ordered

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrKeyNotFound = errors.New("[x-ordered] key not found")
)

// Pair is the payload of Map: the extracted key plus the mapped value.
type Pair[K infra.OrderedKey, V any] struct {
	Key K
	Val V
}

// KV is shorthand for building a Pair literal at call sites.
func KV[K infra.OrderedKey, V any](key K, val V) Pair[K, V] {
	return Pair[K, V]{Key: key, Val: val}
}

// PairKeyOfValue extracts the first element of a Pair, the map flavor of
// the key-extraction policy.
func PairKeyOfValue[K infra.OrderedKey, V any]() infra.KeyOfValue[K, Pair[K, V]] {
	return func(p Pair[K, V]) K { return p.Key }
}
