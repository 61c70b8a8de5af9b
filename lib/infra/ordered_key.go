package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
// If future releases of Go add new predeclared unsigned integer types,
// this constraint will be modified to include them.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
// If future releases of Go add new predeclared integer types,
// this constraint will be modified to include them.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// If future releases of Go add new predeclared floating-point types,
// this constraint will be modified to include them.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (i-j == 0, return 0)
//  2. i > j (i-j > 0, return 1), turn to right part.
//  3. i < j (i-j < 0, return -1), turn to left part.
type OrderedKeyComparator[K OrderedKey] func(i, j K) int64

// NaturalOrderComparator builds the default ascending comparator for any
// OrderedKey instantiation.
func NaturalOrderComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// KeyOfValue is the key-extraction policy. A container engine stores opaque
// payloads of type V and consults the policy for ordering decisions only.
type KeyOfValue[K OrderedKey, V any] func(v V) K

// IdentityKeyOfValue is the policy for containers whose payload is the key
// itself (set, multiset).
func IdentityKeyOfValue[K OrderedKey]() KeyOfValue[K, K] {
	return func(v K) K { return v }
}
