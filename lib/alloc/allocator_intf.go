package alloc

import "errors"

var (
	ErrAllocSizeOverflow = errors.New("[x-alloc] requested element count overflows the allocator limit")
	ErrAllocNegativeSize = errors.New("[x-alloc] negative element count")
)

// Allocator is the storage capability consumed by the node-based containers.
// It is the Go shape of the classic allocate(n)/deallocate(p,n)/construct/
// destroy/max_size contract, with the single-object and bulk granularities
// split at the type level instead of being switched on n.
//
// Any conforming implementation must be substitutable for any other; the
// containers never assume a pooling policy behind it.
type Allocator[T any] interface {
	// Allocate reserves storage for exactly one T. Pooling implementations
	// serve it from their free list.
	Allocate() (*T, error)
	// AllocateN reserves storage for n objects. n == 0 yields a nil block.
	// An n beyond MaxSize reports ErrAllocSizeOverflow.
	AllocateN(n int) ([]T, error)
	// Deallocate returns a single object obtained from Allocate.
	Deallocate(p *T)
	// DeallocateN returns a block obtained from AllocateN.
	DeallocateN(block []T)
	// Construct writes v into already reserved storage.
	Construct(p *T, v T)
	// Destroy clears the object without releasing its storage, so that a
	// pooled slot stops referencing the payload it used to hold.
	Destroy(p *T)
	// MaxSize reports the element-count ceiling of a single request.
	MaxSize() int
	// Derive builds a fresh allocator of the same configuration. Derived
	// allocators never share state with their origin.
	Derive() Allocator[T]
}
