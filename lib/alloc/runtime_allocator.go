package alloc

// RuntimeAllocator delegates every request to the Go runtime. It is the
// default capability of the containers and the substitutability baseline
// for any pooling implementation.
type RuntimeAllocator[T any] struct{}

func NewRuntimeAllocator[T any]() *RuntimeAllocator[T] {
	return &RuntimeAllocator[T]{}
}

func (ra *RuntimeAllocator[T]) Allocate() (*T, error) {
	return new(T), nil
}

func (ra *RuntimeAllocator[T]) AllocateN(n int) ([]T, error) {
	if n < 0 {
		return nil, ErrAllocNegativeSize
	}
	if n == 0 {
		return nil, nil
	}
	if n > ra.MaxSize() {
		return nil, ErrAllocSizeOverflow
	}
	return make([]T, n), nil
}

func (ra *RuntimeAllocator[T]) Deallocate(p *T) {
	// The runtime reclaims it.
}

func (ra *RuntimeAllocator[T]) DeallocateN(block []T) {
}

func (ra *RuntimeAllocator[T]) Construct(p *T, v T) {
	*p = v
}

func (ra *RuntimeAllocator[T]) Destroy(p *T) {
	var zero T
	*p = zero
}

func (ra *RuntimeAllocator[T]) MaxSize() int {
	return maxSizeOf[T]()
}

// Derive returns the receiver itself; the runtime allocator is stateless.
func (ra *RuntimeAllocator[T]) Derive() Allocator[T] {
	return ra
}
