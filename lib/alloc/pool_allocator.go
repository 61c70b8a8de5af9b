package alloc

import "unsafe"

// DefaultPoolChunkSize is the number of slots a pool reserves per chunk
// when no explicit size is configured.
const DefaultPoolChunkSize = 1024

// PoolAllocator carves fixed-size chunks out of the heap in batches and
// hands single objects out of a LIFO free list built over the chunk slots.
// Bulk requests bypass the pool and go straight to the runtime.
//
// Worth it for node-based containers that churn through a large number of
// equally sized allocations; the pool trades memory footprint for
// allocation throughput. Chunks are only released as a whole, together
// with the allocator itself.
type PoolAllocator[T any] struct {
	freeList  []*T
	chunks    [][]T
	chunkSize int
}

type PoolAllocatorOpt func(size *int)

func WithPoolAllocChunkSize(size int) PoolAllocatorOpt {
	return func(chunkSize *int) {
		if size > 0 {
			*chunkSize = size
		}
	}
}

func NewPoolAllocator[T any](opts ...PoolAllocatorOpt) *PoolAllocator[T] {
	chunkSize := DefaultPoolChunkSize
	for _, o := range opts {
		o(&chunkSize)
	}
	return &PoolAllocator[T]{
		chunkSize: chunkSize,
	}
}

// RebindPool derives a pool for another element type, keeping the chunk
// size. The new pool starts with an empty free list; pools of this family
// never share state and are never interchangeable.
func RebindPool[U, T any](src *PoolAllocator[T]) *PoolAllocator[U] {
	return NewPoolAllocator[U](WithPoolAllocChunkSize(src.chunkSize))
}

func (pool *PoolAllocator[T]) Allocate() (*T, error) {
	if len(pool.freeList) == 0 {
		pool.allocateNewChunk()
	}
	p := pool.freeList[len(pool.freeList)-1]
	pool.freeList = pool.freeList[:len(pool.freeList)-1]
	return p, nil
}

func (pool *PoolAllocator[T]) AllocateN(n int) ([]T, error) {
	if n < 0 {
		return nil, ErrAllocNegativeSize
	}
	if n == 0 {
		return nil, nil
	}
	if n > pool.MaxSize() {
		return nil, ErrAllocSizeOverflow
	}
	if n == 1 {
		p, _ := pool.Allocate()
		return unsafe.Slice(p, 1), nil
	}
	// Rare path for node-based containers.
	return make([]T, n), nil
}

func (pool *PoolAllocator[T]) Deallocate(p *T) {
	if p == nil {
		return
	}
	pool.freeList = append(pool.freeList, p)
}

func (pool *PoolAllocator[T]) DeallocateN(block []T) {
	if len(block) == 1 {
		pool.Deallocate(&block[0])
	}
	// Bulk blocks came from the runtime and go back to it.
}

func (pool *PoolAllocator[T]) Construct(p *T, v T) {
	*p = v
}

// Destroy zeroes the slot so it no longer pins whatever the payload was
// referencing while the slot sits on the free list.
func (pool *PoolAllocator[T]) Destroy(p *T) {
	var zero T
	*p = zero
}

func (pool *PoolAllocator[T]) MaxSize() int {
	return maxSizeOf[T]()
}

func (pool *PoolAllocator[T]) Derive() Allocator[T] {
	return NewPoolAllocator[T](WithPoolAllocChunkSize(pool.chunkSize))
}

func (pool *PoolAllocator[T]) ChunkSize() int {
	return pool.chunkSize
}

func (pool *PoolAllocator[T]) Chunks() int {
	return len(pool.chunks)
}

func (pool *PoolAllocator[T]) FreeSlots() int {
	return len(pool.freeList)
}

func (pool *PoolAllocator[T]) allocateNewChunk() {
	chunk := make([]T, pool.chunkSize)
	pool.chunks = append(pool.chunks, chunk)
	for i := 0; i < pool.chunkSize; i++ {
		pool.freeList = append(pool.freeList, &chunk[i])
	}
}

func maxSizeOf[T any]() int {
	maxInt := int(^uint(0) >> 1)
	size := int(unsafe.Sizeof(*new(T)))
	if size == 0 {
		return maxInt
	}
	return maxInt / size
}
