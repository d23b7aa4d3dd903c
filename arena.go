package jvstgo

// Arena is a chunked bump allocator for one IR node type, the idiomatic
// Go substitute spec.md §4.6/§9 calls for in place of original_source's
// hand-rolled chunk-pool-plus-freelist (`ir_stmt_alloc`'s `struct
// jvst_ir_stmt_pool`): no manual free, node addresses stable for the
// arena's lifetime, and bulk release by simply dropping the arena.
type Arena[T any] struct {
	chunks [][]T
}

// arenaChunkSize matches spec.md §4.6's "~1024 items/chunk" guidance.
const arenaChunkSize = 1024

// New returns a pointer to a freshly zero-valued T, allocated from the
// current chunk (starting a new one when full). The returned pointer is
// stable: chunks are never reallocated or moved once created.
func (a *Arena[T]) New() *T {
	if len(a.chunks) == 0 || len(a.chunks[len(a.chunks)-1]) == cap(a.chunks[len(a.chunks)-1]) {
		a.chunks = append(a.chunks, make([]T, 0, arenaChunkSize))
	}
	cur := &a.chunks[len(a.chunks)-1]
	*cur = (*cur)[:len(*cur)+1]
	return &(*cur)[len(*cur)-1]
}

// Len returns the total number of values allocated from a.
func (a *Arena[T]) Len() int {
	n := 0
	for _, c := range a.chunks {
		n += len(c)
	}
	return n
}
