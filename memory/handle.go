package memory

import "fmt"

// Handle identifies a sub-range of one of the Allocator's blocks. It is the only thing
// handed out by the Allocator; the native memory behind it is reached through Allocator.Resolve.
//
// The zero Handle is the null handle. A Handle is tied to the generation of the block slot it
// was issued from, so once the block is freed (and possibly reused) the Handle is stale and
// every Allocator call made with it fails with ErrAllocation.
type Handle struct {
	index      int
	generation uint32
	offset     int
	size       int
}

// Index is the block index inside the Allocator
func (h Handle) Index() int { return h.index }

// Offset is the byte offset of the sub-range within its block
func (h Handle) Offset() int { return h.offset }

// Size is the number of bytes requested for this sub-range
func (h Handle) Size() int { return h.size }

func (h Handle) IsNull() bool { return h.generation == 0 }

func (h Handle) String() string {
	if h.IsNull() {
		return "Handle{null}"
	}
	return fmt.Sprintf("Handle{block: %d, gen: %d, offset: %d, size: %d}", h.index, h.generation, h.offset, h.size)
}
