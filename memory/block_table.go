package memory

import (
	"github.com/cockroachdb/errors"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// blockTable is the arena of memory blocks. Block indices are stable for the lifetime of
// the table, and freed indices are handed out again lowest-first.
type blockTable struct {
	blocks      []*memoryBlock
	freeIndices []int
}

func (t *blockTable) reserve() *memoryBlock {
	var block *memoryBlock

	if len(t.freeIndices) > 0 {
		index := t.freeIndices[0]
		t.freeIndices = t.freeIndices[1:]
		block = t.blocks[index]
	} else {
		block = &memoryBlock{index: len(t.blocks)}
		t.blocks = append(t.blocks, block)
	}

	block.generation++
	block.state = BlockUnreserved
	block.references = 0
	block.allocatedBytes = 0
	block.ranges = make(map[int]*liveRange)
	block.size = 0
	block.flags = 0
	block.memoryTypeIndex = -1

	return block
}

// unreserve returns a block that never received memory to the free list
func (t *blockTable) unreserve(block *memoryBlock) {
	block.group = nil
	t.retire(block)
}

func (t *blockTable) retire(block *memoryBlock) {
	block.memory = nil
	block.state = BlockFreed
	block.references = 0
	block.allocatedBytes = 0
	block.ranges = nil

	insertAt, found := slices.BinarySearch(t.freeIndices, block.index)
	if found {
		panic("attempted to retire a block that is already on the free list")
	}
	t.freeIndices = slices.Insert(t.freeIndices, insertAt, block.index)
}

func (t *blockTable) lookup(handle Handle) (*memoryBlock, error) {
	if handle.IsNull() {
		return nil, errors.Wrap(ErrAllocation, "null handle")
	}
	if handle.index < 0 || handle.index >= len(t.blocks) {
		return nil, errors.Wrapf(ErrAllocation, "%s refers to a block index that does not exist", handle)
	}

	block := t.blocks[handle.index]
	if block.generation != handle.generation {
		return nil, errors.Wrapf(ErrAllocation, "%s is stale: block %d is at generation %d", handle, block.index, block.generation)
	}
	if block.state == BlockFreed || block.state == BlockUnreserved {
		return nil, errors.Wrapf(ErrAllocation, "%s refers to a block that has already been freed", handle)
	}

	return block, nil
}

func (t *blockTable) liveCount() int {
	return len(t.blocks) - len(t.freeIndices)
}

func (t *blockTable) Validate() error {
	if !slices.IsSorted(t.freeIndices) {
		return pkgerrors.Errorf("free list is not sorted: %v", t.freeIndices)
	}

	for i, index := range t.freeIndices {
		if i > 0 && t.freeIndices[i-1] == index {
			return pkgerrors.Errorf("block %d appears on the free list twice", index)
		}
		if index < 0 || index >= len(t.blocks) {
			return pkgerrors.Errorf("free list contains out of range index %d", index)
		}
		if t.blocks[index].state != BlockFreed {
			return pkgerrors.Errorf("block %d is on the free list but is %s", index, t.blocks[index].state)
		}
	}

	for index, block := range t.blocks {
		if block.index != index {
			return pkgerrors.Errorf("block at position %d believes it is at index %d", index, block.index)
		}

		if block.state == BlockFreed {
			_, found := slices.BinarySearch(t.freeIndices, index)
			if !found {
				return pkgerrors.Errorf("freed block %d is missing from the free list", index)
			}
		}

		err := block.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}
