package memory

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

type BlockState uint32

const (
	// BlockUnreserved slots have never been handed out
	BlockUnreserved BlockState = iota
	// BlockPending slots have been reserved by a lazy request and are waiting for their
	// group to be materialized
	BlockPending
	// BlockMaterialized slots are backed by native memory
	BlockMaterialized
	// BlockFreed slots have released their memory and sit on the free list
	BlockFreed
)

var blockStateMapping = map[BlockState]string{
	BlockUnreserved:   "Unreserved",
	BlockPending:      "Pending",
	BlockMaterialized: "Materialized",
	BlockFreed:        "Freed",
}

func (s BlockState) String() string {
	str, ok := blockStateMapping[s]
	if !ok {
		return fmt.Sprintf("BlockState(%d)", uint32(s))
	}
	return str
}

type memoryBlock struct {
	index      int
	generation uint32
	state      BlockState

	memory          Memory
	memoryTypeIndex int
	flags           core1_0.MemoryPropertyFlags
	size            int

	references     int
	allocatedBytes int
	ranges         map[int]*liveRange

	group *pendingGroup
}

// liveRange is one handed-out sub-range of a block and the number of live handles to it
type liveRange struct {
	size       int
	references int
}

func (b *memoryBlock) addRange(offset, size int) {
	r, exists := b.ranges[offset]
	if !exists {
		r = &liveRange{size: size}
		b.ranges[offset] = r
		b.allocatedBytes += size
	} else if r.size != size {
		panic(fmt.Sprintf("attempted to add a range of size %d at offset %d of block %d, which already holds a range of size %d", size, offset, b.index, r.size))
	}

	r.references++
	b.references++
}

func (b *memoryBlock) removeRange(offset int) bool {
	r, exists := b.ranges[offset]
	if !exists {
		return false
	}

	r.references--
	b.references--
	if r.references == 0 {
		delete(b.ranges, offset)
		b.allocatedBytes -= r.size
	}
	return true
}

func (b *memoryBlock) sortedOffsets() []int {
	offsets := maps.Keys(b.ranges)
	slices.Sort(offsets)
	return offsets
}

func (b *memoryBlock) handle(offset, size int) Handle {
	return Handle{
		index:      b.index,
		generation: b.generation,
		offset:     offset,
		size:       size,
	}
}

func (b *memoryBlock) materialize(memoryTypeIndex int, memory Memory) {
	if b.state != BlockPending && b.state != BlockUnreserved {
		panic(fmt.Sprintf("attempted to materialize block %d in state %s", b.index, b.state))
	}
	if memory == nil {
		panic(fmt.Sprintf("attempted to materialize block %d without memory", b.index))
	}

	b.memory = memory
	b.memoryTypeIndex = memoryTypeIndex
	b.size = memory.Size()
	b.state = BlockMaterialized
	b.group = nil
}

func (b *memoryBlock) logUnreleasedMemory(logger *slog.Logger) {
	logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] block destroyed with live references",
		slog.Int("index", b.index),
		slog.String("state", b.state.String()),
		slog.Int("references", b.references),
		slog.Int("allocatedBytes", b.allocatedBytes),
		slog.Int("size", b.size),
	)
}

func (b *memoryBlock) Validate() error {
	if b.references < 0 {
		return errors.Errorf("block %d has a negative reference count %d", b.index, b.references)
	}

	references := 0
	allocatedBytes := 0
	end := 0
	for _, offset := range b.sortedOffsets() {
		r := b.ranges[offset]
		if r.references < 1 {
			return errors.Errorf("block %d holds a dead range at offset %d", b.index, offset)
		}
		if offset < end {
			return errors.Errorf("block %d has a range at offset %d overlapping the previous range, which ends at %d", b.index, offset, end)
		}
		end = offset + r.size
		references += r.references
		allocatedBytes += r.size
	}
	if references != b.references {
		return errors.Errorf("block %d has %d references but its ranges hold %d", b.index, b.references, references)
	}
	if allocatedBytes != b.allocatedBytes {
		return errors.Errorf("block %d reports %d allocated bytes but its ranges hold %d", b.index, b.allocatedBytes, allocatedBytes)
	}
	if b.state == BlockMaterialized && end > b.size {
		return errors.Errorf("block %d has ranges ending at %d, past its size %d", b.index, end, b.size)
	}

	switch b.state {
	case BlockPending:
		if b.memory != nil {
			return errors.Errorf("pending block %d already has native memory", b.index)
		}
		if b.references < 1 {
			return errors.Errorf("pending block %d has no references", b.index)
		}
		if b.group == nil || b.group.block != b {
			return errors.Errorf("pending block %d does not belong to a pending group", b.index)
		}
	case BlockMaterialized:
		if b.memory == nil {
			return errors.Errorf("materialized block %d has no native memory", b.index)
		}
		if b.references < 1 {
			return errors.Errorf("materialized block %d has no references but was not freed", b.index)
		}
		if b.group != nil {
			return errors.Errorf("materialized block %d still belongs to a pending group", b.index)
		}
	case BlockFreed, BlockUnreserved:
		if b.memory != nil {
			return errors.Errorf("free block %d still holds native memory", b.index)
		}
		if b.references != 0 {
			return errors.Errorf("free block %d has %d references", b.index, b.references)
		}
	default:
		return errors.Errorf("block %d has unknown state %d", b.index, b.state)
	}

	return nil
}
