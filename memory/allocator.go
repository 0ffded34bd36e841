package memory

import (
	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/notdatboi/Spark/internal/utils"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// Allocator hands out sub-ranges of a small number of large device memory blocks.
//
// Memory can be requested eagerly, in which case a block of exactly the requested size is
// allocated immediately, or lazily. Lazy requests with the same memory property flags are
// packed into a single pending block, which is only allocated from the device when one of
// its handles is resolved, released, or the group is flushed.
//
// Every block is reference counted: its native memory is freed once every handle inside it
// has been released, and its index is reused by later requests.
type Allocator struct {
	logger           *slog.Logger
	device           Device
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties
	createFlags      CreateFlags
	callbacks        memoryCallbacks

	mutex     utils.OptionalMutex
	blocks    blockTable
	pending   pendingGroups
	destroyed bool
}

// BlockInfo is a snapshot of a single block
type BlockInfo struct {
	Index           int
	State           BlockState
	Flags           core1_0.MemoryPropertyFlags
	MemoryTypeIndex int
	Size            int
	References      int
	AllocatedBytes  int
}

func (a *Allocator) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return a.memoryProperties
}

func (a *Allocator) findMemoryTypeIndex(flags core1_0.MemoryPropertyFlags, memoryTypeBits uint32) (int, error) {
	for typeIndex, memoryType := range a.memoryProperties.MemoryTypes {
		if memoryTypeBits&(1<<typeIndex) == 0 {
			continue
		}

		if memoryType.PropertyFlags&flags == flags {
			return typeIndex, nil
		}
	}

	return -1, errors.Wrapf(ErrAllocation, "no memory type with flags %s is available within memory type bits %#x", flags, memoryTypeBits)
}

func (a *Allocator) checkAlive() error {
	if a.destroyed {
		return errors.Wrap(ErrAllocation, "the allocator has been destroyed")
	}
	return nil
}

func (a *Allocator) allocateBlockMemory(block *memoryBlock, memoryTypeIndex int, size int) (common.VkResult, error) {
	memory, res, err := a.device.AllocateMemory(memoryTypeIndex, size)
	if err != nil {
		return res, allocationError(err, "failed to allocate %s from memory type %d", units.BytesSize(float64(size)), memoryTypeIndex)
	}

	block.materialize(memoryTypeIndex, memory)
	a.callbacks.Allocate(block)

	a.logger.Debug("Allocator::allocateBlockMemory",
		slog.Int("block", block.index),
		slog.Int("memoryType", memoryTypeIndex),
		slog.String("size", units.BytesSize(float64(size))),
	)

	return res, nil
}

func (a *Allocator) freeBlock(block *memoryBlock) {
	a.callbacks.Free(block)
	block.memory.Free()
	a.blocks.retire(block)

	a.logger.Debug("Allocator::freeBlock", slog.Int("block", block.index))
}

func (a *Allocator) materializeGroup(group *pendingGroup) (common.VkResult, error) {
	memoryTypeIndex, err := a.findMemoryTypeIndex(group.flags, group.memoryTypeBits)
	if err != nil {
		return core1_0.VKErrorFeatureNotPresent, err
	}

	block := group.block
	res, err := a.allocateBlockMemory(block, memoryTypeIndex, group.size)
	if err != nil {
		return res, err
	}
	a.pending.close(group)

	a.logger.Debug("Allocator::materializeGroup",
		slog.Int("block", block.index),
		slog.String("flags", group.flags.String()),
		slog.Int("members", group.members),
	)

	return res, nil
}

func (a *Allocator) debugValidate() {
	memutils.DebugValidate(&a.blocks)
	memutils.DebugValidate(&a.pending)
}

// AllocateEager allocates a new block of exactly request.Size bytes straight away and returns
// a handle to its start.
func (a *Allocator) AllocateEager(request Request) (Handle, common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return Handle{}, core1_0.VKErrorUnknown, err
	}

	request, err := request.normalize()
	if err != nil {
		return Handle{}, core1_0.VKErrorUnknown, err
	}

	return a.allocateEager(request)
}

func (a *Allocator) allocateEager(request Request) (Handle, common.VkResult, error) {
	memoryTypeIndex, err := a.findMemoryTypeIndex(request.Flags, request.MemoryTypeBits)
	if err != nil {
		return Handle{}, core1_0.VKErrorFeatureNotPresent, err
	}

	block := a.blocks.reserve()
	block.flags = request.Flags

	res, err := a.allocateBlockMemory(block, memoryTypeIndex, request.Size)
	if err != nil {
		a.blocks.unreserve(block)
		return Handle{}, res, err
	}
	block.addRange(0, request.Size)

	a.logger.Debug("Allocator::AllocateEager",
		slog.Int("block", block.index),
		slog.Int("size", request.Size),
		slog.String("flags", request.Flags.String()),
	)
	a.debugValidate()

	return block.handle(0, request.Size), res, nil
}

// AllocateLazy reserves request.Size bytes without allocating any device memory. Requests
// with the same Flags are packed into one block as long as they share at least one memory
// type and the same alignment; otherwise the existing group is materialized and a new one
// is started.
//
// A packed request lands at the group's current size rounded up to request.Alignment, not at
// the bare sum of the earlier sizes. Two 64 and 128 byte requests at alignment 256 get offsets
// 0 and 256 in a 384 byte block.
func (a *Allocator) AllocateLazy(request Request) (Handle, common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return Handle{}, core1_0.VKErrorUnknown, err
	}

	request, err := request.normalize()
	if err != nil {
		return Handle{}, core1_0.VKErrorUnknown, err
	}

	if a.createFlags&AllocatorCreateEagerOnly != 0 {
		return a.allocateEager(request)
	}

	_, err = a.findMemoryTypeIndex(request.Flags, request.MemoryTypeBits)
	if err != nil {
		return Handle{}, core1_0.VKErrorFeatureNotPresent, err
	}

	group, exists := a.pending.get(request.Flags)
	if exists {
		narrowedBits := group.memoryTypeBits & request.MemoryTypeBits

		if narrowedBits != 0 && group.alignment == request.Alignment {
			// The narrowed mask must still reach a memory type with the group's flags
			_, err = a.findMemoryTypeIndex(group.flags, narrowedBits)
			if err != nil {
				return Handle{}, core1_0.VKErrorFeatureNotPresent, errors.Wrapf(err, "merging into the pending group of block %d", group.block.index)
			}

			offset := group.merge(request)

			a.logger.Debug("Allocator::AllocateLazy merged",
				slog.Int("block", group.block.index),
				slog.Int("offset", offset),
				slog.Int("size", request.Size),
				slog.Int("groupSize", group.size),
			)
			a.debugValidate()

			return group.block.handle(offset, request.Size), core1_0.VKSuccess, nil
		}

		res, err := a.materializeGroup(group)
		if err != nil {
			return Handle{}, res, errors.Wrapf(err, "flushing incompatible pending group of block %d", group.block.index)
		}
	}

	block := a.blocks.reserve()
	a.pending.open(block, request)

	a.logger.Debug("Allocator::AllocateLazy opened",
		slog.Int("block", block.index),
		slog.Int("size", request.Size),
		slog.String("flags", request.Flags.String()),
	)
	a.debugValidate()

	return block.handle(0, request.Size), core1_0.VKSuccess, nil
}

// Resolve returns the native memory behind handle, materializing its pending group if the
// group has not been allocated yet. Handles that have been released fail with ErrAllocation.
func (a *Allocator) Resolve(handle Handle) (Memory, common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}

	block, err := a.blocks.lookup(handle)
	if err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}
	if _, live := block.ranges[handle.offset]; !live {
		return nil, core1_0.VKErrorUnknown, errors.Wrapf(ErrAllocation, "%s has already been released", handle)
	}

	if block.state == BlockPending {
		res, err := a.materializeGroup(block.group)
		if err != nil {
			return nil, res, err
		}
		a.debugValidate()
	}

	return block.memory, core1_0.VKSuccess, nil
}

// Retain issues another reference to the same range as handle. Each reference must be
// released separately.
func (a *Allocator) Retain(handle Handle) (Handle, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return Handle{}, err
	}

	block, err := a.blocks.lookup(handle)
	if err != nil {
		return Handle{}, err
	}
	r, live := block.ranges[handle.offset]
	if !live {
		return Handle{}, errors.Wrapf(ErrAllocation, "%s has already been released", handle)
	}

	block.addRange(handle.offset, r.size)
	if block.group != nil {
		block.group.members++
	}
	a.debugValidate()

	return handle, nil
}

// Release drops one reference to handle. When the last reference to a block is released, the
// block's memory is freed and its index becomes available for reuse. Releasing a handle more
// times than it was allocated or retained fails with ErrAllocation.
func (a *Allocator) Release(handle Handle) (common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return core1_0.VKErrorUnknown, err
	}

	block, err := a.blocks.lookup(handle)
	if err != nil {
		return core1_0.VKErrorUnknown, errors.Wrap(err, "release")
	}
	if _, live := block.ranges[handle.offset]; !live {
		return core1_0.VKErrorUnknown, errors.Wrapf(ErrAllocation, "%s has been released more times than it was allocated", handle)
	}

	if block.state == BlockPending {
		res, err := a.materializeGroup(block.group)
		if err != nil {
			return res, err
		}
	}

	block.removeRange(handle.offset)

	a.logger.Debug("Allocator::Release",
		slog.Int("block", block.index),
		slog.Int("offset", handle.offset),
		slog.Int("references", block.references),
	)

	if block.references == 0 {
		a.freeBlock(block)
	}
	a.debugValidate()

	return core1_0.VKSuccess, nil
}

// FlushAll materializes every pending group, in ascending order of their flags
func (a *Allocator) FlushAll() (common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return core1_0.VKErrorUnknown, err
	}

	for _, group := range a.pending.sorted() {
		res, err := a.materializeGroup(group)
		if err != nil {
			return res, err
		}
	}
	a.debugValidate()

	return core1_0.VKSuccess, nil
}

// FlushGroup materializes the pending group for flags, if there is one
func (a *Allocator) FlushGroup(flags core1_0.MemoryPropertyFlags) (common.VkResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return core1_0.VKErrorUnknown, err
	}

	group, exists := a.pending.get(flags)
	if !exists {
		a.logger.Debug("Allocator::FlushGroup no pending group", slog.String("flags", flags.String()))
		return core1_0.VKSuccess, nil
	}

	res, err := a.materializeGroup(group)
	if err != nil {
		return res, err
	}
	a.debugValidate()

	return res, nil
}

// IsPending reports whether handle's block is still waiting to be materialized
func (a *Allocator) IsPending(handle Handle) (bool, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	block, err := a.blocks.lookup(handle)
	if err != nil {
		return false, err
	}

	return block.state == BlockPending, nil
}

// BlockInfo returns a snapshot of the block handle lives in
func (a *Allocator) BlockInfo(handle Handle) (BlockInfo, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	block, err := a.blocks.lookup(handle)
	if err != nil {
		return BlockInfo{}, err
	}

	info := BlockInfo{
		Index:           block.index,
		State:           block.state,
		Flags:           block.flags,
		MemoryTypeIndex: block.memoryTypeIndex,
		Size:            block.size,
		References:      block.references,
		AllocatedBytes:  block.allocatedBytes,
	}
	if block.state == BlockPending {
		info.Size = block.group.size
	}

	return info, nil
}

// Destroy frees every block this allocator still owns, regardless of outstanding references.
// Blocks with live references are logged as unreleased memory. Calling Destroy more than once
// has no effect.
func (a *Allocator) Destroy() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.destroyed {
		return nil
	}
	a.destroyed = true

	for _, block := range a.blocks.blocks {
		switch block.state {
		case BlockPending:
			block.logUnreleasedMemory(a.logger)
		case BlockMaterialized:
			block.logUnreleasedMemory(a.logger)
			a.callbacks.Free(block)
			block.memory.Free()
		}
	}

	a.pending.clear()
	a.blocks = blockTable{}

	a.logger.Debug("Allocator::Destroy")
	return nil
}

func (a *Allocator) Validate() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	err := a.blocks.Validate()
	if err != nil {
		return err
	}

	return a.pending.Validate()
}
