package memory

import "github.com/vkngwrapper/core/v2/core1_0"

// AllocateDeviceMemoryCallback is called after the Allocator obtains native memory for a block
type AllocateDeviceMemoryCallback func(
	allocator *Allocator,
	blockIndex int,
	memoryType int,
	memory core1_0.DeviceMemory,
	size int,
	userData interface{},
)

// FreeDeviceMemoryCallback is called just before the Allocator frees a block's native memory
type FreeDeviceMemoryCallback func(
	allocator *Allocator,
	blockIndex int,
	memoryType int,
	memory core1_0.DeviceMemory,
	size int,
	userData interface{},
)

type MemoryCallbackOptions struct {
	Allocate AllocateDeviceMemoryCallback
	Free     FreeDeviceMemoryCallback
	UserData interface{}
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
	Allocator *Allocator
}

func (c *memoryCallbacks) Allocate(block *memoryBlock) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(c.Allocator, block.index, block.memoryTypeIndex, block.memory.VulkanDeviceMemory(), block.size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Free(block *memoryBlock) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Allocator, block.index, block.memoryTypeIndex, block.memory.VulkanDeviceMemory(), block.size, c.Callbacks.UserData)
	}
}
