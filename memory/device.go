package memory

import (
	"unsafe"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -source device.go -destination ./mocks/device.go

// Device is the slice of a logical device the Allocator needs: the memory layout of the
// physical device and the ability to obtain & return raw device memory
type Device interface {
	MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties
	AllocateMemory(memoryTypeIndex int, size int) (Memory, common.VkResult, error)
}

// Memory is a single native device memory allocation. Every block owned by an Allocator
// is backed by exactly one Memory once it has been materialized.
type Memory interface {
	VulkanDeviceMemory() core1_0.DeviceMemory
	Size() int

	// Map returns a host pointer to the byte at offset. Map calls are reference counted, so
	// multiple sub-ranges of the same memory may be mapped at once.
	Map(offset int, size int) (unsafe.Pointer, common.VkResult, error)
	Unmap() error
	Free()
}
