// Package vulkan binds the memory and transfer packages to a real Vulkan device through
// vkngwrapper.
package vulkan

import (
	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"golang.org/x/exp/slog"
)

type CreateOptions struct {
	// ExternallySynchronized disables the mutex guarding mapped memory. Use it together with
	// memory.AllocatorCreateExternallySynchronized.
	ExternallySynchronized bool

	// AllocationCallbacks is passed to every Vulkan object created through the Device
	AllocationCallbacks *driver.AllocationCallbacks
}

// Device implements memory.Device, transfer.Device and transfer.Queue on top of a single
// logical device, queue and command pool. The command pool must allow individual command
// buffers to be reset.
type Device struct {
	logger              *slog.Logger
	device              core1_0.Device
	queue               core1_0.Queue
	commandPool         core1_0.CommandPool
	memoryProperties    *core1_0.PhysicalDeviceMemoryProperties
	allocationCallbacks *driver.AllocationCallbacks
	useMutex            bool
}

var _ memory.Device = &Device{}
var _ transfer.Device = &Device{}
var _ transfer.Queue = &Device{}

func New(
	logger *slog.Logger,
	device core1_0.Device,
	physicalDevice core1_0.PhysicalDevice,
	queue core1_0.Queue,
	commandPool core1_0.CommandPool,
	options CreateOptions,
) (*Device, error) {
	if logger == nil {
		return nil, errors.New("vulkan.New requires a logger")
	}
	if device == nil || physicalDevice == nil {
		return nil, errors.New("vulkan.New requires a device and a physical device")
	}
	if queue == nil || commandPool == nil {
		return nil, errors.New("vulkan.New requires a queue and a command pool")
	}

	return &Device{
		logger:              logger,
		device:              device,
		queue:               queue,
		commandPool:         commandPool,
		memoryProperties:    physicalDevice.MemoryProperties(),
		allocationCallbacks: options.AllocationCallbacks,
		useMutex:            !options.ExternallySynchronized,
	}, nil
}

func (d *Device) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return d.memoryProperties
}

func (d *Device) AllocateMemory(memoryTypeIndex int, size int) (memory.Memory, common.VkResult, error) {
	mem, res, err := allocateDeviceMemory(d.device, d.useMutex, d.allocationCallbacks, core1_0.MemoryAllocateInfo{
		AllocationSize:  size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return nil, res, err
	}

	d.logger.Debug("Device::AllocateMemory",
		slog.Int("memoryType", memoryTypeIndex),
		slog.String("size", units.BytesSize(float64(size))),
	)
	return mem, res, nil
}

func (d *Device) CreateBuffer(size int, usage core1_0.BufferUsageFlags) (transfer.NativeBuffer, common.VkResult, error) {
	buffer, res, err := d.device.CreateBuffer(d.allocationCallbacks, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, res, err
	}

	return &Buffer{device: d, buffer: buffer}, res, nil
}

func (d *Device) CreateImage(extent core1_0.Extent3D, format core1_0.Format, usage core1_0.ImageUsageFlags) (transfer.NativeImage, common.VkResult, error) {
	if extent.Depth != 1 {
		return nil, core1_0.VKErrorFeatureNotPresent, errors.Newf("only 2D images are supported, but depth was %d", extent.Depth)
	}

	image, res, err := d.device.CreateImage(d.allocationCallbacks, core1_0.ImageCreateInfo{
		ImageType:     core1_0.ImageType2D,
		Extent:        extent,
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return nil, res, err
	}

	return &Image{device: d, image: image}, res, nil
}

func (d *Device) CreateFence() (transfer.Fence, common.VkResult, error) {
	fence, res, err := d.device.CreateFence(d.allocationCallbacks, core1_0.FenceCreateInfo{})
	if err != nil {
		return nil, res, err
	}

	return &Fence{device: d, fence: fence}, res, nil
}

func (d *Device) CreateSignal() (transfer.Signal, common.VkResult, error) {
	semaphore, res, err := d.device.CreateSemaphore(d.allocationCallbacks, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, res, err
	}

	return &Signal{device: d, semaphore: semaphore}, res, nil
}

func (d *Device) CreateCommandStream() (transfer.CommandStream, common.VkResult, error) {
	buffers, res, err := d.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        d.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, res, err
	}

	return &CommandStream{device: d, commandBuffer: buffers[0]}, res, nil
}

func (d *Device) Submit(submission transfer.Submission, fence transfer.Fence) (common.VkResult, error) {
	stream, ok := submission.Stream.(*CommandStream)
	if !ok {
		return core1_0.VKErrorUnknown, errors.New("submitted a command stream from another device")
	}

	info := core1_0.SubmitInfo{
		CommandBuffers: []core1_0.CommandBuffer{stream.commandBuffer},
	}
	if submission.WaitSignal != nil {
		info.WaitSemaphores = []core1_0.Semaphore{submission.WaitSignal.VulkanSemaphore()}
		info.WaitDstStageMask = []core1_0.PipelineStageFlags{submission.WaitStage}
	}
	if submission.DoneSignal != nil {
		info.SignalSemaphores = []core1_0.Semaphore{submission.DoneSignal.VulkanSemaphore()}
	}

	var vulkanFence core1_0.Fence
	if fence != nil {
		vulkanFence = fence.VulkanFence()
	}

	return d.queue.Submit(vulkanFence, []core1_0.SubmitInfo{info})
}
