package transfer

import (
	"time"

	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

//go:generate mockgen -source device.go -destination ./mocks/device.go

// Device creates the native objects transfer resources are built from
type Device interface {
	CreateBuffer(size int, usage core1_0.BufferUsageFlags) (NativeBuffer, common.VkResult, error)
	CreateImage(extent core1_0.Extent3D, format core1_0.Format, usage core1_0.ImageUsageFlags) (NativeImage, common.VkResult, error)
	CreateFence() (Fence, common.VkResult, error)
	CreateSignal() (Signal, common.VkResult, error)
	CreateCommandStream() (CommandStream, common.VkResult, error)
}

// Queue executes recorded command streams
type Queue interface {
	// Submit queues submission for execution. fence is signaled once the stream has completed.
	Submit(submission Submission, fence Fence) (common.VkResult, error)
}

// Submission is one command stream plus the GPU-side ordering around it
type Submission struct {
	Stream CommandStream
	// WaitSignal, if present, must be signaled before WaitStage of Stream may execute
	WaitSignal Signal
	WaitStage  core1_0.PipelineStageFlags
	// DoneSignal, if present, is signaled when Stream completes
	DoneSignal Signal
}

type NativeBuffer interface {
	VulkanBuffer() core1_0.Buffer
	MemoryRequirements() *core1_0.MemoryRequirements
	BindMemory(memory memory.Memory, offset int) (common.VkResult, error)
	Destroy()
}

type NativeImage interface {
	VulkanImage() core1_0.Image
	MemoryRequirements() *core1_0.MemoryRequirements
	BindMemory(memory memory.Memory, offset int) (common.VkResult, error)
	Destroy()
}

// Fence is the CPU-visible completion flag of a submission
type Fence interface {
	VulkanFence() core1_0.Fence
	// Wait blocks until the fence is signaled. Expiry of timeout is reported as an error.
	Wait(timeout time.Duration) (common.VkResult, error)
	Reset() (common.VkResult, error)
	Destroy()
}

// Signal is a GPU-side ordering dependency between submissions. The host never waits on it.
type Signal interface {
	VulkanSemaphore() core1_0.Semaphore
	Destroy()
}

// CommandStream is a reusable primary command buffer
type CommandStream interface {
	VulkanCommandBuffer() core1_0.CommandBuffer
	Begin() (common.VkResult, error)
	CmdCopyBuffer(source NativeBuffer, destination NativeBuffer, regions []core1_0.BufferCopy) error
	CmdCopyBufferToImage(source NativeBuffer, destination NativeImage, layout core1_0.ImageLayout, regions []core1_0.BufferImageCopy) error
	CmdPipelineBarrier(sourceStage, destinationStage core1_0.PipelineStageFlags, barriers []ImageBarrier) error
	End() (common.VkResult, error)
	Free()
}

// ImageBarrier is a layout transition of a single image
type ImageBarrier struct {
	Image             NativeImage
	OldLayout         core1_0.ImageLayout
	NewLayout         core1_0.ImageLayout
	SourceAccess      core1_0.AccessFlags
	DestinationAccess core1_0.AccessFlags
	SubresourceRange  core1_0.ImageSubresourceRange
}
