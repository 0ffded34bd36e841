package vulkan

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// QueueFamilyIgnored leaves queue family ownership unchanged in a barrier
const QueueFamilyIgnored = -1

type Buffer struct {
	device *Device
	buffer core1_0.Buffer
}

func (b *Buffer) VulkanBuffer() core1_0.Buffer {
	return b.buffer
}

func (b *Buffer) MemoryRequirements() *core1_0.MemoryRequirements {
	return b.buffer.MemoryRequirements()
}

func (b *Buffer) BindMemory(mem memory.Memory, offset int) (common.VkResult, error) {
	return b.buffer.BindBufferMemory(mem.VulkanDeviceMemory(), offset)
}

func (b *Buffer) Destroy() {
	b.buffer.Destroy(b.device.allocationCallbacks)
}

type Image struct {
	device *Device
	image  core1_0.Image
}

func (i *Image) VulkanImage() core1_0.Image {
	return i.image
}

func (i *Image) MemoryRequirements() *core1_0.MemoryRequirements {
	return i.image.MemoryRequirements()
}

func (i *Image) BindMemory(mem memory.Memory, offset int) (common.VkResult, error) {
	return i.image.BindImageMemory(mem.VulkanDeviceMemory(), offset)
}

func (i *Image) Destroy() {
	i.image.Destroy(i.device.allocationCallbacks)
}

type Fence struct {
	device *Device
	fence  core1_0.Fence
}

func (f *Fence) VulkanFence() core1_0.Fence {
	return f.fence
}

func (f *Fence) Wait(timeout time.Duration) (common.VkResult, error) {
	res, err := f.device.device.WaitForFences(true, timeout, []core1_0.Fence{f.fence})
	if err != nil {
		return res, err
	}
	if res == core1_0.VKTimeout {
		return res, errors.Newf("fence was not signaled within %s", timeout)
	}
	return res, nil
}

func (f *Fence) Reset() (common.VkResult, error) {
	return f.device.device.ResetFences([]core1_0.Fence{f.fence})
}

func (f *Fence) Destroy() {
	f.fence.Destroy(f.device.allocationCallbacks)
}

type Signal struct {
	device    *Device
	semaphore core1_0.Semaphore
}

func (s *Signal) VulkanSemaphore() core1_0.Semaphore {
	return s.semaphore
}

func (s *Signal) Destroy() {
	s.semaphore.Destroy(s.device.allocationCallbacks)
}

type CommandStream struct {
	device        *Device
	commandBuffer core1_0.CommandBuffer
}

func (s *CommandStream) VulkanCommandBuffer() core1_0.CommandBuffer {
	return s.commandBuffer
}

func (s *CommandStream) Begin() (common.VkResult, error) {
	return s.commandBuffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
}

func (s *CommandStream) CmdCopyBuffer(source transfer.NativeBuffer, destination transfer.NativeBuffer, regions []core1_0.BufferCopy) error {
	return s.commandBuffer.CmdCopyBuffer(source.VulkanBuffer(), destination.VulkanBuffer(), regions)
}

func (s *CommandStream) CmdCopyBufferToImage(source transfer.NativeBuffer, destination transfer.NativeImage, layout core1_0.ImageLayout, regions []core1_0.BufferImageCopy) error {
	return s.commandBuffer.CmdCopyBufferToImage(source.VulkanBuffer(), destination.VulkanImage(), layout, regions)
}

func (s *CommandStream) CmdPipelineBarrier(sourceStage, destinationStage core1_0.PipelineStageFlags, barriers []transfer.ImageBarrier) error {
	imageBarriers := make([]core1_0.ImageMemoryBarrier, 0, len(barriers))
	for _, barrier := range barriers {
		imageBarriers = append(imageBarriers, core1_0.ImageMemoryBarrier{
			SrcAccessMask:       barrier.SourceAccess,
			DstAccessMask:       barrier.DestinationAccess,
			OldLayout:           barrier.OldLayout,
			NewLayout:           barrier.NewLayout,
			SrcQueueFamilyIndex: QueueFamilyIgnored,
			DstQueueFamilyIndex: QueueFamilyIgnored,
			Image:               barrier.Image.VulkanImage(),
			SubresourceRange:    barrier.SubresourceRange,
		})
	}

	return s.commandBuffer.CmdPipelineBarrier(sourceStage, destinationStage, 0, nil, nil, imageBarriers)
}

func (s *CommandStream) End() (common.VkResult, error) {
	return s.commandBuffer.End()
}

func (s *CommandStream) Free() {
	s.device.device.FreeCommandBuffers([]core1_0.CommandBuffer{s.commandBuffer})
}
