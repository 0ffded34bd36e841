package simdevice

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

type binding struct {
	memory *Memory
	offset int
}

func (d *Device) bind(target *binding, kind string, size int, mem memory.Memory, offset int) (common.VkResult, error) {
	simMemory, ok := mem.(*Memory)
	if !ok {
		return core1_0.VKErrorUnknown, errors.Newf("%s bound to memory from another device", kind)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if target.memory != nil {
		return core1_0.VKErrorUnknown, errors.Newf("%s is already bound", kind)
	}
	if simMemory.freed {
		return core1_0.VKErrorUnknown, errors.Newf("%s bound to freed memory", kind)
	}
	if offset%d.alignment != 0 {
		return core1_0.VKErrorUnknown, errors.Newf("%s bound at offset %d, which is not aligned to %d", kind, offset, d.alignment)
	}
	if offset+size > simMemory.Size() {
		return core1_0.VKErrorUnknown, errors.Newf("%s of %d bytes does not fit at offset %d of a %d byte allocation", kind, size, offset, simMemory.Size())
	}

	target.memory = simMemory
	target.offset = offset
	return core1_0.VKSuccess, nil
}

// bytes returns the live byte range of a bound object
func (b *binding) bytes(size int) ([]byte, error) {
	if b.memory == nil {
		return nil, errors.New("object is not bound to memory")
	}
	if b.memory.freed {
		return nil, errors.New("object memory has been freed")
	}
	return b.memory.data[b.offset : b.offset+size], nil
}

type Buffer struct {
	device    *Device
	size      int
	usage     core1_0.BufferUsageFlags
	binding   binding
	destroyed bool
}

func (d *Device) CreateBuffer(size int, usage core1_0.BufferUsageFlags) (transfer.NativeBuffer, common.VkResult, error) {
	if size <= 0 {
		return nil, core1_0.VKErrorUnknown, errors.Newf("cannot create a buffer of %d bytes", size)
	}
	return &Buffer{device: d, size: size, usage: usage}, core1_0.VKSuccess, nil
}

func (b *Buffer) VulkanBuffer() core1_0.Buffer { return nil }

func (b *Buffer) MemoryRequirements() *core1_0.MemoryRequirements {
	return &core1_0.MemoryRequirements{
		Size:           b.size,
		Alignment:      b.device.alignment,
		MemoryTypeBits: b.device.allMemoryTypeBits(),
	}
}

func (b *Buffer) BindMemory(mem memory.Memory, offset int) (common.VkResult, error) {
	return b.device.bind(&b.binding, "buffer", b.size, mem, offset)
}

func (b *Buffer) Destroy() {
	b.destroyed = true
}

// Contents returns a copy of the bytes the buffer is bound to
func (b *Buffer) Contents() []byte {
	b.device.mutex.RLock()
	defer b.device.mutex.RUnlock()

	data, err := b.binding.bytes(b.size)
	if err != nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

type Image struct {
	device    *Device
	extent    core1_0.Extent3D
	format    core1_0.Format
	usage     core1_0.ImageUsageFlags
	layout    core1_0.ImageLayout
	binding   binding
	destroyed bool
}

func (d *Device) CreateImage(extent core1_0.Extent3D, format core1_0.Format, usage core1_0.ImageUsageFlags) (transfer.NativeImage, common.VkResult, error) {
	if extent.Width <= 0 || extent.Height <= 0 || extent.Depth <= 0 {
		return nil, core1_0.VKErrorUnknown, errors.New("cannot create an empty image")
	}
	return &Image{
		device: d,
		extent: extent,
		format: format,
		usage:  usage,
		layout: core1_0.ImageLayoutUndefined,
	}, core1_0.VKSuccess, nil
}

func (i *Image) byteSize() int {
	return i.extent.Width * i.extent.Height * i.extent.Depth * i.device.texelSize
}

func (i *Image) VulkanImage() core1_0.Image { return nil }

func (i *Image) MemoryRequirements() *core1_0.MemoryRequirements {
	return &core1_0.MemoryRequirements{
		Size:           i.byteSize(),
		Alignment:      i.device.alignment,
		MemoryTypeBits: i.device.allMemoryTypeBits(),
	}
}

func (i *Image) BindMemory(mem memory.Memory, offset int) (common.VkResult, error) {
	return i.device.bind(&i.binding, "image", i.byteSize(), mem, offset)
}

func (i *Image) Destroy() {
	i.destroyed = true
}

// Layout is the layout the device last transitioned the image to
func (i *Image) Layout() core1_0.ImageLayout {
	i.device.mutex.RLock()
	defer i.device.mutex.RUnlock()

	return i.layout
}

func (i *Image) Contents() []byte {
	i.device.mutex.RLock()
	defer i.device.mutex.RUnlock()

	data, err := i.binding.bytes(i.byteSize())
	if err != nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

type Fence struct {
	device    *Device
	signaled  bool
	destroyed bool
}

func (d *Device) CreateFence() (transfer.Fence, common.VkResult, error) {
	return &Fence{device: d}, core1_0.VKSuccess, nil
}

func (f *Fence) VulkanFence() core1_0.Fence { return nil }

// Wait never blocks: submissions complete synchronously, so an unsignaled fence is either held
// or was never submitted and would never signal
func (f *Fence) Wait(timeout time.Duration) (common.VkResult, error) {
	f.device.mutex.RLock()
	defer f.device.mutex.RUnlock()

	if f.destroyed {
		return core1_0.VKErrorUnknown, errors.New("attempted to wait on a destroyed fence")
	}
	if !f.signaled {
		return core1_0.VKTimeout, errors.Newf("fence was not signaled within %s", timeout)
	}
	return core1_0.VKSuccess, nil
}

func (f *Fence) Reset() (common.VkResult, error) {
	f.device.mutex.Lock()
	defer f.device.mutex.Unlock()

	f.signaled = false
	return core1_0.VKSuccess, nil
}

func (f *Fence) Destroy() {
	f.device.mutex.Lock()
	defer f.device.mutex.Unlock()

	f.destroyed = true
}

func (f *Fence) IsSignaled() bool {
	f.device.mutex.RLock()
	defer f.device.mutex.RUnlock()

	return f.signaled
}

type Signal struct {
	device    *Device
	signaled  bool
	destroyed bool
}

func (d *Device) CreateSignal() (transfer.Signal, common.VkResult, error) {
	return &Signal{device: d}, core1_0.VKSuccess, nil
}

func (s *Signal) VulkanSemaphore() core1_0.Semaphore { return nil }

func (s *Signal) Destroy() {
	s.device.mutex.Lock()
	defer s.device.mutex.Unlock()

	s.destroyed = true
}

// Signaled creates a signal that is already signaled, standing in for work submitted elsewhere
func (d *Device) Signaled() *Signal {
	return &Signal{device: d, signaled: true}
}

func (s *Signal) IsSignaled() bool {
	s.device.mutex.RLock()
	defer s.device.mutex.RUnlock()

	return s.signaled
}
