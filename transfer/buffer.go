package transfer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type BufferCreateInfo struct {
	Size     int
	Usage    core1_0.BufferUsageFlags
	Locality Locality
	// InstantAllocation requests an eager allocation. Otherwise the buffer's memory is
	// coalesced with other lazy requests until it is first needed.
	InstantAllocation bool
}

// Buffer is a linear GPU resource backed by allocator memory. A Buffer must be bound with
// BindMemory before it is updated, and must not be used from more than one goroutine at a time.
type Buffer struct {
	resource

	size    int
	usage   core1_0.BufferUsageFlags
	native  NativeBuffer
	updates updateStream
}

func NewBuffer(ctx *Context, info BufferCreateInfo) (*Buffer, common.VkResult, error) {
	if info.Size <= 0 {
		return nil, core1_0.VKErrorUnknown, misuse("buffer size must be positive, but was %d", info.Size)
	}

	native, res, err := ctx.Device.CreateBuffer(info.Size, info.Usage)
	if err != nil {
		return nil, res, memory.DeviceOperationError(err, "failed to create a buffer of size %d", info.Size)
	}

	buffer := &Buffer{
		resource: resource{
			ctx:      ctx,
			kind:     "buffer",
			locality: info.Locality,
		},
		size:    info.Size,
		usage:   info.Usage,
		native:  native,
		updates: updateStream{name: "buffer update"},
	}

	res, err = buffer.allocate(native.MemoryRequirements(), info.InstantAllocation)
	if err != nil {
		native.Destroy()
		return nil, res, err
	}

	ctx.Logger.Debug("Buffer::New",
		slog.Int("size", info.Size),
		slog.String("locality", info.Locality.String()),
		slog.Bool("instant", info.InstantAllocation),
		slog.String("handle", buffer.handle.String()),
	)

	return buffer, res, nil
}

// BindMemory attaches the buffer to its allocation, materializing it if it is still pending.
// Binding an already bound buffer does nothing.
func (b *Buffer) BindMemory() (common.VkResult, error) {
	return b.bind(b.native.BindMemory)
}

// UpdateHostVisible writes data directly into a bound, host-visible buffer
func (b *Buffer) UpdateHostVisible(data []byte) (common.VkResult, error) {
	err := b.checkUpdatable(LocalityHostVisible, "UpdateHostVisible")
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}
	if len(data) > b.size {
		return core1_0.VKErrorUnknown, misuse("cannot write %d bytes into a buffer of size %d", len(data), b.size)
	}
	if len(data) == 0 {
		return core1_0.VKSuccess, nil
	}

	mem, res, err := b.ctx.Allocator.Resolve(b.handle)
	if err != nil {
		return res, err
	}

	ptr, res, err := mem.Map(b.handle.Offset(), b.size)
	if err != nil {
		return res, memory.DeviceOperationError(err, "failed to map buffer memory at %s", b.handle)
	}

	copy(unsafe.Slice((*byte)(ptr), len(data)), data)

	err = mem.Unmap()
	if err != nil {
		return core1_0.VKErrorUnknown, memory.DeviceOperationError(err, "failed to unmap buffer memory at %s", b.handle)
	}

	return core1_0.VKSuccess, nil
}

// UpdateDeviceLocal records and submits a copy from info.Staging into this device-local buffer.
// It does not wait for the copy; call Wait, or chain further work through info.DoneSignal.
func (b *Buffer) UpdateDeviceLocal(info UpdateInfo) (common.VkResult, error) {
	err := b.checkUpdatable(LocalityDeviceLocal, "UpdateDeviceLocal")
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	size := info.Size
	if size == 0 {
		size = b.size
	}
	if size < 0 || size > b.size {
		return core1_0.VKErrorUnknown, misuse("cannot copy %d bytes into a buffer of size %d", size, b.size)
	}

	err = info.checkStaging(size)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	b.ctx.Logger.Debug("Buffer::UpdateDeviceLocal",
		slog.Int("size", size),
		slog.Int("sourceOffset", info.SourceOffset),
		slog.Bool("waits", info.WaitSignal != nil),
		slog.Bool("signals", info.DoneSignal != nil),
	)

	return b.updates.submit(b.ctx, func(stream CommandStream) error {
		return stream.CmdCopyBuffer(info.Staging.native, b.native, []core1_0.BufferCopy{
			{
				SrcOffset: info.SourceOffset,
				DstOffset: 0,
				Size:      size,
			},
		})
	}, info.WaitSignal, info.waitStage(), info.DoneSignal)
}

// Wait blocks until the last submitted update of this buffer has completed
func (b *Buffer) Wait() (common.VkResult, error) {
	if b.destroyed {
		return core1_0.VKErrorUnknown, misuse("Wait called on a destroyed buffer")
	}
	return b.updates.wait(b.ctx)
}

// Destroy waits for outstanding updates and releases the buffer and its allocation. Calling
// Destroy more than once does nothing.
func (b *Buffer) Destroy() error {
	if b.destroyed {
		return nil
	}
	b.destroyed = true

	waitErr := b.updates.destroy(b.ctx)
	b.native.Destroy()
	_, releaseErr := b.release()

	return errors.CombineErrors(waitErr, releaseErr)
}

func (b *Buffer) Size() int                       { return b.size }
func (b *Buffer) Usage() core1_0.BufferUsageFlags { return b.usage }
func (b *Buffer) Locality() Locality              { return b.locality }
func (b *Buffer) Handle() memory.Handle           { return b.handle }
func (b *Buffer) Native() NativeBuffer            { return b.native }
func (b *Buffer) IsBound() bool                   { return b.bound }
