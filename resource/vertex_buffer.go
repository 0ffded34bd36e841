package resource

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// IndexSize is the size in bytes of a single index. Indices are always 32-bit.
const IndexSize = 4

type VertexBufferCreateInfo struct {
	// BindingSizes holds the size in bytes of each vertex binding. Every binding gets its own
	// buffer.
	BindingSizes []int
	// IndexCount is the number of indices to reserve. Zero means the vertex buffer is not
	// indexed.
	IndexCount int
}

// VertexBuffer is a set of device-local vertex bindings and an optional index buffer. All of
// its buffers are allocated lazily with the same memory properties, so they share a single
// allocation once bound.
type VertexBuffer struct {
	ctx       *transfer.Context
	bindings  []*transfer.Buffer
	signals   []transfer.Signal
	indices   *transfer.Buffer
	destroyed bool
}

func NewVertexBuffer(ctx *transfer.Context, info VertexBufferCreateInfo) (*VertexBuffer, common.VkResult, error) {
	if len(info.BindingSizes) == 0 {
		return nil, core1_0.VKErrorUnknown, misuse("a vertex buffer needs at least one binding")
	}
	if info.IndexCount < 0 {
		return nil, core1_0.VKErrorUnknown, misuse("index count must not be negative, but was %d", info.IndexCount)
	}

	vertexBuffer := &VertexBuffer{ctx: ctx}

	for binding, size := range info.BindingSizes {
		buffer, res, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
			Size:     size,
			Usage:    core1_0.BufferUsageVertexBuffer | core1_0.BufferUsageTransferDst,
			Locality: transfer.LocalityDeviceLocal,
		})
		if err != nil {
			return nil, res, errors.CombineErrors(errors.Wrapf(err, "binding %d", binding), vertexBuffer.Destroy())
		}
		vertexBuffer.bindings = append(vertexBuffer.bindings, buffer)

		signal, res, err := ctx.Device.CreateSignal()
		if err != nil {
			err = memory.DeviceOperationError(err, "failed to create the update signal for binding %d", binding)
			return nil, res, errors.CombineErrors(err, vertexBuffer.Destroy())
		}
		vertexBuffer.signals = append(vertexBuffer.signals, signal)
	}

	if info.IndexCount > 0 {
		indices, res, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
			Size:     info.IndexCount * IndexSize,
			Usage:    core1_0.BufferUsageIndexBuffer | core1_0.BufferUsageTransferDst,
			Locality: transfer.LocalityDeviceLocal,
		})
		if err != nil {
			return nil, res, errors.CombineErrors(errors.Wrap(err, "index buffer"), vertexBuffer.Destroy())
		}
		vertexBuffer.indices = indices
	}

	ctx.Logger.Debug("VertexBuffer::New",
		slog.Int("bindings", len(info.BindingSizes)),
		slog.Int("indices", info.IndexCount),
	)

	return vertexBuffer, core1_0.VKSuccess, nil
}

func (v *VertexBuffer) buffers() []*transfer.Buffer {
	if v.indices == nil {
		return v.bindings
	}
	return append(append([]*transfer.Buffer(nil), v.bindings...), v.indices)
}

// BindMemory binds every binding and the index buffer. The first call materializes the shared
// allocation.
func (v *VertexBuffer) BindMemory() (common.VkResult, error) {
	if v.destroyed {
		return core1_0.VKErrorUnknown, misuse("attempted to bind a destroyed vertex buffer")
	}

	for _, buffer := range v.buffers() {
		res, err := buffer.BindMemory()
		if err != nil {
			return res, err
		}
	}

	return core1_0.VKSuccess, nil
}

// UpdateBinding uploads data into a binding through a staging buffer. The copy waits on
// waitSignal at stage and signals the binding's Signal when it completes. The binding's
// Signal must be consumed by a later submission before the binding is updated again.
func (v *VertexBuffer) UpdateBinding(binding int, data []byte, waitSignal transfer.Signal, stage core1_0.PipelineStageFlags) (common.VkResult, error) {
	if v.destroyed {
		return core1_0.VKErrorUnknown, misuse("attempted to update a destroyed vertex buffer")
	}
	if binding < 0 || binding >= len(v.bindings) {
		return core1_0.VKErrorUnknown, misuse("binding %d does not exist, the vertex buffer has %d", binding, len(v.bindings))
	}

	return v.bindings[binding].Upload(data, waitSignal, v.signals[binding], stage)
}

// UpdateIndices uploads indices into the index buffer through a staging buffer
func (v *VertexBuffer) UpdateIndices(indices []uint32, waitSignal transfer.Signal, stage core1_0.PipelineStageFlags) (common.VkResult, error) {
	if v.destroyed {
		return core1_0.VKErrorUnknown, misuse("attempted to update a destroyed vertex buffer")
	}
	if v.indices == nil {
		return core1_0.VKErrorUnknown, misuse("the vertex buffer was created without indices")
	}
	if len(indices) == 0 {
		return core1_0.VKSuccess, nil
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*IndexSize)
	return v.indices.Upload(data, waitSignal, nil, stage)
}

// Buffers returns the vertex binding buffers in binding order
func (v *VertexBuffer) Buffers() []*transfer.Buffer {
	return v.bindings
}

// IndexBuffer returns nil when the vertex buffer is not indexed
func (v *VertexBuffer) IndexBuffer() *transfer.Buffer {
	return v.indices
}

// Signal is signaled by the device each time the binding finishes updating
func (v *VertexBuffer) Signal(binding int) transfer.Signal {
	if binding < 0 || binding >= len(v.signals) {
		return nil
	}
	return v.signals[binding]
}

// Destroy waits for outstanding updates, then destroys every buffer and signal. Calls after the
// first are no-ops.
func (v *VertexBuffer) Destroy() error {
	if v.destroyed {
		return nil
	}
	v.destroyed = true

	var err error
	for _, buffer := range v.buffers() {
		err = errors.CombineErrors(err, buffer.Destroy())
	}
	for _, signal := range v.signals {
		signal.Destroy()
	}

	v.bindings = nil
	v.signals = nil
	v.indices = nil

	return err
}
