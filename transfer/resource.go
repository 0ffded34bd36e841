package transfer

import (
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// resource is the allocator-facing state shared by buffers and images
type resource struct {
	ctx       *Context
	kind      string
	locality  Locality
	handle    memory.Handle
	bound     bool
	destroyed bool
}

func (r *resource) allocate(requirements *core1_0.MemoryRequirements, instant bool) (common.VkResult, error) {
	request := memory.RequestFromRequirements(requirements, r.locality.MemoryFlags())

	var handle memory.Handle
	var res common.VkResult
	var err error
	if instant {
		handle, res, err = r.ctx.Allocator.AllocateEager(request)
	} else {
		handle, res, err = r.ctx.Allocator.AllocateLazy(request)
	}
	if err != nil {
		return res, err
	}

	r.handle = handle
	return res, nil
}

func (r *resource) bind(bindMemory func(memory memory.Memory, offset int) (common.VkResult, error)) (common.VkResult, error) {
	if r.destroyed {
		return core1_0.VKErrorUnknown, misuse("attempted to bind a destroyed %s", r.kind)
	}
	if r.bound {
		return core1_0.VKSuccess, nil
	}

	mem, res, err := r.ctx.Allocator.Resolve(r.handle)
	if err != nil {
		return res, err
	}

	res, err = bindMemory(mem, r.handle.Offset())
	if err != nil {
		return res, memory.DeviceOperationError(err, "failed to bind %s memory at %s", r.kind, r.handle)
	}

	r.bound = true
	r.ctx.Logger.Debug("Resource::BindMemory",
		slog.String("kind", r.kind),
		slog.Int("block", r.handle.Index()),
		slog.Int("offset", r.handle.Offset()),
	)
	return res, nil
}

func (r *resource) checkUpdatable(locality Locality, operation string) error {
	if r.destroyed {
		return misuse("%s called on a destroyed %s", operation, r.kind)
	}
	if !r.bound {
		return misuse("%s called on a %s before BindMemory", operation, r.kind)
	}
	if r.locality != locality {
		return misuse("%s called on a %s with %s", operation, r.kind, r.locality)
	}
	return nil
}

func (r *resource) release() (common.VkResult, error) {
	if r.handle.IsNull() {
		return core1_0.VKSuccess, nil
	}

	handle := r.handle
	r.handle = memory.Handle{}
	return r.ctx.Allocator.Release(handle)
}

// UpdateInfo describes a staged copy into a device-local resource
type UpdateInfo struct {
	// Staging is a bound, host-visible buffer holding the source data
	Staging *Buffer
	// SourceOffset is the byte offset of the data within Staging
	SourceOffset int
	// Size is the number of bytes copied into a buffer. 0 copies the whole buffer.
	// Image copies always cover the full extent.
	Size int

	// WaitSignal, if present, must be signaled before the copy executes
	WaitSignal Signal
	// DestinationStage is the stage at which the copy waits on WaitSignal
	DestinationStage core1_0.PipelineStageFlags
	// DoneSignal, if present, is signaled when the copy has completed
	DoneSignal Signal
}

func (u UpdateInfo) waitStage() core1_0.PipelineStageFlags {
	if u.DestinationStage == 0 {
		return core1_0.PipelineStageTransfer
	}
	return u.DestinationStage
}

func (u UpdateInfo) checkStaging(size int) error {
	staging := u.Staging
	if staging == nil {
		return misuse("no staging buffer provided")
	}
	if staging.destroyed {
		return misuse("the staging buffer has been destroyed")
	}
	if !staging.bound {
		return misuse("the staging buffer has not been bound")
	}
	if staging.locality != LocalityHostVisible {
		return misuse("the staging buffer must be host visible, but has %s", staging.locality)
	}
	if u.SourceOffset < 0 || u.SourceOffset+size > staging.size {
		return misuse("cannot read %d bytes at offset %d from a staging buffer of size %d", size, u.SourceOffset, staging.size)
	}
	return nil
}
