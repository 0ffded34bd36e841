package transfer

import (
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// updateStream is a reusable command stream together with the fence guarding it. A resource
// owns one updateStream per kind of work it submits, and every submission on it waits for the
// previous one to finish before the stream is re-recorded.
type updateStream struct {
	name     string
	stream   CommandStream
	fence    Fence
	inFlight bool
}

func (s *updateStream) acquire(ctx *Context) (CommandStream, common.VkResult, error) {
	if s.stream == nil {
		stream, res, err := ctx.Device.CreateCommandStream()
		if err != nil {
			return nil, res, memory.DeviceOperationError(err, "failed to create the %s command stream", s.name)
		}
		s.stream = stream
	}

	if s.fence == nil {
		fence, res, err := ctx.Device.CreateFence()
		if err != nil {
			return nil, res, memory.DeviceOperationError(err, "failed to create the %s fence", s.name)
		}
		s.fence = fence
	}

	res, err := s.wait(ctx)
	if err != nil {
		return nil, res, err
	}

	return s.stream, core1_0.VKSuccess, nil
}

// wait blocks until the last submission has completed and clears the fence for the next one
func (s *updateStream) wait(ctx *Context) (common.VkResult, error) {
	if !s.inFlight {
		return core1_0.VKSuccess, nil
	}

	res, err := s.fence.Wait(ctx.waitTimeout())
	if err != nil {
		return res, memory.DeviceOperationError(err, "waiting for the previous %s submission", s.name)
	}

	res, err = s.fence.Reset()
	if err != nil {
		return res, memory.DeviceOperationError(err, "resetting the %s fence", s.name)
	}

	s.inFlight = false
	return res, nil
}

func (s *updateStream) submit(
	ctx *Context,
	record func(stream CommandStream) error,
	waitSignal Signal,
	waitStage core1_0.PipelineStageFlags,
	doneSignal Signal,
) (common.VkResult, error) {
	stream, res, err := s.acquire(ctx)
	if err != nil {
		return res, err
	}

	res, err = stream.Begin()
	if err != nil {
		return res, memory.DeviceOperationError(err, "beginning the %s command stream", s.name)
	}

	err = record(stream)
	if err != nil {
		return core1_0.VKErrorUnknown, memory.DeviceOperationError(err, "recording the %s command stream", s.name)
	}

	res, err = stream.End()
	if err != nil {
		return res, memory.DeviceOperationError(err, "ending the %s command stream", s.name)
	}

	res, err = ctx.Queue.Submit(Submission{
		Stream:     stream,
		WaitSignal: waitSignal,
		WaitStage:  waitStage,
		DoneSignal: doneSignal,
	}, s.fence)
	if err != nil {
		return res, memory.DeviceOperationError(err, "submitting the %s command stream", s.name)
	}

	s.inFlight = true
	return res, nil
}

func (s *updateStream) destroy(ctx *Context) error {
	_, err := s.wait(ctx)

	if s.stream != nil {
		s.stream.Free()
		s.stream = nil
	}
	if s.fence != nil {
		s.fence.Destroy()
		s.fence = nil
	}
	s.inFlight = false

	return err
}
