package simdevice

import (
	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type streamState int

const (
	streamInitial streamState = iota
	streamRecording
	streamExecutable
)

// command runs with the device lock held
type command func() error

// CommandStream records commands as closures and runs them when submitted
type CommandStream struct {
	device   *Device
	state    streamState
	commands []command
	freed    bool
}

func (d *Device) CreateCommandStream() (transfer.CommandStream, common.VkResult, error) {
	return &CommandStream{device: d}, core1_0.VKSuccess, nil
}

func (s *CommandStream) VulkanCommandBuffer() core1_0.CommandBuffer { return nil }

func (s *CommandStream) Begin() (common.VkResult, error) {
	if s.freed {
		return core1_0.VKErrorUnknown, errors.New("attempted to begin a freed command stream")
	}
	if s.state == streamRecording {
		return core1_0.VKErrorUnknown, errors.New("command stream is already recording")
	}

	s.state = streamRecording
	s.commands = nil
	return core1_0.VKSuccess, nil
}

func (s *CommandStream) record(cmd command) error {
	if s.state != streamRecording {
		return errors.New("command recorded outside of Begin/End")
	}
	s.commands = append(s.commands, cmd)
	return nil
}

func (s *CommandStream) CmdCopyBuffer(source transfer.NativeBuffer, destination transfer.NativeBuffer, regions []core1_0.BufferCopy) error {
	src, ok := source.(*Buffer)
	if !ok {
		return errors.New("copy source belongs to another device")
	}
	dst, ok := destination.(*Buffer)
	if !ok {
		return errors.New("copy destination belongs to another device")
	}
	if src.usage&core1_0.BufferUsageTransferSrc == 0 {
		return errors.New("copy source was not created with BufferUsageTransferSrc")
	}

	return s.record(func() error {
		srcBytes, err := src.binding.bytes(src.size)
		if err != nil {
			return errors.Wrap(err, "copy source")
		}
		dstBytes, err := dst.binding.bytes(dst.size)
		if err != nil {
			return errors.Wrap(err, "copy destination")
		}

		for _, region := range regions {
			if region.SrcOffset+region.Size > len(srcBytes) || region.DstOffset+region.Size > len(dstBytes) {
				return errors.Newf("copy region %+v is out of bounds", region)
			}
			copy(dstBytes[region.DstOffset:region.DstOffset+region.Size], srcBytes[region.SrcOffset:region.SrcOffset+region.Size])
		}
		return nil
	})
}

func (s *CommandStream) CmdCopyBufferToImage(source transfer.NativeBuffer, destination transfer.NativeImage, layout core1_0.ImageLayout, regions []core1_0.BufferImageCopy) error {
	src, ok := source.(*Buffer)
	if !ok {
		return errors.New("copy source belongs to another device")
	}
	dst, ok := destination.(*Image)
	if !ok {
		return errors.New("copy destination belongs to another device")
	}

	return s.record(func() error {
		if dst.layout != layout {
			return errors.Newf("image copy declared layout %d, but the image is in layout %d", layout, dst.layout)
		}
		if layout != core1_0.ImageLayoutTransferDstOptimal && layout != core1_0.ImageLayoutGeneral {
			return errors.Newf("image copies cannot write to layout %d", layout)
		}

		srcBytes, err := src.binding.bytes(src.size)
		if err != nil {
			return errors.Wrap(err, "copy source")
		}
		dstBytes, err := dst.binding.bytes(dst.byteSize())
		if err != nil {
			return errors.Wrap(err, "copy destination")
		}

		for _, region := range regions {
			if region.BufferOffset < 0 || region.BufferOffset+len(dstBytes) > len(srcBytes) {
				return errors.Newf("copy of %d bytes at offset %d overruns a %d byte source", len(dstBytes), region.BufferOffset, len(srcBytes))
			}
			copy(dstBytes, srcBytes[region.BufferOffset:region.BufferOffset+len(dstBytes)])
		}
		return nil
	})
}

func (s *CommandStream) CmdPipelineBarrier(sourceStage, destinationStage core1_0.PipelineStageFlags, barriers []transfer.ImageBarrier) error {
	images := make([]*Image, 0, len(barriers))
	for _, barrier := range barriers {
		image, ok := barrier.Image.(*Image)
		if !ok {
			return errors.New("barrier image belongs to another device")
		}
		images = append(images, image)
	}

	return s.record(func() error {
		for index, barrier := range barriers {
			image := images[index]
			if barrier.OldLayout != core1_0.ImageLayoutUndefined && image.layout != barrier.OldLayout {
				return errors.Newf("barrier expects layout %d, but the image is in layout %d", barrier.OldLayout, image.layout)
			}
			image.layout = barrier.NewLayout
		}
		return nil
	})
}

func (s *CommandStream) End() (common.VkResult, error) {
	if s.state != streamRecording {
		return core1_0.VKErrorUnknown, errors.New("command stream is not recording")
	}
	s.state = streamExecutable
	return core1_0.VKSuccess, nil
}

func (s *CommandStream) Free() {
	s.freed = true
	s.commands = nil
}

// Submit runs the submission's commands immediately. A submission that waits on a signal
// nothing has signaled yet is rejected, since with synchronous execution it could never run.
func (d *Device) Submit(submission transfer.Submission, fence transfer.Fence) (common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.failSubmits > 0 {
		d.failSubmits--
		return core1_0.VKErrorUnknown, errors.New("injected submit failure")
	}

	stream, ok := submission.Stream.(*CommandStream)
	if !ok || stream.freed {
		return core1_0.VKErrorUnknown, errors.New("submitted an invalid command stream")
	}
	if stream.state != streamExecutable {
		return core1_0.VKErrorUnknown, errors.New("submitted a command stream that has not been ended")
	}

	var simFence *Fence
	if fence != nil {
		simFence, ok = fence.(*Fence)
		if !ok || simFence.destroyed {
			return core1_0.VKErrorUnknown, errors.New("submitted with an invalid fence")
		}
		if simFence.signaled {
			return core1_0.VKErrorUnknown, errors.New("submitted with a fence that is already signaled")
		}
	}

	if submission.WaitSignal != nil {
		wait, ok := submission.WaitSignal.(*Signal)
		if !ok || wait.destroyed {
			return core1_0.VKErrorUnknown, errors.New("submission waits on an invalid signal")
		}
		if !wait.signaled {
			return core1_0.VKErrorUnknown, errors.New("submission waits on a signal that no earlier submission signals")
		}
		wait.signaled = false
	}

	for _, cmd := range stream.commands {
		err := cmd()
		if err != nil {
			return core1_0.VKErrorUnknown, errors.Wrap(err, "executing submission")
		}
	}
	d.submissions++

	if submission.DoneSignal != nil {
		done, ok := submission.DoneSignal.(*Signal)
		if !ok || done.destroyed {
			return core1_0.VKErrorUnknown, errors.New("submission signals an invalid signal")
		}
		done.signaled = true
	}

	if simFence != nil {
		if d.holdFences {
			d.heldFences = append(d.heldFences, simFence)
		} else {
			simFence.signaled = true
		}
	}

	if d.logger != nil {
		d.logger.Debug("SimDevice::Submit",
			slog.Int("commands", len(stream.commands)),
			slog.Bool("waits", submission.WaitSignal != nil),
			slog.Bool("signals", submission.DoneSignal != nil),
		)
	}

	return core1_0.VKSuccess, nil
}
