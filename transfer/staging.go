package transfer

import (
	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// NewStagingBuffer creates a bound, host-visible transfer source holding a copy of data
func NewStagingBuffer(ctx *Context, data []byte) (*Buffer, common.VkResult, error) {
	staging, res, err := NewBuffer(ctx, BufferCreateInfo{
		Size:              len(data),
		Usage:             core1_0.BufferUsageTransferSrc,
		Locality:          LocalityHostVisible,
		InstantAllocation: true,
	})
	if err != nil {
		return nil, res, err
	}

	res, err = staging.BindMemory()
	if err != nil {
		return nil, res, errors.CombineErrors(err, staging.Destroy())
	}

	res, err = staging.UpdateHostVisible(data)
	if err != nil {
		return nil, res, errors.CombineErrors(err, staging.Destroy())
	}

	return staging, res, nil
}

// Upload writes data into a bound buffer of either locality. Device-local buffers are written
// through a temporary staging buffer; the copy waits on waitSignal at stage, signals doneSignal,
// and is complete by the time Upload returns.
func (b *Buffer) Upload(data []byte, waitSignal Signal, doneSignal Signal, stage core1_0.PipelineStageFlags) (common.VkResult, error) {
	if b.locality == LocalityHostVisible {
		return b.UpdateHostVisible(data)
	}

	err := b.checkUpdatable(LocalityDeviceLocal, "Upload")
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	staging, res, err := NewStagingBuffer(b.ctx, data)
	if err != nil {
		return res, err
	}

	res, err = b.UpdateDeviceLocal(UpdateInfo{
		Staging:          staging,
		Size:             len(data),
		WaitSignal:       waitSignal,
		DestinationStage: stage,
		DoneSignal:       doneSignal,
	})
	if err == nil {
		res, err = b.Wait()
	}

	return res, errors.CombineErrors(err, staging.Destroy())
}

// Upload fills the image from data, which must be exactly ByteSize bytes, and leaves it in
// core1_0.ImageLayoutShaderReadOnlyOptimal. The image is moved to
// core1_0.ImageLayoutTransferDstOptimal first if needed. The first submitted step waits on
// waitSignal, the last one signals doneSignal, and all of the work is complete by the time
// Upload returns.
func (i *Image) Upload(data []byte, waitSignal Signal, doneSignal Signal) (common.VkResult, error) {
	err := i.checkUpdatable(LocalityDeviceLocal, "Upload")
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}
	if len(data) != i.ByteSize() {
		return core1_0.VKErrorUnknown, misuse("image needs %d bytes, but received %d", i.ByteSize(), len(data))
	}

	staging, res, err := NewStagingBuffer(i.ctx, data)
	if err != nil {
		return res, err
	}

	var signals []Signal
	cleanup := func(err error) error {
		for _, signal := range signals {
			signal.Destroy()
		}
		return errors.CombineErrors(err, staging.Destroy())
	}

	newSignal := func() (Signal, common.VkResult, error) {
		signal, res, err := i.ctx.Device.CreateSignal()
		if err != nil {
			return nil, res, memory.DeviceOperationError(err, "failed to create an upload signal")
		}
		signals = append(signals, signal)
		return signal, res, nil
	}

	copyWait := waitSignal
	if i.layout != core1_0.ImageLayoutTransferDstOptimal {
		transitioned, res, err := newSignal()
		if err != nil {
			return res, cleanup(err)
		}

		res, err = i.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, waitSignal, transitioned)
		if err != nil {
			return res, cleanup(err)
		}
		copyWait = transitioned
	}

	copied, res, err := newSignal()
	if err != nil {
		return res, cleanup(err)
	}

	res, err = i.UpdateDeviceLocal(UpdateInfo{
		Staging:          staging,
		WaitSignal:       copyWait,
		DestinationStage: core1_0.PipelineStageTransfer,
		DoneSignal:       copied,
	})
	if err != nil {
		// The transition may still be waiting on the device
		_, waitErr := i.Wait()
		return res, cleanup(errors.CombineErrors(err, waitErr))
	}

	res, err = i.ChangeLayout(core1_0.ImageLayoutShaderReadOnlyOptimal, copied, doneSignal)
	if err == nil {
		res, err = i.Wait()
	} else {
		_, waitErr := i.Wait()
		err = errors.CombineErrors(err, waitErr)
	}

	i.ctx.Logger.Debug("Image::Upload",
		slog.Int("bytes", len(data)),
		slog.Int("signals", len(signals)),
		slog.Bool("ok", err == nil),
	)

	return res, cleanup(err)
}
