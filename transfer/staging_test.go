package transfer_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/internal/simdevice"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
)

func TestNewStagingBuffer(t *testing.T) {
	device, ctx := simContext(t)

	data := []byte("staged bytes")
	staging, _, err := transfer.NewStagingBuffer(ctx, data)
	require.NoError(t, err)
	require.True(t, staging.IsBound())
	require.Equal(t, transfer.LocalityHostVisible, staging.Locality())
	require.Equal(t, len(data), staging.Size())
	require.Equal(t, data, staging.Native().(*simdevice.Buffer).Contents())

	info, err := ctx.Allocator.BlockInfo(staging.Handle())
	require.NoError(t, err)
	require.Equal(t, memory.BlockMaterialized, info.State)

	require.NoError(t, staging.Destroy())
	require.Equal(t, 0, device.Stats().LiveMemories)

	_, _, err = transfer.NewStagingBuffer(ctx, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
}

func TestBufferUpload(t *testing.T) {
	testCases := map[string]transfer.Locality{
		"DeviceLocal": transfer.LocalityDeviceLocal,
		"HostVisible": transfer.LocalityHostVisible,
	}

	for name, locality := range testCases {
		t.Run(name, func(t *testing.T) {
			device, ctx := simContext(t)

			buffer, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
				Size:     24,
				Usage:    core1_0.BufferUsageTransferDst | core1_0.BufferUsageVertexBuffer,
				Locality: locality,
			})
			require.NoError(t, err)

			_, err = buffer.BindMemory()
			require.NoError(t, err)

			data := []byte("0123456789abcdefghijklmn")
			_, err = buffer.Upload(data, nil, nil, core1_0.PipelineStageTransfer)
			require.NoError(t, err)
			require.Equal(t, data, buffer.Native().(*simdevice.Buffer).Contents())

			require.NoError(t, buffer.Destroy())
			require.NoError(t, ctx.Allocator.Validate())
			require.Equal(t, 0, device.Stats().LiveMemories)
		})
	}
}

func TestBufferUploadPartial(t *testing.T) {
	_, ctx := simContext(t)

	buffer, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:              8,
		Usage:             core1_0.BufferUsageTransferDst,
		Locality:          transfer.LocalityDeviceLocal,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	_, err = buffer.Upload([]byte{9, 9, 9}, nil, nil, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 9, 0, 0, 0, 0, 0}, buffer.Native().(*simdevice.Buffer).Contents())

	_, err = buffer.Upload(make([]byte, 9), nil, nil, 0)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	require.NoError(t, buffer.Destroy())
}

func TestUploadChainsSignals(t *testing.T) {
	device, ctx := simContext(t)

	vertices, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:     4,
		Usage:    core1_0.BufferUsageTransferDst | core1_0.BufferUsageVertexBuffer,
		Locality: transfer.LocalityDeviceLocal,
	})
	require.NoError(t, err)
	indices, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:     4,
		Usage:    core1_0.BufferUsageTransferDst | core1_0.BufferUsageIndexBuffer,
		Locality: transfer.LocalityDeviceLocal,
	})
	require.NoError(t, err)

	// Both buffers were coalesced into one pending block
	require.Equal(t, vertices.Handle().Index(), indices.Handle().Index())

	_, err = vertices.BindMemory()
	require.NoError(t, err)
	_, err = indices.BindMemory()
	require.NoError(t, err)
	require.Equal(t, 1, device.Stats().TotalAllocations)

	between, _, err := device.CreateSignal()
	require.NoError(t, err)

	_, err = vertices.Upload([]byte{1, 2, 3, 4}, nil, between, core1_0.PipelineStageTransfer)
	require.NoError(t, err)
	_, err = indices.Upload([]byte{5, 6, 7, 8}, between, nil, core1_0.PipelineStageTransfer)
	require.NoError(t, err)

	require.False(t, between.(*simdevice.Signal).IsSignaled())
	require.Equal(t, []byte{1, 2, 3, 4}, vertices.Native().(*simdevice.Buffer).Contents())
	require.Equal(t, []byte{5, 6, 7, 8}, indices.Native().(*simdevice.Buffer).Contents())

	between.Destroy()
	require.NoError(t, vertices.Destroy())
	require.Equal(t, 1, device.Stats().LiveMemories)
	require.NoError(t, indices.Destroy())
	require.Equal(t, 0, device.Stats().LiveMemories)
}

func TestUploadFenceTimeout(t *testing.T) {
	device, ctx := simContext(t)
	ctx.WaitTimeout = time.Millisecond

	buffer, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:              4,
		Usage:             core1_0.BufferUsageTransferDst,
		Locality:          transfer.LocalityDeviceLocal,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	device.HoldFences(true)
	_, err = buffer.Upload([]byte{1, 2, 3, 4}, nil, nil, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, memory.ErrDeviceOperation))

	device.HoldFences(false)
	device.ReleaseFences()

	_, err = buffer.Wait()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, buffer.Native().(*simdevice.Buffer).Contents())

	require.NoError(t, buffer.Destroy())
}

func TestSubmitFailureIsDeviceOperationError(t *testing.T) {
	device, ctx := simContext(t)

	buffer, _, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:              4,
		Usage:             core1_0.BufferUsageTransferDst,
		Locality:          transfer.LocalityDeviceLocal,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	device.FailSubmits(1)
	_, err = buffer.Upload([]byte{1, 2, 3, 4}, nil, nil, 0)
	require.True(t, errors.Is(err, memory.ErrDeviceOperation))

	// The stream is usable again once the device recovers
	_, err = buffer.Upload([]byte{1, 2, 3, 4}, nil, nil, 0)
	require.NoError(t, err)

	require.NoError(t, buffer.Destroy())
}
