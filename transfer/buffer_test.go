package transfer_test

import (
	"io"
	"testing"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	mock_memory "github.com/notdatboi/Spark/memory/mocks"
	"github.com/notdatboi/Spark/transfer"
	mock_transfer "github.com/notdatboi/Spark/transfer/mocks"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

const hostVisible = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

type mockEnvironment struct {
	memoryDevice *mock_memory.MockDevice
	device       *mock_transfer.MockDevice
	queue        *mock_transfer.MockQueue
	allocator    *memory.Allocator
	ctx          *transfer.Context
}

func readyContext(t *testing.T, ctrl *gomock.Controller) *mockEnvironment {
	memoryDevice := mock_memory.NewMockDevice(ctrl)
	memoryDevice.EXPECT().MemoryProperties().Return(&core1_0.PhysicalDeviceMemoryProperties{
		MemoryTypes: []core1_0.MemoryType{
			{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
			{PropertyFlags: hostVisible, HeapIndex: 1},
		},
		MemoryHeaps: []core1_0.MemoryHeap{
			{Size: 1 << 30},
			{Size: 1 << 28},
		},
	}).AnyTimes()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	allocator, err := memory.New(logger, memoryDevice, memory.CreateOptions{})
	require.NoError(t, err)

	device := mock_transfer.NewMockDevice(ctrl)
	queue := mock_transfer.NewMockQueue(ctrl)

	ctx, err := transfer.NewContext(logger, allocator, device, queue)
	require.NoError(t, err)

	return &mockEnvironment{
		memoryDevice: memoryDevice,
		device:       device,
		queue:        queue,
		allocator:    allocator,
		ctx:          ctx,
	}
}

func (e *mockEnvironment) expectBuffer(ctrl *gomock.Controller, size int) *mock_transfer.MockNativeBuffer {
	native := mock_transfer.NewMockNativeBuffer(ctrl)
	native.EXPECT().MemoryRequirements().Return(&core1_0.MemoryRequirements{
		Size:           size,
		Alignment:      16,
		MemoryTypeBits: 0b11,
	})
	e.device.EXPECT().CreateBuffer(size, gomock.Any()).Return(native, core1_0.VKSuccess, nil)
	return native
}

func (e *mockEnvironment) expectMemory(ctrl *gomock.Controller, memoryType int, size int) *mock_memory.MockMemory {
	mem := mock_memory.NewMockMemory(ctrl)
	mem.EXPECT().Size().Return(size).AnyTimes()
	e.memoryDevice.EXPECT().AllocateMemory(memoryType, size).Return(mem, core1_0.VKSuccess, nil)
	return mem
}

func TestBufferLocalityChoosesMemoryFlags(t *testing.T) {
	testCases := map[string]struct {
		Locality     transfer.Locality
		ExpectedType int
	}{
		"DeviceLocal": {
			Locality:     transfer.LocalityDeviceLocal,
			ExpectedType: 0,
		},
		"HostVisible": {
			Locality:     transfer.LocalityHostVisible,
			ExpectedType: 1,
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			env := readyContext(t, ctrl)

			native := env.expectBuffer(ctrl, 64)
			mem := env.expectMemory(ctrl, testCase.ExpectedType, 64)

			buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
				Size:              64,
				Usage:             core1_0.BufferUsageVertexBuffer,
				Locality:          testCase.Locality,
				InstantAllocation: true,
			})
			require.NoError(t, err)

			info, err := env.allocator.BlockInfo(buffer.Handle())
			require.NoError(t, err)
			require.Equal(t, testCase.Locality.MemoryFlags(), info.Flags)
			require.Equal(t, testCase.ExpectedType, info.MemoryTypeIndex)

			native.EXPECT().Destroy()
			mem.EXPECT().Free()
			require.NoError(t, buffer.Destroy())
		})
	}
}

func TestBufferBindMemoryIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	native := env.expectBuffer(ctrl, 48)

	buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:     48,
		Usage:    core1_0.BufferUsageUniformBuffer,
		Locality: transfer.LocalityHostVisible,
	})
	require.NoError(t, err)

	pending, err := env.allocator.IsPending(buffer.Handle())
	require.NoError(t, err)
	require.True(t, pending)

	mem := env.expectMemory(ctrl, 1, 48)
	native.EXPECT().BindMemory(mem, 0).Return(core1_0.VKSuccess, nil).Times(1)

	_, err = buffer.BindMemory()
	require.NoError(t, err)
	require.True(t, buffer.IsBound())

	_, err = buffer.BindMemory()
	require.NoError(t, err)

	native.EXPECT().Destroy()
	mem.EXPECT().Free()
	require.NoError(t, buffer.Destroy())
}

func TestBufferUpdateHostVisible(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	native := env.expectBuffer(ctrl, 8)
	mem := env.expectMemory(ctrl, 1, 8)

	buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              8,
		Locality:          transfer.LocalityHostVisible,
		InstantAllocation: true,
	})
	require.NoError(t, err)

	_, err = buffer.UpdateHostVisible([]byte{1, 2, 3})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	native.EXPECT().BindMemory(mem, 0).Return(core1_0.VKSuccess, nil)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	backing := make([]byte, 8)
	mem.EXPECT().Map(0, 8).Return(unsafe.Pointer(&backing[0]), core1_0.VKSuccess, nil)
	mem.EXPECT().Unmap().Return(nil)

	_, err = buffer.UpdateHostVisible([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0}, backing)

	_, err = buffer.UpdateHostVisible(make([]byte, 9))
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	_, err = buffer.UpdateDeviceLocal(transfer.UpdateInfo{})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	native.EXPECT().Destroy()
	mem.EXPECT().Free()
	require.NoError(t, buffer.Destroy())
}

func TestBufferUpdateDeviceLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	stagingNative := env.expectBuffer(ctrl, 32)
	stagingMemory := env.expectMemory(ctrl, 1, 32)
	staging, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              32,
		Usage:             core1_0.BufferUsageTransferSrc,
		Locality:          transfer.LocalityHostVisible,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	stagingNative.EXPECT().BindMemory(stagingMemory, 0).Return(core1_0.VKSuccess, nil)
	_, err = staging.BindMemory()
	require.NoError(t, err)

	native := env.expectBuffer(ctrl, 32)
	mem := env.expectMemory(ctrl, 0, 32)
	buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              32,
		Usage:             core1_0.BufferUsageTransferDst | core1_0.BufferUsageVertexBuffer,
		Locality:          transfer.LocalityDeviceLocal,
		InstantAllocation: true,
	})
	require.NoError(t, err)

	_, err = buffer.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	native.EXPECT().BindMemory(mem, 0).Return(core1_0.VKSuccess, nil)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	_, err = buffer.UpdateHostVisible([]byte{1})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	stream := mock_transfer.NewMockCommandStream(ctrl)
	fence := mock_transfer.NewMockFence(ctrl)
	wait := mock_transfer.NewMockSignal(ctrl)
	done := mock_transfer.NewMockSignal(ctrl)

	env.device.EXPECT().CreateCommandStream().Return(stream, core1_0.VKSuccess, nil)
	env.device.EXPECT().CreateFence().Return(fence, core1_0.VKSuccess, nil)

	gomock.InOrder(
		stream.EXPECT().Begin().Return(core1_0.VKSuccess, nil),
		stream.EXPECT().CmdCopyBuffer(stagingNative, native, []core1_0.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: 32},
		}).Return(nil),
		stream.EXPECT().End().Return(core1_0.VKSuccess, nil),
		env.queue.EXPECT().Submit(transfer.Submission{
			Stream:     stream,
			WaitSignal: wait,
			WaitStage:  core1_0.PipelineStageFragmentShader,
			DoneSignal: done,
		}, fence).Return(core1_0.VKSuccess, nil),
		fence.EXPECT().Wait(transfer.DefaultWaitTimeout).Return(core1_0.VKSuccess, nil),
		fence.EXPECT().Reset().Return(core1_0.VKSuccess, nil),
	)

	_, err = buffer.UpdateDeviceLocal(transfer.UpdateInfo{
		Staging:          staging,
		WaitSignal:       wait,
		DestinationStage: core1_0.PipelineStageFragmentShader,
		DoneSignal:       done,
	})
	require.NoError(t, err)

	_, err = buffer.Wait()
	require.NoError(t, err)

	stream.EXPECT().Free()
	fence.EXPECT().Destroy()
	native.EXPECT().Destroy()
	mem.EXPECT().Free()
	require.NoError(t, buffer.Destroy())

	stagingNative.EXPECT().Destroy()
	stagingMemory.EXPECT().Free()
	require.NoError(t, staging.Destroy())
}

func TestBufferWaitTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)
	env.ctx.WaitTimeout = 10 * time.Millisecond

	stagingNative := env.expectBuffer(ctrl, 16)
	stagingMemory := env.expectMemory(ctrl, 1, 16)
	staging, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              16,
		Locality:          transfer.LocalityHostVisible,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	stagingNative.EXPECT().BindMemory(stagingMemory, 0).Return(core1_0.VKSuccess, nil)
	_, err = staging.BindMemory()
	require.NoError(t, err)

	native := env.expectBuffer(ctrl, 16)
	mem := env.expectMemory(ctrl, 0, 16)
	buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              16,
		Locality:          transfer.LocalityDeviceLocal,
		InstantAllocation: true,
	})
	require.NoError(t, err)
	native.EXPECT().BindMemory(mem, 0).Return(core1_0.VKSuccess, nil)
	_, err = buffer.BindMemory()
	require.NoError(t, err)

	stream := mock_transfer.NewMockCommandStream(ctrl)
	fence := mock_transfer.NewMockFence(ctrl)
	env.device.EXPECT().CreateCommandStream().Return(stream, core1_0.VKSuccess, nil)
	env.device.EXPECT().CreateFence().Return(fence, core1_0.VKSuccess, nil)
	stream.EXPECT().Begin().Return(core1_0.VKSuccess, nil)
	stream.EXPECT().CmdCopyBuffer(stagingNative, native, gomock.Any()).Return(nil)
	stream.EXPECT().End().Return(core1_0.VKSuccess, nil)
	env.queue.EXPECT().Submit(gomock.Any(), fence).Return(core1_0.VKSuccess, nil)

	_, err = buffer.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging})
	require.NoError(t, err)

	fence.EXPECT().Wait(10*time.Millisecond).Return(core1_0.VKTimeout, errors.New("timed out")).Times(2)

	_, err = buffer.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, memory.ErrDeviceOperation))

	stream.EXPECT().Free()
	fence.EXPECT().Destroy()
	native.EXPECT().Destroy()
	mem.EXPECT().Free()
	err = buffer.Destroy()
	require.True(t, errors.Is(err, memory.ErrDeviceOperation))

	// Destroy runs once, even after a failure
	require.NoError(t, buffer.Destroy())

	stagingNative.EXPECT().Destroy()
	stagingMemory.EXPECT().Free()
	require.NoError(t, staging.Destroy())
}

func TestBufferDestroy(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	native := env.expectBuffer(ctrl, 16)
	buffer, _, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:     16,
		Locality: transfer.LocalityDeviceLocal,
	})
	require.NoError(t, err)
	handle := buffer.Handle()

	// The pending group is materialized so the release can be applied
	mem := env.expectMemory(ctrl, 0, 16)
	native.EXPECT().Destroy().Times(1)
	mem.EXPECT().Free().Times(1)

	require.NoError(t, buffer.Destroy())
	require.NoError(t, buffer.Destroy())

	_, err = env.allocator.BlockInfo(handle)
	require.True(t, errors.Is(err, memory.ErrAllocation))

	_, err = buffer.BindMemory()
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
	_, err = buffer.UpdateHostVisible([]byte{1})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
	_, err = buffer.Wait()
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
}

func TestNewBufferAllocationFailureDestroysNative(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	native := env.expectBuffer(ctrl, 16)
	env.memoryDevice.EXPECT().AllocateMemory(1, 16).Return(nil, core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())
	native.EXPECT().Destroy()

	_, res, err := transfer.NewBuffer(env.ctx, transfer.BufferCreateInfo{
		Size:              16,
		Locality:          transfer.LocalityHostVisible,
		InstantAllocation: true,
	})
	require.Equal(t, core1_0.VKErrorOutOfDeviceMemory, res)
	require.True(t, errors.Is(err, memory.ErrAllocation))
	require.NoError(t, env.allocator.Validate())
}
