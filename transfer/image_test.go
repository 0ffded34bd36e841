package transfer_test

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/internal/simdevice"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	mock_transfer "github.com/notdatboi/Spark/transfer/mocks"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

var textureExtent = core1_0.Extent3D{Width: 4, Height: 4, Depth: 1}

func simContext(t *testing.T) (*simdevice.Device, *transfer.Context) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	device := simdevice.New(logger, simdevice.Options{})

	allocator, err := memory.New(logger, device, memory.CreateOptions{})
	require.NoError(t, err)

	ctx, err := transfer.NewContext(logger, allocator, device, device)
	require.NoError(t, err)

	return device, ctx
}

func newTexture(t *testing.T, ctx *transfer.Context) *transfer.Image {
	image, _, err := transfer.NewImage(ctx, transfer.ImageCreateInfo{
		Extent: textureExtent,
		Format: core1_0.FormatR8G8B8A8SRGB,
		Usage:  core1_0.ImageUsageSampled | core1_0.ImageUsageTransferDst,
	})
	require.NoError(t, err)
	return image
}

func TestImageChangeLayoutRecordsBarrier(t *testing.T) {
	ctrl := gomock.NewController(t)
	env := readyContext(t, ctrl)

	native := mock_transfer.NewMockNativeImage(ctrl)
	native.EXPECT().MemoryRequirements().Return(&core1_0.MemoryRequirements{
		Size:           64,
		Alignment:      16,
		MemoryTypeBits: 0b01,
	})
	env.device.EXPECT().CreateImage(textureExtent, core1_0.FormatR8G8B8A8SRGB, core1_0.ImageUsageSampled).Return(native, core1_0.VKSuccess, nil)

	image, _, err := transfer.NewImage(env.ctx, transfer.ImageCreateInfo{
		Extent: textureExtent,
		Format: core1_0.FormatR8G8B8A8SRGB,
		Usage:  core1_0.ImageUsageSampled,
	})
	require.NoError(t, err)
	require.Equal(t, core1_0.ImageLayoutUndefined, image.Layout())

	_, err = image.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, nil, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	mem := env.expectMemory(ctrl, 0, 64)
	native.EXPECT().BindMemory(mem, 0).Return(core1_0.VKSuccess, nil)
	_, err = image.BindMemory()
	require.NoError(t, err)

	stream := mock_transfer.NewMockCommandStream(ctrl)
	fence := mock_transfer.NewMockFence(ctrl)
	done := mock_transfer.NewMockSignal(ctrl)
	env.device.EXPECT().CreateCommandStream().Return(stream, core1_0.VKSuccess, nil)
	env.device.EXPECT().CreateFence().Return(fence, core1_0.VKSuccess, nil)

	gomock.InOrder(
		stream.EXPECT().Begin().Return(core1_0.VKSuccess, nil),
		stream.EXPECT().CmdPipelineBarrier(core1_0.PipelineStageTopOfPipe, core1_0.PipelineStageTransfer, []transfer.ImageBarrier{
			{
				Image:             native,
				OldLayout:         core1_0.ImageLayoutUndefined,
				NewLayout:         core1_0.ImageLayoutTransferDstOptimal,
				SourceAccess:      0,
				DestinationAccess: core1_0.AccessTransferWrite,
				SubresourceRange: core1_0.ImageSubresourceRange{
					AspectMask:     core1_0.ImageAspectColor,
					BaseMipLevel:   0,
					LevelCount:     1,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
			},
		}).Return(nil),
		stream.EXPECT().End().Return(core1_0.VKSuccess, nil),
		env.queue.EXPECT().Submit(transfer.Submission{
			Stream:     stream,
			WaitStage:  core1_0.PipelineStageTopOfPipe,
			DoneSignal: done,
		}, fence).Return(core1_0.VKSuccess, nil),
	)

	_, err = image.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, nil, done)
	require.NoError(t, err)
	require.Equal(t, core1_0.ImageLayoutTransferDstOptimal, image.Layout())

	fence.EXPECT().Wait(transfer.DefaultWaitTimeout).Return(core1_0.VKSuccess, nil)
	fence.EXPECT().Reset().Return(core1_0.VKSuccess, nil)
	stream.EXPECT().Free()
	fence.EXPECT().Destroy()
	native.EXPECT().Destroy()
	mem.EXPECT().Free()
	require.NoError(t, image.Destroy())
}

func TestImageRejectsUnsupportedTransitions(t *testing.T) {
	device, ctx := simContext(t)
	image := newTexture(t, ctx)

	_, err := image.BindMemory()
	require.NoError(t, err)

	_, err = image.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, nil, nil)
	require.NoError(t, err)

	testCases := map[string]core1_0.ImageLayout{
		"TransferDstToTransferDst":  core1_0.ImageLayoutTransferDstOptimal,
		"TransferDstToUndefined":    core1_0.ImageLayoutUndefined,
		"TransferDstToDepthStencil": core1_0.ImageLayoutDepthStencilAttachmentOptimal,
	}

	for name, layout := range testCases {
		t.Run(name, func(t *testing.T) {
			before := device.Stats().Submissions
			_, err := image.ChangeLayout(layout, nil, nil)
			require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
			require.Equal(t, core1_0.ImageLayoutTransferDstOptimal, image.Layout())
			require.Equal(t, before, device.Stats().Submissions)
		})
	}

	require.NoError(t, image.Destroy())
}

func TestImageLayoutSequence(t *testing.T) {
	_, ctx := simContext(t)
	image := newTexture(t, ctx)

	_, err := image.BindMemory()
	require.NoError(t, err)

	native := image.Native().(*simdevice.Image)

	for _, layout := range []core1_0.ImageLayout{
		core1_0.ImageLayoutTransferDstOptimal,
		core1_0.ImageLayoutShaderReadOnlyOptimal,
		core1_0.ImageLayoutTransferDstOptimal,
		core1_0.ImageLayoutShaderReadOnlyOptimal,
	} {
		_, err = image.ChangeLayout(layout, nil, nil)
		require.NoError(t, err)
		require.Equal(t, layout, image.Layout())
		require.Equal(t, layout, native.Layout())
	}

	_, err = image.ChangeLayout(core1_0.ImageLayoutDepthStencilAttachmentOptimal, nil, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
	require.Equal(t, core1_0.ImageLayoutShaderReadOnlyOptimal, image.Layout())

	require.NoError(t, image.Destroy())
}

func TestImageUpdateMisuse(t *testing.T) {
	_, ctx := simContext(t)
	image := newTexture(t, ctx)

	_, err := image.UpdateHostVisible([]byte{1, 2, 3, 4})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))

	staging, _, err := transfer.NewStagingBuffer(ctx, make([]byte, 64))
	require.NoError(t, err)

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "update before BindMemory")

	_, err = image.BindMemory()
	require.NoError(t, err)

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "update while the layout is undefined")

	_, err = image.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, nil, nil)
	require.NoError(t, err)

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging, SourceOffset: 64})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "source offset past the staging buffer")

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: staging})
	require.NoError(t, err)

	require.NoError(t, staging.Destroy())
	require.NoError(t, image.Destroy())

	_, err = image.ChangeLayout(core1_0.ImageLayoutShaderReadOnlyOptimal, nil, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
}

func TestImageStagingMustCoverImage(t *testing.T) {
	device, ctx := simContext(t)
	image := newTexture(t, ctx)
	require.Equal(t, 4, image.TexelSize())
	require.Equal(t, 64, image.ByteSize())

	_, err := image.BindMemory()
	require.NoError(t, err)
	_, err = image.ChangeLayout(core1_0.ImageLayoutTransferDstOptimal, nil, nil)
	require.NoError(t, err)

	short, _, err := transfer.NewStagingBuffer(ctx, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	exact, _, err := transfer.NewStagingBuffer(ctx, make([]byte, 64))
	require.NoError(t, err)
	padded := make([]byte, 68)
	for i := range padded {
		padded[i] = byte(i)
	}
	offsetStaging, _, err := transfer.NewStagingBuffer(ctx, padded)
	require.NoError(t, err)

	before := device.Stats().Submissions

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: short})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "staging smaller than the image")

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: exact, SourceOffset: 4})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "offset leaves too few bytes")
	require.Equal(t, before, device.Stats().Submissions)

	_, err = image.UpdateDeviceLocal(transfer.UpdateInfo{Staging: offsetStaging, SourceOffset: 4})
	require.NoError(t, err)
	_, err = image.Wait()
	require.NoError(t, err)
	require.Equal(t, padded[4:], image.Native().(*simdevice.Image).Contents())

	_, err = image.Upload([]byte{9, 9, 9}, nil, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
	_, err = image.Upload(make([]byte, 65), nil, nil)
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse))
	require.Equal(t, core1_0.ImageLayoutTransferDstOptimal, image.Layout())
	require.Equal(t, padded[4:], image.Native().(*simdevice.Image).Contents())

	require.NoError(t, short.Destroy())
	require.NoError(t, exact.Destroy())
	require.NoError(t, offsetStaging.Destroy())
	require.NoError(t, image.Destroy())
	require.Equal(t, 0, device.Stats().LiveMemories)
}

func TestImageTexelSize(t *testing.T) {
	_, ctx := simContext(t)

	_, _, err := transfer.NewImage(ctx, transfer.ImageCreateInfo{
		Extent: textureExtent,
		Format: core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
		Usage:  core1_0.ImageUsageDepthStencilAttachment,
	})
	require.True(t, errors.Is(err, transfer.ErrResourceMisuse), "unknown format without a texel size")

	image, _, err := transfer.NewImage(ctx, transfer.ImageCreateInfo{
		Extent:    textureExtent,
		Format:    core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
		Usage:     core1_0.ImageUsageDepthStencilAttachment,
		TexelSize: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 64, image.ByteSize())
	require.NoError(t, image.Destroy())

	require.Equal(t, 1, transfer.TexelSize(core1_0.FormatR8UnsignedNormalized))
	require.Equal(t, 16, transfer.TexelSize(core1_0.FormatR32G32B32A32SignedFloat))
	require.Equal(t, 0, transfer.TexelSize(core1_0.FormatUndefined))
}

func TestImageUpload(t *testing.T) {
	device, ctx := simContext(t)
	image := newTexture(t, ctx)

	_, err := image.BindMemory()
	require.NoError(t, err)

	pixels := make([]byte, 64)
	for i := range pixels {
		pixels[i] = byte(i)
	}

	done, _, err := device.CreateSignal()
	require.NoError(t, err)

	_, err = image.Upload(pixels, device.Signaled(), done)
	require.NoError(t, err)
	require.Equal(t, core1_0.ImageLayoutShaderReadOnlyOptimal, image.Layout())
	require.Equal(t, pixels, image.Native().(*simdevice.Image).Contents())
	require.True(t, done.(*simdevice.Signal).IsSignaled())

	// A second upload goes back through TransferDstOptimal
	for i := range pixels {
		pixels[i] = byte(255 - i)
	}
	_, err = image.Upload(pixels, nil, nil)
	require.NoError(t, err)
	require.Equal(t, core1_0.ImageLayoutShaderReadOnlyOptimal, image.Layout())
	require.Equal(t, pixels, image.Native().(*simdevice.Image).Contents())

	require.NoError(t, image.Destroy())
	done.Destroy()

	require.NoError(t, ctx.Allocator.Validate())
	require.Equal(t, 0, device.Stats().LiveMemories)
}

func TestImageUploadWaitsOnUnsignaledSignal(t *testing.T) {
	device, ctx := simContext(t)
	image := newTexture(t, ctx)

	_, err := image.BindMemory()
	require.NoError(t, err)

	never, _, err := device.CreateSignal()
	require.NoError(t, err)

	_, err = image.Upload(make([]byte, 64), never, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, memory.ErrDeviceOperation))
	require.Equal(t, core1_0.ImageLayoutUndefined, image.Layout())

	require.NoError(t, image.Destroy())
	require.Equal(t, 0, device.Stats().LiveMemories)
}
