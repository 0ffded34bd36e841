package transfer

import (
	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type ImageCreateInfo struct {
	Extent core1_0.Extent3D
	Format core1_0.Format
	Usage  core1_0.ImageUsageFlags
	// Aspect defaults to core1_0.ImageAspectColor
	Aspect core1_0.ImageAspectFlags
	// TexelSize is the size in bytes of one texel. It may be left 0 for the formats TexelSize
	// knows about.
	TexelSize         int
	InstantAllocation bool
}

// Image is a device-local GPU image with a tracked layout. It starts in
// core1_0.ImageLayoutUndefined and only changes layout through ChangeLayout.
type Image struct {
	resource

	extent      core1_0.Extent3D
	format      core1_0.Format
	usage       core1_0.ImageUsageFlags
	aspect      core1_0.ImageAspectFlags
	texelSize   int
	layout      core1_0.ImageLayout
	native      NativeImage
	copies      updateStream
	transitions updateStream
}

func NewImage(ctx *Context, info ImageCreateInfo) (*Image, common.VkResult, error) {
	if info.Extent.Width <= 0 || info.Extent.Height <= 0 || info.Extent.Depth <= 0 {
		return nil, core1_0.VKErrorUnknown, misuse("image extent must be positive, but was %dx%dx%d",
			info.Extent.Width, info.Extent.Height, info.Extent.Depth)
	}

	texelSize := info.TexelSize
	if texelSize == 0 {
		texelSize = TexelSize(info.Format)
	}
	if texelSize <= 0 {
		return nil, core1_0.VKErrorUnknown, misuse("no texel size given and none is known for format %s", info.Format)
	}

	aspect := info.Aspect
	if aspect == 0 {
		aspect = core1_0.ImageAspectColor
	}

	native, res, err := ctx.Device.CreateImage(info.Extent, info.Format, info.Usage)
	if err != nil {
		return nil, res, memory.DeviceOperationError(err, "failed to create a %dx%d image", info.Extent.Width, info.Extent.Height)
	}

	image := &Image{
		resource: resource{
			ctx:      ctx,
			kind:     "image",
			locality: LocalityDeviceLocal,
		},
		extent:      info.Extent,
		format:      info.Format,
		usage:       info.Usage,
		aspect:      aspect,
		texelSize:   texelSize,
		layout:      core1_0.ImageLayoutUndefined,
		native:      native,
		copies:      updateStream{name: "image copy"},
		transitions: updateStream{name: "image layout"},
	}

	res, err = image.allocate(native.MemoryRequirements(), info.InstantAllocation)
	if err != nil {
		native.Destroy()
		return nil, res, err
	}

	ctx.Logger.Debug("Image::New",
		slog.Int("width", info.Extent.Width),
		slog.Int("height", info.Extent.Height),
		slog.Int("depth", info.Extent.Depth),
		slog.Bool("instant", info.InstantAllocation),
		slog.String("handle", image.handle.String()),
	)

	return image, res, nil
}

// BindMemory attaches the image to its allocation, materializing it if it is still pending.
// Binding an already bound image does nothing.
func (i *Image) BindMemory() (common.VkResult, error) {
	return i.bind(i.native.BindMemory)
}

// UpdateHostVisible always fails: images are device-local and can only be written through
// UpdateDeviceLocal
func (i *Image) UpdateHostVisible(data []byte) (common.VkResult, error) {
	return core1_0.VKErrorUnknown, misuse("images are device local and cannot be written by the host")
}

func (i *Image) subresourceRange() core1_0.ImageSubresourceRange {
	return core1_0.ImageSubresourceRange{
		AspectMask:     i.aspect,
		BaseMipLevel:   0,
		LevelCount:     1,
		BaseArrayLayer: 0,
		LayerCount:     1,
	}
}

// ByteSize is the number of tightly packed bytes covering the full extent of the image
func (i *Image) ByteSize() int {
	return i.extent.Width * i.extent.Height * i.extent.Depth * i.texelSize
}

// UpdateDeviceLocal copies the full extent of the image from info.Staging, which must hold
// ByteSize bytes starting at info.SourceOffset. The image must be bound and in
// core1_0.ImageLayoutTransferDstOptimal or core1_0.ImageLayoutGeneral.
func (i *Image) UpdateDeviceLocal(info UpdateInfo) (common.VkResult, error) {
	err := i.checkUpdatable(LocalityDeviceLocal, "UpdateDeviceLocal")
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}
	if i.layout != core1_0.ImageLayoutTransferDstOptimal && i.layout != core1_0.ImageLayoutGeneral {
		return core1_0.VKErrorUnknown, misuse("image copies require layout %s or %s, but the image is in %s",
			core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutGeneral, i.layout)
	}

	err = info.checkStaging(i.ByteSize())
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	i.ctx.Logger.Debug("Image::UpdateDeviceLocal",
		slog.Int("sourceOffset", info.SourceOffset),
		slog.Bool("waits", info.WaitSignal != nil),
		slog.Bool("signals", info.DoneSignal != nil),
	)

	return i.copies.submit(i.ctx, func(stream CommandStream) error {
		return stream.CmdCopyBufferToImage(info.Staging.native, i.native, i.layout, []core1_0.BufferImageCopy{
			{
				BufferOffset:      info.SourceOffset,
				BufferRowLength:   0,
				BufferImageHeight: 0,
				ImageSubresource: core1_0.ImageSubresourceLayers{
					AspectMask:     i.aspect,
					MipLevel:       0,
					BaseArrayLayer: 0,
					LayerCount:     1,
				},
				ImageOffset: core1_0.Offset3D{X: 0, Y: 0, Z: 0},
				ImageExtent: i.extent,
			},
		})
	}, info.WaitSignal, info.waitStage(), info.DoneSignal)
}

// ChangeLayout records and submits a barrier moving the image into newLayout. Only the
// transitions in the supported table are accepted; anything else fails with ErrResourceMisuse
// before any work is submitted. The tracked layout changes once the barrier is submitted.
func (i *Image) ChangeLayout(newLayout core1_0.ImageLayout, waitSignal Signal, doneSignal Signal) (common.VkResult, error) {
	if i.destroyed {
		return core1_0.VKErrorUnknown, misuse("ChangeLayout called on a destroyed image")
	}
	if !i.bound {
		return core1_0.VKErrorUnknown, misuse("ChangeLayout called on an image before BindMemory")
	}

	scope, err := lookupTransition(i.layout, newLayout)
	if err != nil {
		return core1_0.VKErrorUnknown, err
	}

	oldLayout := i.layout
	res, err := i.transitions.submit(i.ctx, func(stream CommandStream) error {
		return stream.CmdPipelineBarrier(scope.sourceStage, scope.destinationStage, []ImageBarrier{
			{
				Image:             i.native,
				OldLayout:         oldLayout,
				NewLayout:         newLayout,
				SourceAccess:      scope.sourceAccess,
				DestinationAccess: scope.destinationAccess,
				SubresourceRange:  i.subresourceRange(),
			},
		})
	}, waitSignal, scope.sourceStage, doneSignal)
	if err != nil {
		return res, err
	}

	i.layout = newLayout
	i.ctx.Logger.Debug("Image::ChangeLayout",
		slog.Int("from", int(oldLayout)),
		slog.Int("to", int(newLayout)),
	)
	return res, nil
}

// Wait blocks until the last copy and the last layout transition of this image have completed
func (i *Image) Wait() (common.VkResult, error) {
	if i.destroyed {
		return core1_0.VKErrorUnknown, misuse("Wait called on a destroyed image")
	}

	res, err := i.copies.wait(i.ctx)
	if err != nil {
		return res, err
	}
	return i.transitions.wait(i.ctx)
}

// Destroy waits for outstanding work and releases the image and its allocation. Calling
// Destroy more than once does nothing.
func (i *Image) Destroy() error {
	if i.destroyed {
		return nil
	}
	i.destroyed = true

	copyErr := i.copies.destroy(i.ctx)
	transitionErr := i.transitions.destroy(i.ctx)
	i.native.Destroy()
	_, releaseErr := i.release()

	return errors.CombineErrors(errors.CombineErrors(copyErr, transitionErr), releaseErr)
}

func (i *Image) Extent() core1_0.Extent3D       { return i.extent }
func (i *Image) Format() core1_0.Format         { return i.format }
func (i *Image) TexelSize() int                 { return i.texelSize }
func (i *Image) Usage() core1_0.ImageUsageFlags { return i.usage }
func (i *Image) Layout() core1_0.ImageLayout    { return i.layout }
func (i *Image) Handle() memory.Handle          { return i.handle }
func (i *Image) Native() NativeImage            { return i.native }
func (i *Image) IsBound() bool                  { return i.bound }
