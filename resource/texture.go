package resource

import (
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

type TextureCreateInfo struct {
	Width  int
	Height int
	Format core1_0.Format
	// PixelSize is the size in bytes of one pixel of Format
	PixelSize int
}

// Texture is a sampled 2D image filled from host pixels
type Texture struct {
	ctx   *transfer.Context
	image *transfer.Image
}

func NewTexture(ctx *transfer.Context, info TextureCreateInfo) (*Texture, common.VkResult, error) {
	if info.PixelSize <= 0 {
		return nil, core1_0.VKErrorUnknown, misuse("pixel size must be positive, but was %d", info.PixelSize)
	}

	image, res, err := transfer.NewImage(ctx, transfer.ImageCreateInfo{
		Extent:    core1_0.Extent3D{Width: info.Width, Height: info.Height, Depth: 1},
		Format:    info.Format,
		Usage:     core1_0.ImageUsageSampled | core1_0.ImageUsageTransferDst,
		TexelSize: info.PixelSize,
	})
	if err != nil {
		return nil, res, err
	}

	return &Texture{ctx: ctx, image: image}, res, nil
}

// Upload binds the texture if needed and replaces its pixels. The texture is left in
// core1_0.ImageLayoutShaderReadOnlyOptimal. The upload waits on waitSignal and signals
// doneSignal, either of which may be nil.
func (t *Texture) Upload(pixels []byte, waitSignal transfer.Signal, doneSignal transfer.Signal) (common.VkResult, error) {
	if len(pixels) != t.image.ByteSize() {
		return core1_0.VKErrorUnknown, misuse("texture needs %d bytes of pixels, but received %d", t.image.ByteSize(), len(pixels))
	}

	if !t.image.IsBound() {
		res, err := t.image.BindMemory()
		if err != nil {
			return res, err
		}
	}

	res, err := t.image.Upload(pixels, waitSignal, doneSignal)
	if err != nil {
		return res, err
	}

	t.ctx.Logger.Debug("Texture::Upload",
		slog.Int("width", t.image.Extent().Width),
		slog.Int("height", t.image.Extent().Height),
	)
	return res, nil
}

func (t *Texture) Layout() core1_0.ImageLayout { return t.image.Layout() }
func (t *Texture) Image() *transfer.Image       { return t.image }

func (t *Texture) Destroy() error {
	return t.image.Destroy()
}
