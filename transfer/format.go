package transfer

import "github.com/vkngwrapper/core/v2/core1_0"

// texelSizes covers the uncompressed color formats images are commonly uploaded in. Images in
// any other format need an explicit ImageCreateInfo.TexelSize.
var texelSizes = map[core1_0.Format]int{
	core1_0.FormatR8UnsignedNormalized:           1,
	core1_0.FormatR8SRGB:                         1,
	core1_0.FormatR8UnsignedInt:                  1,
	core1_0.FormatR8G8UnsignedNormalized:         2,
	core1_0.FormatR8G8SRGB:                       2,
	core1_0.FormatR16SignedFloat:                 2,
	core1_0.FormatR16UnsignedInt:                 2,
	core1_0.FormatR8G8B8A8UnsignedNormalized:     4,
	core1_0.FormatR8G8B8A8SRGB:                   4,
	core1_0.FormatR8G8B8A8UnsignedInt:            4,
	core1_0.FormatB8G8R8A8UnsignedNormalized:     4,
	core1_0.FormatB8G8R8A8SRGB:                   4,
	core1_0.FormatR16G16SignedFloat:              4,
	core1_0.FormatR32SignedFloat:                 4,
	core1_0.FormatR32UnsignedInt:                 4,
	core1_0.FormatR16G16B16A16SignedFloat:        8,
	core1_0.FormatR16G16B16A16UnsignedNormalized: 8,
	core1_0.FormatR32G32SignedFloat:              8,
	core1_0.FormatR32G32B32SignedFloat:           12,
	core1_0.FormatR32G32B32A32SignedFloat:        16,
	core1_0.FormatR32G32B32A32UnsignedInt:        16,
}

// TexelSize returns the size in bytes of one texel of format, or 0 if the format is not known
func TexelSize(format core1_0.Format) int {
	return texelSizes[format]
}
