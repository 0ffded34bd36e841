package memory

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Request describes the memory a caller needs
type Request struct {
	// Size is the number of bytes required
	Size int
	// Flags are the memory properties the memory type must have. They are also the key
	// lazy requests are grouped by.
	Flags core1_0.MemoryPropertyFlags
	// MemoryTypeBits is the set of acceptable memory type indices, usually taken from
	// core1_0.MemoryRequirements
	MemoryTypeBits uint32
	// Alignment is the required alignment of the returned offset. It must be a power of two;
	// 0 is treated as 1.
	Alignment uint
}

// RequestFromRequirements builds a Request from a buffer's or image's memory requirements
func RequestFromRequirements(requirements *core1_0.MemoryRequirements, flags core1_0.MemoryPropertyFlags) Request {
	return Request{
		Size:           requirements.Size,
		Flags:          flags,
		MemoryTypeBits: requirements.MemoryTypeBits,
		Alignment:      uint(requirements.Alignment),
	}
}

func (r Request) normalize() (Request, error) {
	if r.Size <= 0 {
		return r, errors.Wrapf(ErrAllocation, "requested size must be positive, received %d", r.Size)
	}
	if r.MemoryTypeBits == 0 {
		return r, errors.Wrap(ErrAllocation, "request does not accept any memory type")
	}
	if r.Alignment == 0 {
		r.Alignment = 1
	}
	if err := memutils.CheckPow2(r.Alignment, "request alignment"); err != nil {
		return r, allocationError(err, "invalid request")
	}

	return r, nil
}
