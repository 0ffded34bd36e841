package resource

import (
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// UniformBuffer is a host-visible buffer the host rewrites directly, typically once per frame
type UniformBuffer struct {
	buffer *transfer.Buffer
}

func NewUniformBuffer(ctx *transfer.Context, size int, instant bool) (*UniformBuffer, common.VkResult, error) {
	buffer, res, err := transfer.NewBuffer(ctx, transfer.BufferCreateInfo{
		Size:              size,
		Usage:             core1_0.BufferUsageUniformBuffer,
		Locality:          transfer.LocalityHostVisible,
		InstantAllocation: instant,
	})
	if err != nil {
		return nil, res, err
	}

	return &UniformBuffer{buffer: buffer}, res, nil
}

// Update binds the buffer if needed and writes data at its start
func (u *UniformBuffer) Update(data []byte) (common.VkResult, error) {
	if !u.buffer.IsBound() {
		res, err := u.buffer.BindMemory()
		if err != nil {
			return res, err
		}
	}

	return u.buffer.UpdateHostVisible(data)
}

func (u *UniformBuffer) Buffer() *transfer.Buffer { return u.buffer }
func (u *UniformBuffer) Size() int                { return u.buffer.Size() }

func (u *UniformBuffer) Destroy() error {
	return u.buffer.Destroy()
}
