// Package resource builds the composite GPU resources a renderer works with (vertex buffers,
// uniform buffers and textures) out of transfer buffers and images.
package resource

import (
	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/transfer"
)

func misuse(format string, args ...any) error {
	return errors.Wrapf(transfer.ErrResourceMisuse, format, args...)
}
