package transfer

import "github.com/cockroachdb/errors"

// ErrResourceMisuse is the error class for calls that break a resource's usage contract:
// host writes to device-local memory, staged copies into host-visible memory, updates before
// BindMemory, unsupported layout transitions and use after Destroy. Test for it with errors.Is.
var ErrResourceMisuse = errors.New("resource misuse")

func misuse(format string, args ...any) error {
	return errors.Wrapf(ErrResourceMisuse, format, args...)
}
