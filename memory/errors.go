package memory

import "github.com/cockroachdb/errors"

// ErrAllocation is the error class for requests that cannot be satisfied and for handles that
// no longer refer to live memory. Test for it with errors.Is.
var ErrAllocation = errors.New("allocation error")

// ErrDeviceOperation is the error class for failures reported by the device itself: failed
// submissions, fences that fail or time out, failed binds and maps.
var ErrDeviceOperation = errors.New("device operation error")

// DeviceOperationError marks err as an ErrDeviceOperation while keeping its message and causes
func DeviceOperationError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrDeviceOperation)
}

func allocationError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrAllocation)
}
