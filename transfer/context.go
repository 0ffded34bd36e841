package transfer

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/memory"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

// DefaultWaitTimeout bounds every CPU wait when a Context does not set its own
const DefaultWaitTimeout = 5 * time.Second

// Context carries the collaborators every transfer resource needs. One Context is normally
// shared by all resources created against the same device.
type Context struct {
	Logger    *slog.Logger
	Allocator *memory.Allocator
	Device    Device
	Queue     Queue

	// WaitTimeout bounds each wait on a fence. A fence that does not signal in time is
	// reported as memory.ErrDeviceOperation.
	WaitTimeout time.Duration
}

func NewContext(logger *slog.Logger, allocator *memory.Allocator, device Device, queue Queue) (*Context, error) {
	if logger == nil {
		return nil, errors.New("transfer.NewContext requires a logger")
	}
	if allocator == nil {
		return nil, errors.New("transfer.NewContext requires an allocator")
	}
	if device == nil || queue == nil {
		return nil, errors.New("transfer.NewContext requires a device and a queue")
	}

	return &Context{
		Logger:      logger,
		Allocator:   allocator,
		Device:      device,
		Queue:       queue,
		WaitTimeout: DefaultWaitTimeout,
	}, nil
}

func (c *Context) waitTimeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return c.WaitTimeout
}

// Locality is where a resource's memory lives
type Locality uint32

const (
	// LocalityDeviceLocal memory is only reachable by the device. It is written through a
	// staging buffer and a copy command.
	LocalityDeviceLocal Locality = iota
	// LocalityHostVisible memory is mapped and written directly by the host
	LocalityHostVisible
)

var localityMapping = map[Locality]string{
	LocalityDeviceLocal: "LocalityDeviceLocal",
	LocalityHostVisible: "LocalityHostVisible",
}

func (l Locality) String() string {
	return localityMapping[l]
}

// MemoryFlags are the memory properties requested from the allocator for this locality
func (l Locality) MemoryFlags() core1_0.MemoryPropertyFlags {
	if l == LocalityHostVisible {
		return core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent
	}
	return core1_0.MemoryPropertyDeviceLocal
}
