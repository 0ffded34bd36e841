package memory

import (
	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/internal/utils"
	"github.com/vkngwrapper/core/v2/common"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var allocatorCreateFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	allocatorCreateFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return allocatorCreateFlagsMapping.FlagsToString(f)
}

const (
	// AllocatorCreateExternallySynchronized ensures that this allocator will not be synchronized
	// internally. The consumer must guarantee it is used from only one goroutine at a time.
	AllocatorCreateExternallySynchronized CreateFlags = 1 << iota
	// AllocatorCreateEagerOnly makes AllocateLazy behave like AllocateEager. Useful when
	// deterministic allocation timing matters more than the number of blocks.
	AllocatorCreateEagerOnly
)

func init() {
	AllocatorCreateExternallySynchronized.Register("AllocatorCreateExternallySynchronized")
	AllocatorCreateEagerOnly.Register("AllocatorCreateEagerOnly")
}

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags

	// MemoryCallbackOptions is an optional set of callbacks that will be executed when native memory
	// is allocated or freed by this allocator
	MemoryCallbackOptions *MemoryCallbackOptions
}

// New creates a new Allocator
//
// logger - Destination for allocator diagnostics. Unreleased memory is reported at error level.
//
// device - The device that memory will be allocated from
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, device Device, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		return nil, errors.New("memory.New requires a logger")
	}
	if device == nil {
		return nil, errors.New("memory.New requires a device")
	}

	properties := device.MemoryProperties()
	if properties == nil || len(properties.MemoryTypes) == 0 {
		return nil, errors.New("the device does not report any memory types")
	}
	if len(properties.MemoryTypes) > common.MaxMemoryTypes {
		return nil, errors.Newf("the device reports %d memory types, but at most %d are supported", len(properties.MemoryTypes), common.MaxMemoryTypes)
	}

	allocator := &Allocator{
		logger:           logger,
		device:           device,
		memoryProperties: properties,
		createFlags:      options.Flags,
		mutex: utils.OptionalMutex{
			UseMutex: options.Flags&AllocatorCreateExternallySynchronized == 0,
		},
		pending: newPendingGroups(),
	}
	allocator.callbacks = memoryCallbacks{
		Callbacks: options.MemoryCallbackOptions,
		Allocator: allocator,
	}

	logger.Debug("Allocator::New",
		slog.Int("memoryTypes", len(properties.MemoryTypes)),
		slog.Int("memoryHeaps", len(properties.MemoryHeaps)),
		slog.String("flags", options.Flags.String()),
	)

	return allocator, nil
}
