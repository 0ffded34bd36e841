// Package simdevice is a host-memory stand-in for a Vulkan device. It implements the device
// interfaces of the memory and transfer packages, executes recorded copies and layout
// transitions synchronously at submit time, and can be told to fail allocations or to hold
// fences unsignaled. It exists for tests and for replaying allocation scenarios without a GPU.
package simdevice

import (
	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/notdatboi/Spark/internal/utils"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slog"
)

const hostVisible = core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

// DefaultMemoryTypes is a discrete GPU layout: one device-local type, one host-visible type and
// one type that is both
var DefaultMemoryTypes = []core1_0.MemoryType{
	{PropertyFlags: core1_0.MemoryPropertyDeviceLocal, HeapIndex: 0},
	{PropertyFlags: hostVisible, HeapIndex: 1},
	{PropertyFlags: core1_0.MemoryPropertyDeviceLocal | hostVisible, HeapIndex: 0},
}

var DefaultMemoryHeaps = []core1_0.MemoryHeap{
	{Size: 256 * units.MiB, Flags: core1_0.MemoryHeapDeviceLocal},
	{Size: 64 * units.MiB},
}

type Options struct {
	MemoryTypes []core1_0.MemoryType
	MemoryHeaps []core1_0.MemoryHeap

	// Alignment is reported in the memory requirements of every buffer and image. Defaults to 16.
	Alignment int
	// TexelSize is the number of bytes per texel of every image. Defaults to 4.
	TexelSize int

	ExternallySynchronized bool
}

// Device is the simulated device. One Device also acts as its own single queue.
type Device struct {
	logger     *slog.Logger
	mutex      utils.OptionalRWMutex
	properties *core1_0.PhysicalDeviceMemoryProperties
	alignment  int
	texelSize  int

	heapUsage         []int
	liveMemories      int
	totalAllocations  int
	submissions       int
	failedAllocations int

	failAllocations int
	failSubmits     int
	holdFences      bool
	heldFences      []*Fence
}

var _ memory.Device = &Device{}
var _ transfer.Device = &Device{}
var _ transfer.Queue = &Device{}

func New(logger *slog.Logger, options Options) *Device {
	memoryTypes := options.MemoryTypes
	if memoryTypes == nil {
		memoryTypes = DefaultMemoryTypes
	}
	memoryHeaps := options.MemoryHeaps
	if memoryHeaps == nil {
		memoryHeaps = DefaultMemoryHeaps
	}
	alignment := options.Alignment
	if alignment <= 0 {
		alignment = 16
	}
	texelSize := options.TexelSize
	if texelSize <= 0 {
		texelSize = 4
	}

	return &Device{
		logger: logger,
		mutex: utils.OptionalRWMutex{
			UseMutex: !options.ExternallySynchronized,
		},
		properties: &core1_0.PhysicalDeviceMemoryProperties{
			MemoryTypes: memoryTypes,
			MemoryHeaps: memoryHeaps,
		},
		alignment: alignment,
		texelSize: texelSize,
		heapUsage: make([]int, len(memoryHeaps)),
	}
}

func (d *Device) MemoryProperties() *core1_0.PhysicalDeviceMemoryProperties {
	return d.properties
}

func (d *Device) allMemoryTypeBits() uint32 {
	return uint32(1)<<len(d.properties.MemoryTypes) - 1
}

func (d *Device) AllocateMemory(memoryTypeIndex int, size int) (memory.Memory, common.VkResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if memoryTypeIndex < 0 || memoryTypeIndex >= len(d.properties.MemoryTypes) {
		return nil, core1_0.VKErrorUnknown, errors.Newf("memory type %d does not exist", memoryTypeIndex)
	}
	if size <= 0 {
		return nil, core1_0.VKErrorUnknown, errors.Newf("cannot allocate %d bytes", size)
	}

	if d.failAllocations > 0 {
		d.failAllocations--
		d.failedAllocations++
		return nil, core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError()
	}

	memoryType := d.properties.MemoryTypes[memoryTypeIndex]
	heap := d.properties.MemoryHeaps[memoryType.HeapIndex]
	if heap.Size > 0 && d.heapUsage[memoryType.HeapIndex]+size > heap.Size {
		d.failedAllocations++
		return nil, core1_0.VKErrorOutOfDeviceMemory, errors.Wrapf(core1_0.VKErrorOutOfDeviceMemory.ToError(),
			"heap %d has %s of %s in use", memoryType.HeapIndex,
			units.BytesSize(float64(d.heapUsage[memoryType.HeapIndex])), units.BytesSize(float64(heap.Size)))
	}

	d.heapUsage[memoryType.HeapIndex] += size
	d.liveMemories++
	d.totalAllocations++

	if d.logger != nil {
		d.logger.Debug("SimDevice::AllocateMemory",
			slog.Int("memoryType", memoryTypeIndex),
			slog.String("size", units.BytesSize(float64(size))),
		)
	}

	return &Memory{
		device:     d,
		typeIndex:  memoryTypeIndex,
		heapIndex:  memoryType.HeapIndex,
		hostAccess: memoryType.PropertyFlags&core1_0.MemoryPropertyHostVisible != 0,
		data:       make([]byte, size),
	}, core1_0.VKSuccess, nil
}

// FailAllocations makes the next count calls to AllocateMemory fail with
// core1_0.VKErrorOutOfDeviceMemory
func (d *Device) FailAllocations(count int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.failAllocations = count
}

// FailSubmits makes the next count submissions fail before executing anything
func (d *Device) FailSubmits(count int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.failSubmits = count
}

// HoldFences leaves the fences of subsequent submissions unsignaled until ReleaseFences is
// called, so waits on them time out
func (d *Device) HoldFences(hold bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.holdFences = hold
}

// ReleaseFences signals every fence held back by HoldFences
func (d *Device) ReleaseFences() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, fence := range d.heldFences {
		fence.signaled = true
	}
	d.heldFences = nil
}

// Stats is a snapshot of the device's bookkeeping
type Stats struct {
	HeapUsage         []int
	LiveMemories      int
	TotalAllocations  int
	FailedAllocations int
	Submissions       int
}

func (d *Device) Stats() Stats {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	heapUsage := make([]int, len(d.heapUsage))
	copy(heapUsage, d.heapUsage)

	return Stats{
		HeapUsage:         heapUsage,
		LiveMemories:      d.liveMemories,
		TotalAllocations:  d.totalAllocations,
		FailedAllocations: d.failedAllocations,
		Submissions:       d.submissions,
	}
}
