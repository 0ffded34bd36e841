package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/notdatboi/Spark/internal/simdevice"
	"github.com/notdatboi/Spark/memory"
	"github.com/notdatboi/Spark/transfer"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// Runner replays scenario steps against its own simulated device and allocator
type Runner struct {
	logger    *slog.Logger
	device    *simdevice.Device
	allocator *memory.Allocator
	ctx       *transfer.Context

	handles map[string]memory.Handle
	buffers map[string]*transfer.Buffer
	steps   int
}

func NewRunner(logger *slog.Logger, scenario *Scenario, waitTimeout time.Duration) (*Runner, error) {
	options := simdevice.Options{}
	for _, heap := range scenario.Heaps {
		size, err := ParseSize(heap.Size)
		if err != nil {
			return nil, err
		}

		var flags core1_0.MemoryHeapFlags
		if heap.DeviceLocal {
			flags = core1_0.MemoryHeapDeviceLocal
		}
		options.MemoryHeaps = append(options.MemoryHeaps, core1_0.MemoryHeap{Size: size, Flags: flags})
	}
	for _, memoryType := range scenario.MemoryTypes {
		flags, err := ParseFlags(memoryType.Flags)
		if err != nil {
			return nil, err
		}
		options.MemoryTypes = append(options.MemoryTypes, core1_0.MemoryType{PropertyFlags: flags, HeapIndex: memoryType.Heap})
	}

	device := simdevice.New(logger, options)
	allocator, err := memory.New(logger, device, memory.CreateOptions{})
	if err != nil {
		return nil, err
	}

	ctx, err := transfer.NewContext(logger, allocator, device, device)
	if err != nil {
		return nil, err
	}
	ctx.WaitTimeout = waitTimeout

	return &Runner{
		logger:    logger,
		device:    device,
		allocator: allocator,
		ctx:       ctx,
		handles:   make(map[string]memory.Handle),
		buffers:   make(map[string]*transfer.Buffer),
	}, nil
}

func (r *Runner) Run(steps []Step) error {
	for index, step := range steps {
		err := r.Step(step)
		if err != nil {
			return errors.Wrapf(err, "step %d (%s %s)", index, step.Op, step.Name)
		}
	}
	return nil
}

func (r *Runner) request(step Step) (memory.Request, error) {
	size, err := ParseSize(step.Size)
	if err != nil {
		return memory.Request{}, err
	}
	flags, err := ParseFlags(step.Flags)
	if err != nil {
		return memory.Request{}, err
	}

	typeBits := step.TypeBits
	if typeBits == 0 {
		typeBits = ^uint32(0)
	}

	return memory.Request{
		Size:           size,
		Flags:          flags,
		MemoryTypeBits: typeBits,
		Alignment:      step.Alignment,
	}, nil
}

func (r *Runner) handle(name string) (memory.Handle, error) {
	handle, ok := r.handles[name]
	if !ok {
		return memory.Handle{}, errors.Newf("no live handle is named %q", name)
	}
	return handle, nil
}

func (r *Runner) claim(name string) error {
	_, taken := r.handles[name]
	if taken {
		return errors.Newf("handle %q already exists", name)
	}
	return nil
}

// Step runs a single step. Named handles stay live until a release step names them.
func (r *Runner) Step(step Step) error {
	err := step.validate()
	if err != nil {
		return err
	}

	var handle memory.Handle

	switch step.Op {
	case OpEager, OpLazy:
		err = r.claim(step.Name)
		if err != nil {
			return err
		}
		request, err := r.request(step)
		if err != nil {
			return err
		}

		if step.Op == OpEager {
			handle, _, err = r.allocator.AllocateEager(request)
		} else {
			handle, _, err = r.allocator.AllocateLazy(request)
		}
		if err != nil {
			return err
		}
		r.handles[step.Name] = handle

	case OpResolve:
		handle, err = r.handle(step.Name)
		if err != nil {
			return err
		}
		_, _, err = r.allocator.Resolve(handle)
		if err != nil {
			return err
		}

	case OpRetain:
		err = r.claim(step.As)
		if err != nil {
			return err
		}
		source, err := r.handle(step.Name)
		if err != nil {
			return err
		}
		handle, err = r.allocator.Retain(source)
		if err != nil {
			return err
		}
		r.handles[step.As] = handle

	case OpRelease:
		handle, err = r.handle(step.Name)
		if err != nil {
			return err
		}

		buffer, isBuffer := r.buffers[step.Name]
		if isBuffer {
			err = buffer.Destroy()
			delete(r.buffers, step.Name)
		} else {
			_, err = r.allocator.Release(handle)
		}
		delete(r.handles, step.Name)
		if err != nil {
			return err
		}

	case OpFlush:
		_, err = r.allocator.FlushAll()
		if err != nil {
			return err
		}

	case OpFlushGroup:
		flags, err := ParseFlags(step.Flags)
		if err != nil {
			return err
		}
		_, err = r.allocator.FlushGroup(flags)
		if err != nil {
			return err
		}

	case OpUpload:
		err = r.claim(step.Name)
		if err != nil {
			return err
		}
		handle, err = r.upload(step)
		if err != nil {
			return err
		}
	}

	r.steps++
	r.logger.Info("Scenario::Step",
		slog.String("op", string(step.Op)),
		slog.String("name", step.Name),
		slog.String("handle", handle.String()),
	)
	return nil
}

func (r *Runner) upload(step Step) (memory.Handle, error) {
	size, err := ParseSize(step.Size)
	if err != nil {
		return memory.Handle{}, err
	}

	locality := transfer.LocalityDeviceLocal
	switch step.Locality {
	case "", "device":
	case "host":
		locality = transfer.LocalityHostVisible
	default:
		return memory.Handle{}, errors.Newf("unknown locality %q", step.Locality)
	}

	buffer, _, err := transfer.NewBuffer(r.ctx, transfer.BufferCreateInfo{
		Size:              size,
		Usage:             core1_0.BufferUsageTransferDst | core1_0.BufferUsageStorageBuffer,
		Locality:          locality,
		InstantAllocation: step.Instant,
	})
	if err != nil {
		return memory.Handle{}, err
	}

	_, err = buffer.BindMemory()
	if err == nil {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i)
		}
		_, err = buffer.Upload(data, nil, nil, core1_0.PipelineStageTransfer)
	}
	if err != nil {
		return memory.Handle{}, errors.CombineErrors(err, buffer.Destroy())
	}

	r.buffers[step.Name] = buffer
	r.handles[step.Name] = buffer.Handle()
	return buffer.Handle(), nil
}

// Handles returns the names of the live handles in sorted order
func (r *Runner) Handles() []string {
	names := maps.Keys(r.handles)
	slices.Sort(names)
	return names
}

func (r *Runner) Allocator() *memory.Allocator { return r.allocator }
func (r *Runner) Device() *simdevice.Device     { return r.device }

// WriteReport writes the allocator's detailed map, its statistics and the simulated device's
// counters as a single json object
func (r *Runner) WriteReport(writer *jwriter.Writer) {
	var stats memutils.Statistics
	r.allocator.CalculateStatistics(&stats)
	deviceStats := r.device.Stats()

	objState := writer.Object()
	defer objState.End()

	objState.Name("Steps").Int(r.steps)

	handlesState := objState.Name("Handles").Object()
	for _, name := range r.Handles() {
		handlesState.Name(name).String(r.handles[name].String())
	}
	handlesState.End()

	statsState := objState.Name("Statistics").Object()
	statsState.Name("BlockCount").Int(stats.BlockCount)
	statsState.Name("BlockBytes").Int(stats.BlockBytes)
	statsState.Name("AllocationCount").Int(stats.AllocationCount)
	statsState.Name("AllocationBytes").Int(stats.AllocationBytes)
	statsState.End()

	deviceState := objState.Name("Device").Object()
	deviceState.Name("LiveMemories").Int(deviceStats.LiveMemories)
	deviceState.Name("TotalAllocations").Int(deviceStats.TotalAllocations)
	deviceState.Name("Submissions").Int(deviceStats.Submissions)
	heapsState := deviceState.Name("HeapUsage").Array()
	for _, usage := range deviceStats.HeapUsage {
		heapsState.Int(usage)
	}
	heapsState.End()
	deviceState.End()

	r.allocator.PrintDetailedMap(objState.Name("DetailedMap"))
}

// WriteSummary writes a short human-readable summary
func (r *Runner) WriteSummary(out io.Writer) error {
	var stats memutils.Statistics
	r.allocator.CalculateStatistics(&stats)
	deviceStats := r.device.Stats()

	_, err := fmt.Fprintf(out, "steps:        %d\nlive handles: %d\nblocks:       %d (%s)\nallocations:  %d (%s)\n",
		r.steps,
		len(r.handles),
		stats.BlockCount, units.BytesSize(float64(stats.BlockBytes)),
		stats.AllocationCount, units.BytesSize(float64(stats.AllocationBytes)),
	)
	if err != nil {
		return err
	}

	for heapIndex, usage := range deviceStats.HeapUsage {
		_, err = fmt.Fprintf(out, "heap %d:       %s\n", heapIndex, units.BytesSize(float64(usage)))
		if err != nil {
			return err
		}
	}
	return nil
}

// Close destroys every uploaded buffer and then the allocator. Handles still live are reported
// by the allocator as unreleased memory.
func (r *Runner) Close() error {
	var err error
	names := maps.Keys(r.buffers)
	slices.Sort(names)
	for _, name := range names {
		err = errors.CombineErrors(err, r.buffers[name].Destroy())
		delete(r.handles, name)
	}
	r.buffers = map[string]*transfer.Buffer{}

	return errors.CombineErrors(err, r.allocator.Destroy())
}
