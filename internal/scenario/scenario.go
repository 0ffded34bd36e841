// Package scenario loads allocation scenarios from YAML and replays them against a simulated
// device.
package scenario

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"github.com/spf13/viper"
	"github.com/vkngwrapper/core/v2/core1_0"
)

type Op string

const (
	OpEager      Op = "eager"
	OpLazy       Op = "lazy"
	OpResolve    Op = "resolve"
	OpRetain     Op = "retain"
	OpRelease    Op = "release"
	OpFlush      Op = "flush"
	OpFlushGroup Op = "flushGroup"
	OpUpload     Op = "upload"
)

type MemoryType struct {
	Flags []string `mapstructure:"flags"`
	Heap  int      `mapstructure:"heap"`
}

type Heap struct {
	// Size accepts plain byte counts and binary units such as 64MiB
	Size        string `mapstructure:"size"`
	DeviceLocal bool   `mapstructure:"deviceLocal"`
}

type Step struct {
	Op        Op       `mapstructure:"op"`
	Name      string   `mapstructure:"name"`
	Size      string   `mapstructure:"size"`
	Flags     []string `mapstructure:"flags"`
	TypeBits  uint32   `mapstructure:"typeBits"`
	Alignment uint     `mapstructure:"alignment"`

	// As names the new handle created by a retain step
	As string `mapstructure:"as"`
	// Locality is "device" or "host", for upload steps
	Locality string `mapstructure:"locality"`
	Instant  bool   `mapstructure:"instant"`
}

type Scenario struct {
	// MemoryTypes and Heaps default to the simulated device's discrete GPU layout when empty
	MemoryTypes []MemoryType `mapstructure:"memoryTypes"`
	Heaps       []Heap       `mapstructure:"heaps"`
	Steps       []Step       `mapstructure:"steps"`
}

var flagNames = map[string]core1_0.MemoryPropertyFlags{
	"devicelocal":     core1_0.MemoryPropertyDeviceLocal,
	"hostvisible":     core1_0.MemoryPropertyHostVisible,
	"hostcoherent":    core1_0.MemoryPropertyHostCoherent,
	"hostcached":      core1_0.MemoryPropertyHostCached,
	"lazilyallocated": core1_0.MemoryPropertyLazilyAllocated,
}

// ParseFlags combines memory property names such as DeviceLocal and HostVisible. Names are
// case-insensitive.
func ParseFlags(names []string) (core1_0.MemoryPropertyFlags, error) {
	var flags core1_0.MemoryPropertyFlags
	for _, name := range names {
		flag, ok := flagNames[strings.ToLower(name)]
		if !ok {
			return 0, errors.Newf("unknown memory property %q", name)
		}
		flags |= flag
	}
	return flags, nil
}

// ParseSize reads a size such as 256, 4k or 16MiB. Units are binary.
func ParseSize(size string) (int, error) {
	if size == "" {
		return 0, nil
	}

	bytes, err := units.RAMInBytes(size)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid size %q", size)
	}
	return int(bytes), nil
}

// Load reads a scenario file. The format is chosen from the file extension.
func Load(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", path)
	}

	var scenario Scenario
	err = v.Unmarshal(&scenario)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding scenario %s", path)
	}

	err = scenario.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for index, memoryType := range s.MemoryTypes {
		if memoryType.Heap < 0 || memoryType.Heap >= len(s.Heaps) {
			return errors.Newf("memory type %d refers to heap %d, but there are %d heaps", index, memoryType.Heap, len(s.Heaps))
		}
		_, err := ParseFlags(memoryType.Flags)
		if err != nil {
			return errors.Wrapf(err, "memory type %d", index)
		}
	}
	if len(s.Heaps) > 0 && len(s.MemoryTypes) == 0 {
		return errors.New("heaps were declared without any memory types")
	}

	for index, step := range s.Steps {
		err := step.validate()
		if err != nil {
			return errors.Wrapf(err, "step %d (%s)", index, step.Op)
		}
	}

	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpEager, OpLazy, OpUpload:
		size, err := ParseSize(s.Size)
		if err != nil {
			return err
		}
		if size <= 0 {
			return errors.New("size is required")
		}
	case OpResolve, OpRelease:
	case OpRetain:
		if s.As == "" {
			return errors.New("retain requires as")
		}
	case OpFlush:
		return nil
	case OpFlushGroup:
		_, err := ParseFlags(s.Flags)
		return err
	default:
		return errors.Newf("unknown op %q", s.Op)
	}

	if s.Name == "" {
		return errors.New("name is required")
	}
	_, err := ParseFlags(s.Flags)
	return err
}
