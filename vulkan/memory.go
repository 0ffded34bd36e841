package vulkan

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/notdatboi/Spark/internal/utils"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
)

// DeviceMemory is a core1_0.DeviceMemory with reference-counted mapping. The whole allocation is
// mapped by the first Map call and unmapped once every Map has been matched by an Unmap, so
// resources sharing a block can map their own sub-ranges independently.
type DeviceMemory struct {
	mapReferences int
	mapData       unsafe.Pointer

	mapMutex utils.OptionalMutex
	memory   core1_0.DeviceMemory
	size     int

	allocationCallbacks *driver.AllocationCallbacks
}

func allocateDeviceMemory(device core1_0.Device, useMutex bool, callbacks *driver.AllocationCallbacks, allocateInfo core1_0.MemoryAllocateInfo) (*DeviceMemory, common.VkResult, error) {
	memory, res, err := device.AllocateMemory(callbacks, allocateInfo)
	if err != nil {
		return nil, res, err
	}

	return &DeviceMemory{
		memory: memory,
		size:   allocateInfo.AllocationSize,
		mapMutex: utils.OptionalMutex{
			UseMutex: useMutex,
		},
		allocationCallbacks: callbacks,
	}, res, nil
}

func (m *DeviceMemory) VulkanDeviceMemory() core1_0.DeviceMemory {
	return m.memory
}

func (m *DeviceMemory) Size() int {
	return m.size
}

func (m *DeviceMemory) References() int {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	return m.mapReferences
}

func (m *DeviceMemory) Map(offset int, size int) (unsafe.Pointer, common.VkResult, error) {
	if offset < 0 || size <= 0 || offset+size > m.size {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.Newf("cannot map %d bytes at offset %d of a %d byte allocation", size, offset, m.size)
	}

	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences > 0 {
		if m.mapData == nil {
			return nil, core1_0.VKErrorUnknown, errors.New("the memory is showing existing mapping references, but no mapped memory")
		}

		m.mapReferences++
		return unsafe.Add(m.mapData, offset), core1_0.VKSuccess, nil
	}

	mappedData, res, err := m.memory.Map(0, common.WholeSize, 0)
	if err != nil {
		return nil, res, err
	}

	m.mapData = mappedData
	m.mapReferences = 1
	return unsafe.Add(mappedData, offset), res, nil
}

func (m *DeviceMemory) Unmap() error {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences == 0 {
		return errors.New("device memory has more references being unmapped than are currently mapped")
	}

	m.mapReferences--
	if m.mapReferences == 0 {
		m.memory.Unmap()
		m.mapData = nil
	}

	return nil
}

func (m *DeviceMemory) Free() {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapReferences > 0 {
		m.memory.Unmap()
		m.mapData = nil
		m.mapReferences = 0
	}
	m.memory.Free(m.allocationCallbacks)
}
