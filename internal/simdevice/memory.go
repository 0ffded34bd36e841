package simdevice

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// Memory is a simulated device memory allocation backed by a byte slice
type Memory struct {
	device     *Device
	typeIndex  int
	heapIndex  int
	hostAccess bool
	data       []byte
	mapCount   int
	freed      bool
}

func (m *Memory) VulkanDeviceMemory() core1_0.DeviceMemory {
	return nil
}

func (m *Memory) Size() int {
	return len(m.data)
}

func (m *Memory) MemoryTypeIndex() int {
	return m.typeIndex
}

func (m *Memory) Map(offset int, size int) (unsafe.Pointer, common.VkResult, error) {
	m.device.mutex.Lock()
	defer m.device.mutex.Unlock()

	if m.freed {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.New("attempted to map freed memory")
	}
	if !m.hostAccess {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.Newf("memory type %d is not host visible", m.typeIndex)
	}
	if offset < 0 || size <= 0 || offset+size > len(m.data) {
		return nil, core1_0.VKErrorMemoryMapFailed, errors.Newf("cannot map %d bytes at offset %d of a %d byte allocation", size, offset, len(m.data))
	}

	m.mapCount++
	return unsafe.Pointer(&m.data[offset]), core1_0.VKSuccess, nil
}

func (m *Memory) Unmap() error {
	m.device.mutex.Lock()
	defer m.device.mutex.Unlock()

	if m.mapCount == 0 {
		return errors.New("attempted to unmap memory that is not mapped")
	}
	m.mapCount--
	return nil
}

func (m *Memory) Free() {
	m.device.mutex.Lock()
	defer m.device.mutex.Unlock()

	if m.freed {
		panic("simdevice: memory freed twice")
	}
	m.freed = true
	m.device.heapUsage[m.heapIndex] -= len(m.data)
	m.device.liveMemories--
}

// Bytes returns a copy of the allocation's contents
func (m *Memory) Bytes(offset int, size int) []byte {
	m.device.mutex.RLock()
	defer m.device.mutex.RUnlock()

	out := make([]byte, size)
	copy(out, m.data[offset:offset+size])
	return out
}

func (m *Memory) IsMapped() bool {
	m.device.mutex.RLock()
	defer m.device.mutex.RUnlock()

	return m.mapCount > 0
}
