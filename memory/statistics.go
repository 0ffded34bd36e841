package memory

import (
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/arsenal/memutils"
)

// CalculateStatistics fills stats with the current totals. Blocks count toward BlockCount and
// BlockBytes once they are materialized; every live handle counts as an allocation, pending or not.
func (a *Allocator) CalculateStatistics(stats *memutils.Statistics) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats.Clear()

	for _, block := range a.blocks.blocks {
		switch block.state {
		case BlockMaterialized:
			stats.BlockCount++
			stats.BlockBytes += block.size
		case BlockPending:
		default:
			continue
		}

		stats.AllocationCount += block.references
		stats.AllocationBytes += block.allocatedBytes
	}
}

// PrintDetailedMap writes a json object describing every memory type, live block and pending
// group to writer
func (a *Allocator) PrintDetailedMap(writer *jwriter.Writer) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	objState := writer.Object()
	defer objState.End()

	typesState := objState.Name("MemoryTypes").Array()
	for typeIndex, memoryType := range a.memoryProperties.MemoryTypes {
		typeObj := typesState.Object()
		typeObj.Name("Index").Int(typeIndex)
		typeObj.Name("Flags").String(memoryType.PropertyFlags.String())
		typeObj.Name("Heap").Int(memoryType.HeapIndex)
		typeObj.End()
	}
	typesState.End()

	blocksState := objState.Name("Blocks").Object()
	for _, block := range a.blocks.blocks {
		if block.state != BlockMaterialized && block.state != BlockPending {
			continue
		}

		blockObj := blocksState.Name(strconv.Itoa(block.index)).Object()
		blockObj.Name("State").String(block.state.String())
		blockObj.Name("Flags").String(block.flags.String())
		if block.state == BlockMaterialized {
			blockObj.Name("MemoryType").Int(block.memoryTypeIndex)
			blockObj.Name("TotalBytes").Int(block.size)
		} else {
			blockObj.Name("TotalBytes").Int(block.group.size)
		}
		blockObj.Name("AllocatedBytes").Int(block.allocatedBytes)
		blockObj.Name("References").Int(block.references)

		rangesState := blockObj.Name("Ranges").Array()
		for _, offset := range block.sortedOffsets() {
			r := block.ranges[offset]
			rangeObj := rangesState.Object()
			rangeObj.Name("Offset").Int(offset)
			rangeObj.Name("Size").Int(r.size)
			rangeObj.Name("References").Int(r.references)
			rangeObj.End()
		}
		rangesState.End()

		blockObj.End()
	}
	blocksState.End()

	groupsState := objState.Name("PendingGroups").Array()
	for _, group := range a.pending.sorted() {
		groupObj := groupsState.Object()
		groupObj.Name("Flags").String(group.flags.String())
		groupObj.Name("Block").Int(group.block.index)
		groupObj.Name("Size").Int(group.size)
		groupObj.Name("MemoryTypeBits").Int(int(group.memoryTypeBits))
		groupObj.Name("Alignment").Int(int(group.alignment))
		groupObj.Name("Members").Int(group.members)
		groupObj.End()
	}
	groupsState.End()

	freeState := objState.Name("FreeIndices").Array()
	for _, index := range a.blocks.freeIndices {
		freeState.Int(index)
	}
	freeState.End()
}
