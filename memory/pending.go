package memory

import (
	"github.com/dolthub/swiss"
	pkgerrors "github.com/pkg/errors"
	"github.com/vkngwrapper/arsenal/memutils"
	"github.com/vkngwrapper/core/v2/core1_0"
	"golang.org/x/exp/slices"
)

// pendingGroup accumulates lazy requests with the same memory property flags into a single
// reserved block until the block is materialized
type pendingGroup struct {
	flags          core1_0.MemoryPropertyFlags
	block          *memoryBlock
	size           int
	memoryTypeBits uint32
	alignment      uint
	members        int
}

// place returns the offset the next compatible request will land at
func (g *pendingGroup) place(request Request) int {
	return memutils.AlignUp(g.size, request.Alignment)
}

func (g *pendingGroup) merge(request Request) int {
	offset := g.place(request)
	g.size = offset + request.Size
	g.memoryTypeBits &= request.MemoryTypeBits
	g.members++
	g.block.addRange(offset, request.Size)

	return offset
}

type pendingGroups struct {
	groups *swiss.Map[core1_0.MemoryPropertyFlags, *pendingGroup]
}

func newPendingGroups() pendingGroups {
	return pendingGroups{
		groups: swiss.NewMap[core1_0.MemoryPropertyFlags, *pendingGroup](8),
	}
}

func (p *pendingGroups) get(flags core1_0.MemoryPropertyFlags) (*pendingGroup, bool) {
	return p.groups.Get(flags)
}

func (p *pendingGroups) open(block *memoryBlock, request Request) *pendingGroup {
	if _, exists := p.groups.Get(request.Flags); exists {
		panic("attempted to open a pending group over an existing group")
	}

	group := &pendingGroup{
		flags:          request.Flags,
		block:          block,
		size:           request.Size,
		memoryTypeBits: request.MemoryTypeBits,
		alignment:      request.Alignment,
		members:        1,
	}

	block.state = BlockPending
	block.flags = request.Flags
	block.group = group
	block.addRange(0, request.Size)

	p.groups.Put(request.Flags, group)
	return group
}

func (p *pendingGroups) close(group *pendingGroup) {
	p.groups.Delete(group.flags)
}

func (p *pendingGroups) count() int {
	return p.groups.Count()
}

// sorted returns every open group ordered by flags, so flushes happen in a stable order
func (p *pendingGroups) sorted() []*pendingGroup {
	groups := make([]*pendingGroup, 0, p.groups.Count())
	p.groups.Iter(func(flags core1_0.MemoryPropertyFlags, group *pendingGroup) bool {
		groups = append(groups, group)
		return false
	})

	slices.SortFunc(groups, func(left, right *pendingGroup) bool {
		return left.flags < right.flags
	})
	return groups
}

func (p *pendingGroups) clear() {
	p.groups = swiss.NewMap[core1_0.MemoryPropertyFlags, *pendingGroup](8)
}

func (p *pendingGroups) Validate() error {
	var err error
	p.groups.Iter(func(flags core1_0.MemoryPropertyFlags, group *pendingGroup) bool {
		switch {
		case group.flags != flags:
			err = pkgerrors.Errorf("pending group for %s is stored under %s", group.flags, flags)
		case group.block == nil || group.block.group != group:
			err = pkgerrors.Errorf("pending group for %s does not own its block", flags)
		case group.block.state != BlockPending:
			err = pkgerrors.Errorf("pending group for %s holds block %d in state %s", flags, group.block.index, group.block.state)
		case group.memoryTypeBits == 0:
			err = pkgerrors.Errorf("pending group for %s accepts no memory types", flags)
		case group.block.references < group.members:
			err = pkgerrors.Errorf("pending group for %s has %d members but its block has %d references", flags, group.members, group.block.references)
		}
		return err != nil
	})
	return err
}
