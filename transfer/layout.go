package transfer

import (
	"github.com/vkngwrapper/core/v2/core1_0"
)

type layoutTransition struct {
	from core1_0.ImageLayout
	to   core1_0.ImageLayout
}

// transitionScope is the synchronization a layout transition needs: which earlier work it
// waits for and which later work waits for it
type transitionScope struct {
	sourceAccess      core1_0.AccessFlags
	destinationAccess core1_0.AccessFlags
	sourceStage       core1_0.PipelineStageFlags
	destinationStage  core1_0.PipelineStageFlags
}

var supportedTransitions = map[layoutTransition]transitionScope{
	{from: core1_0.ImageLayoutUndefined, to: core1_0.ImageLayoutTransferDstOptimal}: {
		sourceAccess:      0,
		destinationAccess: core1_0.AccessTransferWrite,
		sourceStage:       core1_0.PipelineStageTopOfPipe,
		destinationStage:  core1_0.PipelineStageTransfer,
	},
	{from: core1_0.ImageLayoutUndefined, to: core1_0.ImageLayoutShaderReadOnlyOptimal}: {
		sourceAccess:      0,
		destinationAccess: core1_0.AccessShaderRead,
		sourceStage:       core1_0.PipelineStageTopOfPipe,
		destinationStage:  core1_0.PipelineStageFragmentShader,
	},
	{from: core1_0.ImageLayoutTransferDstOptimal, to: core1_0.ImageLayoutShaderReadOnlyOptimal}: {
		sourceAccess:      core1_0.AccessTransferWrite,
		destinationAccess: core1_0.AccessShaderRead,
		sourceStage:       core1_0.PipelineStageTransfer,
		destinationStage:  core1_0.PipelineStageFragmentShader,
	},
	{from: core1_0.ImageLayoutShaderReadOnlyOptimal, to: core1_0.ImageLayoutTransferDstOptimal}: {
		sourceAccess:      core1_0.AccessShaderRead,
		destinationAccess: core1_0.AccessTransferWrite,
		sourceStage:       core1_0.PipelineStageFragmentShader,
		destinationStage:  core1_0.PipelineStageTransfer,
	},
	{from: core1_0.ImageLayoutUndefined, to: core1_0.ImageLayoutDepthStencilAttachmentOptimal}: {
		sourceAccess:      0,
		destinationAccess: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite,
		sourceStage:       core1_0.PipelineStageTopOfPipe,
		destinationStage:  core1_0.PipelineStageEarlyFragmentTests,
	},
}

func lookupTransition(from, to core1_0.ImageLayout) (transitionScope, error) {
	scope, ok := supportedTransitions[layoutTransition{from: from, to: to}]
	if !ok {
		return transitionScope{}, misuse("unsupported image layout transition from %s to %s", from, to)
	}
	return scope, nil
}
