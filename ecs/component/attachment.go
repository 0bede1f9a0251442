package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

// Attachment keeps an entity at a fixed offset from its parent.
type Attachment struct {
	Parent ecs.Entity
	Offset cp.Vector
}

var AttachmentComponent = NewComponent[Attachment]()
