package system

import (
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
)

// AttachmentSystem keeps attached entities at their offset from the parent.
// Attachments whose parent is gone are removed.
type AttachmentSystem struct{}

func NewAttachmentSystem() *AttachmentSystem { return &AttachmentSystem{} }

func (s *AttachmentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.AttachmentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, a *component.Attachment, t *component.Transform) {
		parent, ok := ecs.Get(w, a.Parent, component.TransformComponent.Kind())
		if !ok {
			ecs.Remove(w, e, component.AttachmentComponent.Kind())
			if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
				body.Held = false
			}
			if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && !p.Dead {
				SetPlayerInputEnabled(w, e, true)
			}
			return
		}
		t.SetPosition(parent.Position().Add(a.Offset))
	})
}
