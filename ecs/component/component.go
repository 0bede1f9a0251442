package component

import "github.com/milk9111/levelupjam/ecs"

// NewComponent allocates a typed component handle.
func NewComponent[T any]() ecs.ComponentHandle[T] {
	return ecs.NewComponent[T]()
}
