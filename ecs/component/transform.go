package component

import "github.com/jakecoffman/cp"

// Transform is an entity's world placement. Rotation is in radians, measured
// from +X toward +Y (screen space, Y down).
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()

func (t *Transform) Position() cp.Vector {
	return cp.Vector{X: t.X, Y: t.Y}
}

func (t *Transform) SetPosition(p cp.Vector) {
	t.X = p.X
	t.Y = p.Y
}

// Forward is the unit vector the entity faces.
func (t *Transform) Forward() cp.Vector {
	return cp.ForAngle(t.Rotation)
}
