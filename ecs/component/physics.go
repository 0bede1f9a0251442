package component

import "github.com/jakecoffman/cp"

// BodyType selects how the physics space treats a body.
type BodyType string

const (
	BodyDynamic   BodyType = "dynamic"
	BodyKinematic BodyType = "kinematic"
	BodyStatic    BodyType = "static"
)

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Width/Height describe a box centred on the Transform; Radius > 0 makes it
// a circle instead.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Type          BodyType
	Width         float64
	Height        float64
	Radius        float64
	Mass          float64
	Friction      float64
	Elasticity    float64
	FixedRotation bool
	IgnoreGravity bool

	// Held freezes a dynamic body in place while something else positions it.
	Held bool
	// Grounded is refreshed every physics step.
	Grounded bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Simulating reports whether the space integrates this body.
func (b *PhysicsBody) Simulating() bool {
	return b != nil && b.Body != nil && b.Type == BodyDynamic
}

// HalfExtents returns the half size of the collider's bounding box.
func (b *PhysicsBody) HalfExtents() cp.Vector {
	if b.Radius > 0 {
		return cp.Vector{X: b.Radius, Y: b.Radius}
	}
	return cp.Vector{X: b.Width / 2, Y: b.Height / 2}
}
