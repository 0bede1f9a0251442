package component

import "github.com/jakecoffman/cp"

// Mover slides an obstacle between its start position and
// start + Direction*Amount.
type Mover struct {
	Direction cp.Vector
	Amount    float64
	Speed     float64

	Start      cp.Vector
	HasStart   bool
	MovingUp   bool
	ShouldMove bool
}

var MoverComponent = NewComponent[Mover]()
