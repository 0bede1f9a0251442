package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/ecs"
)

type LaunchMode string

const (
	LaunchImpulse LaunchMode = "impulse"
	LaunchForce   LaunchMode = "force"
)

// Launcher pushes whatever overlaps its collider volume.
type Launcher struct {
	Direction  cp.Vector
	Strength   float64
	Mode       LaunchMode
	Continuous bool
	// MoveTowardsTarget aims the mover, and the launch, at whatever enters
	// the trigger volume.
	MoveTowardsTarget bool

	Resolved    bool
	Overlapping []ecs.Entity
}

var LauncherComponent = NewComponent[Launcher]()

func (l *Launcher) Track(e ecs.Entity) {
	for _, o := range l.Overlapping {
		if o == e {
			return
		}
	}
	l.Overlapping = append(l.Overlapping, e)
}

func (l *Launcher) Untrack(e ecs.Entity) {
	for i, o := range l.Overlapping {
		if o == e {
			l.Overlapping = append(l.Overlapping[:i], l.Overlapping[i+1:]...)
			return
		}
	}
}
