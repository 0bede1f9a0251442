package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelupjam/common"
	"github.com/milk9111/levelupjam/ecs"
	"github.com/milk9111/levelupjam/ecs/component"
	"github.com/rs/zerolog"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeCharacterGround
	collisionTypeSolid
)

// PhysicsSystem owns the Chipmunk space. It creates bodies for new
// PhysicsBody components, drives kinematic and held bodies from their
// transforms, steps the space and copies simulated positions back.
type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool
	log           zerolog.Logger

	entities     map[ecs.Entity]*bodyInfo
	groundShapes map[*cp.Shape]ecs.Entity
	grounded     map[ecs.Entity]bool
}

type bodyInfo struct {
	body        *cp.Body
	mainShape   *cp.Shape
	groundShape *cp.Shape
	shapes      []*cp.Shape
	static      bool
}

func NewPhysicsSystem(log zerolog.Logger) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return &PhysicsSystem{
		space:        space,
		log:          log.With().Str("system", "physics").Logger(),
		entities:     make(map[ecs.Entity]*bodyInfo),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		grounded:     make(map[ecs.Entity]bool),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.driveBodies(w)

	for e := range ps.grounded {
		ps.grounded[e] = false
	}

	if dt := w.DeltaSeconds(); dt > 0 {
		ps.space.Step(dt)
	}

	ps.syncTransforms(w)
	ps.flushGrounded(w)
}

// TraceFirst casts a segment from start to end through the space and
// returns the entity owning the first shape hit. Shapes belonging to ignore
// are skipped.
func (ps *PhysicsSystem) TraceFirst(start, end cp.Vector, ignore ecs.Entity) (ecs.Entity, cp.Vector, bool) {
	if ps == nil || ps.space == nil {
		return 0, cp.Vector{}, false
	}
	filter := cp.SHAPE_FILTER_ALL
	if ignore.Valid() {
		filter = cp.NewShapeFilter(uint(ignore), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	}
	info := ps.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return 0, cp.Vector{}, false
	}
	hit, _ := info.Shape.UserData.(ecs.Entity)
	return hit, info.Point, true
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypeCharacterGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		e, okA := sys.groundShapes[shapeA]
		if !okA {
			var okB bool
			e, okB = sys.groundShapes[shapeB]
			if !okB {
				return true
			}
		}
		n := arb.Normal()
		if !okA {
			n = n.Neg()
		}
		// Normal points from the sensor down into the floor (Y down).
		if n.Y <= 0.5 {
			return true
		}
		sys.grounded[e] = true
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
			return
		}

		isCharacter := ecs.Has(w, e, component.PlayerComponent.Kind())
		info := ps.createBodyInfo(e, transform, bodyComp, isCharacter)
		if info == nil {
			return
		}
		ps.entities[e] = info
		if info.groundShape != nil {
			ps.groundShapes[info.groundShape] = e
			ps.grounded[e] = false
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
		ps.log.Debug().Stringer("entity", e).Str("type", string(bodyComp.Type)).Msg("body created")
	})
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody, isCharacter bool) *bodyInfo {
	width, height, radius := bodyComp.Width, bodyComp.Height, bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = 32, 32
		bodyComp.Width, bodyComp.Height = width, height
	}
	center := transform.Position()
	filter := cp.NewShapeFilter(uint(e), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)

	info := &bodyInfo{static: bodyComp.Type == component.BodyStatic}

	if info.static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		ps.configureShape(shape, e, filter, bodyComp)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	var body *cp.Body
	if bodyComp.Type == component.BodyKinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
			bodyComp.Mass = mass
		}
		var moment float64
		switch {
		case bodyComp.FixedRotation:
			moment = math.Inf(1)
		case radius > 0:
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		default:
			moment = cp.MomentForBox(mass, width, height)
		}
		body = cp.NewBody(mass, moment)
		held := bodyComp
		body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			if held.Held {
				b.SetVelocityVector(cp.Vector{})
				b.SetForce(cp.Vector{})
				return
			}
			if held.IgnoreGravity {
				gravity = cp.Vector{}
			}
			cp.BodyUpdateVelocity(b, gravity, damping, dt)
		})
	}
	body.UserData = e
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)
	body.SetAngularVelocity(0)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	ps.configureShape(shape, e, filter, bodyComp)
	if isCharacter {
		shape.SetCollisionType(collisionTypeCharacter)
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if isCharacter && radius <= 0 {
		groundBB := cp.BB{
			L: -width * 0.45,
			B: height / 2.0,
			R: width * 0.45,
			T: height/2.0 + 2,
		}
		groundShape := cp.NewBox2(body, groundBB, 0)
		groundShape.SetSensor(true)
		groundShape.SetCollisionType(collisionTypeCharacterGround)
		groundShape.SetFilter(filter)
		groundShape.UserData = e
		ps.space.AddShape(groundShape)
		info.groundShape = groundShape
		info.shapes = append(info.shapes, groundShape)
	}

	return info
}

func (ps *PhysicsSystem) configureShape(shape *cp.Shape, e ecs.Entity, filter cp.ShapeFilter, bodyComp *component.PhysicsBody) {
	friction := bodyComp.Friction
	if friction <= 0 {
		friction = 0.8
	}
	shape.SetFriction(friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(filter)
	shape.UserData = e
}

// driveBodies moves kinematic bodies toward their transform over the coming
// step and pins held bodies to theirs.
func (ps *PhysicsSystem) driveBodies(w *ecs.World) {
	dt := w.DeltaSeconds()
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil {
			return
		}
		switch {
		case bodyComp.Type == component.BodyKinematic:
			if dt <= 0 {
				bodyComp.Body.SetPosition(transform.Position())
				return
			}
			delta := transform.Position().Sub(bodyComp.Body.Position())
			bodyComp.Body.SetVelocityVector(delta.Mult(1 / dt))
		case bodyComp.Type == component.BodyDynamic && bodyComp.Held:
			bodyComp.Body.SetPosition(transform.Position())
			bodyComp.Body.SetVelocityVector(cp.Vector{})
		}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Type != component.BodyDynamic || bodyComp.Held {
			return
		}
		transform.SetPosition(bodyComp.Body.Position())
		if !bodyComp.FixedRotation {
			transform.Rotation = bodyComp.Body.Angle()
		}
	})
}

func (ps *PhysicsSystem) flushGrounded(w *ecs.World) {
	for e, grounded := range ps.grounded {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		bodyComp.Grounded = grounded
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}

		for _, shape := range info.shapes {
			if shape == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.groundShapes, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}

		delete(ps.entities, e)
		delete(ps.grounded, e)
	}
}

// Teleport moves an entity and its body, clearing any velocity.
func Teleport(w *ecs.World, e ecs.Entity, pos cp.Vector) {
	transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	transform.SetPosition(pos)
	if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && bodyComp.Body != nil && bodyComp.Type != component.BodyStatic {
		bodyComp.Body.SetPosition(pos)
		bodyComp.Body.SetVelocityVector(cp.Vector{})
	}
}

// AddVelocity adds v to a simulated body's velocity.
func AddVelocity(w *ecs.World, e ecs.Entity, v cp.Vector) bool {
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || !bodyComp.Simulating() {
		return false
	}
	bodyComp.Body.SetVelocityVector(bodyComp.Body.Velocity().Add(v))
	return true
}
