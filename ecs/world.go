package ecs

// World owns entities, components, timers, and system order.
type World struct {
	entities entityStore
	stores   map[ComponentID]*SparseSet
	systems  Scheduler
	events   EventQueue
	timers   Timers

	dt      float64
	elapsed float64
	frame   uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e, cancels the timers it owns,
// and invalidates the handle. It reports whether e was alive.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	w.timers.cancelOwner(e)
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	w.systems.Add(s)
}

// Update advances the clock by dt seconds, fires due timers, runs all
// systems once and flushes the frame's events.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
	w.elapsed += dt
	w.frame++

	w.timers.fire(w)

	w.systems.Update(w)
	w.events.flush()
}

// DeltaSeconds returns the length of the current frame.
func (w *World) DeltaSeconds() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Elapsed returns the simulated time since the world was created.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Frame returns the number of completed Update calls, including the current one.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores v under the given component id, replacing any
// existing value.
func (w *World) AddComponent(e Entity, id ComponentID, v any) error {
	if id == 0 {
		return ErrInvalidComponentKind
	}
	if v == nil {
		return ErrNilComponent
	}
	if !w.IsAlive(e) {
		return ErrEntityNotAlive
	}
	w.store(id, true).Set(e, v)
	return nil
}

// RemoveComponent deletes the component with the given id from e.
func (w *World) RemoveComponent(e Entity, id ComponentID) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(id, false).Remove(e)
}

// HasComponent reports whether e has a component with the given id.
func (w *World) HasComponent(e Entity, id ComponentID) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(id, false).Has(e)
}

// GetComponent returns the raw component value with the given id.
func (w *World) GetComponent(e Entity, id ComponentID) (any, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	v := w.store(id, false).Get(e)
	return v, v != nil
}
