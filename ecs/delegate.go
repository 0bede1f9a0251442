package ecs

// Handler observes a broadcast from entity e.
type Handler func(w *World, e Entity)

// Delegate is a multicast list of handlers. Handlers run in the order they
// were added.
type Delegate struct {
	handlers []Handler
}

func (d *Delegate) Add(h Handler) {
	if d == nil || h == nil {
		return
	}
	d.handlers = append(d.handlers, h)
}

func (d *Delegate) Clear() {
	if d == nil {
		return
	}
	d.handlers = nil
}

func (d *Delegate) Len() int {
	if d == nil {
		return 0
	}
	return len(d.handlers)
}

// Broadcast calls every handler with e as the source.
func (d *Delegate) Broadcast(w *World, e Entity) {
	if d == nil {
		return
	}
	for _, h := range append([]Handler(nil), d.handlers...) {
		h(w, e)
	}
}
