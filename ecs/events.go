package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

// OverlapPhase identifies overlap event types.
type OverlapPhase string

const (
	OverlapBegin OverlapPhase = "begin"
	OverlapEnd   OverlapPhase = "end"
)

// EventOverlap is the Event.Type used for OverlapEvent payloads.
const EventOverlap = "overlap"

// OverlapEvent is emitted when another entity starts or stops intersecting
// one of an entity's trigger volumes.
type OverlapEvent struct {
	Phase   OverlapPhase
	Trigger Entity
	Volume  string
	Other   Entity
}

// EventQueue is a simple FIFO queue. Events live until the end of the frame
// they were pushed in, so every system after the producer can read them.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Items returns the events pushed so far this frame without consuming them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Overlaps returns this frame's overlap events for the given trigger volume.
func (q *EventQueue) Overlaps(volume string) []OverlapEvent {
	if q == nil {
		return nil
	}
	var out []OverlapEvent
	for _, evt := range q.items {
		if evt.Type != EventOverlap {
			continue
		}
		ov, ok := evt.Data.(OverlapEvent)
		if !ok || ov.Volume != volume {
			continue
		}
		out = append(out, ov)
	}
	return out
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
