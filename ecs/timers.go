package ecs

import "sort"

// timerEpsilon absorbs float drift from accumulating fixed frame deltas.
const timerEpsilon = 1e-9

// TimerFunc runs when a timer expires.
type TimerFunc func(w *World)

// TimerHandle identifies a pending timer. The zero value is an unset handle.
// Components embed handles by value and pass their address to SetTimer.
type TimerHandle struct {
	id uint64
}

type timer struct {
	id     uint64
	owner  Entity
	due    float64
	fn     TimerFunc
	handle *TimerHandle
}

// Timers is the world's one-shot timer manager. Timers are owned by an
// entity and never fire after their owner is destroyed.
type Timers struct {
	next    uint64
	pending map[uint64]*timer
}

// SetTimer arms h to call fn once after delay seconds of simulated time.
// Any timer already held by h is cancelled first. A delay <= 0 leaves h
// cleared and schedules nothing.
func (w *World) SetTimer(h *TimerHandle, owner Entity, delay float64, fn TimerFunc) {
	if w == nil || h == nil {
		return
	}
	w.timers.clear(h)
	if delay <= 0 || fn == nil {
		return
	}
	if owner.Valid() && !w.IsAlive(owner) {
		return
	}
	if w.timers.pending == nil {
		w.timers.pending = make(map[uint64]*timer)
	}
	w.timers.next++
	t := &timer{
		id:     w.timers.next,
		owner:  owner,
		due:    w.elapsed + delay,
		fn:     fn,
		handle: h,
	}
	w.timers.pending[t.id] = t
	h.id = t.id
}

// ClearTimer cancels the timer held by h, if any.
func (w *World) ClearTimer(h *TimerHandle) {
	if w == nil || h == nil {
		return
	}
	w.timers.clear(h)
}

// IsTimerActive reports whether h holds a timer that has not fired yet.
func (w *World) IsTimerActive(h *TimerHandle) bool {
	if w == nil || h == nil || h.id == 0 {
		return false
	}
	_, ok := w.timers.pending[h.id]
	return ok
}

// TimerRemaining returns the seconds left on h, or 0 when inactive.
func (w *World) TimerRemaining(h *TimerHandle) float64 {
	if !w.IsTimerActive(h) {
		return 0
	}
	left := w.timers.pending[h.id].due - w.elapsed
	if left < 0 {
		return 0
	}
	return left
}

// PendingTimers returns the number of armed timers.
func (w *World) PendingTimers() int {
	if w == nil {
		return 0
	}
	return len(w.timers.pending)
}

func (t *Timers) clear(h *TimerHandle) {
	if h.id == 0 {
		return
	}
	delete(t.pending, h.id)
	h.id = 0
}

func (t *Timers) cancelOwner(owner Entity) {
	for id, tm := range t.pending {
		if tm.owner != owner {
			continue
		}
		delete(t.pending, id)
		if tm.handle != nil && tm.handle.id == id {
			tm.handle.id = 0
		}
	}
}

// fire runs every timer due at the current elapsed time, oldest deadline
// first. Callbacks may set or clear other timers.
func (t *Timers) fire(w *World) {
	if len(t.pending) == 0 {
		return
	}
	var due []*timer
	for _, tm := range t.pending {
		if tm.due <= w.elapsed+timerEpsilon {
			due = append(due, tm)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	for _, tm := range due {
		if _, ok := t.pending[tm.id]; !ok {
			continue
		}
		delete(t.pending, tm.id)
		if tm.handle != nil && tm.handle.id == tm.id {
			tm.handle.id = 0
		}
		if tm.owner.Valid() && !w.IsAlive(tm.owner) {
			continue
		}
		tm.fn(w)
	}
}
