package event

// Listener receives events.
type Listener func(ev Event)

type subscription struct {
	token int
	typ   Type
	any   bool // Receives every type
	once  bool
	fn    Listener
}

// Emitter dispatches events to listeners in registration order.
//
// Listeners added or removed while an event is dispatched take effect from
// the next Emit. Emitters are not safe for concurrent use.
type Emitter struct {
	subs      []subscription
	nextToken int
	counts    [typeCount]int
}

// NewEmitter creates an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{}
}

func (em *Emitter) add(s subscription) int {
	em.nextToken++
	s.token = em.nextToken
	em.subs = append(em.subs, s)
	return s.token
}

// On subscribes fn to events of type t.
func (em *Emitter) On(t Type, fn Listener) int {
	return em.add(subscription{typ: t, fn: fn})
}

// Once subscribes fn to the next event of type t only.
func (em *Emitter) Once(t Type, fn Listener) int {
	return em.add(subscription{typ: t, once: true, fn: fn})
}

// OnAny subscribes fn to every event.
func (em *Emitter) OnAny(fn Listener) int {
	return em.add(subscription{any: true, fn: fn})
}

// Off removes a subscription. Returns false for unknown tokens.
func (em *Emitter) Off(token int) bool {
	for i, s := range em.subs {
		if s.token == token {
			em.subs = append(em.subs[:i:i], em.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Listeners returns the number of active subscriptions.
func (em *Emitter) Listeners() int {
	return len(em.subs)
}

// Emit delivers ev to every matching listener.
func (em *Emitter) Emit(ev Event) {
	if ev.Type < typeCount {
		em.counts[ev.Type]++
	}
	if len(em.subs) == 0 {
		return
	}

	snapshot := append([]subscription(nil), em.subs...)
	for _, s := range snapshot {
		if !s.any && s.typ != ev.Type {
			continue
		}
		if s.once {
			// Drop before calling so a re-entrant emit cannot fire it twice
			if !em.Off(s.token) {
				continue
			}
		}
		s.fn(ev)
	}
}

// Count returns how many events of type t were emitted since the last Clear.
func (em *Emitter) Count(t Type) int {
	if t >= typeCount {
		return 0
	}
	return em.counts[t]
}

// Clear removes every listener and resets the counters.
func (em *Emitter) Clear() {
	em.subs = nil
	em.counts = [typeCount]int{}
}
