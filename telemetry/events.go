// Package telemetry records mover events, summarises them per window and
// writes the results as CSV.
package telemetry

import (
	"strconv"

	"github.com/pthm-cable/tilewalk/event"
	"github.com/pthm-cable/tilewalk/grid"
)

// EventRecord is one event flattened for CSV export.
type EventRecord struct {
	Tick   int32  `csv:"tick"`
	Event  string `csv:"event"`
	Entity uint32 `csv:"entity"`
	Row    int    `csv:"row"`
	Col    int    `csv:"col"`
	Other  uint32 `csv:"other"`
	Detail string `csv:"detail"`
}

// NewEventRecord flattens ev. Row and Col are -1 for events without an index.
func NewEventRecord(tick int32, ev event.Event) EventRecord {
	rec := EventRecord{
		Tick:   tick,
		Event:  ev.Type.String(),
		Entity: ev.Source.ID(),
		Row:    grid.InvalidIndex.Row,
		Col:    grid.InvalidIndex.Col,
	}
	if idx, ok := ev.Index(); ok {
		rec.Row, rec.Col = idx.Row, idx.Col
	}

	switch p := ev.Payload.(type) {
	case event.DirectionPayload:
		rec.Detail = p.Direction.String()
	case event.CollisionPayload:
		rec.Other = p.Other.ID()
		rec.Detail = "contact"
		if p.Obstacle {
			rec.Detail = "obstacle"
		}
	case event.PathPayload:
		rec.Detail = strconv.Itoa(len(p.Path))
	case event.EntityPayload:
		rec.Other = p.Entity.ID()
	}
	return rec
}

type watch struct {
	em    *event.Emitter
	token int
}

// Recorder listens to mover emitters, buffers flattened events and feeds
// an optional Collector.
type Recorder struct {
	tick      int32
	keep      bool
	records   []EventRecord
	collector *Collector
	watches   []watch
}

// NewRecorder creates a recorder. With keep set every event is buffered
// until Drain; otherwise events only reach the collector.
func NewRecorder(collector *Collector, keep bool) *Recorder {
	return &Recorder{collector: collector, keep: keep}
}

// Watch subscribes to every event of em.
func (r *Recorder) Watch(em *event.Emitter) {
	token := em.OnAny(r.observe)
	r.watches = append(r.watches, watch{em: em, token: token})
}

// SetTick stamps subsequent events with tick.
func (r *Recorder) SetTick(tick int32) {
	r.tick = tick
}

func (r *Recorder) observe(ev event.Event) {
	// Per-frame motion is too chatty to keep
	if ev.Type == event.PreMove || ev.Type == event.PostMove {
		return
	}
	if r.collector != nil {
		r.collector.Observe(ev)
	}
	if r.keep {
		r.records = append(r.records, NewEventRecord(r.tick, ev))
	}
}

// Pending returns the number of buffered records.
func (r *Recorder) Pending() int {
	return len(r.records)
}

// Drain returns the buffered records and empties the buffer.
func (r *Recorder) Drain() []EventRecord {
	out := r.records
	r.records = nil
	return out
}

// Close unsubscribes from every watched emitter.
func (r *Recorder) Close() {
	for _, w := range r.watches {
		w.em.Off(w.token)
	}
	r.watches = nil
}
