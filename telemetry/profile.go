package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is a section of the simulation step.
type Phase uint8

// Step phases in execution order.
const (
	PhasePlanning Phase = iota
	PhaseMovers
	PhasePhysics
	PhaseGrid
	PhaseTelemetry

	phaseCount
)

var phaseNames = [phaseCount]string{"planning", "movers", "physics", "grid", "telemetry"}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases returns the step phases in execution order.
func Phases() []Phase {
	out := make([]Phase, phaseCount)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// tickProfile is the cost of one step.
type tickProfile struct {
	total    time.Duration
	phases   [phaseCount]time.Duration
	searches int
	explored int
	search   time.Duration
}

// Profiler times simulation steps and the path searches run inside them
// over a rolling window of ticks.
//
// Searches reported between two ticks are charged to the next tick that
// ends, so plans made from input handlers are not lost.
type Profiler struct {
	ring   []tickProfile
	next   int
	filled int

	cur        tickProfile
	inTick     bool
	tickStart  time.Time
	phase      Phase
	phaseStart time.Time
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewProfiler creates a profiler averaging over window ticks.
func NewProfiler(window int) *Profiler {
	if window < 1 {
		window = 60
	}
	return &Profiler{ring: make([]tickProfile, window), now: time.Now}
}

// BeginTick starts timing a step.
func (p *Profiler) BeginTick() {
	p.tickStart = p.now()
	p.inTick = true
	p.inPhase = false
}

// Enter closes the running phase, if any, and starts timing ph.
func (p *Profiler) Enter(ph Phase) {
	if !p.inTick || ph >= phaseCount {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.inPhase = true
}

// EndTick closes the step and stores it in the window.
func (p *Profiler) EndTick() {
	if !p.inTick {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
	p.cur = tickProfile{}
	p.inTick = false
}

func (p *Profiler) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// ObserveSearch records one planning round: searches strategy calls that
// expanded explored nodes in elapsed wall time.
func (p *Profiler) ObserveSearch(searches, explored int, elapsed time.Duration) {
	p.cur.searches += searches
	p.cur.explored += explored
	p.cur.search += elapsed
}

// RecordFrame marks a rendered frame.
func (p *Profiler) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// ProfileStats summarises the window.
type ProfileStats struct {
	Ticks int

	TickMean time.Duration
	TickP95  time.Duration
	TickMax  time.Duration

	// Fraction of summed tick time per phase
	PhaseShare [phaseCount]float64

	Searches        int
	SearchesPerTick float64
	ExploredMean    float64 // Nodes per search
	ExploredMax     int     // Largest single-tick total
	SearchShare     float64 // Fraction of tick time spent searching

	TicksPerSecond float64
	FPS            float64
}

// Share returns the fraction of tick time spent in ph.
func (s ProfileStats) Share(ph Phase) float64 {
	if ph >= phaseCount {
		return 0
	}
	return s.PhaseShare[ph]
}

// Stats summarises the ticks currently in the window.
func (p *Profiler) Stats() ProfileStats {
	var s ProfileStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}
	s.Ticks = p.filled

	totals := make([]float64, 0, p.filled)
	var sum, searchTime time.Duration
	var phases [phaseCount]time.Duration
	explored := 0
	for _, tp := range p.ring[:p.filled] {
		totals = append(totals, float64(tp.total))
		sum += tp.total
		for i, d := range tp.phases {
			phases[i] += d
		}
		s.Searches += tp.searches
		explored += tp.explored
		searchTime += tp.search
		if tp.explored > s.ExploredMax {
			s.ExploredMax = tp.explored
		}
	}
	sort.Float64s(totals)

	s.TickMean = time.Duration(stat.Mean(totals, nil))
	s.TickP95 = time.Duration(Percentile(totals, 0.95))
	s.TickMax = time.Duration(totals[len(totals)-1])
	s.SearchesPerTick = float64(s.Searches) / float64(p.filled)
	if s.Searches > 0 {
		s.ExploredMean = float64(explored) / float64(s.Searches)
	}
	if sum > 0 {
		for i, d := range phases {
			s.PhaseShare[i] = float64(d) / float64(sum)
		}
		s.SearchShare = min(float64(searchTime)/float64(sum), 1)
	}
	if s.TickMean > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.TickMean)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s ProfileStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("tick_mean_us", s.TickMean.Microseconds()),
		slog.Int64("tick_p95_us", s.TickP95.Microseconds()),
		slog.Int64("tick_max_us", s.TickMax.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Int("searches", s.Searches),
		slog.Float64("explored_mean", s.ExploredMean),
		slog.Int("explored_max", s.ExploredMax),
		slog.Float64("search_share", s.SearchShare),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		attrs = append(attrs, slog.Float64(ph.String()+"_share", s.PhaseShare[ph]))
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the summary at info level.
func (s ProfileStats) LogStats() {
	slog.Info("profile", "window", s)
}

// ProfileRow is one perf.csv record.
type ProfileRow struct {
	WindowEnd       int32   `csv:"window_end"`
	Ticks           int     `csv:"ticks"`
	TickMeanUS      int64   `csv:"tick_mean_us"`
	TickP95US       int64   `csv:"tick_p95_us"`
	TickMaxUS       int64   `csv:"tick_max_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	Searches        int     `csv:"searches"`
	SearchesPerTick float64 `csv:"searches_per_tick"`
	ExploredMean    float64 `csv:"explored_mean"`
	ExploredMax     int     `csv:"explored_max"`
	SearchShare     float64 `csv:"search_share"`
	PlanningShare   float64 `csv:"planning_share"`
	MoversShare     float64 `csv:"movers_share"`
	PhysicsShare    float64 `csv:"physics_share"`
	GridShare       float64 `csv:"grid_share"`
	TelemetryShare  float64 `csv:"telemetry_share"`
}

// Row flattens the summary for the window ending at windowEnd.
func (s ProfileStats) Row(windowEnd int32) ProfileRow {
	return ProfileRow{
		WindowEnd:       windowEnd,
		Ticks:           s.Ticks,
		TickMeanUS:      s.TickMean.Microseconds(),
		TickP95US:       s.TickP95.Microseconds(),
		TickMaxUS:       s.TickMax.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		Searches:        s.Searches,
		SearchesPerTick: s.SearchesPerTick,
		ExploredMean:    s.ExploredMean,
		ExploredMax:     s.ExploredMax,
		SearchShare:     s.SearchShare,
		PlanningShare:   s.PhaseShare[PhasePlanning],
		MoversShare:     s.PhaseShare[PhaseMovers],
		PhysicsShare:    s.PhaseShare[PhasePhysics],
		GridShare:       s.PhaseShare[PhaseGrid],
		TelemetryShare:  s.PhaseShare[PhaseTelemetry],
	}
}
