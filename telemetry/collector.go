package telemetry

import "github.com/pthm-cable/tilewalk/event"

// Collector accumulates mover events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for the current window
	movesBegun       int
	movesFinished    int
	borderCollisions int
	tileCollisions   int
	obstacleBlocks   int
	contacts         int
	pathsGenerated   int
	unreachable      int
	replans          int
	arrivals         int

	pathLengths []float64
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Observe counts a single event.
func (c *Collector) Observe(ev event.Event) {
	switch ev.Type {
	case event.MoveBegin:
		c.movesBegun++
	case event.MoveEnd:
		c.movesFinished++
	case event.BorderCollision:
		c.borderCollisions++
	case event.TileCollision:
		c.tileCollisions++
	case event.ObjectCollision:
		if p, ok := ev.Payload.(event.CollisionPayload); ok && p.Obstacle {
			c.obstacleBlocks++
		} else {
			c.contacts++
		}
	case event.PathGenerated:
		c.pathsGenerated++
		if p, ok := ev.Payload.(event.PathPayload); ok {
			if len(p.Path) == 0 {
				c.unreachable++
			} else {
				c.pathLengths = append(c.pathLengths, float64(len(p.Path)))
			}
		}
	case event.AdaptiveReplan:
		c.replans++
	case event.DestinationReached:
		c.arrivals++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// movers and moving are the mover count and how many are mid-move.
func (c *Collector) Flush(currentTick int32, movers, moving int) WindowStats {
	var blockRate float64
	attempts := c.movesBegun + c.borderCollisions + c.tileCollisions + c.obstacleBlocks
	if attempts > 0 {
		blockRate = float64(attempts-c.movesBegun) / float64(attempts)
	}

	pathMean, pathStd, pathP50, pathP90 := ComputePathStats(c.pathLengths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Movers: movers,
		Moving: moving,

		MovesBegun:       c.movesBegun,
		MovesFinished:    c.movesFinished,
		BorderCollisions: c.borderCollisions,
		TileCollisions:   c.tileCollisions,
		ObstacleBlocks:   c.obstacleBlocks,
		Contacts:         c.contacts,
		BlockRate:        blockRate,

		PathsGenerated: c.pathsGenerated,
		Unreachable:    c.unreachable,
		Replans:        c.replans,
		Arrivals:       c.arrivals,
		PathLenMean:    pathMean,
		PathLenStd:     pathStd,
		PathLenP50:     pathP50,
		PathLenP90:     pathP90,
	}

	c.windowStartTick = currentTick
	c.movesBegun = 0
	c.movesFinished = 0
	c.borderCollisions = 0
	c.tileCollisions = 0
	c.obstacleBlocks = 0
	c.contacts = 0
	c.pathsGenerated = 0
	c.unreachable = 0
	c.replans = 0
	c.arrivals = 0
	c.pathLengths = c.pathLengths[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
