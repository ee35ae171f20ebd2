package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated movement statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Mover counts at window end
	Movers int `csv:"movers"`
	Moving int `csv:"moving"`

	// Tile transitions
	MovesBegun       int     `csv:"moves_begun"`
	MovesFinished    int     `csv:"moves_finished"`
	BorderCollisions int     `csv:"border_collisions"`
	TileCollisions   int     `csv:"tile_collisions"`
	ObstacleBlocks   int     `csv:"obstacle_blocks"`
	Contacts         int     `csv:"contacts"`
	BlockRate        float64 `csv:"block_rate"` // Share of move attempts refused

	// Path finding
	PathsGenerated int     `csv:"paths_generated"`
	Unreachable    int     `csv:"unreachable"`
	Replans        int     `csv:"replans"`
	Arrivals       int     `csv:"arrivals"`
	PathLenMean    float64 `csv:"path_len_mean"`
	PathLenStd     float64 `csv:"path_len_std"`
	PathLenP50     float64 `csv:"path_len_p50"`
	PathLenP90     float64 `csv:"path_len_p90"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputePathStats calculates mean, sample standard deviation and
// percentiles of path lengths.
func ComputePathStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("movers", s.Movers),
		slog.Int("moving", s.Moving),
		slog.Int("moves_begun", s.MovesBegun),
		slog.Int("moves_finished", s.MovesFinished),
		slog.Int("border_collisions", s.BorderCollisions),
		slog.Int("tile_collisions", s.TileCollisions),
		slog.Int("obstacle_blocks", s.ObstacleBlocks),
		slog.Int("contacts", s.Contacts),
		slog.Float64("block_rate", s.BlockRate),
		slog.Int("paths_generated", s.PathsGenerated),
		slog.Int("unreachable", s.Unreachable),
		slog.Int("replans", s.Replans),
		slog.Int("arrivals", s.Arrivals),
		slog.Float64("path_len_mean", s.PathLenMean),
		slog.Float64("path_len_std", s.PathLenStd),
		slog.Float64("path_len_p50", s.PathLenP50),
		slog.Float64("path_len_p90", s.PathLenP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
