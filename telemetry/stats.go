package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Ant states at window end
	Seeking   int `csv:"seeking"`
	Returning int `csv:"returning"`

	// Events during window
	FoodFound       int `csv:"food_found"`
	Deliveries      int `csv:"deliveries"`
	TotalDeliveries int `csv:"total_deliveries"`
	DeadEnds        int `csv:"dead_ends"`
	Retreats        int `csv:"retreats"`
	Fallbacks       int `csv:"fallbacks"`
	Decays          int `csv:"decays"`

	// Legs completed during window (seconds, hops)
	OutboundSecMean float64 `csv:"outbound_sec_mean"`
	OutboundSecStd  float64 `csv:"outbound_sec_std"`
	OutboundSecP50  float64 `csv:"outbound_sec_p50"`
	OutboundHops    float64 `csv:"outbound_hops_mean"`
	ReturnSecMean   float64 `csv:"return_sec_mean"`
	ReturnSecStd    float64 `csv:"return_sec_std"`
	ReturnSecP50    float64 `csv:"return_sec_p50"`
	ReturnHops      float64 `csv:"return_hops_mean"`

	// Pheromone field (sampled at window end)
	PheromoneTotal float64 `csv:"pheromone_total"`
	PheromoneMax   float64 `csv:"pheromone_max"`
	MarkedCells    int     `csv:"marked_cells"`
	DeadEndCells   int     `csv:"dead_end_cells"`
}

// ComputeLegStats returns the mean, sample standard deviation and median of values.
// Empty input yields zeros; a single value has zero deviation.
func ComputeLegStats(values []float64) (mean, std, p50 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return mean, std, p50
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("seeking", s.Seeking),
		slog.Int("returning", s.Returning),
		slog.Int("food_found", s.FoodFound),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("total_deliveries", s.TotalDeliveries),
		slog.Int("dead_ends", s.DeadEnds),
		slog.Int("retreats", s.Retreats),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Int("decays", s.Decays),
		slog.Float64("outbound_sec_mean", s.OutboundSecMean),
		slog.Float64("outbound_sec_std", s.OutboundSecStd),
		slog.Float64("outbound_sec_p50", s.OutboundSecP50),
		slog.Float64("outbound_hops_mean", s.OutboundHops),
		slog.Float64("return_sec_mean", s.ReturnSecMean),
		slog.Float64("return_sec_std", s.ReturnSecStd),
		slog.Float64("return_sec_p50", s.ReturnSecP50),
		slog.Float64("return_hops_mean", s.ReturnHops),
		slog.Float64("pheromone_total", s.PheromoneTotal),
		slog.Float64("pheromone_max", s.PheromoneMax),
		slog.Int("marked_cells", s.MarkedCells),
		slog.Int("dead_end_cells", s.DeadEndCells),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"seeking", s.Seeking,
		"returning", s.Returning,
		"food_found", s.FoodFound,
		"deliveries", s.Deliveries,
		"total_deliveries", s.TotalDeliveries,
		"dead_ends", s.DeadEnds,
		"fallbacks", s.Fallbacks,
		"outbound_sec_mean", s.OutboundSecMean,
		"return_sec_mean", s.ReturnSecMean,
		"return_hops_mean", s.ReturnHops,
		"pheromone_total", s.PheromoneTotal,
		"dead_end_cells", s.DeadEndCells,
	)
}
