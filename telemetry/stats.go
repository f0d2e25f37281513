package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated pursuit statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Hunters       int `csv:"hunters"`
	Pursuing      int `csv:"pursuing"`
	DronesActive  int `csv:"drones_active"`
	DronesDrained int `csv:"drones_drained"`

	// Events during window
	Detections int     `csv:"detections"`
	Losses     int     `csv:"losses"`
	Replans    int     `csv:"replans"`
	EmptyPlans int     `csv:"empty_plans"`
	Attacks    int     `csv:"attacks"`
	Slides     int     `csv:"slides"`
	Stalls     int     `csv:"stalls"`
	Damage     float64 `csv:"damage"`

	// Rates
	ReplanRate float64 `csv:"replan_rate"` // replans per hunter per second
	SlideRate  float64 `csv:"slide_rate"`  // slides / (slides + stalls)

	// Waypoints per non-empty plan
	PlanLenMean float64 `csv:"plan_len_mean"`
	PlanLenP50  float64 `csv:"plan_len_p50"`
	PlanLenP90  float64 `csv:"plan_len_p90"`

	// Seconds from detection to first impact
	ContactMean float64 `csv:"contact_mean"`
	ContactP50  float64 `csv:"contact_p50"`
	ContactP90  float64 `csv:"contact_p90"`

	// Drone battery fraction (sampled at window end)
	BatteryMean float64 `csv:"battery_mean"`
	BatteryStd  float64 `csv:"battery_std"`
	BatteryP10  float64 `csv:"battery_p10"`
	BatteryP50  float64 `csv:"battery_p50"`
	BatteryP90  float64 `csv:"battery_p90"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and empirical quantiles.
// An empty sample yields the zero Distribution; a single value has Std 0.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("hunters", s.Hunters),
		slog.Int("pursuing", s.Pursuing),
		slog.Int("drones_active", s.DronesActive),
		slog.Int("drones_drained", s.DronesDrained),
		slog.Int("detections", s.Detections),
		slog.Int("losses", s.Losses),
		slog.Int("replans", s.Replans),
		slog.Int("empty_plans", s.EmptyPlans),
		slog.Int("attacks", s.Attacks),
		slog.Int("slides", s.Slides),
		slog.Int("stalls", s.Stalls),
		slog.Float64("damage", s.Damage),
		slog.Float64("replan_rate", s.ReplanRate),
		slog.Float64("slide_rate", s.SlideRate),
		slog.Float64("plan_len_mean", s.PlanLenMean),
		slog.Float64("plan_len_p90", s.PlanLenP90),
		slog.Float64("contact_mean", s.ContactMean),
		slog.Float64("contact_p90", s.ContactP90),
		slog.Float64("battery_mean", s.BatteryMean),
		slog.Float64("battery_p10", s.BatteryP10),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats", "window", s)
}
