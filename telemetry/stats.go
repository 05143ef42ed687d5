package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Idle       int `csv:"idle"`
	Hungry     int `csv:"hungry"`
	Thirsty    int `csv:"thirsty"`
	Both       int `csv:"both"`

	// Events during window
	Births  int `csv:"births"`
	Matings int `csv:"matings"`
	Meals   int `csv:"meals"`
	Drinks  int `csv:"drinks"`

	DeathsStarved    int     `csv:"deaths_starved"`
	DeathsDehydrated int     `csv:"deaths_dehydrated"`
	DeathsLifespan   int     `csv:"deaths_lifespan"`
	AgeAtDeathMean   float64 `csv:"age_at_death_mean"`

	// Needs distribution (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	ThirstMean float64 `csv:"thirst_mean"`
	ThirstStd  float64 `csv:"thirst_std"`
	ThirstP10  float64 `csv:"thirst_p10"`
	ThirstP50  float64 `csv:"thirst_p50"`
	ThirstP90  float64 `csv:"thirst_p90"`

	FoodUnits int `csv:"food_units"`
}

// Deaths returns the total deaths in the window.
func (s WindowStats) Deaths() int {
	return s.DeathsStarved + s.DeathsDehydrated + s.DeathsLifespan
}

// NeedStats summarises a sample of need levels.
type NeedStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeNeedStats calculates mean, sample standard deviation and empirical
// percentiles. An empty sample yields zeros.
func ComputeNeedStats(values []float64) NeedStats {
	if len(values) == 0 {
		return NeedStats{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var ns NeedStats
	if len(sorted) > 1 {
		ns.Mean, ns.Std = stat.MeanStdDev(sorted, nil)
	} else {
		ns.Mean = sorted[0]
	}
	ns.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	ns.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	ns.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return ns
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("population", s.Population),
		slog.Int("idle", s.Idle),
		slog.Int("hungry", s.Hungry),
		slog.Int("thirsty", s.Thirsty),
		slog.Int("both", s.Both),
		slog.Int("births", s.Births),
		slog.Int("matings", s.Matings),
		slog.Int("meals", s.Meals),
		slog.Int("drinks", s.Drinks),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_dehydrated", s.DeathsDehydrated),
		slog.Int("deaths_lifespan", s.DeathsLifespan),
		slog.Float64("age_at_death_mean", s.AgeAtDeathMean),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("thirst_mean", s.ThirstMean),
		slog.Int("food_units", s.FoodUnits),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"idle", s.Idle,
		"hungry", s.Hungry,
		"thirsty", s.Thirsty,
		"both", s.Both,
		"births", s.Births,
		"matings", s.Matings,
		"meals", s.Meals,
		"drinks", s.Drinks,
		"deaths", s.Deaths(),
		"deaths_starved", s.DeathsStarved,
		"deaths_dehydrated", s.DeathsDehydrated,
		"deaths_lifespan", s.DeathsLifespan,
		"age_at_death_mean", s.AgeAtDeathMean,
		"hunger_p50", s.HungerP50,
		"thirst_p50", s.ThirstP50,
		"food_units", s.FoodUnits,
	)
}
