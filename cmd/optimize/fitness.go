package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/forage/config"
	"github.com/pthm-cable/forage/game"
	"github.com/pthm-cable/forage/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastSummary runSummary // from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks until extinction, or maxTicks
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// runSummary aggregates one evaluation across seeds.
type runSummary struct {
	meanSurvival float64
	meanPop      float64 // mean windowed population across seeds
	popCV        float64 // coefficient of variation of windowed population
}

// LastSummary returns the aggregate of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean survival in ticks over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Warn("rejected parameter vector", "error", err)
		return 0
	}

	// Run all seeds in parallel; each game owns its world and RNG
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	summary := summarize(results)
	fe.mu.Lock()
	fe.lastSummary = summary
	fe.mu.Unlock()

	return -summary.meanSurvival
}

// runSimulation executes a single headless simulation run until the
// population dies out or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Warn("simulation setup failed", "seed", seed, "error", err)
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.AgentCount() == 0 {
			result.survivalTicks = g.Tick()
			return result
		}
	}
	result.survivalTicks = fe.maxTicks
	return result
}

// summarize reduces per-seed results to means.
func summarize(results []*runResult) runSummary {
	if len(results) == 0 {
		return runSummary{}
	}

	survival := make([]float64, len(results))
	var pops []float64
	for i, r := range results {
		survival[i] = float64(r.survivalTicks)
		for _, w := range r.windowStats {
			pops = append(pops, float64(w.Population))
		}
	}

	s := runSummary{meanSurvival: stat.Mean(survival, nil)}
	if len(pops) >= 2 {
		mean, std := stat.MeanStdDev(pops, nil)
		s.meanPop = mean
		if mean > 0 {
			s.popCV = std / mean
		}
	} else if len(pops) == 1 {
		s.meanPop = pops[0]
	}
	if math.IsNaN(s.popCV) {
		s.popCV = 0
	}
	return s
}
