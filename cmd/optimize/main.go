// Command optimize tunes forager parameters with CMA-ES so that
// populations survive as long as possible.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/forage/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 200000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "--output is required")
		os.Exit(2)
	}
	if err := run(*configPath, *outputDir, int32(*maxTicks), *seeds, *maxEvals, *population); err != nil {
		fmt.Fprintln(os.Stderr, "optimize:", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks int32, seeds, maxEvals, population int) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	logPath := filepath.Join(outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "mean_population", "population_cv"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := logWriter.Write(header); err != nil {
		return fmt.Errorf("writing log header: %w", err)
	}

	evalCount := 0
	bestFitness := 0.0
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			summary := evaluator.LastSummary()
			evalCount++

			if bestParams == nil || fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			row := []string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.1f", fitness),
				fmt.Sprintf("%.2f", summary.meanPop),
				fmt.Sprintf("%.4f", summary.popCV),
			}
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			fmt.Printf("Eval %d/%d: survived=%.0f ticks pop=%.1f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, maxEvals, -fitness, summary.meanPop, -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", seeds, maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluation completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best mean survival: %.0f ticks\n", -bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg := baseCfg.Clone()
	if err := params.ApplyToConfig(bestCfg, bestParams); err != nil {
		return fmt.Errorf("applying best parameters: %w", err)
	}
	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	return nil
}
