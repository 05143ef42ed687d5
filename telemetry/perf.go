package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step, in pipeline order.
const (
	PhaseSnapshot  = "snapshot"
	PhaseAgents    = "agents"
	PhaseMating    = "mating"
	PhaseCleanup   = "cleanup"
	PhaseDecay     = "decay"
	PhaseRegrow    = "regrow"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in pipeline order.
var Phases = []string{
	PhaseSnapshot, PhaseAgents, PhaseMating, PhaseCleanup,
	PhaseDecay, PhaseRegrow, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window of samples.
type PerfCollector struct {
	samples []PerfSample
	next    int
	filled  int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame time.Time
	frameDur  time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.samples[p.next] = PerfSample{TickDuration: now.Sub(p.tickStart), Phases: p.current}
	p.next = (p.next + 1) % len(p.samples)
	p.filled = min(p.filled+1, len(p.samples))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDur = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick, in percent

	TicksPerSecond float64
	FrameDuration  time.Duration
	FPS            float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	s.FrameDuration = p.frameDur
	if p.frameDur > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDur)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, sample := range p.samples[:p.filled] {
		total += sample.TickDuration
		if i == 0 || sample.TickDuration < s.MinTick {
			s.MinTick = sample.TickDuration
		}
		s.MaxTick = max(s.MaxTick, sample.TickDuration)
		for phase, d := range sample.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for phase, sum := range sums {
		avg := sum / n
		s.PhaseAvg[phase] = avg
		if s.AvgTick > 0 {
			s.PhasePct[phase] = float64(avg) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs performance statistics, skipping negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SnapshotPct  float64 `csv:"snapshot_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	MatingPct    float64 `csv:"mating_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	DecayPct     float64 `csv:"decay_pct"`
	RegrowPct    float64 `csv:"regrow_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SnapshotPct:  s.PhasePct[PhaseSnapshot],
		AgentsPct:    s.PhasePct[PhaseAgents],
		MatingPct:    s.PhasePct[PhaseMating],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		DecayPct:     s.PhasePct[PhaseDecay],
		RegrowPct:    s.PhasePct[PhaseRegrow],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
