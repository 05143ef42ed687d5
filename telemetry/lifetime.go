package telemetry

import "github.com/pthm-cable/forage/components"

// LifetimeStats is the record of one agent's life, written when it dies.
type LifetimeStats struct {
	ID         uint32  `csv:"id"`
	BirthTick  int32   `csv:"birth_tick"`
	DeathTick  int32   `csv:"death_tick"`
	AgeTicks   int32   `csv:"age_ticks"`
	Generation int     `csv:"generation"`
	Cause      string  `csv:"cause"`
	Meals      int     `csv:"meals"`
	Drinks     int     `csv:"drinks"`
	Children   int     `csv:"children"`
	Size       float64 `csv:"size"`
}

type liveRecord struct {
	birthTick  int32
	generation int
}

// LifetimeTracker follows agents from birth to death and keeps the
// longest-lived record seen.
type LifetimeTracker struct {
	live    map[uint32]liveRecord
	oldest  LifetimeStats
	retired int
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{live: make(map[uint32]liveRecord)}
}

// Register starts tracking an agent. Founders are generation 0.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, generation int) {
	lt.live[id] = liveRecord{birthTick: birthTick, generation: generation}
}

// Generation returns the generation of a live agent, 0 if untracked.
func (lt *LifetimeTracker) Generation(id uint32) int {
	return lt.live[id].generation
}

// Age returns a live agent's age in ticks.
func (lt *LifetimeTracker) Age(id uint32, currentTick int32) (int32, bool) {
	r, ok := lt.live[id]
	if !ok {
		return 0, false
	}
	return currentTick - r.birthTick, true
}

// Retire stops tracking a dead agent and returns its lifetime record.
func (lt *LifetimeTracker) Retire(a *components.Agent, body components.Body, currentTick int32) LifetimeStats {
	r, ok := lt.live[a.ID]
	if !ok {
		r.birthTick = a.BirthTick
	}
	delete(lt.live, a.ID)

	s := LifetimeStats{
		ID:         a.ID,
		BirthTick:  r.birthTick,
		DeathTick:  currentTick,
		AgeTicks:   currentTick - r.birthTick,
		Generation: r.generation,
		Cause:      CauseOf(a.Needs).String(),
		Meals:      a.Meals,
		Drinks:     a.Drinks,
		Children:   a.Children,
		Size:       body.Size,
	}

	lt.retired++
	if lt.retired == 1 || s.AgeTicks > lt.oldest.AgeTicks {
		lt.oldest = s
	}
	return s
}

// Oldest returns the longest-lived retired agent, if any died yet.
func (lt *LifetimeTracker) Oldest() (LifetimeStats, bool) {
	return lt.oldest, lt.retired > 0
}

// Count returns the number of tracked live agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.live)
}

// Retired returns the number of agents retired so far.
func (lt *LifetimeTracker) Retired() int {
	return lt.retired
}
