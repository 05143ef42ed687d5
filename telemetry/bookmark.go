package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBabyBoom           BookmarkType = "baby_boom"
	BookmarkPopulationRecovery BookmarkType = "population_recovery"
	BookmarkPopulationCrash    BookmarkType = "population_crash"
	BookmarkFoodShortage       BookmarkType = "food_shortage"
	BookmarkStablePopulation   BookmarkType = "stable_population"
	BookmarkExtinction         BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches flushed windows for notable population events.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentMin    int // Lowest nonzero population since the last recovery
	recentPeak   int // Highest population since the last crash
	stableCount  int // Consecutive windows with low population variance
	extinct      bool
	shortageSeen bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	add := func(b *Bookmark) {
		if b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	add(bd.checkExtinction(stats))
	if bd.historyFull || bd.historyIdx > 0 {
		add(bd.checkBabyBoom(stats))
		add(bd.checkRecovery(stats))
		add(bd.checkCrash(stats))
		add(bd.checkStable(stats))
	}
	add(bd.checkFoodShortage(stats))

	bd.addToHistory(stats)

	if stats.Population > 0 && (stats.Population < bd.recentMin || bd.recentMin == 0) {
		bd.recentMin = stats.Population
	}
	if stats.Population > bd.recentPeak {
		bd.recentPeak = stats.Population
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns the history in insertion order, oldest first.
func (bd *BookmarkDetector) recent() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Population > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population extinct (%d starved, %d dehydrated, %d lifespan this window)", stats.DeathsStarved, stats.DeathsDehydrated, stats.DeathsLifespan),
	}
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.recent()
	if len(history) < 3 {
		return nil
	}

	births := make([]float64, len(history))
	for i, h := range history {
		births[i] = float64(h.Births)
	}
	avg := stat.Mean(births, nil)
	if avg == 0 {
		return nil
	}

	if float64(stats.Births) > avg*2.0 && stats.Births >= 5 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkRecovery(stats WindowStats) *Bookmark {
	if bd.recentMin == 0 || bd.recentMin > 3 {
		return nil
	}

	if stats.Population >= bd.recentMin*3 && stats.Population >= 6 {
		oldMin := bd.recentMin
		bd.recentMin = stats.Population
		return &Bookmark{
			Type:        BookmarkPopulationRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population recovered from %d to %d", oldMin, stats.Population),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Population)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Population <= bd.recentPeak-5 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Population
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Population),
		}
	}
	return nil
}

// checkFoodShortage fires once each time every food-source runs empty
// while agents are hungry.
func (bd *BookmarkDetector) checkFoodShortage(stats WindowStats) *Bookmark {
	short := stats.FoodUnits == 0 && stats.Hungry+stats.Both > 0
	if !short {
		bd.shortageSeen = false
		return nil
	}
	if bd.shortageSeen {
		return nil
	}
	bd.shortageSeen = true
	return &Bookmark{
		Type:        BookmarkFoodShortage,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No forage units left with %d hungry agents", stats.Hungry+stats.Both),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Population < 5 {
		bd.stableCount = 0
		return nil
	}

	history := bd.recent()
	if len(history) < 4 {
		return nil
	}

	pop := make([]float64, 0, 4)
	for _, h := range history[len(history)-4:] {
		pop = append(pop, float64(h.Population))
	}
	mean, variance := stat.PopMeanVariance(pop, nil)

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableCount++
	} else {
		bd.stableCount = 0
	}

	if bd.stableCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population around %.0f agents over 5+ windows", mean),
		}
	}
	return nil
}
