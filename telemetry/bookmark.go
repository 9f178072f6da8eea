package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstFood            BookmarkType = "first_food"
	BookmarkFirstDelivery        BookmarkType = "first_delivery"
	BookmarkDeliveryBreakthrough BookmarkType = "delivery_breakthrough"
	BookmarkStagnation           BookmarkType = "stagnation"
)

// stagnationWindows is the number of consecutive windows without food found
// or delivered, after the first delivery, that triggers a stagnation bookmark.
const stagnationWindows = 5

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

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	seenFood      bool
	seenDelivery  bool
	idleWindows   int // consecutive windows without foraging progress
	stagnantFired bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if !bd.seenFood && stats.FoodFound > 0 {
		bd.seenFood = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstFood,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Food first reached by %d ant(s) by %.1fs", stats.FoodFound, stats.SimTimeSec),
		})
	}

	if !bd.seenDelivery && stats.Deliveries > 0 {
		bd.seenDelivery = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkFirstDelivery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("First food delivered to the colony by %.1fs", stats.SimTimeSec),
		})
	}

	if b := bd.checkDeliveryBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStagnation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkDeliveryBreakthrough fires when deliveries exceed twice the rolling average.
func (bd *BookmarkDetector) checkDeliveryBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Deliveries
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Deliveries) > avg*2.0 && stats.Deliveries >= 3 {
		return &Bookmark{
			Type:        BookmarkDeliveryBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d deliveries is %.1fx average (%.2f)", stats.Deliveries, float64(stats.Deliveries)/avg, avg),
		}
	}
	return nil
}

// checkStagnation fires once when the colony stops making foraging progress.
func (bd *BookmarkDetector) checkStagnation(stats WindowStats) *Bookmark {
	if !bd.seenDelivery || bd.stagnantFired {
		return nil
	}
	if stats.FoodFound > 0 || stats.Deliveries > 0 {
		bd.idleWindows = 0
		return nil
	}

	bd.idleWindows++
	if bd.idleWindows < stagnationWindows {
		return nil
	}
	bd.stagnantFired = true
	return &Bookmark{
		Type:        BookmarkStagnation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No food found or delivered for %d windows (%d dead-end cells)", bd.idleWindows, stats.DeadEndCells),
	}
}
