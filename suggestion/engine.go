// Package suggestion derives correlational hints from the draft entry and
// the accumulated history.
package suggestion

import (
	"moodtrack.app/models"
)

// Engine produces a Suggestion from the current draft and the full entry
// history. Suggest must be fast, total and free of I/O: the pipeline calls
// it on every debounce tick. Implementations may be deterministic or
// stochastic.
type Engine interface {
	Suggest(draft models.MoodEntry, history []models.MoodEntry) models.Suggestion
	// RecordFeedback is a hook for future learning. It only needs to be
	// observable; it has no required effect on later suggestions.
	RecordFeedback(s models.Suggestion, wasAccurate bool)
}
