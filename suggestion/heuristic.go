package suggestion

import (
	"log"
	"math/rand"
	"sync"

	"moodtrack.app/models"
)

// Cause categories the heuristic engine can attribute a mood to, each
// paired with a fixed remedy text.
var causeCatalog = []struct {
	Cause    string
	Solution string
}{
	{
		Cause:    "sleep pattern",
		Solution: "Try keeping a consistent bedtime and aim for 7-9 hours of sleep.",
	},
	{
		Cause:    "exercise routine",
		Solution: "Even a short daily walk can lift your mood within a week.",
	},
	{
		Cause:    "stress level",
		Solution: "Short breathing exercises or regular breaks may smooth out stress spikes.",
	},
	{
		Cause:    "weather conditions",
		Solution: "Mood can track the weather; plan something enjoyable indoors on rough days.",
	},
}

// HeuristicEngine is the reference Engine: it picks a cause category,
// biased by simple signals in the draft and history, and assigns a
// confidence in [0.7, 0.9]. A real model can replace it behind the same
// interface without touching the pipeline.
type HeuristicEngine struct {
	mu       sync.Mutex
	rng      *rand.Rand
	accurate int
	total    int
}

// NewHeuristicEngine creates a heuristic engine seeded with seed.
func NewHeuristicEngine(seed int64) *HeuristicEngine {
	return &HeuristicEngine{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Suggest produces a Suggestion echoing the draft's mood token.
func (e *HeuristicEngine) Suggest(draft models.MoodEntry, history []models.MoodEntry) models.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	pick := causeCatalog[e.pickCause(draft, history)]

	return models.Suggestion{
		PredictedMood: draft.Mood,
		Confidence:    0.7 + e.rng.Float64()*0.2,
		PossibleCause: pick.Cause,
		Solution:      pick.Solution,
	}
}

// pickCause prefers a category with an obvious signal before falling back
// to a random pick. Must be called while holding the mutex.
func (e *HeuristicEngine) pickCause(draft models.MoodEntry, history []models.MoodEntry) int {
	sleepSum := draft.SleepHours
	exerciseSum := float64(draft.ExerciseMinutes)
	n := float64(len(history) + 1)
	for _, entry := range history {
		sleepSum += entry.SleepHours
		exerciseSum += float64(entry.ExerciseMinutes)
	}

	switch {
	case sleepSum/n < 6:
		return 0
	case exerciseSum/n < 15:
		return 1
	case draft.StressLevel >= 4:
		return 2
	default:
		return e.rng.Intn(len(causeCatalog))
	}
}

// RecordFeedback counts and logs feedback reports.
func (e *HeuristicEngine) RecordFeedback(s models.Suggestion, wasAccurate bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.total++
	if wasAccurate {
		e.accurate++
	}

	log.Printf("[DEBUG] Suggestion feedback: cause=%s accurate=%t (%d/%d accurate so far)\n",
		s.PossibleCause, wasAccurate, e.accurate, e.total)
}

// FeedbackStats returns the accurate and total feedback counts.
func (e *HeuristicEngine) FeedbackStats() (accurate, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accurate, e.total
}
