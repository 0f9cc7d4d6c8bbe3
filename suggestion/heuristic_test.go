package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moodtrack.app/models"
)

func testDraft() models.MoodEntry {
	return models.MoodEntry{
		ID:              "draft-1",
		Mood:            "🙂",
		Intensity:       3,
		StressLevel:     2,
		SleepHours:      8,
		ExerciseMinutes: 60,
	}
}

func TestHeuristicEngine_EchoesDraftMood(t *testing.T) {
	engine := NewHeuristicEngine(1)

	s := engine.Suggest(testDraft(), nil)
	assert.Equal(t, "🙂", s.PredictedMood)
}

func TestHeuristicEngine_ConfidenceInRange(t *testing.T) {
	engine := NewHeuristicEngine(7)

	for i := 0; i < 100; i++ {
		s := engine.Suggest(testDraft(), nil)
		assert.GreaterOrEqual(t, s.Confidence, 0.7)
		assert.LessOrEqual(t, s.Confidence, 0.9)
	}
}

func TestHeuristicEngine_CauseFromCatalog(t *testing.T) {
	engine := NewHeuristicEngine(13)
	known := map[string]bool{}
	for _, c := range causeCatalog {
		known[c.Cause] = true
	}

	for i := 0; i < 50; i++ {
		s := engine.Suggest(testDraft(), nil)
		assert.True(t, known[s.PossibleCause], "unknown cause %q", s.PossibleCause)
		assert.NotEmpty(t, s.Solution)
	}
}

func TestHeuristicEngine_ShortSleepBiasesToSleepPattern(t *testing.T) {
	engine := NewHeuristicEngine(42)

	draft := testDraft()
	draft.SleepHours = 4
	history := []models.MoodEntry{
		{SleepHours: 5, ExerciseMinutes: 60},
		{SleepHours: 4.5, ExerciseMinutes: 60},
	}

	s := engine.Suggest(draft, history)
	assert.Equal(t, "sleep pattern", s.PossibleCause)
}

func TestHeuristicEngine_HighStressBiasesToStress(t *testing.T) {
	engine := NewHeuristicEngine(42)

	draft := testDraft()
	draft.StressLevel = 5

	s := engine.Suggest(draft, nil)
	assert.Equal(t, "stress level", s.PossibleCause)
}

func TestHeuristicEngine_SuggestDoesNotMutateInputs(t *testing.T) {
	engine := NewHeuristicEngine(3)

	draft := testDraft()
	history := []models.MoodEntry{{ID: "h-1", SleepHours: 7, ExerciseMinutes: 30}}
	historyCopy := []models.MoodEntry{{ID: "h-1", SleepHours: 7, ExerciseMinutes: 30}}

	_ = engine.Suggest(draft, history)

	assert.Equal(t, testDraft(), draft)
	assert.Equal(t, historyCopy, history)
}

func TestHeuristicEngine_RecordFeedbackCounts(t *testing.T) {
	engine := NewHeuristicEngine(5)
	s := engine.Suggest(testDraft(), nil)

	engine.RecordFeedback(s, true)
	engine.RecordFeedback(s, true)
	engine.RecordFeedback(s, false)

	accurate, total := engine.FeedbackStats()
	require.Equal(t, 3, total)
	assert.Equal(t, 2, accurate)
}
