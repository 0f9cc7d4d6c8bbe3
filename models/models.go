// Package models defines data structures used throughout the application
package models

import "time"

// Field ranges enforced at the edit boundary. Out-of-range values are
// clamped, not rejected.
const (
	MinIntensity       = 1
	MaxIntensity       = 5
	MinStressLevel     = 1
	MaxStressLevel     = 5
	MinHeadache        = 0
	MaxHeadache        = 10
	MinSleepHours      = 0
	MaxSleepHours      = 24
	MinExerciseMinutes = 0
	MaxExerciseMinutes = 240
)

// DefaultMood is the mood token a fresh draft starts with.
const DefaultMood = "😐"

// WeatherData is ambient weather captured at the moment an entry is
// committed. Value object, no identity.
type WeatherData struct {
	Temperature float64 `json:"temperature"` // degrees Celsius
	Pressure    float64 `json:"pressure"`    // hPa
	Humidity    int     `json:"humidity"`    // percent, 0-100
}

// Coordinates is a latitude/longitude pair. The pair is always written
// atomically: a profile either has both values or neither.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MoodEntry is a single well-being observation. Entries are immutable once
// stored; Weather is set at most once at commit time and its absence is a
// valid terminal state, not a pending one.
type MoodEntry struct {
	ID                string       `json:"id"`
	Date              time.Time    `json:"date"`
	Mood              string       `json:"mood"`
	Intensity         int          `json:"intensity"`
	StressLevel       int          `json:"stress_level"`
	HeadacheIntensity int          `json:"headache_intensity"`
	SleepHours        float64      `json:"sleep_hours"`
	ExerciseMinutes   int          `json:"exercise_minutes"`
	Weather           *WeatherData `json:"weather,omitempty"`
}

// ClampRanges forces every numeric field into its valid range.
func (e *MoodEntry) ClampRanges() {
	e.Intensity = clampInt(e.Intensity, MinIntensity, MaxIntensity)
	e.StressLevel = clampInt(e.StressLevel, MinStressLevel, MaxStressLevel)
	e.HeadacheIntensity = clampInt(e.HeadacheIntensity, MinHeadache, MaxHeadache)
	e.SleepHours = clampFloat(e.SleepHours, MinSleepHours, MaxSleepHours)
	e.ExerciseMinutes = clampInt(e.ExerciseMinutes, MinExerciseMinutes, MaxExerciseMinutes)
}

// UserProfile is the single per-installation profile record.
type UserProfile struct {
	Age         int          `json:"age"`
	Gender      string       `json:"gender"`
	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// HasCoordinates reports whether the profile carries a location fix usable
// for weather enrichment.
func (p *UserProfile) HasCoordinates() bool {
	return p.Coordinates != nil
}

// DefaultProfile returns the sentinel profile used when nothing is stored.
func DefaultProfile() UserProfile {
	return UserProfile{
		Age:    0,
		Gender: "unspecified",
	}
}

// Suggestion is a derived correlational hint. Transient: recomputed on
// demand and never persisted.
type Suggestion struct {
	PredictedMood string  `json:"predicted_mood"`
	Confidence    float64 `json:"confidence"`
	PossibleCause string  `json:"possible_cause"`
	Solution      string  `json:"solution"`
}

// DraftUpdateRequest carries a partial draft edit. Nil fields are left
// untouched; present fields are clamped into range after binding.
type DraftUpdateRequest struct {
	Mood              *string  `json:"mood" binding:"omitempty,mood"`
	Intensity         *int     `json:"intensity"`
	StressLevel       *int     `json:"stress_level"`
	HeadacheIntensity *int     `json:"headache_intensity"`
	SleepHours        *float64 `json:"sleep_hours"`
	ExerciseMinutes   *int     `json:"exercise_minutes"`
}

// ProfileUpdateRequest carries an age/gender edit. Location fields are
// managed exclusively by the location refresh flow.
type ProfileUpdateRequest struct {
	Age    int    `json:"age" binding:"min=0,max=150"`
	Gender string `json:"gender" binding:"required"`
}

// SampleDataRequest asks for synthetic history spanning the past Days days.
type SampleDataRequest struct {
	Days int `json:"days" binding:"required,min=1,max=365"`
}

// FeedbackRequest reports whether the last suggestion felt accurate.
type FeedbackRequest struct {
	Accurate bool `json:"accurate"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
