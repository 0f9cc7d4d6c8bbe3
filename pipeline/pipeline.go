// Package pipeline implements the entry-enrichment and inference
// orchestrator: it owns the draft entry, debounced suggestion
// recomputation, entry commits and profile location updates.
package pipeline

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "moodtrack.app/errors"
	"moodtrack.app/metrics"
	"moodtrack.app/models"
	"moodtrack.app/providers"
	"moodtrack.app/repository"
	"moodtrack.app/suggestion"
)

// ChangeKind identifies which piece of published state changed.
type ChangeKind string

const (
	ChangeDraft      ChangeKind = "draft"
	ChangeSuggestion ChangeKind = "suggestion"
	ChangeHistory    ChangeKind = "history"
	ChangeProfile    ChangeKind = "profile"
)

// Change is a state change notification delivered to subscribers.
type Change struct {
	Kind ChangeKind
}

// State is a consistent snapshot of the pipeline's published state.
type State struct {
	Draft          models.MoodEntry   `json:"draft"`
	History        []models.MoodEntry `json:"history"`
	Profile        models.UserProfile `json:"profile"`
	LastSuggestion *models.Suggestion `json:"last_suggestion,omitempty"`
}

// Options configures a Pipeline.
type Options struct {
	Entries        *repository.EntryStore
	Profiles       *repository.ProfileStore
	Weather        providers.WeatherProvider // nil disables enrichment
	Geocoder       providers.Geocoder        // nil disables place names
	Location       providers.LocationSource  // nil disables location refresh
	Engine         suggestion.Engine
	Metrics        *metrics.PipelineMetrics
	DebounceWindow time.Duration
	EnrichTimeout  time.Duration
}

// Pipeline coordinates the draft, the stores and the context providers.
// All published state is guarded by mu; commits additionally serialize
// through commitMu so entries reach the store in program order.
type Pipeline struct {
	mu       sync.Mutex
	commitMu sync.Mutex

	draft          models.MoodEntry
	history        []models.MoodEntry
	profile        models.UserProfile
	lastSuggestion *models.Suggestion

	debounce    *time.Timer
	debounceGen uint64
	closed      bool

	debounceWindow time.Duration
	enrichTimeout  time.Duration

	entries  *repository.EntryStore
	profiles *repository.ProfileStore
	weather  providers.WeatherProvider
	geocoder providers.Geocoder
	location providers.LocationSource
	engine   suggestion.Engine
	metrics  *metrics.PipelineMetrics

	updates chan Change
	rng     *rand.Rand
}

// New creates a pipeline, loading history and profile from the stores.
func New(ctx context.Context, opts Options) *Pipeline {
	p := &Pipeline{
		entries:        opts.Entries,
		profiles:       opts.Profiles,
		weather:        opts.Weather,
		geocoder:       opts.Geocoder,
		location:       opts.Location,
		engine:         opts.Engine,
		metrics:        opts.Metrics,
		debounceWindow: opts.DebounceWindow,
		enrichTimeout:  opts.EnrichTimeout,
		updates:        make(chan Change, 16),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	p.draft = newDraft()
	p.history = p.entries.LoadAll(ctx)
	p.profile = p.profiles.Load(ctx)

	log.Printf("[DEBUG] Pipeline initialized with %d stored entries\n", len(p.history))
	return p
}

// newDraft returns a fresh default draft with a new identity.
func newDraft() models.MoodEntry {
	return models.MoodEntry{
		ID:                uuid.NewString(),
		Date:              time.Now(),
		Mood:              models.DefaultMood,
		Intensity:         3,
		StressLevel:       3,
		HeadacheIntensity: 0,
		SleepHours:        7,
		ExerciseMinutes:   30,
	}
}

// Updates returns the state change notification channel. Notifications are
// dropped rather than blocking the pipeline when the subscriber lags.
func (p *Pipeline) Updates() <-chan Change {
	return p.updates
}

// Snapshot returns a copy of the published state.
func (p *Pipeline) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	history := make([]models.MoodEntry, len(p.history))
	copy(history, p.history)

	var last *models.Suggestion
	if p.lastSuggestion != nil {
		s := *p.lastSuggestion
		last = &s
	}

	return State{
		Draft:          p.draft,
		History:        history,
		Profile:        p.profile,
		LastSuggestion: last,
	}
}

// EditDraft applies a field mutation to the draft, republishes it and
// re-arms the suggestion debounce timer. Rapid successive edits coalesce
// into at most one suggestion computation per quiescence window. Identity
// fields are preserved across the mutation and numeric fields are clamped
// into range.
func (p *Pipeline) EditDraft(mutate func(*models.MoodEntry)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	id, date := p.draft.ID, p.draft.Date
	mutate(&p.draft)
	p.draft.ID, p.draft.Date = id, date
	p.draft.Weather = nil
	p.draft.ClampRanges()

	p.publishLocked(ChangeDraft)
	p.armDebounceLocked()
}

// armDebounceLocked cancels any pending timer and arms a new one. Must be
// called while holding mu.
func (p *Pipeline) armDebounceLocked() {
	p.debounceGen++
	gen := p.debounceGen

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceWindow, func() {
		p.debounceFired(gen)
	})
}

func (p *Pipeline) debounceFired(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A superseding edit or a commit re-armed or cancelled this timer.
	if p.closed || gen != p.debounceGen {
		return
	}

	result := p.engine.Suggest(p.draft, p.history)
	p.lastSuggestion = &result
	if p.metrics != nil {
		p.metrics.RecordSuggestion()
	}

	log.Printf("[DEBUG] Suggestion computed: cause=%s confidence=%.2f\n",
		result.PossibleCause, result.Confidence)
	p.publishLocked(ChangeSuggestion)
}

// Commit snapshots the draft, attempts weather enrichment when the profile
// has coordinates, appends the entry and resets the draft. Enrichment is
// best-effort: failure or timeout yields an entry without weather context,
// never a failed commit. Only a persistence failure is surfaced, in which
// case the draft is left intact so the commit can be retried.
func (p *Pipeline) Commit(ctx context.Context) (models.MoodEntry, error) {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	p.mu.Lock()
	candidate := p.draft
	var coords *models.Coordinates
	if p.profile.Coordinates != nil {
		c := *p.profile.Coordinates
		coords = &c
	}
	p.mu.Unlock()

	candidate.Weather = p.enrich(ctx, coords)

	if err := p.entries.Append(ctx, candidate); err != nil {
		log.Printf("[ERROR] Commit persistence failed, draft retained: %v\n", err)
		return models.MoodEntry{}, err
	}
	if p.metrics != nil {
		p.metrics.RecordPersistedEntry()
	}

	p.mu.Lock()
	p.history = append(p.history, candidate)
	p.draft = newDraft()
	// A pending suggestion computation would run against the fresh draft.
	p.debounceGen++
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.publishLocked(ChangeHistory)
	p.publishLocked(ChangeDraft)
	p.mu.Unlock()

	log.Printf("[DEBUG] Entry committed: id=%s enriched=%t\n", candidate.ID, candidate.Weather != nil)
	return candidate, nil
}

// enrich performs the bounded weather fetch. A nil result means absent
// context, which is a valid terminal state for the entry.
func (p *Pipeline) enrich(ctx context.Context, coords *models.Coordinates) *models.WeatherData {
	if coords == nil || p.weather == nil {
		if p.metrics != nil {
			p.metrics.RecordEnrichment("skipped", 0)
		}
		return nil
	}

	start := time.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, p.enrichTimeout)
	defer cancel()

	weather, err := p.weather.FetchWeather(fetchCtx, *coords)
	elapsed := time.Since(start)

	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordEnrichment("failure", elapsed.Seconds())
		}
		log.Printf("[WARNING] Weather enrichment failed, committing without context: %v\n",
			apperrors.NewEnrichmentError("weather fetch failed", err))
		return nil
	}

	if p.metrics != nil {
		p.metrics.RecordEnrichment("success", elapsed.Seconds())
	}
	return weather
}

// RefreshLocation requests coordinates once, persists them, then attempts
// reverse geocoding for a display name. A failure at either step leaves the
// prior profile fields untouched.
func (p *Pipeline) RefreshLocation(ctx context.Context) error {
	if p.location == nil {
		return apperrors.NewEnrichmentError("no location source configured", nil)
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.enrichTimeout)
	coords, err := p.location.RequestOnce(reqCtx)
	cancel()
	if err != nil {
		log.Printf("[WARNING] Location request failed, profile unchanged: %v\n", err)
		return apperrors.NewEnrichmentError("location request failed", err)
	}

	p.mu.Lock()
	p.profile.Coordinates = &coords
	profileCopy := p.profile
	p.publishLocked(ChangeProfile)
	p.mu.Unlock()

	if err := p.profiles.Save(ctx, profileCopy); err != nil {
		return err
	}

	p.resolvePlaceName(ctx, coords)
	return nil
}

// resolvePlaceName is best-effort: a geocoding failure leaves the previous
// display name in place.
func (p *Pipeline) resolvePlaceName(ctx context.Context, coords models.Coordinates) {
	if p.geocoder == nil {
		return
	}

	geoCtx, cancel := context.WithTimeout(ctx, p.enrichTimeout)
	name, err := p.geocoder.ReverseGeocode(geoCtx, coords)
	cancel()
	if err != nil {
		log.Printf("[WARNING] Reverse geocoding failed, keeping previous place name: %v\n", err)
		return
	}

	p.mu.Lock()
	p.profile.Location = name
	profileCopy := p.profile
	p.publishLocked(ChangeProfile)
	p.mu.Unlock()

	if err := p.profiles.Save(ctx, profileCopy); err != nil {
		log.Printf("[WARNING] Failed to persist place name: %v\n", err)
	}
}

// UpdateProfile applies an age/gender edit and persists the profile.
// Location fields are managed exclusively by RefreshLocation.
func (p *Pipeline) UpdateProfile(ctx context.Context, age int, gender string) error {
	p.mu.Lock()
	p.profile.Age = age
	p.profile.Gender = gender
	profileCopy := p.profile
	p.publishLocked(ChangeProfile)
	p.mu.Unlock()

	return p.profiles.Save(ctx, profileCopy)
}

// SeedSampleHistory generates n synthetic entries spanning the past n days,
// appends them in one batch and persists once. Generated entries satisfy
// the same field-range invariants as user-entered data.
func (p *Pipeline) SeedSampleHistory(ctx context.Context, n int) error {
	if n <= 0 {
		return apperrors.NewValidationError("sample size must be positive")
	}

	batch := p.generateSamples(n)

	p.mu.Lock()
	combined := make([]models.MoodEntry, 0, len(p.history)+n)
	combined = append(combined, p.history...)
	combined = append(combined, batch...)
	p.mu.Unlock()

	if err := p.entries.ReplaceAll(ctx, combined); err != nil {
		return err
	}

	p.mu.Lock()
	p.history = combined
	p.publishLocked(ChangeHistory)
	p.mu.Unlock()

	log.Printf("[DEBUG] Seeded %d sample entries\n", n)
	return nil
}

var sampleMoods = []string{"😀", "🙂", "😐", "😔", "😢"}

func (p *Pipeline) generateSamples(n int) []models.MoodEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	batch := make([]models.MoodEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := models.MoodEntry{
			ID:                uuid.NewString(),
			Date:              now.AddDate(0, 0, -i),
			Mood:              sampleMoods[p.rng.Intn(len(sampleMoods))],
			Intensity:         1 + p.rng.Intn(5),
			StressLevel:       1 + p.rng.Intn(5),
			HeadacheIntensity: p.rng.Intn(11),
			SleepHours:        4 + p.rng.Float64()*6,
			ExerciseMinutes:   p.rng.Intn(121),
			Weather: &models.WeatherData{
				Temperature: -5 + p.rng.Float64()*30,
				Pressure:    980 + p.rng.Float64()*50,
				Humidity:    30 + p.rng.Intn(61),
			},
		}
		batch = append(batch, entry)
	}
	return batch
}

// RecordFeedback forwards feedback on the last published suggestion to the
// engine.
func (p *Pipeline) RecordFeedback(wasAccurate bool) error {
	p.mu.Lock()
	last := p.lastSuggestion
	p.mu.Unlock()

	if last == nil {
		return apperrors.NewNotFoundError("no suggestion to rate")
	}

	p.engine.RecordFeedback(*last, wasAccurate)
	if p.metrics != nil {
		p.metrics.RecordFeedback(wasAccurate)
	}
	return nil
}

// publishLocked sends a change notification without blocking. Must be
// called while holding mu.
func (p *Pipeline) publishLocked(kind ChangeKind) {
	if p.closed {
		return
	}
	select {
	case p.updates <- Change{Kind: kind}:
	default:
		// Subscriber is lagging; state is pull-based via Snapshot anyway.
	}
}

// Close cancels the pending debounce timer and closes the notification
// channel. The pipeline must not be used afterwards.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.debounceGen++
	if p.debounce != nil {
		p.debounce.Stop()
	}
	close(p.updates)
}
