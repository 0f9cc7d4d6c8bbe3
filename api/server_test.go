package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"moodtrack.app/config"
	apperrors "moodtrack.app/errors"
	"moodtrack.app/models"
	"moodtrack.app/pipeline"
)

// Mock pipeline for testing - implements PipelineInterface
type mockPipeline struct {
	mock.Mock
}

func (m *mockPipeline) Snapshot() pipeline.State {
	args := m.Called()
	return args.Get(0).(pipeline.State)
}

func (m *mockPipeline) EditDraft(mutate func(*models.MoodEntry)) {
	m.Called(mutate)
}

func (m *mockPipeline) Commit(ctx context.Context) (models.MoodEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.MoodEntry), args.Error(1)
}

func (m *mockPipeline) RefreshLocation(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockPipeline) UpdateProfile(ctx context.Context, age int, gender string) error {
	args := m.Called(ctx, age, gender)
	return args.Error(0)
}

func (m *mockPipeline) SeedSampleHistory(ctx context.Context, n int) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockPipeline) RecordFeedback(wasAccurate bool) error {
	args := m.Called(wasAccurate)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ PipelineInterface = (*mockPipeline)(nil)

func newTestServer(p PipelineInterface) *Server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.Port = 8080
	return NewServer(cfg, p)
}

func performRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, req)
	return w
}

func TestGetState(t *testing.T) {
	p := new(mockPipeline)
	state := pipeline.State{
		Draft:   models.MoodEntry{ID: "draft-1", Mood: "😐"},
		History: []models.MoodEntry{},
		Profile: models.DefaultProfile(),
	}
	p.On("Snapshot").Return(state)

	server := newTestServer(p)
	w := performRequest(server, http.MethodGet, "/api/state", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var got pipeline.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "draft-1", got.Draft.ID)
	assert.Equal(t, "unspecified", got.Profile.Gender)
	p.AssertExpectations(t)
}

func TestUpdateDraft_AppliesMutation(t *testing.T) {
	p := new(mockPipeline)

	draft := models.MoodEntry{ID: "draft-1", Mood: "😐", SleepHours: 7}
	p.On("EditDraft", mock.AnythingOfType("func(*models.MoodEntry)")).Run(func(args mock.Arguments) {
		mutate := args.Get(0).(func(*models.MoodEntry))
		mutate(&draft)
	}).Return()
	p.On("Snapshot").Return(pipeline.State{Draft: draft})

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/draft", `{"mood": "🙂", "sleep_hours": 6.5}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "🙂", draft.Mood)
	assert.Equal(t, 6.5, draft.SleepHours)
	p.AssertExpectations(t)
}

func TestUpdateDraft_InvalidJSON(t *testing.T) {
	p := new(mockPipeline)
	server := newTestServer(p)

	w := performRequest(server, http.MethodPost, "/api/draft", `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "EditDraft", mock.Anything)
}

func TestUpdateDraft_RejectsMultilineMood(t *testing.T) {
	p := new(mockPipeline)
	server := newTestServer(p)

	w := performRequest(server, http.MethodPost, "/api/draft", "{\"mood\": \"bad\\nmood\"}")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "EditDraft", mock.Anything)
}

func TestCommitEntry(t *testing.T) {
	p := new(mockPipeline)
	committed := models.MoodEntry{
		ID:   "entry-1",
		Mood: "🙂",
		Weather: &models.WeatherData{
			Temperature: 19.1,
			Pressure:    1011,
			Humidity:    58,
		},
	}
	p.On("Commit", mock.Anything).Return(committed, nil)

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/entries", "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.MoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "entry-1", got.ID)
	require.NotNil(t, got.Weather)
	assert.Equal(t, 19.1, got.Weather.Temperature)
	p.AssertExpectations(t)
}

func TestCommitEntry_PersistenceFailure(t *testing.T) {
	p := new(mockPipeline)
	p.On("Commit", mock.Anything).Return(models.MoodEntry{},
		apperrors.NewStorageWriteError("failed to persist entries", nil))

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/entries", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to save data", resp.Error)
}

func TestRefreshLocation_ProviderUnavailable(t *testing.T) {
	p := new(mockPipeline)
	p.On("RefreshLocation", mock.Anything).Return(
		apperrors.NewEnrichmentError("location request failed", nil))

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/location/refresh", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRefreshLocation_Success(t *testing.T) {
	p := new(mockPipeline)
	p.On("RefreshLocation", mock.Anything).Return(nil)
	p.On("Snapshot").Return(pipeline.State{
		Profile: models.UserProfile{
			Age:      30,
			Gender:   "female",
			Location: "Kyiv, UA",
			Coordinates: &models.Coordinates{
				Latitude:  50.4501,
				Longitude: 30.5234,
			},
		},
	})

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/location/refresh", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Kyiv, UA", profile.Location)
	require.NotNil(t, profile.Coordinates)
}

func TestUpdateProfile(t *testing.T) {
	p := new(mockPipeline)
	p.On("UpdateProfile", mock.Anything, 42, "male").Return(nil)
	p.On("Snapshot").Return(pipeline.State{
		Profile: models.UserProfile{Age: 42, Gender: "male"},
	})

	server := newTestServer(p)
	w := performRequest(server, http.MethodPut, "/api/profile", `{"age": 42, "gender": "male"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	p.AssertExpectations(t)
}

func TestUpdateProfile_MissingGender(t *testing.T) {
	p := new(mockPipeline)
	server := newTestServer(p)

	w := performRequest(server, http.MethodPut, "/api/profile", `{"age": 42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedSampleData(t *testing.T) {
	p := new(mockPipeline)
	p.On("SeedSampleHistory", mock.Anything, 30).Return(nil)

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/sample-data", `{"days": 30}`)

	assert.Equal(t, http.StatusOK, w.Code)
	p.AssertExpectations(t)
}

func TestSeedSampleData_MissingDays(t *testing.T) {
	p := new(mockPipeline)
	server := newTestServer(p)

	w := performRequest(server, http.MethodPost, "/api/sample-data", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p.AssertNotCalled(t, "SeedSampleHistory", mock.Anything, mock.Anything)
}

func TestSuggestionFeedback(t *testing.T) {
	p := new(mockPipeline)
	p.On("RecordFeedback", true).Return(nil)

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/suggestion/feedback", `{"accurate": true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	p.AssertExpectations(t)
}

func TestSuggestionFeedback_NoSuggestionYet(t *testing.T) {
	p := new(mockPipeline)
	p.On("RecordFeedback", false).Return(apperrors.NewNotFoundError("no suggestion to rate"))

	server := newTestServer(p)
	w := performRequest(server, http.MethodPost, "/api/suggestion/feedback", `{"accurate": false}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
