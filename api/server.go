// Package api exposes the pipeline's published state and operations over
// HTTP for presentation-layer consumers.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"moodtrack.app/config"
	mooderr "moodtrack.app/errors"
	"moodtrack.app/models"
	"moodtrack.app/pipeline"
)

// PipelineInterface is the surface of the mood pipeline the server needs.
type PipelineInterface interface {
	Snapshot() pipeline.State
	EditDraft(mutate func(*models.MoodEntry))
	Commit(ctx context.Context) (models.MoodEntry, error)
	RefreshLocation(ctx context.Context) error
	UpdateProfile(ctx context.Context, age int, gender string) error
	SeedSampleHistory(ctx context.Context, n int) error
	RecordFeedback(wasAccurate bool) error
}

// Server represents the HTTP server and API handler
type Server struct {
	router   *gin.Engine
	config   *config.Config
	pipeline PipelineInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(cfg *config.Config, p PipelineInterface) *Server {
	registerMoodValidator()

	router := gin.Default()

	server := &Server{
		router:   router,
		config:   cfg,
		pipeline: p,
	}

	server.setupRoutes()
	return server
}

// registerMoodValidator adds the "mood" binding rule: a short single-line
// token (emoji or free text).
func registerMoodValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		mood := fl.Field().String()
		if !utf8.ValidString(mood) || utf8.RuneCountInString(mood) > 64 {
			return false
		}
		return !strings.ContainsAny(mood, "\r\n")
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/state", s.getState)
		api.POST("/draft", s.updateDraft)
		api.POST("/entries", s.commitEntry)
		api.POST("/location/refresh", s.refreshLocation)
		api.PUT("/profile", s.updateProfile)
		api.POST("/sample-data", s.seedSampleData)
		api.POST("/suggestion/feedback", s.suggestionFeedback)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.pipeline.Snapshot())
}

func (s *Server) updateDraft(c *gin.Context) {
	var req models.DraftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, mooderr.NewValidationError("invalid request format"))
		return
	}

	s.pipeline.EditDraft(func(draft *models.MoodEntry) {
		if req.Mood != nil {
			draft.Mood = *req.Mood
		}
		if req.Intensity != nil {
			draft.Intensity = *req.Intensity
		}
		if req.StressLevel != nil {
			draft.StressLevel = *req.StressLevel
		}
		if req.HeadacheIntensity != nil {
			draft.HeadacheIntensity = *req.HeadacheIntensity
		}
		if req.SleepHours != nil {
			draft.SleepHours = *req.SleepHours
		}
		if req.ExerciseMinutes != nil {
			draft.ExerciseMinutes = *req.ExerciseMinutes
		}
	})

	c.JSON(http.StatusOK, s.pipeline.Snapshot().Draft)
}

func (s *Server) commitEntry(c *gin.Context) {
	slog.Debug("Committing draft entry")

	entry, err := s.pipeline.Commit(c.Request.Context())
	if err != nil {
		slog.Error("Commit error", "error", err)
		s.handleError(c, err)
		return
	}

	slog.Debug("Entry committed", "id", entry.ID, "enriched", entry.Weather != nil)
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) refreshLocation(c *gin.Context) {
	slog.Debug("Refreshing profile location")

	if err := s.pipeline.RefreshLocation(c.Request.Context()); err != nil {
		slog.Error("Location refresh error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.pipeline.Snapshot().Profile)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, mooderr.NewValidationError("invalid request format"))
		return
	}

	if err := s.pipeline.UpdateProfile(c.Request.Context(), req.Age, req.Gender); err != nil {
		slog.Error("Profile update error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, s.pipeline.Snapshot().Profile)
}

func (s *Server) seedSampleData(c *gin.Context) {
	var req models.SampleDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, mooderr.NewValidationError("invalid request format"))
		return
	}

	if err := s.pipeline.SeedSampleHistory(c.Request.Context(), req.Days); err != nil {
		slog.Error("Sample data error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Seeded %d sample entries", req.Days)})
}

func (s *Server) suggestionFeedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, mooderr.NewValidationError("invalid request format"))
		return
	}

	if err := s.pipeline.RecordFeedback(req.Accurate); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback recorded"})
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *mooderr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case mooderr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case mooderr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case mooderr.EnrichmentError:
			statusCode = http.StatusServiceUnavailable
			message = "Context provider unavailable"
		case mooderr.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case mooderr.StorageWriteError:
			statusCode = http.StatusInternalServerError
			message = "Failed to save data"
		case mooderr.StorageReadError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
