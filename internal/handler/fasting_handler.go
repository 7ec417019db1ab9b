package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fasting/backend/internal/clock"
	apperrors "fasting/backend/internal/errors"
	"fasting/backend/internal/metrics"
	"fasting/backend/internal/middleware"
	"fasting/backend/internal/service"
)

type FastingHandler struct {
	fastingService *service.FastingService
	clock          clock.Clock
}

type saveSettingsRequest struct {
	Plan              string `json:"plan"`
	EatingWindowStart string `json:"eatingWindowStart"`
	IsActive          bool   `json:"isActive"`
}

type startSessionRequest struct {
	Plan string `json:"plan"`
}

type endSessionRequest struct {
	SessionID string `json:"sessionId"`
}

func NewFastingHandler(fastingService *service.FastingService, clk clock.Clock) *FastingHandler {
	return &FastingHandler{fastingService: fastingService, clock: clk}
}

func (h *FastingHandler) GetSettings(c *gin.Context) {
	userID := middleware.UserID(c)
	settings, apiErr := h.fastingService.GetSettings(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *FastingHandler) SaveSettings(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_json", "message": "invalid request body"},
		})
		return
	}

	userID := middleware.UserID(c)
	settings, apiErr := h.fastingService.SaveSettings(c.Request.Context(), userID, service.SaveSettingsInput{
		PlanLabel:         req.Plan,
		EatingWindowStart: req.EatingWindowStart,
		IsActive:          req.IsActive,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *FastingHandler) GetPhase(c *gin.Context) {
	userID := middleware.UserID(c)
	state, apiErr := h.fastingService.GetPhase(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": state})
}

// StreamPhase pushes the phase state once per second over SSE. The ticker is
// scoped to the request: client disconnect tears it down, and a settings
// change is picked up on reconnect.
func (h *FastingHandler) StreamPhase(c *gin.Context) {
	userID := middleware.UserID(c)
	settings, apiErr := h.fastingService.GetSettings(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	if settings == nil {
		writeError(c, apperrors.NotFound("schedule_not_found", "no fasting schedule configured"))
		return
	}

	ticker := h.fastingService.NewPhaseTicker(*settings)
	defer ticker.Stop()
	go func() {
		_ = ticker.Run(c.Request.Context())
	}()

	metrics.PhaseStreamsActive.Inc()
	defer metrics.PhaseStreamsActive.Dec()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case state, ok := <-ticker.States():
			if !ok {
				return false
			}
			metrics.PhaseStreamTicks.Inc()
			c.SSEvent("phase", state)
			return true
		}
	})
}

func (h *FastingHandler) GetCurrentSession(c *gin.Context) {
	userID := middleware.UserID(c)
	view, apiErr := h.fastingService.CurrentSession(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *FastingHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_json", "message": "invalid request body"},
		})
		return
	}

	userID := middleware.UserID(c)
	view, apiErr := h.fastingService.StartSession(c.Request.Context(), userID, req.Plan)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": view})
}

func (h *FastingHandler) EndSession(c *gin.Context) {
	var req endSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_json", "message": "invalid request body"},
		})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_session_id", "message": "sessionId is required"},
		})
		return
	}

	userID := middleware.UserID(c)
	view, apiErr := h.fastingService.EndSession(c.Request.Context(), userID, req.SessionID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

func (h *FastingHandler) GetHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	limit := 50
	rawLimit := c.Query("limit")
	if rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.fastingService.History(c.Request.Context(), userID, limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *FastingHandler) GetStats(c *gin.Context) {
	userID := middleware.UserID(c)
	stats, apiErr := h.fastingService.Stats(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *FastingHandler) GetCalendar(c *gin.Context) {
	userID := middleware.UserID(c)
	month := c.Query("month")
	if month == "" {
		month = h.clock.Now().Format("2006-01")
	}

	days, apiErr := h.fastingService.Calendar(c.Request.Context(), userID, month)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "days": days})
}
