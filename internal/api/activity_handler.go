package api

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	activityService service.ActivityService
	log             *zap.Logger
}

func NewActivityHandler(activityService service.ActivityService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, log: log}
}

type CreateActivityRequest struct {
	Action   string                   `json:"action"`
	Details  string                   `json:"details"`
	Type     domain.ActivityType      `json:"type"`
	Metadata *domain.ActivityMetadata `json:"metadata"`
}

// GetActivities godoc
// @Summary My activity feed with counters
// @Tags Activities
// @Produce json
// @Param type query string false "Activity type or all"
// @Param date query string false "today, week, month or all"
// @Param search query string false "Substring of action, details or user name"
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {array} domain.Activity
// @Failure 400 {object} gin.H "Unknown filter"
// @Router /activities [get]
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	activities, stats, err := h.activityService.List(c.Request.Context(), user, service.ListActivitiesInput{
		Type:   c.Query("type"),
		Date:   c.Query("date"),
		Search: c.Query("search"),
		Limit:  queryLimit(c),
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	respond(c, http.StatusOK, gin.H{
		"activities": activities,
		"stats":      stats,
		"count":      len(activities),
	})
}

// CreateActivity godoc
// @Summary Log an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param activity body CreateActivityRequest true "Activity"
// @Success 201 {object} domain.Activity
// @Failure 400 {object} gin.H "Invalid input"
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var req CreateActivityRequest
	if !bindJSON(c, &req) {
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), user, service.CreateActivityInput{
		Action:   req.Action,
		Details:  req.Details,
		Type:     req.Type,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": "activity created", "activity": activity})
}

// queryLimit reads ?limit=. Garbage falls back to the default.
func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil {
		return 0
	}
	return limit
}
