package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sensornode/internal/models"
)

const (
	statusOK        = "ok"
	statusTriggered = "triggered"

	errGetState    = "failed to load state"
	errGetReadings = "failed to load readings"

	maxReadingsLimit = 500
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for the manual trigger.
type triggerRequest struct {
	Source string `json:"source" binding:"required"` // distance | sound
}

// TriggerRequest is the exported model for Swagger docs of the trigger payload.
type TriggerRequest struct {
	// Source to sample. Allowed: distance, sound
	Source string `json:"source" example:"distance"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get node state
// @Tags         node
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/node/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "node_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Recent readings
// @Tags         node
// @Produce      json
// @Param        limit  query  int  false  "Max rows (default 50, cap 500)"
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/node/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit'"})
			return
		}
		limit = v
	}
	if limit > maxReadingsLimit {
		limit = maxReadingsLimit
	}

	readings, err := h.services.Monitoring.RecentReadings(ctx, limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetReadings, "node_get_readings_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(readings),
		"readings": readings,
	})
}

// @Summary      Trigger a sampling cycle
// @Description  Equivalent to a button press; the debounce window applies.
// @Tags         node
// @Accept       json
// @Produce      json
// @Param        body  body  TriggerRequest  true  "Trigger payload"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/node/trigger [post]
// @Security     BearerAuth
func (h *Handler) triggerSample(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	src := models.ParseSource(req.Source)
	if src == models.SourceNone {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be 'distance' or 'sound'"})
		return
	}

	if err := h.services.Cycle.Trigger(src); err != nil {
		if h.log != nil {
			h.log.Infow("node_trigger_rejected", "source", req.Source, "err", err)
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": statusTriggered, "source": src.String()})
}
