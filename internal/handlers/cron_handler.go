package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cardkeeper/internal/services"
)

// CronHandler exposes the reminder sweep to an external scheduler.
type CronHandler struct {
	reminderService services.ReminderServicer
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(reminderService services.ReminderServicer) *CronHandler {
	return &CronHandler{reminderService: reminderService}
}

// TriggerReminders runs one reminder sweep.
// @Summary     Trigger reminder sweep
// @Description Evaluate all alerts and send due reminders; secured by the cron secret
// @Tags        cron
// @Accept      json
// @Produce     json
// @Param       Authorization header string true "Bearer cron secret"
// @Success     200 {object} services.SweepResult "Sweep summary"
// @Failure     401 {object} ErrorResponse "Invalid cron secret"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cron/reminders [post]
func (h *CronHandler) TriggerReminders(c *gin.Context) {
	result, err := h.reminderService.Sweep(c.Request.Context(), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"evaluated": result.Evaluated,
		"sent":      result.Sent,
		"notified":  result.Notified,
	})
}
