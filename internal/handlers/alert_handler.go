package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/services"
)

// AlertHandler handles notification-alert requests.
type AlertHandler struct {
	alertService services.AlertServicer
	auditService services.AuditServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer, auditService services.AuditServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService, auditService: auditService}
}

// CreateAlertRequest represents the request payload for creating an alert.
type CreateAlertRequest struct {
	HoursBefore *int `json:"hours_before" binding:"required,lead_hours"`
}

// CreateAlert handles adding a lead-time alert.
// @Summary     Create an alert
// @Description Add a reminder lead time (hours before the 5 PM deadline)
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAlertRequest true "Alert details"
// @Success     201 {object} models.NotificationAlert "Alert created"
// @Failure     400 {object} ErrorResponse "Invalid input or limit reached"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate lead time"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts [post]
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.CreateAlert(userID, *req.HoursBefore)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ALERT", "notification_alert", alert.ID, c.ClientIP(),
		map[string]interface{}{"hours_before": alert.HoursBefore})

	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// GetAlerts handles listing the user's alerts.
// @Summary     Get alerts
// @Description List the user's alerts, longest lead time first
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.NotificationAlert "Alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GetUserAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// DeleteAlert handles removing an alert.
// @Summary     Delete alert
// @Description Remove one of the user's alerts
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Alert ID"
// @Success     204 "Alert deleted"
// @Failure     400 {object} ErrorResponse "Invalid alert ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts/{id} [delete]
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.DeleteAlert(userID, alertID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ALERT", "notification_alert", alertID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
