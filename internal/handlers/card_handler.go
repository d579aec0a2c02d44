package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/pagination"
	"cardkeeper/internal/services"
)

// CardHandler handles credit-card requests.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer

	// Now resolves the wall clock for paid-state changes. Tests
	// override it to pin billing-cycle boundaries.
	Now func() time.Time
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService, Now: time.Now}
}

// CreateCardRequest represents the request payload for creating a card.
type CreateCardRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	DueDay      int    `json:"due_day" binding:"required,due_day"`
	NotifyEmail *bool  `json:"notify_email"`
	NotifySms   *bool  `json:"notify_sms"`
	Note        string `json:"note" binding:"max=50"`
}

// UpdateCardRequest represents the request payload for updating a card.
// All fields are required; updates always carry the full card value.
type UpdateCardRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	DueDay      int    `json:"due_day" binding:"required,due_day"`
	NotifyEmail bool   `json:"notify_email"`
	NotifySms   bool   `json:"notify_sms"`
	Note        string `json:"note" binding:"max=50"`
}

// ShareCardRequest represents the request payload for sharing a card.
type ShareCardRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateCard handles the creation of a new card.
// @Summary     Create a card
// @Description Create a new credit card to track
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} models.CreditCard "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Email notifications default on; SMS defaults off.
	notifyEmail := true
	if req.NotifyEmail != nil {
		notifyEmail = *req.NotifyEmail
	}
	notifySms := false
	if req.NotifySms != nil {
		notifySms = *req.NotifySms
	}

	card, err := h.cardService.CreateCard(userID, req.Name, req.DueDay, notifyEmail, notifySms, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CARD", "credit_card", card.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "due_day": req.DueDay})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetCards handles listing cards for the authenticated user.
// @Summary     Get cards
// @Description Get a paginated list of own and shared cards, ordered by due day
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.CardView] "Paginated cards"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CardHandler) GetCards(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.cardService.GetUserCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCard handles retrieving a specific card.
// @Summary     Get card by ID
// @Description Get a specific card the user owns or that is shared with them
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.CreditCard "Card details"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UpdateCard handles updating an existing card.
// @Summary     Update card
// @Description Replace a card's fields; owner only
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Card ID"
// @Param       request body UpdateCardRequest true "Updated card details"
// @Success     200 {object} models.CreditCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid input or card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Shared card is read-only"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCard(userID, cardID, services.CardUpdate{
		Name:        req.Name,
		DueDay:      req.DueDay,
		NotifyEmail: req.NotifyEmail,
		NotifySms:   req.NotifySms,
		Note:        req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CARD", "credit_card", card.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "due_day": req.DueDay})

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard handles deleting a card.
// @Summary     Delete card
// @Description Delete a card and its notification history; owner only
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     204 "Card deleted"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Shared card is read-only"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CARD", "credit_card", cardID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// MarkPaid handles settling the card's current billing cycle.
// @Summary     Mark card paid
// @Description Mark the card's current cycle as paid; idempotent
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.CreditCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Shared card is read-only"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/paid [post]
func (h *CardHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.MarkPaid(userID, cardID, h.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_PAID", "credit_card", card.ID, c.ClientIP(),
		map[string]interface{}{"due_date": card.LastPaidDueDate})

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UndoPaid handles clearing the card's payment marker.
// @Summary     Undo mark paid
// @Description Clear the card's payment marker so reminders resume
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {object} models.CreditCard "Updated card"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Shared card is read-only"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/paid [delete]
func (h *CardHandler) UndoPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.UndoPaid(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNDO_PAID", "credit_card", card.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// ShareCard handles granting a viewer access to a card.
// @Summary     Share card
// @Description Share a card read-only with another user by email
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Card ID"
// @Param       request body ShareCardRequest true "Viewer email"
// @Success     201 "Card shared"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card or user not found"
// @Failure     409 {object} ErrorResponse "Already shared"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/shares [post]
func (h *CardHandler) ShareCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ShareCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.cardService.ShareCard(userID, cardID, req.Email); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SHARE_CARD", "credit_card", cardID, c.ClientIP(),
		map[string]interface{}{"email": req.Email})

	c.Status(http.StatusCreated)
}

// UnshareCard handles revoking a viewer's access to a card.
// @Summary     Unshare card
// @Description Revoke a viewer's access to a card
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id     path int true "Card ID"
// @Param       userId path int true "Viewer user ID"
// @Success     204 "Share revoked"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card or share not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/shares/{userId} [delete]
func (h *CardHandler) UnshareCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	viewerID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.UnshareCard(userID, cardID, viewerID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNSHARE_CARD", "credit_card", cardID, c.ClientIP(),
		map[string]interface{}{"viewer_id": viewerID})

	c.Status(http.StatusNoContent)
}

// GetCardShares handles listing a card's viewers.
// @Summary     List card shares
// @Description List the users a card is shared with; owner only
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Card ID"
// @Success     200 {array} services.SharedUser "Viewers"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id}/shares [get]
func (h *CardHandler) GetCardShares(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	shares, err := h.cardService.GetCardShares(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shares": shares})
}
