package services

import (
	"context"
	"time"

	"cardkeeper/internal/models"
	"cardkeeper/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CardUpdate is a fully validated replacement value for a card's mutable
// fields. Updates always carry every field; there are no partial or
// blind field writes.
type CardUpdate struct {
	Name        string
	DueDay      int
	NotifyEmail bool
	NotifySms   bool
	Note        string
}

// CardView is a card decorated with sharing context for list responses.
type CardView struct {
	models.CreditCard
	SharedByEmail string `json:"shared_by_email,omitempty"`
}

// SharedUser identifies a viewer a card has been shared with.
type SharedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CardServicer defines the contract for credit-card business logic.
type CardServicer interface {
	CreateCard(userID uint, name string, dueDay int, notifyEmail, notifySms bool, note string) (*models.CreditCard, error)
	GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[CardView], error)
	GetCardByID(userID, cardID uint) (*models.CreditCard, error)
	UpdateCard(userID, cardID uint, update CardUpdate) (*models.CreditCard, error)
	DeleteCard(userID, cardID uint) error
	MarkPaid(userID, cardID uint, now time.Time) (*models.CreditCard, error)
	UndoPaid(userID, cardID uint) (*models.CreditCard, error)
	ShareCard(ownerID, cardID uint, viewerEmail string) error
	UnshareCard(ownerID, cardID, viewerID uint) error
	GetCardShares(ownerID, cardID uint) ([]SharedUser, error)
}

// AlertServicer defines the contract for notification-alert business logic.
type AlertServicer interface {
	CreateAlert(userID uint, hoursBefore int) (*models.NotificationAlert, error)
	GetUserAlerts(userID uint) ([]models.NotificationAlert, error)
	DeleteAlert(userID, alertID uint) error
}

// SweepResult summarizes one reminder sweep.
type SweepResult struct {
	Evaluated int      `json:"evaluated"`
	Sent      int      `json:"sent"`
	Notified  []string `json:"notified"`
}

// ReminderServicer runs the periodic reminder evaluation.
type ReminderServicer interface {
	Sweep(ctx context.Context, now time.Time) (*SweepResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
