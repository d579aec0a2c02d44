package models

import "cardkeeper/internal/civil"

// CreditCard represents a card whose monthly bill is tracked for reminders.
// DueDay anchors the billing cycle: the bill is due on that day of every
// month (clamped to the month's last day), by 17:00 in the configured zone.
type CreditCard struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	DueDay      int    `gorm:"not null" json:"due_day"`
	NotifyEmail bool   `gorm:"default:false" json:"notify_email"`
	NotifySms   bool   `gorm:"default:false" json:"notify_sms"`
	Note        string `gorm:"size:50" json:"note,omitempty"`

	// LastPaidDueDate marks the most recent cycle explicitly acknowledged
	// as paid. Stored as a canonical YYYY-MM-DD string; nil means the
	// current cycle is unsettled. Its day-of-month always equals the due
	// date computed for the cycle it settled.
	LastPaidDueDate *civil.Date `gorm:"type:date" json:"last_paid_due_date,omitempty"`

	// Relationships
	Owner            User              `gorm:"foreignKey:UserID" json:"-"`
	Shares           []CardShare       `gorm:"foreignKey:CreditCardID;constraint:OnDelete:CASCADE" json:"shares,omitempty"`
	NotificationLogs []NotificationLog `gorm:"foreignKey:CreditCardID;constraint:OnDelete:CASCADE" json:"-"`
}

// CardShare grants a second user read-only visibility of a card they do
// not own. Shares never carry mutate or delete rights.
type CardShare struct {
	Base
	CreditCardID uint `gorm:"not null;uniqueIndex:idx_card_shares_card_user" json:"credit_card_id"`
	UserID       uint `gorm:"not null;uniqueIndex:idx_card_shares_card_user" json:"user_id"`

	Viewer User `gorm:"foreignKey:UserID" json:"-"`
}
