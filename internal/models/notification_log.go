package models

import "cardkeeper/internal/civil"

// NotificationLog records one sent reminder: which alert fired for which
// card and cycle. The unique index over the triple is the de-duplication
// guarantee: repeated or concurrent scheduler runs can insert at most one
// row per (card, lead time, due date), so a committed log permanently
// silences that alert for that cycle.
type NotificationLog struct {
	Base
	CreditCardID     uint       `gorm:"not null;uniqueIndex:idx_logs_card_hours_due" json:"credit_card_id"`
	AlertHoursBefore int        `gorm:"not null;uniqueIndex:idx_logs_card_hours_due" json:"alert_hours_before"`
	DueDate          civil.Date `gorm:"type:date;not null;uniqueIndex:idx_logs_card_hours_due" json:"due_date"`
}
