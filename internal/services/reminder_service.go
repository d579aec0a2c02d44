package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/logger"
	"cardkeeper/internal/models"
	"cardkeeper/internal/notify"
	"cardkeeper/internal/schedule"
)

// reminderService assembles the database state into a schedule snapshot,
// runs the evaluation, performs the sends, and commits the dedup logs.
type reminderService struct {
	db     *gorm.DB
	zone   *time.Location
	mailer notify.Mailer
	sms    notify.SMSSender
	appURL string
}

// NewReminderService creates a new ReminderServicer.
func NewReminderService(db *gorm.DB, zone *time.Location, mailer notify.Mailer, sms notify.SMSSender, appURL string) ReminderServicer {
	return &reminderService{db: db, zone: zone, mailer: mailer, sms: sms, appURL: appURL}
}

// Sweep runs one reminder pass as of now. The evaluation itself is pure;
// this method owns the surrounding I/O. Dedup log rows are written for
// every decision, whether or not delivery succeeded, so a flaky provider
// produces a missed reminder rather than a duplicate one.
func (s *reminderService) Sweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	log := logger.Get()

	snap, cards, users, err := s.loadSnapshot()
	if err != nil {
		return nil, err
	}

	evaluated := 0
	for _, user := range snap.Users {
		evaluated += len(user.Cards)
	}

	result := schedule.Run(snap, now, s.zone)

	sweep := &SweepResult{Evaluated: evaluated, Notified: []string{}}
	for _, decision := range result.Decisions {
		card := cards[decision.CardID]
		user := users[decision.UserID]
		if card == nil || user == nil {
			continue
		}

		s.deliver(ctx, user, card, decision)
		sweep.Sent++
		sweep.Notified = append(sweep.Notified,
			fmt.Sprintf("%s due %s (%dh alert)", card.Name, decision.Cycle.DueDate, decision.HoursBefore))
	}

	if len(result.Logs) > 0 {
		rows := make([]models.NotificationLog, 0, len(result.Logs))
		for _, entry := range result.Logs {
			rows = append(rows, models.NotificationLog{
				CreditCardID:     entry.CardID,
				AlertHoursBefore: entry.HoursBefore,
				DueDate:          entry.DueDate,
			})
		}
		// A concurrent sweep may have landed the same row first.
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	log.Infow("reminder sweep complete",
		"evaluated", sweep.Evaluated,
		"sent", sweep.Sent,
	)
	return sweep, nil
}

// deliver sends one reminder over every channel the card has enabled.
// Delivery failures are logged and swallowed; the dedup log is committed
// by the caller regardless.
func (s *reminderService) deliver(ctx context.Context, user *models.User, card *models.CreditCard, decision schedule.Decision) {
	log := logger.Get()

	if card.NotifyEmail {
		html, err := notify.RenderBillDueEmail(notify.BillDueEmail{
			UserName:     user.FirstName,
			CardName:     card.Name,
			DueDate:      decision.Cycle.DueDate.String(),
			DashboardURL: s.appURL + "/dashboard",
		})
		if err != nil {
			log.Errorw("failed to render reminder email", "card_id", card.ID, "error", err)
		} else {
			subject := fmt.Sprintf("Reminder: %s bill due %s", card.Name, decision.Cycle.DueDate)
			if err := s.mailer.SendEmail(ctx, user.Email, subject, html); err != nil {
				log.Errorw("failed to send reminder email",
					"card_id", card.ID,
					"user_id", user.ID,
					"error", err,
				)
			}
		}
	}

	if card.NotifySms && user.Phone != "" {
		message := fmt.Sprintf("Cardkeeper: %s bill due %s by 5 PM ET", card.Name, decision.Cycle.DueDate)
		if err := s.sms.SendSMS(ctx, user.Phone, message); err != nil {
			log.Errorw("failed to send reminder sms",
				"card_id", card.ID,
				"user_id", user.ID,
				"error", err,
			)
		}
	}
}

// loadSnapshot gathers every active user that has at least one alert,
// their notification-enabled cards, and the already-sent log rows for
// those cards.
func (s *reminderService) loadSnapshot() (schedule.Snapshot, map[uint]*models.CreditCard, map[uint]*models.User, error) {
	var snap schedule.Snapshot

	var alerts []models.NotificationAlert
	if err := s.db.Find(&alerts).Error; err != nil {
		return snap, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(alerts) == 0 {
		return snap, nil, nil, nil
	}

	alertsByUser := make(map[uint][]int)
	for _, alert := range alerts {
		alertsByUser[alert.UserID] = append(alertsByUser[alert.UserID], alert.HoursBefore)
	}

	userIDs := make([]uint, 0, len(alertsByUser))
	for id := range alertsByUser {
		userIDs = append(userIDs, id)
	}

	var userRows []models.User
	if err := s.db.Where("id IN ? AND is_active = ?", userIDs, true).Find(&userRows).Error; err != nil {
		return snap, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	users := make(map[uint]*models.User, len(userRows))
	activeIDs := make([]uint, 0, len(userRows))
	for i := range userRows {
		users[userRows[i].ID] = &userRows[i]
		activeIDs = append(activeIDs, userRows[i].ID)
	}
	if len(activeIDs) == 0 {
		return snap, nil, nil, nil
	}

	var cardRows []models.CreditCard
	if err := s.db.Where("user_id IN ? AND (notify_email = ? OR notify_sms = ?)", activeIDs, true, true).
		Find(&cardRows).Error; err != nil {
		return snap, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cards := make(map[uint]*models.CreditCard, len(cardRows))
	cardIDs := make([]uint, 0, len(cardRows))
	cardsByUser := make(map[uint][]*models.CreditCard)
	for i := range cardRows {
		card := &cardRows[i]
		cards[card.ID] = card
		cardIDs = append(cardIDs, card.ID)
		cardsByUser[card.UserID] = append(cardsByUser[card.UserID], card)
	}

	sent := make(map[uint]schedule.LogSet)
	if len(cardIDs) > 0 {
		var logRows []models.NotificationLog
		if err := s.db.Where("credit_card_id IN ?", cardIDs).Find(&logRows).Error; err != nil {
			return snap, nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, row := range logRows {
			set, ok := sent[row.CreditCardID]
			if !ok {
				set = schedule.NewLogSet()
				sent[row.CreditCardID] = set
			}
			set.Add(row.AlertHoursBefore, row.DueDate)
		}
	}

	for _, userID := range activeIDs {
		input := schedule.UserInput{UserID: userID, Alerts: alertsByUser[userID]}
		for _, card := range cardsByUser[userID] {
			set := sent[card.ID]
			if set == nil {
				set = schedule.NewLogSet()
			}
			input.Cards = append(input.Cards, schedule.CardInput{
				CardID:      card.ID,
				DueDay:      card.DueDay,
				NotifyEmail: card.NotifyEmail,
				NotifySms:   card.NotifySms,
				LastPaid:    card.LastPaidDueDate,
				Sent:        set,
			})
		}
		snap.Users = append(snap.Users, input)
	}

	return snap, cards, users, nil
}
