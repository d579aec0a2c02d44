package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"cardkeeper/internal/civil"
	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/models"
	"cardkeeper/internal/pagination"
	"cardkeeper/internal/schedule"
)

const maxNoteLength = 50

// cardService handles credit-card business logic.
type cardService struct {
	db   *gorm.DB
	zone *time.Location
}

// NewCardService creates a new CardServicer. The zone is the civil
// timezone all due-date computation runs in.
func NewCardService(db *gorm.DB, zone *time.Location) CardServicer {
	return &cardService{db: db, zone: zone}
}

// CreateCard creates a new card owned by the user.
func (s *cardService) CreateCard(userID uint, name string, dueDay int, notifyEmail, notifySms bool, note string) (*models.CreditCard, error) {
	if err := validateCardFields(name, dueDay, note); err != nil {
		return nil, err
	}

	card := &models.CreditCard{
		UserID:      userID,
		Name:        name,
		DueDay:      dueDay,
		NotifyEmail: notifyEmail,
		NotifySms:   notifySms,
		Note:        note,
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return card, nil
}

// GetUserCards returns a paginated list of the user's own cards plus any
// cards shared with them, ordered by due day. Shared entries carry the
// owner's email so clients can label them.
func (s *cardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[CardView], error) {
	page.Defaults()

	sharedIDs := s.db.Model(&models.CardShare{}).
		Select("credit_card_id").
		Where("user_id = ?", userID)

	base := s.db.Model(&models.CreditCard{}).
		Where("user_id = ? OR id IN (?)", userID, sharedIDs)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.CreditCard
	if err := base.Preload("Owner").
		Order("due_day asc, id asc").
		Scopes(pagination.Paginate(page)).
		Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		view := CardView{CreditCard: card}
		if card.UserID != userID {
			view.SharedByEmail = card.Owner.Email
		}
		views = append(views, view)
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID returns a card the user owns or that is shared with them.
func (s *cardService) GetCardByID(userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if card.UserID == userID {
		return &card, nil
	}

	var shares int64
	if err := s.db.Model(&models.CardShare{}).
		Where("credit_card_id = ? AND user_id = ?", cardID, userID).
		Count(&shares).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if shares == 0 {
		// Hide the card's existence from strangers.
		return nil, apperrors.ErrCardNotFound
	}
	return &card, nil
}

// UpdateCard replaces a card's mutable fields with a fully validated
// update value. Only the owner may mutate; viewers get a read-only error.
func (s *cardService) UpdateCard(userID, cardID uint, update CardUpdate) (*models.CreditCard, error) {
	if err := validateCardFields(update.Name, update.DueDay, update.Note); err != nil {
		return nil, err
	}

	card, err := s.getOwnedCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	card.Name = update.Name
	card.DueDay = update.DueDay
	card.NotifyEmail = update.NotifyEmail
	card.NotifySms = update.NotifySms
	card.Note = update.Note

	if err := s.db.Save(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// DeleteCard deletes a card the user owns. Notification logs and shares
// cascade with it.
func (s *cardService) DeleteCard(userID, cardID uint) error {
	card, err := s.getOwnedCard(userID, cardID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("credit_card_id = ?", card.ID).Delete(&models.NotificationLog{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Where("credit_card_id = ?", card.ID).Delete(&models.CardShare{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(card).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// MarkPaid settles the card's current cycle as of now. The cycle is
// recomputed fresh here, with the same calculation the reminder engine
// uses, so "paid" and "about to be reminded" can never disagree.
// Marking an already-settled cycle is a no-op.
func (s *cardService) MarkPaid(userID, cardID uint, now time.Time) (*models.CreditCard, error) {
	card, err := s.getOwnedCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	today := civil.DateOf(now.In(s.zone))
	cycle := schedule.CurrentCycle(today, card.DueDay, s.zone)

	if cycle.IsPaid(card.LastPaidDueDate) {
		return card, nil
	}

	dueDate := cycle.DueDate
	if err := s.db.Model(card).Update("last_paid_due_date", dueDate).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	card.LastPaidDueDate = &dueDate
	return card, nil
}

// UndoPaid clears the payment marker unconditionally.
func (s *cardService) UndoPaid(userID, cardID uint) (*models.CreditCard, error) {
	card, err := s.getOwnedCard(userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(card).Update("last_paid_due_date", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	card.LastPaidDueDate = nil
	return card, nil
}

// ShareCard grants read-only visibility of an owned card to the user
// with the given email address.
func (s *cardService) ShareCard(ownerID, cardID uint, viewerEmail string) error {
	card, err := s.getOwnedCard(ownerID, cardID)
	if err != nil {
		return err
	}

	var viewer models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(viewerEmail), true).
		First(&viewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if viewer.ID == ownerID {
		return apperrors.ErrShareWithSelf
	}

	var existing int64
	if err := s.db.Model(&models.CardShare{}).
		Where("credit_card_id = ? AND user_id = ?", card.ID, viewer.ID).
		Count(&existing).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		return apperrors.ErrAlreadyShared
	}

	share := &models.CardShare{CreditCardID: card.ID, UserID: viewer.ID}
	if err := s.db.Create(share).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UnshareCard revokes a viewer's access to an owned card.
func (s *cardService) UnshareCard(ownerID, cardID, viewerID uint) error {
	card, err := s.getOwnedCard(ownerID, cardID)
	if err != nil {
		return err
	}

	// Hard delete so the same viewer can be re-shared later without
	// tripping the unique (card, user) index on a dead row.
	result := s.db.Unscoped().
		Where("credit_card_id = ? AND user_id = ?", card.ID, viewerID).
		Delete(&models.CardShare{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrShareNotFound
	}
	return nil
}

// GetCardShares lists the users an owned card is shared with.
func (s *cardService) GetCardShares(ownerID, cardID uint) ([]SharedUser, error) {
	card, err := s.getOwnedCard(ownerID, cardID)
	if err != nil {
		return nil, err
	}

	var shares []models.CardShare
	if err := s.db.Preload("Viewer").
		Where("credit_card_id = ?", card.ID).
		Find(&shares).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	users := make([]SharedUser, 0, len(shares))
	for _, share := range shares {
		name := strings.TrimSpace(share.Viewer.FirstName + " " + share.Viewer.LastName)
		users = append(users, SharedUser{
			ID:    share.Viewer.ID,
			Email: share.Viewer.Email,
			Name:  name,
		})
	}
	return users, nil
}

// getOwnedCard loads a card and verifies ownership. A card that exists
// but belongs to someone else is reported as not found unless it is
// shared with the caller, in which case mutation is explicitly refused.
func (s *cardService) getOwnedCard(userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if card.UserID != userID {
		var shares int64
		if err := s.db.Model(&models.CardShare{}).
			Where("credit_card_id = ? AND user_id = ?", cardID, userID).
			Count(&shares).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if shares > 0 {
			return nil, apperrors.ErrCardReadOnly
		}
		return nil, apperrors.ErrCardNotFound
	}
	return &card, nil
}

func validateCardFields(name string, dueDay int, note string) error {
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if dueDay < 1 || dueDay > 31 {
		return apperrors.ErrInvalidDueDay
	}
	if len(note) > maxNoteLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "note must be 50 characters or fewer")
	}
	return nil
}
