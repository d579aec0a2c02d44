package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cardkeeper/internal/civil"
	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/models"
	"cardkeeper/internal/pagination"
	"cardkeeper/internal/services"
)

// --- mock card service ---

type mockCardService struct {
	createCardFn    func(userID uint, name string, dueDay int, notifyEmail, notifySms bool, note string) (*models.CreditCard, error)
	getUserCardsFn  func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[services.CardView], error)
	getCardByIDFn   func(userID, cardID uint) (*models.CreditCard, error)
	updateCardFn    func(userID, cardID uint, update services.CardUpdate) (*models.CreditCard, error)
	deleteCardFn    func(userID, cardID uint) error
	markPaidFn      func(userID, cardID uint, now time.Time) (*models.CreditCard, error)
	undoPaidFn      func(userID, cardID uint) (*models.CreditCard, error)
	shareCardFn     func(ownerID, cardID uint, viewerEmail string) error
	unshareCardFn   func(ownerID, cardID, viewerID uint) error
	getCardSharesFn func(ownerID, cardID uint) ([]services.SharedUser, error)
}

func (m *mockCardService) CreateCard(userID uint, name string, dueDay int, notifyEmail, notifySms bool, note string) (*models.CreditCard, error) {
	if m.createCardFn != nil {
		return m.createCardFn(userID, name, dueDay, notifyEmail, notifySms, note)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[services.CardView], error) {
	if m.getUserCardsFn != nil {
		return m.getUserCardsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]services.CardView{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockCardService) GetCardByID(userID, cardID uint) (*models.CreditCard, error) {
	if m.getCardByIDFn != nil {
		return m.getCardByIDFn(userID, cardID)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCardService) UpdateCard(userID, cardID uint, update services.CardUpdate) (*models.CreditCard, error) {
	if m.updateCardFn != nil {
		return m.updateCardFn(userID, cardID, update)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCardService) DeleteCard(userID, cardID uint) error {
	if m.deleteCardFn != nil {
		return m.deleteCardFn(userID, cardID)
	}
	return nil
}

func (m *mockCardService) MarkPaid(userID, cardID uint, now time.Time) (*models.CreditCard, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(userID, cardID, now)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCardService) UndoPaid(userID, cardID uint) (*models.CreditCard, error) {
	if m.undoPaidFn != nil {
		return m.undoPaidFn(userID, cardID)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCardService) ShareCard(ownerID, cardID uint, viewerEmail string) error {
	if m.shareCardFn != nil {
		return m.shareCardFn(ownerID, cardID, viewerEmail)
	}
	return nil
}

func (m *mockCardService) UnshareCard(ownerID, cardID, viewerID uint) error {
	if m.unshareCardFn != nil {
		return m.unshareCardFn(ownerID, cardID, viewerID)
	}
	return nil
}

func (m *mockCardService) GetCardShares(ownerID, cardID uint) ([]services.SharedUser, error) {
	if m.getCardSharesFn != nil {
		return m.getCardSharesFn(ownerID, cardID)
	}
	return []services.SharedUser{}, nil
}

var _ services.CardServicer = (*mockCardService)(nil)

func setupCardRouter(handler *CardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/cards", handler.CreateCard)
	auth.GET("/cards", handler.GetCards)
	auth.GET("/cards/:id", handler.GetCard)
	auth.PUT("/cards/:id", handler.UpdateCard)
	auth.DELETE("/cards/:id", handler.DeleteCard)
	auth.POST("/cards/:id/paid", handler.MarkPaid)
	auth.DELETE("/cards/:id/paid", handler.UndoPaid)
	auth.POST("/cards/:id/shares", handler.ShareCard)
	auth.GET("/cards/:id/shares", handler.GetCardShares)
	auth.DELETE("/cards/:id/shares/:userId", handler.UnshareCard)
	return r
}

func TestCardHandler_CreateCard(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCardService{
			createCardFn: func(_ uint, name string, dueDay int, notifyEmail, notifySms bool, note string) (*models.CreditCard, error) {
				return &models.CreditCard{
					Base:        models.Base{ID: 1},
					UserID:      1,
					Name:        name,
					DueDay:      dueDay,
					NotifyEmail: notifyEmail,
					NotifySms:   notifySms,
					Note:        note,
				}, nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"name":"Chase Sapphire","due_day":15}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		card := result["card"].(map[string]interface{})
		if card["name"] != "Chase Sapphire" {
			t.Errorf("expected name Chase Sapphire, got %v", card["name"])
		}
		// Email defaults on when not supplied.
		if card["notify_email"] != true {
			t.Error("expected notify_email to default to true")
		}
	})

	t.Run("returns 400 on due day out of range", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"name":"Card","due_day":32}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards", `{"due_day":15}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCardHandler_GetCards(t *testing.T) {
	t.Run("returns paginated cards with sharing context", func(t *testing.T) {
		svc := &mockCardService{
			getUserCardsFn: func(_ uint, _ pagination.PageRequest) (*pagination.PageResponse[services.CardView], error) {
				views := []services.CardView{
					{CreditCard: models.CreditCard{Base: models.Base{ID: 1}, Name: "Mine", DueDay: 5}},
					{CreditCard: models.CreditCard{Base: models.Base{ID: 2}, Name: "Theirs", DueDay: 20}, SharedByEmail: "owner@test.com"},
				}
				resp := pagination.NewPageResponse(views, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Fatalf("expected 2 cards, got %d", len(data))
		}
		shared := data[1].(map[string]interface{})
		if shared["shared_by_email"] != "owner@test.com" {
			t.Errorf("expected shared_by_email, got %v", shared["shared_by_email"])
		}
	})

	t.Run("returns 400 on bad pagination", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards?page=0", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCardHandler_MarkPaid(t *testing.T) {
	t.Run("returns 200 with settled card", func(t *testing.T) {
		paid := civil.Date{Year: 2026, Month: 1, Day: 15}
		svc := &mockCardService{
			markPaidFn: func(_, cardID uint, _ time.Time) (*models.CreditCard, error) {
				return &models.CreditCard{
					Base:            models.Base{ID: cardID},
					Name:            "Card",
					DueDay:          15,
					LastPaidDueDate: &paid,
				}, nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/1/paid", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		card := result["card"].(map[string]interface{})
		if card["last_paid_due_date"] != "2026-01-15" {
			t.Errorf("expected last_paid_due_date 2026-01-15, got %v", card["last_paid_due_date"])
		}
	})

	t.Run("returns 403 for shared card", func(t *testing.T) {
		svc := &mockCardService{
			markPaidFn: func(_, _ uint, _ time.Time) (*models.CreditCard, error) {
				return nil, apperrors.ErrCardReadOnly
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/1/paid", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CARD_READ_ONLY")
	})

	t.Run("returns 400 on bad card id", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/abc/paid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCardHandler_UpdateCard(t *testing.T) {
	t.Run("passes full update value through", func(t *testing.T) {
		var got services.CardUpdate
		svc := &mockCardService{
			updateCardFn: func(_, _ uint, update services.CardUpdate) (*models.CreditCard, error) {
				got = update
				return &models.CreditCard{Base: models.Base{ID: 1}}, nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "PUT", "/cards/1",
			`{"name":"Renamed","due_day":20,"notify_email":false,"notify_sms":true,"note":"n"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != "Renamed" || got.DueDay != 20 || got.NotifyEmail || !got.NotifySms {
			t.Errorf("unexpected update value: %+v", got)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCardService{
			updateCardFn: func(_, _ uint, _ services.CardUpdate) (*models.CreditCard, error) {
				return nil, apperrors.ErrCardNotFound
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "PUT", "/cards/99", `{"name":"X","due_day":1}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCardHandler_DeleteCard(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "DELETE", "/cards/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestCardHandler_Shares(t *testing.T) {
	t.Run("share returns 201", func(t *testing.T) {
		var gotEmail string
		svc := &mockCardService{
			shareCardFn: func(_, _ uint, viewerEmail string) error {
				gotEmail = viewerEmail
				return nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/1/shares", `{"email":"friend@test.com"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotEmail != "friend@test.com" {
			t.Errorf("expected email passed through, got %q", gotEmail)
		}
	})

	t.Run("share returns 409 on duplicate", func(t *testing.T) {
		svc := &mockCardService{
			shareCardFn: func(_, _ uint, _ string) error { return apperrors.ErrAlreadyShared },
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/1/shares", `{"email":"friend@test.com"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("share returns 400 on self share", func(t *testing.T) {
		svc := &mockCardService{
			shareCardFn: func(_, _ uint, _ string) error { return apperrors.ErrShareWithSelf },
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "POST", "/cards/1/shares", `{"email":"me@test.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unshare returns 204", func(t *testing.T) {
		handler := NewCardHandler(&mockCardService{}, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "DELETE", "/cards/1/shares/2", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("list shares returns viewers", func(t *testing.T) {
		svc := &mockCardService{
			getCardSharesFn: func(_, _ uint) ([]services.SharedUser, error) {
				return []services.SharedUser{{ID: 2, Email: "friend@test.com"}}, nil
			},
		}
		handler := NewCardHandler(svc, &mockAuditService{})
		r := setupCardRouter(handler)

		rec := doRequest(r, "GET", "/cards/1/shares", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		shares := result["shares"].([]interface{})
		if len(shares) != 1 {
			t.Fatalf("expected 1 share, got %d", len(shares))
		}
	})
}
