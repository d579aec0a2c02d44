package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cardkeeper/internal/handlers"
	"cardkeeper/internal/logger"
	"cardkeeper/internal/middleware"
	"cardkeeper/internal/models"
	"cardkeeper/internal/services"
	"cardkeeper/internal/validator"
)

const cronSecret = "integration-cron-secret"

// recordingMailer captures outbound email for assertions.
type recordingMailer struct {
	sent []recordedEmail
}

type recordedEmail struct {
	To      string
	Subject string
	HTML    string
}

func (m *recordingMailer) SendEmail(_ context.Context, to, subject, html string) error {
	m.sent = append(m.sent, recordedEmail{To: to, Subject: subject, HTML: html})
	return nil
}

type recordingSMSSender struct {
	sent []string
}

func (s *recordingSMSSender) SendSMS(_ context.Context, to, message string) error {
	s.sent = append(s.sent, to+": "+message)
	return nil
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mailer *recordingMailer
	SMS    *recordingSMSSender
	Zone   *time.Location

	now atomic.Pointer[time.Time]
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.CreditCard{},
		&models.CardShare{},
		&models.NotificationAlert{},
		&models.NotificationLog{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
// The clock for the reminder trigger endpoint is controlled through SetNow.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	zone, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}

	app := &testApp{DB: db, Mailer: &recordingMailer{}, SMS: &recordingSMSSender{}, Zone: zone}
	app.SetNow(time.Date(2026, 1, 10, 12, 0, 0, 0, zone))

	// Services
	userService := services.NewUserService(db)
	cardService := services.NewCardService(db, zone)
	alertService := services.NewAlertService(db)
	auditService := services.NewAuditService(db)
	reminderService := services.NewReminderService(db, zone, app.Mailer, app.SMS, "https://cards.test")

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	cardHandler := handlers.NewCardHandler(cardService, auditService)
	cardHandler.Now = app.Now
	alertHandler := handlers.NewAlertHandler(alertService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	// The production trigger endpoint uses the real clock; tests inject
	// a frozen one so the sweep can be replayed at exact instants.
	router.POST("/api/cron/reminders", middleware.CronAuthMiddleware(cronSecret), func(c *gin.Context) {
		result, err := reminderService.Sweep(c.Request.Context(), app.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"evaluated": result.Evaluated,
			"sent":      result.Sent,
			"notified":  result.Notified,
		})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	cards := protected.Group("/cards")
	cards.POST("", cardHandler.CreateCard)
	cards.GET("", cardHandler.GetCards)
	cards.GET("/:id", cardHandler.GetCard)
	cards.PUT("/:id", cardHandler.UpdateCard)
	cards.DELETE("/:id", cardHandler.DeleteCard)
	cards.POST("/:id/paid", cardHandler.MarkPaid)
	cards.DELETE("/:id/paid", cardHandler.UndoPaid)
	cards.POST("/:id/shares", cardHandler.ShareCard)
	cards.GET("/:id/shares", cardHandler.GetCardShares)
	cards.DELETE("/:id/shares/:userId", cardHandler.UnshareCard)

	alerts := protected.Group("/alerts")
	alerts.POST("", alertHandler.CreateAlert)
	alerts.GET("", alertHandler.GetAlerts)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)

	app.Router = router
	return app
}

// SetNow freezes the trigger endpoint's clock at the given instant.
func (app *testApp) SetNow(now time.Time) {
	app.now.Store(&now)
}

// Now returns the frozen test clock.
func (app *testApp) Now() time.Time {
	return *app.now.Load()
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// triggerSweep calls the cron endpoint with the shared secret.
func (app *testApp) triggerSweep(t *testing.T) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/api/cron/reminders", "", cronSecret)
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createCard creates a card through the API and returns its ID.
func (app *testApp) createCard(t *testing.T, token, name string, dueDay int) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"due_day":%d}`, name, dueDay)
	rec := app.request("POST", "/api/v1/cards", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create card failed: %d %s", rec.Code, rec.Body.String())
	}
	card := parseJSON(t, rec)["card"].(map[string]interface{})
	return card["id"].(float64)
}

// createAlert creates a lead-time alert through the API.
func (app *testApp) createAlert(t *testing.T, token string, hoursBefore int) {
	t.Helper()
	body := fmt.Sprintf(`{"hours_before":%d}`, hoursBefore)
	rec := app.request("POST", "/api/v1/alerts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create alert failed: %d %s", rec.Code, rec.Body.String())
	}
}
