package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupCronRouter(secret string) *gin.Engine {
	r := gin.New()
	r.Use(CronAuthMiddleware(secret))
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doCronRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestCronAuthMiddleware(t *testing.T) {
	tests := []struct {
		name             string
		configuredSecret string
		authHeader       string
		wantStatus       int
		wantErrorCode    string
	}{
		{
			name:             "valid_secret",
			configuredSecret: "cron-shared-secret",
			authHeader:       "Bearer cron-shared-secret",
			wantStatus:       http.StatusOK,
		},
		{
			name:             "invalid_secret",
			configuredSecret: "cron-shared-secret",
			authHeader:       "Bearer wrong-secret",
			wantStatus:       http.StatusUnauthorized,
			wantErrorCode:    "INVALID_CRON_SECRET",
		},
		{
			name:             "missing_header",
			configuredSecret: "cron-shared-secret",
			authHeader:       "",
			wantStatus:       http.StatusUnauthorized,
			wantErrorCode:    "INVALID_CRON_SECRET",
		},
		{
			name:             "missing_bearer_prefix",
			configuredSecret: "cron-shared-secret",
			authHeader:       "cron-shared-secret",
			wantStatus:       http.StatusOK,
		},
		{
			name:             "partial_match_rejected",
			configuredSecret: "cron-shared-secret",
			authHeader:       "Bearer cron-shared",
			wantStatus:       http.StatusUnauthorized,
			wantErrorCode:    "INVALID_CRON_SECRET",
		},
		{
			name:             "unconfigured_secret",
			configuredSecret: "",
			authHeader:       "Bearer anything",
			wantStatus:       http.StatusServiceUnavailable,
			wantErrorCode:    "CRON_NOT_CONFIGURED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupCronRouter(tt.configuredSecret)
			rec := doCronRequest(router, tt.authHeader)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantErrorCode != "" {
				body := parseBody(t, rec)
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
			}

			if tt.wantStatus == http.StatusOK {
				body := parseBody(t, rec)
				if status, _ := body["status"].(string); status != "ok" {
					t.Errorf("expected handler to be reached, got status = %q", status)
				}
			}
		})
	}
}
