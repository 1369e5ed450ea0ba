package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ticketly/ticketly/internal/handlers"
	"github.com/ticketly/ticketly/internal/helpers"
	"github.com/ticketly/ticketly/internal/middleware"
	"github.com/ticketly/ticketly/internal/models"
	"github.com/ticketly/ticketly/internal/ticketing"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "handler-test-secret")
	helpers.RegisterValidatorTagNames()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "ticketly.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}, &models.Reservation{}))

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.LedgerMiddleware(ticketing.NewLedger()))

	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.GET("/events", handlers.ListEvents)
	r.GET("/event/:id", handlers.GetEvent)

	protected := r.Group("")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.POST("/event", handlers.CreateEvent)
		protected.PUT("/event/:id", handlers.UpdateEvent)
		protected.GET("/events/user", handlers.ListUserEvents)
		protected.POST("/reservation", handlers.CreateReservation)
		protected.GET("/reservations/user", handlers.ListUserReservations)
		protected.GET("/reservation/:id/qr", handlers.GenerateReservationQR)
		protected.POST("/reservation/validate", handlers.ValidateReservation)
	}

	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, r *gin.Engine, name, email, password string) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/register", "", gin.H{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func loginUser(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, ok := body["access_token"].(string)
	require.True(t, ok, "missing access_token in %v", body)
	return token
}

func registerAndLogin(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()

	registerUser(t, r, name, email, "secret123")
	return loginUser(t, r, email, "secret123")
}

func createEventViaAPI(t *testing.T, r *gin.Engine, token, title, eventDate string, limit int) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/event", token, gin.H{
		"title":          title,
		"description":    "An event created by the test suite",
		"eventDate":      eventDate,
		"location":       "Test Hall",
		"price":          15.0,
		"attendeesLimit": limit,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	event, ok := body["event"].(map[string]any)
	require.True(t, ok, "missing event in %v", body)
	return event["id"].(string)
}
