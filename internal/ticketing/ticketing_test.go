package ticketing_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ticketly/ticketly/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "ticketly.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}, &models.Reservation{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$not.a.real.hash.but.never.compared",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestEvent(t *testing.T, db *gorm.DB, ownerID uuid.UUID, limit int, eventDate time.Time) models.Event {
	t.Helper()

	event := models.Event{
		Title:          "Test Event",
		Description:    "A test event",
		EventDate:      eventDate,
		Location:       "Test Hall",
		Price:          25.50,
		AttendeesLimit: limit,
		UserID:         ownerID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}
