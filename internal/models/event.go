package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a ticketed happening owned by the user who created it. The
// deleted_at column is exposed in responses but no delete endpoint exists;
// the field is reserved.
type Event struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"not null" json:"description"`
	EventDate      time.Time      `gorm:"column:event_date;not null;index" json:"eventDate"`
	Location       string         `gorm:"not null" json:"location"`
	Price          float64        `gorm:"not null" json:"price"`
	AttendeesLimit int            `gorm:"not null" json:"attendeesLimit"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User          `gorm:"foreignKey:UserID" json:"-"`
	Reservations   []Reservation  `gorm:"foreignKey:EventID" json:"reservations,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
