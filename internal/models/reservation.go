package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is a claim on a number of tickets for one event by one user.
// Reservations are created once and never resized or cancelled; CheckedIn
// flips when the ticket QR is validated at the door.
type Reservation struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID         uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event           *Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	NumberOfTickets int       `gorm:"column:number_of_tickets;not null" json:"numberOfTickets"`
	CheckedIn       bool      `gorm:"not null;default:false" json:"checked_in"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (reservation *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	return
}
