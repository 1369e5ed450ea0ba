package ticketing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/internal/models"
)

type NewEvent struct {
	Title          string
	Description    string
	EventDate      time.Time
	Location       string
	Price          float64
	AttendeesLimit int
}

// EventPatch carries a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title          *string
	Description    *string
	EventDate      *time.Time
	Location       *string
	Price          *float64
	AttendeesLimit *int
}

// EventFilter bounds the event date. Both bounds are inclusive.
type EventFilter struct {
	From *time.Time
	To   *time.Time
}

func CreateEvent(db *gorm.DB, ownerID uuid.UUID, in NewEvent) (*models.Event, error) {
	if in.AttendeesLimit < 1 {
		return nil, ErrInvalidLimit
	}
	if in.Price < 0 {
		return nil, ErrInvalidPrice
	}

	event := models.Event{
		Title:          in.Title,
		Description:    in.Description,
		EventDate:      in.EventDate,
		Location:       in.Location,
		Price:          in.Price,
		AttendeesLimit: in.AttendeesLimit,
		UserID:         ownerID,
	}
	if err := db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent applies a patch to an event owned by ownerID. The lookup is
// scoped to the owner, so someone else's event reads as not found.
func UpdateEvent(db *gorm.DB, ownerID, eventID uuid.UUID, patch EventPatch) (*models.Event, error) {
	var event models.Event
	if err := db.Where("id = ? AND user_id = ?", eventID, ownerID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.EventDate != nil {
		event.EventDate = *patch.EventDate
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, ErrInvalidPrice
		}
		event.Price = *patch.Price
	}
	if patch.AttendeesLimit != nil {
		if *patch.AttendeesLimit < 1 {
			return nil, ErrInvalidLimit
		}
		event.AttendeesLimit = *patch.AttendeesLimit
	}

	if err := db.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func ListEvents(db *gorm.DB, filter EventFilter) ([]models.Event, error) {
	events := []models.Event{}
	if err := filterEvents(db.Model(&models.Event{}), filter).Order("event_date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func ListUserEvents(db *gorm.DB, ownerID uuid.UUID, filter EventFilter) ([]models.Event, error) {
	events := []models.Event{}
	query := filterEvents(db.Model(&models.Event{}), filter).Where("user_id = ?", ownerID)
	if err := query.Order("event_date ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns the event with its reservations included.
func GetEvent(db *gorm.DB, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := db.Preload("Reservations").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.Reservations == nil {
		event.Reservations = []models.Reservation{}
	}
	return &event, nil
}

func filterEvents(query *gorm.DB, filter EventFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("event_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("event_date <= ?", *filter.To)
	}
	return query
}
