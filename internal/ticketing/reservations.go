package ticketing

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/internal/models"
)

// Ledger serializes reservation creation per event. The capacity check is a
// check-then-act over the running ticket total, so two concurrent requests
// for the same event must not both pass the check before either inserts.
type Ledger struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewLedger() *Ledger {
	return &Ledger{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *Ledger) eventLock(eventID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[eventID] = lock
	}
	return lock
}

// CreateReservation reserves numberOfTickets for userID on an event. In
// order: the event must exist, must not have already happened, and the sum
// of its reserved tickets plus the request must fit within attendeesLimit.
func (l *Ledger) CreateReservation(db *gorm.DB, userID, eventID uuid.UUID, numberOfTickets int) (*models.Reservation, error) {
	if numberOfTickets < 1 {
		return nil, ErrInvalidTicketCount
	}

	lock := l.eventLock(eventID)
	lock.Lock()
	defer lock.Unlock()

	var reservation models.Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if event.EventDate.Before(time.Now()) {
			return ErrEventPassed
		}

		var reserved int64
		err := tx.Model(&models.Reservation{}).
			Where("event_id = ?", eventID).
			Select("COALESCE(SUM(number_of_tickets), 0)").
			Scan(&reserved).Error
		if err != nil {
			return err
		}
		if reserved+int64(numberOfTickets) > int64(event.AttendeesLimit) {
			return ErrNotEnoughTickets
		}

		reservation = models.Reservation{
			EventID:         eventID,
			UserID:          userID,
			NumberOfTickets: numberOfTickets,
		}
		return tx.Create(&reservation).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListUserReservations returns the user's reservations, each with its event.
func ListUserReservations(db *gorm.DB, userID uuid.UUID) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := db.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// GetReservation returns a reservation with its event included.
func GetReservation(db *gorm.DB, reservationID uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := db.Preload("Event").Where("id = ?", reservationID).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// CheckIn marks a reservation as used at the door. Only the event owner may
// check a reservation in, and only once.
func CheckIn(db *gorm.DB, ownerID uuid.UUID, reservation *models.Reservation) error {
	if reservation.Event == nil || reservation.Event.UserID != ownerID {
		return ErrEventNotFound
	}
	if reservation.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	if err := db.Model(reservation).Update("checked_in", true).Error; err != nil {
		return err
	}
	reservation.CheckedIn = true
	return nil
}
