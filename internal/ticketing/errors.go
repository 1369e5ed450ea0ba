package ticketing

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventPassed         = errors.New("event already happened")
	ErrInvalidLimit        = errors.New("attendees limit must be at least 1")
	ErrInvalidPrice        = errors.New("price cannot be negative")
	ErrInvalidTicketCount  = errors.New("number of tickets must be at least 1")
	ErrNotEnoughTickets    = errors.New("not enough tickets available")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyCheckedIn    = errors.New("reservation already checked in")
)
