package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/internal/helpers"
	"github.com/ticketly/ticketly/internal/models"
	"github.com/ticketly/ticketly/internal/ticketing"
)

type ReservationRequest struct {
	EventID         string `json:"event_id" binding:"required,uuid"`
	NumberOfTickets *int   `json:"numberOfTickets" binding:"required,gte=1"`
}

func CreateReservation(c *gin.Context) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		helpers.RespondWithFieldErrors(c, map[string][]string{
			"event_id": {"The event_id field must be a valid ID."},
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	ledgerValue, exists := c.Get("ledger")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Reservation ledger not found.")
		return
	}
	ledger := ledgerValue.(*ticketing.Ledger)

	reservation, err := ledger.CreateReservation(gormDB, userID.(uuid.UUID), eventID, *req.NumberOfTickets)
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrEventNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		case errors.Is(err, ticketing.ErrEventPassed):
			helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Event already happened")
		case errors.Is(err, ticketing.ErrNotEnoughTickets):
			helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Not enough tickets available")
		case errors.Is(err, ticketing.ErrInvalidTicketCount):
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"numberOfTickets": {"The numberOfTickets field must be at least 1."},
			})
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create reservation.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Reservation registered successfully",
		"registration": reservation,
	})
}

func ListUserReservations(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservations, err := ticketing.ListUserReservations(gormDB, userID.(uuid.UUID))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservations.")
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func reservationQRData(reservation *models.Reservation) string {
	secret := os.Getenv("JWT_SECRET")
	signature := helpers.SignReservation(reservation.ID, reservation.EventID, reservation.UserID, secret)
	return fmt.Sprintf("reservation:%s;event:%s;signature:%s",
		reservation.ID.String(),
		reservation.EventID.String(),
		signature,
	)
}

func extractReservationIDFromQRData(qrData string) (uuid.UUID, error) {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "reservation:") || !strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, fmt.Errorf("invalid QR data format")
	}
	return uuid.Parse(strings.TrimPrefix(parts[0], "reservation:"))
}

func validateReservationQRData(reservation *models.Reservation, qrData string) bool {
	parts := strings.Split(qrData, ";")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "signature:") {
		return false
	}
	secret := os.Getenv("JWT_SECRET")
	signature := strings.TrimPrefix(parts[2], "signature:")
	return helpers.VerifyReservationSignature(reservation.ID, reservation.EventID, reservation.UserID, secret, signature)
}

// GenerateReservationQR renders the caller's reservation as a signed QR
// ticket for check-in at the event.
func GenerateReservationQR(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservation, err := ticketing.GetReservation(gormDB, reservationID)
	if err != nil {
		if errors.Is(err, ticketing.ErrReservationNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Reservation not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservation.")
		return
	}

	if reservation.UserID != userID.(uuid.UUID) {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to generate a QR code for this reservation")
		return
	}
	if reservation.CheckedIn {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used")
		return
	}

	qrImage, err := qrcode.Encode(reservationQRData(reservation), qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateReservation lets an event owner scan a ticket QR payload and mark
// the reservation as checked in.
func ValidateReservation(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	reservationID, err := extractReservationIDFromQRData(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid QR code format")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	reservation, err := ticketing.GetReservation(gormDB, reservationID)
	if err != nil {
		if errors.Is(err, ticketing.ErrReservationNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Reservation not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reservation.")
		return
	}

	if !validateReservationQRData(reservation, validationRequest.QRData) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code signature")
		return
	}

	if err := ticketing.CheckIn(gormDB, userID.(uuid.UUID), reservation); err != nil {
		switch {
		case errors.Is(err, ticketing.ErrEventNotFound):
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket")
		case errors.Is(err, ticketing.ErrAlreadyCheckedIn):
			helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used")
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully",
		"ticket": gin.H{
			"event_title":     reservation.Event.Title,
			"numberOfTickets": reservation.NumberOfTickets,
		},
	})
}
