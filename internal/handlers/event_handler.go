package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticketly/ticketly/internal/helpers"
	"github.com/ticketly/ticketly/internal/ticketing"
)

type CreateEventRequest struct {
	Title          string   `json:"title" binding:"required,max=255"`
	Description    string   `json:"description" binding:"required"`
	EventDate      string   `json:"eventDate" binding:"required"`
	Location       string   `json:"location" binding:"required"`
	Price          *float64 `json:"price" binding:"required,gte=0"`
	AttendeesLimit *int     `json:"attendeesLimit" binding:"required,gte=1"`
}

// UpdateEventRequest is a partial update: absent fields are left untouched.
type UpdateEventRequest struct {
	Title          *string  `json:"title" binding:"omitempty,max=255"`
	Description    *string  `json:"description"`
	EventDate      *string  `json:"eventDate"`
	Location       *string  `json:"location"`
	Price          *float64 `json:"price" binding:"omitempty,gte=0"`
	AttendeesLimit *int     `json:"attendeesLimit" binding:"omitempty,gte=1"`
}

func CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	eventDate, err := helpers.ParseDateTime(req.EventDate)
	if err != nil {
		helpers.RespondWithFieldErrors(c, map[string][]string{
			"eventDate": {"The eventDate field must be a valid date."},
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

	event, err := ticketing.CreateEvent(gormDB, userID.(uuid.UUID), ticketing.NewEvent{
		Title:          req.Title,
		Description:    req.Description,
		EventDate:      eventDate,
		Location:       req.Location,
		Price:          *req.Price,
		AttendeesLimit: *req.AttendeesLimit,
	})
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event registered successfully",
		"event":   event,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithValidationError(c, err)
		return
	}

	patch := ticketing.EventPatch{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Price:          req.Price,
		AttendeesLimit: req.AttendeesLimit,
	}
	if req.EventDate != nil {
		eventDate, err := helpers.ParseDateTime(*req.EventDate)
		if err != nil {
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"eventDate": {"The eventDate field must be a valid date."},
			})
			return
		}
		patch.EventDate = &eventDate
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

	event, err := ticketing.UpdateEvent(gormDB, userID.(uuid.UUID), eventID, patch)
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrEventNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		case errors.Is(err, ticketing.ErrInvalidPrice):
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"price": {"The price field must be at least 0."},
			})
		case errors.Is(err, ticketing.ErrInvalidLimit):
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"attendeesLimit": {"The attendeesLimit field must be at least 1."},
			})
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event updated successfully",
		"event":   event,
	})
}

func ListEvents(c *gin.Context) {
	filter, ok := eventFilterFromQuery(c)
	if !ok {
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	events, err := ticketing.ListEvents(gormDB, filter)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	event, err := ticketing.GetEvent(gormDB, eventID)
	if err != nil {
		if errors.Is(err, ticketing.ErrEventNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListUserEvents(c *gin.Context) {
	filter, ok := eventFilterFromQuery(c)
	if !ok {
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

	events, err := ticketing.ListUserEvents(gormDB, userID.(uuid.UUID), filter)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, events)
}

func eventFilterFromQuery(c *gin.Context) (ticketing.EventFilter, bool) {
	var filter ticketing.EventFilter

	if from := c.Query("from"); from != "" {
		t, err := helpers.ParseDateBound(from, false)
		if err != nil {
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"from": {"The from field must be a valid date."},
			})
			return filter, false
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := helpers.ParseDateBound(to, true)
		if err != nil {
			helpers.RespondWithFieldErrors(c, map[string][]string{
				"to": {"The to field must be a valid date."},
			})
			return filter, false
		}
		filter.To = &t
	}
	return filter, true
}
