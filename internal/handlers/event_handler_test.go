package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "Organizer", "organizer@example.com")

	w := doRequest(t, r, http.MethodPost, "/event", token, gin.H{
		"title":          "Summer Concert",
		"description":    "Open air concert",
		"eventDate":      "2026-06-01T20:00:00Z",
		"location":       "City Park",
		"price":          49.99,
		"attendeesLimit": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Event registered successfully", body["message"])
	event := body["event"].(map[string]any)
	assert.Equal(t, "Summer Concert", event["title"])
	assert.Equal(t, float64(100), event["attendeesLimit"])
	assert.Nil(t, event["deleted_at"])
}

func TestCreateEventValidation(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "Organizer", "organizer@example.com")

	base := gin.H{
		"title":          "Event",
		"description":    "Description",
		"eventDate":      "2026-06-01T20:00:00Z",
		"location":       "Somewhere",
		"price":          10.0,
		"attendeesLimit": 5,
	}

	tests := []struct {
		name     string
		override gin.H
		field    string
	}{
		{"zero attendees limit", gin.H{"attendeesLimit": 0}, "attendeesLimit"},
		{"negative price", gin.H{"price": -1.0}, "price"},
		{"unparseable date", gin.H{"eventDate": "next tuesday"}, "eventDate"},
		{"missing title", gin.H{"title": nil}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := gin.H{}
			for k, v := range base {
				body[k] = v
			}
			for k, v := range tt.override {
				if v == nil {
					delete(body, k)
				} else {
					body[k] = v
				}
			}

			w := doRequest(t, r, http.MethodPost, "/event", token, body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			resp := decodeBody(t, w)
			assert.Equal(t, "Validation failed", resp["message"])
			errs := resp["errors"].(map[string]any)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestUpdateEventAppliesPartialPatch(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "Organizer", "organizer@example.com")
	eventID := createEventViaAPI(t, r, token, "Original Title", "2026-06-01T20:00:00Z", 50)

	w := doRequest(t, r, http.MethodPut, "/event/"+eventID, token, gin.H{
		"title": "Updated Title",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Event updated successfully", body["message"])
	event := body["event"].(map[string]any)
	assert.Equal(t, "Updated Title", event["title"])
	// Untouched fields keep their values.
	assert.Equal(t, "An event created by the test suite", event["description"])
	assert.Equal(t, float64(50), event["attendeesLimit"])
}

func TestUpdateEventByNonOwnerReturnsNotFound(t *testing.T) {
	r, _ := newTestRouter(t)
	ownerToken := registerAndLogin(t, r, "Owner", "owner@example.com")
	otherToken := registerAndLogin(t, r, "Other", "other@example.com")
	eventID := createEventViaAPI(t, r, ownerToken, "Private Event", "2026-06-01T20:00:00Z", 50)

	w := doRequest(t, r, http.MethodPut, "/event/"+eventID, otherToken, gin.H{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Event not found", body["message"])
}

func TestListEventsFiltersByDateRange(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "Organizer", "organizer@example.com")

	createEventViaAPI(t, r, token, "Early January", "2025-01-05T12:00:00Z", 10)
	createEventViaAPI(t, r, token, "End Of January", "2025-01-31T18:00:00Z", 10)
	createEventViaAPI(t, r, token, "February", "2025-02-10T12:00:00Z", 10)

	w := doRequest(t, r, http.MethodGet, "/events?from=2025-01-01&to=2025-01-31", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	events := decodeList(t, w)
	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e["title"].(string))
	}
	assert.ElementsMatch(t, []string{"Early January", "End Of January"}, titles)
}

func TestListEventsUnfiltered(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r, "Organizer", "organizer@example.com")
	createEventViaAPI(t, r, token, "One", "2025-01-05T12:00:00Z", 10)
	createEventViaAPI(t, r, token, "Two", "2025-02-10T12:00:00Z", 10)

	w := doRequest(t, r, http.MethodGet, "/events", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)
}

func TestGetEventIncludesReservations(t *testing.T) {
	r, _ := newTestRouter(t)
	ownerToken := registerAndLogin(t, r, "Owner", "owner@example.com")
	attendeeToken := registerAndLogin(t, r, "Attendee", "attendee@example.com")
	eventID := createEventViaAPI(t, r, ownerToken, "Concert", "2099-06-01T20:00:00Z", 10)

	w := doRequest(t, r, http.MethodPost, "/reservation", attendeeToken, gin.H{
		"event_id":        eventID,
		"numberOfTickets": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/event/"+eventID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	reservations := body["reservations"].([]any)
	require.Len(t, reservations, 1)
	reservation := reservations[0].(map[string]any)
	assert.Equal(t, float64(2), reservation["numberOfTickets"])
}

func TestGetEventNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/event/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUserEventsScopedToCaller(t *testing.T) {
	r, _ := newTestRouter(t)
	ownerToken := registerAndLogin(t, r, "Owner", "owner@example.com")
	otherToken := registerAndLogin(t, r, "Other", "other@example.com")

	createEventViaAPI(t, r, ownerToken, "Mine", "2025-01-05T12:00:00Z", 10)
	createEventViaAPI(t, r, otherToken, "Theirs", "2025-01-06T12:00:00Z", 10)

	w := doRequest(t, r, http.MethodGet, "/events/user", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	events := decodeList(t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "Mine", events[0]["title"])
}
