package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// SignReservation produces the HMAC carried inside a ticket QR payload so
// the check-in endpoint can verify the payload was issued by this server.
func SignReservation(reservationID, eventID, userID uuid.UUID, secret string) string {
	data := fmt.Sprintf("%s:%s:%s", reservationID.String(), eventID.String(), userID.String())
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func VerifyReservationSignature(reservationID, eventID, userID uuid.UUID, secret, signature string) bool {
	expected := SignReservation(reservationID, eventID, userID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
