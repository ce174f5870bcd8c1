package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/isdelr/gymdiary/internal/services"
)

// PaymentPayload is the membership payment form.
type PaymentPayload struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardHolderName string `json:"cardHolderName"`
}

// ProcessPayment validates the payment form. Nothing is charged.
func ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var payload PaymentPayload

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		payload = PaymentPayload{
			CardNumber:     r.PostFormValue("cardNumber"),
			ExpiryDate:     r.PostFormValue("expiryDate"),
			CVV:            r.PostFormValue("cvv"),
			CardHolderName: r.PostFormValue("cardHolderName"),
		}
	}

	err := services.ValidatePayment(services.PaymentInput{
		CardNumber:     payload.CardNumber,
		ExpiryDate:     payload.ExpiryDate,
		CVV:            payload.CVV,
		CardHolderName: payload.CardHolderName,
	})
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, userMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Payment processed successfully"})
}
