package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// HQBookingConfirmation is the payload sent to the HQ Rental dispatch system
// after a booking is created. HQ confirmation is best-effort: its failure
// never rolls back or fails the booking.
type HQBookingConfirmation struct {
	BrandID            int     `json:"brand_id"`
	SendPaymentRequest int     `json:"send_payment_request"`
	CustomerEmail      string  `json:"customer_email"`
	CustomerName       string  `json:"customer_name"`
	CustomerPhone      string  `json:"customer_phone"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	VehiclePlate       string  `json:"vehicle_plate"`
	Subtotal           float64 `json:"subtotal"`
	TaxAmount          float64 `json:"tax_amount"`
	TotalAmount        float64 `json:"total_amount"`
	DepositAmount      float64 `json:"deposit_amount"`
}

var hqClient = &http.Client{Timeout: 15 * time.Second}

// ConfirmBookingWithHQ sends the booking confirmation to HQ Rental.
// When HQ credentials are not configured the confirmation is skipped.
func ConfirmBookingWithHQ(confirmation HQBookingConfirmation) error {
	hqAPIURL := os.Getenv("HQ_RENTAL_API_URL")
	hqAPIKey := os.Getenv("HQ_RENTAL_API_KEY")

	if hqAPIURL == "" || hqAPIKey == "" {
		log.Println("⚠️ HQ Rental API credentials not configured. Skipping HQ confirmation.")
		return nil
	}

	body := map[string]interface{}{
		"brand_id":             confirmation.BrandID,
		"send_payment_request": confirmation.SendPaymentRequest,
		"customer": map[string]string{
			"email": confirmation.CustomerEmail,
			"name":  confirmation.CustomerName,
			"phone": confirmation.CustomerPhone,
		},
		"booking": map[string]interface{}{
			"start_date":    confirmation.StartDate,
			"end_date":      confirmation.EndDate,
			"vehicle_plate": confirmation.VehiclePlate,
			"amounts": map[string]float64{
				"subtotal":       confirmation.Subtotal,
				"tax_amount":     confirmation.TaxAmount,
				"total_amount":   confirmation.TotalAmount,
				"deposit_amount": confirmation.DepositAmount,
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode HQ payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, hqAPIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build HQ request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+hqAPIKey)

	resp, err := hqClient.Do(req)
	if err != nil {
		return fmt.Errorf("HQ Rental request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorData struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errorData)
		if errorData.Message == "" {
			errorData.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("HQ Rental API error: %s", errorData.Message)
	}

	log.Println("✅ Booking confirmed with HQ Rental")
	return nil
}
