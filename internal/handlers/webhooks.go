package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
	"gorm.io/gorm"
)

// StripeWebhook receives payment events from Stripe and reconciles them onto
// bookings by payment intent ID. Events that match no booking are
// acknowledged and dropped so Stripe stops retrying them.
func StripeWebhook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Printf("❌ Stripe webhook signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
			return
		}

		switch event.Type {
		case "payment_intent.succeeded":
			handlePaymentIntentEvent(db, event, models.PaymentStatusPaid)
		case "payment_intent.payment_failed":
			handlePaymentIntentEvent(db, event, models.PaymentStatusFailed)
		default:
			log.Printf("Unhandled Stripe event type: %s", event.Type)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func handlePaymentIntentEvent(db *gorm.DB, event stripe.Event, status models.PaymentStatus) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Printf("❌ Failed to parse payment intent from event %s: %v", event.ID, err)
		return
	}

	result := db.Model(&models.Booking{}).
		Where("stripe_payment_intent_id = ?", intent.ID).
		Update("payment_status", status)
	if result.Error != nil {
		log.Printf("❌ Failed to update payment status for intent %s: %v", intent.ID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("⚠️ Stripe event %s references unknown payment intent %s", event.ID, intent.ID)
		return
	}

	log.Printf("✅ Payment status %s recorded for intent %s", status, intent.ID)
}
