package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func appBaseURL() string {
	if base := os.Getenv("BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

// GetBooking returns a booking with its car for the guest status page.
// A valid access token flips tokenValid; a wrong token is rejected and the
// booking data withheld. Without a token the booking is still readable with
// tokenValid=false (guests land here straight from checkout).
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		token := c.Query("token")

		var booking models.Booking
		if err := db.Preload("Car").First(&booking, "id = ?", bookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		tokenValid, err := booking.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Invalid access token. Please use the link from your email.",
			})
			return
		}

		response := gin.H{
			"booking":    booking,
			"tokenValid": tokenValid,
		}
		c.JSON(http.StatusOK, response)
	}
}

// issueAccessToken generates a fresh access token for a booking, persists it
// in metadata (overwriting any previous token), and emails the access link.
// The token is durable before the email goes out, so a send failure is
// logged but never fails the issuance.
func issueAccessToken(db *gorm.DB, bookingID string) (string, time.Time, error) {
	var booking models.Booking
	if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
		return "", time.Time{}, err
	}

	if booking.GuestEmail == "" {
		return "", time.Time{}, models.ErrNoGuestEmail
	}

	token := uuid.NewString()
	issuedAt := time.Now().UTC()
	booking.SetAccessToken(token, issuedAt)

	if err := db.Model(&models.Booking{}).Where("id = ?", bookingID).
		Update("metadata", booking.Metadata).Error; err != nil {
		return "", time.Time{}, err
	}

	accessLink := fmt.Sprintf("%s/booking/%s?token=%s", appBaseURL(), bookingID, token)
	if err := utils.SendAccessLinkEmail(booking.GuestEmail, accessLink, bookingID); err != nil {
		log.Printf("⚠️ Failed to send access link email for booking %s: %v", bookingID, err)
	}

	return token, issuedAt, nil
}

// GenerateAccessToken issues the passwordless trip link for a booking.
// Called when the vehicle is successfully unlocked, and available directly
// so a guest can request the link again.
func GenerateAccessToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")

		_, issuedAt, err := issueAccessToken(db, bookingID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			case errors.Is(err, models.ErrNoGuestEmail):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Guest email not found for this booking"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save access token", "details": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Access token generated and email sent",
			"tokenCreatedAt": issuedAt.Format(time.RFC3339),
		})
	}
}
