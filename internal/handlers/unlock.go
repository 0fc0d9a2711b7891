package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadUnlockSession returns the booking's unlock session, creating one if
// none exists, and refreshes the license flag from the booking row so the
// gate never trusts a stale session over the database.
func loadUnlockSession(c *gin.Context, db *gorm.DB, booking *models.Booking) (*models.UnlockSession, error) {
	ctx := c.Request.Context()

	session, err := services.GetUnlockSession(ctx, booking.ID)
	if err != nil {
		if !services.IsSessionMissing(err) {
			return nil, err
		}
		session = models.NewUnlockSession(booking.ID)
	}

	session.LicenseVerified = booking.HasLicenseImage()
	return session, nil
}

func unlockStateResponse(session *models.UnlockSession) gin.H {
	return gin.H{
		"bookingId":       session.BookingID,
		"state":           session.State,
		"licenseVerified": session.LicenseVerified,
		"slots":           session.Slots,
		"canUnlock":       session.CanUnlock(),
		"failureReason":   session.FailureReason,
	}
}

// GetUnlockState returns the unlock gate for a booking: license flag, the
// four photo slots, and whether the unlock action is currently enabled.
func GetUnlockState(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")

		var booking models.Booking
		if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		session, err := loadUnlockSession(c, db, &booking)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load unlock state", "details": err.Error()})
			return
		}

		if err := services.SaveUnlockSession(c.Request.Context(), session); err != nil {
			log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, err)
		}

		c.JSON(http.StatusOK, unlockStateResponse(session))
	}
}

// ResetPhotoSlot clears a captured photo slot so the guest can retake it.
func ResetPhotoSlot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		side := c.Param("side")

		if !models.ValidSide(side) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid side. Must be: front, back, left, or right"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		session, err := loadUnlockSession(c, db, &booking)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load unlock state", "details": err.Error()})
			return
		}

		if err := session.ClearSlot(models.PhotoSide(side)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := services.SaveUnlockSession(c.Request.Context(), session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save unlock state", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, unlockStateResponse(session))
	}
}

// UnlockVehicle runs the gated unlock: prerequisites are re-checked server
// side, the vehicle-control call is made, and on success the passwordless
// access token is issued. The unlock outcome stands on its own; access-token
// issuance is a follow-up whose failure is reported but reverts nothing.
func UnlockVehicle(db *gorm.DB, controller services.VehicleController) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")

		var booking models.Booking
		if err := db.Preload("Car").First(&booking, "id = ?", bookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		ctx := c.Request.Context()

		session, err := loadUnlockSession(c, db, &booking)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load unlock state", "details": err.Error()})
			return
		}

		if err := session.BeginUnlock(); err != nil {
			switch {
			case errors.Is(err, models.ErrUnlockInProgress):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, models.ErrAlreadyUnlocked):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		if err := services.SaveUnlockSession(ctx, session); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save unlock state", "details": err.Error()})
			return
		}

		vehicleID := booking.CarID
		if booking.Car != nil && booking.Car.SmartcarID != "" {
			vehicleID = booking.Car.SmartcarID
		}

		if err := controller.Unlock(ctx, vehicleID); err != nil {
			log.Printf("❌ Vehicle unlock failed for booking %s: %v", bookingID, err)
			session.FailUnlock(err.Error())
			if saveErr := services.SaveUnlockSession(ctx, session); saveErr != nil {
				log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, saveErr)
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error":   "Vehicle unlock failed. Please try again.",
				"state":   session.State,
			})
			return
		}

		session.CompleteUnlock()
		if err := services.SaveUnlockSession(ctx, session); err != nil {
			log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, err)
		}

		response := gin.H{
			"success": true,
			"message": "Vehicle unlocked",
			"state":   session.State,
		}

		if _, _, err := issueAccessToken(db, bookingID); err != nil {
			log.Printf("⚠️ Access token issuance failed after unlock of booking %s: %v", bookingID, err)
			response["accessTokenSent"] = false
		} else {
			response["accessTokenSent"] = true
		}

		c.JSON(http.StatusOK, response)
	}
}
