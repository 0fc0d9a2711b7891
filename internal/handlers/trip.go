package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FinalizeTripInput struct {
	ExitPhotos []string `json:"exitPhotos" binding:"required"`
}

// FinalizeTrip closes out a rental: the four exit-inspection photos are
// appended to the booking's photo history (entry photos are never replaced),
// the end time is stamped, and the car is released back to the fleet.
func FinalizeTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")

		var input FinalizeTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Exit photos are required",
			})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, "id = ?", bookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
			return
		}

		if err := booking.AppendExitPhotos(input.ExitPhotos); err != nil {
			if errors.Is(err, models.ErrIncompletePhotoSet) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   "Exactly 4 exit photos are required (front, back, left, right)",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}

		endTime := time.Now().UTC()
		booking.EndTime = &endTime

		if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Updates(map[string]interface{}{
				"photos_urls": booking.PhotosURLs,
				"end_time":    booking.EndTime,
			}).Error; err != nil {
			log.Printf("❌ Failed to finalize booking %s: %v", booking.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to finalize trip: " + err.Error(),
			})
			return
		}

		// Release the car. Best-effort: the trip record is already closed and
		// fleet status can be corrected from the ops side.
		if err := db.Model(&models.Car{}).Where("id = ?", booking.CarID).
			Update("status", models.CarStatusAvailable).Error; err != nil {
			log.Printf("⚠️ Failed to release car %s after booking %s: %v", booking.CarID, booking.ID, err)
		}

		// The unlock session has served its purpose.
		if err := services.DeleteUnlockSession(c.Request.Context(), booking.ID); err != nil {
			log.Printf("⚠️ Failed to drop unlock session for booking %s: %v", booking.ID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"bookingId": booking.ID,
		})
	}
}
