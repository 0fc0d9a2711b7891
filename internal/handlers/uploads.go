package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type inspectionUploadInput struct {
	BookingID string `form:"bookingId" binding:"required"`
	Side      string `form:"side" binding:"required"`
}

// UploadInspection stores an entry-inspection photo, appends it to the
// booking's photo history, and confirms the matching unlock-session slot.
func UploadInspection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input inspectionUploadInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID and side are required"})
			return
		}

		if !models.ValidSide(input.Side) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid side. Must be: front, back, left, or right"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, "id = ?", input.BookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}

		side := models.PhotoSide(input.Side)
		markSlotUploading(c.Request.Context(), db, &booking, side)

		result, err := services.UploadInspectionPhoto(file, input.BookingID, input.Side, false)
		if err != nil {
			markSlotFailed(c.Request.Context(), input.BookingID, side)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
			return
		}

		// Entry photos join the booking's photo history at upload time so
		// the exit inspection appends onto them later. Best-effort: the
		// photo itself is already stored.
		booking.PhotosURLs = append(booking.PhotosURLs, result.URL)
		if err := db.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("photos_urls", booking.PhotosURLs).Error; err != nil {
			log.Printf("⚠️ Failed to record inspection photo on booking %s: %v", booking.ID, err)
		}

		markSlotUploaded(c.Request.Context(), input.BookingID, side, result.URL)

		c.JSON(http.StatusOK, gin.H{
			"url":       result.URL,
			"path":      result.Path,
			"side":      input.Side,
			"timestamp": result.Timestamp,
		})
	}
}

// UploadExitInspection stores an exit-inspection photo. Exit photos are kept
// separate from entry photos until finalize appends them to the booking, and
// their filenames carry the exit- marker for downstream provenance.
func UploadExitInspection(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input inspectionUploadInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID and side are required"})
			return
		}

		if !models.ValidSide(input.Side) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid side. Must be: front, back, left, or right"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		result, err := services.UploadInspectionPhoto(file, input.BookingID, input.Side, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":       result.URL,
			"path":      result.Path,
			"side":      input.Side,
			"timestamp": result.Timestamp,
		})
	}
}

// UploadLicense stores a driver's license photo and records its URL on the
// booking, which is what the unlock gate reads as "license verified".
func UploadLicense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.PostForm("bookingId")
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}

		result, err := services.UploadLicensePhoto(file, bookingID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload license photo", "details": err.Error()})
			return
		}

		// The photo is already stored; a failed row update is logged and the
		// URL still returned so the client can retry the association.
		if err := db.Model(&models.Booking{}).Where("id = ?", bookingID).
			Update("guest_license_image_url", result.URL).Error; err != nil {
			log.Printf("⚠️ Failed to record license URL on booking %s: %v", bookingID, err)
		}

		refreshSessionLicense(c.Request.Context(), bookingID)

		c.JSON(http.StatusOK, gin.H{
			"url":  result.URL,
			"path": result.Path,
		})
	}
}

// markSlotUploading loads or starts the unlock session and moves the slot to
// uploading. Session bookkeeping is advisory; failures are logged only.
func markSlotUploading(ctx context.Context, db *gorm.DB, booking *models.Booking, side models.PhotoSide) {
	session, err := services.GetUnlockSession(ctx, booking.ID)
	if err != nil {
		if !services.IsSessionMissing(err) {
			log.Printf("⚠️ Failed to load unlock session for booking %s: %v", booking.ID, err)
			return
		}
		session = models.NewUnlockSession(booking.ID)
	}
	session.LicenseVerified = booking.HasLicenseImage()
	if err := session.StartUpload(side); err != nil {
		log.Printf("⚠️ Unlock session slot %s for booking %s: %v", side, booking.ID, err)
		return
	}
	if err := services.SaveUnlockSession(ctx, session); err != nil {
		log.Printf("⚠️ Failed to save unlock session for booking %s: %v", booking.ID, err)
	}
}

func markSlotUploaded(ctx context.Context, bookingID string, side models.PhotoSide, url string) {
	session, err := services.GetUnlockSession(ctx, bookingID)
	if err != nil {
		log.Printf("⚠️ Failed to load unlock session for booking %s: %v", bookingID, err)
		return
	}
	if err := session.FinishUpload(side, url); err != nil {
		log.Printf("⚠️ Unlock session slot %s for booking %s: %v", side, bookingID, err)
		return
	}
	if err := services.SaveUnlockSession(ctx, session); err != nil {
		log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, err)
	}
}

func markSlotFailed(ctx context.Context, bookingID string, side models.PhotoSide) {
	session, err := services.GetUnlockSession(ctx, bookingID)
	if err != nil {
		log.Printf("⚠️ Failed to load unlock session for booking %s: %v", bookingID, err)
		return
	}
	if err := session.FailUpload(side); err != nil {
		log.Printf("⚠️ Unlock session slot %s for booking %s: %v", side, bookingID, err)
		return
	}
	if err := services.SaveUnlockSession(ctx, session); err != nil {
		log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, err)
	}
}

func refreshSessionLicense(ctx context.Context, bookingID string) {
	session, err := services.GetUnlockSession(ctx, bookingID)
	if err != nil {
		if !services.IsSessionMissing(err) {
			log.Printf("⚠️ Failed to load unlock session for booking %s: %v", bookingID, err)
		}
		return
	}
	session.LicenseVerified = true
	if err := services.SaveUnlockSession(ctx, session); err != nil {
		log.Printf("⚠️ Failed to save unlock session for booking %s: %v", bookingID, err)
	}
}
