package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SendOTPInput struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPInput struct {
	Email   string `json:"email" binding:"required,email"`
	OTPCode string `json:"otpCode" binding:"required"`
}

type CheckUserInput struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOTP generates a 6-digit code, stores it, and emails it to the guest.
func SendOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SendOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email is required"})
			return
		}

		email := models.NormalizeEmail(input.Email)

		otpCode, err := utils.GenerateOTP()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate code"})
			return
		}

		// Invalidate any existing codes for this email. Best-effort: a
		// failure here must not block issuing the new code.
		if err := db.Model(&models.OTPCode{}).
			Where("email = ? AND used = ?", email, false).
			Update("used", true).Error; err != nil {
			log.Printf("⚠️ Could not invalidate existing OTP codes for %s: %v", email, err)
		}

		record := models.OTPCode{
			Email:     email,
			Code:      otpCode,
			ExpiresAt: time.Now().Add(models.OTPExpiration),
			Used:      false,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error storing OTP: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to generate code: " + err.Error(),
			})
			return
		}

		// Email failure is a hard error for issuance, even though the code
		// stays persisted: a guest who learns it out-of-band can still use it.
		if err := utils.SendOTPEmail(input.Email, otpCode); err != nil {
			log.Printf("❌ Failed to send OTP email to %s: %v", input.Email, err)
			response := gin.H{
				"success": false,
				"error":   "Failed to send the email: " + err.Error(),
			}
			if gin.Mode() != gin.ReleaseMode {
				response["debug_code"] = otpCode
			}
			c.JSON(http.StatusInternalServerError, response)
			return
		}

		response := gin.H{
			"success": true,
			"message": "Code sent. Check your email.",
		}
		if gin.Mode() != gin.ReleaseMode {
			response["debug_code"] = otpCode
		}
		c.JSON(http.StatusOK, response)
	}
}

// VerifyOTP checks a submitted code and marks it used on success.
func VerifyOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VerifyOTPInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and OTP code are required"})
			return
		}

		email := models.NormalizeEmail(input.Email)

		// Most recent valid code wins if duplicates exist.
		var record models.OTPCode
		if err := db.Where("email = ? AND code = ? AND used = ? AND expires_at > ?",
			email, input.OTPCode, false, time.Now()).
			Order("created_at DESC").
			First(&record).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired code"})
			return
		}

		if err := record.MarkAsUsed(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to mark code as used"})
			return
		}

		// A registered account is optional for guests; report it if present.
		var user models.User
		userID := ""
		if err := db.Where("email = ?", email).First(&user).Error; err == nil {
			userID = user.ID
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"userId":  userID,
		})
	}
}

// CheckUser reports whether a registered account exists for an email.
func CheckUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"exists": false, "error": "Email is required"})
			return
		}

		var count int64
		if err := db.Model(&models.User{}).
			Where("email = ?", models.NormalizeEmail(input.Email)).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"exists": false, "error": "Failed to check user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"exists": count > 0})
	}
}
