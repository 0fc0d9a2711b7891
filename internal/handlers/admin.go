package handlers

import (
	"net/http"
	"strconv"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/EkilibriumTechnologies/jeepadventures/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminLoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateCarInput struct {
	Plate      string `json:"plate" binding:"required"`
	SmartcarID string `json:"smartcarId"`
}

type UpdateCarStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// AdminLogin authenticates an ops user and issues a JWT.
func AdminLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AdminLoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		var user models.User
		if err := db.Where("email = ? AND role = ?",
			models.NormalizeEmail(input.Email), models.UserRoleAdmin).
			First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"role":      user.Role,
			},
		})
	}
}

// ListBookings returns the booking ledger for the ops dashboard, newest
// first, with its car joined.
func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var total int64
		if err := db.Model(&models.Booking{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		var bookings []models.Booking
		if err := db.Preload("Car").
			Order("created_at DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&bookings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"bookings": bookings,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	}
}

// ListCars returns the fleet.
func ListCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cars []models.Car
		if err := db.Order("plate ASC").Find(&cars).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cars"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cars": cars})
	}
}

// CreateCar registers a vehicle in the fleet.
func CreateCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateCarInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Plate is required"})
			return
		}

		car := models.Car{
			Plate:      input.Plate,
			SmartcarID: input.SmartcarID,
			Status:     models.CarStatusAvailable,
		}
		if err := db.Create(&car).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create car: " + err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"car": car})
	}
}

// UpdateCarStatus flips a car between available and rented, for manual fleet
// corrections when a best-effort status update was missed.
func UpdateCarStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		plate := c.Param("plate")

		var input UpdateCarStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
			return
		}

		status := models.CarStatus(input.Status)
		if status != models.CarStatusAvailable && status != models.CarStatusRented {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be: available or rented"})
			return
		}

		result := db.Model(&models.Car{}).Where("plate = ?", plate).Update("status", status)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update car status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No vehicle found with that plate"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "plate": plate, "status": status})
	}
}
