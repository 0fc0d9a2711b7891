package handlers

import (
	"net/http"

	"github.com/EkilibriumTechnologies/jeepadventures/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCarByPlate resolves a scanned plate to a vehicle. This is the entry
// point of the guest flow, so it is public and returns only what the rental
// page needs.
func GetCarByPlate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		plate := c.Param("plate")

		var car models.Car
		if err := db.Where("plate = ?", plate).First(&car).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No vehicle found with that plate"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     car.ID,
			"plate":  car.Plate,
			"status": car.Status,
		})
	}
}
