package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
)

// GetTracks lists active conference tracks.
func GetTracks(c *gin.Context) {
	var tracks []models.Track
	if err := config.DB.
		Where("is_active = ? AND delete_at IS NULL", true).
		Order("track_name ASC").
		Find(&tracks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tracks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tracks":  tracks,
	})
}

// GetTrack returns one track by id.
func GetTrack(c *gin.Context) {
	trackID, err := strconv.Atoi(c.Param("id"))
	if err != nil || trackID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	var track models.Track
	if err := config.DB.
		Where("track_id = ? AND delete_at IS NULL", trackID).
		First(&track).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"track":   track,
	})
}

// GetYears lists conference years, newest first.
func GetYears(c *gin.Context) {
	var years []models.ConferenceYear
	if err := config.DB.
		Where("delete_at IS NULL").
		Order("year DESC").
		Find(&years).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch years"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"years":   years,
	})
}
