package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
)

// GetNotifications lists the caller's in-app notifications, newest first.
func GetNotifications(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limit := 20
	offset := 0
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("offset"))); err == nil && v >= 0 {
		offset = v
	}

	query := config.DB.Model(&models.Notification{}).Where("user_id = ?", identity.UserID)
	if unreadOnly == "1" || strings.EqualFold(unreadOnly, "true") {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	var notifications []models.Notification
	if err := query.Order("create_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"total":         total,
	})
}

// GetNotificationCounter returns the unread count for badge rendering.
func GetNotificationCounter(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	var unread int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", identity.UserID, false).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"unread":  unread,
	})
}

// MarkNotificationRead marks a single notification as read.
func MarkNotificationRead(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil || notificationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, identity.UserID).
		Updates(map[string]interface{}{
			"is_read":   true,
			"update_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks everything unread as read.
func MarkAllNotificationsRead(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", identity.UserID, false).
		Updates(map[string]interface{}{
			"is_read":   true,
			"update_at": now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
