package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/utils"
)

var knownRoles = map[string]bool{
	models.RoleAuthor:      true,
	models.RoleReviewer:    true,
	models.RoleEditor:      true,
	models.RoleChiefEditor: true,
	models.RoleAdmin:       true,
}

// GetUsers lists users for administration, optionally filtered by role.
func GetUsers(c *gin.Context) {
	query := config.DB.Preload("Roles").Where("users.delete_at IS NULL")

	if role := c.Query("role"); role != "" {
		if !knownRoles[role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role filter"})
			return
		}
		query = query.
			Joins("JOIN user_roles ur ON ur.user_id = users.user_id").
			Joins("JOIN roles r ON r.role_id = ur.role_id").
			Where("r.role = ?", role)
	}

	var users []models.User
	if err := query.Order("users.user_lname ASC, users.user_fname ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"total":   len(users),
	})
}

// CreateUser registers a new user with an initial role set.
func CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		UserFname string   `json:"user_fname" binding:"required"`
		UserLname string   `json:"user_lname" binding:"required"`
		Email     string   `json:"email" binding:"required,email"`
		Password  string   `json:"password" binding:"required"`
		Roles     []string `json:"roles" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if valid, message := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}
	for _, role := range req.Roles {
		if !knownRoles[role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + role})
			return
		}
	}

	var existing int64
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname: utils.SanitizeInput(req.UserFname),
		UserLname: utils.SanitizeInput(req.UserLname),
		Email:     req.Email,
		Password:  hashed,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return replaceUserRoles(tx, user.UserID, req.Roles)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	config.DB.Preload("Roles").First(&user, user.UserID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
	})
}

// UpdateUserRoles replaces a user's role set.
func UpdateUserRoles(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	type UpdateRolesRequest struct {
		Roles []string `json:"roles" binding:"required"`
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Roles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one role is required"})
		return
	}
	for _, role := range req.Roles {
		if !knownRoles[role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + role})
			return
		}
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return replaceUserRoles(tx, userID, req.Roles)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roles"})
		return
	}

	config.DB.Preload("Roles").First(&user, userID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// DeactivateUser disables an account. Users are never hard-deleted; their
// authorship and review history must stay intact.
func DeactivateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Updates(map[string]interface{}{
			"is_active": false,
			"update_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deactivated",
	})
}

func replaceUserRoles(tx *gorm.DB, userID int, roleNames []string) error {
	for _, roleName := range roleNames {
		var role models.Role
		if err := tx.Where("role = ?", roleName).First(&role).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserRole{UserID: userID, RoleID: role.RoleID}).Error; err != nil {
			return err
		}
	}
	return nil
}
