package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AssignReviewers invites one or more reviewers to a manuscript. Repeating a
// reviewer id yields the existing assignment instead of a duplicate.
func AssignReviewers(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type AssignReviewersRequest struct {
		ReviewerIDs []int  `json:"reviewer_ids" binding:"required"`
		DueDate     string `json:"due_date" binding:"required"` // YYYY-MM-DD
	}

	var req AssignReviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be formatted as YYYY-MM-DD"})
		return
	}

	assignments, err := assignmentService.AssignReviewers(identity, c.Param("id"), req.ReviewerIDs, dueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// RespondToAssignment lets the invited reviewer accept or decline.
func RespondToAssignment(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type RespondRequest struct {
		Response string `json:"response" binding:"required"` // accept|decline
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := strings.ToLower(strings.TrimSpace(req.Response))
	if response != "accept" && response != "decline" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Response must be either 'accept' or 'decline'"})
		return
	}

	assignment, err := assignmentService.RespondToAssignment(identity, c.Param("id"), response == "accept")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"assignment": assignment,
	})
}

// GetMyAssignments lists the caller's review assignments.
func GetMyAssignments(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	assignments, err := assignmentService.ListForReviewer(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetManuscriptAssignments lists all assignments on a manuscript for
// editorial staff.
func GetManuscriptAssignments(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	assignments, err := assignmentService.ListForManuscript(identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assignments": assignments,
		"total":       len(assignments),
	})
}
