package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"manuscript-review-api/services"
)

// SubmitReview stores the caller's evaluation for an accepted assignment.
// Reviews are immutable: a second submission for the same assignment is
// rejected.
func SubmitReview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type SubmitReviewRequest struct {
		Score           int    `json:"score" binding:"required"`
		Recommendation  string `json:"recommendation" binding:"required"`
		CommentToAuthor string `json:"comment_to_author" binding:"required"`
		CommentToEditor string `json:"comment_to_editor"`
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := reviewService.SubmitReview(identity, c.Param("id"), services.SubmitReviewRequest{
		Score:           req.Score,
		Recommendation:  req.Recommendation,
		CommentToAuthor: req.CommentToAuthor,
		CommentToEditor: req.CommentToEditor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"review":  review,
	})
}
