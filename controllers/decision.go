package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecordDecision appends an editorial decision and moves the manuscript to
// the matching status. Reserved for MAKE_DECISION holders; the route group
// enforces the capability, the service re-checks it.
func RecordDecision(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	type RecordDecisionRequest struct {
		Result string `json:"result" binding:"required"` // ACCEPT|REJECT|REVISE
		Note   string `json:"note"`
	}

	var req RecordDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := decisionService.RecordDecision(identity, c.Param("id"), req.Result, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Decision recorded",
		"decision": decision,
	})
}

// GetDecisionHistory returns all decisions for a manuscript, newest first.
func GetDecisionHistory(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	decisions, err := decisionService.GetDecisionHistory(identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"decisions": decisions,
		"total":     len(decisions),
	})
}

// GetCurrentDecision returns the most recent decision, the single source of
// truth for the manuscript's outcome.
func GetCurrentDecision(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	decision, err := decisionService.GetCurrentDecision(identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"decision": decision,
	})
}
