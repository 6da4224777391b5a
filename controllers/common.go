package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"manuscript-review-api/middleware"
	"manuscript-review-api/services"
)

var (
	repo     = services.NewGormRepository()
	notifier = services.NewDispatcher()

	manuscriptService = services.NewManuscriptService(repo, notifier)
	assignmentService = services.NewAssignmentService(repo, notifier)
	decisionService   = services.NewDecisionService(repo, notifier)
	reviewService     = services.NewReviewService(repo, notifier)
)

// currentIdentity pulls the verified identity set by the auth middleware.
// The bool is false only if a handler was wired outside the protected group.
func currentIdentity(c *gin.Context) (services.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return identity, ok
}

// respondError maps typed service errors onto stable HTTP statuses. The
// error kind travels with the response so clients can branch without
// parsing messages.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case services.KindUnauthorized:
		status = http.StatusUnauthorized
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindValidationFailed:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindInvalidTransition,
		services.KindAlreadyExists,
		services.KindAlreadySubmitted,
		services.KindConflictingWrite:
		status = http.StatusConflict
	}

	body := gin.H{"error": err.Error()}
	if kind != "" {
		body["kind"] = string(kind)
	} else {
		// Internal details stay in the log, not in the response.
		log.Printf("unhandled service error: %v", err)
		body["error"] = "Internal server error"
	}
	c.JSON(status, body)
}
