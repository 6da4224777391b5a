package services

import (
	"fmt"
	"strings"

	"manuscript-review-api/models"
	"manuscript-review-api/utils"
)

// Lifecycle events. Status is always derived as f(currentStatus, event);
// nothing outside this file decides what the next status is.
const (
	EventSubmit         = "submit"
	EventAssignReviewer = "assign_reviewer"
	EventDecisionAccept = "decision_accept"
	EventDecisionReject = "decision_reject"
	EventDecisionRevise = "decision_revise"
	EventResubmit       = "resubmit"
)

// transitions is the full lifecycle table. ACCEPTED and REJECTED are
// terminal: they have no outgoing edges, so any event from them is rejected.
var transitions = map[string]map[string]string{
	models.StatusDraft: {
		EventSubmit: models.StatusSubmitted,
	},
	models.StatusSubmitted: {
		EventAssignReviewer: models.StatusUnderReview,
		// Decisions are permitted even with zero assigned reviewers.
		EventDecisionAccept: models.StatusAccepted,
		EventDecisionReject: models.StatusRejected,
		EventDecisionRevise: models.StatusRevisionRequired,
	},
	models.StatusUnderReview: {
		EventDecisionAccept: models.StatusAccepted,
		EventDecisionReject: models.StatusRejected,
		EventDecisionRevise: models.StatusRevisionRequired,
	},
	models.StatusRevisionRequired: {
		EventResubmit: models.StatusSubmitted,
	},
}

// NextStatus computes the status an event leads to from the current one.
// Illegal pairs return a typed InvalidTransition error naming both.
func NextStatus(currentStatus, event string) (string, error) {
	events, ok := transitions[currentStatus]
	if !ok {
		return "", invalidTransitionError(currentStatus, event)
	}
	next, ok := events[event]
	if !ok {
		return "", invalidTransitionError(currentStatus, event)
	}
	return next, nil
}

// DecisionEvent maps a decision result to its lifecycle event.
func DecisionEvent(result string) (string, error) {
	switch result {
	case models.DecisionAccept:
		return EventDecisionAccept, nil
	case models.DecisionReject:
		return EventDecisionReject, nil
	case models.DecisionRevise:
		return EventDecisionRevise, nil
	default:
		return "", validationError("result", fmt.Sprintf("unknown decision result '%s'", result))
	}
}

// ValidateForSubmission checks the completeness guard on the
// DRAFT -> SUBMITTED edge: title, abstract, at least one author with a valid
// email, exactly one corresponding author, and at least one review-copy file.
func ValidateForSubmission(m *models.Manuscript) error {
	if strings.TrimSpace(m.Title) == "" {
		return validationError("title", "title is required")
	}
	if strings.TrimSpace(m.Abstract) == "" {
		return validationError("abstract", "abstract is required")
	}
	if len(m.Authors) == 0 {
		return validationError("authors", "at least one author is required")
	}

	corresponding := 0
	for i := range m.Authors {
		author := &m.Authors[i]
		if author.IsCorresponding {
			corresponding++
		}
		if author.User == nil || !utils.ValidateEmail(author.User.Email) {
			return validationError("authors", fmt.Sprintf("author %d has no valid email", author.UserID))
		}
	}
	if corresponding != 1 {
		return validationError("authors", "exactly one corresponding author is required")
	}

	hasBody := false
	for i := range m.Files {
		if m.Files[i].FileKind == models.FileKindManuscript && m.Files[i].DeleteAt == nil {
			hasBody = true
			break
		}
	}
	if !hasBody {
		return validationError("files", "an anonymized manuscript file is required")
	}

	return nil
}

// FormatManuscriptNumber builds the human-readable serial assigned once at
// first submission, e.g. MS-2026-0042.
func FormatManuscriptNumber(year string, sequence int64) string {
	return fmt.Sprintf("MS-%s-%04d", year, sequence)
}
