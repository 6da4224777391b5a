package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"manuscript-review-api/models"
)

// AssignmentService manages reviewer assignments and their accept/decline
// sub-states. The SUBMITTED -> UNDER_REVIEW transition fires only on a
// manuscript's first assignment; later assignments join an already running
// review round.
type AssignmentService struct {
	repo     ManuscriptRepository
	notifier Notifier
}

func NewAssignmentService(repo ManuscriptRepository, notifier Notifier) *AssignmentService {
	return &AssignmentService{repo: repo, notifier: notifier}
}

// AssignReviewers creates PENDING assignments for the given reviewers. The
// call is idempotent per (manuscript, reviewer): an existing non-declined
// assignment is returned as-is instead of being duplicated.
func (s *AssignmentService) AssignReviewers(identity Identity, manuscriptID string, reviewerIDs []int, dueDate time.Time) ([]models.ReviewAssignment, error) {
	if err := Authorize(identity, CapAssignReviewers); err != nil {
		return nil, err
	}
	if len(reviewerIDs) == 0 {
		return nil, validationError("reviewer_ids", "at least one reviewer is required")
	}

	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusSubmitted && m.Status != models.StatusUnderReview {
		return nil, invalidTransitionError(m.Status, EventAssignReviewer)
	}

	currentStatus := m.Status
	now := time.Now()
	results := make([]models.ReviewAssignment, 0, len(reviewerIDs))
	var created []models.ReviewAssignment

	for _, reviewerID := range reviewerIDs {
		existing, err := s.repo.FindActiveAssignment(manuscriptID, reviewerID)
		if err != nil {
			return nil, internalError("failed to check existing assignment", err)
		}
		if existing != nil {
			results = append(results, *existing)
			continue
		}

		reviewer, err := s.repo.GetUser(reviewerID)
		if err != nil {
			return nil, err
		}
		if !reviewer.HasRole(models.RoleReviewer) {
			return nil, validationError("reviewer_ids", fmt.Sprintf("user %d does not hold the REVIEWER role", reviewerID))
		}
		if m.HasAuthor(reviewerID) {
			return nil, validationError("reviewer_ids", fmt.Sprintf("user %d co-authors this manuscript", reviewerID))
		}

		assignment := models.ReviewAssignment{
			AssignmentID: uuid.NewString(),
			ManuscriptID: manuscriptID,
			ReviewerID:   reviewerID,
			Status:       models.AssignmentPending,
			DueDate:      dueDate,
			CreatedAt:    now,
		}

		// The lifecycle fires once, alongside the first assignment ever
		// created for this manuscript, in the same transaction.
		var change *StatusChange
		if currentStatus == models.StatusSubmitted {
			newStatus, err := NextStatus(currentStatus, EventAssignReviewer)
			if err != nil {
				return nil, err
			}
			change = &StatusChange{
				ManuscriptID: manuscriptID,
				FromStatus:   currentStatus,
				ToStatus:     newStatus,
				Event:        EventAssignReviewer,
				ChangedBy:    identity.UserID,
				Timestamp:    now,
			}
		}

		if err := s.repo.CreateAssignment(&assignment, change); err != nil {
			return nil, err
		}
		if change != nil {
			currentStatus = change.ToStatus
		}
		results = append(results, assignment)
		created = append(created, assignment)
	}

	if s.notifier != nil && len(created) > 0 {
		s.notifier.ReviewersAssigned(m, created)
	}
	return results, nil
}

// RespondToAssignment lets the assigned reviewer accept or decline. The
// sub-state machine admits PENDING -> ACCEPTED and PENDING -> DECLINED only.
func (s *AssignmentService) RespondToAssignment(identity Identity, assignmentID string, accept bool) (*models.ReviewAssignment, error) {
	if err := Authorize(identity, CapSubmitReview); err != nil {
		return nil, err
	}

	assignment, err := s.repo.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.ReviewerID != identity.UserID {
		return nil, forbiddenError("assignment belongs to another reviewer")
	}
	if assignment.Status != models.AssignmentPending {
		return nil, invalidTransitionError(assignment.Status, "respond")
	}

	newStatus := models.AssignmentDeclined
	if accept {
		newStatus = models.AssignmentAccepted
	}
	if err := s.repo.UpdateAssignmentStatus(assignmentID, models.AssignmentPending, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.AssignmentResponded(updated)
	}
	return updated, nil
}

// ListForReviewer returns the caller's own assignments.
func (s *AssignmentService) ListForReviewer(identity Identity) ([]models.ReviewAssignment, error) {
	if err := Authorize(identity, CapSubmitReview); err != nil {
		return nil, err
	}
	return s.repo.ListAssignmentsByReviewer(identity.UserID)
}

// ListForManuscript returns all assignments for editors.
func (s *AssignmentService) ListForManuscript(identity Identity, manuscriptID string) ([]models.ReviewAssignment, error) {
	if err := Authorize(identity, CapViewAllSubmissions); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetManuscript(manuscriptID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignmentsByManuscript(manuscriptID)
}
