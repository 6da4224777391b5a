package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"manuscript-review-api/models"
)

// ReviewService collects reviews against accepted assignments. Submitting a
// review never touches the manuscript status; only an editorial decision
// does that.
type ReviewService struct {
	repo     ManuscriptRepository
	notifier Notifier
}

func NewReviewService(repo ManuscriptRepository, notifier Notifier) *ReviewService {
	return &ReviewService{repo: repo, notifier: notifier}
}

// SubmitReviewRequest carries one reviewer evaluation.
type SubmitReviewRequest struct {
	Score           int
	Recommendation  string
	CommentToAuthor string
	CommentToEditor string
}

var validRecommendations = map[string]bool{
	models.RecommendAccept:        true,
	models.RecommendMinorRevision: true,
	models.RecommendMajorRevision: true,
	models.RecommendReject:        true,
}

// SubmitReview stores exactly one review per assignment. The caller must own
// the assignment and have accepted it; a second submission is rejected, not
// overwritten.
func (s *ReviewService) SubmitReview(identity Identity, assignmentID string, req SubmitReviewRequest) (*models.Review, error) {
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
	if assignment.Status != models.AssignmentAccepted {
		return nil, forbiddenError(fmt.Sprintf(
			"review requires an accepted assignment, assignment is '%s'", assignment.Status))
	}

	existing, err := s.repo.GetReviewByAssignment(assignmentID)
	if err != nil {
		return nil, internalError("failed to check existing review", err)
	}
	if existing != nil {
		return nil, alreadySubmittedError("a review was already submitted for this assignment")
	}

	if req.Score < 1 || req.Score > 10 {
		return nil, validationError("score", "score must be between 1 and 10")
	}
	if !validRecommendations[req.Recommendation] {
		return nil, validationError("recommendation", fmt.Sprintf("unknown recommendation '%s'", req.Recommendation))
	}
	if strings.TrimSpace(req.CommentToAuthor) == "" {
		return nil, validationError("comment_to_author", "a comment to the authors is required")
	}

	review := &models.Review{
		ReviewID:        uuid.NewString(),
		AssignmentID:    assignmentID,
		Score:           req.Score,
		Recommendation:  req.Recommendation,
		CommentToAuthor: strings.TrimSpace(req.CommentToAuthor),
		CommentToEditor: strings.TrimSpace(req.CommentToEditor),
		SubmittedAt:     time.Now(),
	}
	if err := s.repo.CreateReview(review); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if m, mErr := s.repo.GetManuscript(assignment.ManuscriptID); mErr == nil {
			s.notifier.ReviewSubmitted(m, assignment)
		}
	}
	return review, nil
}
