package services

import (
	"testing"

	"manuscript-review-api/models"
)

func validReview() SubmitReviewRequest {
	return SubmitReviewRequest{
		Score:           7,
		Recommendation:  models.RecommendMinorRevision,
		CommentToAuthor: "Tighten section 3 and rerun the NUMA experiment.",
		CommentToEditor: "Borderline, lean accept.",
	}
}

// newReviewFixture leaves one PENDING assignment for f.reviewer on f.m.
func newReviewFixture(t *testing.T) (*assignmentFixture, *ReviewService, string) {
	t.Helper()
	f := newAssignmentFixture(t)
	assignments, err := f.svc.AssignReviewers(f.editor, f.m.ManuscriptID, []int{f.reviewer.UserID}, f.dueDate())
	if err != nil {
		t.Fatalf("AssignReviewers: %v", err)
	}
	return f, NewReviewService(f.repo, nil), assignments[0].AssignmentID
}

func TestSubmitReviewRequiresAcceptedAssignment(t *testing.T) {
	f, reviews, assignmentID := newReviewFixture(t)
	reviewerID := identityFor(f.reviewer)

	_, err := reviews.SubmitReview(reviewerID, assignmentID, validReview())
	if !IsKind(err, KindForbidden) {
		t.Fatalf("pending assignment: error kind = %q, want %q", KindOf(err), KindForbidden)
	}

	if _, err := f.svc.RespondToAssignment(reviewerID, assignmentID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}
	if _, err := reviews.SubmitReview(reviewerID, assignmentID, validReview()); err != nil {
		t.Fatalf("accepted assignment: %v", err)
	}
}

func TestSubmitReviewOwnership(t *testing.T) {
	f, reviews, assignmentID := newReviewFixture(t)

	if _, err := reviews.SubmitReview(f.author, assignmentID, validReview()); !IsKind(err, KindForbidden) {
		t.Errorf("author submitting review: error kind = %q, want %q", KindOf(err), KindForbidden)
	}

	other := f.repo.addUser("other@example.edu", models.RoleReviewer)
	if _, err := reviews.SubmitReview(identityFor(other), assignmentID, validReview()); !IsKind(err, KindForbidden) {
		t.Errorf("foreign reviewer: error kind = %q, want %q", KindOf(err), KindForbidden)
	}
}

func TestSubmitReviewOncePerAssignment(t *testing.T) {
	f, reviews, assignmentID := newReviewFixture(t)
	reviewerID := identityFor(f.reviewer)
	if _, err := f.svc.RespondToAssignment(reviewerID, assignmentID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}

	if _, err := reviews.SubmitReview(reviewerID, assignmentID, validReview()); err != nil {
		t.Fatalf("first review: %v", err)
	}

	second := validReview()
	second.Score = 2
	second.Recommendation = models.RecommendReject
	_, err := reviews.SubmitReview(reviewerID, assignmentID, second)
	if !IsKind(err, KindAlreadySubmitted) {
		t.Fatalf("second review: error kind = %q, want %q", KindOf(err), KindAlreadySubmitted)
	}

	// The original evaluation stands untouched.
	stored, err := f.repo.GetReviewByAssignment(assignmentID)
	if err != nil || stored == nil {
		t.Fatalf("GetReviewByAssignment: %v, %v", stored, err)
	}
	if stored.Score != 7 || stored.Recommendation != models.RecommendMinorRevision {
		t.Errorf("stored review mutated: %+v", stored)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	f, reviews, assignmentID := newReviewFixture(t)
	reviewerID := identityFor(f.reviewer)
	if _, err := f.svc.RespondToAssignment(reviewerID, assignmentID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SubmitReviewRequest)
	}{
		{"score too low", func(r *SubmitReviewRequest) { r.Score = 0 }},
		{"score too high", func(r *SubmitReviewRequest) { r.Score = 11 }},
		{"unknown recommendation", func(r *SubmitReviewRequest) { r.Recommendation = "BURN_IT" }},
		{"empty author comment", func(r *SubmitReviewRequest) { r.CommentToAuthor = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReview()
			tt.mutate(&req)
			_, err := reviews.SubmitReview(reviewerID, assignmentID, req)
			if !IsKind(err, KindValidationFailed) {
				t.Errorf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
			}
		})
	}
}

func TestSubmitReviewDoesNotMoveStatus(t *testing.T) {
	f, reviews, assignmentID := newReviewFixture(t)
	reviewerID := identityFor(f.reviewer)
	if _, err := f.svc.RespondToAssignment(reviewerID, assignmentID, true); err != nil {
		t.Fatalf("accept assignment: %v", err)
	}
	if _, err := reviews.SubmitReview(reviewerID, assignmentID, validReview()); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	m, err := f.repo.GetManuscript(f.m.ManuscriptID)
	if err != nil {
		t.Fatalf("GetManuscript: %v", err)
	}
	if m.Status != models.StatusUnderReview {
		t.Errorf("review moved manuscript to %q, want %q", m.Status, models.StatusUnderReview)
	}
}
