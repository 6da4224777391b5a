package services

import (
	"strings"
	"testing"
	"time"

	"manuscript-review-api/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name          string
		currentStatus string
		event         string
		wantStatus    string
		wantErr       bool
	}{
		{"submit draft", models.StatusDraft, EventSubmit, models.StatusSubmitted, false},
		{"assign from submitted", models.StatusSubmitted, EventAssignReviewer, models.StatusUnderReview, false},
		{"accept from submitted", models.StatusSubmitted, EventDecisionAccept, models.StatusAccepted, false},
		{"reject from submitted", models.StatusSubmitted, EventDecisionReject, models.StatusRejected, false},
		{"revise from submitted", models.StatusSubmitted, EventDecisionRevise, models.StatusRevisionRequired, false},
		{"accept from under review", models.StatusUnderReview, EventDecisionAccept, models.StatusAccepted, false},
		{"reject from under review", models.StatusUnderReview, EventDecisionReject, models.StatusRejected, false},
		{"revise from under review", models.StatusUnderReview, EventDecisionRevise, models.StatusRevisionRequired, false},
		{"resubmit after revision", models.StatusRevisionRequired, EventResubmit, models.StatusSubmitted, false},

		{"submit twice", models.StatusSubmitted, EventSubmit, "", true},
		{"decide on draft", models.StatusDraft, EventDecisionAccept, "", true},
		{"assign on draft", models.StatusDraft, EventAssignReviewer, "", true},
		{"assign during revision", models.StatusRevisionRequired, EventAssignReviewer, "", true},
		{"submit from revision without resubmit", models.StatusRevisionRequired, EventDecisionAccept, "", true},
		{"accepted is terminal", models.StatusAccepted, EventDecisionReject, "", true},
		{"rejected is terminal", models.StatusRejected, EventResubmit, "", true},
		{"unknown status", "ARCHIVED", EventSubmit, "", true},
		{"unknown event", models.StatusSubmitted, "publish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.currentStatus, tt.event)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextStatus(%q, %q) = %q, want error", tt.currentStatus, tt.event, got)
				}
				if !IsKind(err, KindInvalidTransition) {
					t.Fatalf("NextStatus(%q, %q) error kind = %q, want %q", tt.currentStatus, tt.event, KindOf(err), KindInvalidTransition)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextStatus(%q, %q) unexpected error: %v", tt.currentStatus, tt.event, err)
			}
			if got != tt.wantStatus {
				t.Errorf("NextStatus(%q, %q) = %q, want %q", tt.currentStatus, tt.event, got, tt.wantStatus)
			}
		})
	}
}

func TestDecisionEvent(t *testing.T) {
	tests := []struct {
		result    string
		wantEvent string
		wantErr   bool
	}{
		{models.DecisionAccept, EventDecisionAccept, false},
		{models.DecisionReject, EventDecisionReject, false},
		{models.DecisionRevise, EventDecisionRevise, false},
		{"WITHDRAW", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := DecisionEvent(tt.result)
		if tt.wantErr {
			if err == nil {
				t.Errorf("DecisionEvent(%q) = %q, want error", tt.result, got)
			} else if !IsKind(err, KindValidationFailed) {
				t.Errorf("DecisionEvent(%q) error kind = %q, want %q", tt.result, KindOf(err), KindValidationFailed)
			}
			continue
		}
		if err != nil {
			t.Errorf("DecisionEvent(%q) unexpected error: %v", tt.result, err)
		} else if got != tt.wantEvent {
			t.Errorf("DecisionEvent(%q) = %q, want %q", tt.result, got, tt.wantEvent)
		}
	}
}

func submittableManuscript() *models.Manuscript {
	return &models.Manuscript{
		ManuscriptID: "m-1",
		Title:        "Cache Coherence at Scale",
		Abstract:     "We measure coherence traffic.",
		Status:       models.StatusDraft,
		Authors: []models.ManuscriptAuthor{
			{UserID: 1, AuthorOrder: 1, IsCorresponding: true, User: &models.User{UserID: 1, Email: "ada@example.edu"}},
			{UserID: 2, AuthorOrder: 2, User: &models.User{UserID: 2, Email: "grace@example.edu"}},
		},
		Files: []models.ManuscriptFile{
			{FileID: "f-1", FileKind: models.FileKindManuscript},
		},
	}
}

func TestValidateForSubmission(t *testing.T) {
	t.Run("complete draft passes", func(t *testing.T) {
		if err := ValidateForSubmission(submittableManuscript()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty title names the field", func(t *testing.T) {
		m := submittableManuscript()
		m.Title = "   "
		err := ValidateForSubmission(m)
		if !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
		if !strings.Contains(err.Error(), "title") {
			t.Errorf("error %q does not name the title field", err.Error())
		}
	})

	t.Run("missing abstract", func(t *testing.T) {
		m := submittableManuscript()
		m.Abstract = ""
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})

	t.Run("no authors", func(t *testing.T) {
		m := submittableManuscript()
		m.Authors = nil
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})

	t.Run("invalid author email", func(t *testing.T) {
		m := submittableManuscript()
		m.Authors[1].User.Email = "not-an-email"
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})

	t.Run("two corresponding authors", func(t *testing.T) {
		m := submittableManuscript()
		m.Authors[1].IsCorresponding = true
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})

	t.Run("no manuscript file", func(t *testing.T) {
		m := submittableManuscript()
		m.Files = []models.ManuscriptFile{{FileID: "f-2", FileKind: models.FileKindTitlePage}}
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})

	t.Run("deleted manuscript file does not count", func(t *testing.T) {
		m := submittableManuscript()
		now := time.Now()
		m.Files[0].DeleteAt = &now
		if err := ValidateForSubmission(m); !IsKind(err, KindValidationFailed) {
			t.Fatalf("error kind = %q, want %q", KindOf(err), KindValidationFailed)
		}
	})
}

func TestFormatManuscriptNumber(t *testing.T) {
	if got := FormatManuscriptNumber("2026", 42); got != "MS-2026-0042" {
		t.Errorf("FormatManuscriptNumber = %q, want %q", got, "MS-2026-0042")
	}
	if got := FormatManuscriptNumber("2026", 12345); got != "MS-2026-12345" {
		t.Errorf("FormatManuscriptNumber = %q, want %q", got, "MS-2026-12345")
	}
}
