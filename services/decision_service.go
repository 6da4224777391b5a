package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"manuscript-review-api/models"
)

// DecisionService appends editorial decisions and derives the manuscript's
// status from them. Decisions are the single source of truth for a
// manuscript's outcome; reviews are advisory input only.
type DecisionService struct {
	repo     ManuscriptRepository
	notifier Notifier
}

func NewDecisionService(repo ManuscriptRepository, notifier Notifier) *DecisionService {
	return &DecisionService{repo: repo, notifier: notifier}
}

// RecordDecision appends a decision row and applies the corresponding status
// transition in one atomic unit. Two concurrent decisions race on the status
// guard: exactly one wins, the other gets a conflicting write.
func (s *DecisionService) RecordDecision(identity Identity, manuscriptID, result string, note string) (*models.Decision, error) {
	if err := Authorize(identity, CapMakeDecision); err != nil {
		return nil, err
	}

	event, err := DecisionEvent(result)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}

	newStatus, err := NextStatus(m.Status, event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	decision := &models.Decision{
		DecisionID:   uuid.NewString(),
		ManuscriptID: manuscriptID,
		Result:       result,
		DecidedBy:    identity.UserID,
		DecidedAt:    now,
	}
	var reason *string
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		decision.Note = &trimmed
		reason = &trimmed
	}

	change := StatusChange{
		ManuscriptID: manuscriptID,
		FromStatus:   m.Status,
		ToStatus:     newStatus,
		Event:        event,
		ChangedBy:    identity.UserID,
		Reason:       reason,
		Timestamp:    now,
	}

	if err := s.repo.CreateDecision(decision, change); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		m.Status = newStatus
		s.notifier.DecisionRecorded(m, decision)
	}
	return decision, nil
}

// GetDecisionHistory returns all decisions, newest first. Visible to the
// owning authors and to holders of VIEW_ALL_SUBMISSIONS.
func (s *DecisionService) GetDecisionHistory(identity Identity, manuscriptID string) ([]models.Decision, error) {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if !m.HasAuthor(identity.UserID) && !HasCapability(identity, CapViewAllSubmissions) {
		return nil, forbiddenError("not allowed to view decisions for this manuscript")
	}
	return s.repo.ListDecisions(manuscriptID)
}

// GetCurrentDecision returns the head of the history, or a typed not-found
// when no decision has been recorded yet.
func (s *DecisionService) GetCurrentDecision(identity Identity, manuscriptID string) (*models.Decision, error) {
	decisions, err := s.GetDecisionHistory(identity, manuscriptID)
	if err != nil {
		return nil, err
	}
	if len(decisions) == 0 {
		return nil, notFoundError("no decision recorded for this manuscript")
	}
	return &decisions[0], nil
}
