package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"manuscript-review-api/models"
)

// ManuscriptService owns draft authoring and the submission transition. All
// status writes go through the lifecycle table; the service never assigns a
// status by hand.
type ManuscriptService struct {
	repo     ManuscriptRepository
	notifier Notifier
}

func NewManuscriptService(repo ManuscriptRepository, notifier Notifier) *ManuscriptService {
	return &ManuscriptService{repo: repo, notifier: notifier}
}

// CreateDraftRequest carries the author-supplied fields for a new draft.
type CreateDraftRequest struct {
	Title       string
	Abstract    string
	Keywords    string
	TrackID     int
	YearID      int
	CoAuthorIDs []int
}

// CreateDraft creates a DRAFT owned by the caller, who becomes the
// corresponding author. The returned id is the draft's durable identifier;
// callers round-trip it on every later operation.
func (s *ManuscriptService) CreateDraft(identity Identity, req CreateDraftRequest) (*models.Manuscript, error) {
	if err := Authorize(identity, CapCreateManuscript); err != nil {
		return nil, err
	}

	now := time.Now()
	m := &models.Manuscript{
		ManuscriptID: uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Abstract:     strings.TrimSpace(req.Abstract),
		Keywords:     strings.TrimSpace(req.Keywords),
		TrackID:      req.TrackID,
		YearID:       req.YearID,
		Status:       models.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	m.Authors = append(m.Authors, models.ManuscriptAuthor{
		ManuscriptID:    m.ManuscriptID,
		UserID:          identity.UserID,
		AuthorOrder:     1,
		IsCorresponding: true,
	})
	for i, coAuthorID := range req.CoAuthorIDs {
		if coAuthorID == identity.UserID {
			continue
		}
		if _, err := s.repo.GetUser(coAuthorID); err != nil {
			return nil, err
		}
		m.Authors = append(m.Authors, models.ManuscriptAuthor{
			ManuscriptID: m.ManuscriptID,
			UserID:       coAuthorID,
			AuthorOrder:  i + 2,
		})
	}

	if err := s.repo.CreateManuscript(m); err != nil {
		return nil, internalError("failed to create draft", err)
	}
	return s.repo.GetManuscript(m.ManuscriptID)
}

// UpdateDraftRequest carries the editable fields. Nil pointers are left
// untouched.
type UpdateDraftRequest struct {
	Title    *string
	Abstract *string
	Keywords *string
	TrackID  *int
}

// UpdateDraft edits an editable manuscript. Once submitted, title, abstract
// and authors are immutable to the owning authors until a revision is
// requested.
func (s *ManuscriptService) UpdateDraft(identity Identity, manuscriptID string, req UpdateDraftRequest) (*models.Manuscript, error) {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(identity, m); err != nil {
		return nil, err
	}
	if !m.IsEditable() {
		return nil, forbiddenError(fmt.Sprintf("manuscript in status '%s' is not editable", m.Status))
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Abstract != nil {
		updates["abstract"] = strings.TrimSpace(*req.Abstract)
	}
	if req.Keywords != nil {
		updates["keywords"] = strings.TrimSpace(*req.Keywords)
	}
	if req.TrackID != nil {
		updates["track_id"] = *req.TrackID
	}

	if err := s.repo.UpdateDraftFields(manuscriptID, updates); err != nil {
		return nil, internalError("failed to update draft", err)
	}
	return s.repo.GetManuscript(manuscriptID)
}

// DeleteDraft withdraws an unsubmitted draft. Submitted manuscripts stay on
// record and cannot be removed by their authors.
func (s *ManuscriptService) DeleteDraft(identity Identity, manuscriptID string) error {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(identity, m); err != nil {
		return err
	}
	if m.Status != models.StatusDraft {
		return forbiddenError(fmt.Sprintf("only drafts can be deleted, manuscript is '%s'", m.Status))
	}
	return s.repo.SoftDeleteManuscript(manuscriptID, time.Now())
}

// AttachFileRequest describes an uploaded file to record against the
// manuscript. Storage mechanics live behind the file store boundary; only
// the metadata row is kept here.
type AttachFileRequest struct {
	FileKind     string
	OriginalName string
	StoredPath   string
	FileSize     int64
	MimeType     string
}

func (s *ManuscriptService) AttachFile(identity Identity, manuscriptID string, req AttachFileRequest) (*models.ManuscriptFile, error) {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(identity, m); err != nil {
		return nil, err
	}
	if !m.IsEditable() {
		return nil, forbiddenError(fmt.Sprintf("manuscript in status '%s' does not accept files", m.Status))
	}
	if req.FileKind != models.FileKindManuscript && req.FileKind != models.FileKindTitlePage {
		return nil, validationError("file_kind", fmt.Sprintf("unknown file kind '%s'", req.FileKind))
	}

	file := &models.ManuscriptFile{
		FileID:       uuid.NewString(),
		ManuscriptID: manuscriptID,
		FileKind:     req.FileKind,
		OriginalName: req.OriginalName,
		StoredPath:   req.StoredPath,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		UploadedBy:   identity.UserID,
		UploadedAt:   time.Now(),
	}
	if err := s.repo.AddManuscriptFile(file); err != nil {
		return nil, internalError("failed to attach file", err)
	}
	return file, nil
}

// SubmitManuscript runs the DRAFT -> SUBMITTED edge, or the resubmit edge
// from REVISION_REQUIRED. The serial number is issued exactly once, on the
// first successful submission; a resubmit keeps the original number.
func (s *ManuscriptService) SubmitManuscript(identity Identity, manuscriptID string) (*models.Manuscript, error) {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(identity, m); err != nil {
		return nil, err
	}

	event := EventSubmit
	if m.Status == models.StatusRevisionRequired {
		event = EventResubmit
	}
	newStatus, err := NextStatus(m.Status, event)
	if err != nil {
		return nil, err
	}

	if err := ValidateForSubmission(m); err != nil {
		return nil, err
	}

	now := time.Now()
	change := StatusChange{
		ManuscriptID: manuscriptID,
		FromStatus:   m.Status,
		ToStatus:     newStatus,
		Event:        event,
		ChangedBy:    identity.UserID,
		SubmittedAt:  &now,
		Timestamp:    now,
	}

	if m.ManuscriptNumber == "" {
		number, numErr := s.nextManuscriptNumber(m)
		if numErr != nil {
			return nil, numErr
		}
		change.ManuscriptNumber = number
	}

	if err := s.repo.UpdateStatus(change); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.ManuscriptSubmitted(updated)
	}
	return updated, nil
}

func (s *ManuscriptService) nextManuscriptNumber(m *models.Manuscript) (string, error) {
	year := ""
	if m.Year != nil {
		year = m.Year.Year
	}
	if year == "" {
		year = fmt.Sprintf("%d", time.Now().Year())
	}

	prefix := fmt.Sprintf("MS-%s-", year)
	count, err := s.repo.CountManuscriptNumbers(prefix)
	if err != nil {
		return "", internalError("failed to allocate manuscript number", err)
	}
	return FormatManuscriptNumber(year, count+1), nil
}

// ManuscriptView is the permission-filtered read model returned to callers.
type ManuscriptView struct {
	Manuscript      *models.Manuscript        `json:"manuscript"`
	Assignments     []models.ReviewAssignment `json:"assignments,omitempty"`
	Reviews         []models.Review           `json:"reviews,omitempty"`
	Decisions       []models.Decision         `json:"decisions,omitempty"`
	CurrentDecision *models.Decision          `json:"current_decision,omitempty"`
}

// GetManuscriptView loads a manuscript with its assignments, reviews and
// decision history, filtered by what the requester may see:
//   - requesters who are neither authors, assigned reviewers nor holders of
//     VIEW_ALL_SUBMISSIONS are refused outright;
//   - comment_to_editor is stripped unless the requester holds
//     VIEW_ALL_REVIEWS;
//   - assigned reviewers see only their own assignment and review, and never
//     the title-page file;
//   - assignment rows (reviewer identities) are hidden from authors.
func (s *ManuscriptService) GetManuscriptView(identity Identity, manuscriptID string) (*ManuscriptView, error) {
	m, err := s.repo.GetManuscript(manuscriptID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListAssignmentsByManuscript(manuscriptID)
	if err != nil {
		return nil, internalError("failed to load assignments", err)
	}

	var ownAssignment *models.ReviewAssignment
	for i := range assignments {
		if assignments[i].ReviewerID == identity.UserID && assignments[i].Status != models.AssignmentDeclined {
			ownAssignment = &assignments[i]
			break
		}
	}

	if !CanViewManuscript(identity, m, ownAssignment != nil) {
		return nil, forbiddenError("not allowed to view this manuscript")
	}

	view := &ManuscriptView{Manuscript: m}

	seesAllReviews := HasCapability(identity, CapViewAllReviews)
	isAuthor := m.HasAuthor(identity.UserID)

	switch {
	case seesAllReviews:
		view.Assignments = assignments
		for i := range assignments {
			if assignments[i].Review != nil {
				view.Reviews = append(view.Reviews, *assignments[i].Review)
			}
		}
	case ownAssignment != nil && !isAuthor:
		// Reviewers work on the anonymized copy only.
		stripTitlePage(m)
		view.Assignments = []models.ReviewAssignment{*ownAssignment}
		if ownAssignment.Review != nil {
			view.Reviews = []models.Review{*ownAssignment.Review}
		}
	default:
		for i := range assignments {
			if assignments[i].Review == nil {
				continue
			}
			review := *assignments[i].Review
			review.CommentToEditor = ""
			view.Reviews = append(view.Reviews, review)
		}
	}

	if isAuthor || HasCapability(identity, CapViewAllSubmissions) {
		decisions, err := s.repo.ListDecisions(manuscriptID)
		if err != nil {
			return nil, internalError("failed to load decisions", err)
		}
		view.Decisions = decisions
		if len(decisions) > 0 {
			view.CurrentDecision = &decisions[0]
		}
	}

	return view, nil
}

// ListManuscripts returns everything for VIEW_ALL_SUBMISSIONS holders,
// otherwise only the caller's own manuscripts.
func (s *ManuscriptService) ListManuscripts(identity Identity, filter ManuscriptFilter) ([]models.Manuscript, error) {
	if !HasCapability(identity, CapViewAllSubmissions) {
		if err := Authorize(identity, CapViewOwnSubmissions); err != nil {
			return nil, err
		}
		filter.AuthorID = identity.UserID
	}
	return s.repo.ListManuscripts(filter)
}

func (s *ManuscriptService) requireOwner(identity Identity, m *models.Manuscript) error {
	if m.HasAuthor(identity.UserID) {
		return nil
	}
	if HasCapability(identity, CapManageUsers) {
		// Admin override mirrors who may repair records.
		return nil
	}
	return forbiddenError("manuscript is not owned by the caller")
}

func stripTitlePage(m *models.Manuscript) {
	files := m.Files[:0]
	for _, f := range m.Files {
		if f.FileKind != models.FileKindTitlePage {
			files = append(files, f)
		}
	}
	m.Files = files
}
