package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"manuscript-review-api/models"
)

// fakeRepo is an in-memory ManuscriptRepository with the same guard
// semantics as the GORM implementation: status writes only land when the
// row still carries the expected current status.
type fakeRepo struct {
	mu          sync.Mutex
	manuscripts map[string]*models.Manuscript
	assignments map[string]*models.ReviewAssignment
	reviews     map[string]*models.Review // keyed by assignment id
	decisions   []models.Decision
	history     []models.ManuscriptStatusHistory
	users       map[int]*models.User
	nextUserID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		manuscripts: make(map[string]*models.Manuscript),
		assignments: make(map[string]*models.ReviewAssignment),
		reviews:     make(map[string]*models.Review),
		users:       make(map[int]*models.User),
		nextUserID:  1,
	}
}

func (f *fakeRepo) addUser(email string, roles ...string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := &models.User{
		UserID:   f.nextUserID,
		Email:    email,
		IsActive: true,
	}
	f.nextUserID++
	for i, role := range roles {
		user.Roles = append(user.Roles, models.Role{RoleID: i + 1, Role: role})
	}
	f.users[user.UserID] = user
	return user
}

func (f *fakeRepo) CreateManuscript(m *models.Manuscript) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *m
	f.manuscripts[m.ManuscriptID] = &stored
	return nil
}

func (f *fakeRepo) GetManuscript(id string) (*models.Manuscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getManuscriptLocked(id)
}

func (f *fakeRepo) getManuscriptLocked(id string) (*models.Manuscript, error) {
	m, ok := f.manuscripts[id]
	if !ok || m.DeletedAt != nil {
		return nil, notFoundError("manuscript not found")
	}

	copied := *m
	copied.Authors = make([]models.ManuscriptAuthor, len(m.Authors))
	copy(copied.Authors, m.Authors)
	for i := range copied.Authors {
		if user, ok := f.users[copied.Authors[i].UserID]; ok {
			copied.Authors[i].User = user
		}
	}
	copied.Files = make([]models.ManuscriptFile, len(m.Files))
	copy(copied.Files, m.Files)
	return &copied, nil
}

func (f *fakeRepo) ListManuscripts(filter ManuscriptFilter) ([]models.Manuscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.Manuscript
	for _, m := range f.manuscripts {
		if m.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.TrackID != 0 && m.TrackID != filter.TrackID {
			continue
		}
		if filter.YearID != 0 && m.YearID != filter.YearID {
			continue
		}
		if filter.AuthorID != 0 && !m.HasAuthor(filter.AuthorID) {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (f *fakeRepo) UpdateDraftFields(id string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.manuscripts[id]
	if !ok {
		return notFoundError("manuscript not found")
	}
	if v, ok := updates["title"].(string); ok {
		m.Title = v
	}
	if v, ok := updates["abstract"].(string); ok {
		m.Abstract = v
	}
	if v, ok := updates["keywords"].(string); ok {
		m.Keywords = v
	}
	if v, ok := updates["track_id"].(int); ok {
		m.TrackID = v
	}
	if v, ok := updates["updated_at"].(time.Time); ok {
		m.UpdatedAt = v
	}
	return nil
}

func (f *fakeRepo) SoftDeleteManuscript(id string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.manuscripts[id]; ok {
		m.DeletedAt = &now
	}
	return nil
}

func (f *fakeRepo) AddManuscriptFile(file *models.ManuscriptFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manuscripts[file.ManuscriptID]
	if !ok {
		return notFoundError("manuscript not found")
	}
	m.Files = append(m.Files, *file)
	return nil
}

func (f *fakeRepo) CountManuscriptNumbers(numberPrefix string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.manuscripts {
		if m.ManuscriptNumber != "" && strings.HasPrefix(m.ManuscriptNumber, numberPrefix) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) applyStatusChangeLocked(change StatusChange) error {
	m, ok := f.manuscripts[change.ManuscriptID]
	if !ok || m.DeletedAt != nil || m.Status != change.FromStatus {
		return conflictingWriteError(fmt.Sprintf(
			"manuscript %s is no longer in status '%s'", change.ManuscriptID, change.FromStatus))
	}

	m.Status = change.ToStatus
	m.UpdatedAt = change.Timestamp
	if change.ManuscriptNumber != "" {
		m.ManuscriptNumber = change.ManuscriptNumber
	}
	if change.SubmittedAt != nil {
		m.SubmittedAt = change.SubmittedAt
	}

	oldStatus := change.FromStatus
	f.history = append(f.history, models.ManuscriptStatusHistory{
		ManuscriptID: change.ManuscriptID,
		OldStatus:    &oldStatus,
		NewStatus:    change.ToStatus,
		Event:        change.Event,
		ChangedBy:    change.ChangedBy,
		Reason:       change.Reason,
		CreatedAt:    change.Timestamp,
	})
	return nil
}

func (f *fakeRepo) UpdateStatus(change StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyStatusChangeLocked(change)
}

func (f *fakeRepo) CreateAssignment(assignment *models.ReviewAssignment, change *StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if change != nil {
		if err := f.applyStatusChangeLocked(*change); err != nil {
			return err
		}
	}
	stored := *assignment
	f.assignments[assignment.AssignmentID] = &stored
	return nil
}

func (f *fakeRepo) GetAssignment(id string) (*models.ReviewAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	assignment, ok := f.assignments[id]
	if !ok {
		return nil, notFoundError("assignment not found")
	}
	copied := *assignment
	if review, ok := f.reviews[id]; ok {
		copied.Review = review
	}
	return &copied, nil
}

func (f *fakeRepo) FindActiveAssignment(manuscriptID string, reviewerID int) (*models.ReviewAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, assignment := range f.assignments {
		if assignment.ManuscriptID == manuscriptID &&
			assignment.ReviewerID == reviewerID &&
			assignment.Status != models.AssignmentDeclined {
			copied := *assignment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListAssignmentsByManuscript(manuscriptID string) ([]models.ReviewAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.ReviewAssignment
	for _, assignment := range f.assignments {
		if assignment.ManuscriptID != manuscriptID {
			continue
		}
		copied := *assignment
		if review, ok := f.reviews[assignment.AssignmentID]; ok {
			copied.Review = review
		}
		result = append(result, copied)
	}
	return result, nil
}

func (f *fakeRepo) ListAssignmentsByReviewer(reviewerID int) ([]models.ReviewAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.ReviewAssignment
	for _, assignment := range f.assignments {
		if assignment.ReviewerID != reviewerID {
			continue
		}
		copied := *assignment
		if review, ok := f.reviews[assignment.AssignmentID]; ok {
			copied.Review = review
		}
		result = append(result, copied)
	}
	return result, nil
}

func (f *fakeRepo) UpdateAssignmentStatus(id, fromStatus, toStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	assignment, ok := f.assignments[id]
	if !ok || assignment.Status != fromStatus {
		return conflictingWriteError(fmt.Sprintf(
			"assignment %s is no longer in status '%s'", id, fromStatus))
	}
	assignment.Status = toStatus
	return nil
}

func (f *fakeRepo) CreateReview(review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.reviews[review.AssignmentID]; exists {
		return alreadySubmittedError("a review was already submitted for this assignment")
	}
	stored := *review
	f.reviews[review.AssignmentID] = &stored
	return nil
}

func (f *fakeRepo) GetReviewByAssignment(assignmentID string) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	review, ok := f.reviews[assignmentID]
	if !ok {
		return nil, nil
	}
	copied := *review
	return &copied, nil
}

func (f *fakeRepo) CreateDecision(decision *models.Decision, change StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.applyStatusChangeLocked(change); err != nil {
		return err
	}
	f.decisions = append(f.decisions, *decision)
	return nil
}

func (f *fakeRepo) ListDecisions(manuscriptID string) ([]models.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Newest first: walk the append-only log backwards.
	var result []models.Decision
	for i := len(f.decisions) - 1; i >= 0; i-- {
		if f.decisions[i].ManuscriptID == manuscriptID {
			result = append(result, f.decisions[i])
		}
	}
	return result, nil
}

func (f *fakeRepo) GetUser(id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, notFoundError("user not found")
	}
	return user, nil
}

func (f *fakeRepo) ListUsersByIDs(ids []int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func identityFor(user *models.User) Identity {
	return Identity{
		UserID: user.UserID,
		Email:  user.Email,
		Roles:  user.RoleNames(),
	}
}
