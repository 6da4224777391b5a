package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
)

// StatusChange describes one guarded status transition. FromStatus is the
// status the caller observed; the write only lands if the row still carries
// it, otherwise the repository reports a conflicting write.
type StatusChange struct {
	ManuscriptID     string
	FromStatus       string
	ToStatus         string
	Event            string
	ChangedBy        int
	Reason           *string
	ManuscriptNumber string     // set only on the first submit
	SubmittedAt      *time.Time // set on submit/resubmit
	Timestamp        time.Time
}

// ManuscriptFilter narrows manuscript listings.
type ManuscriptFilter struct {
	AuthorID int
	Status   string
	TrackID  int
	YearID   int
}

// ManuscriptRepository is the persistence boundary for manuscripts and the
// records they own. Every status-changing method executes as a single atomic
// unit: the guarded status update, the owned rows it implies, and the history
// row either all commit or none do.
type ManuscriptRepository interface {
	CreateManuscript(m *models.Manuscript) error
	GetManuscript(id string) (*models.Manuscript, error)
	ListManuscripts(filter ManuscriptFilter) ([]models.Manuscript, error)
	UpdateDraftFields(id string, updates map[string]interface{}) error
	SoftDeleteManuscript(id string, now time.Time) error
	AddManuscriptFile(file *models.ManuscriptFile) error
	CountManuscriptNumbers(numberPrefix string) (int64, error)

	UpdateStatus(change StatusChange) error

	CreateAssignment(assignment *models.ReviewAssignment, change *StatusChange) error
	GetAssignment(id string) (*models.ReviewAssignment, error)
	FindActiveAssignment(manuscriptID string, reviewerID int) (*models.ReviewAssignment, error)
	ListAssignmentsByManuscript(manuscriptID string) ([]models.ReviewAssignment, error)
	ListAssignmentsByReviewer(reviewerID int) ([]models.ReviewAssignment, error)
	UpdateAssignmentStatus(id, fromStatus, toStatus string) error

	CreateReview(review *models.Review) error
	GetReviewByAssignment(assignmentID string) (*models.Review, error)

	CreateDecision(decision *models.Decision, change StatusChange) error
	ListDecisions(manuscriptID string) ([]models.Decision, error)

	GetUser(id int) (*models.User, error)
	ListUsersByIDs(ids []int) ([]models.User, error)
}

// NewGormRepository returns the MySQL-backed repository used in production.
// It reads config.DB lazily so package-level construction is safe before
// config.InitDB has run.
func NewGormRepository() ManuscriptRepository {
	return &gormManuscriptRepository{}
}

type gormManuscriptRepository struct{}

func (r *gormManuscriptRepository) db() *gorm.DB {
	return config.DB
}

func (r *gormManuscriptRepository) CreateManuscript(m *models.Manuscript) error {
	return r.db().Transaction(func(tx *gorm.DB) error {
		authors := m.Authors
		m.Authors = nil
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		m.Authors = authors
		for i := range m.Authors {
			m.Authors[i].ManuscriptID = m.ManuscriptID
			if err := tx.Create(&m.Authors[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormManuscriptRepository) GetManuscript(id string) (*models.Manuscript, error) {
	var m models.Manuscript
	err := r.db().
		Preload("Authors").
		Preload("Authors.User").
		Preload("Files", "delete_at IS NULL").
		Preload("Track").
		Preload("Year").
		Where("manuscript_id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("manuscript not found")
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormManuscriptRepository) ListManuscripts(filter ManuscriptFilter) ([]models.Manuscript, error) {
	query := r.db().
		Preload("Authors").
		Preload("Track").
		Preload("Year").
		Where("manuscripts.deleted_at IS NULL")

	if filter.AuthorID != 0 {
		query = query.Joins("JOIN manuscript_authors ma ON ma.manuscript_id = manuscripts.manuscript_id").
			Where("ma.user_id = ?", filter.AuthorID)
	}
	if filter.Status != "" {
		query = query.Where("manuscripts.status = ?", filter.Status)
	}
	if filter.TrackID != 0 {
		query = query.Where("manuscripts.track_id = ?", filter.TrackID)
	}
	if filter.YearID != 0 {
		query = query.Where("manuscripts.year_id = ?", filter.YearID)
	}

	var manuscripts []models.Manuscript
	err := query.Order("manuscripts.updated_at DESC").Find(&manuscripts).Error
	return manuscripts, err
}

func (r *gormManuscriptRepository) UpdateDraftFields(id string, updates map[string]interface{}) error {
	return r.db().Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND deleted_at IS NULL", id).
		Updates(updates).Error
}

func (r *gormManuscriptRepository) SoftDeleteManuscript(id string, now time.Time) error {
	return r.db().Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

func (r *gormManuscriptRepository) AddManuscriptFile(file *models.ManuscriptFile) error {
	return r.db().Create(file).Error
}

func (r *gormManuscriptRepository) CountManuscriptNumbers(numberPrefix string) (int64, error) {
	var count int64
	err := r.db().Model(&models.Manuscript{}).
		Where("manuscript_number LIKE ?", numberPrefix+"%").
		Count(&count).Error
	return count, err
}

// applyStatusChange performs the guarded update plus history append inside
// the supplied transaction. RowsAffected == 0 means another writer moved the
// status first (or the row vanished); the caller gets a conflicting write.
func applyStatusChange(tx *gorm.DB, change StatusChange) error {
	updates := map[string]interface{}{
		"status":     change.ToStatus,
		"updated_at": change.Timestamp,
	}
	if change.ManuscriptNumber != "" {
		updates["manuscript_number"] = change.ManuscriptNumber
	}
	if change.SubmittedAt != nil {
		updates["submitted_at"] = change.SubmittedAt
	}

	result := tx.Model(&models.Manuscript{}).
		Where("manuscript_id = ? AND status = ? AND deleted_at IS NULL", change.ManuscriptID, change.FromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return conflictingWriteError(fmt.Sprintf(
			"manuscript %s is no longer in status '%s'", change.ManuscriptID, change.FromStatus))
	}

	oldStatus := change.FromStatus
	history := models.ManuscriptStatusHistory{
		ManuscriptID: change.ManuscriptID,
		OldStatus:    &oldStatus,
		NewStatus:    change.ToStatus,
		Event:        change.Event,
		ChangedBy:    change.ChangedBy,
		Reason:       change.Reason,
		CreatedAt:    change.Timestamp,
	}
	return tx.Create(&history).Error
}

func (r *gormManuscriptRepository) UpdateStatus(change StatusChange) error {
	return r.db().Transaction(func(tx *gorm.DB) error {
		return applyStatusChange(tx, change)
	})
}

func (r *gormManuscriptRepository) CreateAssignment(assignment *models.ReviewAssignment, change *StatusChange) error {
	return r.db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}
		if change != nil {
			return applyStatusChange(tx, *change)
		}
		return nil
	})
}

func (r *gormManuscriptRepository) GetAssignment(id string) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := r.db().
		Preload("Reviewer").
		Preload("Review").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("assignment not found")
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *gormManuscriptRepository) FindActiveAssignment(manuscriptID string, reviewerID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	err := r.db().
		Where("manuscript_id = ? AND reviewer_id = ? AND status <> ?",
			manuscriptID, reviewerID, models.AssignmentDeclined).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *gormManuscriptRepository) ListAssignmentsByManuscript(manuscriptID string) ([]models.ReviewAssignment, error) {
	var assignments []models.ReviewAssignment
	err := r.db().
		Preload("Reviewer").
		Preload("Review").
		Where("manuscript_id = ?", manuscriptID).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *gormManuscriptRepository) ListAssignmentsByReviewer(reviewerID int) ([]models.ReviewAssignment, error) {
	var assignments []models.ReviewAssignment
	err := r.db().
		Preload("Manuscript").
		Preload("Review").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *gormManuscriptRepository) UpdateAssignmentStatus(id, fromStatus, toStatus string) error {
	result := r.db().Model(&models.ReviewAssignment{}).
		Where("assignment_id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return conflictingWriteError(fmt.Sprintf(
			"assignment %s is no longer in status '%s'", id, fromStatus))
	}
	return nil
}

func (r *gormManuscriptRepository) CreateReview(review *models.Review) error {
	return r.db().Create(review).Error
}

func (r *gormManuscriptRepository) GetReviewByAssignment(assignmentID string) (*models.Review, error) {
	var review models.Review
	err := r.db().Where("assignment_id = ?", assignmentID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormManuscriptRepository) CreateDecision(decision *models.Decision, change StatusChange) error {
	return r.db().Transaction(func(tx *gorm.DB) error {
		if err := applyStatusChange(tx, change); err != nil {
			return err
		}
		return tx.Create(decision).Error
	})
}

func (r *gormManuscriptRepository) ListDecisions(manuscriptID string) ([]models.Decision, error) {
	var decisions []models.Decision
	err := r.db().
		Preload("Decider").
		Where("manuscript_id = ?", manuscriptID).
		Order("decided_at DESC").
		Find(&decisions).Error
	return decisions, err
}

func (r *gormManuscriptRepository) GetUser(id int) (*models.User, error) {
	var user models.User
	err := r.db().
		Preload("Roles").
		Where("user_id = ? AND delete_at IS NULL", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormManuscriptRepository) ListUsersByIDs(ids []int) ([]models.User, error) {
	var users []models.User
	err := r.db().
		Preload("Roles").
		Where("user_id IN ? AND delete_at IS NULL", ids).
		Find(&users).Error
	return users, err
}
