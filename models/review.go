package models

import "time"

// Reviewer recommendations. Advisory only: manuscript status changes come
// from editorial decisions, never from reviews.
const (
	RecommendAccept        = "ACCEPT"
	RecommendMinorRevision = "MINOR_REVISION"
	RecommendMajorRevision = "MAJOR_REVISION"
	RecommendReject        = "REJECT"
)

// Review is a reviewer's scored evaluation for one accepted assignment.
// Immutable once submitted; CommentToEditor is confidential and is stripped
// from responses unless the requester may view all reviews.
type Review struct {
	ReviewID        string    `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID    string    `gorm:"column:assignment_id;unique" json:"assignment_id"`
	Score           int       `gorm:"column:score" json:"score"`
	Recommendation  string    `gorm:"column:recommendation" json:"recommendation"`
	CommentToAuthor string    `gorm:"column:comment_to_author" json:"comment_to_author"`
	CommentToEditor string    `gorm:"column:comment_to_editor" json:"comment_to_editor,omitempty"`
	SubmittedAt     time.Time `gorm:"column:submitted_at" json:"submitted_at"`
}

// TableName specifies the table for Review.
func (Review) TableName() string {
	return "reviews"
}
