package models

import "time"

// Review assignment sub-statuses. PENDING may move to ACCEPTED or DECLINED;
// both of those are final for the assignment.
const (
	AssignmentPending  = "PENDING"
	AssignmentAccepted = "ACCEPTED"
	AssignmentDeclined = "DECLINED"
)

// ReviewAssignment pairs a reviewer with a manuscript. At most one
// non-declined assignment may exist per (manuscript, reviewer).
type ReviewAssignment struct {
	AssignmentID string    `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	ManuscriptID string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	ReviewerID   int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	Status       string    `gorm:"column:status" json:"status"`
	DueDate      time.Time `gorm:"column:due_date" json:"due_date"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Reviewer   *User       `gorm:"foreignKey:ReviewerID;references:UserID" json:"reviewer,omitempty"`
	Manuscript *Manuscript `gorm:"foreignKey:ManuscriptID;references:ManuscriptID" json:"manuscript,omitempty"`
	Review     *Review     `gorm:"foreignKey:AssignmentID;references:AssignmentID" json:"review,omitempty"`
}

// TableName specifies the table for ReviewAssignment.
func (ReviewAssignment) TableName() string {
	return "review_assignments"
}
