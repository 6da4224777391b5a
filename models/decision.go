package models

import "time"

// Editorial decision results.
const (
	DecisionAccept = "ACCEPT"
	DecisionReject = "REJECT"
	DecisionRevise = "REVISE"
)

// Decision is one editorial ruling against a manuscript. Rows are append-only
// and form the audit trail; the most recent row is the current decision.
type Decision struct {
	DecisionID   string    `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ManuscriptID string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	Result       string    `gorm:"column:result" json:"result"`
	Note         *string   `gorm:"column:note" json:"note,omitempty"`
	DecidedBy    int       `gorm:"column:decided_by" json:"decided_by"`
	DecidedAt    time.Time `gorm:"column:decided_at" json:"decided_at"`

	Decider *User `gorm:"foreignKey:DecidedBy;references:UserID" json:"decider,omitempty"`
}

// TableName specifies the table for Decision.
func (Decision) TableName() string {
	return "decisions"
}
