package models

import "time"

// ManuscriptStatusHistory tracks historical status changes for manuscripts.
type ManuscriptStatusHistory struct {
	HistoryID    int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ManuscriptID string    `gorm:"column:manuscript_id" json:"manuscript_id"`
	OldStatus    *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus    string    `gorm:"column:new_status" json:"new_status"`
	Event        string    `gorm:"column:event" json:"event"`
	ChangedBy    int       `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string   `gorm:"column:reason" json:"reason"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ManuscriptStatusHistory.
func (ManuscriptStatusHistory) TableName() string {
	return "manuscript_status_history"
}
