package models

import "time"

// Track represents a conference sub-topic manuscripts are submitted under.
type Track struct {
	TrackID   int        `gorm:"primaryKey;column:track_id" json:"track_id"`
	TrackName string     `gorm:"column:track_name" json:"track_name"`
	IsActive  bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// ConferenceYear represents one edition of the recurring conference.
type ConferenceYear struct {
	YearID   int        `gorm:"primaryKey;column:year_id" json:"year_id"`
	Year     string     `gorm:"column:year" json:"year"`
	IsActive bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Track) TableName() string {
	return "tracks"
}

func (ConferenceYear) TableName() string {
	return "conference_years"
}
