package models

import "time"

// Manuscript lifecycle statuses. Status is only ever written through the
// lifecycle service; controllers never set it directly.
const (
	StatusDraft            = "DRAFT"
	StatusSubmitted        = "SUBMITTED"
	StatusUnderReview      = "UNDER_REVIEW"
	StatusRevisionRequired = "REVISION_REQUIRED"
	StatusAccepted         = "ACCEPTED"
	StatusRejected         = "REJECTED"
)

// File kinds attached to a manuscript. The review copy is anonymized; the
// title page carries author identities and is withheld from reviewers.
const (
	FileKindManuscript = "manuscript"
	FileKindTitlePage  = "title_page"
)

type Manuscript struct {
	ManuscriptID     string     `gorm:"primaryKey;column:manuscript_id" json:"manuscript_id"`
	ManuscriptNumber string     `gorm:"column:manuscript_number" json:"manuscript_number,omitempty"`
	Title            string     `gorm:"column:title" json:"title"`
	Abstract         string     `gorm:"column:abstract" json:"abstract"`
	Keywords         string     `gorm:"column:keywords" json:"keywords"`
	TrackID          int        `gorm:"column:track_id" json:"track_id"`
	YearID           int        `gorm:"column:year_id" json:"year_id"`
	Status           string     `gorm:"column:status" json:"status"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
	SubmittedAt      *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DeletedAt        *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Track   *Track             `gorm:"foreignKey:TrackID;references:TrackID" json:"track,omitempty"`
	Year    *ConferenceYear    `gorm:"foreignKey:YearID;references:YearID" json:"year,omitempty"`
	Authors []ManuscriptAuthor `gorm:"foreignKey:ManuscriptID;references:ManuscriptID" json:"authors,omitempty"`
	Files   []ManuscriptFile   `gorm:"foreignKey:ManuscriptID;references:ManuscriptID" json:"files,omitempty"`
}

// ManuscriptAuthor links a user to a manuscript they co-author. Exactly one
// author per manuscript is marked corresponding.
type ManuscriptAuthor struct {
	AuthorID        int    `gorm:"primaryKey;column:author_id" json:"author_id"`
	ManuscriptID    string `gorm:"column:manuscript_id" json:"manuscript_id"`
	UserID          int    `gorm:"column:user_id" json:"user_id"`
	AuthorOrder     int    `gorm:"column:author_order" json:"author_order"`
	IsCorresponding bool   `gorm:"column:is_corresponding" json:"is_corresponding"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

type ManuscriptFile struct {
	FileID       string     `gorm:"primaryKey;column:file_id" json:"file_id"`
	ManuscriptID string     `gorm:"column:manuscript_id" json:"manuscript_id"`
	FileKind     string     `gorm:"column:file_kind" json:"file_kind"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// IsEditable reports whether authors may still change title, abstract,
// authors and files.
func (m *Manuscript) IsEditable() bool {
	return m.Status == StatusDraft || m.Status == StatusRevisionRequired
}

// IsTerminal reports whether the manuscript has reached a final status.
func (m *Manuscript) IsTerminal() bool {
	return m.Status == StatusAccepted || m.Status == StatusRejected
}

// CorrespondingAuthor returns the author row marked corresponding, if any.
func (m *Manuscript) CorrespondingAuthor() *ManuscriptAuthor {
	for i := range m.Authors {
		if m.Authors[i].IsCorresponding {
			return &m.Authors[i]
		}
	}
	return nil
}

// HasAuthor reports whether the given user co-authors the manuscript.
func (m *Manuscript) HasAuthor(userID int) bool {
	for i := range m.Authors {
		if m.Authors[i].UserID == userID {
			return true
		}
	}
	return false
}

// TableName overrides
func (Manuscript) TableName() string {
	return "manuscripts"
}

func (ManuscriptAuthor) TableName() string {
	return "manuscript_authors"
}

func (ManuscriptFile) TableName() string {
	return "manuscript_files"
}
