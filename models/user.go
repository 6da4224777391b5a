package models

import (
	"time"
)

// Role names stored in the roles table. A user may hold several at once.
const (
	RoleAuthor      = "AUTHOR"
	RoleReviewer    = "REVIEWER"
	RoleEditor      = "EDITOR"
	RoleChiefEditor = "CHIEF_EDITOR"
	RoleAdmin       = "ADMIN"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	IsActive  bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:user_id;references:RoleID;joinReferences:role_id" json:"roles,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

// UserRole is the join row between users and roles.
type UserRole struct {
	UserID int `gorm:"primaryKey;column:user_id" json:"user_id"`
	RoleID int `gorm:"primaryKey;column:role_id" json:"role_id"`
}

// RoleNames flattens the preloaded role relation into the set of role names.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// FullName joins first and last name for display and email salutations.
func (u *User) FullName() string {
	name := u.UserFname
	if u.UserLname != "" {
		if name != "" {
			name += " "
		}
		name += u.UserLname
	}
	return name
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (UserRole) TableName() string {
	return "user_roles"
}
