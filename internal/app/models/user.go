package models

import "time"

// User is an account that can sign in to the admin
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password"`
	IsSuperuser bool       `json:"isSuperuser" db:"is_superuser"`
	IsStaff     bool       `json:"isStaff" db:"is_staff"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Profile is the per-user judge record
type Profile struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"userId" db:"user_id"`
	Username string `json:"username" db:"username"`
	Name     string `json:"name,omitempty" db:"name"`
	Rating   *int   `json:"rating,omitempty" db:"rating"`
}

// LongDisplayName renders "username (name)" when a display name is set
func (p *Profile) LongDisplayName() string {
	if p.Name == "" {
		return p.Username
	}
	return p.Username + " (" + p.Name + ")"
}
