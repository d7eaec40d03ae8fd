package models

import "time"

// BlogPost is a news entry on the front page
type BlogPost struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title" binding:"required,max=100"`
	Slug      string    `json:"slug" db:"slug" binding:"max=50"`
	AuthorIDs []int64   `json:"authors" db:"-"`
	Visible   bool      `json:"visible" db:"visible"`
	Sticky    bool      `json:"sticky" db:"sticky"`
	PublishOn time.Time `json:"publishOn" db:"publish_on" binding:"required"`
	Content   string    `json:"content" db:"content"`
	OgImage   string    `json:"ogImage" db:"og_image"`
	Summary   string    `json:"summary" db:"summary"`
}

// IsAuthor reports whether profileID wrote the post
func (b *BlogPost) IsAuthor(profileID int64) bool {
	for _, id := range b.AuthorIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// Solution is an editorial attached to a problem
type Solution struct {
	ID          int64     `json:"id" db:"id"`
	URL         string    `json:"url" db:"url" binding:"required,max=100"`
	Title       string    `json:"title" db:"title" binding:"required,max=200"`
	IsPublic    bool      `json:"isPublic" db:"is_public"`
	PublishOn   time.Time `json:"publishOn" db:"publish_on" binding:"required"`
	ProblemID   *int64    `json:"problem,omitempty" db:"problem_id"`
	Content     string    `json:"content" db:"content"`
	ProblemName string    `json:"problemName,omitempty" db:"problem_name"`
}

// License is the license of problem statements
type License struct {
	ID      int64  `json:"id" db:"id"`
	Key     string `json:"key" db:"key" binding:"required,entitykey,max=20"`
	Link    string `json:"link" db:"link" binding:"required"`
	Name    string `json:"name" db:"name" binding:"required"`
	Display string `json:"display" db:"display"`
	Icon    string `json:"icon" db:"icon"`
	Text    string `json:"text" db:"text"`
}

// MiscConfig is a free-form site setting
type MiscConfig struct {
	Key   string `json:"key" db:"key" binding:"required,max=30"`
	Value string `json:"value" db:"value"`
}
