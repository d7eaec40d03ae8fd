package models

// Problem is referenced by the admin as a selection target only
type Problem struct {
	ID     int64   `json:"id" db:"id"`
	Code   string  `json:"code" db:"code"`
	Name   string  `json:"name" db:"name"`
	Points float64 `json:"points" db:"points"`
}

// ProblemSet is a named set of problems. Problem groups and problem types share this
// shape but live in separate tables.
type ProblemSet struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name" binding:"required,max=20"`
	FullName   string  `json:"fullName" db:"full_name" binding:"required,max=100"`
	ProblemIDs []int64 `json:"problems" db:"-"`
}

// Language is a submission language
type Language struct {
	ID          int64  `json:"id" db:"id"`
	Key         string `json:"key" db:"key" binding:"required,entitykey,max=6"`
	Name        string `json:"name" db:"name" binding:"required,max=20"`
	ShortName   string `json:"shortName,omitempty" db:"short_name"`
	CommonName  string `json:"commonName" db:"common_name" binding:"required,max=10"`
	Ace         string `json:"ace" db:"ace"`
	Pygments    string `json:"pygments" db:"pygments"`
	Info        string `json:"info,omitempty" db:"info"`
	Description string `json:"description,omitempty" db:"description"`
	// DisallowedProblemIDs is the form-side complement of the allowed set
	DisallowedProblemIDs []int64 `json:"problems" db:"-"`
}
