package models

import "time"

// ContestParticipation is one attempt of a profile at a contest. Virtual is 0 for the
// live attempt and a positive sequence number for virtual replays.
type ContestParticipation struct {
	ID        int64     `json:"id" db:"id"`
	ContestID int64     `json:"contestId" db:"contest_id" binding:"required"`
	ProfileID int64     `json:"userId" db:"profile_id" binding:"required"`
	RealStart time.Time `json:"realStart" db:"real_start"`
	Virtual   int       `json:"virtual" db:"virtual" binding:"min=0"`
	Score     float64   `json:"score" db:"score"`
	Cumtime   int64     `json:"cumtime" db:"cumtime"`

	ContestName string `json:"contestName,omitempty" db:"contest_name"`
	ContestKey  string `json:"contestKey,omitempty" db:"contest_key"`
	Username    string `json:"username,omitempty" db:"username"`
}

// ContestSubmission is a submission made inside a participation
type ContestSubmission struct {
	ID               int64     `json:"id" db:"id"`
	ParticipationID  int64     `json:"participationId" db:"participation_id"`
	ContestProblemID int64     `json:"contestProblemId" db:"contest_problem_id"`
	Points           float64   `json:"points" db:"points"`
	SubmittedAt      time.Time `json:"submittedAt" db:"submitted_at"`
}
