package models

import "time"

// Rating is the computed rating of a profile after one contest
type Rating struct {
	ID              int64     `json:"id" db:"id"`
	ProfileID       int64     `json:"userId" db:"profile_id"`
	ContestID       int64     `json:"contestId" db:"contest_id"`
	ParticipationID int64     `json:"participationId" db:"participation_id"`
	Rank            int       `json:"rank" db:"rank"`
	Rating          int       `json:"rating" db:"rating"`
	Performance     int       `json:"performance" db:"performance"`
	LastRated       time.Time `json:"lastRated" db:"last_rated"`
}
