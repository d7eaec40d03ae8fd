package models

import "time"

// Contest is a timed set of problems
type Contest struct {
	ID              int64            `json:"id" db:"id"`
	Key             string           `json:"key" db:"key"`
	Name            string           `json:"name" db:"name"`
	OrganizerIDs    []int64          `json:"organizers" db:"-"`
	IsPublic        bool             `json:"isPublic" db:"is_public"`
	HideProblemTags bool             `json:"hideProblemTags" db:"hide_problem_tags"`
	RunPretestsOnly bool             `json:"runPretestsOnly" db:"run_pretests_only"`
	StartTime       time.Time        `json:"startTime" db:"start_time"`
	EndTime         time.Time        `json:"endTime" db:"end_time"`
	TimeLimit       *Duration        `json:"timeLimit,omitempty" db:"time_limit"`
	Description     string           `json:"description" db:"description"`
	OgImage         string           `json:"ogImage" db:"og_image"`
	TagIDs          []int64          `json:"tags" db:"-"`
	Summary         string           `json:"summary" db:"summary"`
	IsRated         bool             `json:"isRated" db:"is_rated"`
	RateAll         bool             `json:"rateAll" db:"rate_all"`
	RateExcludeIDs  []int64          `json:"rateExclude" db:"-"`
	IsPrivate       bool             `json:"isPrivate" db:"is_private"`
	OrganizationIDs []int64          `json:"organizations" db:"-"`
	UserCount       int              `json:"userCount" db:"user_count"`
	Problems        []ContestProblem `json:"problems" db:"-"`
}

// IsOrganizer reports whether profileID is one of the contest organizers
func (c *Contest) IsOrganizer(profileID int64) bool {
	for _, id := range c.OrganizerIDs {
		if id == profileID {
			return true
		}
	}
	return false
}

// ContestProblem is an ordered problem inside a contest
type ContestProblem struct {
	ID                   int64 `json:"id" db:"id"`
	ContestID            int64 `json:"contestId" db:"contest_id"`
	ProblemID            int64 `json:"problemId" db:"problem_id"`
	Points               int   `json:"points" db:"points"`
	Partial              bool  `json:"partial" db:"partial"`
	OutputPrefixOverride *int  `json:"outputPrefixOverride,omitempty" db:"output_prefix_override"`
	Order                int   `json:"order" db:"order"`
}

// ContestTag labels contests
type ContestTag struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" binding:"required,max=20"`
	Color       string  `json:"color" db:"color" binding:"required,hexcolor"`
	Description string  `json:"description" db:"description"`
	ContestIDs  []int64 `json:"contests" db:"-"`
}
