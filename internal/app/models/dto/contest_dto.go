package dto

import (
	"time"

	"github.com/yigit/judgeadmin/internal/app/models"
)

// ContestRequest is the editable field set of the contest change form
type ContestRequest struct {
	Key             string                  `json:"key" binding:"required,entitykey,max=20"`
	Name            string                  `json:"name" binding:"required,max=100"`
	OrganizerIDs    []int64                 `json:"organizers" binding:"required,min=1"`
	IsPublic        bool                    `json:"isPublic"`
	HideProblemTags bool                    `json:"hideProblemTags"`
	RunPretestsOnly bool                    `json:"runPretestsOnly"`
	StartTime       time.Time               `json:"startTime" binding:"required"`
	EndTime         time.Time               `json:"endTime" binding:"required"`
	TimeLimit       *models.Duration        `json:"timeLimit,omitempty"`
	Description     string                  `json:"description"`
	OgImage         string                  `json:"ogImage"`
	TagIDs          []int64                 `json:"tags"`
	Summary         string                  `json:"summary"`
	IsRated         bool                    `json:"isRated"`
	RateAll         bool                    `json:"rateAll"`
	RateExcludeIDs  []int64                 `json:"rateExclude"`
	IsPrivate       bool                    `json:"isPrivate"`
	OrganizationIDs []int64                 `json:"organizations"`
	Problems        []ContestProblemRequest `json:"problems" binding:"dive"`
}

// ContestProblemRequest is one row of the contest problem inline
type ContestProblemRequest struct {
	ProblemID            int64 `json:"problemId" binding:"required"`
	Points               int   `json:"points" binding:"min=0"`
	Partial              bool  `json:"partial"`
	OutputPrefixOverride *int  `json:"outputPrefixOverride,omitempty"`
	Order                int   `json:"order"`
}

// ToModel copies the request onto a contest model
func (r *ContestRequest) ToModel() *models.Contest {
	c := &models.Contest{
		Key:             r.Key,
		Name:            r.Name,
		OrganizerIDs:    r.OrganizerIDs,
		IsPublic:        r.IsPublic,
		HideProblemTags: r.HideProblemTags,
		RunPretestsOnly: r.RunPretestsOnly,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		TimeLimit:       r.TimeLimit,
		Description:     r.Description,
		OgImage:         r.OgImage,
		TagIDs:          r.TagIDs,
		Summary:         r.Summary,
		IsRated:         r.IsRated,
		RateAll:         r.RateAll,
		RateExcludeIDs:  r.RateExcludeIDs,
		IsPrivate:       r.IsPrivate,
		OrganizationIDs: r.OrganizationIDs,
	}
	for _, p := range r.Problems {
		c.Problems = append(c.Problems, models.ContestProblem{
			ProblemID:            p.ProblemID,
			Points:               p.Points,
			Partial:              p.Partial,
			OutputPrefixOverride: p.OutputPrefixOverride,
			Order:                p.Order,
		})
	}
	return c
}

// ContestForm is the pre-loaded change form of a contest
type ContestForm struct {
	Contest             *models.Contest   `json:"contest,omitempty"`
	ReadonlyFields      []string          `json:"readonlyFields"`
	OrganizerCandidates []*models.Profile `json:"organizerCandidates"`
	RateExcludeChoices  []*models.Profile `json:"rateExcludeChoices"`
	CanChange           bool              `json:"canChange"`
}
