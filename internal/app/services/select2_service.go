package services

import (
	"context"
	"fmt"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// Select2 search targets, the last path segment of the search endpoint
const (
	Select2Problems      = "problems"
	Select2Profiles      = "profiles"
	Select2Organizations = "organizations"
	Select2Contests      = "contests"
)

// ProblemSearcher finds problems for selection widgets
type ProblemSearcher interface {
	Search(ctx context.Context, term string, page repositories.Page) ([]*models.Problem, error)
}

// ProfileSearcher finds profiles and organizations for selection widgets
type ProfileSearcher interface {
	Search(ctx context.Context, term string, page repositories.Page) ([]*models.Profile, error)
	SearchOrganizations(ctx context.Context, term string, page repositories.Page) ([]*models.Organization, error)
}

// ContestSearcher finds contests in scope for selection widgets
type ContestSearcher interface {
	Search(ctx context.Context, scope auth.Scope, term string, page repositories.Page) ([]*models.Contest, error)
}

// Select2Service answers remote search requests of multi-select widgets
type Select2Service interface {
	Search(ctx context.Context, actor *auth.Actor, view, term string, page int) (*dto.Select2Response, error)
}

type select2ServiceImpl struct {
	problems ProblemSearcher
	profiles ProfileSearcher
	contests ContestSearcher
	pageSize int
}

// NewSelect2Service creates a new select2 service instance
func NewSelect2Service(problems ProblemSearcher, profiles ProfileSearcher, contests ContestSearcher, pageSize int) Select2Service {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &select2ServiceImpl{problems: problems, profiles: profiles, contests: contests, pageSize: pageSize}
}

// Search returns one page of matches. One extra row is fetched to report whether more exist.
func (s *select2ServiceImpl) Search(ctx context.Context, actor *auth.Actor, view, term string, page int) (*dto.Select2Response, error) {
	if actor == nil || !(actor.IsStaff || actor.IsSuperuser) {
		return nil, apperrors.NewForbiddenError("staff access required")
	}
	if page < 1 {
		page = 1
	}
	p := repositories.Page{Offset: uint64((page - 1) * s.pageSize), Limit: uint64(s.pageSize + 1)}

	var items []dto.Select2Item
	switch view {
	case Select2Problems:
		found, err := s.problems.Search(ctx, term, p)
		if err != nil {
			return nil, err
		}
		for _, pr := range found {
			items = append(items, dto.Select2Item{ID: pr.ID, Text: pr.Name})
		}
	case Select2Profiles:
		found, err := s.profiles.Search(ctx, term, p)
		if err != nil {
			return nil, err
		}
		for _, pf := range found {
			items = append(items, dto.Select2Item{ID: pf.ID, Text: pf.LongDisplayName()})
		}
	case Select2Organizations:
		found, err := s.profiles.SearchOrganizations(ctx, term, p)
		if err != nil {
			return nil, err
		}
		for _, o := range found {
			items = append(items, dto.Select2Item{ID: o.ID, Text: o.Name})
		}
	case Select2Contests:
		found, err := s.contests.Search(ctx, auth.ScopeFor(actor, auth.EntityContest), term, p)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			items = append(items, dto.Select2Item{ID: c.ID, Text: c.Name})
		}
	default:
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("unknown data view %q", view))
	}

	resp := &dto.Select2Response{Results: items, More: len(items) > s.pageSize}
	if resp.More {
		resp.Results = items[:s.pageSize]
	}
	if resp.Results == nil {
		resp.Results = []dto.Select2Item{}
	}
	return resp, nil
}
