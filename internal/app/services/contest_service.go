package services

import (
	"context"

	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// ContestStore persists contests. Every lookup is narrowed by scope.
type ContestStore interface {
	List(ctx context.Context, scope auth.Scope, f repositories.ContestFilter) ([]*models.Contest, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id int64) (*models.Contest, error)
	Create(ctx context.Context, c *models.Contest) (int64, error)
	Update(ctx context.Context, c *models.Contest) error
	Delete(ctx context.Context, id int64) error
	SetPublic(ctx context.Context, scope auth.Scope, ids []int64, public bool) (int64, error)
	OrganizerCandidates(ctx context.Context) ([]*models.Profile, error)
	Participants(ctx context.Context, contestID int64) ([]*models.Profile, error)
}

// ContestService manages contests and their problem inline
type ContestService interface {
	List(ctx context.Context, actor *auth.Actor, f repositories.ContestFilter) ([]*models.Contest, int64, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.ContestForm, error)
	Create(ctx context.Context, actor *auth.Actor, c *models.Contest) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, c *models.Contest) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
	SetPublic(ctx context.Context, actor *auth.Actor, ids []int64, public bool) (int, error)
}

type contestServiceImpl struct {
	tx    Transactor
	store ContestStore
}

// NewContestService creates a new contest service instance
func NewContestService(tx Transactor, store ContestStore) ContestService {
	return &contestServiceImpl{tx: tx, store: store}
}

// ContestReadonlyFields returns the contest fields actor may not edit
func ContestReadonlyFields(actor *auth.Actor) []string {
	if actor.Has(auth.CapContestRating) {
		return []string{}
	}
	return append([]string(nil), admin.ContestRatingFields...)
}

func (s *contestServiceImpl) List(ctx context.Context, actor *auth.Actor, f repositories.ContestFilter) ([]*models.Contest, int64, error) {
	if err := requireView(actor, auth.EntityContest); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, auth.ScopeFor(actor, auth.EntityContest), f)
}

// LoadForm loads the contest with its organizer candidates and the profiles that may be excluded from rating
func (s *contestServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.ContestForm, error) {
	form := &dto.ContestForm{
		ReadonlyFields:     ContestReadonlyFields(actor),
		RateExcludeChoices: []*models.Profile{},
	}
	if id == nil {
		if err := requireAdd(actor, auth.EntityContest); err != nil {
			return nil, err
		}
		form.CanChange = true
	} else {
		if err := requireView(actor, auth.EntityContest); err != nil {
			return nil, err
		}
		c, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityContest), *id)
		if err != nil {
			return nil, err
		}
		form.Contest = c
		form.CanChange = auth.CanChange(actor, auth.EntityContest, ownerSet(c.OrganizerIDs))
		if form.RateExcludeChoices, err = s.store.Participants(ctx, c.ID); err != nil {
			return nil, err
		}
	}

	candidates, err := s.store.OrganizerCandidates(ctx)
	if err != nil {
		return nil, err
	}
	form.OrganizerCandidates = candidates
	return form, nil
}

func (s *contestServiceImpl) validate(ctx context.Context, c *models.Contest) error {
	if !c.StartTime.Before(c.EndTime) {
		return apperrors.NewValidationError("endTime", "a contest must end after it starts")
	}
	if c.TimeLimit != nil && c.TimeLimit.Duration <= 0 {
		return apperrors.NewValidationError("timeLimit", "time limit must be positive")
	}
	seen := make(map[int64]bool, len(c.Problems))
	for _, p := range c.Problems {
		if seen[p.ProblemID] {
			return apperrors.NewValidationError("problems", "a problem may appear only once in a contest")
		}
		seen[p.ProblemID] = true
	}

	candidates, err := s.store.OrganizerCandidates(ctx)
	if err != nil {
		return err
	}
	if !subsetOf(c.OrganizerIDs, profileIDs(candidates)) {
		return apperrors.NewValidationError("organizers", "organizers must be able to edit contests")
	}

	if len(c.RateExcludeIDs) > 0 {
		var participants []*models.Profile
		if c.ID != 0 {
			if participants, err = s.store.Participants(ctx, c.ID); err != nil {
				return err
			}
		}
		if !subsetOf(c.RateExcludeIDs, profileIDs(participants)) {
			return apperrors.NewValidationError("rateExclude", "only participants can be excluded from rating")
		}
	}
	return nil
}

func (s *contestServiceImpl) Create(ctx context.Context, actor *auth.Actor, c *models.Contest) (int64, error) {
	if err := requireAdd(actor, auth.EntityContest); err != nil {
		return 0, err
	}
	c.ID = 0
	if !actor.Has(auth.CapContestRating) {
		c.IsRated, c.RateAll, c.RateExcludeIDs = false, false, nil
	}
	if err := s.validate(ctx, c); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.store.Create(ctx, c)
		return err
	})
	if err != nil {
		return 0, err
	}
	logger.Info().Int64("contestID", id).Str("key", c.Key).Int64("userID", actor.UserID).Msg("Contest created")
	return id, nil
}

// Update saves a contest in the actor's scope. Rating fields are kept as stored without contest_rating.
func (s *contestServiceImpl) Update(ctx context.Context, actor *auth.Actor, c *models.Contest) error {
	if err := requireView(actor, auth.EntityContest); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityContest), c.ID)
	if err != nil {
		return err
	}
	if err := requireChange(actor, auth.EntityContest, ownerSet(current.OrganizerIDs)); err != nil {
		return err
	}
	if !actor.Has(auth.CapContestRating) {
		c.IsRated, c.RateAll, c.RateExcludeIDs = current.IsRated, current.RateAll, current.RateExcludeIDs
	}
	if err := s.validate(ctx, c); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, c)
	})
}

func (s *contestServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireView(actor, auth.EntityContest); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityContest), id)
	if err != nil {
		return err
	}
	if err := requireDelete(actor, auth.EntityContest, ownerSet(current.OrganizerIDs)); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// SetPublic marks the selected contests inside the actor's scope public or private
func (s *contestServiceImpl) SetPublic(ctx context.Context, actor *auth.Actor, ids []int64, public bool) (int, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	if err := requireChange(actor, auth.EntityContest, nil); err != nil {
		return 0, err
	}
	n, err := s.store.SetPublic(ctx, auth.ScopeFor(actor, auth.EntityContest), ids, public)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func profileIDs(profiles []*models.Profile) []int64 {
	ids := make([]int64, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}

func subsetOf(ids, allowed []int64) bool {
	set := make(map[int64]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
