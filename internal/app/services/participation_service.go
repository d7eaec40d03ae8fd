package services

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/helpers"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// ComputeScore sums the best points reached on each contest problem
func ComputeScore(subs []*models.ContestSubmission) float64 {
	best := bestPoints(subs)
	var total float64
	for _, points := range best {
		total += points
	}
	return total
}

// ComputeCumtime sums, over problems with positive best points, the seconds from start
// to the first submission that reached the best points
func ComputeCumtime(start time.Time, subs []*models.ContestSubmission) int64 {
	best := bestPoints(subs)
	ordered := append([]*models.ContestSubmission(nil), subs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].SubmittedAt.Equal(ordered[j].SubmittedAt) {
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var total int64
	counted := make(map[int64]bool, len(best))
	for _, s := range ordered {
		points := best[s.ContestProblemID]
		if points <= 0 || counted[s.ContestProblemID] || s.Points != points {
			continue
		}
		counted[s.ContestProblemID] = true
		total += helpers.ElapsedSeconds(start, s.SubmittedAt)
	}
	return total
}

func bestPoints(subs []*models.ContestSubmission) map[int64]float64 {
	best := make(map[int64]float64)
	for _, s := range subs {
		if current, ok := best[s.ContestProblemID]; !ok || s.Points > current {
			best[s.ContestProblemID] = s.Points
		}
	}
	return best
}

// ParticipationStore persists participations and reads their submissions
type ParticipationStore interface {
	List(ctx context.Context, f repositories.ParticipationFilter) ([]*models.ContestParticipation, int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContestParticipation, error)
	GetMany(ctx context.Context, ids []int64) ([]*models.ContestParticipation, error)
	Create(ctx context.Context, p *models.ContestParticipation) (int64, error)
	Update(ctx context.Context, p *models.ContestParticipation) error
	Delete(ctx context.Context, id int64) error
	Submissions(ctx context.Context, participationIDs []int64) (map[int64][]*models.ContestSubmission, error)
	SaveScores(ctx context.Context, items []*models.ContestParticipation) error
	SaveCumtimes(ctx context.Context, items []*models.ContestParticipation) error
}

// ParticipationService manages contest participations
type ParticipationService interface {
	List(ctx context.Context, actor *auth.Actor, f repositories.ParticipationFilter) ([]*models.ContestParticipation, int64, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.ContestParticipation, error)
	Create(ctx context.Context, actor *auth.Actor, p *models.ContestParticipation) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, p *models.ContestParticipation) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
	RecalculateScores(ctx context.Context, actor *auth.Actor, ids []int64) (int, error)
	RecalculateCumtime(ctx context.Context, actor *auth.Actor, ids []int64) (int, error)
}

type participationServiceImpl struct {
	tx    Transactor
	store ParticipationStore
}

// NewParticipationService creates a new participation service instance
func NewParticipationService(tx Transactor, store ParticipationStore) ParticipationService {
	return &participationServiceImpl{tx: tx, store: store}
}

func (s *participationServiceImpl) List(ctx context.Context, actor *auth.Actor, f repositories.ParticipationFilter) ([]*models.ContestParticipation, int64, error) {
	if err := requireView(actor, auth.EntityContestParticipation); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, f)
}

func (s *participationServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.ContestParticipation, error) {
	if err := requireView(actor, auth.EntityContestParticipation); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func validateParticipation(p *models.ContestParticipation) error {
	if p.ContestID <= 0 {
		return apperrors.NewValidationError("contestId", "contest is required")
	}
	if p.ProfileID <= 0 {
		return apperrors.NewValidationError("userId", "user is required")
	}
	if p.Virtual < 0 {
		return apperrors.NewValidationError("virtual", "virtual must not be negative")
	}
	return nil
}

func (s *participationServiceImpl) Create(ctx context.Context, actor *auth.Actor, p *models.ContestParticipation) (int64, error) {
	if err := requireAdd(actor, auth.EntityContestParticipation); err != nil {
		return 0, err
	}
	if err := validateParticipation(p); err != nil {
		return 0, err
	}
	if p.RealStart.IsZero() {
		p.RealStart = time.Now()
	}
	return s.store.Create(ctx, p)
}

func (s *participationServiceImpl) Update(ctx context.Context, actor *auth.Actor, p *models.ContestParticipation) error {
	if err := requireChange(actor, auth.EntityContestParticipation, nil); err != nil {
		return err
	}
	if err := validateParticipation(p); err != nil {
		return err
	}
	return s.store.Update(ctx, p)
}

func (s *participationServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityContestParticipation, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// RecalculateScores recomputes the score of every selected participation from its submissions
func (s *participationServiceImpl) RecalculateScores(ctx context.Context, actor *auth.Actor, ids []int64) (int, error) {
	return s.recalculate(ctx, actor, ids, "score", func(p *models.ContestParticipation, subs []*models.ContestSubmission) {
		p.Score = ComputeScore(subs)
	}, s.store.SaveScores)
}

// RecalculateCumtime recomputes the cumulative time of every selected participation
func (s *participationServiceImpl) RecalculateCumtime(ctx context.Context, actor *auth.Actor, ids []int64) (int, error) {
	return s.recalculate(ctx, actor, ids, "cumtime", func(p *models.ContestParticipation, subs []*models.ContestSubmission) {
		p.Cumtime = ComputeCumtime(p.RealStart, subs)
	}, s.store.SaveCumtimes)
}

func (s *participationServiceImpl) recalculate(
	ctx context.Context,
	actor *auth.Actor,
	ids []int64,
	what string,
	apply func(*models.ContestParticipation, []*models.ContestSubmission),
	save func(context.Context, []*models.ContestParticipation) error,
) (int, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	if err := requireChange(actor, auth.EntityContestParticipation, nil); err != nil {
		return 0, err
	}

	var count int
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		items, err := s.store.GetMany(ctx, ids)
		if err != nil {
			return err
		}
		found := make([]int64, 0, len(items))
		for _, p := range items {
			found = append(found, p.ID)
		}
		subs, err := s.store.Submissions(ctx, found)
		if err != nil {
			return err
		}
		for _, p := range items {
			apply(p, subs[p.ID])
		}
		count = len(items)
		return save(ctx, items)
	})
	if err != nil {
		return 0, err
	}
	logger.Info().Str("field", what).Int("count", count).Int64("userID", actor.UserID).Msg("Participations recalculated")
	return count, nil
}
