package services

import (
	"context"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// RatingStore persists rating history and the rating cached on profiles
type RatingStore interface {
	DeleteAll(ctx context.Context) error
	DeleteFrom(ctx context.Context, from *models.Contest) error
	ResetProfilesToLatest(ctx context.Context) error
	Participants(ctx context.Context, contestID int64) ([]*repositories.RatingParticipant, error)
	PreviousRatings(ctx context.Context, c *models.Contest, profileIDs []int64) (map[int64]int, error)
	Save(ctx context.Context, ratings []*models.Rating) error
}

// RatedContestStore lists rated contests in rating order
type RatedContestStore interface {
	GetByID(ctx context.Context, scope auth.Scope, id int64) (*models.Contest, error)
	ListRated(ctx context.Context, from *models.Contest) ([]*models.Contest, error)
}

// RatingCalculator rates one contest against the history stored before it
type RatingCalculator interface {
	RateContest(ctx context.Context, c *models.Contest) (int, error)
}

// EloCalculator is the default RatingCalculator
type EloCalculator struct {
	store         RatingStore
	defaultRating int
}

// NewEloCalculator creates a calculator that starts unrated profiles at defaultRating
func NewEloCalculator(store RatingStore, defaultRating int) *EloCalculator {
	return &EloCalculator{store: store, defaultRating: defaultRating}
}

// RateContest rates the live, non-excluded participations of c. Unless c rates everyone,
// only participations with at least one submission count. It returns the number of ratings written.
func (e *EloCalculator) RateContest(ctx context.Context, c *models.Contest) (int, error) {
	participants, err := e.store.Participants(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	excluded := make(map[int64]struct{}, len(c.RateExcludeIDs))
	for _, id := range c.RateExcludeIDs {
		excluded[id] = struct{}{}
	}

	byProfile := make(map[int64]*repositories.RatingParticipant, len(participants))
	ids := make([]int64, 0, len(participants))
	for _, p := range participants {
		if _, skip := excluded[p.ProfileID]; skip {
			continue
		}
		if !c.RateAll && p.Submissions == 0 {
			continue
		}
		byProfile[p.ProfileID] = p
		ids = append(ids, p.ProfileID)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	previous, err := e.store.PreviousRatings(ctx, c, ids)
	if err != nil {
		return 0, err
	}
	entries := make([]EloEntry, 0, len(ids))
	for _, id := range ids {
		rating, ok := previous[id]
		if !ok {
			rating = e.defaultRating
		}
		p := byProfile[id]
		entries = append(entries, EloEntry{Key: id, Score: p.Score, Cumtime: p.Cumtime, Rating: rating})
	}

	results := ComputeElo(entries)
	ratings := make([]*models.Rating, 0, len(results))
	for _, r := range results {
		ratings = append(ratings, &models.Rating{
			ProfileID:       r.Key,
			ContestID:       c.ID,
			ParticipationID: byProfile[r.Key].ParticipationID,
			Rank:            r.Rank,
			Rating:          r.Rating,
			Performance:     r.Performance,
			LastRated:       c.EndTime,
		})
	}
	if err := e.store.Save(ctx, ratings); err != nil {
		return 0, err
	}
	return len(ratings), nil
}

// RatingService recomputes rating history
type RatingService interface {
	RateAll(ctx context.Context, actor *auth.Actor) (int, error)
	RateFrom(ctx context.Context, actor *auth.Actor, contestID int64) (int, error)
}

type ratingServiceImpl struct {
	tx         Transactor
	ratings    RatingStore
	contests   RatedContestStore
	calculator RatingCalculator
}

// NewRatingService creates a new rating service instance
func NewRatingService(tx Transactor, ratings RatingStore, contests RatedContestStore, calculator RatingCalculator) RatingService {
	return &ratingServiceImpl{tx: tx, ratings: ratings, contests: contests, calculator: calculator}
}

func requireRating(actor *auth.Actor) error {
	if !actor.Has(auth.CapContestRating) {
		return apperrors.NewForbiddenError("contest rating permission required")
	}
	return nil
}

// RateAll clears every rating and rates every rated contest in order. It returns the number of contests rated.
func (s *ratingServiceImpl) RateAll(ctx context.Context, actor *auth.Actor) (int, error) {
	if err := requireRating(actor); err != nil {
		return 0, err
	}
	started := time.Now()
	var contests []*models.Contest
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ratings.DeleteAll(ctx); err != nil {
			return err
		}
		var err error
		if contests, err = s.contests.ListRated(ctx, nil); err != nil {
			return err
		}
		return s.rate(ctx, contests)
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", actor.UserID).Msg("Rating recomputation failed")
		return 0, err
	}
	logger.Info().
		Int("contests", len(contests)).
		Dur("took", time.Since(started)).
		Int64("userID", actor.UserID).
		Msg("All ratings recomputed")
	return len(contests), nil
}

// RateFrom deletes and recomputes the ratings of contestID and every rated contest after it
func (s *ratingServiceImpl) RateFrom(ctx context.Context, actor *auth.Actor, contestID int64) (int, error) {
	if err := requireRating(actor); err != nil {
		return 0, err
	}
	anchor, err := s.contests.GetByID(ctx, auth.Scope{All: true}, contestID)
	if err != nil {
		return 0, err
	}
	if !anchor.IsRated {
		return 0, apperrors.NewCustomError(apperrors.ErrContestNotRated, "contest is not rated")
	}

	var contests []*models.Contest
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.ratings.DeleteFrom(ctx, anchor); err != nil {
			return err
		}
		var err error
		if contests, err = s.contests.ListRated(ctx, anchor); err != nil {
			return err
		}
		if err := s.ratings.ResetProfilesToLatest(ctx); err != nil {
			return err
		}
		return s.rate(ctx, contests)
	})
	if err != nil {
		logger.Error().Err(err).Int64("contestID", contestID).Msg("Rating recomputation failed")
		return 0, err
	}
	logger.Info().
		Int64("contestID", contestID).
		Int("contests", len(contests)).
		Int64("userID", actor.UserID).
		Msg("Ratings recomputed from contest")
	return len(contests), nil
}

func (s *ratingServiceImpl) rate(ctx context.Context, contests []*models.Contest) error {
	for _, c := range contests {
		n, err := s.calculator.RateContest(ctx, c)
		if err != nil {
			return err
		}
		logger.Debug().Int64("contestID", c.ID).Int("ratings", n).Msg("Contest rated")
	}
	return nil
}
