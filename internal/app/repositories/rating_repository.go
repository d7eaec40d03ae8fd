package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// RatingRepository stores computed ratings and the rating cached on profiles
type RatingRepository struct {
	baseRepository
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(pool db.Querier) *RatingRepository {
	return &RatingRepository{baseRepository: newBase(pool)}
}

// RatingParticipant is a live participation considered for rating
type RatingParticipant struct {
	ParticipationID int64   `db:"participation_id"`
	ProfileID       int64   `db:"profile_id"`
	Score           float64 `db:"score"`
	Cumtime         int64   `db:"cumtime"`
	Submissions     int     `db:"submissions"`
}

// DeleteAll removes every rating row and clears every profile rating
func (r *RatingRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.conn(ctx).Exec(ctx, "DELETE FROM ratings"); err != nil {
		return mapError(err, "rating")
	}
	_, err := r.exec(ctx, "profile rating", r.sb.Update("profiles").
		Set("rating", nil).
		Where(squirrel.NotEq{"rating": nil}))
	return err
}

// DeleteFrom removes the ratings of every contest at or after from in (end_time, id)
// order, whether or not that contest is still rated
func (r *RatingRepository) DeleteFrom(ctx context.Context, from *models.Contest) error {
	_, err := r.exec(ctx, "rating", r.sb.Delete("ratings").
		Where("contest_id IN (SELECT c.id FROM contests c WHERE (c.end_time, c.id) >= (?, ?))", from.EndTime, from.ID))
	return err
}

// ResetProfilesToLatest sets every profile rating to its latest surviving rating row, or NULL
func (r *RatingRepository) ResetProfilesToLatest(ctx context.Context) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE profiles p SET rating = (
		SELECT r.rating FROM ratings r JOIN contests c ON c.id = r.contest_id
		WHERE r.profile_id = p.id
		ORDER BY c.end_time DESC, c.id DESC
		LIMIT 1
	)`)
	if err != nil {
		return mapError(err, "profile rating")
	}
	return nil
}

// Participants returns the live participations of a contest with their submission counts
func (r *RatingRepository) Participants(ctx context.Context, contestID int64) ([]*RatingParticipant, error) {
	return selectAll[RatingParticipant](ctx, &r.baseRepository, "rating participant",
		r.sb.Select(
			"cp.id AS participation_id", "cp.profile_id", "cp.score", "cp.cumtime",
			"(SELECT COUNT(*) FROM contest_submissions cs WHERE cs.participation_id = cp.id)::int AS submissions",
		).
			From("contest_participations cp").
			Where(squirrel.Eq{"cp.contest_id": contestID, "cp.virtual": 0}).
			OrderBy("cp.score DESC", "cp.cumtime", "cp.id"))
}

// PreviousRatings returns the latest rating of each profile from contests ordered before c
func (r *RatingRepository) PreviousRatings(ctx context.Context, c *models.Contest, profileIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}
	sql, args, err := r.sb.Select("r.profile_id", "r.rating").
		Options("DISTINCT ON (r.profile_id)").
		From("ratings r").
		Join("contests c ON c.id = r.contest_id").
		Where(squirrel.Eq{"r.profile_id": profileIDs}).
		Where("(c.end_time, c.id) < (?, ?)", c.EndTime, c.ID).
		OrderBy("r.profile_id", "c.end_time DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build previous ratings query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "rating")
	}
	defer rows.Close()
	for rows.Next() {
		var profileID int64
		var rating int
		if err := rows.Scan(&profileID, &rating); err != nil {
			return nil, fmt.Errorf("error scanning rating row: %w", err)
		}
		out[profileID] = rating
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "rating")
	}
	return out, nil
}

// Save inserts the ratings of one contest and caches each new value on its profile
func (r *RatingRepository) Save(ctx context.Context, ratings []*models.Rating) error {
	if len(ratings) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rt := range ratings {
		sql, args, err := r.sb.Insert("ratings").
			Columns("profile_id", "contest_id", "participation_id", "rank", "rating", "performance", "last_rated").
			Values(rt.ProfileID, rt.ContestID, rt.ParticipationID, rt.Rank, rt.Rating, rt.Performance, rt.LastRated).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build rating insert: %w", err)
		}
		batch.Queue(sql, args...)

		sql, args, err = r.sb.Update("profiles").Set("rating", rt.Rating).Where(squirrel.Eq{"id": rt.ProfileID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build profile rating update: %w", err)
		}
		batch.Queue(sql, args...)
	}
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "rating")
	}
	return nil
}

// ListForContest returns the ratings of a contest by rank
func (r *RatingRepository) ListForContest(ctx context.Context, contestID int64) ([]*models.Rating, error) {
	return selectAll[models.Rating](ctx, &r.baseRepository, "rating",
		r.sb.Select("id", "profile_id", "contest_id", "participation_id", "rank", "rating", "performance", "last_rated").
			From("ratings").
			Where(squirrel.Eq{"contest_id": contestID}).
			OrderBy("rank", "id"))
}
