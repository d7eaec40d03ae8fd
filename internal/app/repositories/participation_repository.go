package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// ParticipationRepository handles contest participations and their submissions
type ParticipationRepository struct {
	baseRepository
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(pool db.Querier) *ParticipationRepository {
	return &ParticipationRepository{baseRepository: newBase(pool)}
}

// ParticipationFilter narrows the participation change list
type ParticipationFilter struct {
	Search    string
	ContestID *int64
	Page      Page
}

func (r *ParticipationRepository) selectParticipations() squirrel.SelectBuilder {
	return r.sb.Select(
		"cp.id", "cp.contest_id", "cp.profile_id", "cp.real_start", "cp.virtual", "cp.score", "cp.cumtime",
		"c.name AS contest_name", "c.key AS contest_key", "u.username",
	).
		From("contest_participations cp").
		Join("contests c ON c.id = cp.contest_id").
		Join("profiles p ON p.id = cp.profile_id").
		Join("users u ON u.id = p.user_id")
}

func (f ParticipationFilter) where() squirrel.And {
	where := squirrel.And{}
	if f.Search != "" {
		where = append(where, ilike(f.Search, "c.key", "c.name", "u.username"))
	}
	if f.ContestID != nil {
		where = append(where, squirrel.Eq{"cp.contest_id": *f.ContestID})
	}
	return where
}

// List returns a page of participations and the total count
func (r *ParticipationRepository) List(ctx context.Context, f ParticipationFilter) ([]*models.ContestParticipation, int64, error) {
	total, err := r.count(ctx, "participation", r.sb.Select("COUNT(*)").
		From("contest_participations cp").
		Join("contests c ON c.id = cp.contest_id").
		Join("profiles p ON p.id = cp.profile_id").
		Join("users u ON u.id = p.user_id").
		Where(f.where()))
	if err != nil {
		return nil, 0, err
	}
	items, err := selectAll[models.ContestParticipation](ctx, &r.baseRepository, "participation",
		f.Page.apply(r.selectParticipations().Where(f.where()).OrderBy("cp.real_start DESC", "cp.id DESC")))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID retrieves a participation
func (r *ParticipationRepository) GetByID(ctx context.Context, id int64) (*models.ContestParticipation, error) {
	return selectOne[models.ContestParticipation](ctx, &r.baseRepository, "participation",
		r.selectParticipations().Where(squirrel.Eq{"cp.id": id}))
}

// GetMany retrieves the participations among ids that exist
func (r *ParticipationRepository) GetMany(ctx context.Context, ids []int64) ([]*models.ContestParticipation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return selectAll[models.ContestParticipation](ctx, &r.baseRepository, "participation",
		r.selectParticipations().Where(squirrel.Eq{"cp.id": ids}).OrderBy("cp.id"))
}

// Create inserts a participation
func (r *ParticipationRepository) Create(ctx context.Context, p *models.ContestParticipation) (int64, error) {
	return r.insertID(ctx, "participation", r.sb.Insert("contest_participations").
		Columns("contest_id", "profile_id", "real_start", "virtual").
		Values(p.ContestID, p.ProfileID, p.RealStart, p.Virtual))
}

// Update saves the editable participation fields
func (r *ParticipationRepository) Update(ctx context.Context, p *models.ContestParticipation) error {
	n, err := r.exec(ctx, "participation", r.sb.Update("contest_participations").
		Set("contest_id", p.ContestID).
		Set("profile_id", p.ProfileID).
		Set("real_start", p.RealStart).
		Set("virtual", p.Virtual).
		Where(squirrel.Eq{"id": p.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "participation")
	}
	return err
}

// Delete removes a participation
func (r *ParticipationRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "contest_participations", "participation", id)
}

// Submissions returns the submissions of each participation in submission order
func (r *ParticipationRepository) Submissions(ctx context.Context, participationIDs []int64) (map[int64][]*models.ContestSubmission, error) {
	out := make(map[int64][]*models.ContestSubmission, len(participationIDs))
	if len(participationIDs) == 0 {
		return out, nil
	}
	subs, err := selectAll[models.ContestSubmission](ctx, &r.baseRepository, "contest submission",
		r.sb.Select("id", "participation_id", "contest_problem_id", "points", "submitted_at").
			From("contest_submissions").
			Where(squirrel.Eq{"participation_id": participationIDs}).
			OrderBy("submitted_at", "id"))
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		out[s.ParticipationID] = append(out[s.ParticipationID], s)
	}
	return out, nil
}

// SaveScores writes score for every participation in one batch
func (r *ParticipationRepository) SaveScores(ctx context.Context, items []*models.ContestParticipation) error {
	return r.saveColumn(ctx, "score", items, func(p *models.ContestParticipation) interface{} { return p.Score })
}

// SaveCumtimes writes cumtime for every participation in one batch
func (r *ParticipationRepository) SaveCumtimes(ctx context.Context, items []*models.ContestParticipation) error {
	return r.saveColumn(ctx, "cumtime", items, func(p *models.ContestParticipation) interface{} { return p.Cumtime })
}

func (r *ParticipationRepository) saveColumn(ctx context.Context, column string, items []*models.ContestParticipation, value func(*models.ContestParticipation) interface{}) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range items {
		sql, args, err := r.sb.Update("contest_participations").
			Set(column, value(p)).
			Where(squirrel.Eq{"id": p.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build participation %s update: %w", column, err)
		}
		batch.Queue(sql, args...)
	}
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "participation")
	}
	return nil
}
