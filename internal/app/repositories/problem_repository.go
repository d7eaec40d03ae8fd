package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// ProblemRepository reads problems as selection targets
type ProblemRepository struct {
	baseRepository
}

// NewProblemRepository creates a new ProblemRepository
func NewProblemRepository(pool db.Querier) *ProblemRepository {
	return &ProblemRepository{baseRepository: newBase(pool)}
}

// ListAllIDs returns every problem id
func (r *ProblemRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	return r.queryIDs(ctx, "problem", r.sb.Select("id").From("problems").OrderBy("id"))
}

// Search matches problems by code or name
func (r *ProblemRepository) Search(ctx context.Context, term string, page Page) ([]*models.Problem, error) {
	q := r.sb.Select("id", "code", "name", "points").From("problems").OrderBy("code")
	if term != "" {
		q = q.Where(ilike(term, "code", "name"))
	}
	sql, args, err := page.apply(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build problem search query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "problem")
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Problem])
}

// ExistingIDs filters ids down to the problems that exist
func (r *ProblemRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryIDs(ctx, "problem", r.sb.Select("id").From("problems").Where(squirrel.Eq{"id": ids}).OrderBy("id"))
}
