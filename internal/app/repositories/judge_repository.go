package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// JudgeRepository handles judge rows and their reported capabilities
type JudgeRepository struct {
	baseRepository
}

// NewJudgeRepository creates a new JudgeRepository
func NewJudgeRepository(pool db.Querier) *JudgeRepository {
	return &JudgeRepository{baseRepository: newBase(pool)}
}

var judgeColumns = []string{"id", "name", "auth_key", "created", "online", "start_time", "ping", "load", "last_ip", "description"}

// List returns judges with online ones first, then by name
func (r *JudgeRepository) List(ctx context.Context) ([]*models.Judge, error) {
	sql, args, err := r.sb.Select(judgeColumns...).From("judges").OrderBy("online DESC", "name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list judges query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "judge")
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[models.Judge])
}

// GetByID retrieves a judge with its runtimes and problems
func (r *JudgeRepository) GetByID(ctx context.Context, id int64) (*models.Judge, error) {
	sql, args, err := r.sb.Select(judgeColumns...).From("judges").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get judge query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "judge")
	}
	judge, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[models.Judge])
	if err != nil {
		return nil, mapError(err, "judge")
	}

	runtimeSQL, runtimeArgs, err := r.sb.Select("l.key").
		From("judge_runtimes jr").
		Join("languages l ON l.id = jr.language_id").
		Where(squirrel.Eq{"jr.judge_id": id}).
		OrderBy("l.key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build judge runtimes query: %w", err)
	}
	rows, err = r.conn(ctx).Query(ctx, runtimeSQL, runtimeArgs...)
	if err != nil {
		return nil, mapError(err, "judge runtime")
	}
	if judge.Runtimes, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
		return nil, mapError(err, "judge runtime")
	}
	if judge.Problems, err = r.members(ctx, "judge_problems", "judge_id", "problem_id", id); err != nil {
		return nil, err
	}
	return judge, nil
}

// Create inserts a judge and returns its id
func (r *JudgeRepository) Create(ctx context.Context, j *models.Judge) (int64, error) {
	return r.insertID(ctx, "judge", r.sb.Insert("judges").
		Columns("name", "auth_key", "description").
		Values(j.Name, j.AuthKey, j.Description))
}

// Update saves the admin-editable fields. The name of a judge that is online when the
// statement runs is left unchanged.
func (r *JudgeRepository) Update(ctx context.Context, j *models.Judge) error {
	n, err := r.exec(ctx, "judge", r.sb.Update("judges").
		Set("name", squirrel.Expr("CASE WHEN online THEN name ELSE ? END", j.Name)).
		Set("auth_key", j.AuthKey).
		Set("description", j.Description).
		Where(squirrel.Eq{"id": j.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "judge")
	}
	return err
}

// SetAuthKey replaces the key a judge authenticates with
func (r *JudgeRepository) SetAuthKey(ctx context.Context, id int64, key string) error {
	n, err := r.exec(ctx, "judge", r.sb.Update("judges").Set("auth_key", key).Where(squirrel.Eq{"id": id}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "judge")
	}
	return err
}

// DeleteOffline removes a judge only if it is offline and reports whether a row was deleted
func (r *JudgeRepository) DeleteOffline(ctx context.Context, id int64) (bool, error) {
	n, err := r.exec(ctx, "judge", r.sb.Delete("judges").Where(squirrel.Eq{"id": id, "online": false}))
	return n > 0, err
}
