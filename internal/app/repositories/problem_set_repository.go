package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// ProblemSetRepository stores one kind of problem set and its membership table
type ProblemSetRepository struct {
	baseRepository
	table       string
	memberTable string
	ownerCol    string
	what        string
}

// NewProblemGroupRepository stores problem groups
func NewProblemGroupRepository(pool db.Querier) *ProblemSetRepository {
	return &ProblemSetRepository{
		baseRepository: newBase(pool),
		table:          "problem_groups",
		memberTable:    "problem_group_members",
		ownerCol:       "group_id",
		what:           "problem group",
	}
}

// NewProblemTypeRepository stores problem types
func NewProblemTypeRepository(pool db.Querier) *ProblemSetRepository {
	return &ProblemSetRepository{
		baseRepository: newBase(pool),
		table:          "problem_types",
		memberTable:    "problem_type_members",
		ownerCol:       "type_id",
		what:           "problem type",
	}
}

// List returns every set ordered by name
func (r *ProblemSetRepository) List(ctx context.Context) ([]*models.ProblemSet, error) {
	sql, args, err := r.sb.Select("id", "name", "full_name").From(r.table).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list %s query: %w", r.what, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, r.what)
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.ProblemSet])
}

// GetByID retrieves a set with its members
func (r *ProblemSetRepository) GetByID(ctx context.Context, id int64) (*models.ProblemSet, error) {
	sql, args, err := r.sb.Select("id", "name", "full_name").From(r.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", r.what, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, r.what)
	}
	set, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.ProblemSet])
	if err != nil {
		return nil, mapError(err, r.what)
	}
	if set.ProblemIDs, err = r.members(ctx, r.memberTable, r.ownerCol, "problem_id", id); err != nil {
		return nil, err
	}
	return set, nil
}

// Create inserts a set and returns its id
func (r *ProblemSetRepository) Create(ctx context.Context, s *models.ProblemSet) (int64, error) {
	return r.insertID(ctx, r.what, r.sb.Insert(r.table).Columns("name", "full_name").Values(s.Name, s.FullName))
}

// Update saves name and full name
func (r *ProblemSetRepository) Update(ctx context.Context, s *models.ProblemSet) error {
	n, err := r.exec(ctx, r.what, r.sb.Update(r.table).
		Set("name", s.Name).
		Set("full_name", s.FullName).
		Where(squirrel.Eq{"id": s.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, r.what)
	}
	return err
}

// Delete removes a set
func (r *ProblemSetRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, r.what, r.sb.Delete(r.table).Where(squirrel.Eq{"id": id}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, r.what)
	}
	return err
}

// SetProblems replaces the member problems
func (r *ProblemSetRepository) SetProblems(ctx context.Context, id int64, problemIDs []int64) error {
	return r.replaceMembers(ctx, r.memberTable, r.ownerCol, "problem_id", id, problemIDs)
}
