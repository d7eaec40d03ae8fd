package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/db"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/dberrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// baseRepository holds the pool and the statement builder shared by every repository.
// Queries run on the transaction carried by ctx when there is one.
type baseRepository struct {
	pool db.Querier
	sb   squirrel.StatementBuilderType
}

func newBase(pool db.Querier) baseRepository {
	return baseRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *baseRepository) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

// exec runs a statement and returns the number of affected rows
func (r *baseRepository) exec(ctx context.Context, what string, b squirrel.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error building SQL")
		return 0, fmt.Errorf("failed to build %s query: %w", what, err)
	}
	tag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err, what)
	}
	return tag.RowsAffected(), nil
}

// insertID runs an INSERT ... RETURNING id
func (r *baseRepository) insertID(ctx context.Context, what string, b squirrel.InsertBuilder) (int64, error) {
	sql, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error building SQL")
		return 0, fmt.Errorf("failed to build %s query: %w", what, err)
	}
	var id int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, mapError(err, what)
	}
	return id, nil
}

// count runs a SELECT COUNT(*) over b
func (r *baseRepository) count(ctx context.Context, what string, b squirrel.SelectBuilder) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s count query: %w", what, err)
	}
	var total int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, mapError(err, what)
	}
	return total, nil
}

// queryIDs returns the single int64 column selected by b
func (r *baseRepository) queryIDs(ctx context.Context, what string, b squirrel.SelectBuilder) ([]int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapError(err, what)
	}
	return ids, nil
}

// members lists the member ids of owner in a join table
func (r *baseRepository) members(ctx context.Context, table, ownerCol, memberCol string, ownerID int64) ([]int64, error) {
	return r.queryIDs(ctx, table, r.sb.Select(memberCol).
		From(table).
		Where(squirrel.Eq{ownerCol: ownerID}).
		OrderBy(memberCol))
}

// membersOf lists members for several owners at once
func (r *baseRepository) membersOf(ctx context.Context, table, ownerCol, memberCol string, ownerIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	sql, args, err := r.sb.Select(ownerCol, memberCol).
		From(table).
		Where(squirrel.Eq{ownerCol: ownerIDs}).
		OrderBy(ownerCol, memberCol).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", table, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, table)
	}
	defer rows.Close()
	for rows.Next() {
		var owner, member int64
		if err := rows.Scan(&owner, &member); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", table, err)
		}
		out[owner] = append(out[owner], member)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, table)
	}
	return out, nil
}

// replaceMembers makes ids the exact member set of owner. It must run inside a transaction.
func (r *baseRepository) replaceMembers(ctx context.Context, table, ownerCol, memberCol string, ownerID int64, ids []int64) error {
	if _, err := r.exec(ctx, table, r.sb.Delete(table).Where(squirrel.Eq{ownerCol: ownerID})); err != nil {
		return err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	ins := r.sb.Insert(table).Columns(ownerCol, memberCol)
	for _, id := range ids {
		ins = ins.Values(ownerID, id)
	}
	_, err := r.exec(ctx, table, ins)
	return err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// mapError converts driver errors to application errors
func mapError(err error, what string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewResourceNotFoundError(what + " not found")
	case dberrors.IsDuplicateConstraintError(err, "contests_key_key"):
		return apperrors.NewCustomError(apperrors.ErrContestAlreadyExists, "contest with this key already exists")
	case dberrors.IsDuplicateKeyError(err):
		return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, what+" already exists")
	case dberrors.IsForeignKeyError(err):
		return apperrors.NewValidationError(what, "references a row that does not exist")
	case dberrors.IsLockNotAvailable(err):
		return apperrors.NewConflictError(what + " is locked by another writer")
	}
	logger.Error().Err(err).Str("query", what).Msg("Database error")
	return fmt.Errorf("%s query failed: %w", what, err)
}

// ilike builds a case-insensitive OR search over columns
func ilike(term string, columns ...string) squirrel.Or {
	or := squirrel.Or{}
	for _, c := range columns {
		or = append(or, squirrel.ILike{c: "%" + term + "%"})
	}
	return or
}

// Page restricts a list query
type Page struct {
	Offset uint64
	Limit  uint64
}

func (p Page) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if p.Limit > 0 {
		b = b.Limit(p.Limit)
	}
	if p.Offset > 0 {
		b = b.Offset(p.Offset)
	}
	return b
}

// selectAll scans every row of b into T by column name
func selectAll[T any](ctx context.Context, r *baseRepository, what string, b squirrel.SelectBuilder) ([]*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, mapError(err, what)
	}
	return items, nil
}

// selectOne scans exactly one row of b into T, or reports what as not found
func selectOne[T any](ctx context.Context, r *baseRepository, what string, b squirrel.SelectBuilder) (*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, what)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, mapError(err, what)
	}
	return item, nil
}

// deleteByID removes one row of table, reporting what as not found when nothing matched
func (r *baseRepository) deleteByID(ctx context.Context, table, what string, id int64) error {
	n, err := r.exec(ctx, what, r.sb.Delete(table).Where(squirrel.Eq{"id": id}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, what)
	}
	return err
}
