package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// NavigationRepository handles the navigation bar tree table
type NavigationRepository struct {
	baseRepository
}

// NewNavigationRepository creates a new NavigationRepository
func NewNavigationRepository(pool db.Querier) *NavigationRepository {
	return &NavigationRepository{baseRepository: newBase(pool)}
}

var navigationColumns = []string{"id", "key", "label", "path", `"order"`, "regex", "parent_id", "lft", "rght", "level", "tree_id"}

// List returns every entry in tree order
func (r *NavigationRepository) List(ctx context.Context) ([]*models.NavigationBar, error) {
	sql, args, err := r.sb.Select(navigationColumns...).From("navigation_bars").OrderBy("tree_id", "lft", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list navigation query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "navigation entry")
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.NavigationBar])
}

// GetByID retrieves one entry
func (r *NavigationRepository) GetByID(ctx context.Context, id int64) (*models.NavigationBar, error) {
	sql, args, err := r.sb.Select(navigationColumns...).From("navigation_bars").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get navigation query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "navigation entry")
	}
	nav, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.NavigationBar])
	if err != nil {
		return nil, mapError(err, "navigation entry")
	}
	return nav, nil
}

// Create inserts an entry without touching tree fields
func (r *NavigationRepository) Create(ctx context.Context, n *models.NavigationBar) (int64, error) {
	return r.insertID(ctx, "navigation entry", r.sb.Insert("navigation_bars").
		Columns("key", "label", "path", `"order"`, "regex", "parent_id").
		Values(n.Key, n.Label, n.Path, n.Order, n.Regex, n.ParentID))
}

// Update saves the editable fields of an entry without touching tree fields
func (r *NavigationRepository) Update(ctx context.Context, n *models.NavigationBar) error {
	affected, err := r.exec(ctx, "navigation entry", r.sb.Update("navigation_bars").
		Set("key", n.Key).
		Set("label", n.Label).
		Set("path", n.Path).
		Set(`"order"`, n.Order).
		Set("regex", n.Regex).
		Set("parent_id", n.ParentID).
		Where(squirrel.Eq{"id": n.ID}))
	if err == nil && affected == 0 {
		return mapError(pgx.ErrNoRows, "navigation entry")
	}
	return err
}

// Delete removes an entry and, through the foreign key, its subtree
func (r *NavigationRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.exec(ctx, "navigation entry", r.sb.Delete("navigation_bars").Where(squirrel.Eq{"id": id}))
	if err == nil && affected == 0 {
		return mapError(pgx.ErrNoRows, "navigation entry")
	}
	return err
}

// LockTree takes an exclusive lock on the table for the rest of the transaction.
// Concurrent readers proceed; every other writer waits.
func (r *NavigationRepository) LockTree(ctx context.Context, timeout time.Duration) error {
	if !db.InTransaction(ctx) {
		return fmt.Errorf("navigation tree lock requires a transaction")
	}
	conn := r.conn(ctx)
	if timeout > 0 {
		if _, err := conn.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", timeout.Milliseconds())); err != nil {
			return mapError(err, "navigation tree")
		}
	}
	if _, err := conn.Exec(ctx, "LOCK TABLE navigation_bars IN EXCLUSIVE MODE"); err != nil {
		return mapError(err, "navigation tree")
	}
	return nil
}

// SaveTreeFields writes parent and nested-set fields of nodes in one batch
func (r *NavigationRepository) SaveTreeFields(ctx context.Context, nodes []*models.NavigationBar) error {
	if len(nodes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, n := range nodes {
		sql, args, err := r.sb.Update("navigation_bars").
			Set("parent_id", n.ParentID).
			Set("lft", n.Lft).
			Set("rght", n.Rght).
			Set("level", n.Level).
			Set("tree_id", n.TreeID).
			Where(squirrel.Eq{"id": n.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build navigation tree update: %w", err)
		}
		batch.Queue(sql, args...)
	}
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapError(err, "navigation tree")
	}
	return nil
}
