package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// LanguageRepository handles languages and their allowed problem sets
type LanguageRepository struct {
	baseRepository
}

// NewLanguageRepository creates a new LanguageRepository
func NewLanguageRepository(pool db.Querier) *LanguageRepository {
	return &LanguageRepository{baseRepository: newBase(pool)}
}

var languageColumns = []string{"id", "key", "name", "short_name", "common_name", "ace", "pygments", "info", "description"}

// List returns every language ordered by key
func (r *LanguageRepository) List(ctx context.Context) ([]*models.Language, error) {
	sql, args, err := r.sb.Select(languageColumns...).From("languages").OrderBy("key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list languages query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "language")
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[models.Language])
}

// GetByID retrieves a language by ID
func (r *LanguageRepository) GetByID(ctx context.Context, id int64) (*models.Language, error) {
	sql, args, err := r.sb.Select(languageColumns...).From("languages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get language query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "language")
	}
	lang, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[models.Language])
	if err != nil {
		return nil, mapError(err, "language")
	}
	return lang, nil
}

// Create inserts a language and returns its id
func (r *LanguageRepository) Create(ctx context.Context, l *models.Language) (int64, error) {
	return r.insertID(ctx, "language", r.sb.Insert("languages").
		Columns(languageColumns[1:]...).
		Values(l.Key, l.Name, l.ShortName, l.CommonName, l.Ace, l.Pygments, l.Info, l.Description))
}

// Update saves the language fields
func (r *LanguageRepository) Update(ctx context.Context, l *models.Language) error {
	n, err := r.exec(ctx, "language", r.sb.Update("languages").
		SetMap(map[string]interface{}{
			"key":         l.Key,
			"name":        l.Name,
			"short_name":  l.ShortName,
			"common_name": l.CommonName,
			"ace":         l.Ace,
			"pygments":    l.Pygments,
			"info":        l.Info,
			"description": l.Description,
		}).
		Where(squirrel.Eq{"id": l.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "language")
	}
	return err
}

// Delete removes a language
func (r *LanguageRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, "language", r.sb.Delete("languages").Where(squirrel.Eq{"id": id}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "language")
	}
	return err
}

// AllowedProblemIDs returns the problems that accept submissions in the language
func (r *LanguageRepository) AllowedProblemIDs(ctx context.Context, languageID int64) ([]int64, error) {
	return r.members(ctx, "language_allowed_problems", "language_id", "problem_id", languageID)
}

// DisallowedProblemIDs returns every problem outside the allowed set
func (r *LanguageRepository) DisallowedProblemIDs(ctx context.Context, languageID int64) ([]int64, error) {
	return r.queryIDs(ctx, "language problem", r.sb.Select("p.id").
		From("problems p").
		Where("NOT EXISTS (SELECT 1 FROM language_allowed_problems lap WHERE lap.problem_id = p.id AND lap.language_id = ?)", languageID).
		OrderBy("p.id"))
}

// SetAllowedProblems replaces the allowed set with every problem not in disallowed
func (r *LanguageRepository) SetAllowedProblems(ctx context.Context, languageID int64, disallowed []int64) error {
	if _, err := r.exec(ctx, "language problem", r.sb.Delete("language_allowed_problems").
		Where(squirrel.Eq{"language_id": languageID})); err != nil {
		return err
	}
	sel := squirrel.Select().Column("?::bigint", languageID).Column("id").From("problems")
	if len(disallowed) > 0 {
		sel = sel.Where(squirrel.NotEq{"id": disallowed})
	}
	_, err := r.exec(ctx, "language problem", r.sb.Insert("language_allowed_problems").
		Columns("language_id", "problem_id").
		Select(sel))
	return err
}
