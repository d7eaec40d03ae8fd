package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// ContestTagRepository handles contest tags and the contests they label
type ContestTagRepository struct {
	baseRepository
}

// NewContestTagRepository creates a new ContestTagRepository
func NewContestTagRepository(pool db.Querier) *ContestTagRepository {
	return &ContestTagRepository{baseRepository: newBase(pool)}
}

// List returns every tag ordered by name
func (r *ContestTagRepository) List(ctx context.Context) ([]*models.ContestTag, error) {
	return selectAll[models.ContestTag](ctx, &r.baseRepository, "contest tag",
		r.sb.Select("id", "name", "color", "description").From("contest_tags").OrderBy("name"))
}

// GetByID retrieves a tag with its contests
func (r *ContestTagRepository) GetByID(ctx context.Context, id int64) (*models.ContestTag, error) {
	tag, err := selectOne[models.ContestTag](ctx, &r.baseRepository, "contest tag",
		r.sb.Select("id", "name", "color", "description").From("contest_tags").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if tag.ContestIDs, err = r.members(ctx, "contest_tag_members", "tag_id", "contest_id", id); err != nil {
		return nil, err
	}
	return tag, nil
}

// Create inserts a tag and its contest set. It must run inside a transaction.
func (r *ContestTagRepository) Create(ctx context.Context, t *models.ContestTag) (int64, error) {
	id, err := r.insertID(ctx, "contest tag", r.sb.Insert("contest_tags").
		Columns("name", "color", "description").
		Values(t.Name, t.Color, t.Description))
	if err != nil {
		return 0, err
	}
	return id, r.replaceMembers(ctx, "contest_tag_members", "tag_id", "contest_id", id, t.ContestIDs)
}

// Update saves a tag and its contest set. It must run inside a transaction.
func (r *ContestTagRepository) Update(ctx context.Context, t *models.ContestTag) error {
	n, err := r.exec(ctx, "contest tag", r.sb.Update("contest_tags").
		Set("name", t.Name).
		Set("color", t.Color).
		Set("description", t.Description).
		Where(squirrel.Eq{"id": t.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(pgx.ErrNoRows, "contest tag")
	}
	return r.replaceMembers(ctx, "contest_tag_members", "tag_id", "contest_id", t.ID, t.ContestIDs)
}

// Delete removes a tag
func (r *ContestTagRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "contest_tags", "contest tag", id)
}
