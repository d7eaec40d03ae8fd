package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// ProfileRepository looks up profiles and organizations for selection widgets
type ProfileRepository struct {
	baseRepository
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool db.Querier) *ProfileRepository {
	return &ProfileRepository{baseRepository: newBase(pool)}
}

// Search matches profiles by username or display name
func (r *ProfileRepository) Search(ctx context.Context, term string, page Page) ([]*models.Profile, error) {
	q := r.sb.Select("p.id", "p.user_id", "u.username", "p.name", "p.rating").
		From("profiles p").
		Join("users u ON u.id = p.user_id").
		OrderBy("u.username")
	if term != "" {
		q = q.Where(ilike(term, "u.username", "p.name"))
	}
	return selectAll[models.Profile](ctx, &r.baseRepository, "profile", page.apply(q))
}

// GetMany returns the profiles among ids that exist
func (r *ProfileRepository) GetMany(ctx context.Context, ids []int64) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return selectAll[models.Profile](ctx, &r.baseRepository, "profile",
		r.sb.Select("p.id", "p.user_id", "u.username", "p.name", "p.rating").
			From("profiles p").
			Join("users u ON u.id = p.user_id").
			Where(squirrel.Eq{"p.id": ids}).
			OrderBy("u.username"))
}

// SearchOrganizations matches organizations by key or name
func (r *ProfileRepository) SearchOrganizations(ctx context.Context, term string, page Page) ([]*models.Organization, error) {
	q := r.sb.Select(organizationColumns...).From("organizations o").OrderBy("o.name")
	if term != "" {
		q = q.Where(ilike(term, "o.key", "o.name", "o.short_name"))
	}
	return selectAll[models.Organization](ctx, &r.baseRepository, "organization", page.apply(q))
}
