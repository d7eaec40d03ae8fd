package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// OrganizationRepository handles organizations and their admins
type OrganizationRepository struct {
	baseRepository
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(pool db.Querier) *OrganizationRepository {
	return &OrganizationRepository{baseRepository: newBase(pool)}
}

var organizationColumns = []string{
	"o.id", "o.name", "o.key", "o.short_name", "o.is_open", "o.about", "o.slots", "o.registrant_id", "o.creation_date",
}

func adminScope(b squirrel.SelectBuilder, scope auth.Scope) squirrel.SelectBuilder {
	if scope.All {
		return b
	}
	return b.Where("EXISTS (SELECT 1 FROM organization_admins oa WHERE oa.organization_id = o.id AND oa.profile_id = ?)", scope.ProfileID)
}

// List returns a page of organizations in scope and the total count
func (r *OrganizationRepository) List(ctx context.Context, scope auth.Scope, search string, page Page) ([]*models.Organization, int64, error) {
	where := squirrel.And{}
	if search != "" {
		where = append(where, ilike(search, "o.key", "o.name", "o.short_name"))
	}
	total, err := r.count(ctx, "organization", adminScope(r.sb.Select("COUNT(*)").From("organizations o").Where(where), scope))
	if err != nil {
		return nil, 0, err
	}
	items, err := selectAll[models.Organization](ctx, &r.baseRepository, "organization",
		page.apply(adminScope(r.sb.Select(organizationColumns...).From("organizations o").Where(where), scope).OrderBy("o.name", "o.id")))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID retrieves an organization in scope with its admins
func (r *OrganizationRepository) GetByID(ctx context.Context, scope auth.Scope, id int64) (*models.Organization, error) {
	org, err := selectOne[models.Organization](ctx, &r.baseRepository, "organization",
		adminScope(r.sb.Select(organizationColumns...).From("organizations o").Where(squirrel.Eq{"o.id": id}), scope))
	if err != nil {
		return nil, err
	}
	if org.AdminIDs, err = r.members(ctx, "organization_admins", "organization_id", "profile_id", id); err != nil {
		return nil, err
	}
	return org, nil
}

// Create inserts an organization with its admins. It must run inside a transaction.
func (r *OrganizationRepository) Create(ctx context.Context, o *models.Organization) (int64, error) {
	id, err := r.insertID(ctx, "organization", r.sb.Insert("organizations").
		Columns("name", "key", "short_name", "is_open", "about", "slots", "registrant_id").
		Values(o.Name, o.Key, o.ShortName, o.IsOpen, o.About, o.Slots, o.RegistrantID))
	if err != nil {
		return 0, err
	}
	return id, r.replaceMembers(ctx, "organization_admins", "organization_id", "profile_id", id, o.AdminIDs)
}

// Update saves an organization with its admins. It must run inside a transaction.
func (r *OrganizationRepository) Update(ctx context.Context, o *models.Organization) error {
	n, err := r.exec(ctx, "organization", r.sb.Update("organizations").
		SetMap(map[string]interface{}{
			"name":          o.Name,
			"key":           o.Key,
			"short_name":    o.ShortName,
			"is_open":       o.IsOpen,
			"about":         o.About,
			"slots":         o.Slots,
			"registrant_id": o.RegistrantID,
		}).
		Where(squirrel.Eq{"id": o.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(pgx.ErrNoRows, "organization")
	}
	return r.replaceMembers(ctx, "organization_admins", "organization_id", "profile_id", o.ID, o.AdminIDs)
}

// Delete removes an organization
func (r *OrganizationRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "organizations", "organization", id)
}

// OrganizationRequestRepository handles membership requests
type OrganizationRequestRepository struct {
	baseRepository
}

// NewOrganizationRequestRepository creates a new OrganizationRequestRepository
func NewOrganizationRequestRepository(pool db.Querier) *OrganizationRequestRepository {
	return &OrganizationRequestRepository{baseRepository: newBase(pool)}
}

func (r *OrganizationRequestRepository) selectRequests() squirrel.SelectBuilder {
	return r.sb.Select("rq.id", "rq.profile_id", "rq.organization_id", "rq.state", "rq.time", "rq.reason", "u.username").
		From("organization_requests rq").
		Join("profiles p ON p.id = rq.profile_id").
		Join("users u ON u.id = p.user_id")
}

// List returns requests newest first, optionally filtered by state
func (r *OrganizationRequestRepository) List(ctx context.Context, state models.OrganizationRequestState, page Page) ([]*models.OrganizationRequest, int64, error) {
	where := squirrel.And{}
	if state != "" {
		where = append(where, squirrel.Eq{"rq.state": string(state)})
	}
	total, err := r.count(ctx, "organization request", r.sb.Select("COUNT(*)").From("organization_requests rq").Where(where))
	if err != nil {
		return nil, 0, err
	}
	items, err := selectAll[models.OrganizationRequest](ctx, &r.baseRepository, "organization request",
		page.apply(r.selectRequests().Where(where).OrderBy("rq.time DESC", "rq.id DESC")))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID retrieves a request
func (r *OrganizationRequestRepository) GetByID(ctx context.Context, id int64) (*models.OrganizationRequest, error) {
	return selectOne[models.OrganizationRequest](ctx, &r.baseRepository, "organization request",
		r.selectRequests().Where(squirrel.Eq{"rq.id": id}))
}

// Create inserts a pending request
func (r *OrganizationRequestRepository) Create(ctx context.Context, req *models.OrganizationRequest) (int64, error) {
	return r.insertID(ctx, "organization request", r.sb.Insert("organization_requests").
		Columns("profile_id", "organization_id", "state", "reason").
		Values(req.ProfileID, req.OrganizationID, string(req.State), req.Reason))
}

// UpdateState records the review outcome
func (r *OrganizationRequestRepository) UpdateState(ctx context.Context, id int64, state models.OrganizationRequestState, reason string) error {
	n, err := r.exec(ctx, "organization request", r.sb.Update("organization_requests").
		Set("state", string(state)).
		Set("reason", reason).
		Where(squirrel.Eq{"id": id}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "organization request")
	}
	return err
}

// Delete removes a request
func (r *OrganizationRequestRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "organization_requests", "organization request", id)
}
