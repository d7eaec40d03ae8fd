package services

import (
	"context"

	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

// OrganizationStore persists organizations. Lookups are narrowed by scope.
type OrganizationStore interface {
	List(ctx context.Context, scope auth.Scope, search string, page repositories.Page) ([]*models.Organization, int64, error)
	GetByID(ctx context.Context, scope auth.Scope, id int64) (*models.Organization, error)
	Create(ctx context.Context, o *models.Organization) (int64, error)
	Update(ctx context.Context, o *models.Organization) error
	Delete(ctx context.Context, id int64) error
}

// OrganizationService manages organizations
type OrganizationService interface {
	List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.Organization, int64, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.OrganizationForm, error)
	Create(ctx context.Context, actor *auth.Actor, o *models.Organization) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, o *models.Organization) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type organizationServiceImpl struct {
	tx    Transactor
	store OrganizationStore
}

// NewOrganizationService creates a new organization service instance
func NewOrganizationService(tx Transactor, store OrganizationStore) OrganizationService {
	return &organizationServiceImpl{tx: tx, store: store}
}

// OrganizationReadonlyFields returns the organization fields actor may not edit
func OrganizationReadonlyFields(actor *auth.Actor) []string {
	fields := []string{"creation_date"}
	if !actor.Has(auth.CapOrganizationAdmin) {
		fields = append(fields, admin.OrganizationAdminFields...)
	}
	return fields
}

func (s *organizationServiceImpl) List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.Organization, int64, error) {
	if err := requireView(actor, auth.EntityOrganization); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, auth.ScopeFor(actor, auth.EntityOrganization), search, page)
}

func (s *organizationServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.OrganizationForm, error) {
	form := &dto.OrganizationForm{ReadonlyFields: OrganizationReadonlyFields(actor)}
	if id == nil {
		if err := requireAdd(actor, auth.EntityOrganization); err != nil {
			return nil, err
		}
		form.Permissions.Change = true
		return form, nil
	}
	if err := requireView(actor, auth.EntityOrganization); err != nil {
		return nil, err
	}
	org, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityOrganization), *id)
	if err != nil {
		return nil, err
	}
	form.Organization = org
	form.Permissions = dto.FormPerms{
		Change: auth.CanChange(actor, auth.EntityOrganization, ownerSet(org.AdminIDs)),
		Delete: auth.CanDelete(actor, auth.EntityOrganization, ownerSet(org.AdminIDs)),
	}
	return form, nil
}

func validateOrganization(o *models.Organization) error {
	if o.Slots != nil && *o.Slots < 0 {
		return apperrors.NewValidationError("slots", "slots must not be negative")
	}
	if o.RegistrantID <= 0 {
		return apperrors.NewValidationError("registrant", "registrant is required")
	}
	return nil
}

// Create adds an organization. Without organization_admin the actor registers and administers it.
func (s *organizationServiceImpl) Create(ctx context.Context, actor *auth.Actor, o *models.Organization) (int64, error) {
	if err := requireAdd(actor, auth.EntityOrganization); err != nil {
		return 0, err
	}
	if !actor.Has(auth.CapOrganizationAdmin) {
		o.RegistrantID = actor.ProfileID
		o.AdminIDs = []int64{actor.ProfileID}
		o.IsOpen = true
		o.Slots = nil
	}
	if err := validateOrganization(o); err != nil {
		return 0, err
	}
	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.store.Create(ctx, o)
		return err
	})
	return id, err
}

// Update saves an organization in scope, keeping the admin-only fields without organization_admin
func (s *organizationServiceImpl) Update(ctx context.Context, actor *auth.Actor, o *models.Organization) error {
	if err := requireView(actor, auth.EntityOrganization); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityOrganization), o.ID)
	if err != nil {
		return err
	}
	if err := requireChange(actor, auth.EntityOrganization, ownerSet(current.AdminIDs)); err != nil {
		return err
	}
	if !actor.Has(auth.CapOrganizationAdmin) {
		o.RegistrantID = current.RegistrantID
		o.AdminIDs = current.AdminIDs
		o.IsOpen = current.IsOpen
		o.Slots = current.Slots
	}
	if err := validateOrganization(o); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, o)
	})
}

func (s *organizationServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireView(actor, auth.EntityOrganization); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, auth.ScopeFor(actor, auth.EntityOrganization), id)
	if err != nil {
		return err
	}
	if err := requireDelete(actor, auth.EntityOrganization, ownerSet(current.AdminIDs)); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// OrganizationRequestStore persists membership requests
type OrganizationRequestStore interface {
	List(ctx context.Context, state models.OrganizationRequestState, page repositories.Page) ([]*models.OrganizationRequest, int64, error)
	GetByID(ctx context.Context, id int64) (*models.OrganizationRequest, error)
	Create(ctx context.Context, req *models.OrganizationRequest) (int64, error)
	UpdateState(ctx context.Context, id int64, state models.OrganizationRequestState, reason string) error
	Delete(ctx context.Context, id int64) error
}

// OrganizationRequestService reviews membership requests. User and organization never change.
type OrganizationRequestService interface {
	List(ctx context.Context, actor *auth.Actor, state models.OrganizationRequestState, page repositories.Page) ([]*models.OrganizationRequest, int64, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.OrganizationRequest, error)
	Create(ctx context.Context, actor *auth.Actor, req *models.OrganizationRequest) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, id int64, update dto.OrganizationRequestUpdate) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type organizationRequestServiceImpl struct {
	store OrganizationRequestStore
}

// NewOrganizationRequestService creates a new organization request service instance
func NewOrganizationRequestService(store OrganizationRequestStore) OrganizationRequestService {
	return &organizationRequestServiceImpl{store: store}
}

func (s *organizationRequestServiceImpl) List(ctx context.Context, actor *auth.Actor, state models.OrganizationRequestState, page repositories.Page) ([]*models.OrganizationRequest, int64, error) {
	if err := requireView(actor, auth.EntityOrganizationRequest); err != nil {
		return nil, 0, err
	}
	if state != "" && !state.Valid() {
		return nil, 0, apperrors.NewValidationError("state", "unknown request state")
	}
	return s.store.List(ctx, state, page)
}

func (s *organizationRequestServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.OrganizationRequest, error) {
	if err := requireView(actor, auth.EntityOrganizationRequest); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *organizationRequestServiceImpl) Create(ctx context.Context, actor *auth.Actor, req *models.OrganizationRequest) (int64, error) {
	if err := requireAdd(actor, auth.EntityOrganizationRequest); err != nil {
		return 0, err
	}
	if req.State == "" {
		req.State = models.RequestPending
	}
	if !req.State.Valid() {
		return 0, apperrors.NewValidationError("state", "unknown request state")
	}
	if req.ProfileID <= 0 || req.OrganizationID <= 0 {
		return 0, apperrors.NewValidationError("organization", "user and organization are required")
	}
	return s.store.Create(ctx, req)
}

func (s *organizationRequestServiceImpl) Update(ctx context.Context, actor *auth.Actor, id int64, update dto.OrganizationRequestUpdate) error {
	if err := requireChange(actor, auth.EntityOrganizationRequest, nil); err != nil {
		return err
	}
	if !update.State.Valid() {
		return apperrors.NewValidationError("state", "unknown request state")
	}
	return s.store.UpdateState(ctx, id, update.State, update.Reason)
}

func (s *organizationRequestServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityOrganizationRequest, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
