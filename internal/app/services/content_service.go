package services

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/repositories"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

const maxSlugLength = 50

// BlogPostStore persists blog posts
type BlogPostStore interface {
	List(ctx context.Context, search string, page repositories.Page) ([]*models.BlogPost, int64, error)
	GetByID(ctx context.Context, id int64) (*models.BlogPost, error)
	Create(ctx context.Context, p *models.BlogPost) (int64, error)
	Update(ctx context.Context, p *models.BlogPost) error
	Delete(ctx context.Context, id int64) error
}

// BlogPostService manages blog posts. Non-superusers change only posts they wrote.
type BlogPostService interface {
	List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.BlogPost, int64, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.BlogPost, error)
	Create(ctx context.Context, actor *auth.Actor, p *models.BlogPost) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, p *models.BlogPost) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type blogPostServiceImpl struct {
	tx    Transactor
	store BlogPostStore
}

// NewBlogPostService creates a new blog post service instance
func NewBlogPostService(tx Transactor, store BlogPostStore) BlogPostService {
	return &blogPostServiceImpl{tx: tx, store: store}
}

// PostSlug returns the explicit slug, or one derived from title
func PostSlug(title, explicit string) string {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Make(title)
	}
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

func (s *blogPostServiceImpl) List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.BlogPost, int64, error) {
	if err := requireView(actor, auth.EntityBlogPost); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, search, page)
}

func (s *blogPostServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.BlogPost, error) {
	if err := requireView(actor, auth.EntityBlogPost); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *blogPostServiceImpl) Create(ctx context.Context, actor *auth.Actor, p *models.BlogPost) (int64, error) {
	if err := requireAdd(actor, auth.EntityBlogPost); err != nil {
		return 0, err
	}
	p.Slug = PostSlug(p.Title, p.Slug)
	if p.Slug == "" {
		return 0, apperrors.NewValidationError("slug", "slug could not be derived from the title")
	}
	if len(p.AuthorIDs) == 0 && actor.ProfileID > 0 {
		p.AuthorIDs = []int64{actor.ProfileID}
	}
	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.store.Create(ctx, p)
		return err
	})
	return id, err
}

func (s *blogPostServiceImpl) Update(ctx context.Context, actor *auth.Actor, p *models.BlogPost) error {
	if err := requireView(actor, auth.EntityBlogPost); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := requireChange(actor, auth.EntityBlogPost, ownerSet(current.AuthorIDs)); err != nil {
		return err
	}
	p.Slug = PostSlug(p.Title, p.Slug)
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, p)
	})
}

func (s *blogPostServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireDelete(actor, auth.EntityBlogPost, ownerSet(current.AuthorIDs)); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// SolutionStore persists editorials
type SolutionStore interface {
	List(ctx context.Context, search string, page repositories.Page) ([]*models.Solution, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Solution, error)
	Create(ctx context.Context, s *models.Solution) (int64, error)
	Update(ctx context.Context, s *models.Solution) error
	Delete(ctx context.Context, id int64) error
}

// SolutionService manages editorials
type SolutionService interface {
	List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.Solution, int64, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.Solution, error)
	Create(ctx context.Context, actor *auth.Actor, sol *models.Solution) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, sol *models.Solution) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type solutionServiceImpl struct {
	store SolutionStore
}

// NewSolutionService creates a new solution service instance
func NewSolutionService(store SolutionStore) SolutionService {
	return &solutionServiceImpl{store: store}
}

func (s *solutionServiceImpl) List(ctx context.Context, actor *auth.Actor, search string, page repositories.Page) ([]*models.Solution, int64, error) {
	if err := requireView(actor, auth.EntitySolution); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, search, page)
}

func (s *solutionServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.Solution, error) {
	if err := requireView(actor, auth.EntitySolution); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *solutionServiceImpl) Create(ctx context.Context, actor *auth.Actor, sol *models.Solution) (int64, error) {
	if err := requireAdd(actor, auth.EntitySolution); err != nil {
		return 0, err
	}
	return s.store.Create(ctx, sol)
}

func (s *solutionServiceImpl) Update(ctx context.Context, actor *auth.Actor, sol *models.Solution) error {
	if err := requireChange(actor, auth.EntitySolution, nil); err != nil {
		return err
	}
	return s.store.Update(ctx, sol)
}

func (s *solutionServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntitySolution, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// LicenseStore persists licenses
type LicenseStore interface {
	List(ctx context.Context) ([]*models.License, error)
	GetByID(ctx context.Context, id int64) (*models.License, error)
	Create(ctx context.Context, l *models.License) (int64, error)
	Update(ctx context.Context, l *models.License) error
	Delete(ctx context.Context, id int64) error
}

// LicenseService manages licenses
type LicenseService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.License, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.License, error)
	Create(ctx context.Context, actor *auth.Actor, l *models.License) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, l *models.License) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type licenseServiceImpl struct {
	store LicenseStore
}

// NewLicenseService creates a new license service instance
func NewLicenseService(store LicenseStore) LicenseService {
	return &licenseServiceImpl{store: store}
}

func (s *licenseServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.License, error) {
	if err := requireView(actor, auth.EntityLicense); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *licenseServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.License, error) {
	if err := requireView(actor, auth.EntityLicense); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *licenseServiceImpl) Create(ctx context.Context, actor *auth.Actor, l *models.License) (int64, error) {
	if err := requireAdd(actor, auth.EntityLicense); err != nil {
		return 0, err
	}
	return s.store.Create(ctx, l)
}

func (s *licenseServiceImpl) Update(ctx context.Context, actor *auth.Actor, l *models.License) error {
	if err := requireChange(actor, auth.EntityLicense, nil); err != nil {
		return err
	}
	return s.store.Update(ctx, l)
}

func (s *licenseServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityLicense, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// MiscConfigStore persists site settings keyed by name
type MiscConfigStore interface {
	List(ctx context.Context) ([]*models.MiscConfig, error)
	Get(ctx context.Context, key string) (*models.MiscConfig, error)
	Upsert(ctx context.Context, m *models.MiscConfig) error
	Delete(ctx context.Context, key string) error
}

// MiscConfigService manages site settings
type MiscConfigService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.MiscConfig, error)
	Get(ctx context.Context, actor *auth.Actor, key string) (*models.MiscConfig, error)
	Save(ctx context.Context, actor *auth.Actor, m *models.MiscConfig) error
	Delete(ctx context.Context, actor *auth.Actor, key string) error
}

type miscConfigServiceImpl struct {
	store MiscConfigStore
}

// NewMiscConfigService creates a new misc config service instance
func NewMiscConfigService(store MiscConfigStore) MiscConfigService {
	return &miscConfigServiceImpl{store: store}
}

func (s *miscConfigServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.MiscConfig, error) {
	if err := requireView(actor, auth.EntityMiscConfig); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *miscConfigServiceImpl) Get(ctx context.Context, actor *auth.Actor, key string) (*models.MiscConfig, error) {
	if err := requireView(actor, auth.EntityMiscConfig); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, key)
}

// Save creates the setting when it is missing, which needs the add capability
func (s *miscConfigServiceImpl) Save(ctx context.Context, actor *auth.Actor, m *models.MiscConfig) error {
	if err := requireChange(actor, auth.EntityMiscConfig, nil); err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, m.Key); err != nil {
		if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		if err := requireAdd(actor, auth.EntityMiscConfig); err != nil {
			return err
		}
	}
	return s.store.Upsert(ctx, m)
}

func (s *miscConfigServiceImpl) Delete(ctx context.Context, actor *auth.Actor, key string) error {
	if err := requireDelete(actor, auth.EntityMiscConfig, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}
