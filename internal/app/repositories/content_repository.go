package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// BlogPostRepository handles blog posts and their authors
type BlogPostRepository struct {
	baseRepository
}

// NewBlogPostRepository creates a new BlogPostRepository
func NewBlogPostRepository(pool db.Querier) *BlogPostRepository {
	return &BlogPostRepository{baseRepository: newBase(pool)}
}

var blogPostColumns = []string{"id", "title", "slug", "visible", "sticky", "publish_on", "content", "og_image", "summary"}

// List returns a page of posts and the total count
func (r *BlogPostRepository) List(ctx context.Context, search string, page Page) ([]*models.BlogPost, int64, error) {
	where := squirrel.And{}
	if search != "" {
		where = append(where, ilike(search, "title", "content"))
	}
	total, err := r.count(ctx, "blog post", r.sb.Select("COUNT(*)").From("blog_posts").Where(where))
	if err != nil {
		return nil, 0, err
	}
	posts, err := selectAll[models.BlogPost](ctx, &r.baseRepository, "blog post",
		page.apply(r.sb.Select(blogPostColumns...).From("blog_posts").Where(where).OrderBy("publish_on DESC", "id DESC")))
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	authors, err := r.membersOf(ctx, "blog_post_authors", "post_id", "profile_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range posts {
		p.AuthorIDs = authors[p.ID]
	}
	return posts, total, nil
}

// GetByID retrieves a post with its authors
func (r *BlogPostRepository) GetByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	post, err := selectOne[models.BlogPost](ctx, &r.baseRepository, "blog post",
		r.sb.Select(blogPostColumns...).From("blog_posts").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if post.AuthorIDs, err = r.members(ctx, "blog_post_authors", "post_id", "profile_id", id); err != nil {
		return nil, err
	}
	return post, nil
}

// Create inserts a post with its authors. It must run inside a transaction.
func (r *BlogPostRepository) Create(ctx context.Context, p *models.BlogPost) (int64, error) {
	id, err := r.insertID(ctx, "blog post", r.sb.Insert("blog_posts").
		Columns(blogPostColumns[1:]...).
		Values(p.Title, p.Slug, p.Visible, p.Sticky, p.PublishOn, p.Content, p.OgImage, p.Summary))
	if err != nil {
		return 0, err
	}
	return id, r.replaceMembers(ctx, "blog_post_authors", "post_id", "profile_id", id, p.AuthorIDs)
}

// Update saves a post with its authors. It must run inside a transaction.
func (r *BlogPostRepository) Update(ctx context.Context, p *models.BlogPost) error {
	n, err := r.exec(ctx, "blog post", r.sb.Update("blog_posts").
		SetMap(map[string]interface{}{
			"title":      p.Title,
			"slug":       p.Slug,
			"visible":    p.Visible,
			"sticky":     p.Sticky,
			"publish_on": p.PublishOn,
			"content":    p.Content,
			"og_image":   p.OgImage,
			"summary":    p.Summary,
		}).
		Where(squirrel.Eq{"id": p.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(pgx.ErrNoRows, "blog post")
	}
	return r.replaceMembers(ctx, "blog_post_authors", "post_id", "profile_id", p.ID, p.AuthorIDs)
}

// Delete removes a post
func (r *BlogPostRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "blog_posts", "blog post", id)
}

// SolutionRepository handles problem editorials
type SolutionRepository struct {
	baseRepository
}

// NewSolutionRepository creates a new SolutionRepository
func NewSolutionRepository(pool db.Querier) *SolutionRepository {
	return &SolutionRepository{baseRepository: newBase(pool)}
}

func (r *SolutionRepository) selectSolutions() squirrel.SelectBuilder {
	return r.sb.Select("s.id", "s.url", "s.title", "s.is_public", "s.publish_on", "s.problem_id", "s.content",
		"COALESCE(pr.name, '') AS problem_name").
		From("solutions s").
		LeftJoin("problems pr ON pr.id = s.problem_id")
}

// List returns a page of solutions and the total count
func (r *SolutionRepository) List(ctx context.Context, search string, page Page) ([]*models.Solution, int64, error) {
	where := squirrel.And{}
	if search != "" {
		where = append(where, ilike(search, "s.title", "s.url", "pr.name"))
	}
	total, err := r.count(ctx, "solution", r.sb.Select("COUNT(*)").
		From("solutions s").
		LeftJoin("problems pr ON pr.id = s.problem_id").
		Where(where))
	if err != nil {
		return nil, 0, err
	}
	items, err := selectAll[models.Solution](ctx, &r.baseRepository, "solution",
		page.apply(r.selectSolutions().Where(where).OrderBy("s.publish_on DESC", "s.id DESC")))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID retrieves a solution
func (r *SolutionRepository) GetByID(ctx context.Context, id int64) (*models.Solution, error) {
	return selectOne[models.Solution](ctx, &r.baseRepository, "solution", r.selectSolutions().Where(squirrel.Eq{"s.id": id}))
}

// Create inserts a solution
func (r *SolutionRepository) Create(ctx context.Context, s *models.Solution) (int64, error) {
	return r.insertID(ctx, "solution", r.sb.Insert("solutions").
		Columns("url", "title", "is_public", "publish_on", "problem_id", "content").
		Values(s.URL, s.Title, s.IsPublic, s.PublishOn, s.ProblemID, s.Content))
}

// Update saves a solution
func (r *SolutionRepository) Update(ctx context.Context, s *models.Solution) error {
	n, err := r.exec(ctx, "solution", r.sb.Update("solutions").
		SetMap(map[string]interface{}{
			"url":        s.URL,
			"title":      s.Title,
			"is_public":  s.IsPublic,
			"publish_on": s.PublishOn,
			"problem_id": s.ProblemID,
			"content":    s.Content,
		}).
		Where(squirrel.Eq{"id": s.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "solution")
	}
	return err
}

// Delete removes a solution
func (r *SolutionRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "solutions", "solution", id)
}

// LicenseRepository handles problem statement licenses
type LicenseRepository struct {
	baseRepository
}

// NewLicenseRepository creates a new LicenseRepository
func NewLicenseRepository(pool db.Querier) *LicenseRepository {
	return &LicenseRepository{baseRepository: newBase(pool)}
}

var licenseColumns = []string{"id", "key", "link", "name", "display", "icon", "text"}

// List returns every license ordered by key
func (r *LicenseRepository) List(ctx context.Context) ([]*models.License, error) {
	return selectAll[models.License](ctx, &r.baseRepository, "license",
		r.sb.Select(licenseColumns...).From("licenses").OrderBy("key"))
}

// GetByID retrieves a license
func (r *LicenseRepository) GetByID(ctx context.Context, id int64) (*models.License, error) {
	return selectOne[models.License](ctx, &r.baseRepository, "license",
		r.sb.Select(licenseColumns...).From("licenses").Where(squirrel.Eq{"id": id}))
}

// Create inserts a license
func (r *LicenseRepository) Create(ctx context.Context, l *models.License) (int64, error) {
	return r.insertID(ctx, "license", r.sb.Insert("licenses").
		Columns(licenseColumns[1:]...).
		Values(l.Key, l.Link, l.Name, l.Display, l.Icon, l.Text))
}

// Update saves a license
func (r *LicenseRepository) Update(ctx context.Context, l *models.License) error {
	n, err := r.exec(ctx, "license", r.sb.Update("licenses").
		SetMap(map[string]interface{}{
			"key":     l.Key,
			"link":    l.Link,
			"name":    l.Name,
			"display": l.Display,
			"icon":    l.Icon,
			"text":    l.Text,
		}).
		Where(squirrel.Eq{"id": l.ID}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "license")
	}
	return err
}

// Delete removes a license
func (r *LicenseRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "licenses", "license", id)
}

// MiscConfigRepository handles keyed site settings
type MiscConfigRepository struct {
	baseRepository
}

// NewMiscConfigRepository creates a new MiscConfigRepository
func NewMiscConfigRepository(pool db.Querier) *MiscConfigRepository {
	return &MiscConfigRepository{baseRepository: newBase(pool)}
}

// List returns every setting ordered by key
func (r *MiscConfigRepository) List(ctx context.Context) ([]*models.MiscConfig, error) {
	return selectAll[models.MiscConfig](ctx, &r.baseRepository, "misc config",
		r.sb.Select("key", "value").From("misc_config").OrderBy("key"))
}

// Get retrieves a setting by key
func (r *MiscConfigRepository) Get(ctx context.Context, key string) (*models.MiscConfig, error) {
	return selectOne[models.MiscConfig](ctx, &r.baseRepository, "misc config",
		r.sb.Select("key", "value").From("misc_config").Where(squirrel.Eq{"key": key}))
}

// Upsert creates or replaces a setting
func (r *MiscConfigRepository) Upsert(ctx context.Context, m *models.MiscConfig) error {
	_, err := r.exec(ctx, "misc config", r.sb.Insert("misc_config").
		Columns("key", "value").
		Values(m.Key, m.Value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value"))
	return err
}

// Delete removes a setting
func (r *MiscConfigRepository) Delete(ctx context.Context, key string) error {
	n, err := r.exec(ctx, "misc config", r.sb.Delete("misc_config").Where(squirrel.Eq{"key": key}))
	if err == nil && n == 0 {
		return mapError(pgx.ErrNoRows, "misc config")
	}
	return err
}
