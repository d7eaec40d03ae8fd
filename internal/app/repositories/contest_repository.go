package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// ContestRepository handles contests, their relations and problem inline
type ContestRepository struct {
	baseRepository
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(pool db.Querier) *ContestRepository {
	return &ContestRepository{baseRepository: newBase(pool)}
}

// ContestFilter narrows the contest change list
type ContestFilter struct {
	Search string
	Page   Page
}

var contestColumns = []string{
	"c.id", "c.key", "c.name", "c.is_public", "c.hide_problem_tags", "c.run_pretests_only",
	"c.start_time", "c.end_time", "EXTRACT(EPOCH FROM c.time_limit)::double precision",
	"c.description", "c.og_image", "c.summary", "c.is_rated", "c.rate_all", "c.is_private", "c.user_count",
}

func scanContest(row pgx.Row) (*models.Contest, error) {
	c := &models.Contest{}
	var timeLimit *float64
	err := row.Scan(&c.ID, &c.Key, &c.Name, &c.IsPublic, &c.HideProblemTags, &c.RunPretestsOnly,
		&c.StartTime, &c.EndTime, &timeLimit,
		&c.Description, &c.OgImage, &c.Summary, &c.IsRated, &c.RateAll, &c.IsPrivate, &c.UserCount)
	if err != nil {
		return nil, err
	}
	if timeLimit != nil {
		c.TimeLimit = &models.Duration{Duration: time.Duration(*timeLimit * float64(time.Second))}
	}
	return c, nil
}

func inScope(b squirrel.SelectBuilder, scope auth.Scope) squirrel.SelectBuilder {
	if scope.All {
		return b
	}
	return b.Where("EXISTS (SELECT 1 FROM contest_organizers co WHERE co.contest_id = c.id AND co.profile_id = ?)", scope.ProfileID)
}

func timeLimitValue(d *models.Duration) interface{} {
	if d == nil {
		return nil
	}
	return squirrel.Expr("make_interval(secs => ?)", d.Seconds())
}

// List returns a page of contests visible in scope and the total count
func (r *ContestRepository) List(ctx context.Context, scope auth.Scope, f ContestFilter) ([]*models.Contest, int64, error) {
	where := squirrel.And{}
	if f.Search != "" {
		where = append(where, ilike(f.Search, "c.key", "c.name"))
	}

	total, err := r.count(ctx, "contest", inScope(r.sb.Select("COUNT(*)").From("contests c").Where(where), scope))
	if err != nil {
		return nil, 0, err
	}

	q := inScope(r.sb.Select(contestColumns...).From("contests c").Where(where), scope).
		OrderBy("c.start_time DESC", "c.id DESC")
	sql, args, err := f.Page.apply(q).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contests query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapError(err, "contest")
	}
	defer rows.Close()

	contests := []*models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning contest row")
			return nil, 0, fmt.Errorf("error scanning contest row: %w", err)
		}
		contests = append(contests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "contest")
	}
	return contests, total, nil
}

// GetByID retrieves a contest in scope with every relation loaded
func (r *ContestRepository) GetByID(ctx context.Context, scope auth.Scope, id int64) (*models.Contest, error) {
	sql, args, err := inScope(r.sb.Select(contestColumns...).From("contests c").Where(squirrel.Eq{"c.id": id}), scope).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get contest query: %w", err)
	}
	c, err := scanContest(r.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "contest")
	}
	if err := r.loadRelations(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContestRepository) loadRelations(ctx context.Context, c *models.Contest) error {
	var err error
	if c.OrganizerIDs, err = r.members(ctx, "contest_organizers", "contest_id", "profile_id", c.ID); err != nil {
		return err
	}
	if c.TagIDs, err = r.members(ctx, "contest_tag_members", "contest_id", "tag_id", c.ID); err != nil {
		return err
	}
	if c.RateExcludeIDs, err = r.members(ctx, "contest_rate_exclude", "contest_id", "profile_id", c.ID); err != nil {
		return err
	}
	if c.OrganizationIDs, err = r.members(ctx, "contest_organizations", "contest_id", "organization_id", c.ID); err != nil {
		return err
	}
	c.Problems, err = r.listProblems(ctx, c.ID)
	return err
}

func (r *ContestRepository) listProblems(ctx context.Context, contestID int64) ([]models.ContestProblem, error) {
	sql, args, err := r.sb.Select("id", "contest_id", "problem_id", "points", "partial", "output_prefix_override", `"order"`).
		From("contest_problems").
		Where(squirrel.Eq{"contest_id": contestID}).
		OrderBy(`"order"`, "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build contest problems query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "contest problem")
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.ContestProblem])
}

// Create inserts a contest with its relations. It must run inside a transaction.
func (r *ContestRepository) Create(ctx context.Context, c *models.Contest) (int64, error) {
	id, err := r.insertID(ctx, "contest", r.sb.Insert("contests").
		Columns("key", "name", "is_public", "hide_problem_tags", "run_pretests_only", "start_time", "end_time",
			"time_limit", "description", "og_image", "summary", "is_rated", "rate_all", "is_private").
		Values(c.Key, c.Name, c.IsPublic, c.HideProblemTags, c.RunPretestsOnly, c.StartTime, c.EndTime,
			timeLimitValue(c.TimeLimit), c.Description, c.OgImage, c.Summary, c.IsRated, c.RateAll, c.IsPrivate))
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, r.saveRelations(ctx, c)
}

// Update saves a contest with its relations. It must run inside a transaction.
func (r *ContestRepository) Update(ctx context.Context, c *models.Contest) error {
	n, err := r.exec(ctx, "contest", r.sb.Update("contests").
		SetMap(map[string]interface{}{
			"key":               c.Key,
			"name":              c.Name,
			"is_public":         c.IsPublic,
			"hide_problem_tags": c.HideProblemTags,
			"run_pretests_only": c.RunPretestsOnly,
			"start_time":        c.StartTime,
			"end_time":          c.EndTime,
			"time_limit":        timeLimitValue(c.TimeLimit),
			"description":       c.Description,
			"og_image":          c.OgImage,
			"summary":           c.Summary,
			"is_rated":          c.IsRated,
			"rate_all":          c.RateAll,
			"is_private":        c.IsPrivate,
		}).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(pgx.ErrNoRows, "contest")
	}
	return r.saveRelations(ctx, c)
}

func (r *ContestRepository) saveRelations(ctx context.Context, c *models.Contest) error {
	if err := r.replaceMembers(ctx, "contest_organizers", "contest_id", "profile_id", c.ID, c.OrganizerIDs); err != nil {
		return err
	}
	if err := r.replaceMembers(ctx, "contest_tag_members", "contest_id", "tag_id", c.ID, c.TagIDs); err != nil {
		return err
	}
	if err := r.replaceMembers(ctx, "contest_rate_exclude", "contest_id", "profile_id", c.ID, c.RateExcludeIDs); err != nil {
		return err
	}
	if err := r.replaceMembers(ctx, "contest_organizations", "contest_id", "organization_id", c.ID, c.OrganizationIDs); err != nil {
		return err
	}
	return r.saveProblems(ctx, c.ID, c.Problems)
}

// saveProblems upserts the inline rows so submissions attached to kept problems survive
func (r *ContestRepository) saveProblems(ctx context.Context, contestID int64, problems []models.ContestProblem) error {
	keep := make([]int64, 0, len(problems))
	for _, p := range problems {
		keep = append(keep, p.ProblemID)
	}
	del := r.sb.Delete("contest_problems").Where(squirrel.Eq{"contest_id": contestID})
	if len(keep) > 0 {
		del = del.Where(squirrel.NotEq{"problem_id": keep})
	}
	if _, err := r.exec(ctx, "contest problem", del); err != nil {
		return err
	}
	if len(problems) == 0 {
		return nil
	}

	ins := r.sb.Insert("contest_problems").
		Columns("contest_id", "problem_id", "points", "partial", "output_prefix_override", `"order"`)
	for _, p := range problems {
		ins = ins.Values(contestID, p.ProblemID, p.Points, p.Partial, p.OutputPrefixOverride, p.Order)
	}
	_, err := r.exec(ctx, "contest problem", ins.Suffix(`ON CONFLICT (contest_id, problem_id) DO UPDATE SET
		points = EXCLUDED.points,
		partial = EXCLUDED.partial,
		output_prefix_override = EXCLUDED.output_prefix_override,
		"order" = EXCLUDED."order"`))
	return err
}

// Delete removes a contest
func (r *ContestRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "contests", "contest", id)
}

// SetPublic flips is_public on the selected contests inside scope and returns how many matched
func (r *ContestRepository) SetPublic(ctx context.Context, scope auth.Scope, ids []int64, public bool) (int64, error) {
	upd := r.sb.Update("contests c").Set("is_public", public).Where(squirrel.Eq{"c.id": ids})
	if !scope.All {
		upd = upd.Where("EXISTS (SELECT 1 FROM contest_organizers co WHERE co.contest_id = c.id AND co.profile_id = ?)", scope.ProfileID)
	}
	return r.exec(ctx, "contest", upd)
}

// ListRated returns rated contests in (end_time, id) order. With from set, only
// contests at or after from in that order are returned.
func (r *ContestRepository) ListRated(ctx context.Context, from *models.Contest) ([]*models.Contest, error) {
	q := r.sb.Select(contestColumns...).From("contests c").Where(squirrel.Eq{"c.is_rated": true})
	if from != nil {
		q = q.Where("(c.end_time, c.id) >= (?, ?)", from.EndTime, from.ID)
	}
	sql, args, err := q.OrderBy("c.end_time", "c.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build rated contests query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "contest")
	}
	defer rows.Close()

	var contests []*models.Contest
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning contest row: %w", err)
		}
		contests = append(contests, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "contest")
	}

	ids := make([]int64, 0, len(contests))
	for _, c := range contests {
		ids = append(ids, c.ID)
	}
	excluded, err := r.membersOf(ctx, "contest_rate_exclude", "contest_id", "profile_id", ids)
	if err != nil {
		return nil, err
	}
	for _, c := range contests {
		c.RateExcludeIDs = excluded[c.ID]
	}
	return contests, nil
}

// OrganizerCandidates returns profiles whose user is a superuser or holds a contest editing capability
func (r *ContestRepository) OrganizerCandidates(ctx context.Context) ([]*models.Profile, error) {
	perms := []string{string(auth.CapEditOwnContest), string(auth.CapEditAllContest)}
	q := r.sb.Select("p.id", "p.user_id", "u.username", "p.name", "p.rating").
		From("profiles p").
		Join("users u ON u.id = p.user_id").
		Where(squirrel.Or{
			squirrel.Eq{"u.is_superuser": true},
			squirrel.Expr(`EXISTS (SELECT 1 FROM user_capabilities uc JOIN capabilities cap ON cap.id = uc.capability_id
				WHERE uc.user_id = u.id AND cap.codename = ANY(?))`, perms),
			squirrel.Expr(`EXISTS (SELECT 1 FROM user_groups ug JOIN group_capabilities gc ON gc.group_id = ug.group_id
				JOIN capabilities cap ON cap.id = gc.capability_id
				WHERE ug.user_id = u.id AND cap.codename = ANY(?))`, perms),
		}).
		OrderBy("u.username")
	return selectAll[models.Profile](ctx, &r.baseRepository, "organizer candidate", q)
}

// Participants returns the distinct profiles that took part in a contest
func (r *ContestRepository) Participants(ctx context.Context, contestID int64) ([]*models.Profile, error) {
	q := r.sb.Select("p.id", "p.user_id", "u.username", "p.name", "p.rating").
		From("profiles p").
		Join("users u ON u.id = p.user_id").
		Where("EXISTS (SELECT 1 FROM contest_participations cp WHERE cp.profile_id = p.id AND cp.contest_id = ?)", contestID).
		OrderBy("u.username")
	return selectAll[models.Profile](ctx, &r.baseRepository, "contest participant", q)
}

// Search matches contests in scope by key or name
func (r *ContestRepository) Search(ctx context.Context, scope auth.Scope, term string, page Page) ([]*models.Contest, error) {
	contests, _, err := r.List(ctx, scope, ContestFilter{Search: term, Page: page})
	return contests, err
}
