package admin

import (
	"context"

	"github.com/yigit/judgeadmin/internal/app/auth"
)

// ContestActions applies contest bulk actions
type ContestActions interface {
	SetPublic(ctx context.Context, actor *auth.Actor, ids []int64, public bool) (int, error)
}

// ParticipationActions applies participation bulk actions
type ParticipationActions interface {
	RecalculateScores(ctx context.Context, actor *auth.Actor, ids []int64) (int, error)
	RecalculateCumtime(ctx context.Context, actor *auth.Actor, ids []int64) (int, error)
}

// NewDefaultSite registers every administered entity
func NewDefaultSite(contests ContestActions, participations ParticipationActions) (*Site, error) {
	site := NewSite()
	descriptors := []*Descriptor{
		languageDescriptor(),
		problemGroupDescriptor(),
		problemTypeDescriptor(),
		miscConfigDescriptor(),
		navigationBarDescriptor(),
		judgeDescriptor(),
		contestDescriptor(contests),
		contestTagDescriptor(),
		contestParticipationDescriptor(participations),
		organizationDescriptor(),
		blogPostDescriptor(),
		solutionDescriptor(),
		licenseDescriptor(),
		organizationRequestDescriptor(),
	}
	for _, d := range descriptors {
		if err := site.Register(d); err != nil {
			return nil, err
		}
	}
	return site, nil
}

func languageDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityLanguage,
		Path:              "languages",
		VerboseName:       "language",
		VerboseNamePlural: "languages",
		Fields:            []string{"key", "name", "short_name", "common_name", "ace", "pygments", "info", "description", "problems"},
		ListDisplay:       []string{"key", "name", "common_name", "info"},
		Widgets: map[string]Widget{
			"problems":    remote(WidgetHeavySelect2Multiple, DataViewProblems),
			"description": {Kind: WidgetMarkdown},
		},
		Versioned: true,
	}
}

func problemGroupDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityProblemGroup,
		Path:              "problem-groups",
		VerboseName:       "problem group",
		VerboseNamePlural: "problem groups",
		Fields:            []string{"name", "full_name", "problems"},
		ListDisplay:       []string{"name", "full_name"},
		Widgets:           map[string]Widget{"problems": remote(WidgetHeavySelect2Multiple, DataViewProblems)},
	}
}

func problemTypeDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityProblemType,
		Path:              "problem-types",
		VerboseName:       "problem type",
		VerboseNamePlural: "problem types",
		Fields:            []string{"name", "full_name", "problems"},
		ListDisplay:       []string{"name", "full_name"},
		Widgets:           map[string]Widget{"problems": remote(WidgetHeavySelect2Multiple, DataViewProblems)},
	}
}

func miscConfigDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityMiscConfig,
		Path:              "misc-config",
		VerboseName:       "configuration item",
		VerboseNamePlural: "miscellaneous configuration",
		Fields:            []string{"key", "value"},
		ListDisplay:       []string{"key"},
	}
}

func navigationBarDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityNavigationBar,
		Path:              "navigation",
		VerboseName:       "navigation item",
		VerboseNamePlural: "navigation bar",
		Fields:            []string{"key", "label", "path", "order", "regex", "parent"},
		ListDisplay:       []string{"label", "key", "path"},
		Sortable:          "order",
		Tree:              true,
	}
}

func judgeDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityJudge,
		Path:              "judges",
		VerboseName:       "judge",
		VerboseNamePlural: "judges",
		Fieldsets: []Fieldset{
			{Fields: []string{"name", "auth_key"}},
			{Name: "Description", Fields: []string{"description"}},
			{Name: "Information", Fields: []string{"created", "online", "last_ip", "start_time", "ping", "load"}},
			{Name: "Capabilities", Fields: []string{"runtimes", "problems"}},
		},
		ReadonlyFields: JudgeReadonlyFields,
		ListDisplay:    []string{"name", "online", "start_time", "ping", "load", "last_ip"},
		Ordering:       []string{"-online", "name"},
		Widgets: map[string]Widget{
			"auth_key":    {Kind: WidgetGenerateKey, URL: "/api/v1/admin/judges/{id}/regenerate-key"},
			"description": {Kind: WidgetMarkdown},
		},
		Versioned: true,
	}
}

// JudgeReadonlyFields are reported by the judge itself and never edited
var JudgeReadonlyFields = []string{"created", "online", "start_time", "ping", "load", "last_ip", "runtimes", "problems"}

// ContestRatingFields are readonly without the contest_rating capability
var ContestRatingFields = []string{"is_rated", "rate_all", "rate_exclude"}

func contestDescriptor(contests ContestActions) *Descriptor {
	setPublic := func(public bool) ActionFunc {
		return func(ctx context.Context, actor *auth.Actor, ids []int64) (int, error) {
			return contests.SetPublic(ctx, actor, ids, public)
		}
	}
	return &Descriptor{
		Entity:            auth.EntityContest,
		Path:              "contests",
		VerboseName:       "contest",
		VerboseNamePlural: "contests",
		Fieldsets: []Fieldset{
			{Fields: []string{"key", "name", "organizers", "is_public", "hide_problem_tags", "run_pretests_only"}},
			{Name: "Scheduling", Fields: []string{"start_time", "end_time", "time_limit"}},
			{Name: "Details", Fields: []string{"description", "og_image", "tags", "summary"}},
			{Name: "Rating", Fields: ContestRatingFields},
			{Name: "Organization", Fields: []string{"is_private", "organizations"}},
		},
		ListDisplay: []string{"key", "name", "is_public", "is_rated", "start_time", "end_time", "time_limit", "user_count"},
		Widgets: map[string]Widget{
			"organizers":    remote(WidgetHeavySelect2Multiple, DataViewProfiles),
			"organizations": remote(WidgetHeavySelect2Multiple, DataViewOrganizations),
			"tags":          {Kind: WidgetSelect2Multiple},
			"rate_exclude":  {Kind: WidgetFilterHorizontal},
			"description":   {Kind: WidgetMarkdown},
		},
		Inlines: []Inline{{
			Entity:            "contestproblem",
			VerboseName:       "Problem",
			VerboseNamePlural: "Problems",
			Fields:            []string{"problem", "points", "partial", "output_prefix_override", "order"},
			Widgets:           map[string]Widget{"problem": remote(WidgetHeavySelect2, DataViewProblems)},
			Sortable:          "order",
		}},
		Actions: []*Action{
			{
				Name:        "make_public",
				Description: "Mark contests as public",
				Singular:    "%d contest successfully marked as public.",
				Plural:      "%d contests successfully marked as public.",
				Run:         setPublic(true),
			},
			{
				Name:        "make_private",
				Description: "Mark contests as private",
				Singular:    "%d contest successfully marked as private.",
				Plural:      "%d contests successfully marked as private.",
				Run:         setPublic(false),
			},
		},
		ActionsOnTop:    true,
		ActionsOnBottom: true,
		Versioned:       true,
	}
}

func contestTagDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityContestTag,
		Path:              "contest-tags",
		VerboseName:       "contest tag",
		VerboseNamePlural: "contest tags",
		Fields:            []string{"name", "color", "description", "contests"},
		ListDisplay:       []string{"name", "color"},
		Widgets: map[string]Widget{
			"contests":    remote(WidgetHeavySelect2Multiple, DataViewContests),
			"description": {Kind: WidgetMarkdown},
		},
		ActionsOnTop:    true,
		ActionsOnBottom: true,
	}
}

func contestParticipationDescriptor(participations ParticipationActions) *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityContestParticipation,
		Path:              "participations",
		VerboseName:       "contest participation",
		VerboseNamePlural: "contest participations",
		Fields:            []string{"contest", "user", "real_start", "virtual"},
		ListDisplay:       []string{"contest", "username", "show_virtual", "real_start", "score", "cumtime"},
		SearchFields:      []string{"contest__key", "contest__name", "user__user__username", "user__name"},
		Widgets: map[string]Widget{
			"contest": {Kind: WidgetSelect2},
			"user":    remote(WidgetHeavySelect2, DataViewProfiles),
		},
		Actions: []*Action{
			{
				Name:        "recalculate_points",
				Description: "Recalculate scores",
				Singular:    "%d participation have scores recalculated.",
				Plural:      "%d participations have scores recalculated.",
				Run:         participations.RecalculateScores,
			},
			{
				Name:        "recalculate_cumtime",
				Description: "Recalculate cumulative time",
				Singular:    "%d participation have times recalculated.",
				Plural:      "%d participations have times recalculated.",
				Run:         participations.RecalculateCumtime,
			},
		},
		ActionsOnTop:    true,
		ActionsOnBottom: true,
	}
}

// OrganizationAdminFields are readonly without the organization_admin capability
var OrganizationAdminFields = []string{"registrant", "admins", "is_open", "slots"}

func organizationDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityOrganization,
		Path:              "organizations",
		VerboseName:       "organization",
		VerboseNamePlural: "organizations",
		Fields:            []string{"name", "key", "short_name", "is_open", "about", "slots", "registrant", "creation_date", "admins"},
		ReadonlyFields:    []string{"creation_date"},
		ListDisplay:       []string{"name", "key", "short_name", "is_open", "slots", "registrant", "show_public"},
		Widgets: map[string]Widget{
			"admins":     remote(WidgetHeavySelect2Multiple, DataViewProfiles),
			"registrant": remote(WidgetHeavySelect2, DataViewProfiles),
			"about":      {Kind: WidgetMarkdown},
		},
		ActionsOnTop:    true,
		ActionsOnBottom: true,
		Versioned:       true,
	}
}

func blogPostDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityBlogPost,
		Path:              "blog-posts",
		VerboseName:       "blog post",
		VerboseNamePlural: "blog posts",
		Fieldsets: []Fieldset{
			{Fields: []string{"title", "slug", "authors", "visible", "sticky", "publish_on"}},
			{Name: "Content", Fields: []string{"content", "og_image"}},
			{Name: "Summary", Fields: []string{"summary"}, Collapsed: true},
		},
		Prepopulated:     map[string][]string{"slug": {"title"}},
		ListDisplay:      []string{"id", "title", "visible", "sticky", "publish_on"},
		ListDisplayLinks: []string{"id", "title"},
		Ordering:         []string{"-publish_on"},
		Widgets: map[string]Widget{
			"authors": remote(WidgetHeavySelect2Multiple, DataViewProfiles),
			"content": {Kind: WidgetMarkdown},
			"summary": {Kind: WidgetMarkdown},
		},
		Versioned: true,
	}
}

func solutionDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntitySolution,
		Path:              "solutions",
		VerboseName:       "solution",
		VerboseNamePlural: "solutions",
		Fields:            []string{"url", "title", "is_public", "publish_on", "problem", "content"},
		ListDisplay:       []string{"title", "url", "problem_link", "show_public"},
		SearchFields:      []string{"url", "title"},
		Widgets: map[string]Widget{
			"problem": remote(WidgetHeavySelect2, DataViewProblems),
			"content": {Kind: WidgetMarkdown},
		},
		Versioned: true,
	}
}

func licenseDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityLicense,
		Path:              "licenses",
		VerboseName:       "license",
		VerboseNamePlural: "licenses",
		Fields:            []string{"key", "link", "name", "display", "icon", "text"},
		ListDisplay:       []string{"name", "key"},
		Widgets:           map[string]Widget{"text": {Kind: WidgetMarkdown}},
	}
}

func organizationRequestDescriptor() *Descriptor {
	return &Descriptor{
		Entity:            auth.EntityOrganizationRequest,
		Path:              "organization-requests",
		VerboseName:       "organization join request",
		VerboseNamePlural: "organization join requests",
		Fields:            []string{"user", "organization", "state", "reason"},
		ReadonlyFields:    []string{"user", "organization"},
		ListDisplay:       []string{"username", "organization", "state", "time"},
	}
}
