package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// Widget kinds understood by the admin client
const (
	WidgetSelect2              = "select2"
	WidgetSelect2Multiple      = "select2_multiple"
	WidgetHeavySelect2         = "heavy_select2"
	WidgetHeavySelect2Multiple = "heavy_select2_multiple"
	WidgetFilterHorizontal     = "filter_horizontal"
	WidgetGenerateKey          = "generate_key"
	WidgetMarkdown             = "markdown"
)

// Remote search data views
const (
	DataViewProblems      = "problem_select2"
	DataViewProfiles      = "profile_select2"
	DataViewOrganizations = "organization_select2"
	DataViewContests      = "contest_select2"
)

var dataViewPaths = map[string]string{
	DataViewProblems:      "/api/v1/admin/select2/problems",
	DataViewProfiles:      "/api/v1/admin/select2/profiles",
	DataViewOrganizations: "/api/v1/admin/select2/organizations",
	DataViewContests:      "/api/v1/admin/select2/contests",
}

// DataViewURL returns the search endpoint of a data view
func DataViewURL(dataView string) string {
	return dataViewPaths[dataView]
}

// Widget binds a form field to a client widget
type Widget struct {
	Kind     string `json:"kind"`
	DataView string `json:"dataView,omitempty"`
	URL      string `json:"url,omitempty"`
}

func remote(kind, dataView string) Widget {
	return Widget{Kind: kind, DataView: dataView, URL: DataViewURL(dataView)}
}

// Fieldset is a titled group of form fields
type Fieldset struct {
	Name      string   `json:"name,omitempty"`
	Fields    []string `json:"fields"`
	Collapsed bool     `json:"collapsed,omitempty"`
}

// Inline is a child table edited inside the parent form
type Inline struct {
	Entity            string            `json:"entity"`
	VerboseName       string            `json:"verboseName"`
	VerboseNamePlural string            `json:"verboseNamePlural"`
	Fields            []string          `json:"fields"`
	Widgets           map[string]Widget `json:"widgets,omitempty"`
	Sortable          string            `json:"sortable,omitempty"`
}

// ActionFunc applies a bulk action to the selected ids and returns how many rows it touched
type ActionFunc func(ctx context.Context, actor *auth.Actor, ids []int64) (int, error)

// Action is a bulk operation offered on a change list. Singular and Plural are
// printf formats taking the affected row count.
type Action struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Singular    string     `json:"-"`
	Plural      string     `json:"-"`
	Run         ActionFunc `json:"-"`
}

// Message renders the outcome message for count rows
func (a *Action) Message(count int) string {
	if count == 1 {
		return fmt.Sprintf(a.Singular, count)
	}
	return fmt.Sprintf(a.Plural, count)
}

// Descriptor declares how one entity is administered
type Descriptor struct {
	Entity            string              `json:"entity"`
	Path              string              `json:"path"`
	VerboseName       string              `json:"verboseName"`
	VerboseNamePlural string              `json:"verboseNamePlural"`
	Fields            []string            `json:"fields,omitempty"`
	Fieldsets         []Fieldset          `json:"fieldsets,omitempty"`
	ListDisplay       []string            `json:"listDisplay"`
	ListDisplayLinks  []string            `json:"listDisplayLinks,omitempty"`
	SearchFields      []string            `json:"searchFields,omitempty"`
	Ordering          []string            `json:"ordering,omitempty"`
	ReadonlyFields    []string            `json:"readonlyFields,omitempty"`
	Widgets           map[string]Widget   `json:"widgets,omitempty"`
	Prepopulated      map[string][]string `json:"prepopulatedFields,omitempty"`
	Inlines           []Inline            `json:"inlines,omitempty"`
	Actions           []*Action           `json:"actions,omitempty"`
	ActionsOnTop      bool                `json:"actionsOnTop"`
	ActionsOnBottom   bool                `json:"actionsOnBottom"`
	Sortable          string              `json:"sortable,omitempty"`
	Versioned         bool                `json:"versioned"`
	Tree              bool                `json:"tree,omitempty"`
}

// FormFields returns the declared fields, flattening fieldsets when present
func (d *Descriptor) FormFields() []string {
	if len(d.Fieldsets) == 0 {
		return d.Fields
	}
	var fields []string
	for _, fs := range d.Fieldsets {
		fields = append(fields, fs.Fields...)
	}
	return fields
}

// Action looks up a bulk action by name
func (d *Descriptor) Action(name string) (*Action, bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Site is the registry of admin descriptors
type Site struct {
	mu       sync.RWMutex
	byEntity map[string]*Descriptor
	byPath   map[string]*Descriptor
	order    []string
}

// NewSite creates an empty registry
func NewSite() *Site {
	return &Site{
		byEntity: make(map[string]*Descriptor),
		byPath:   make(map[string]*Descriptor),
	}
}

// Register adds d to the site. Every entity needs a policy and may be registered once.
func (s *Site) Register(d *Descriptor) error {
	if d == nil || d.Entity == "" {
		return fmt.Errorf("descriptor without entity")
	}
	if _, ok := auth.PolicyFor(d.Entity); !ok {
		return fmt.Errorf("no policy for entity %q", d.Entity)
	}
	if d.Path == "" {
		d.Path = d.Entity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEntity[d.Entity]; ok {
		return fmt.Errorf("entity %q already registered", d.Entity)
	}
	if _, ok := s.byPath[d.Path]; ok {
		return fmt.Errorf("path %q already registered", d.Path)
	}
	s.byEntity[d.Entity] = d
	s.byPath[d.Path] = d
	s.order = append(s.order, d.Entity)
	return nil
}

// Get returns the descriptor of entity
func (s *Site) Get(entity string) (*Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byEntity[entity]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrUnknownEntity, fmt.Sprintf("unknown entity %q", entity))
	}
	return d, nil
}

// Descriptors returns every descriptor in registration order
func (s *Site) Descriptors() []*Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Descriptor, 0, len(s.order))
	for _, e := range s.order {
		out = append(out, s.byEntity[e])
	}
	return out
}

// VisibleTo returns the descriptors whose change list actor may open
func (s *Site) VisibleTo(actor *auth.Actor) []*Descriptor {
	var out []*Descriptor
	for _, d := range s.Descriptors() {
		if auth.CanView(actor, d.Entity) {
			out = append(out, d)
		}
	}
	return out
}

// RunAction runs a bulk action of entity over ids. The actor needs change
// permission on the entity; the action itself narrows ids to the actor's scope.
func (s *Site) RunAction(ctx context.Context, actor *auth.Actor, entity, name string, ids []int64) (int, string, error) {
	d, err := s.Get(entity)
	if err != nil {
		return 0, "", err
	}
	action, ok := d.Action(name)
	if !ok {
		return 0, "", apperrors.NewCustomError(apperrors.ErrUnknownAction, fmt.Sprintf("unknown action %q on %s", name, entity))
	}
	if !auth.CanChange(actor, entity, nil) {
		return 0, "", apperrors.NewForbiddenError("you cannot change " + d.VerboseNamePlural)
	}
	if len(ids) == 0 {
		return 0, "", apperrors.NewValidationError("ids", "select at least one row")
	}

	count, err := action.Run(ctx, actor, ids)
	if err != nil {
		return 0, "", err
	}

	logger.FromContext(ctx).Info().
		Str("entity", entity).
		Str("action", name).
		Int("selected", len(ids)).
		Int("count", count).
		Int64("userID", actor.UserID).
		Msg("Bulk action applied")
	return count, action.Message(count), nil
}
