package services

import (
	"context"

	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
)

// LanguageStore persists languages and their allowed problem sets
type LanguageStore interface {
	List(ctx context.Context) ([]*models.Language, error)
	GetByID(ctx context.Context, id int64) (*models.Language, error)
	Create(ctx context.Context, l *models.Language) (int64, error)
	Update(ctx context.Context, l *models.Language) error
	Delete(ctx context.Context, id int64) error
	DisallowedProblemIDs(ctx context.Context, languageID int64) ([]int64, error)
	SetAllowedProblems(ctx context.Context, languageID int64, disallowed []int64) error
}

// LanguageService manages languages. The form edits the problems a language may NOT be used for.
type LanguageService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.Language, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error)
	Create(ctx context.Context, actor *auth.Actor, l *models.Language) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, l *models.Language) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type languageServiceImpl struct {
	tx    Transactor
	store LanguageStore
}

// NewLanguageService creates a new language service instance
func NewLanguageService(tx Transactor, store LanguageStore) LanguageService {
	return &languageServiceImpl{tx: tx, store: store}
}

func (s *languageServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.Language, error) {
	if err := requireView(actor, auth.EntityLanguage); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// LoadForm loads the language with the complement of its allowed problems as the initial selection
func (s *languageServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error) {
	form := &dto.MembershipForm{
		Field:    "problems",
		Initial:  []int64{},
		DataView: admin.DataViewProblems,
		Label:    "Disallowed problems",
		HelpText: "These problems are NOT allowed to be submitted in this language",
		Permissions: dto.FormPerms{
			Change: auth.CanChange(actor, auth.EntityLanguage, nil),
		},
	}
	if id == nil {
		if err := requireAdd(actor, auth.EntityLanguage); err != nil {
			return nil, err
		}
		return form, nil
	}
	if err := requireView(actor, auth.EntityLanguage); err != nil {
		return nil, err
	}

	lang, err := s.store.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	disallowed, err := s.store.DisallowedProblemIDs(ctx, lang.ID)
	if err != nil {
		return nil, err
	}
	lang.DisallowedProblemIDs = disallowed
	form.Object = lang
	form.Initial = disallowed
	form.Permissions.Delete = auth.CanDelete(actor, auth.EntityLanguage, nil)
	return form, nil
}

func (s *languageServiceImpl) Create(ctx context.Context, actor *auth.Actor, l *models.Language) (int64, error) {
	if err := requireAdd(actor, auth.EntityLanguage); err != nil {
		return 0, err
	}
	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if id, err = s.store.Create(ctx, l); err != nil {
			return err
		}
		return s.store.SetAllowedProblems(ctx, id, l.DisallowedProblemIDs)
	})
	return id, err
}

func (s *languageServiceImpl) Update(ctx context.Context, actor *auth.Actor, l *models.Language) error {
	if err := requireChange(actor, auth.EntityLanguage, nil); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Update(ctx, l); err != nil {
			return err
		}
		return s.store.SetAllowedProblems(ctx, l.ID, l.DisallowedProblemIDs)
	})
}

func (s *languageServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityLanguage, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ProblemSetStore persists one kind of problem set
type ProblemSetStore interface {
	List(ctx context.Context) ([]*models.ProblemSet, error)
	GetByID(ctx context.Context, id int64) (*models.ProblemSet, error)
	Create(ctx context.Context, s *models.ProblemSet) (int64, error)
	Update(ctx context.Context, s *models.ProblemSet) error
	Delete(ctx context.Context, id int64) error
	SetProblems(ctx context.Context, id int64, problemIDs []int64) error
}

// ProblemSetService manages problem groups or problem types
type ProblemSetService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.ProblemSet, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error)
	Create(ctx context.Context, actor *auth.Actor, set *models.ProblemSet) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, set *models.ProblemSet) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type problemSetServiceImpl struct {
	tx       Transactor
	store    ProblemSetStore
	entity   string
	helpText string
}

// NewProblemGroupService manages problem groups
func NewProblemGroupService(tx Transactor, store ProblemSetStore) ProblemSetService {
	return &problemSetServiceImpl{
		tx:       tx,
		store:    store,
		entity:   auth.EntityProblemGroup,
		helpText: "These problems are included in this group of problems",
	}
}

// NewProblemTypeService manages problem types
func NewProblemTypeService(tx Transactor, store ProblemSetStore) ProblemSetService {
	return &problemSetServiceImpl{
		tx:       tx,
		store:    store,
		entity:   auth.EntityProblemType,
		helpText: "These problems are included in this type of problems",
	}
}

func (s *problemSetServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.ProblemSet, error) {
	if err := requireView(actor, s.entity); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *problemSetServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error) {
	form := &dto.MembershipForm{
		Field:       "problems",
		Initial:     []int64{},
		DataView:    admin.DataViewProblems,
		Label:       "Included problems",
		HelpText:    s.helpText,
		Permissions: dto.FormPerms{Change: auth.CanChange(actor, s.entity, nil)},
	}
	if id == nil {
		if err := requireAdd(actor, s.entity); err != nil {
			return nil, err
		}
		return form, nil
	}
	if err := requireView(actor, s.entity); err != nil {
		return nil, err
	}
	set, err := s.store.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	form.Object = set
	form.Initial = ownerSet(set.ProblemIDs)
	form.Permissions.Delete = auth.CanDelete(actor, s.entity, nil)
	return form, nil
}

func (s *problemSetServiceImpl) Create(ctx context.Context, actor *auth.Actor, set *models.ProblemSet) (int64, error) {
	if err := requireAdd(actor, s.entity); err != nil {
		return 0, err
	}
	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if id, err = s.store.Create(ctx, set); err != nil {
			return err
		}
		return s.store.SetProblems(ctx, id, set.ProblemIDs)
	})
	return id, err
}

func (s *problemSetServiceImpl) Update(ctx context.Context, actor *auth.Actor, set *models.ProblemSet) error {
	if err := requireChange(actor, s.entity, nil); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Update(ctx, set); err != nil {
			return err
		}
		return s.store.SetProblems(ctx, set.ID, set.ProblemIDs)
	})
}

func (s *problemSetServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, s.entity, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ContestTagStore persists contest tags
type ContestTagStore interface {
	List(ctx context.Context) ([]*models.ContestTag, error)
	GetByID(ctx context.Context, id int64) (*models.ContestTag, error)
	Create(ctx context.Context, t *models.ContestTag) (int64, error)
	Update(ctx context.Context, t *models.ContestTag) error
	Delete(ctx context.Context, id int64) error
}

// ContestTagService manages contest tags and the contests they label
type ContestTagService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.ContestTag, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error)
	Create(ctx context.Context, actor *auth.Actor, t *models.ContestTag) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, t *models.ContestTag) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type contestTagServiceImpl struct {
	tx    Transactor
	store ContestTagStore
}

// NewContestTagService creates a new contest tag service instance
func NewContestTagService(tx Transactor, store ContestTagStore) ContestTagService {
	return &contestTagServiceImpl{tx: tx, store: store}
}

func (s *contestTagServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.ContestTag, error) {
	if err := requireView(actor, auth.EntityContestTag); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *contestTagServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.MembershipForm, error) {
	form := &dto.MembershipForm{
		Field:       "contests",
		Initial:     []int64{},
		DataView:    admin.DataViewContests,
		Label:       "Included contests",
		Permissions: dto.FormPerms{Change: auth.CanChange(actor, auth.EntityContestTag, nil)},
	}
	if id == nil {
		if err := requireAdd(actor, auth.EntityContestTag); err != nil {
			return nil, err
		}
		return form, nil
	}
	if err := requireView(actor, auth.EntityContestTag); err != nil {
		return nil, err
	}
	tag, err := s.store.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	form.Object = tag
	form.Initial = ownerSet(tag.ContestIDs)
	form.Permissions.Delete = auth.CanDelete(actor, auth.EntityContestTag, nil)
	return form, nil
}

func (s *contestTagServiceImpl) Create(ctx context.Context, actor *auth.Actor, t *models.ContestTag) (int64, error) {
	if err := requireAdd(actor, auth.EntityContestTag); err != nil {
		return 0, err
	}
	var id int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		id, err = s.store.Create(ctx, t)
		return err
	})
	return id, err
}

func (s *contestTagServiceImpl) Update(ctx context.Context, actor *auth.Actor, t *models.ContestTag) error {
	if err := requireChange(actor, auth.EntityContestTag, nil); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, t)
	})
}

func (s *contestTagServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityContestTag, nil); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
