package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

type fakeLanguageStore struct {
	langs      map[int64]*models.Language
	disallowed map[int64][]int64
}

func (f *fakeLanguageStore) List(_ context.Context) ([]*models.Language, error) {
	var out []*models.Language
	for _, l := range f.langs {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLanguageStore) GetByID(_ context.Context, id int64) (*models.Language, error) {
	l, ok := f.langs[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c := *l
	return &c, nil
}

func (f *fakeLanguageStore) Create(_ context.Context, l *models.Language) (int64, error) {
	id := int64(len(f.langs) + 1)
	f.langs[id] = l
	return id, nil
}

func (f *fakeLanguageStore) Update(_ context.Context, l *models.Language) error {
	f.langs[l.ID] = l
	return nil
}

func (f *fakeLanguageStore) Delete(_ context.Context, id int64) error {
	delete(f.langs, id)
	return nil
}

func (f *fakeLanguageStore) DisallowedProblemIDs(_ context.Context, languageID int64) ([]int64, error) {
	return f.disallowed[languageID], nil
}

func (f *fakeLanguageStore) SetAllowedProblems(_ context.Context, languageID int64, disallowed []int64) error {
	f.disallowed[languageID] = disallowed
	return nil
}

func TestLanguageFormUsesDisallowedProblems(t *testing.T) {
	store := &fakeLanguageStore{
		langs:      map[int64]*models.Language{1: {ID: 1, Key: "py3", Name: "Python 3"}},
		disallowed: map[int64][]int64{1: {7, 9}},
	}
	tx := &fakeTx{}
	svc := NewLanguageService(tx, store)
	actor := actorWith(auth.EntityLanguage)
	ctx := context.Background()

	id := int64(1)
	form, err := svc.LoadForm(ctx, actor, &id)
	if err != nil {
		t.Fatalf("LoadForm: %v", err)
	}
	if !reflect.DeepEqual(form.Initial, []int64{7, 9}) {
		t.Errorf("Initial = %v, want [7 9]", form.Initial)
	}
	if form.DataView != admin.DataViewProblems || !form.Permissions.Change || !form.Permissions.Delete {
		t.Errorf("form = %+v", form)
	}

	newID, err := svc.Create(ctx, actor, &models.Language{Key: "cpp", Name: "C++", DisallowedProblemIDs: []int64{3}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tx.calls != 1 || !reflect.DeepEqual(store.disallowed[newID], []int64{3}) {
		t.Errorf("tx calls = %d, disallowed = %v", tx.calls, store.disallowed[newID])
	}
}

func TestLanguageFormPermissions(t *testing.T) {
	svc := NewLanguageService(&fakeTx{}, &fakeLanguageStore{langs: map[int64]*models.Language{}, disallowed: map[int64][]int64{}})
	ctx := context.Background()

	// change without add may not open the add form
	changer := auth.NewActor(2, 20, auth.ChangeCapability(auth.EntityLanguage))
	if _, err := svc.LoadForm(ctx, changer, nil); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("add form without add: got %v", err)
	}
	if _, err := svc.Create(ctx, changer, &models.Language{Key: "go"}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Create without add: got %v", err)
	}
	if err := svc.Delete(ctx, changer, 1); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Delete without delete: got %v", err)
	}

	form, err := svc.LoadForm(ctx, actorWith(auth.EntityLanguage), nil)
	if err != nil {
		t.Fatalf("add form: %v", err)
	}
	if form.Initial == nil || len(form.Initial) != 0 {
		t.Errorf("add form Initial = %v, want empty", form.Initial)
	}
}

type fakeProblemSetStore struct {
	sets map[int64]*models.ProblemSet
}

func (f *fakeProblemSetStore) List(_ context.Context) ([]*models.ProblemSet, error) { return nil, nil }

func (f *fakeProblemSetStore) GetByID(_ context.Context, id int64) (*models.ProblemSet, error) {
	s, ok := f.sets[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return s, nil
}

func (f *fakeProblemSetStore) Create(_ context.Context, s *models.ProblemSet) (int64, error) {
	id := int64(len(f.sets) + 1)
	f.sets[id] = s
	return id, nil
}

func (f *fakeProblemSetStore) Update(_ context.Context, s *models.ProblemSet) error {
	f.sets[s.ID] = s
	return nil
}

func (f *fakeProblemSetStore) Delete(_ context.Context, id int64) error {
	delete(f.sets, id)
	return nil
}

func (f *fakeProblemSetStore) SetProblems(_ context.Context, id int64, problemIDs []int64) error {
	f.sets[id].ProblemIDs = problemIDs
	return nil
}

func TestProblemSetServicesAreSeparatelyPermissioned(t *testing.T) {
	store := &fakeProblemSetStore{sets: map[int64]*models.ProblemSet{1: {ID: 1, Name: "dp"}}}
	groups := NewProblemGroupService(&fakeTx{}, store)
	types := NewProblemTypeService(&fakeTx{}, store)
	actor := actorWith(auth.EntityProblemGroup)
	id := int64(1)

	form, err := groups.LoadForm(context.Background(), actor, &id)
	if err != nil {
		t.Fatalf("group form: %v", err)
	}
	if form.Initial == nil || form.HelpText != "These problems are included in this group of problems" {
		t.Errorf("group form = %+v", form)
	}
	if _, err := types.LoadForm(context.Background(), actor, &id); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("type form with group rights: got %v", err)
	}
}
