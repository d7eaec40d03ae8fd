package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

type fakeJudgeStore struct {
	judges map[int64]*models.Judge
	keys   map[int64]string
}

func (f *fakeJudgeStore) List(_ context.Context) ([]*models.Judge, error) { return nil, nil }

func (f *fakeJudgeStore) GetByID(_ context.Context, id int64) (*models.Judge, error) {
	j, ok := f.judges[id]
	if !ok {
		return nil, apperrors.ErrJudgeNotFound
	}
	c := *j
	return &c, nil
}

func (f *fakeJudgeStore) Create(_ context.Context, j *models.Judge) (int64, error) {
	id := int64(len(f.judges) + 1)
	f.judges[id] = j
	return id, nil
}

func (f *fakeJudgeStore) Update(_ context.Context, j *models.Judge) error {
	f.judges[j.ID] = j
	return nil
}

func (f *fakeJudgeStore) SetAuthKey(_ context.Context, id int64, key string) error {
	f.keys[id] = key
	return nil
}

func (f *fakeJudgeStore) DeleteOffline(_ context.Context, id int64) (bool, error) {
	if f.judges[id].Online {
		return false, nil
	}
	delete(f.judges, id)
	return true, nil
}

func newJudgeFixture() *fakeJudgeStore {
	return &fakeJudgeStore{
		judges: map[int64]*models.Judge{
			1: {ID: 1, Name: "alpha", AuthKey: "k1", Online: true},
			2: {ID: 2, Name: "beta", AuthKey: "k2"},
		},
		keys: map[int64]string{},
	}
}

func TestGenerateAuthKey(t *testing.T) {
	key, err := GenerateAuthKey()
	if err != nil {
		t.Fatalf("GenerateAuthKey: %v", err)
	}
	if len(key) != AuthKeyLength {
		t.Fatalf("len = %d, want %d", len(key), AuthKeyLength)
	}
	for _, r := range key {
		if !strings.ContainsRune(AuthKeyCharset, r) {
			t.Fatalf("character %q outside the charset", r)
		}
	}
	if strings.ContainsRune(key, 'm') {
		t.Errorf("'m' is not part of the charset")
	}
	other, _ := GenerateAuthKey()
	if other == key {
		t.Errorf("two keys are equal")
	}
}

func TestJudgeFormReadonlyName(t *testing.T) {
	svc := NewJudgeService(newJudgeFixture())
	actor := actorWith(auth.EntityJudge)
	ctx := context.Background()

	for id, wantName := range map[int64]bool{1: true, 2: false} {
		id := id
		form, err := svc.LoadForm(ctx, actor, &id)
		if err != nil {
			t.Fatalf("LoadForm(%d): %v", id, err)
		}
		hasName := false
		for _, f := range form.ReadonlyFields {
			hasName = hasName || f == "name"
		}
		if hasName != wantName {
			t.Errorf("judge %d: name readonly = %v, want %v", id, hasName, wantName)
		}
		if form.Permissions.Delete == wantName {
			t.Errorf("judge %d: delete permission = %v", id, form.Permissions.Delete)
		}
	}
}

func TestJudgeUpdateKeepsOnlineName(t *testing.T) {
	store := newJudgeFixture()
	svc := NewJudgeService(store)
	actor := actorWith(auth.EntityJudge)

	if err := svc.Update(context.Background(), actor, &models.Judge{ID: 1, Name: "renamed", Description: "x"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := store.judges[1]; got.Name != "alpha" || got.AuthKey != "k1" || got.Description != "x" {
		t.Errorf("online judge = %+v", got)
	}
	if err := svc.Update(context.Background(), actor, &models.Judge{ID: 2, Name: "gamma"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.judges[2].Name != "gamma" {
		t.Errorf("offline judge name = %q, want gamma", store.judges[2].Name)
	}
}

func TestJudgeDeleteRefusesOnline(t *testing.T) {
	store := newJudgeFixture()
	svc := NewJudgeService(store)
	actor := actorWith(auth.EntityJudge)

	if err := svc.Delete(context.Background(), actor, 1); !errors.Is(err, apperrors.ErrJudgeOnline) {
		t.Errorf("delete online: got %v", err)
	}
	if _, ok := store.judges[1]; !ok {
		t.Error("online judge was removed")
	}
	if err := svc.Delete(context.Background(), actor, 2); err != nil {
		t.Errorf("delete offline: %v", err)
	}
}

func TestJudgeCreateAndRegenerateKey(t *testing.T) {
	store := newJudgeFixture()
	svc := NewJudgeService(store)
	actor := actorWith(auth.EntityJudge)

	j := &models.Judge{Name: "delta"}
	if _, err := svc.Create(context.Background(), actor, j); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(j.AuthKey) != AuthKeyLength {
		t.Errorf("created key length = %d", len(j.AuthKey))
	}

	key, err := svc.RegenerateKey(context.Background(), actor, 2)
	if err != nil {
		t.Fatalf("RegenerateKey: %v", err)
	}
	if store.keys[2] != key || len(key) != AuthKeyLength {
		t.Errorf("stored %q, returned %q", store.keys[2], key)
	}
	if _, err := svc.RegenerateKey(context.Background(), auth.NewActor(9, 90), 2); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("regenerate without change: got %v", err)
	}
}
