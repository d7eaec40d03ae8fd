package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	appAuth "github.com/yigit/judgeadmin/internal/app/auth"
	appModels "github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/judgeadmin/internal/pkg/auth"
)

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fakeStore struct {
	capabilities []string
	groups       map[string][]string
	users        map[string]*appModels.User
	memberships  map[int64]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{groups: map[string][]string{}, users: map[string]*appModels.User{}, memberships: map[int64]int64{}}
}

func (f *fakeStore) EnsureCapabilities(_ context.Context, codenames []string) error {
	f.capabilities = codenames
	return nil
}

func (f *fakeStore) EnsureGroup(_ context.Context, name string, codenames []string) (int64, error) {
	f.groups[name] = codenames
	return 1, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*appModels.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *appModels.User) (int64, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Username] = user
	return user.ID, nil
}

func (f *fakeStore) AddUserToGroup(_ context.Context, userID, groupID int64) error {
	f.memberships[userID] = groupID
	return nil
}

func TestCreateDefaultData(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	if err := CreateDefaultData(ctx, fakeTx{}, store, "", zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData: %v", err)
	}
	if len(store.capabilities) != len(appAuth.Catalogue()) || len(store.groups[AdminGroupName]) != len(store.capabilities) {
		t.Errorf("registered %d capabilities, group holds %d", len(store.capabilities), len(store.groups[AdminGroupName]))
	}
	if len(store.users) != 0 {
		t.Errorf("superuser created without a password")
	}

	if err := CreateDefaultData(ctx, fakeTx{}, store, "s3cret-pass", zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData: %v", err)
	}
	admin, ok := store.users[AdminUsername]
	if !ok || !admin.IsSuperuser || !admin.IsStaff || !admin.IsActive {
		t.Fatalf("superuser = %+v", admin)
	}
	if !pkgAuth.CheckPassword(admin.Password, "s3cret-pass") {
		t.Error("stored password does not match")
	}
	if store.memberships[admin.ID] != 1 {
		t.Error("superuser not in admin group")
	}

	// a second run keeps the existing account
	if err := CreateDefaultData(ctx, fakeTx{}, store, "other", zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData: %v", err)
	}
	if !pkgAuth.CheckPassword(store.users[AdminUsername].Password, "s3cret-pass") || len(store.users) != 1 {
		t.Error("existing superuser was replaced")
	}
}
