package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
)

type fakeNavigationStore struct {
	rows      map[int64]*models.NavigationBar
	nextID    int64
	lockCalls int
	saved     int
	// lock, write and tree in call order
	calls []string
}

func newFakeNavigationStore(rows ...*models.NavigationBar) *fakeNavigationStore {
	f := &fakeNavigationStore{rows: map[int64]*models.NavigationBar{}, nextID: 100}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeNavigationStore) List(_ context.Context) ([]*models.NavigationBar, error) {
	out := make([]*models.NavigationBar, 0, len(f.rows))
	for _, r := range f.rows {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeNavigationStore) GetByID(_ context.Context, id int64) (*models.NavigationBar, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNavigationNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeNavigationStore) Create(_ context.Context, n *models.NavigationBar) (int64, error) {
	f.calls = append(f.calls, "write")
	f.nextID++
	c := *n
	c.ID = f.nextID
	f.rows[c.ID] = &c
	return c.ID, nil
}

func (f *fakeNavigationStore) Update(_ context.Context, n *models.NavigationBar) error {
	f.calls = append(f.calls, "write")
	r, ok := f.rows[n.ID]
	if !ok {
		return apperrors.ErrNavigationNotFound
	}
	r.Key, r.Label, r.Path, r.Order, r.Regex, r.ParentID = n.Key, n.Label, n.Path, n.Order, n.Regex, n.ParentID
	return nil
}

func (f *fakeNavigationStore) Delete(_ context.Context, id int64) error {
	f.calls = append(f.calls, "write")
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNavigationNotFound
	}
	delete(f.rows, id)
	for cid, r := range f.rows {
		if r.ParentID != nil && *r.ParentID == id {
			_ = f.Delete(context.Background(), cid)
		}
	}
	return nil
}

func (f *fakeNavigationStore) LockTree(_ context.Context, _ time.Duration) error {
	f.lockCalls++
	f.calls = append(f.calls, "lock")
	return nil
}

func (f *fakeNavigationStore) SaveTreeFields(_ context.Context, nodes []*models.NavigationBar) error {
	for _, n := range nodes {
		r := f.rows[n.ID]
		r.ParentID, r.Lft, r.Rght, r.Level, r.TreeID = n.ParentID, n.Lft, n.Rght, n.Level, n.TreeID
		f.saved++
	}
	return nil
}

type treeFields struct {
	lft, rght, level, treeID int
}

func fieldsOf(nodes []*models.NavigationBar) map[int64]treeFields {
	out := make(map[int64]treeFields, len(nodes))
	for _, n := range nodes {
		out[n.ID] = treeFields{n.Lft, n.Rght, n.Level, n.TreeID}
	}
	return out
}

func TestRebuildTree(t *testing.T) {
	tests := []struct {
		name  string
		nodes []*models.NavigationBar
		want  map[int64]treeFields
		roots []int64
	}{
		{
			name: "siblings ordered by order then id",
			nodes: []*models.NavigationBar{
				{ID: 1, Order: 2},
				{ID: 2, Order: 1},
				{ID: 3, Order: 5, ParentID: int64Ptr(1)},
				{ID: 4, Order: 5, ParentID: int64Ptr(1)},
			},
			want: map[int64]treeFields{
				2: {1, 2, 0, 1},
				1: {1, 6, 0, 2},
				3: {2, 3, 1, 2},
				4: {4, 5, 1, 2},
			},
			roots: []int64{1, 2},
		},
		{
			name: "orphan becomes a root",
			nodes: []*models.NavigationBar{
				{ID: 1},
				{ID: 2, ParentID: int64Ptr(99)},
			},
			want: map[int64]treeFields{
				1: {1, 2, 0, 1},
				2: {1, 2, 0, 2},
			},
			roots: []int64{1, 2},
		},
		{
			name: "cycle is cut",
			nodes: []*models.NavigationBar{
				{ID: 1, ParentID: int64Ptr(2)},
				{ID: 2, ParentID: int64Ptr(1)},
			},
			want: map[int64]treeFields{
				2: {1, 4, 0, 1},
				1: {2, 3, 1, 1},
			},
			roots: []int64{2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered, _ := RebuildTree(tt.nodes)
			if len(ordered) != len(tt.nodes) {
				t.Fatalf("ordered has %d nodes, want %d", len(ordered), len(tt.nodes))
			}
			got := fieldsOf(ordered)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("node %d = %+v, want %+v", id, got[id], want)
				}
			}
			for _, n := range ordered {
				isRoot := n.ParentID == nil
				wantRoot := false
				for _, r := range tt.roots {
					wantRoot = wantRoot || r == n.ID
				}
				if isRoot != wantRoot {
					t.Errorf("node %d root = %v, want %v", n.ID, isRoot, wantRoot)
				}
			}
		})
	}
}

func TestRebuildTreeIsStable(t *testing.T) {
	nodes := []*models.NavigationBar{
		{ID: 1},
		{ID: 2, ParentID: int64Ptr(1)},
		{ID: 3, ParentID: int64Ptr(2)},
	}
	_, changed := RebuildTree(nodes)
	if len(changed) != 3 {
		t.Fatalf("first rebuild changed %d nodes, want 3", len(changed))
	}
	if _, changed = RebuildTree(nodes); len(changed) != 0 {
		t.Errorf("second rebuild changed %d nodes, want 0", len(changed))
	}
}

func TestNavigationBatchRebuildsOnlyWhenMutated(t *testing.T) {
	store := newFakeNavigationStore(&models.NavigationBar{ID: 1, Key: "home"})
	tx := &fakeTx{}
	svc := NewNavigationService(tx, store, time.Second)
	actor := actorWith(auth.EntityNavigationBar)
	ctx := context.Background()

	batch, err := svc.BeginBatch(ctx, actor)
	if err != nil {
		t.Fatalf("BeginBatch: %v", err)
	}
	rebuilt, err := batch.Close(ctx)
	if err != nil || rebuilt {
		t.Fatalf("empty batch: rebuilt=%v err=%v", rebuilt, err)
	}
	if store.lockCalls != 0 {
		t.Errorf("empty batch took the tree lock")
	}

	batch, err = svc.BeginBatch(ctx, actor)
	if err != nil {
		t.Fatalf("BeginBatch after close: %v", err)
	}
	if _, err := batch.Save(ctx, &models.NavigationBar{Key: "about", ParentID: int64Ptr(1)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := batch.Save(ctx, &models.NavigationBar{Key: "faq", ParentID: int64Ptr(1)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if store.lockCalls != 0 {
		t.Errorf("tree rebuilt before Close")
	}
	if rebuilt, err = batch.Close(ctx); err != nil || !rebuilt {
		t.Fatalf("Close: rebuilt=%v err=%v", rebuilt, err)
	}
	if store.lockCalls != 1 {
		t.Errorf("lockCalls = %d, want 1", store.lockCalls)
	}
	if root := store.rows[1]; root.Lft != 1 || root.Rght != 6 {
		t.Errorf("root = %+v, want lft 1 rght 6", root)
	}

	if _, err := batch.Save(ctx, &models.NavigationBar{Key: "late"}); !errors.Is(err, apperrors.ErrBatchClosed) {
		t.Errorf("Save after Close: got %v", err)
	}
	if rebuilt, _ := batch.Close(ctx); rebuilt {
		t.Errorf("second Close rebuilt again")
	}
}

func TestNavigationBatchIsExclusive(t *testing.T) {
	svc := NewNavigationService(&fakeTx{}, newFakeNavigationStore(), time.Second)
	actor := actorWith(auth.EntityNavigationBar)

	first, err := svc.BeginBatch(context.Background(), actor)
	if err != nil {
		t.Fatalf("BeginBatch: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.BeginBatch(ctx, actor); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second BeginBatch: got %v, want deadline exceeded", err)
	}

	first.Abort()
	second, err := svc.BeginBatch(context.Background(), actor)
	if err != nil {
		t.Fatalf("BeginBatch after Abort: %v", err)
	}
	second.Abort()
}

func TestNavigationPermissions(t *testing.T) {
	svc := NewNavigationService(&fakeTx{}, newFakeNavigationStore(), time.Second)
	viewer := auth.NewActor(2, 20)
	if _, err := svc.BeginBatch(context.Background(), viewer); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("BeginBatch without change: got %v", err)
	}
	if _, err := svc.List(context.Background(), viewer); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("List without change: got %v", err)
	}
}

func TestNavigationApplyEdits(t *testing.T) {
	store := newFakeNavigationStore(
		&models.NavigationBar{ID: 1, Key: "home"},
		&models.NavigationBar{ID: 2, Key: "old", ParentID: int64Ptr(1)},
	)
	tx := &fakeTx{}
	svc := NewNavigationService(tx, store, time.Second)
	actor := actorWith(auth.EntityNavigationBar)

	resp, err := svc.ApplyEdits(context.Background(), actor, []dto.NavigationEdit{
		{ID: int64Ptr(2), Delete: true},
		{Key: "new", Label: "New", Path: "/new", ParentID: int64Ptr(1)},
		{ID: int64Ptr(1), Key: "home", Label: "Home", Path: "/", Order: 1},
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if resp.Saved != 2 || resp.Deleted != 1 || !resp.Rebuilt {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Tree) != 2 || store.lockCalls != 1 {
		t.Errorf("tree has %d nodes, lockCalls = %d", len(resp.Tree), store.lockCalls)
	}

	if _, err := svc.ApplyEdits(context.Background(), actor, []dto.NavigationEdit{{Delete: true}}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("delete without id: got %v", err)
	}
	// the failed submission released the batch
	b, err := svc.BeginBatch(context.Background(), actor)
	if err != nil {
		t.Fatalf("BeginBatch after failed edits: %v", err)
	}
	b.Abort()
}

func TestNavigationUpdateRejectsSelfParent(t *testing.T) {
	store := newFakeNavigationStore(&models.NavigationBar{ID: 1, Key: "home"})
	svc := NewNavigationService(&fakeTx{}, store, time.Second)
	err := svc.Update(context.Background(), actorWith(auth.EntityNavigationBar), &models.NavigationBar{ID: 1, Key: "home", ParentID: int64Ptr(1)})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("got %v, want validation error", err)
	}
	if store.saved != 0 {
		t.Errorf("rejected update rebuilt the tree")
	}
}

func TestNavigationLockPrecedesWrites(t *testing.T) {
	store := newFakeNavigationStore(&models.NavigationBar{ID: 1, Key: "home"})
	svc := NewNavigationService(&fakeTx{}, store, time.Second)
	actor := actorWith(auth.EntityNavigationBar)

	_, err := svc.ApplyEdits(context.Background(), actor, []dto.NavigationEdit{
		{Key: "about", Label: "About", Path: "/about", ParentID: int64Ptr(1)},
		{ID: int64Ptr(1), Key: "home", Label: "Home", Path: "/"},
	})
	if err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	if len(store.calls) != 3 || store.calls[0] != "lock" || store.lockCalls != 1 {
		t.Fatalf("calls = %v, want the lock once before every write", store.calls)
	}

	store.calls = nil
	if _, err := svc.Create(context.Background(), actor, &models.NavigationBar{Key: "faq", ParentID: int64Ptr(1)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(store.calls) != 2 || store.calls[0] != "lock" || store.calls[1] != "write" {
		t.Errorf("calls = %v, want [lock write]", store.calls)
	}
}
