package services

import (
	"context"
	"time"

	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// NavigationStore persists navigation entries. Row writes never touch the nested-set fields.
type NavigationStore interface {
	List(ctx context.Context) ([]*models.NavigationBar, error)
	GetByID(ctx context.Context, id int64) (*models.NavigationBar, error)
	Create(ctx context.Context, n *models.NavigationBar) (int64, error)
	Update(ctx context.Context, n *models.NavigationBar) error
	Delete(ctx context.Context, id int64) error
	LockTree(ctx context.Context, timeout time.Duration) error
	SaveTreeFields(ctx context.Context, nodes []*models.NavigationBar) error
}

// NavigationService manages the navigation menu tree
type NavigationService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.NavigationBar, error)
	Get(ctx context.Context, actor *auth.Actor, id int64) (*models.NavigationBar, error)
	BeginBatch(ctx context.Context, actor *auth.Actor) (*NavigationBatch, error)
	ApplyEdits(ctx context.Context, actor *auth.Actor, edits []dto.NavigationEdit) (*dto.NavigationBatchResponse, error)
	Create(ctx context.Context, actor *auth.Actor, n *models.NavigationBar) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, n *models.NavigationBar) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
}

type navigationServiceImpl struct {
	tx          Transactor
	store       NavigationStore
	lockTimeout time.Duration
	// one open batch per process
	sem chan struct{}
}

// NewNavigationService creates a new navigation service instance
func NewNavigationService(tx Transactor, store NavigationStore, lockTimeout time.Duration) NavigationService {
	return &navigationServiceImpl{
		tx:          tx,
		store:       store,
		lockTimeout: lockTimeout,
		sem:         make(chan struct{}, 1),
	}
}

// NavigationBatch records row mutations without tree maintenance. Close rebuilds the
// tree once under the table lock when at least one row was mutated.
type NavigationBatch struct {
	svc     *navigationServiceImpl
	actor   *auth.Actor
	mutated int
	closed  bool
	// tree lock already held by the enclosing transaction
	locked bool
}

func (s *navigationServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.NavigationBar, error) {
	if err := requireView(actor, auth.EntityNavigationBar); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *navigationServiceImpl) Get(ctx context.Context, actor *auth.Actor, id int64) (*models.NavigationBar, error) {
	if err := requireView(actor, auth.EntityNavigationBar); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// BeginBatch opens a batch, waiting for any other batch of this process to close
func (s *navigationServiceImpl) BeginBatch(ctx context.Context, actor *auth.Actor) (*NavigationBatch, error) {
	if err := requireChange(actor, auth.EntityNavigationBar, nil); err != nil {
		return nil, err
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &NavigationBatch{svc: s, actor: actor}, nil
}

// Save creates the entry when its ID is zero and updates it otherwise
func (b *NavigationBatch) Save(ctx context.Context, n *models.NavigationBar) (int64, error) {
	if b.closed {
		return 0, apperrors.ErrBatchClosed
	}
	if n.ID == 0 {
		if err := requireAdd(b.actor, auth.EntityNavigationBar); err != nil {
			return 0, err
		}
		id, err := b.svc.store.Create(ctx, n)
		if err != nil {
			return 0, err
		}
		n.ID = id
		b.mutated++
		return id, nil
	}
	if n.ParentID != nil && *n.ParentID == n.ID {
		return 0, apperrors.NewValidationError("parentId", "an entry cannot be its own parent")
	}
	if err := b.svc.store.Update(ctx, n); err != nil {
		return 0, err
	}
	b.mutated++
	return n.ID, nil
}

// Delete removes an entry and, through the parent reference, its subtree
func (b *NavigationBatch) Delete(ctx context.Context, id int64) error {
	if b.closed {
		return apperrors.ErrBatchClosed
	}
	if err := requireDelete(b.actor, auth.EntityNavigationBar, nil); err != nil {
		return err
	}
	if err := b.svc.store.Delete(ctx, id); err != nil {
		return err
	}
	b.mutated++
	return nil
}

// Mutated returns how many rows the batch changed so far
func (b *NavigationBatch) Mutated() int {
	return b.mutated
}

// Close ends the batch and reports whether the tree was rebuilt. It is safe to call twice.
func (b *NavigationBatch) Close(ctx context.Context) (bool, error) {
	if b.closed {
		return false, nil
	}
	b.closed = true
	defer func() { <-b.svc.sem }()

	if b.mutated == 0 {
		return false, nil
	}
	if err := b.svc.rebuild(ctx, b.locked); err != nil {
		return false, err
	}
	return true, nil
}

// Abort ends the batch without rebuilding. It does nothing after Close.
func (b *NavigationBatch) Abort() {
	if b.closed {
		return
	}
	b.closed = true
	<-b.svc.sem
}

func (s *navigationServiceImpl) rebuild(ctx context.Context, locked bool) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if !locked {
			if err := s.store.LockTree(ctx, s.lockTimeout); err != nil {
				return err
			}
		}
		nodes, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		ordered, changed := RebuildTree(nodes)
		if err := s.store.SaveTreeFields(ctx, changed); err != nil {
			return err
		}
		logger.Info().
			Int("nodes", len(ordered)).
			Int("changed", len(changed)).
			Msg("Navigation tree rebuilt")
		return nil
	})
}

// beginLocked opens a batch and takes the tree lock in the transaction carried by ctx,
// before any row write, so writers of other processes wait for the whole batch.
func (s *navigationServiceImpl) beginLocked(ctx context.Context, actor *auth.Actor) (*NavigationBatch, error) {
	batch, err := s.BeginBatch(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.store.LockTree(ctx, s.lockTimeout); err != nil {
		batch.Abort()
		return nil, err
	}
	batch.locked = true
	return batch, nil
}

// ApplyEdits applies a change-list submission as one batch inside one transaction
func (s *navigationServiceImpl) ApplyEdits(ctx context.Context, actor *auth.Actor, edits []dto.NavigationEdit) (*dto.NavigationBatchResponse, error) {
	if len(edits) == 0 {
		return nil, apperrors.NewValidationError("edits", "submit at least one edit")
	}
	resp := &dto.NavigationBatchResponse{}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		batch, err := s.beginLocked(ctx, actor)
		if err != nil {
			return err
		}
		defer batch.Abort()

		for _, e := range edits {
			if e.Delete {
				if e.ID == nil {
					return apperrors.NewValidationError("id", "deleting an entry requires its id")
				}
				if err := batch.Delete(ctx, *e.ID); err != nil {
					return err
				}
				resp.Deleted++
				continue
			}
			n := &models.NavigationBar{
				Key:      e.Key,
				Label:    e.Label,
				Path:     e.Path,
				Order:    e.Order,
				Regex:    e.Regex,
				ParentID: e.ParentID,
			}
			if e.ID != nil {
				n.ID = *e.ID
			}
			if _, err := batch.Save(ctx, n); err != nil {
				return err
			}
			resp.Saved++
		}

		if resp.Rebuilt, err = batch.Close(ctx); err != nil {
			return err
		}
		resp.Tree, err = s.store.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *navigationServiceImpl) single(ctx context.Context, actor *auth.Actor, fn func(ctx context.Context, b *NavigationBatch) error) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		batch, err := s.beginLocked(ctx, actor)
		if err != nil {
			return err
		}
		if err := fn(ctx, batch); err != nil {
			batch.Abort()
			return err
		}
		_, err = batch.Close(ctx)
		return err
	})
}

// Create adds one entry as a batch of one
func (s *navigationServiceImpl) Create(ctx context.Context, actor *auth.Actor, n *models.NavigationBar) (int64, error) {
	n.ID = 0
	var id int64
	err := s.single(ctx, actor, func(ctx context.Context, b *NavigationBatch) error {
		var err error
		id, err = b.Save(ctx, n)
		return err
	})
	return id, err
}

// Update saves one entry as a batch of one
func (s *navigationServiceImpl) Update(ctx context.Context, actor *auth.Actor, n *models.NavigationBar) error {
	if n.ID <= 0 {
		return apperrors.NewValidationError("id", "invalid navigation entry id")
	}
	return s.single(ctx, actor, func(ctx context.Context, b *NavigationBatch) error {
		_, err := b.Save(ctx, n)
		return err
	})
}

// Delete removes one entry as a batch of one
func (s *navigationServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	return s.single(ctx, actor, func(ctx context.Context, b *NavigationBatch) error {
		return b.Delete(ctx, id)
	})
}
