package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/yigit/judgeadmin/internal/app/admin"
	"github.com/yigit/judgeadmin/internal/app/auth"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/app/models/dto"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

const (
	// AuthKeyLength is the length of generated judge keys
	AuthKeyLength = 100
	// AuthKeyCharset is the alphabet of generated judge keys
	AuthKeyCharset = "abcdefghijklnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789`~!@#$%^&*()_+-=|[]{};:,<>./?"
)

// GenerateAuthKey draws AuthKeyLength characters from AuthKeyCharset
func GenerateAuthKey() (string, error) {
	max := big.NewInt(int64(len(AuthKeyCharset)))
	key := make([]byte, AuthKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate auth key: %w", err)
		}
		key[i] = AuthKeyCharset[n.Int64()]
	}
	return string(key), nil
}

// JudgeStore persists judges
type JudgeStore interface {
	List(ctx context.Context) ([]*models.Judge, error)
	GetByID(ctx context.Context, id int64) (*models.Judge, error)
	Create(ctx context.Context, j *models.Judge) (int64, error)
	Update(ctx context.Context, j *models.Judge) error
	SetAuthKey(ctx context.Context, id int64, key string) error
	DeleteOffline(ctx context.Context, id int64) (bool, error)
}

// JudgeService manages judges
type JudgeService interface {
	List(ctx context.Context, actor *auth.Actor) ([]*models.Judge, error)
	LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.JudgeForm, error)
	Create(ctx context.Context, actor *auth.Actor, j *models.Judge) (int64, error)
	Update(ctx context.Context, actor *auth.Actor, j *models.Judge) error
	Delete(ctx context.Context, actor *auth.Actor, id int64) error
	RegenerateKey(ctx context.Context, actor *auth.Actor, id int64) (string, error)
}

type judgeServiceImpl struct {
	store JudgeStore
	newKey func() (string, error)
}

// NewJudgeService creates a new judge service instance
func NewJudgeService(store JudgeStore) JudgeService {
	return &judgeServiceImpl{store: store, newKey: GenerateAuthKey}
}

// JudgeReadonlyFields returns the fields of j the form may not edit
func JudgeReadonlyFields(j *models.Judge) []string {
	fields := append([]string(nil), admin.JudgeReadonlyFields...)
	if j != nil && j.Online {
		fields = append(fields, "name")
	}
	return fields
}

func (s *judgeServiceImpl) List(ctx context.Context, actor *auth.Actor) ([]*models.Judge, error) {
	if err := requireView(actor, auth.EntityJudge); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

func (s *judgeServiceImpl) LoadForm(ctx context.Context, actor *auth.Actor, id *int64) (*dto.JudgeForm, error) {
	if id == nil {
		if err := requireAdd(actor, auth.EntityJudge); err != nil {
			return nil, err
		}
		return &dto.JudgeForm{
			ReadonlyFields: JudgeReadonlyFields(nil),
			Permissions:    dto.FormPerms{Change: true},
		}, nil
	}
	if err := requireView(actor, auth.EntityJudge); err != nil {
		return nil, err
	}
	j, err := s.store.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	return &dto.JudgeForm{
		Judge:          j,
		ReadonlyFields: JudgeReadonlyFields(j),
		Permissions: dto.FormPerms{
			Change: auth.CanChange(actor, auth.EntityJudge, nil),
			Delete: !j.Online && auth.CanDelete(actor, auth.EntityJudge, nil),
		},
	}, nil
}

func (s *judgeServiceImpl) Create(ctx context.Context, actor *auth.Actor, j *models.Judge) (int64, error) {
	if err := requireAdd(actor, auth.EntityJudge); err != nil {
		return 0, err
	}
	if j.AuthKey == "" {
		key, err := s.newKey()
		if err != nil {
			return 0, err
		}
		j.AuthKey = key
	}
	return s.store.Create(ctx, j)
}

// Update saves the editable fields. The name of an online judge is kept as stored.
func (s *judgeServiceImpl) Update(ctx context.Context, actor *auth.Actor, j *models.Judge) error {
	if err := requireChange(actor, auth.EntityJudge, nil); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, j.ID)
	if err != nil {
		return err
	}
	if current.Online {
		j.Name = current.Name
	}
	if j.AuthKey == "" {
		j.AuthKey = current.AuthKey
	}
	return s.store.Update(ctx, j)
}

// Delete removes an offline judge
func (s *judgeServiceImpl) Delete(ctx context.Context, actor *auth.Actor, id int64) error {
	if err := requireDelete(actor, auth.EntityJudge, nil); err != nil {
		return err
	}
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Online {
		return apperrors.NewCustomError(apperrors.ErrJudgeOnline, "an online judge cannot be deleted")
	}
	deleted, err := s.store.DeleteOffline(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewCustomError(apperrors.ErrJudgeOnline, "an online judge cannot be deleted")
	}
	return nil
}

// RegenerateKey stores a fresh auth key and returns it
func (s *judgeServiceImpl) RegenerateKey(ctx context.Context, actor *auth.Actor, id int64) (string, error) {
	if err := requireChange(actor, auth.EntityJudge, nil); err != nil {
		return "", err
	}
	key, err := s.newKey()
	if err != nil {
		return "", err
	}
	if err := s.store.SetAuthKey(ctx, id, key); err != nil {
		return "", err
	}
	logger.Info().Int64("judgeID", id).Int64("userID", actor.UserID).Msg("Judge auth key regenerated")
	return key, nil
}
