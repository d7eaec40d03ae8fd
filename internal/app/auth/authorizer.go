package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

// Authorizer resolves the capability set of a user
type Authorizer interface {
	ActorFor(ctx context.Context, userID int64) (*Actor, error)
}

// CapabilityStore is the persistence needed to build actors
type CapabilityStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetProfileIDByUserID(ctx context.Context, userID int64) (int64, error)
	// ListCapabilities returns the union of direct and group capabilities
	ListCapabilities(ctx context.Context, userID int64) ([]string, error)
}

// StoreAuthorizer builds actors from a CapabilityStore
type StoreAuthorizer struct {
	store CapabilityStore
}

// NewAuthorizer creates a new StoreAuthorizer
func NewAuthorizer(store CapabilityStore) *StoreAuthorizer {
	return &StoreAuthorizer{store: store}
}

// ActorFor loads the user and its capability set. Only active staff accounts may act.
func (a *StoreAuthorizer) ActorFor(ctx context.Context, userID int64) (*Actor, error) {
	user, err := a.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	if !user.IsStaff && !user.IsSuperuser {
		return nil, apperrors.NewForbiddenError("staff account required")
	}

	profileID, err := a.store.GetProfileIDByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	codenames, err := a.store.ListCapabilities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading capabilities: %w", err)
	}

	actor := &Actor{
		UserID:       user.ID,
		ProfileID:    profileID,
		Username:     user.Username,
		IsSuperuser:  user.IsSuperuser,
		IsStaff:      user.IsStaff,
		Capabilities: make(map[Capability]struct{}, len(codenames)),
	}
	for _, c := range codenames {
		actor.Capabilities[Capability(c)] = struct{}{}
	}

	logger.Debug().Int64("userID", userID).Int("capabilities", len(codenames)).Bool("superuser", user.IsSuperuser).Msg("Resolved actor")
	return actor, nil
}
