package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/judgeadmin/internal/app/auth"
	appModels "github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/judgeadmin/internal/pkg/auth"
)

// Default account and group created on first start
const (
	AdminGroupName = "Admins"
	AdminUsername  = "admin"
)

// Store is the persistence used by seeding
type Store interface {
	EnsureCapabilities(ctx context.Context, codenames []string) error
	EnsureGroup(ctx context.Context, name string, codenames []string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*appModels.User, error)
	CreateUser(ctx context.Context, user *appModels.User) (int64, error)
	AddUserToGroup(ctx context.Context, userID, groupID int64) error
}

// Transactor runs fn inside one transaction
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateDefaultData registers every capability, the Admins group holding all of
// them and, when password is set, a superuser account. Existing rows are kept.
func CreateDefaultData(ctx context.Context, tx Transactor, store Store, password string, lgr zerolog.Logger) error {
	catalogue := appAuth.Catalogue()
	codenames := make([]string, 0, len(catalogue))
	for _, c := range catalogue {
		codenames = append(codenames, string(c))
	}

	lgr.Info().Int("capabilities", len(codenames)).Msg("Checking/Creating default data (capabilities, admin group)...")
	return tx.InTx(ctx, func(ctx context.Context) error {
		if err := store.EnsureCapabilities(ctx, codenames); err != nil {
			return fmt.Errorf("failed to register capabilities: %w", err)
		}
		groupID, err := store.EnsureGroup(ctx, AdminGroupName, codenames)
		if err != nil {
			return fmt.Errorf("failed to create admin group: %w", err)
		}

		if password == "" {
			lgr.Info().Msg("No seed password configured, skipping superuser creation")
			return nil
		}

		_, err = store.GetUserByUsername(ctx, AdminUsername)
		if err == nil {
			lgr.Debug().Str("username", AdminUsername).Msg("Superuser already exists")
			return nil
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return fmt.Errorf("failed to look up superuser: %w", err)
		}

		hash, err := pkgAuth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		userID, err := store.CreateUser(ctx, &appModels.User{
			Username:    AdminUsername,
			Password:    hash,
			IsSuperuser: true,
			IsStaff:     true,
			IsActive:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create superuser: %w", err)
		}
		if err := store.AddUserToGroup(ctx, userID, groupID); err != nil {
			return fmt.Errorf("failed to add superuser to admin group: %w", err)
		}
		lgr.Info().Str("username", AdminUsername).Int64("userID", userID).Msg("Superuser created")
		return nil
	})
}
