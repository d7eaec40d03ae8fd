package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/judgeadmin/internal/app/models"
	"github.com/yigit/judgeadmin/internal/db"
)

// UserRepository handles accounts, profiles and capability grants
type UserRepository struct {
	baseRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool db.Querier) *UserRepository {
	return &UserRepository{baseRepository: newBase(pool)}
}

var userColumns = []string{
	"id", "username", "email", "password", "is_superuser", "is_staff", "is_active", "last_login_at", "created_at",
}

func (r *UserRepository) getUser(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "user")
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		return nil, mapError(err, "user")
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"id": id})
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, squirrel.Eq{"username": username})
}

// CreateUser inserts a user together with its profile and returns the user id
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	id, err := r.insertID(ctx, "user", r.sb.Insert("users").
		Columns("username", "email", "password", "is_superuser", "is_staff", "is_active").
		Values(user.Username, user.Email, user.Password, user.IsSuperuser, user.IsStaff, user.IsActive))
	if err != nil {
		return 0, err
	}
	if _, err := r.insertID(ctx, "profile", r.sb.Insert("profiles").Columns("user_id").Values(id)); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateLastLogin stamps the last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.exec(ctx, "user", r.sb.Update("users").Set("last_login_at", at).Where(squirrel.Eq{"id": userID}))
	return err
}

// GetProfileIDByUserID returns the profile id of a user
func (r *UserRepository) GetProfileIDByUserID(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Select("id").From("profiles").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get profile query: %w", err)
	}
	var id int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, mapError(err, "profile")
	}
	return id, nil
}

// ListCapabilities returns the union of the user's direct and group capabilities
func (r *UserRepository) ListCapabilities(ctx context.Context, userID int64) ([]string, error) {
	direct := r.sb.Select("c.codename").
		From("capabilities c").
		Join("user_capabilities uc ON uc.capability_id = c.id").
		Where(squirrel.Eq{"uc.user_id": userID})
	// the UNION operand keeps ? placeholders so the outer statement numbers them
	viaGroup := squirrel.Select("c.codename").
		From("capabilities c").
		Join("group_capabilities gc ON gc.capability_id = c.id").
		Join("user_groups ug ON ug.group_id = gc.group_id").
		Where(squirrel.Eq{"ug.user_id": userID})

	groupSQL, groupArgs, err := viaGroup.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build group capability query: %w", err)
	}
	sql, args, err := direct.Suffix("UNION "+groupSQL, groupArgs...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build capability query: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "capability")
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// EnsureCapabilities inserts missing capability codenames
func (r *UserRepository) EnsureCapabilities(ctx context.Context, codenames []string) error {
	if len(codenames) == 0 {
		return nil
	}
	ins := r.sb.Insert("capabilities").Columns("codename")
	for _, c := range codenames {
		ins = ins.Values(c)
	}
	_, err := r.exec(ctx, "capability", ins.Suffix("ON CONFLICT (codename) DO NOTHING"))
	return err
}

// EnsureGroup creates the group if needed and grants it every listed capability
func (r *UserRepository) EnsureGroup(ctx context.Context, name string, codenames []string) (int64, error) {
	sql, args, err := r.sb.Insert("groups").Columns("name").Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build group query: %w", err)
	}
	var groupID int64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&groupID); err != nil {
		return 0, mapError(err, "group")
	}

	grant := r.sb.Insert("group_capabilities").
		Columns("group_id", "capability_id").
		Select(squirrel.Select().Column("?::bigint", groupID).Column("id").
			From("capabilities").
			Where(squirrel.Eq{"codename": codenames})).
		Suffix("ON CONFLICT DO NOTHING")
	if _, err := r.exec(ctx, "group capability", grant); err != nil {
		return 0, err
	}
	return groupID, nil
}

// AddUserToGroup adds a group membership
func (r *UserRepository) AddUserToGroup(ctx context.Context, userID, groupID int64) error {
	_, err := r.exec(ctx, "user group", r.sb.Insert("user_groups").
		Columns("user_id", "group_id").
		Values(userID, groupID).
		Suffix("ON CONFLICT DO NOTHING"))
	return err
}
