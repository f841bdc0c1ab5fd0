package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// UserDomain defines user domain service interface.
type UserDomain interface {
	// Account operations
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	Register(ctx context.Context, input *RegisterInput) (*model.User, error)

	// Authenticate checks an email and password pair and returns the active user.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)

	// FindOrCreateOAuthUser links an external identity to an account by email,
	// creating a customer account on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, info *model.OAuthUserInfo) (*model.User, error)

	// Admin operations
	ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error)
	UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error

	// SeedAdmin makes sure an administrator with the given email exists.
	SeedAdmin(ctx context.Context, email, password, name string) (*model.User, error)
}

// RegisterInput represents registration input.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     model.UserRole
}

type userDomain struct {
	userDB outbound.UserDatabasePort
	hasher outbound.PasswordHasherPort
	logger *zap.Logger
}

// NewUserDomain creates a new user domain service.
func NewUserDomain(
	userDB outbound.UserDatabasePort,
	hasher outbound.PasswordHasherPort,
	logger *zap.Logger,
) UserDomain {
	return &userDomain{
		userDB: userDB,
		hasher: hasher,
		logger: logger,
	}
}

// --- Account Operations ---

func (d *userDomain) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := d.userDB.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (d *userDomain) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := d.userDB.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (d *userDomain) Register(ctx context.Context, input *RegisterInput) (*model.User, error) {
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role := input.Role
	if role == "" {
		role = model.UserRoleCustomer
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	email := model.NormalizeEmail(input.Email)
	existing, err := d.userDB.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := d.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         role,
		Status:       model.UserStatusActive,
	}
	if err := d.userDB.Create(ctx, u); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	d.logger.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", string(role)))
	return u, nil
}

func (d *userDomain) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := d.userDB.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	// OAuth-only accounts have no password hash and cannot sign in this way.
	if u == nil || u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := d.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrAccountSuspended
	}
	return u, nil
}

func (d *userDomain) FindOrCreateOAuthUser(ctx context.Context, info *model.OAuthUserInfo) (*model.User, error) {
	email := model.NormalizeEmail(info.Email)
	u, err := d.userDB.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u != nil {
		if !u.IsActive() {
			return nil, ErrAccountSuspended
		}
		if u.AvatarURL == "" && info.AvatarURL != "" {
			u.AvatarURL = info.AvatarURL
			if err := d.userDB.Update(ctx, u); err != nil {
				d.logger.Warn("failed to store avatar", zap.Error(err))
			}
		}
		return u, nil
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	u = &model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      model.UserRoleCustomer,
		Status:    model.UserStatusActive,
		AvatarURL: info.AvatarURL,
	}
	if err := d.userDB.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	d.logger.Info("user created from oauth",
		zap.String("user_id", u.ID.String()),
		zap.String("provider", info.Provider.String()),
	)
	return u, nil
}

// --- Admin Operations ---

func (d *userDomain) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	filter.Normalize(pagination.DefaultPageSize, pagination.MaxPageSize)
	if filter.Role != nil && !filter.Role.IsValid() {
		return nil, 0, ErrInvalidRole
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return d.userDB.FindByFilter(ctx, filter)
}

func (d *userDomain) UpdateUser(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := d.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, ErrInvalidRole
		}
		if id == actor.UserID && *req.Role != u.Role {
			return nil, ErrCannotModifySelf
		}
		u.Role = *req.Role
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		if id == actor.UserID && *req.Status != u.Status {
			return nil, ErrCannotModifySelf
		}
		u.Status = *req.Status
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}

	if err := d.userDB.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	d.logger.Info("user updated by admin",
		zap.String("user_id", id.String()),
		zap.String("admin_id", actor.UserID.String()),
		zap.String("role", string(u.Role)),
		zap.String("status", string(u.Status)),
	)
	return u, nil
}

func (d *userDomain) DeleteUser(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if id == actor.UserID {
		return ErrCannotModifySelf
	}
	if _, err := d.GetUser(ctx, id); err != nil {
		return err
	}
	if err := d.userDB.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	d.logger.Info("user deleted by admin",
		zap.String("user_id", id.String()),
		zap.String("admin_id", actor.UserID.String()),
	)
	return nil
}

func (d *userDomain) SeedAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	u, err := d.userDB.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u != nil {
		if u.Role != model.UserRoleAdmin {
			u.Role = model.UserRoleAdmin
			if err := d.userDB.Update(ctx, u); err != nil {
				return nil, fmt.Errorf("promote admin: %w", err)
			}
			d.logger.Info("promoted existing user to admin", zap.String("user_id", u.ID.String()))
		}
		return u, nil
	}
	if name == "" {
		name = "Administrator"
	}
	return d.Register(ctx, &RegisterInput{Email: email, Password: password, Name: name, Role: model.UserRoleAdmin})
}
