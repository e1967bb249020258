package services

import (
	"CarePoint/models"
	"CarePoint/repositories"
	"CarePoint/utils"
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// UserService manages identity. The clinical core never consults it; roles are
// enforced at the transport boundary and the core trusts its caller.
type UserService interface {
	ValidateAndCreateUser(ctx context.Context, user *models.User) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserPermissions(ctx context.Context, userID int64) ([]models.Permission, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	locker   Locker
}

func NewUserService(userRepo repositories.UserRepository, locker Locker) UserService {
	return &userService{userRepo: userRepo, locker: locker}
}

func userLockKey(email string) string {
	return fmt.Sprintf("user_lock:%s", email)
}

func (s *userService) ValidateAndCreateUser(ctx context.Context, user *models.User) error {
	release, err := s.locker.Acquire(ctx, userLockKey(user.Email))
	if err != nil {
		return err
	}
	defer release()

	if err := utils.ValidateUserData(*user); err != nil {
		return errors.Wrapf(ErrValidation, "invalid user data: %v", err)
	}

	if exists, err := s.userRepo.EmailExists(ctx, user.Email); err != nil || exists {
		return errors.Wrap(ErrValidation, "email already registered")
	}

	if err := s.userRepo.ValidateRoleID(ctx, user.RoleID); err != nil {
		return errors.Wrapf(ErrValidation, "invalid role ID: %v", err)
	}

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	return s.userRepo.CreateUser(ctx, user)
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, errors.Wrap(ErrValidation, "invalid email or password")
	}
	return user, nil
}

func (s *userService) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by ID: %w", err)
	}
	if user == nil {
		return errors.Wrapf(ErrNotFound, "user %d", userID)
	}

	release, err := s.locker.Acquire(ctx, userLockKey(user.Email))
	if err != nil {
		return err
	}
	defer release()

	if err := s.userRepo.UpdateUserPassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return s.userRepo.DeleteUserCache(ctx, user.Email)
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *userService) GetUserPermissions(ctx context.Context, userID int64) ([]models.Permission, error) {
	return s.userRepo.GetUserPermissions(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by ID: %w", err)
	}
	if user == nil {
		return errors.Wrapf(ErrNotFound, "user %d", userID)
	}

	if err := s.userRepo.DeleteUserCache(ctx, user.Email); err != nil {
		return fmt.Errorf("failed to delete user cache: %w", err)
	}
	return s.userRepo.DeleteUser(ctx, userID)
}
