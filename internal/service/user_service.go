package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bistro/internal/auth"
	"bistro/internal/cache"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
	"bistro/internal/storage"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate carries the optional fields of a profile patch. Nil means
// "leave unchanged". Role flags are deliberately absent: profile updates can
// never escalate privileges.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	Password  *string
	Image     io.Reader
	ImageName string
}

// UserService exposes profile operations. Every method takes the acting
// identity explicitly; there is no ambient current-user state.
type UserService interface {
	Profile(ctx context.Context, actor *model.User) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	images storage.ImageStore
	cache  *cache.Client
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository, images storage.ImageStore, cache *cache.Client) UserService {
	return &userService{users: users, images: images, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Profile returns the caller's own record. The profile endpoint has no path
// parameter; it is always implicitly "self".
func (s *userService) Profile(ctx context.Context, actor *model.User) (*model.User, error) {
	if err := auth.Authorize(actor, auth.OpProfileRead); err != nil {
		return nil, err
	}

	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(actor.ID), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	s.cache.SetJSON(ctx, s.cacheKey(user.ID), user, userCacheTTL)
	return user, nil
}

// UpdateProfile applies a partial update to the caller's own record.
func (s *userService) UpdateProfile(ctx context.Context, actor *model.User, update ProfileUpdate) (*model.User, error) {
	if err := auth.Authorize(actor, auth.OpProfileUpdate); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	if update.Username != nil && *update.Username != user.Username {
		if _, err := s.users.FindByUsername(ctx, *update.Username); err == nil {
			return nil, apperrors.Validation("username", "a user with that username already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check username: %w", err)
		}
		user.Username = *update.Username
	}
	if update.Email != nil && *update.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, *update.Email); err == nil {
			return nil, apperrors.Validation("email", "a user with that email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = *update.Email
	}
	if update.Password != nil {
		if len(*update.Password) < 6 {
			return nil, apperrors.Validation("password", "password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if update.Image != nil {
		ref, err := s.images.Save(ctx, "profile_images", update.ImageName, update.Image)
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		user.ProfileImage = ref
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}
