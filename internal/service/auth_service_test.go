package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bistro/internal/auth"
	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("forces customer role", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "alice").Return(nil, gorm.ErrRecordNotFound)
		users.On("FindByEmail", ctx, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(users, auth.NewJWTService("test-secret"), new(MockRefreshTokenStore))
		user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret")

		assert.NoError(t, err)
		assert.True(t, user.IsCustomer)
		assert.False(t, user.IsAdmin)
		assert.NotEqual(t, "s3cret", user.PasswordHash)
		users.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

		svc := NewAuthService(users, auth.NewJWTService("test-secret"), new(MockRefreshTokenStore))
		_, err := svc.Register(ctx, "alice", "other@example.com", "s3cret")

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "bob").Return(nil, gorm.ErrRecordNotFound)
		users.On("FindByEmail", ctx, "alice@example.com").Return(&model.User{ID: 1}, nil)

		svc := NewAuthService(users, auth.NewJWTService("test-secret"), new(MockRefreshTokenStore))
		_, err := svc.Register(ctx, "bob", "alice@example.com", "s3cret")

		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("test-secret")
	stored := &model.User{
		ID:           7,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hashPassword(t, "s3cret"),
		IsCustomer:   true,
	}

	t.Run("issues both tokens and records the refresh jti", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "alice").Return(stored, nil)
		store := new(MockRefreshTokenStore)
		store.On("Save", ctx, mock.AnythingOfType("string"), uint(7), auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(users, jwtService, store)
		access, refresh, user, err := svc.Login(ctx, "alice", "s3cret")

		assert.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)

		accessClaims, err := jwtService.Verify(access)
		assert.NoError(t, err)
		assert.Equal(t, auth.TokenKindAccess, accessClaims.Kind)
		assert.Equal(t, uint(7), accessClaims.UserID)

		refreshClaims, err := jwtService.Verify(refresh)
		assert.NoError(t, err)
		assert.Equal(t, auth.TokenKindRefresh, refreshClaims.Kind)
		store.AssertCalled(t, "Save", ctx, refreshClaims.ID, uint(7), auth.RefreshTokenExpiry)
	})

	t.Run("unknown username", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "nobody").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(users, jwtService, new(MockRefreshTokenStore))
		_, _, _, err := svc.Login(ctx, "nobody", "s3cret")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "alice").Return(stored, nil)

		svc := NewAuthService(users, jwtService, new(MockRefreshTokenStore))
		_, _, _, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", ctx, "alice").Return(stored, nil)
		store := new(MockRefreshTokenStore)
		store.On("Save", ctx, mock.Anything, uint(7), auth.RefreshTokenExpiry).Return(errors.New("redis down"))

		svc := NewAuthService(users, jwtService, store)
		_, _, _, err := svc.Login(ctx, "alice", "s3cret")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: 7, Username: "alice", IsCustomer: true}

	issueRefresh := func(t *testing.T, ttl time.Duration) (string, string) {
		t.Helper()
		token, jti, err := jwtService.Issue(user, auth.TokenKindRefresh, ttl)
		assert.NoError(t, err)
		return token, jti
	}

	t.Run("valid token yields a new access token", func(t *testing.T) {
		token, jti := issueRefresh(t, auth.RefreshTokenExpiry)
		users := new(MockUserRepository)
		users.On("FindByID", ctx, uint(7)).Return(user, nil)
		store := new(MockRefreshTokenStore)
		store.On("Lookup", ctx, jti).Return(uint(7), nil)

		svc := NewAuthService(users, jwtService, store)
		access, err := svc.Refresh(ctx, token)

		assert.NoError(t, err)
		claims, err := jwtService.Verify(access)
		assert.NoError(t, err)
		assert.Equal(t, auth.TokenKindAccess, claims.Kind)
		assert.Equal(t, uint(7), claims.UserID)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		token, _, err := jwtService.Issue(user, auth.TokenKindAccess, auth.AccessTokenExpiry)
		assert.NoError(t, err)

		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockRefreshTokenStore))
		_, err = svc.Refresh(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, _ := issueRefresh(t, -time.Minute)

		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockRefreshTokenStore))
		_, err := svc.Refresh(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("revoked jti is rejected", func(t *testing.T) {
		token, jti := issueRefresh(t, auth.RefreshTokenExpiry)
		store := new(MockRefreshTokenStore)
		store.On("Lookup", ctx, jti).Return(uint(0), errors.New("not found"))

		svc := NewAuthService(new(MockUserRepository), jwtService, store)
		_, err := svc.Refresh(ctx, token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: 7, Username: "alice", IsCustomer: true}

	t.Run("revokes the presented token", func(t *testing.T) {
		token, jti, err := jwtService.Issue(user, auth.TokenKindRefresh, auth.RefreshTokenExpiry)
		assert.NoError(t, err)
		store := new(MockRefreshTokenStore)
		store.On("Delete", ctx, jti).Return(nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, store)
		assert.NoError(t, svc.Logout(ctx, token))
		store.AssertExpectations(t)
	})

	t.Run("missing token is a no-op", func(t *testing.T) {
		store := new(MockRefreshTokenStore)
		svc := NewAuthService(new(MockUserRepository), jwtService, store)
		assert.NoError(t, svc.Logout(ctx, ""))
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("garbage token is a no-op", func(t *testing.T) {
		store := new(MockRefreshTokenStore)
		svc := NewAuthService(new(MockUserRepository), jwtService, store)
		assert.NoError(t, svc.Logout(ctx, "not-a-jwt"))
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
