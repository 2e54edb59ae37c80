package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: value})
	}
	return req
}

func TestSessionResolver_NoCookieIsAnonymous(t *testing.T) {
	resolver := NewSessionResolver(NewJWTService("test-secret"), new(MockUserRepository))

	user, err := resolver.Resolve(context.Background(), requestWithCookie(""))
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionResolver_ValidToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(42)).Return(testUser(), nil)

	token, _, err := svc.Issue(testUser(), TokenKindAccess, AccessTokenExpiry)
	assert.NoError(t, err)

	resolver := NewSessionResolver(svc, repo)
	user, err := resolver.Resolve(context.Background(), requestWithCookie(token))
	assert.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	repo.AssertExpectations(t)
}

func TestSessionResolver_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, _, err := svc.Issue(testUser(), TokenKindAccess, -time.Minute)
	assert.NoError(t, err)

	resolver := NewSessionResolver(svc, new(MockUserRepository))
	user, err := resolver.Resolve(context.Background(), requestWithCookie(token))
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.Nil(t, user)
}

func TestSessionResolver_RefreshTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, _, err := svc.Issue(testUser(), TokenKindRefresh, RefreshTokenExpiry)
	assert.NoError(t, err)

	resolver := NewSessionResolver(svc, new(MockUserRepository))
	_, err = resolver.Resolve(context.Background(), requestWithCookie(token))
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)
}

func TestSessionResolver_UnknownSubject(t *testing.T) {
	svc := NewJWTService("test-secret")
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

	token, _, err := svc.Issue(testUser(), TokenKindAccess, AccessTokenExpiry)
	assert.NoError(t, err)

	resolver := NewSessionResolver(svc, repo)
	_, err = resolver.Resolve(context.Background(), requestWithCookie(token))
	assert.ErrorIs(t, err, apperrors.ErrUnknownSubject)
}

func TestSessionResolver_TamperedToken(t *testing.T) {
	other := NewJWTService("other-secret")
	token, _, err := other.Issue(testUser(), TokenKindAccess, AccessTokenExpiry)
	assert.NoError(t, err)

	resolver := NewSessionResolver(NewJWTService("test-secret"), new(MockUserRepository))
	_, err = resolver.Resolve(context.Background(), requestWithCookie(token))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}
