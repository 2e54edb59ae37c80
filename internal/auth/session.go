package auth

import (
	"context"
	"net/http"
	"time"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
	"bistro/internal/repository"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "access_token"

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refresh_token"

// SessionResolver turns an inbound request's cookie into a user identity.
// It is the single authority on token expiry: the codec only verifies
// signature and structure.
type SessionResolver struct {
	jwtService *JWTService
	users      repository.UserRepository
	now        func() time.Time
}

// NewSessionResolver creates a resolver over the codec and user store.
func NewSessionResolver(jwtService *JWTService, users repository.UserRepository) *SessionResolver {
	return &SessionResolver{
		jwtService: jwtService,
		users:      users,
		now:        time.Now,
	}
}

// Resolve reads the access-token cookie and resolves it to a user.
// A missing cookie is not an error: it resolves to (nil, nil), anonymous.
// Whether anonymous access is acceptable is the policy's decision, not ours.
func (r *SessionResolver) Resolve(ctx context.Context, req *http.Request) (*model.User, error) {
	cookie, err := req.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	claims, err := r.jwtService.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}
	if claims.Kind != TokenKindAccess {
		return nil, apperrors.ErrTokenMalformed
	}
	if claims.Expired(r.now()) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrUnknownSubject
	}
	return user, nil
}
