package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

const (
	// AccessTokenExpiry is the duration for which access tokens are valid.
	AccessTokenExpiry = 15 * time.Minute
	// RefreshTokenExpiry is the duration for which refresh tokens are valid.
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims represents JWT claims carried by both token kinds.
type Claims struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Kind     TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed tokens. Verification checks signature
// and structure only; expiry is the session resolver's responsibility, so a
// single authority decides it and produces the expiry-specific error.
type JWTService struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Issue produces a signed token for the user. The returned jti identifies the
// token for server-side refresh bookkeeping.
func (s *JWTService) Issue(user *model.User, kind TokenKind, ttl time.Duration) (token string, jti string, err error) {
	jti = uuid.New().String()
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = tokenObj.SignedString(s.secret)
	return token, jti, err
}

// Verify checks signature and structure and returns the claims. Expired
// tokens still verify here; callers compare ExpiresAt against the clock.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperrors.ErrTokenMalformed
	}
	return claims, nil
}

// Expired reports whether the claims are past their expiry. Claims with no
// expiry are treated as expired.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || now.After(c.ExpiresAt.Time)
}

func classifyParseError(err error) error {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return apperrors.ErrTokenMalformed
		}
		if ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0 {
			return apperrors.ErrInvalidSignature
		}
	}
	return apperrors.ErrTokenMalformed
}
