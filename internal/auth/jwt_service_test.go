package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "bistro/internal/errors"
	"bistro/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: 42, Username: "alice", Email: "alice@example.com", IsCustomer: true}
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, jti, err := svc.Issue(testUser(), TokenKindAccess, AccessTokenExpiry)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, jti)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenKindAccess, claims.Kind)
	assert.Equal(t, jti, claims.ID)
	assert.False(t, claims.Expired(time.Now()))
}

func TestJWTService_VerifyWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")

	token, _, err := issuer.Issue(testUser(), TokenKindAccess, AccessTokenExpiry)
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
}

func TestJWTService_VerifyMalformed(t *testing.T) {
	svc := NewJWTService("test-secret")

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, apperrors.ErrTokenMalformed, "token %q", token)
	}
}

// The codec deliberately does not enforce expiry: an expired but
// signature-valid token still verifies here. Expiry is the session
// resolver's call.
func TestJWTService_ExpiredTokenStillVerifies(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, _, err := svc.Issue(testUser(), TokenKindAccess, -time.Minute)
	assert.NoError(t, err)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}
