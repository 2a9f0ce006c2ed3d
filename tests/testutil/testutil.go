// Package testutil provides helpers shared by the integration tests: test
// identities, token minting, request fixtures and polling assertions.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pantryfresh/backend/internal/infrastructure/auth"
	"github.com/pantryfresh/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestJWTSecret signs every token minted by NewTokenIssuer
const TestJWTSecret = "pantryfresh-test-secret-0123456789abcdef"

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestUserID returns a standard customer ID for tests.
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// TestAdminID returns a standard admin ID for tests.
func TestAdminID() uuid.UUID {
	return NewTestUUID("test-admin")
}

// NewJWTService returns a token service signing with TestJWTSecret
func NewJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                TestJWTSecret,
		Issuer:                "pantryfresh-test",
		AccessTokenExpiration: time.Hour,
		AdminRole:             auth.RoleAdmin,
	})
}

// IssueToken mints a bearer token for userID with the given role
func IssueToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, role string) string {
	t.Helper()

	token, _, err := svc.IssueToken(userID, role)
	require.NoError(t, err, "Failed to issue token")
	return token
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// RequireEventually retries condition until it passes or fails the test at timeout.
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
