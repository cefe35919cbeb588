package jwt

import (
	"context"
	"testing"

	"github.com/babralau/timesheet-web-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	u := user.User{
		EmployeeID:       7,
		Username:         "asha",
		Name:             "Asha Rao",
		Email:            "asha@example.com",
		Roles:            []string{"Manager"},
		IsManager:        true,
		ManagedEmployees: []int{5, 6},
	}

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])

	got := svc.UserFromClaims(claims)
	assert.Equal(t, 7, got.EmployeeID)
	assert.Equal(t, "asha", got.Username)
	assert.Equal(t, "manager", got.RoleName())
	assert.True(t, got.IsManager)
	assert.Equal(t, []int{5, 6}, got.ManagedEmployees)
}

func TestGenerateAccessTokenBadTTL(t *testing.T) {
	svc := NewJWTService(testSecret, "not-a-duration")
	_, _, err := svc.GenerateAccessToken(user.User{EmployeeID: 1})
	assert.Error(t, err)
}

func TestUserFromClaimsTolerantTypes(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	// Decoded JSON claims carry numbers as float64.
	claims := map[string]interface{}{
		"employee_id":       float64(9),
		"username":          "dev",
		"is_manager":        false,
		"managed_employees": []interface{}{float64(1), float64(2)},
	}
	got := svc.UserFromClaims(claims)
	assert.Equal(t, 9, got.EmployeeID)
	assert.Equal(t, []int{1, 2}, got.ManagedEmployees)
	assert.False(t, got.IsManager)

	empty := svc.UserFromClaims(map[string]interface{}{})
	assert.Zero(t, empty.EmployeeID)
	assert.Empty(t, empty.Roles)
}
