package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	want := user.Subject{UserID: "user-1", EmployeeID: "emp-1", Role: user.RoleHR}

	token, expiresAt, err := svc.GenerateAccessToken(want)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	got, err := SubjectFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSubjectFromClaims(t *testing.T) {
	t.Run("wrong token type", func(t *testing.T) {
		_, err := SubjectFromClaims(map[string]interface{}{"sub": "u", "role": "hr", "type": "refresh"})
		assert.ErrorIs(t, err, user.ErrMissingSubject)
	})
	t.Run("missing subject", func(t *testing.T) {
		_, err := SubjectFromClaims(map[string]interface{}{"role": "hr", "type": "access"})
		assert.ErrorIs(t, err, user.ErrMissingSubject)
	})
	t.Run("unknown role", func(t *testing.T) {
		_, err := SubjectFromClaims(map[string]interface{}{"sub": "u", "role": "root", "type": "access"})
		assert.ErrorIs(t, err, user.ErrInvalidRoleClaims)
	})
	t.Run("employee id optional", func(t *testing.T) {
		s, err := SubjectFromClaims(map[string]interface{}{"sub": "u", "role": "finance", "type": "access"})
		require.NoError(t, err)
		assert.Empty(t, s.EmployeeID)
		assert.Equal(t, user.RoleFinance, s.Role)
	})
}
