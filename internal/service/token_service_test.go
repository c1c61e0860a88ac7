package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	appErrors "github.com/00DarkGhost00/Tracking-absence/pkg/errors"
)

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "tracker"})

	token, expiresAt, err := svc.Issue("guard-1", models.RoleGuard)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "guard-1", claims.UserID)
	assert.Equal(t, models.RoleGuard, claims.Role)
	assert.Equal(t, "tracker", claims.Issuer)
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "secret"})

	_, _, err := svc.Issue("", models.RoleAdmin)
	requireAppError(t, err, appErrors.ErrValidation)
	_, _, err = svc.Issue("u", models.UserRole("ROOT"))
	requireAppError(t, err, appErrors.ErrValidation)

	other := NewTokenService(TokenConfig{Secret: "other"})
	token, _, err := other.Issue("u", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Validate(token)
	requireAppError(t, err, appErrors.ErrUnauthorized)

	expired := NewTokenService(TokenConfig{Secret: "secret", Expiry: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err = expired.Issue("u", models.RoleViewer)
	require.NoError(t, err)
	_, err = svc.Validate(token)
	requireAppError(t, err, appErrors.ErrUnauthorized)
}
