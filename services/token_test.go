package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"writeflow.com/emotion-board/apperrors"
)

func newTestTokenService() *TokenService {
	return NewTokenService("test-signing-key", 30*time.Minute, 14*24*time.Hour)
}

func TestIssueAndParseAccessToken(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueAccessToken(42, "moody_writer")
	require.NoError(t, err)

	claims, err := svc.ParseAndVerify(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "moody_writer", claims.Username)
	require.Equal(t, TokenTypeAccess, claims.Type)
}

func TestRefreshRotatesPair(t *testing.T) {
	svc := newTestTokenService()

	refresh, err := svc.IssueRefreshToken(7, "nightowl")
	require.NoError(t, err)

	pair, err := svc.Refresh(refresh)
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)

	access, err := svc.ParseAndVerify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "7", access.Subject)
	require.Equal(t, TokenTypeAccess, access.Type)

	rotated, err := svc.ParseAndVerify(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, rotated.Type)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestTokenService()

	access, err := svc.IssueAccessToken(7, "nightowl")
	require.NoError(t, err)

	_, err = svc.Refresh(access)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidToken(err))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	expired := NewTokenService("test-signing-key", -time.Minute, -time.Minute)

	token, err := expired.IssueAccessToken(1, "zzz")
	require.NoError(t, err)

	_, err = newTestTokenService().ParseAndVerify(token)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidToken(err))
}

func TestParseRejectsForeignSignature(t *testing.T) {
	other := NewTokenService("some-other-key", 30*time.Minute, time.Hour)

	token, err := other.IssueAccessToken(1, "zzz")
	require.NoError(t, err)

	_, err = newTestTokenService().ParseAndVerify(token)
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidToken(err))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := newTestTokenService().ParseAndVerify("not.a.jwt")
	require.Error(t, err)
	require.True(t, apperrors.IsInvalidToken(err))
}
