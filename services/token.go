package services

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload carried by every issued token. Subject holds the
// user id, Type distinguishes access from refresh tokens.
type Claims struct {
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed bearer tokens. It holds no
// state beyond the signing key; verification is a pure function of the
// token bytes and the clock.
type TokenService struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		key:        []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) issue(userID int64, username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *TokenService) IssueAccessToken(userID int64, username string) (string, error) {
	return s.issue(userID, username, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID int64, username string) (string, error) {
	return s.issue(userID, username, TokenTypeRefresh, s.refreshTTL)
}

// ParseAndVerify checks signature, structure and expiry. It does not check
// the type claim; callers decide which type they require.
func (s *TokenService) ParseAndVerify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &apperrors.InvalidTokenError{Message: "unexpected signing method"}
		}
		return s.key, nil
	})
	if err != nil {
		return nil, &apperrors.InvalidTokenError{Message: "invalid token"}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, &apperrors.InvalidTokenError{Message: "invalid token"}
	}
	return claims, nil
}

// Refresh verifies a refresh token and rotates it into a fresh pair for
// the same subject. Rotation is unconditional: there is no revocation list,
// so a leaked refresh token stays valid until its natural expiry.
func (s *TokenService) Refresh(refreshToken string) (*models.TokenPair, error) {
	claims, err := s.ParseAndVerify(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != TokenTypeRefresh {
		return nil, &apperrors.InvalidTokenError{Message: "not a refresh token"}
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, &apperrors.InvalidTokenError{Message: "invalid token subject"}
	}

	return s.IssuePair(userID, claims.Username)
}

func (s *TokenService) IssuePair(userID int64, username string) (*models.TokenPair, error) {
	access, err := s.IssueAccessToken(userID, username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(userID, username)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
