package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/models"
)

// AuthService handles signup and credential verification. Tokens are
// delegated to the TokenService.
type AuthService struct {
	users  UserStore
	tokens *TokenService
}

func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup validates the request, rejects taken fields before writing
// anything, hashes the password and creates the user.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.UserView, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	nickname := strings.TrimSpace(req.Nickname)

	if email == "" || !strings.Contains(email, "@") {
		return nil, &apperrors.InvalidArgumentError{Message: "a valid email is required"}
	}
	if len(username) < 3 || len(username) > 50 {
		return nil, &apperrors.InvalidArgumentError{Message: "username must be 3-50 characters"}
	}
	if len(req.Password) < 8 || len(req.Password) > 128 {
		return nil, &apperrors.InvalidArgumentError{Message: "password must be 8-128 characters"}
	}
	if nickname == "" || len(nickname) > 50 {
		return nil, &apperrors.InvalidArgumentError{Message: "nickname must be 1-50 characters"}
	}

	if taken, err := s.users.EmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, &apperrors.DuplicateActionError{Message: "email is already in use"}
	}
	if taken, err := s.users.UsernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, &apperrors.DuplicateActionError{Message: "username is already in use"}
	}
	if taken, err := s.users.NicknameTaken(ctx, nickname); err != nil {
		return nil, err
	} else if taken {
		return nil, &apperrors.DuplicateActionError{Message: "nickname is already in use"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Nickname: nickname,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.View(), nil
}

// Login verifies the credentials and issues a token pair. The same error
// covers unknown username and wrong password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	badCredentials := &apperrors.InvalidArgumentError{Message: "invalid username or password"}

	user, err := s.users.UserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, badCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, badCredentials
	}

	return s.tokens.IssuePair(user.ID, user.Username)
}

func (s *AuthService) Refresh(req models.RefreshRequest) (*models.TokenPair, error) {
	return s.tokens.Refresh(req.RefreshToken)
}
