//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"fmt"
)

type IAuthService interface {
	Signup(username, password string) (Token, error)
	Login(username, password string) (Token, error)
}

type Token string

type AuthService struct {
	userRepository repositories.IUserRepository
	authority      *auth.Authority
}

func NewAuthService(repo repositories.IUserRepository, authority *auth.Authority) *AuthService {
	return &AuthService{userRepository: repo, authority: authority}
}

// Signup registers an account and returns an initial session token.
// The very first account of the deployment is granted the admin role.
func (s *AuthService) Signup(username, password string) (Token, error) {
	request := auth.SignupRequest{
		Username: username,
		Password: password,
	}

	// Validate business rules before any expensive cryptographic operation.
	if err := auth.ValidateSignup(request); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	// Hash in the service layer, keeping the repository unaware of plain
	// passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	count, err := s.userRepository.CountUsers()
	if err != nil {
		return "", err
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	user, err := s.userRepository.CreateUser(username, hashedPassword, role)
	if err != nil {
		return "", err // Propagates ErrUserAlreadyExists when the name is taken.
	}

	token, err := s.authority.Issue(domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.authority.Issue(domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
