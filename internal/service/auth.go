package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Dan9191/grocery-store/internal/auth"
	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/Dan9191/grocery-store/internal/notify"
	"github.com/Dan9191/grocery-store/internal/repository"
	"github.com/sirupsen/logrus"
)

// AuthService handles registration and login
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mailer notify.Mailer
	log    *logrus.Logger

	// compared against when the email is unknown so both login failures cost one bcrypt run
	dummyHash string

	// pending welcome mails
	wg sync.WaitGroup
}

// NewAuthService initializes a new auth service. mailer may be nil.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mailer notify.Mailer, log *logrus.Logger) *AuthService {
	dummyHash, err := auth.Hash("grocery-store-dummy-password")
	if err != nil {
		log.Warnf("Failed to prepare dummy password digest: %v", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		log:       log,
		dummyHash: dummyHash,
	}
}

// Register creates a new user with hashed password
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	_, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return common.ErrDuplicateAccount
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := auth.Hash(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			return common.ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Infof("User registered: %s", user.Email)
	if s.mailer != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
				s.log.Warnf("Welcome email to %s not delivered: %v", user.Email, err)
			}
		}()
	}
	return nil
}

// Login authenticates a user and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		auth.Verify(s.dummyHash, password)
		s.log.Warnf("Login failed for %s", email)
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.Verify(user.PasswordHash, password) {
		s.log.Warnf("Login failed for %s", email)
		return nil, common.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return &models.LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// Wait blocks until every welcome mail started by Register has finished
func (s *AuthService) Wait() {
	s.wg.Wait()
}

// Authenticate resolves a bearer token to its claims
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}
