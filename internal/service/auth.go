package service

import (
	"context" // Request scoped calls
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Input trimming
	"time"    // Token expiry

	"ecommerce_api/internal/domain"     // Importing domain models
	"ecommerce_api/internal/repository" // Persistence
	"ecommerce_api/internal/utils"      // JWT helpers

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // Duplicate key detection
)

// RegisterInput carries the fields accepted at registration
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Role     string // Empty means domain.RoleUser
}

// LoginResult is a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService registers users and issues tokens
type AuthService struct {
	users  repository.UserRepository
	tokens utils.TokenOptions
	cost   int
}

// NewAuthService wires the service to a user repository and token settings
func NewAuthService(users repository.UserRepository, tokens utils.TokenOptions) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, used by tests to keep hashing fast
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register creates a user with a hashed password and assigns the requested role.
// The duplicate check runs before the insert; the unique index on username
// catches whatever slips between the two.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrEmptyCredentials
	}
	exists, err := s.users.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.RoleUser
	}
	user := &domain.User{
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		Password: string(hash),
	}
	if err := s.users.CreateUser(ctx, user, role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     role,
	}).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a token carrying the user's id, name and first role
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, expiresAt, err := utils.GenerateJWT(user.ID, user.Username, user.PrimaryRole(), s.tokens)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
