package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	Users repositories.UserStore
}

func NewUserService(users repositories.UserStore) *UserService {
	return &UserService{Users: users}
}

// Register creates a user with a bcrypt-hashed password. Emails are stored
// lowercased and act as the login key, so duplicates are rejected.
func (s *UserService) Register(ctx context.Context, name, email, password, country string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	country = strings.TrimSpace(country)

	if name == "" {
		return nil, newValidationError("Name is required")
	}
	if !emailRegex.MatchString(email) {
		return nil, newValidationError("A valid email is required")
	}
	if len(password) < 6 {
		return nil, newValidationError("Password must be at least 6 characters")
	}

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  string(hashedPassword),
		Country:   country,
		CreatedAt: time.Now(),
	}
	if err := s.Users.Insert(ctx, user); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered user %s", user.Email)
	return user, nil
}

// Login verifies the credentials and returns the user. Missing users and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.Email)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes name and country only. Email and password are
// immutable through this surface.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, country *string) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, newValidationError("Name is required")
		}
		user.Name = trimmed
	}
	if country != nil {
		user.Country = strings.TrimSpace(*country)
	}

	if err := s.Users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
