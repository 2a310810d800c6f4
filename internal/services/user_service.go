package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/isdelr/account-api/internal/auth"
	"github.com/isdelr/account-api/internal/models"
	"github.com/isdelr/account-api/internal/store"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 6

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrFirstNameRequired  = errors.New("first name required")
	ErrLastNameRequired   = errors.New("last name required")
)

// SignUpInput holds the fields needed to create an account.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Age       *int
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  models.User
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	SignUp(ctx context.Context, in SignUpInput) (models.User, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
}

// UserService provides business logic for account management.
type UserService struct {
	users  store.UserStore
	tokens auth.TokenManager
	events EventServiceProvider
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, tokens auth.TokenManager, events EventServiceProvider) *UserService {
	return &UserService{users: users, tokens: tokens, events: events}
}

// SignUp creates a new account with a hashed password. The returned user never
// carries the password hash.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	if err := checkPasswordLength(in.Password); err != nil {
		return models.User{}, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return models.User{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hashed,
		Age:          in.Age,
		Avatar:       models.DefaultAvatar,
		Gender:       models.DefaultGender,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.events.Record(ctx, models.EventSignUp, user.ID, "Account created")

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.events.Record(ctx, models.EventLogin, user.ID, "Logged in")

	user.PasswordHash = ""
	return LoginResult{Token: token, User: user}, nil
}

// ChangePassword replaces the user's password after checking the old one.
// Existing tokens stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user %s: %w", userID, err)
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.events.Record(ctx, models.EventPasswordChange, userID, "Password changed")
	return nil
}

// UpdateProfile overwrites the profile fields with whatever is supplied.
// First and last name are required.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, profile models.Profile) error {
	if profile.FirstName == "" {
		return ErrFirstNameRequired
	}
	if profile.LastName == "" {
		return ErrLastNameRequired
	}

	if err := s.users.UpdateProfile(ctx, userID, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.events.Record(ctx, models.EventProfileUpdate, userID, "Profile updated")
	return nil
}

// checkPasswordLength enforces the minimum length in characters and the bcrypt
// input limit in bytes.
func checkPasswordLength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
