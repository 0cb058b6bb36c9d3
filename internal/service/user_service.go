package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"anonboard/internal/domain"
	"anonboard/internal/password"
	"anonboard/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are
	// incorrect. Unknown usernames and wrong passwords both collapse to
	// this error so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registering an already-used username.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidInput indicates a request failed precondition checks.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUsernameSpaceExhausted is returned when random username
	// generation gives up after too many collisions.
	ErrUsernameSpaceExhausted = errors.New("username generation exhausted")
)

// maxUsernameAttempts bounds RandomUsername; the generator would
// otherwise spin forever against an exhausted namespace.
const maxUsernameAttempts = 50

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, plaintext, bio, avatarURL string) (*domain.User, error)
	Authenticate(ctx context.Context, username, plaintext string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error)
	RandomUsername(ctx context.Context) (string, error)
}

type userService struct {
	users  repository.UserRepository
	hasher *password.Hasher
}

func NewUserService(users repository.UserRepository, hasher *password.Hasher) UserService {
	return &userService{users: users, hasher: hasher}
}

func (s *userService) Register(ctx context.Context, username, plaintext, bio, avatarURL string) (*domain.User, error) {
	username = strings.TrimSpace(username)

	// limits are in characters, not bytes
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return nil, fmt.Errorf("%w: username must be 3-50 characters", ErrInvalidInput)
	}
	if utf8.RuneCountInString(plaintext) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	if utf8.RuneCountInString(bio) > 500 {
		return nil, fmt.Errorf("%w: bio must be at most 500 characters", ErrInvalidInput)
	}

	// Optimistic check; the store's UNIQUE constraint closes the race.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		HashedPassword: hashed,
		Bio:            bio,
		AvatarURL:      avatarURL,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, plaintext string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(plaintext, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	if update.Bio != nil && utf8.RuneCountInString(*update.Bio) > 500 {
		return nil, fmt.Errorf("%w: bio must be at most 500 characters", ErrInvalidInput)
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// RandomUsername draws first-name-plus-digits candidates until one is
// free in the store, up to maxUsernameAttempts.
func (s *userService) RandomUsername(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate := randomUsername()

		_, err := s.users.GetByUsername(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", ErrUsernameSpaceExhausted
}

// sanitizeUser returns a copy with the password hash stripped; nothing
// above the service layer ever sees the hash.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.HashedPassword = ""
	return &clone
}
