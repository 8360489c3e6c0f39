package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"course-portal/internal/domain"
	"course-portal/internal/repository"
)

var (
	// ErrUserNotFound is returned when no user has the requested id or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the password does not match.
	ErrInvalidCredentials = errors.New("incorrect password")
	// ErrUsernameTaken is returned when signing up with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidSignup is returned when username or password is empty.
	ErrInvalidSignup = errors.New("username and password are required")
)

// UserService describes account lookup, login and signup.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (int64, error)
	Signup(ctx context.Context, username, password string) (int64, error)
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:  users,
		logger: logger,
	}
}

func (s *userService) GetByID(ctx context.Context, rawID string) (*domain.Account, error) {
	id, ok := parseUserID(rawID)
	if !ok {
		return nil, ErrUserNotFound
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(users, id)
	if i < 0 {
		return nil, ErrUserNotFound
	}

	account := users[i].Account()
	return &account, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	i := indexByUsername(users, username)
	if i < 0 {
		return 0, ErrUserNotFound
	}
	if users[i].Password != password {
		return 0, ErrInvalidCredentials
	}
	return users[i].ID, nil
}

func (s *userService) Signup(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrInvalidSignup
	}

	var id int64
	err := s.users.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		if indexByUsername(users, username) >= 0 {
			return nil, ErrUsernameTaken
		}
		id = domain.NextUserID(users)
		return append(users, domain.User{
			ID:       id,
			Username: username,
			Password: password,
			Courses:  []domain.Course{},
		}), nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": id, "username": username}).Info("user signed up")
	return id, nil
}

func parseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func indexByID(users []domain.User, id int64) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByUsername(users []domain.User, username string) int {
	for i := range users {
		if users[i].Username == username {
			return i
		}
	}
	return -1
}
