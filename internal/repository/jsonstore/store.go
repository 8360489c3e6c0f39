package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"course-portal/internal/domain"
	"course-portal/internal/repository"
	"course-portal/internal/storage"
)

// Store decodes collections kept as JSON arrays in a storage.Backend.
type Store struct {
	backend storage.Backend
	mu      sync.Mutex
}

func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := s.load(ctx, repository.CoursesCollection, &courses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return courses, nil
}

// ListUsers shares the update lock so a read never sees a half written
// collection.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers(ctx)
}

func (s *Store) UpdateUsers(ctx context.Context, fn func(users []domain.User) ([]domain.User, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(users)
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []domain.User{}
	}
	for i := range updated {
		if updated[i].Courses == nil {
			updated[i].Courses = []domain.Course{}
		}
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode %s: %w", repository.UsersCollection, err)
	}
	return s.backend.Set(ctx, repository.UsersCollection, data)
}

// missing user collection means no one has signed up yet
func (s *Store) loadUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.load(ctx, repository.UsersCollection, &users)
	if err != nil && !errors.Is(err, storage.ErrCollectionNotFound) {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *Store) load(ctx context.Context, name string, dst any) error {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
