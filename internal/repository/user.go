package repository

import (
	"context"

	"course-portal/internal/domain"
)

// UsersCollection names the read-write user collection.
const UsersCollection = "users"

// UserRepository loads and rewrites the user collection.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	// UpdateUsers loads the collection, passes it to fn and persists what fn
	// returns. Nothing is written when fn fails. Updates are serialized.
	UpdateUsers(ctx context.Context, fn func(users []domain.User) ([]domain.User, error)) error
}
