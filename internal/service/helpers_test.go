package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"course-portal/internal/domain"
	"course-portal/internal/logging"
	"course-portal/internal/repository"
	"course-portal/internal/repository/jsonstore"
	"course-portal/internal/storage"
)

const catalogJSON = `[
	{"code":"SODV","num":1101,"name":"Intro"},
	{"code":"SODV","num":1202,"name":"OOP"},
	{"code":"SODV","num":2201,"name":"Web"},
	{"code":"TECH","num":1101,"name":"Web Fundamentals"},
	{"code":"TECH","num":2102,"name":"Enterprise"}
]`

type fixture struct {
	backend *storage.MemoryBackend
	store   *jsonstore.Store
	catalog []domain.Course
}

// newFixture seeds the catalog and a single admin user enrolled in the first course.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, repository.CoursesCollection, []byte(catalogJSON)))

	var catalog []domain.Course
	require.NoError(t, json.Unmarshal([]byte(catalogJSON), &catalog))

	users, err := json.Marshal([]domain.User{{
		ID:       1,
		Username: "admin",
		Password: "admin",
		Courses:  []domain.Course{catalog[0]},
	}})
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, repository.UsersCollection, users))

	return &fixture{
		backend: backend,
		store:   jsonstore.New(backend),
		catalog: catalog,
	}
}

func (f *fixture) usersDocument(t *testing.T) []byte {
	t.Helper()
	data, err := f.backend.Get(context.Background(), repository.UsersCollection)
	require.NoError(t, err)
	return data
}

func (f *fixture) userService() UserService {
	return NewUserService(f.store, logging.Discard())
}

func (f *fixture) enrollmentService() EnrollmentService {
	return NewEnrollmentService(f.store, f.store, logging.Discard())
}
