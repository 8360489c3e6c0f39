package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/domain"
	"course-portal/internal/repository"
	"course-portal/internal/storage"
)

const catalogJSON = `[{"code":"SODV","num":1101},{"code":"TECH","num":"2102"}]`

func newTestStore(t *testing.T) (*Store, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), repository.CoursesCollection, []byte(catalogJSON)))
	return New(backend), backend
}

func TestListCourses(t *testing.T) {
	store, _ := newTestStore(t)

	courses, err := store.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "SODV", courses[0].Code)
	assert.Equal(t, "2102", courses[1].Num.String())
}

func TestListCoursesRequiresCatalog(t *testing.T) {
	store := New(storage.NewMemoryBackend())

	_, err := store.ListCourses(context.Background())
	assert.ErrorIs(t, err, storage.ErrCollectionNotFound)
}

func TestListCoursesRejectsMalformedDocument(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), repository.CoursesCollection, []byte(`{"not":"an array"}`)))

	_, err := New(backend).ListCourses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode courses")
}

func TestListUsersMissingCollectionIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUpdateUsersPersists(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	err := store.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		return append(users, domain.User{ID: 1, Username: "admin", Password: "admin"}), nil
	})
	require.NoError(t, err)

	data, err := backend.Get(ctx, repository.UsersCollection)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"username":"admin","password":"admin","courses":[]}]`, string(data))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}

func TestUpdateUsersWritesNothingOnError(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)
	original := []byte(`[{"id":1,"username":"admin","password":"admin","courses":[]}]`)
	require.NoError(t, backend.Set(ctx, repository.UsersCollection, original))

	boom := errors.New("boom")
	err := store.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		users[0].Username = "changed"
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := backend.Get(ctx, repository.UsersCollection)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestUpdateUsersIsSerialized(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
				return append(users, domain.User{ID: domain.NextUserID(users)}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, writers)
}

func TestCoursesKeepUnknownFields(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	record := `{"code":"SODV","num":"1101","name":"Intro","instructor":"Smith","credits":"3"}`
	require.NoError(t, backend.Set(ctx, repository.CoursesCollection, []byte("["+record+"]")))
	store := New(backend)

	courses, err := store.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "SODV", courses[0].Code)

	err = store.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		return append(users, domain.User{ID: 1, Username: "admin", Password: "admin", Courses: courses}), nil
	})
	require.NoError(t, err)

	data, err := backend.Get(ctx, repository.UsersCollection)
	require.NoError(t, err)
	var stored []struct {
		Courses []json.RawMessage `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Len(t, stored, 1)
	require.Len(t, stored[0].Courses, 1)
	assert.JSONEq(t, record, string(stored[0].Courses[0]))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, courses, users[0].Courses)
}

func TestReadsDuringUpdatesOnFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backend := storage.NewFileBackend(dir)
	require.NoError(t, backend.Set(ctx, repository.CoursesCollection, []byte(catalogJSON)))
	store := New(backend)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			err := store.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
				return append(users, domain.User{ID: domain.NextUserID(users), Username: "user"}), nil
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := store.ListUsers(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, writers)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"courses.json", "users.json"}, names)
	assert.FileExists(t, filepath.Join(dir, "users.json"))
}
