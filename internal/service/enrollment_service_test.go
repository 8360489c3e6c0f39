package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-portal/internal/domain"
)

func TestAddCourse(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()

	courses, err := svc.AddCourse(context.Background(), "1", f.catalog[1])
	require.NoError(t, err)
	assert.Equal(t, []domain.Course{f.catalog[0], f.catalog[1]}, courses)

	var stored []domain.User
	require.NoError(t, json.Unmarshal(f.usersDocument(t), &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, domain.User{
		ID:       1,
		Username: "admin",
		Password: "admin",
		Courses:  []domain.Course{f.catalog[0], f.catalog[1]},
	}, stored[0])
}

func TestAddCourseStoresCatalogRecord(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()

	partial := domain.Course{Code: "SODV", Num: domain.NewCourseNumber("1202")}
	courses, err := svc.AddCourse(context.Background(), "1", partial)
	require.NoError(t, err)
	assert.Equal(t, f.catalog[1], courses[1])
}

func TestAddCourseErrors(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()
	before := f.usersDocument(t)

	tests := []struct {
		name   string
		userID string
		course domain.Course
		want   error
	}{
		{name: "unknown course", userID: "1", course: domain.Course{Code: "FAKE", Num: domain.NewCourseNumber("1000")}, want: ErrInvalidCourse},
		{name: "empty course", userID: "1", course: domain.Course{}, want: ErrInvalidCourse},
		{name: "invalid course before unknown user", userID: "2", course: domain.Course{}, want: ErrInvalidCourse},
		{name: "unknown user", userID: "2", course: f.catalog[1], want: ErrUnknownAccount},
		{name: "unparsable user", userID: "a", course: f.catalog[1], want: ErrUnknownAccount},
		{name: "already enrolled", userID: "1", course: f.catalog[0], want: ErrAlreadyEnrolled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddCourse(context.Background(), tt.userID, tt.course)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.usersDocument(t))
		})
	}
}

func TestRemoveCourse(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()

	user, err := svc.RemoveCourse(context.Background(), "1", f.catalog[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin", user.Username)
	assert.Empty(t, user.Courses)

	var stored []domain.User
	require.NoError(t, json.Unmarshal(f.usersDocument(t), &stored))
	assert.Equal(t, *user, stored[0])
}

func TestRemoveCourseErrors(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()
	before := f.usersDocument(t)

	_, err := svc.RemoveCourse(context.Background(), "1", domain.Course{Code: "FAKE"})
	assert.ErrorIs(t, err, ErrInvalidCourse)

	_, err = svc.RemoveCourse(context.Background(), "2", f.catalog[0])
	assert.ErrorIs(t, err, ErrUnknownAccount)

	_, err = svc.RemoveCourse(context.Background(), "1", f.catalog[1])
	assert.ErrorIs(t, err, ErrNotEnrolled)

	assert.Equal(t, before, f.usersDocument(t))
}

func TestAddThenRemoveRestoresCourses(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()
	ctx := context.Background()
	before := f.usersDocument(t)

	_, err := svc.AddCourse(ctx, "1", f.catalog[3])
	require.NoError(t, err)
	user, err := svc.RemoveCourse(ctx, "1", f.catalog[3])
	require.NoError(t, err)

	assert.Equal(t, f.catalog[:1], user.Courses)
	assert.JSONEq(t, string(before), string(f.usersDocument(t)))
}

func TestRemoveKeepsOrder(t *testing.T) {
	f := newFixture(t)
	svc := f.enrollmentService()
	ctx := context.Background()

	for _, c := range f.catalog[1:4] {
		_, err := svc.AddCourse(ctx, "1", c)
		require.NoError(t, err)
	}
	user, err := svc.RemoveCourse(ctx, "1", f.catalog[2])
	require.NoError(t, err)
	assert.Equal(t, []domain.Course{f.catalog[0], f.catalog[1], f.catalog[3]}, user.Courses)
}
