package repository

import (
	"context"

	"course-portal/internal/domain"
)

// CoursesCollection names the read-only course catalog.
const CoursesCollection = "courses"

// CourseRepository exposes the course catalog.
type CourseRepository interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// Store groups every collection the application reads or writes.
type Store interface {
	CourseRepository
	UserRepository
}
