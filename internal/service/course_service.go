package service

import (
	"context"

	"course-portal/internal/domain"
	"course-portal/internal/repository"
)

// CourseService answers catalog queries.
type CourseService interface {
	List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error)
}

type courseService struct {
	courses repository.CourseRepository
}

func NewCourseService(courses repository.CourseRepository) CourseService {
	return &courseService{courses: courses}
}

func (s *courseService) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	catalog, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterCourses(catalog, filter), nil
}
