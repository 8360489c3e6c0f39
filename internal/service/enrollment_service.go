package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"course-portal/internal/domain"
	"course-portal/internal/repository"
)

var (
	// ErrInvalidCourse is returned when a payload does not name a catalog course.
	ErrInvalidCourse = errors.New("invalid course")
	// ErrUnknownAccount is returned when acting on behalf of a user id that does not exist.
	ErrUnknownAccount = errors.New("no account matches this id")
	// ErrAlreadyEnrolled is returned when adding a course the user already has.
	ErrAlreadyEnrolled = errors.New("course is already in the user's courses")
	// ErrNotEnrolled is returned when removing a course the user does not have.
	ErrNotEnrolled = errors.New("course is not in the user's courses")
)

// EnrollmentService adds and removes catalog courses on a user's course list.
type EnrollmentService interface {
	AddCourse(ctx context.Context, userID string, course domain.Course) ([]domain.Course, error)
	RemoveCourse(ctx context.Context, userID string, course domain.Course) (*domain.User, error)
}

type enrollmentService struct {
	courses repository.CourseRepository
	users   repository.UserRepository
	logger  *logrus.Logger
}

func NewEnrollmentService(courses repository.CourseRepository, users repository.UserRepository, logger *logrus.Logger) EnrollmentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &enrollmentService{
		courses: courses,
		users:   users,
		logger:  logger,
	}
}

func (s *enrollmentService) AddCourse(ctx context.Context, rawID string, course domain.Course) ([]domain.Course, error) {
	canonical, id, err := s.resolve(ctx, rawID, course)
	if err != nil {
		return nil, err
	}

	var updated []domain.Course
	err = s.users.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		i := indexByID(users, id)
		if i < 0 {
			return nil, ErrUnknownAccount
		}
		if users[i].Enrolled(canonical) {
			return nil, ErrAlreadyEnrolled
		}
		users[i].Courses = append(domain.CloneCourses(users[i].Courses), canonical)
		updated = domain.CloneCourses(users[i].Courses)
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": id, "course": canonical.String()}).Info("course added")
	return updated, nil
}

func (s *enrollmentService) RemoveCourse(ctx context.Context, rawID string, course domain.Course) (*domain.User, error) {
	canonical, id, err := s.resolve(ctx, rawID, course)
	if err != nil {
		return nil, err
	}

	var updated domain.User
	err = s.users.UpdateUsers(ctx, func(users []domain.User) ([]domain.User, error) {
		i := indexByID(users, id)
		if i < 0 {
			return nil, ErrUnknownAccount
		}
		pos := users[i].CourseIndex(canonical)
		if pos < 0 {
			return nil, ErrNotEnrolled
		}
		remaining := make([]domain.Course, 0, len(users[i].Courses)-1)
		remaining = append(remaining, users[i].Courses[:pos]...)
		remaining = append(remaining, users[i].Courses[pos+1:]...)
		users[i].Courses = remaining

		updated = users[i]
		updated.Courses = domain.CloneCourses(remaining)
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": id, "course": canonical.String()}).Info("course removed")
	return &updated, nil
}

// resolve validates the course against the catalog before the user id, so a
// malformed payload is reported even for unknown accounts.
func (s *enrollmentService) resolve(ctx context.Context, rawID string, course domain.Course) (domain.Course, int64, error) {
	catalog, err := s.courses.ListCourses(ctx)
	if err != nil {
		return domain.Course{}, 0, err
	}
	canonical, ok := domain.FindCourse(course, catalog)
	if !ok {
		return domain.Course{}, 0, ErrInvalidCourse
	}

	id, ok := parseUserID(rawID)
	if !ok {
		return domain.Course{}, 0, ErrUnknownAccount
	}
	return canonical, id, nil
}
