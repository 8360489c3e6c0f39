package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"course-portal/internal/domain"
	"course-portal/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	courses    service.CourseService
	users      service.UserService
	enrollment service.EnrollmentService
	logger     *logrus.Logger
}

func NewHandler(courses service.CourseService, users service.UserService, enrollment service.EnrollmentService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		courses:    courses,
		users:      users,
		enrollment: enrollment,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), requestLogger(h.logger), corsMiddleware())

	h.registerPages(router)

	router.GET("/courses", h.listCourses)

	users := router.Group("/users")
	{
		users.POST("/login", h.login)
		users.POST("/signup", h.signup)
	}

	account := router.Group("/account/:id")
	{
		account.GET("", h.getAccount)
		account.PATCH("/courses/add", h.addCourse)
		account.PATCH("/courses/remove", h.removeCourse)
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) listCourses(c *gin.Context) {
	filter := domain.CourseFilter{
		Code: c.Query("code"),
		Num:  c.Query("num"),
	}
	courses, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) getAccount(c *gin.Context) {
	account, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": id})
}

func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.users.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": id})
}

func (h *Handler) addCourse(c *gin.Context) {
	course, err := bindCourse(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	courses, err := h.enrollment.AddCourse(c.Request.Context(), c.Param("id"), course)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"courses": courses})
}

func (h *Handler) removeCourse(c *gin.Context) {
	course, err := bindCourse(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.enrollment.RemoveCourse(c.Request.Context(), c.Param("id"), course)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// bindCourse accepts {"course": {...}} or a bare course object.
func bindCourse(c *gin.Context) (domain.Course, error) {
	body, err := c.GetRawData()
	if err != nil {
		return domain.Course{}, service.ErrInvalidCourse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.Course{}, service.ErrInvalidCourse
	}
	if wrapped, ok := fields["course"]; ok {
		body = wrapped
	}

	var course domain.Course
	if err := json.Unmarshal(body, &course); err != nil {
		return domain.Course{}, service.ErrInvalidCourse
	}
	return course, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnknownAccount):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrNotEnrolled):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCourse),
		errors.Is(err, service.ErrInvalidSignup):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
