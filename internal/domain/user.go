package domain

// User is a stored account. Passwords are kept and compared as plain text.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Courses  []Course `json:"courses"`
}

// Account is the public view of a User.
type Account struct {
	Username string   `json:"username"`
	UserID   int64    `json:"userId"`
	Courses  []Course `json:"courses"`
}

// Account returns the user without its password.
func (u User) Account() Account {
	return Account{
		Username: u.Username,
		UserID:   u.ID,
		Courses:  CloneCourses(u.Courses),
	}
}

// CourseIndex returns the position of course in the user's list, or -1.
func (u User) CourseIndex(course Course) int {
	for i := range u.Courses {
		if u.Courses[i].SameCourse(course) {
			return i
		}
	}
	return -1
}

func (u User) Enrolled(course Course) bool {
	return u.CourseIndex(course) >= 0
}

// CloneCourses copies courses into a new, never nil, slice.
func CloneCourses(courses []Course) []Course {
	out := make([]Course, len(courses))
	copy(out, courses)
	return out
}

// NextUserID returns an id not used by any of users.
func NextUserID(users []User) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
