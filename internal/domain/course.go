package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CourseNumber is a course number such as 1202. Catalog files store it either
// as a JSON number or a JSON string; the original form is kept so a record
// survives a load/save cycle unchanged.
type CourseNumber struct {
	digits  string
	numeric bool
}

// NewCourseNumber returns a number that is encoded as a JSON string.
func NewCourseNumber(digits string) CourseNumber {
	return CourseNumber{digits: strings.TrimSpace(digits)}
}

// NumericCourseNumber returns a number that is encoded as a JSON number.
func NumericCourseNumber(n int) CourseNumber {
	return CourseNumber{digits: fmt.Sprintf("%d", n), numeric: true}
}

func (n CourseNumber) String() string {
	return n.digits
}

func (n CourseNumber) IsZero() bool {
	return n.digits == ""
}

func (n CourseNumber) MarshalJSON() ([]byte, error) {
	if n.numeric {
		return []byte(n.digits), nil
	}
	return json.Marshal(n.digits)
}

func (n *CourseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("course number: %w", err)
		}
		*n = NewCourseNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("course number must be a string or number: %w", err)
	}
	*n = CourseNumber{digits: num.String(), numeric: true}
	return nil
}

// Course is an entry of the read-only course catalog. A course is identified
// by its code and number; every other member of the stored record is kept
// as is and written back unchanged.
type Course struct {
	Code string
	Num  CourseNumber

	raw json.RawMessage
}

type courseKey struct {
	Code string       `json:"code"`
	Num  CourseNumber `json:"num"`
}

// NewCourse returns a course carrying only its code and number.
func NewCourse(code string, num CourseNumber) Course {
	return Course{Code: code, Num: num}
}

func (c Course) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(courseKey{Code: c.Code, Num: c.Num})
}

func (c *Course) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var key courseKey
	if err := json.Unmarshal(data, &key); err != nil {
		return fmt.Errorf("course: %w", err)
	}

	var raw bytes.Buffer
	if err := json.Compact(&raw, data); err != nil {
		return fmt.Errorf("course: %w", err)
	}
	*c = Course{Code: key.Code, Num: key.Num, raw: raw.Bytes()}
	return nil
}

// Field returns the raw JSON value of a record member, such as "name".
func (c Course) Field(name string) (json.RawMessage, bool) {
	if c.raw == nil {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.raw, &fields); err != nil {
		return nil, false
	}
	v, ok := fields[name]
	return v, ok
}

// SameCourse reports whether c and other share code and number. The JSON form
// of the number is ignored.
func (c Course) SameCourse(other Course) bool {
	return c.Code == other.Code && c.Num.String() == other.Num.String()
}

func (c Course) String() string {
	return c.Code + " " + c.Num.String()
}

// FindCourse returns the catalog record matching candidate.
func FindCourse(candidate Course, catalog []Course) (Course, bool) {
	if strings.TrimSpace(candidate.Code) == "" || candidate.Num.IsZero() {
		return Course{}, false
	}
	for _, course := range catalog {
		if course.SameCourse(candidate) {
			return course, true
		}
	}
	return Course{}, false
}

// IsKnownCourse reports whether candidate names a course of the catalog.
func IsKnownCourse(candidate Course, catalog []Course) bool {
	_, ok := FindCourse(candidate, catalog)
	return ok
}

// CourseFilter narrows a catalog listing. Empty fields match everything.
//
// Num is compared against the course number: a four character value must be
// equal to it, any other value must be a prefix of it (a single digit selects
// the year level).
type CourseFilter struct {
	Code string
	Num  string
}

func (f CourseFilter) Match(c Course) bool {
	if f.Code != "" && c.Code != f.Code {
		return false
	}
	if f.Num == "" {
		return true
	}
	if len(f.Num) == 4 {
		return c.Num.String() == f.Num
	}
	return strings.HasPrefix(c.Num.String(), f.Num)
}

// FilterCourses returns the courses matching f, in catalog order.
func FilterCourses(catalog []Course, f CourseFilter) []Course {
	out := make([]Course, 0, len(catalog))
	for _, course := range catalog {
		if f.Match(course) {
			out = append(out, course)
		}
	}
	return out
}
