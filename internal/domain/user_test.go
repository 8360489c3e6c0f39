package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountOmitsPassword(t *testing.T) {
	user := User{ID: 7, Username: "amy", Password: "secret"}

	data, err := json.Marshal(user.Account())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "password")
	assert.Equal(t, float64(7), fields["userId"])
	assert.Equal(t, "amy", fields["username"])
	assert.Equal(t, []any{}, fields["courses"])
}

func TestCourseIndex(t *testing.T) {
	catalog := testCatalog()
	user := User{Courses: []Course{catalog[0], catalog[2]}}

	assert.Equal(t, 1, user.CourseIndex(catalog[2]))
	assert.True(t, user.Enrolled(Course{Code: "SODV", Num: NewCourseNumber("1101")}))
	assert.False(t, user.Enrolled(catalog[1]))
}

func TestNextUserID(t *testing.T) {
	assert.Equal(t, int64(1), NextUserID(nil))
	assert.Equal(t, int64(10), NextUserID([]User{{ID: 3}, {ID: 9}, {ID: 1}}))
}
