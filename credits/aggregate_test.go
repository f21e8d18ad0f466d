package credits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsByTagDoubleCountsPerTag(t *testing.T) {
	courses := []Course{
		{ID: 1, Title: "Calculus", Credits: 2, Tags: []string{"A", "B"}},
	}

	totals := TotalsByTag(courses)

	// The course contributes its full credit value to each tag, not a split
	require.Equal(t, map[string]float64{"A": 2, "B": 2}, totals)
}

func TestTotalsByTagSumsAcrossCourses(t *testing.T) {
	courses := []Course{
		{ID: 1, Title: "Calculus", Credits: 3, Tags: []string{"math", "required"}},
		{ID: 2, Title: "Linear Algebra", Credits: 2, Tags: []string{"math"}},
		{ID: 3, Title: "Art History", Credits: 1, Tags: []string{"general-education"}},
	}

	totals := TotalsByTag(courses)

	assert.Equal(t, 5.0, totals["math"])
	assert.Equal(t, 3.0, totals["required"])
	assert.Equal(t, 1.0, totals["general-education"])
}

func TestTotalsByTagOmitsTagsWithoutCourses(t *testing.T) {
	totals := TotalsByTag([]Course{{ID: 1, Credits: 2, Tags: []string{"math"}}})

	_, present := totals["unused"]
	assert.False(t, present)
	assert.Len(t, totals, 1)
}

func TestTotalsByTagUntaggedCoursesContributeNothing(t *testing.T) {
	courses := []Course{
		{ID: 1, Title: "Seminar", Credits: 4, Tags: nil},
		{ID: 2, Title: "Lab", Credits: 1, Tags: []string{}},
	}

	assert.Empty(t, TotalsByTag(courses))
}

func TestTotalsByTagIsDeterministic(t *testing.T) {
	courses := []Course{
		{ID: 1, Credits: 2, Tags: []string{"a", "b"}},
		{ID: 2, Credits: 3, Tags: []string{"b", "c"}},
	}

	first := TotalsByTag(courses)
	second := TotalsByTag(courses)

	require.Equal(t, first, second)
	// Input must not be mutated
	assert.Equal(t, []string{"a", "b"}, courses[0].Tags)
}

func TestCoursesWithTag(t *testing.T) {
	courses := []Course{
		{ID: 1, Title: "Calculus", Credits: 3, Tags: []string{"math"}},
		{ID: 2, Title: "Art History", Credits: 1, Tags: []string{"general-education"}},
		{ID: 3, Title: "Statistics", Credits: 2, Tags: []string{"math", "elective"}},
	}

	matched := CoursesWithTag(courses, "math")

	require.Len(t, matched, 2)
	assert.Equal(t, uint(1), matched[0].ID)
	assert.Equal(t, uint(3), matched[1].ID)

	assert.Empty(t, CoursesWithTag(courses, "missing"))
}
