package requirements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAppendsNewTag(t *testing.T) {
	list := Upsert(nil, "math", 10)

	require.Len(t, list, 1)
	assert.Equal(t, Requirement{Tag: "math", Required: 10}, list[0])
}

func TestUpsertReplacesExistingTag(t *testing.T) {
	list := []Requirement{{Tag: "math", Required: 10}, {Tag: "elective", Required: 4}}

	updated := Upsert(list, "math", 12)

	require.Len(t, updated, 2)
	assert.Equal(t, 12.0, updated[0].Required)
	assert.Equal(t, "elective", updated[1].Tag)

	// Original list is untouched
	assert.Equal(t, 10.0, list[0].Required)
}

func TestUpsertTrimsTagName(t *testing.T) {
	list := Upsert(nil, "  math  ", 6)

	require.Len(t, list, 1)
	assert.Equal(t, "math", list[0].Tag)
}

func TestUpsertRejectsInvalidInput(t *testing.T) {
	list := []Requirement{{Tag: "math", Required: 10}}

	assert.Equal(t, list, Upsert(list, "", 5))
	assert.Equal(t, list, Upsert(list, "   ", 5))
	assert.Equal(t, list, Upsert(list, "elective", 0))
	assert.Equal(t, list, Upsert(list, "elective", -3))
}

func TestRemove(t *testing.T) {
	list := []Requirement{{Tag: "math", Required: 10}, {Tag: "elective", Required: 4}}

	updated := Remove(list, "math")

	require.Len(t, updated, 1)
	assert.Equal(t, "elective", updated[0].Tag)

	// Removing an absent tag is a no-op
	assert.Equal(t, updated, Remove(updated, "missing"))
}

func TestEvaluate(t *testing.T) {
	list := []Requirement{
		{Tag: "math", Required: 4},
		{Tag: "elective", Required: 5},
		{Tag: "untracked", Required: 2},
	}
	totals := map[string]float64{"math": 3, "elective": 5}

	statuses := Evaluate(list, totals)

	require.Len(t, statuses, 3)

	assert.Equal(t, Status{Tag: "math", Required: 4, Current: 3, Satisfied: false}, statuses[0])
	// Exactly meeting the threshold satisfies it
	assert.Equal(t, Status{Tag: "elective", Required: 5, Current: 5, Satisfied: true}, statuses[1])
	// A tag with no credits at all evaluates against zero
	assert.Equal(t, Status{Tag: "untracked", Required: 2, Current: 0, Satisfied: false}, statuses[2])
}

func TestEvaluatePreservesListOrder(t *testing.T) {
	list := []Requirement{{Tag: "b", Required: 1}, {Tag: "a", Required: 1}}

	statuses := Evaluate(list, map[string]float64{"a": 2, "b": 2})

	require.Len(t, statuses, 2)
	assert.Equal(t, "b", statuses[0].Tag)
	assert.Equal(t, "a", statuses[1].Tag)
}
