// Package requirements tracks user-defined graduation requirements: per-tag
// credit thresholds evaluated against aggregated course credits. The list is
// device-local state, persisted through a Repository rather than the server.
package requirements

import "strings"

// Requirement is a (tag, required-credit) threshold. At most one entry per
// tag name exists in a list.
type Requirement struct {
	Tag      string  `json:"tag"`
	Required float64 `json:"required"`
}

// Status is the evaluation result for a single requirement.
type Status struct {
	Tag       string  `json:"tag"`
	Required  float64 `json:"required"`
	Current   float64 `json:"current"`
	Satisfied bool    `json:"satisfied"`
}

// Upsert returns a new list with the requirement for tag set to required.
// An existing entry is replaced in place, otherwise the entry is appended.
// Empty tag names (after trimming) and non-positive thresholds are rejected
// by returning the list unchanged.
func Upsert(list []Requirement, tag string, required float64) []Requirement {
	tag = strings.TrimSpace(tag)
	if tag == "" || required <= 0 {
		return list
	}

	out := make([]Requirement, len(list))
	copy(out, list)

	for i, r := range out {
		if r.Tag == tag {
			out[i].Required = required
			return out
		}
	}
	return append(out, Requirement{Tag: tag, Required: required})
}

// Remove returns a new list without the entry matching tag, if any.
func Remove(list []Requirement, tag string) []Requirement {
	out := make([]Requirement, 0, len(list))
	for _, r := range list {
		if r.Tag != tag {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate compares every requirement against the per-tag credit totals.
// A tag absent from totals counts as zero credits. Output order follows the
// requirement list order.
func Evaluate(list []Requirement, totals map[string]float64) []Status {
	statuses := make([]Status, 0, len(list))
	for _, r := range list {
		current := totals[r.Tag]
		statuses = append(statuses, Status{
			Tag:       r.Tag,
			Required:  r.Required,
			Current:   current,
			Satisfied: current >= r.Required,
		})
	}
	return statuses
}
