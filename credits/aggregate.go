// Package credits computes per-tag credit totals over a course list. It is
// shared by the API's summary endpoint and the progress CLI, so it stays free
// of storage and transport concerns.
package credits

// Course is the minimal course shape the aggregation needs. JSON tags match
// the API wire format so clients can decode course payloads directly into it.
type Course struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Credits float64  `json:"credits"`
	Tags    []string `json:"tags"`
}

// TotalsByTag sums course credit values per tag name. A course carrying
// several tags contributes its full credit value to each of them: a tag
// defines an independent requirement bucket, and a course satisfies every
// bucket it is labeled with. Tags with no courses are absent from the result,
// never present with a zero value.
func TotalsByTag(courses []Course) map[string]float64 {
	totals := make(map[string]float64, len(courses))
	for _, course := range courses {
		for _, tag := range course.Tags {
			totals[tag] += course.Credits
		}
	}
	return totals
}

// CoursesWithTag returns the courses carrying the given tag, preserving
// input order.
func CoursesWithTag(courses []Course, tag string) []Course {
	matched := []Course{}
	for _, course := range courses {
		for _, t := range course.Tags {
			if t == tag {
				matched = append(matched, course)
				break
			}
		}
	}
	return matched
}
