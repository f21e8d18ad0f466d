package model

import "time"

// Weekday values stored in Course.DayOfWeek. The integer mapping is part of
// the wire contract shared with clients: 0 is Sunday, 6 is Saturday.
const (
	Sunday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Course represents a single scheduled class in a user's timetable.
// Courses are hard-deleted: "course gone" must also mean "links gone",
// which soft deletes would silently break.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	DayOfWeek int       `gorm:"not null" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	Period    int       `gorm:"not null" json:"period"`    // time-slot index, 1-based
	Credits   float64   `gorm:"not null" json:"credits"`

	// Relationships
	User User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tags []Tag `gorm:"many2many:course_tags" json:"tags,omitempty"`
}

// Tag is a user-defined label attached to courses. A user owns at most one
// tag per name; the composite unique index is the authority under
// concurrent upserts.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"name"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// CourseTag is the join row linking a course to a tag. Both sides always
// belong to the same user: links are only ever created inside the course
// creation transaction, against tags resolved through the owner's upsert.
type CourseTag struct {
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	TagID     uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    Tag    `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the join table name shared with the Course.Tags
// many2many association
func (CourseTag) TableName() string {
	return "course_tags"
}
