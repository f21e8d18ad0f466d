package services

import (
	"context"
	"errors"

	"github.com/aokihara/unitrack/model"
	"gorm.io/gorm"
)

var (
	// ErrCourseNotFound covers both "no such course" and "owned by someone
	// else"; callers must not be able to tell the two apart.
	ErrCourseNotFound = errors.New("course not found")
)

// CourseService manages timetable courses and their tag links.
type CourseService struct {
	db *gorm.DB
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// CreateCourseInput carries a validated course creation request.
type CreateCourseInput struct {
	UserID    uint
	Title     string
	DayOfWeek int
	Period    int
	Credits   float64
	Tags      []string
}

// Create inserts the course row, upserts every submitted tag and links it to
// the course, all inside one transaction: a failure at any step leaves
// nothing behind. Duplicate tag names collapse to a single link row.
func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	var course model.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course = model.Course{
			UserID:    in.UserID,
			Title:     in.Title,
			DayOfWeek: in.DayOfWeek,
			Period:    in.Period,
			Credits:   in.Credits,
		}
		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		linked := make(map[uint]bool, len(in.Tags))
		for _, name := range in.Tags {
			tag, err := upsertTag(tx, in.UserID, name)
			if err != nil {
				return err
			}
			if linked[tag.ID] {
				continue
			}
			linked[tag.ID] = true

			link := model.CourseTag{CourseID: course.ID, TagID: tag.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// List returns every course owned by userID with its linked tags resolved,
// ordered by weekday then insertion order. Tag order within a course is
// join-resolved, not the original submission order.
func (s *CourseService) List(ctx context.Context, userID uint) ([]model.Course, error) {
	courses := []model.Course{}
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("day_of_week asc, id asc").
		Find(&courses).Error
	return courses, err
}

// Delete removes the course and all its tag links in one transaction.
// Returns ErrCourseNotFound when the course does not exist or belongs to a
// different user.
func (s *CourseService) Delete(ctx context.Context, userID, courseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		err := tx.Where("id = ? AND user_id = ?", courseID, userID).First(&course).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if err := tx.Where("course_id = ?", course.ID).Delete(&model.CourseTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, course.ID).Error
	})
}
