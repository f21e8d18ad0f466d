package database

import (
	"fmt"
	"log"
	"os"

	"github.com/aokihara/unitrack/model"
	authutil "github.com/aokihara/unitrack/utils/auth"
	"gorm.io/gorm"
)

type seedCourse struct {
	title     string
	dayOfWeek int
	period    int
	credits   float64
	tags      []string
}

var demoTimetable = []seedCourse{
	{"Calculus I", model.Monday, 1, 2, []string{"math", "required"}},
	{"Linear Algebra", model.Monday, 2, 2, []string{"math", "required"}},
	{"Academic Writing", model.Tuesday, 1, 1, []string{"general-education"}},
	{"Data Structures", model.Wednesday, 2, 3, []string{"cs", "required"}},
	{"Operating Systems", model.Thursday, 3, 3, []string{"cs"}},
	{"Art History", model.Friday, 4, 1, []string{"general-education", "elective"}},
}

// RunSeeds provisions a demo account with a week of tagged courses. Safe to
// run repeatedly: the user is looked up by email and courses are only seeded
// into an empty timetable.
func RunSeeds(db *gorm.DB) error {
	email := os.Getenv("DEMO_EMAIL")
	if email == "" {
		email = "demo@unitrack.local"
	}
	password := os.Getenv("DEMO_PASSWORD")
	if password == "" {
		password = "demo-password-123"
	}

	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		hash, herr := authutil.HashPassword(password)
		if herr != nil {
			return fmt.Errorf("hash demo password: %w", herr)
		}
		user = model.User{Email: email, PasswordHash: hash, Name: "Demo Student"}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}
		log.Printf("Created demo user %s", email)
	} else if err != nil {
		return err
	} else {
		log.Printf("Demo user %s already exists", email)
	}

	var courseCount int64
	if err := db.Model(&model.Course{}).Where("user_id = ?", user.ID).Count(&courseCount).Error; err != nil {
		return err
	}
	if courseCount > 0 {
		log.Printf("Demo user already has %d courses, skipping timetable seed", courseCount)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range demoTimetable {
			course := model.Course{
				UserID:    user.ID,
				Title:     sc.title,
				DayOfWeek: sc.dayOfWeek,
				Period:    sc.period,
				Credits:   sc.credits,
			}
			if err := tx.Create(&course).Error; err != nil {
				return fmt.Errorf("create course %q: %w", sc.title, err)
			}

			for _, name := range sc.tags {
				var tag model.Tag
				if err := tx.Where("user_id = ? AND name = ?", user.ID, name).
					FirstOrCreate(&tag, model.Tag{UserID: user.ID, Name: name}).Error; err != nil {
					return fmt.Errorf("upsert tag %q: %w", name, err)
				}
				link := model.CourseTag{CourseID: course.ID, TagID: tag.ID}
				if err := tx.Create(&link).Error; err != nil {
					return fmt.Errorf("link course %q to tag %q: %w", sc.title, name, err)
				}
			}
			log.Printf("Seeded course %q (%v credits, tags %v)", sc.title, sc.credits, sc.tags)
		}
		return nil
	})
}
