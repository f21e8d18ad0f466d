package services

import (
	"context"
	"errors"
	"strings"

	"github.com/aokihara/unitrack/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTagNameRequired is returned when a tag name is empty after trimming.
var ErrTagNameRequired = errors.New("tag name is required")

// TagService owns the per-user tag set. The (user_id, name) unique index is
// the single authority on tag identity; every code path that needs a tag for
// a name goes through Upsert.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new tag service
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// Upsert returns the existing tag for (userID, name), creating it first if
// necessary. Safe under concurrent callers racing on the same name: the
// insert is a no-op on conflict and the winner's row is returned.
func (s *TagService) Upsert(ctx context.Context, userID uint, name string) (*model.Tag, error) {
	return upsertTag(s.db.WithContext(ctx), userID, name)
}

// upsertTag is the transaction-aware worker behind Upsert. db may be a
// plain connection or an open transaction handle.
func upsertTag(db *gorm.DB, userID uint, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	tag := model.Tag{UserID: userID, Name: name}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&tag)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost the race or the tag already existed; fetch the canonical row
		if err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error; err != nil {
			return nil, err
		}
	}

	return &tag, nil
}

// List returns all tags owned by userID ordered by name ascending. A user
// with no tags gets an empty slice, not an error.
func (s *TagService) List(ctx context.Context, userID uint) ([]model.Tag, error) {
	tags := []model.Tag{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&tags).Error
	return tags, err
}
