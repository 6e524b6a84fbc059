package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStore wires all four collections onto one GORM connection and
// migrates their tables.
func NewGormStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&UserRecord{}, &PostRecord{}, &CommentRecord{}, &FollowRecord{}); err != nil {
		return nil, err
	}
	return &Store{
		Users:    &gormUserStore{db: db},
		Posts:    &gormPostStore{db: db},
		Comments: &gormCommentStore{db: db},
		Follows:  &gormFollowStore{db: db},
	}, nil
}

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) ListAll(ctx context.Context) ([]UserRecord, error) {
	var recs []UserRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormUserStore) Get(ctx context.Context, id string) (*UserRecord, error) {
	var rec UserRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormUserStore) Put(ctx context.Context, rec UserRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (s *gormUserStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&UserRecord{}, "id = ?", id).Error
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) ([]UserRecord, error) {
	var recs []UserRecord
	if err := s.db.WithContext(ctx).Where("email = ?", email).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

type gormPostStore struct {
	db *gorm.DB
}

func (s *gormPostStore) ListAll(ctx context.Context) ([]PostRecord, error) {
	var recs []PostRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormPostStore) ListOrderedByCreatedAtDesc(ctx context.Context) ([]PostRecord, error) {
	var recs []PostRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormPostStore) Get(ctx context.Context, id string) (*PostRecord, error) {
	var rec PostRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormPostStore) Put(ctx context.Context, rec PostRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (s *gormPostStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&PostRecord{}, "id = ?", id).Error
}

func (s *gormPostStore) UpdateLikes(ctx context.Context, id string, likes int) error {
	return s.db.WithContext(ctx).
		Model(&PostRecord{}).
		Where("id = ?", id).
		Update("likes", likes).Error
}

type gormCommentStore struct {
	db *gorm.DB
}

func (s *gormCommentStore) ListAll(ctx context.Context) ([]CommentRecord, error) {
	var recs []CommentRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormCommentStore) Get(ctx context.Context, id string) (*CommentRecord, error) {
	var rec CommentRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormCommentStore) Put(ctx context.Context, rec CommentRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (s *gormCommentStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&CommentRecord{}, "id = ?", id).Error
}

func (s *gormCommentStore) FindByPostID(ctx context.Context, postID string) ([]CommentRecord, error) {
	var recs []CommentRecord
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

type gormFollowStore struct {
	db *gorm.DB
}

func (s *gormFollowStore) ListAll(ctx context.Context) ([]FollowRecord, error) {
	var recs []FollowRecord
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *gormFollowStore) Get(ctx context.Context, id string) (*FollowRecord, error) {
	var rec FollowRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *gormFollowStore) Put(ctx context.Context, rec FollowRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (s *gormFollowStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&FollowRecord{}, "id = ?", id).Error
}
