package repository

import (
	"context"

	"gorm.io/gorm"

	"yks-planner/backend/internal/model"
	pkgerrors "yks-planner/backend/pkg/errors"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	CreateBatch(ctx context.Context, subjects []model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
}

// subjectRepo SubjectRepository 的 GORM 实现
type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) CreateBatch(ctx context.Context, subjects []model.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&subjects).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListByUser 按创建顺序返回用户科目；排程的轮转公平性依赖此顺序稳定
func (r *subjectRepo) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]model.Subject, error) {
	var subjects []model.Subject
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("created_at ASC, subject_id ASC").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// Update 带乐观锁的更新：version 不匹配时返回 ErrOptimisticLock
func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	currentVersion := subject.Version
	subject.Version++

	result := r.db.WithContext(ctx).
		Model(subject).
		Where("subject_id = ? AND version = ?", subject.SubjectID, currentVersion).
		Select("name", "level", "color", "is_active", "version", "updated_at").
		Updates(subject)
	if result.Error != nil {
		subject.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		subject.Version = currentVersion
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		Delete(&model.Subject{}).Error
}
