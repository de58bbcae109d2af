package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"yks-planner/backend/internal/model"
)

// PlanRepository 周计划与学习场次数据访问接口
type PlanRepository interface {
	GetActiveByUser(ctx context.Context, userID string) (*model.StudyPlan, error)
	// ReplaceActivePlan 全量替换：归档旧计划、删除其全部场次、落库新计划。
	// 单事务执行，失败时旧计划保持原样。
	ReplaceActivePlan(ctx context.Context, userID string, plan *model.StudyPlan) error
	GetSessionByID(ctx context.Context, sessionID string) (*model.StudySession, error)
	// CompleteSession 标记完成。已完成的场次不重复标记，返回 false。
	CompleteSession(ctx context.Context, sessionID string, completedAt time.Time) (bool, error)
	ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]model.StudySession, error)
}

// planRepo PlanRepository 的 GORM 实现
type planRepo struct {
	db *gorm.DB
}

// NewPlanRepo 创建 PlanRepository 实例
func NewPlanRepo(db *gorm.DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) GetActiveByUser(ctx context.Context, userID string) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.db.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_index ASC, start_time ASC")
		}).
		Where("user_id = ? AND status = ?", userID, "active").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepo) ReplaceActivePlan(ctx context.Context, userID string, plan *model.StudyPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 找出旧的活跃计划
		var old []model.StudyPlan
		if err := tx.Where("user_id = ? AND status = ?", userID, "active").
			Find(&old).Error; err != nil {
			return err
		}

		// 2. 删除旧场次并归档旧计划（完成状态随场次一并清除）
		for i := range old {
			if err := tx.Where("plan_id = ?", old[i].PlanID).
				Delete(&model.StudySession{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.StudyPlan{}).
				Where("plan_id = ?", old[i].PlanID).
				Update("status", "archived").Error; err != nil {
				return err
			}
		}

		// 3. 落库新计划（级联创建场次）
		return tx.Create(plan).Error
	})
}

func (r *planRepo) GetSessionByID(ctx context.Context, sessionID string) (*model.StudySession, error) {
	var session model.StudySession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *planRepo) CompleteSession(ctx context.Context, sessionID string, completedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StudySession{}).
		Where("session_id = ? AND is_completed = ?", sessionID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListCompletedSince 返回用户活跃计划中 since 之后完成的场次，供连续打卡计算
func (r *planRepo) ListCompletedSince(ctx context.Context, userID string, since time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.db.WithContext(ctx).
		Joins("JOIN study_plans ON study_plans.plan_id = study_sessions.plan_id").
		Where("study_plans.user_id = ? AND study_plans.status = ?", userID, "active").
		Where("study_sessions.is_completed = ? AND study_sessions.completed_at >= ?", true, since).
		Order("study_sessions.completed_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
