package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yks-planner/backend/internal/model"
)

// AchievementRepository 成就状态与辅助计数器数据访问接口
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.UserAchievement, error)
	// Upsert 按 (user_id, achievement_key) 幂等写入成就状态
	Upsert(ctx context.Context, ua *model.UserAchievement) error
	// ListUnlocked 返回全体用户已解锁的成就记录，供排行榜聚合
	ListUnlocked(ctx context.Context) ([]model.UserAchievement, error)
	GetOrCreateCounters(ctx context.Context, userID string) (*model.UserCounters, error)
	SaveCounters(ctx context.Context, counters *model.UserCounters) error
}

// achievementRepo AchievementRepository 的 GORM 实现
type achievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo 创建 AchievementRepository 实例
func NewAchievementRepo(db *gorm.DB) AchievementRepository {
	return &achievementRepo{db: db}
}

func (r *achievementRepo) ListByUser(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	var list []model.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *achievementRepo) Upsert(ctx context.Context, ua *model.UserAchievement) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"progress", "unlocked", "unlocked_at", "updated_at",
			}),
		}).
		Create(ua).Error
}

func (r *achievementRepo) ListUnlocked(ctx context.Context) ([]model.UserAchievement, error) {
	var list []model.UserAchievement
	err := r.db.WithContext(ctx).
		Where("unlocked = ?", true).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *achievementRepo) GetOrCreateCounters(ctx context.Context, userID string) (*model.UserCounters, error) {
	var counters model.UserCounters
	err := r.db.WithContext(ctx).
		Where(model.UserCounters{UserID: userID}).
		FirstOrCreate(&counters).Error
	if err != nil {
		return nil, err
	}
	return &counters, nil
}

func (r *achievementRepo) SaveCounters(ctx context.Context, counters *model.UserCounters) error {
	return r.db.WithContext(ctx).Save(counters).Error
}
