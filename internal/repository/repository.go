package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Subject      SubjectRepository
	Plan         PlanRepository
	Achievement  AchievementRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Subject:      NewSubjectRepo(db),
		Plan:         NewPlanRepo(db),
		Achievement:  NewAchievementRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
