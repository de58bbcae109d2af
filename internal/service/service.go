package service

import (
	"go.uber.org/zap"

	"yks-planner/backend/config"
	"yks-planner/backend/internal/achievement"
	"yks-planner/backend/internal/repository"
	"yks-planner/backend/pkg/jwt"
	"yks-planner/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Subject      SubjectService
	Plan         PlanService
	Stats        StatsService
	Achievement  AchievementService
	Resource     ResourceService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合。
// 成就目录在此构造一次并注入，进程内只有一份不可变实例。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	catalog := achievement.NewCatalog()
	planSvc := NewPlanService(cfg, repo, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, cache, planSvc, logger),
		User:         NewUserService(repo, planSvc, logger),
		Subject:      NewSubjectService(repo, planSvc, logger),
		Plan:         planSvc,
		Stats:        NewStatsService(repo, logger),
		Achievement:  NewAchievementService(repo, catalog, logger),
		Resource:     NewResourceService(),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
