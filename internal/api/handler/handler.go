package handler

import "yks-planner/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Subject      *SubjectHandler
	Plan         *PlanHandler
	Stats        *StatsHandler
	Achievement  *AchievementHandler
	Resource     *ResourceHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Subject:      NewSubjectHandler(svc.Subject),
		Plan:         NewPlanHandler(svc.Plan, svc.Achievement),
		Stats:        NewStatsHandler(svc.Stats),
		Achievement:  NewAchievementHandler(svc.Achievement),
		Resource:     NewResourceHandler(svc.Resource),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
