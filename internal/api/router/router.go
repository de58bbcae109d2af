package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"yks-planner/backend/config"
	"yks-planner/backend/internal/api/handler"
	"yks-planner/backend/internal/api/middleware"
	"yks-planner/backend/pkg/jwt"
	"yks-planner/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/注册限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户档案
			authorized.PUT("/users/me", h.User.UpdateProfile)

			// 科目模块
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.ListSubjects)
				subjects.POST("", h.Subject.CreateSubject)
				subjects.PUT("/:id", h.Subject.UpdateSubject)
				subjects.DELETE("/:id", h.Subject.DeleteSubject)
			}

			// 周计划模块
			plan := authorized.Group("/plan")
			{
				plan.GET("", h.Plan.GetPlan)
				plan.POST("/generate", h.Plan.GeneratePlan)
				plan.POST("/sessions/:id/complete", h.Plan.CompleteSession)
			}

			// 统计模块
			authorized.GET("/stats", h.Stats.GetStatistics)

			// 成就模块
			achievements := authorized.Group("/achievements")
			{
				achievements.GET("", h.Achievement.ListAchievements)
				achievements.POST("/evaluate", h.Achievement.Evaluate)
				achievements.GET("/leaderboard", h.Achievement.Leaderboard)
			}

			// 资源建议模块
			authorized.GET("/resources", h.Resource.Suggest)

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/plan.xlsx", h.Export.ExportExcel)
				export.GET("/plan.ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
