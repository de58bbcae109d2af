package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/config"
	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

// ── 计划模块业务错误 ──

var ErrPlanNotFound = errors.New("暂无周计划")

// 周期常量：固定 7 天一轮，第 6 天（周日）为休息日
const (
	cycleDays    = 7
	restDayIndex = 6
	restDayStart = "09:00"
)

// 合成场次展示名（用户可见文案为土耳其语）
const reviewSessionName = "Genel Tekrar"

// examAnalysisName 强者场次展示名，按赛道区分
func examAnalysisName(track string) string {
	if track == "dil" {
		return "YDT Deneme Analizi"
	}
	return "AYT Deneme Analizi"
}

// Cadence 排程节奏参数（来自配置，默认 4×90 分钟 + 120 分钟复习）
type Cadence struct {
	SessionsPerDay int
	SessionMinutes int
	ReviewMinutes  int
}

// ────────────────────── 周计划生成（纯函数） ──────────────────────

// BuildWeekSessions 确定性地生成一周学习场次。
//
// 规则：
//   - active 为空时返回 nil，调用方保持既有计划不变；
//   - 第 6 天为休息日，只产出一个 "review" 合成复习场次；
//   - 其余每天 cad.SessionsPerDay 个场次，第 d 天第 s 槽的科目为
//     active[(d+s) mod N]，轮转偏移保证每个科目在一周内轮遍各时段；
//   - 开始时间 = 9 时 + (s/2)*3 小时 + (s%2)*90 分钟，上下午两带分布；
//   - 总体水平 level ≤ 2 时第 2 槽强制为复习，≥ 4 时末槽强制为真题分析。
//
// 相同输入产出结构相同的场次集（幂等），不触碰任何外部状态。
func BuildWeekSessions(active []model.Subject, level int, track string, cad Cadence) []model.StudySession {
	if len(active) == 0 {
		return nil
	}

	sessions := make([]model.StudySession, 0, (cycleDays-1)*cad.SessionsPerDay+1)

	for day := 0; day < cycleDays; day++ {
		if day == restDayIndex {
			sessions = append(sessions, model.StudySession{
				SessionKey:  fmt.Sprintf("%d-review", day),
				SubjectID:   model.SubjectSentinelReview,
				SubjectName: reviewSessionName,
				StartTime:   restDayStart,
				Duration:    cad.ReviewMinutes,
				DayIndex:    day,
			})
			continue
		}

		for slot := 0; slot < cad.SessionsPerDay; slot++ {
			subject := active[(day+slot)%len(active)]
			subjectID := subject.SubjectID
			subjectName := subject.Name

			// 按总体水平覆写晚间时段
			switch {
			case level <= 2 && slot == 2:
				subjectID = model.SubjectSentinelReview
				subjectName = reviewSessionName
			case level >= 4 && slot == cad.SessionsPerDay-1:
				subjectID = model.SubjectSentinelExamAnalysis
				subjectName = examAnalysisName(track)
			}

			startMinutes := 9*60 + (slot/2)*180 + (slot%2)*90
			sessions = append(sessions, model.StudySession{
				SessionKey:  fmt.Sprintf("%d-%d", day, slot),
				SubjectID:   subjectID,
				SubjectName: subjectName,
				StartTime:   fmt.Sprintf("%02d:%02d", startMinutes/60, startMinutes%60),
				Duration:    cad.SessionMinutes,
				DayIndex:    day,
			})
		}
	}

	return sessions
}

// ────────────────────── PlanService ──────────────────────

// PlanService 周计划业务接口
type PlanService interface {
	GetActive(ctx context.Context, userID string) (*dto.PlanResponse, error)
	// Regenerate 全量重新生成周计划。无活跃科目时为软空操作：
	// 保留既有计划原样返回（无计划时返回 ErrPlanNotFound）。
	Regenerate(ctx context.Context, userID string) (*dto.PlanResponse, error)
	// CompleteSession 标记场次完成并维护辅助计数器。
	// 过期/未知的场次 ID 静默忽略（与重新生成的良性竞态），返回 false。
	CompleteSession(ctx context.Context, userID, sessionID string, actualMinutes int) (bool, error)
}

type planService struct {
	repo    *repository.Repository
	cadence Cadence
	logger  *zap.Logger
	now     func() time.Time
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{
		repo: repo,
		cadence: Cadence{
			SessionsPerDay: cfg.Plan.SessionsPerDay,
			SessionMinutes: cfg.Plan.SessionMinutes,
			ReviewMinutes:  cfg.Plan.ReviewMinutes,
		},
		logger: logger,
		now:    time.Now,
	}
}

func (s *planService) GetActive(ctx context.Context, userID string) (*dto.PlanResponse, error) {
	plan, err := s.repo.Plan.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		s.logger.Error("查询周计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toPlanResponse(plan), nil
}

func (s *planService) Regenerate(ctx context.Context, userID string) (*dto.PlanResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	active, err := s.repo.Subject.ListByUser(ctx, userID, true)
	if err != nil {
		s.logger.Error("查询活跃科目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	sessions := BuildWeekSessions(active, user.Level, user.Track, s.cadence)
	if sessions == nil {
		// 软空操作：既有计划保持不变
		return s.GetActive(ctx, userID)
	}

	plan := &model.StudyPlan{
		UserID:      userID,
		Status:      "active",
		Level:       user.Level,
		GeneratedAt: s.now(),
		Sessions:    sessions,
	}

	if err := s.repo.Plan.ReplaceActivePlan(ctx, userID, plan); err != nil {
		s.logger.Error("替换周计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("周计划已重新生成",
		zap.String("user_id", userID),
		zap.Int("sessions", len(sessions)),
		zap.Int("level", user.Level))

	// 计划发布通知（写入失败不阻断主流程）
	relatedType := "plan"
	notification := &model.Notification{
		UserID:      userID,
		Type:        "plan_generated",
		Title:       "📅 Yeni Haftalık Plan",
		Content:     fmt.Sprintf("Haftalık çalışma planın hazır: %d oturum seni bekliyor.", len(sessions)),
		RelatedType: &relatedType,
		RelatedID:   &plan.PlanID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("写入计划通知失败", zap.String("user_id", userID), zap.Error(err))
	}

	return toPlanResponse(plan), nil
}

func (s *planService) CompleteSession(ctx context.Context, userID, sessionID string, actualMinutes int) (bool, error) {
	plan, err := s.repo.Plan.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 无活跃计划时的过期 ID，静默忽略
			return false, nil
		}
		s.logger.Error("查询周计划失败", zap.String("user_id", userID), zap.Error(err))
		return false, err
	}

	// 只允许操作本人活跃计划内的场次；查不到视为过期 ID
	var target *model.StudySession
	for i := range plan.Sessions {
		if plan.Sessions[i].SessionID == sessionID {
			target = &plan.Sessions[i]
			break
		}
	}
	if target == nil || target.IsCompleted {
		return false, nil
	}

	now := s.now()
	updated, err := s.repo.Plan.CompleteSession(ctx, sessionID, now)
	if err != nil {
		s.logger.Error("标记场次完成失败", zap.String("session_id", sessionID), zap.Error(err))
		return false, err
	}
	if !updated {
		return false, nil
	}
	target.IsCompleted = true
	target.CompletedAt = &now

	if err := s.updateCounters(ctx, userID, plan, target, actualMinutes); err != nil {
		// 计数器维护失败不回滚完成标记
		s.logger.Warn("更新辅助计数器失败", zap.String("user_id", userID), zap.Error(err))
	}

	return true, nil
}

// updateCounters 完成打卡后维护成就引擎消费的辅助计数器
func (s *planService) updateCounters(ctx context.Context, userID string, plan *model.StudyPlan, done *model.StudySession, actualMinutes int) error {
	counters, err := s.repo.Achievement.GetOrCreateCounters(ctx, userID)
	if err != nil {
		return err
	}

	// 早起/夜猫：按场次开始时间判定（"HH:MM" 字典序即时间序）
	if done.StartTime < "09:00" {
		counters.EarlySessions++
	}
	if done.StartTime >= "21:00" {
		counters.LateSessions++
	}

	// 快速完成：实际用时 < 计划时长的 75%
	if actualMinutes > 0 && actualMinutes*4 < done.Duration*3 {
		counters.FastCompletions++
	}

	// 完美一周：本次打卡使计划内全部场次完成
	completedMinutes := 0
	allDone := true
	for i := range plan.Sessions {
		if plan.Sessions[i].IsCompleted {
			completedMinutes += plan.Sessions[i].Duration
		} else {
			allDone = false
		}
	}
	if allDone {
		counters.PerfectWeeks++
	}

	// 周目标：本次打卡使累计学时首次越过目标线
	if user, err := s.repo.User.GetByID(ctx, userID); err == nil && user.WeeklyGoalHours > 0 {
		goalMinutes := user.WeeklyGoalHours * 60
		if completedMinutes >= goalMinutes && completedMinutes-done.Duration < goalMinutes {
			counters.WeeklyGoalHits++
		}
	}

	counters.UpdatedAt = s.now()
	return s.repo.Achievement.SaveCounters(ctx, counters)
}

// ── 内部辅助方法 ──

// toPlanResponse 将计划及场次转换为按天分组的响应
func toPlanResponse(plan *model.StudyPlan) *dto.PlanResponse {
	days := make([][]dto.SessionResponse, cycleDays)
	for i := range days {
		days[i] = []dto.SessionResponse{}
	}

	for i := range plan.Sessions {
		sess := &plan.Sessions[i]
		if sess.DayIndex < 0 || sess.DayIndex >= cycleDays {
			continue
		}
		var completedAt *string
		if sess.CompletedAt != nil {
			ts := sess.CompletedAt.Format(time.RFC3339)
			completedAt = &ts
		}
		days[sess.DayIndex] = append(days[sess.DayIndex], dto.SessionResponse{
			ID:          sess.SessionID,
			SessionKey:  sess.SessionKey,
			SubjectID:   sess.SubjectID,
			SubjectName: sess.SubjectName,
			StartTime:   sess.StartTime,
			Duration:    sess.Duration,
			DayIndex:    sess.DayIndex,
			IsCompleted: sess.IsCompleted,
			CompletedAt: completedAt,
		})
	}

	return &dto.PlanResponse{
		ID:          plan.PlanID,
		Status:      plan.Status,
		Level:       plan.Level,
		GeneratedAt: plan.GeneratedAt.Format(time.RFC3339),
		Days:        days,
	}
}
