package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

// 连续打卡回溯上限：超过 30 天的连续记录饱和在 30
const streakLookbackDays = 30

// StudyStatistics 纯派生统计值，任何时刻都可从场次账本重算
type StudyStatistics struct {
	TotalHours        float64
	CompletedSessions int
	TotalSessions     int
	SubjectHours      map[string]float64 // 键为生成时快照的科目名
	SubjectIDs        map[string]string  // 科目名 -> 首见科目 ID（展示用）
	Streak            int
}

// ────────────────────── 统计计算（纯函数） ──────────────────────

// ComputeStatistics 从场次账本派生统计指标，无副作用。
//
//   - totalHours / completedSessions 统计全部已完成场次（含合成场次）；
//   - subjectHours 按快照科目名累计，合成场次不参与归因；
//   - streak 从 now 起按日回溯最多 30 天：把日历日映射到周期日
//     （周期第 0 天 = 周一），该周期日存在已完成场次则连续数 +1，
//     第一个无完成记录的"过去日"终止回溯；"今天"尚无完成记录
//     不终止也不加一（一天未结束不应打断连续记录）。
func ComputeStatistics(sessions []model.StudySession, now time.Time) StudyStatistics {
	stats := StudyStatistics{
		TotalSessions: len(sessions),
		SubjectHours:  make(map[string]float64),
		SubjectIDs:    make(map[string]string),
	}

	completedByDay := make(map[int]bool)
	for i := range sessions {
		sess := &sessions[i]
		if !sess.IsCompleted {
			continue
		}
		stats.CompletedSessions++
		stats.TotalHours += float64(sess.Duration) / 60
		completedByDay[sess.DayIndex] = true

		if sess.IsSentinel() || sess.SubjectName == "" {
			continue
		}
		stats.SubjectHours[sess.SubjectName] += float64(sess.Duration) / 60
		if _, ok := stats.SubjectIDs[sess.SubjectName]; !ok {
			stats.SubjectIDs[sess.SubjectName] = sess.SubjectID
		}
	}

	for offset := 0; offset < streakLookbackDays; offset++ {
		day := now.AddDate(0, 0, -offset)
		dayIndex := int(day.Weekday()+6) % 7 // time.Monday=1 → 周期日 0
		if completedByDay[dayIndex] {
			stats.Streak++
		} else if offset > 0 {
			break
		}
	}

	return stats
}

// ────────────────────── StatsService ──────────────────────

// StatsService 学习统计业务接口
type StatsService interface {
	GetStatistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger, now: time.Now}
}

func (s *statsService) GetStatistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var sessions []model.StudySession
	plan, err := s.repo.Plan.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if plan != nil {
		sessions = plan.Sessions
	}

	stats := ComputeStatistics(sessions, s.now())

	// 科目学时按名称排序，保证响应稳定
	names := make([]string, 0, len(stats.SubjectHours))
	for name := range stats.SubjectHours {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]dto.SubjectHoursEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, dto.SubjectHoursEntry{
			SubjectID:   stats.SubjectIDs[name],
			SubjectName: name,
			Hours:       stats.SubjectHours[name],
		})
	}

	completionRate := 0.0
	if stats.TotalSessions > 0 {
		completionRate = float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100
	}

	return &dto.StatisticsResponse{
		TotalHours:        stats.TotalHours,
		CompletedSessions: stats.CompletedSessions,
		TotalSessions:     stats.TotalSessions,
		CompletionRate:    completionRate,
		StreakDays:        stats.Streak,
		WeeklyGoalHours:   user.WeeklyGoalHours,
		WeeklyGoalMet:     user.WeeklyGoalHours > 0 && stats.TotalHours >= float64(user.WeeklyGoalHours),
		SubjectHours:      entries,
	}, nil
}
