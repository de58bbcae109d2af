package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/achievement"
	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

// AchievementService 成就业务接口
type AchievementService interface {
	List(ctx context.Context, userID string) (*dto.AchievementListResponse, error)
	// Evaluate 对照目录评估当前统计，返回本次新解锁的成就。
	// 已解锁的成就单调保持，不重复评估。
	Evaluate(ctx context.Context, userID string) (*dto.EvaluateResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type achievementService struct {
	repo    *repository.Repository
	catalog *achievement.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewAchievementService 创建 AchievementService 实例。
// 目录由调用方构造并注入，进程内只有一份，但不是隐式全局。
func NewAchievementService(repo *repository.Repository, catalog *achievement.Catalog, logger *zap.Logger) AchievementService {
	return &achievementService{repo: repo, catalog: catalog, logger: logger, now: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *achievementService) List(ctx context.Context, userID string) (*dto.AchievementListResponse, error) {
	states, err := s.loadStates(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AchievementListResponse{
		Achievements: make([]dto.AchievementResponse, 0, s.catalog.Len()),
	}

	for _, def := range s.catalog.All() {
		item := toAchievementResponse(def, states[def.Key])
		if item.Unlocked {
			resp.TotalPoints += def.Points
			resp.UnlockedCount++
		}
		resp.Achievements = append(resp.Achievements, item)
	}

	resp.Level = achievement.LevelForPoints(resp.TotalPoints)
	resp.PointsToNextLevel = achievement.PointsToNextLevel(resp.TotalPoints)
	return resp, nil
}

// ────────────────────── Evaluate ──────────────────────

func (s *achievementService) Evaluate(ctx context.Context, userID string) (*dto.EvaluateResponse, error) {
	var sessions []model.StudySession
	plan, err := s.repo.Plan.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if plan != nil {
		sessions = plan.Sessions
	}

	now := s.now()
	stats := ComputeStatistics(sessions, now)

	counters, err := s.repo.Achievement.GetOrCreateCounters(ctx, userID)
	if err != nil {
		s.logger.Error("查询辅助计数器失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	states, err := s.loadStates(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EvaluateResponse{NewlyUnlocked: []dto.AchievementResponse{}}
	totalPoints := 0

	for _, def := range s.catalog.All() {
		state := states[def.Key]
		if state != nil && state.Unlocked {
			totalPoints += def.Points
			continue
		}

		observed := metricValue(def.Requirement.Metric, stats, counters)
		progress := observed
		if progress > def.Requirement.Target {
			progress = def.Requirement.Target
		}

		ua := &model.UserAchievement{
			UserID:         userID,
			AchievementKey: def.Key,
			Progress:       progress,
			UpdatedAt:      now,
		}

		if observed >= def.Requirement.Target {
			ua.Unlocked = true
			unlockedAt := now
			ua.UnlockedAt = &unlockedAt
			totalPoints += def.Points
			resp.NewlyUnlocked = append(resp.NewlyUnlocked, toAchievementResponse(def, ua))
			s.notifyUnlock(ctx, userID, def)
		} else if state != nil && state.Progress == progress {
			// 进度无变化则跳过落库
			continue
		}

		if err := s.repo.Achievement.Upsert(ctx, ua); err != nil {
			s.logger.Error("写入成就状态失败",
				zap.String("user_id", userID),
				zap.String("key", def.Key),
				zap.Error(err))
			return nil, err
		}
	}

	resp.TotalPoints = totalPoints
	resp.Level = achievement.LevelForPoints(totalPoints)

	if len(resp.NewlyUnlocked) > 0 {
		s.logger.Info("新成就解锁",
			zap.String("user_id", userID),
			zap.Int("count", len(resp.NewlyUnlocked)))
	}

	return resp, nil
}

// ────────────────────── Leaderboard ──────────────────────

// Leaderboard 按成就总积分降序排名。
// 并列名次按首次出现顺序保持稳定（排序前的输入顺序即为并列时的先后）。
func (s *achievementService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	unlocked, err := s.repo.Achievement.ListUnlocked(ctx)
	if err != nil {
		s.logger.Error("查询解锁记录失败", zap.Error(err))
		return nil, err
	}

	pointsByUser := make(map[string]int)
	order := make([]string, 0)
	for i := range unlocked {
		def, ok := s.catalog.Get(unlocked[i].AchievementKey)
		if !ok {
			continue // 历史遗留 key，目录中已不存在
		}
		if _, seen := pointsByUser[unlocked[i].UserID]; !seen {
			order = append(order, unlocked[i].UserID)
		}
		pointsByUser[unlocked[i].UserID] += def.Points
	}

	users, err := s.repo.User.ListByIDs(ctx, order)
	if err != nil {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	nameByID := make(map[string]string, len(users))
	for i := range users {
		nameByID[users[i].UserID] = users[i].Name
	}

	entries := make([]dto.LeaderboardEntry, 0, len(order))
	for _, userID := range order {
		points := pointsByUser[userID]
		entries = append(entries, dto.LeaderboardEntry{
			UserID: userID,
			Name:   nameByID[userID],
			Points: points,
			Level:  achievement.LevelForPoints(points),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// ── 内部辅助方法 ──

// loadStates 加载用户的成就状态，键为成就 key
func (s *achievementService) loadStates(ctx context.Context, userID string) (map[string]*model.UserAchievement, error) {
	list, err := s.repo.Achievement.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询成就状态失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	states := make(map[string]*model.UserAchievement, len(list))
	for i := range list {
		states[list[i].AchievementKey] = &list[i]
	}
	return states, nil
}

// metricValue 把需求指标解析为统计/计数器中的标量
func metricValue(metric string, stats StudyStatistics, counters *model.UserCounters) float64 {
	switch metric {
	case achievement.MetricStudyHours:
		return stats.TotalHours
	case achievement.MetricStreakDays:
		return float64(stats.Streak)
	case achievement.MetricTasksCompleted:
		return float64(stats.CompletedSessions)
	case achievement.MetricPerfectWeek:
		return float64(counters.PerfectWeeks)
	case achievement.MetricEarlyRiser:
		return float64(counters.EarlySessions)
	case achievement.MetricNightOwl:
		return float64(counters.LateSessions)
	case achievement.MetricSpeedLearner:
		return float64(counters.FastCompletions)
	case achievement.MetricConsistency:
		return float64(counters.WeeklyGoalHits)
	default:
		return 0
	}
}

// notifyUnlock 解锁时写入祝贺通知，失败只记日志不阻断评估
func (s *achievementService) notifyUnlock(ctx context.Context, userID string, def achievement.Definition) {
	relatedType := "achievement"
	relatedID := def.Key
	notification := &model.Notification{
		UserID:      userID,
		Type:        "achievement_unlocked",
		Title:       "🎉 Yeni Başarı!",
		Content:     fmt.Sprintf("%s %s başarısını kazandın! +%d puan", def.Icon, def.Title, def.Points),
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("写入成就通知失败",
			zap.String("user_id", userID),
			zap.String("key", def.Key),
			zap.Error(err))
	}
}

// toAchievementResponse 合并目录定义与用户状态
func toAchievementResponse(def achievement.Definition, state *model.UserAchievement) dto.AchievementResponse {
	item := dto.AchievementResponse{
		Key:         def.Key,
		Title:       def.Title,
		Description: def.Description,
		Icon:        def.Icon,
		Category:    def.Category,
		Tier:        def.Tier,
		Points:      def.Points,
	}
	if state == nil {
		return item
	}

	item.Unlocked = state.Unlocked
	if def.Requirement.Target > 0 {
		item.Progress = state.Progress / def.Requirement.Target * 100
		if item.Progress > 100 {
			item.Progress = 100
		}
	}
	if state.UnlockedAt != nil {
		ts := state.UnlockedAt.Format(time.RFC3339)
		item.UnlockedAt = &ts
	}
	return item
}
