package service

import (
	"context"
	"testing"
	"time"

	"yks-planner/backend/internal/achievement"
	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

func newTestAchievementService(repo *repository.Repository, nowFn func() time.Time) *achievementService {
	return &achievementService{
		repo:    repo,
		catalog: achievement.NewCatalog(),
		logger:  testLogger(),
		now:     nowFn,
	}
}

// seedPlanSessions 直接放置活跃计划，绕过生成流程
func seedPlanSessions(repo *repository.Repository, userID string, sessions []model.StudySession) {
	planRepo := repo.Plan.(*mockPlanRepo)
	planRepo.active[userID] = &model.StudyPlan{
		PlanID:   "plan-test",
		UserID:   userID,
		Status:   "active",
		Sessions: sessions,
	}
}

// ═══════════════════════════ Evaluate ═══════════════════════════

func TestEvaluateUnlocksFirstHour(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 60, "subj-1", "Matematik"),
	})

	now := time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC)
	svc := newTestAchievementService(repo, func() time.Time { return now })

	resp, err := svc.Evaluate(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("期望评估成功，实际错误=%v", err)
	}

	found := false
	for _, item := range resp.NewlyUnlocked {
		if item.Key == "first_hour" {
			found = true
			if !item.Unlocked || item.UnlockedAt == nil {
				t.Error("期望 first_hour 带解锁标记和时间")
			}
		}
	}
	if !found {
		t.Fatalf("1 学时期望解锁 first_hour，实际新解锁=%v", resp.NewlyUnlocked)
	}

	// 解锁应写入祝贺通知
	notifRepo := repo.Notification.(*mockNotificationRepo)
	if len(notifRepo.notifications) == 0 || notifRepo.notifications[0].Type != "achievement_unlocked" {
		t.Error("期望写入 achievement_unlocked 通知")
	}
}

func TestEvaluateUnlocksOnlyOnce(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 60, "subj-1", "Matematik"),
	})

	svc := newTestAchievementService(repo, time.Now)
	first, err := svc.Evaluate(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("首次评估失败: %v", err)
	}
	if len(first.NewlyUnlocked) != 1 {
		t.Fatalf("期望首次评估解锁 1 项，实际=%d", len(first.NewlyUnlocked))
	}

	// 学时继续增长，已解锁成就不再重复出现在新解锁批次
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 60, "subj-1", "Matematik"),
		completedSession(1, 60, "subj-1", "Matematik"),
	})
	second, err := svc.Evaluate(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("二次评估失败: %v", err)
	}
	if len(second.NewlyUnlocked) != 0 {
		t.Errorf("期望二次评估无新解锁，实际=%v", second.NewlyUnlocked)
	}
	if second.TotalPoints != first.TotalPoints {
		t.Errorf("积分应保持 %d，实际=%d", first.TotalPoints, second.TotalPoints)
	}
}

func TestEvaluateUnlockedStateMonotonic(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 60, "subj-1", "Matematik"),
	})

	svc := newTestAchievementService(repo, time.Now)
	if _, err := svc.Evaluate(context.Background(), user.UserID); err != nil {
		t.Fatalf("首次评估失败: %v", err)
	}

	// 场次账本被重新生成清空后再评估：已解锁状态不回退
	seedPlanSessions(repo, user.UserID, nil)
	if _, err := svc.Evaluate(context.Background(), user.UserID); err != nil {
		t.Fatalf("二次评估失败: %v", err)
	}

	states, _ := repo.Achievement.ListByUser(context.Background(), user.UserID)
	for _, st := range states {
		if st.AchievementKey == "first_hour" && !st.Unlocked {
			t.Error("账本清空后 first_hour 解锁状态不应回退")
		}
	}
}

func TestEvaluateProgressClamped(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	// 0.5 学时：first_hour 进度 0.5/1
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 30, "subj-1", "Matematik"),
	})

	svc := newTestAchievementService(repo, time.Now)
	resp, err := svc.Evaluate(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(resp.NewlyUnlocked) != 0 {
		t.Fatalf("0.5 学时不应解锁，实际=%v", resp.NewlyUnlocked)
	}

	states, _ := repo.Achievement.ListByUser(context.Background(), user.UserID)
	for _, st := range states {
		if st.AchievementKey == "first_hour" {
			if st.Progress != 0.5 {
				t.Errorf("期望 first_hour 进度 0.5，实际=%v", st.Progress)
			}
			if st.Unlocked {
				t.Error("未达标不应解锁")
			}
		}
	}
}

func TestEvaluateCounterMetrics(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)

	counters, _ := repo.Achievement.GetOrCreateCounters(context.Background(), user.UserID)
	counters.PerfectWeeks = 1
	if err := repo.Achievement.SaveCounters(context.Background(), counters); err != nil {
		t.Fatalf("写入计数器失败: %v", err)
	}

	svc := newTestAchievementService(repo, time.Now)
	resp, err := svc.Evaluate(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	found := false
	for _, item := range resp.NewlyUnlocked {
		if item.Key == "perfect_week" {
			found = true
		}
	}
	if !found {
		t.Errorf("完美一周计数 1 期望解锁 perfect_week，实际=%v", resp.NewlyUnlocked)
	}
}

// ═══════════════════════════ List ═══════════════════════════

func TestListMergesCatalogAndState(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedPlanSessions(repo, user.UserID, []model.StudySession{
		completedSession(0, 60, "subj-1", "Matematik"),
	})

	svc := newTestAchievementService(repo, time.Now)
	if _, err := svc.Evaluate(context.Background(), user.UserID); err != nil {
		t.Fatalf("评估失败: %v", err)
	}

	resp, err := svc.List(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("期望查询成功，实际错误=%v", err)
	}

	// 目录全量返回，未解锁项也在列
	if len(resp.Achievements) != achievement.NewCatalog().Len() {
		t.Errorf("期望返回目录全部 %d 项，实际=%d", achievement.NewCatalog().Len(), len(resp.Achievements))
	}
	if resp.UnlockedCount != 1 {
		t.Errorf("期望解锁 1 项，实际=%d", resp.UnlockedCount)
	}
	if resp.TotalPoints != 10 {
		t.Errorf("first_hour 期望 10 积分，实际=%d", resp.TotalPoints)
	}
	if resp.Level != 1 {
		t.Errorf("10 积分期望等级 1，实际=%d", resp.Level)
	}
	if resp.PointsToNextLevel != 90 {
		t.Errorf("10 积分期望距下一级 90，实际=%d", resp.PointsToNextLevel)
	}
}

// ═══════════════════════════ Leaderboard ═══════════════════════════

func unlockFor(t *testing.T, repo *repository.Repository, userID string, keys ...string) {
	t.Helper()
	now := time.Now()
	for _, key := range keys {
		ua := &model.UserAchievement{
			UserID:         userID,
			AchievementKey: key,
			Unlocked:       true,
			UnlockedAt:     &now,
			UpdatedAt:      now,
		}
		if err := repo.Achievement.Upsert(context.Background(), ua); err != nil {
			t.Fatalf("写入解锁记录失败: %v", err)
		}
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	repo := newTestRepo()
	userRepo := repo.User.(*mockUserRepo)
	for _, name := range []string{"Ayşe", "Mehmet", "Zeynep"} {
		u := &model.User{Name: name, Email: name + "@test.local"}
		_ = userRepo.Create(context.Background(), u)
	}

	// 写入顺序：user-1(10 分) → user-2(60 分) → user-3(10 分)
	unlockFor(t, repo, "user-1", "first_hour")
	unlockFor(t, repo, "user-2", "first_hour", "week_warrior")
	unlockFor(t, repo, "user-3", "first_hour")

	svc := newTestAchievementService(repo, time.Now)
	entries, err := svc.Leaderboard(context.Background(), 20)
	if err != nil {
		t.Fatalf("期望查询成功，实际错误=%v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("期望 3 条排名，实际=%d", len(entries))
	}
	// 降序；并列按首次出现顺序稳定
	if entries[0].UserID != "user-2" || entries[0].Points != 60 {
		t.Errorf("期望榜首 user-2/60 分，实际=%s/%d", entries[0].UserID, entries[0].Points)
	}
	if entries[1].UserID != "user-1" || entries[2].UserID != "user-3" {
		t.Errorf("并列 10 分期望保持 user-1、user-3 顺序，实际=%s、%s",
			entries[1].UserID, entries[2].UserID)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("第 %d 条期望名次 %d，实际=%d", i, i+1, e.Rank)
		}
	}
	if entries[0].Name != "Mehmet" {
		t.Errorf("期望榜首姓名 Mehmet，实际=%s", entries[0].Name)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	repo := newTestRepo()
	userRepo := repo.User.(*mockUserRepo)
	for _, name := range []string{"A", "B", "C"} {
		_ = userRepo.Create(context.Background(), &model.User{Name: name, Email: name + "@test.local"})
	}
	unlockFor(t, repo, "user-1", "first_hour")
	unlockFor(t, repo, "user-2", "first_hour")
	unlockFor(t, repo, "user-3", "first_hour")

	svc := newTestAchievementService(repo, time.Now)
	entries, err := svc.Leaderboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("期望查询成功，实际错误=%v", err)
	}
	if len(entries) != 2 {
		t.Errorf("限制 2 条期望截断，实际=%d", len(entries))
	}
}

func TestLeaderboardIgnoresUnknownKeys(t *testing.T) {
	repo := newTestRepo()
	_ = repo.User.(*mockUserRepo).Create(context.Background(), &model.User{Name: "A", Email: "a@test.local"})
	unlockFor(t, repo, "user-1", "first_hour", "legacy_removed_key")

	svc := newTestAchievementService(repo, time.Now)
	entries, err := svc.Leaderboard(context.Background(), 20)
	if err != nil {
		t.Fatalf("期望查询成功，实际错误=%v", err)
	}
	if len(entries) != 1 || entries[0].Points != 10 {
		t.Errorf("历史遗留 key 应被忽略，期望 10 分，实际=%v", entries)
	}
}
