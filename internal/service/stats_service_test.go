package service

import (
	"context"
	"testing"
	"time"

	"yks-planner/backend/internal/model"
)

// completedSession 构造已完成场次测试数据
func completedSession(dayIndex, duration int, subjectID, subjectName string) model.StudySession {
	ts := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	return model.StudySession{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		StartTime:   "09:00",
		Duration:    duration,
		DayIndex:    dayIndex,
		IsCompleted: true,
		CompletedAt: &ts,
	}
}

func pendingSession(dayIndex, duration int, subjectID, subjectName string) model.StudySession {
	return model.StudySession{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		StartTime:   "09:00",
		Duration:    duration,
		DayIndex:    dayIndex,
	}
}

// ═══════════════════════════ ComputeStatistics ═══════════════════════════

func TestComputeStatisticsTotals(t *testing.T) {
	sessions := []model.StudySession{
		completedSession(0, 90, "subj-1", "Matematik"),
		completedSession(0, 90, "subj-2", "Fizik"),
		completedSession(1, 90, "subj-1", "Matematik"),
		pendingSession(1, 90, "subj-2", "Fizik"),
	}

	now := time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC)
	stats := ComputeStatistics(sessions, now)

	if stats.TotalHours != 4.5 {
		t.Errorf("期望总学时 4.5，实际=%v", stats.TotalHours)
	}
	if stats.CompletedSessions != 3 {
		t.Errorf("期望完成场次 3，实际=%d", stats.CompletedSessions)
	}
	if stats.TotalSessions != 4 {
		t.Errorf("期望总场次 4，实际=%d", stats.TotalSessions)
	}
	if stats.SubjectHours["Matematik"] != 3.0 {
		t.Errorf("期望 Matematik 3 学时，实际=%v", stats.SubjectHours["Matematik"])
	}
	if stats.SubjectHours["Fizik"] != 1.5 {
		t.Errorf("期望 Fizik 1.5 学时，实际=%v", stats.SubjectHours["Fizik"])
	}
}

func TestComputeStatisticsSentinelAttribution(t *testing.T) {
	sessions := []model.StudySession{
		completedSession(6, 120, model.SubjectSentinelReview, "Genel Tekrar"),
		completedSession(0, 90, model.SubjectSentinelExamAnalysis, "AYT Deneme Analizi"),
		completedSession(0, 90, "subj-1", "Matematik"),
	}

	stats := ComputeStatistics(sessions, time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC))

	// 合成场次计入总学时但不参与科目归因
	if stats.TotalHours != 5.0 {
		t.Errorf("期望总学时 5.0（含合成场次），实际=%v", stats.TotalHours)
	}
	if len(stats.SubjectHours) != 1 {
		t.Errorf("期望科目学时只含真实科目，实际=%v", stats.SubjectHours)
	}
	if stats.SubjectHours["Matematik"] != 1.5 {
		t.Errorf("期望 Matematik 1.5 学时，实际=%v", stats.SubjectHours["Matematik"])
	}
}

func TestComputeStatisticsStreak(t *testing.T) {
	// 2025-01-09 为周四 → 周期日 3；周期日 1、2、3 有完成记录，0 没有
	now := time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC)
	sessions := []model.StudySession{
		completedSession(3, 90, "subj-1", "Matematik"),
		completedSession(2, 90, "subj-1", "Matematik"),
		completedSession(1, 90, "subj-1", "Matematik"),
		pendingSession(0, 90, "subj-1", "Matematik"),
	}

	stats := ComputeStatistics(sessions, now)
	if stats.Streak != 3 {
		t.Errorf("期望连续 3 天，实际=%d", stats.Streak)
	}
}

func TestComputeStatisticsStreakTodayAsymmetry(t *testing.T) {
	// 今天（偏移 0）无完成记录不终止回溯：昨天、前天有记录仍计 2 天
	now := time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC) // 周四 → 周期日 3
	sessions := []model.StudySession{
		completedSession(2, 90, "subj-1", "Matematik"),
		completedSession(1, 90, "subj-1", "Matematik"),
	}

	stats := ComputeStatistics(sessions, now)
	if stats.Streak != 2 {
		t.Errorf("今天未打卡期望连续 2 天，实际=%d", stats.Streak)
	}
}

func TestComputeStatisticsStreakBreaks(t *testing.T) {
	// 昨天（偏移 1）无完成记录：即便更早有记录也终止
	now := time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC) // 周四 → 周期日 3
	sessions := []model.StudySession{
		completedSession(3, 90, "subj-1", "Matematik"),
		completedSession(1, 90, "subj-1", "Matematik"),
	}

	stats := ComputeStatistics(sessions, now)
	if stats.Streak != 1 {
		t.Errorf("昨天缺口期望连续 1 天，实际=%d", stats.Streak)
	}
}

func TestComputeStatisticsStreakSaturates(t *testing.T) {
	// 每个周期日都有完成记录时，回溯在 30 天上限饱和
	sessions := make([]model.StudySession, 0, 7)
	for day := 0; day < 7; day++ {
		sessions = append(sessions, completedSession(day, 90, "subj-1", "Matematik"))
	}

	stats := ComputeStatistics(sessions, time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC))
	if stats.Streak != streakLookbackDays {
		t.Errorf("期望连续天数饱和在 %d，实际=%d", streakLookbackDays, stats.Streak)
	}
}

func TestComputeStatisticsEmptySessions(t *testing.T) {
	stats := ComputeStatistics(nil, time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC))

	if stats.TotalHours != 0 || stats.CompletedSessions != 0 || stats.TotalSessions != 0 {
		t.Errorf("空账本期望全零，实际=%+v", stats)
	}
	if stats.Streak != 0 {
		t.Errorf("空账本期望连续 0 天，实际=%d", stats.Streak)
	}
}

func TestComputeStatisticsMonotonic(t *testing.T) {
	now := time.Date(2025, 1, 9, 20, 0, 0, 0, time.UTC)
	sessions := []model.StudySession{
		completedSession(0, 90, "subj-1", "Matematik"),
		pendingSession(1, 90, "subj-1", "Matematik"),
	}

	before := ComputeStatistics(sessions, now)

	ts := now
	sessions[1].IsCompleted = true
	sessions[1].CompletedAt = &ts
	after := ComputeStatistics(sessions, now)

	if after.TotalHours < before.TotalHours {
		t.Errorf("追加完成后总学时不应下降：%v → %v", before.TotalHours, after.TotalHours)
	}
	if after.CompletedSessions < before.CompletedSessions {
		t.Errorf("追加完成后完成数不应下降：%d → %d", before.CompletedSessions, after.CompletedSessions)
	}
}

// ═══════════════════════════ GetStatistics ═══════════════════════════

func TestGetStatisticsResponse(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 4)
	seedSubjects(t, repo, user.UserID, "Matematik", "Fizik")

	now := time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC) // 周一 → 周期日 0
	planSvc := newTestPlanService(repo, func() time.Time { return now })
	plan := regenerateForUser(t, planSvc, repo, user.UserID)

	// 完成第 0 天前 3 个场次（周一 4.5 学时，越过 4 小时周目标）
	for i := 0; i < 3; i++ {
		if _, err := planSvc.CompleteSession(context.Background(), user.UserID, plan.Sessions[i].SessionID, 0); err != nil {
			t.Fatalf("完成场次失败: %v", err)
		}
	}

	svc := &statsService{repo: repo, logger: testLogger(), now: func() time.Time { return now }}
	resp, err := svc.GetStatistics(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("期望查询成功，实际错误=%v", err)
	}

	if resp.TotalHours != 4.5 {
		t.Errorf("期望总学时 4.5，实际=%v", resp.TotalHours)
	}
	if resp.CompletedSessions != 3 || resp.TotalSessions != 25 {
		t.Errorf("期望 3/25 场次，实际=%d/%d", resp.CompletedSessions, resp.TotalSessions)
	}
	if resp.CompletionRate != float64(3)/25*100 {
		t.Errorf("期望完成率 12%%，实际=%v", resp.CompletionRate)
	}
	if resp.StreakDays != 1 {
		t.Errorf("今日有完成记录期望连续 1 天，实际=%d", resp.StreakDays)
	}
	if !resp.WeeklyGoalMet {
		t.Error("4.5 学时 ≥ 4 小时目标，期望 WeeklyGoalMet=true")
	}

	// 科目条目按名称排序
	for i := 1; i < len(resp.SubjectHours); i++ {
		if resp.SubjectHours[i-1].SubjectName > resp.SubjectHours[i].SubjectName {
			t.Errorf("期望科目学时按名称排序，实际顺序=%v", resp.SubjectHours)
		}
	}
}

func TestGetStatisticsNoPlan(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)

	svc := &statsService{repo: repo, logger: testLogger(), now: time.Now}
	resp, err := svc.GetStatistics(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("无计划期望返回零值统计，实际错误=%v", err)
	}
	if resp.TotalSessions != 0 || resp.TotalHours != 0 || resp.StreakDays != 0 {
		t.Errorf("无计划期望全零统计，实际=%+v", resp)
	}
	if resp.WeeklyGoalMet {
		t.Error("零学时不应满足周目标")
	}
}

func TestGetStatisticsUserNotFound(t *testing.T) {
	repo := newTestRepo()
	svc := &statsService{repo: repo, logger: testLogger(), now: time.Now}

	if _, err := svc.GetStatistics(context.Background(), "ghost"); err != ErrUserNotFound {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}
