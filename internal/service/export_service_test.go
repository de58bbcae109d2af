package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"yks-planner/backend/internal/model"
)

func TestExportExcelContent(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedSubjects(t, repo, user.UserID, "Matematik")

	generatedAt := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	planSvc := newTestPlanService(repo, func() time.Time { return generatedAt })
	plan := regenerateForUser(t, planSvc, repo, user.UserID)

	svc := &exportService{repo: repo, logger: testLogger(), now: time.Now}
	buf, filename, err := svc.ExportExcel(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("期望导出成功，实际错误=%v", err)
	}
	if filename != "haftalik_plan_20250106.xlsx" {
		t.Errorf("期望文件名 haftalik_plan_20250106.xlsx，实际=%s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容不是合法 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Haftalık Plan")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	// 标题行 + 表头 + 每场次一行
	if len(rows) != 2+len(plan.Sessions) {
		t.Errorf("期望 %d 行，实际=%d", 2+len(plan.Sessions), len(rows))
	}
	if rows[1][0] != "Gün" || rows[1][2] != "Ders" {
		t.Errorf("表头不符: %v", rows[1])
	}
	// 首个数据行为周一 09:00
	if rows[2][0] != "Pazartesi" || rows[2][1] != "09:00" {
		t.Errorf("首行期望 Pazartesi 09:00，实际=%v", rows[2][:2])
	}
}

func TestExportICSContent(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	seedSubjects(t, repo, user.UserID, "Matematik", "Fizik")

	generatedAt := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	planSvc := newTestPlanService(repo, func() time.Time { return generatedAt })
	plan := regenerateForUser(t, planSvc, repo, user.UserID)

	svc := &exportService{repo: repo, logger: testLogger(), now: func() time.Time { return generatedAt }}
	buf, filename, err := svc.ExportICS(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("期望导出成功，实际错误=%v", err)
	}
	if filename != "haftalik_plan_20250106.ics" {
		t.Errorf("期望文件名 haftalik_plan_20250106.ics，实际=%s", filename)
	}

	content := buf.String()
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "END:VCALENDAR") {
		t.Error("期望合法 iCalendar 外层结构")
	}
	if got := strings.Count(content, "BEGIN:VEVENT"); got != len(plan.Sessions) {
		t.Errorf("期望 %d 个事件，实际=%d", len(plan.Sessions), got)
	}
	if !strings.Contains(content, "SUMMARY:Matematik") {
		t.Error("期望事件摘要包含科目名")
	}
	if !strings.Contains(content, "@yks-planner") {
		t.Error("期望事件 UID 带 @yks-planner 后缀")
	}
}

func TestExportNoPlan(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)

	svc := &exportService{repo: repo, logger: testLogger(), now: time.Now}
	if _, _, err := svc.ExportExcel(context.Background(), user.UserID); err != ErrExportNoPlan {
		t.Errorf("无计划期望 ErrExportNoPlan，实际=%v", err)
	}
	if _, _, err := svc.ExportICS(context.Background(), user.UserID); err != ErrExportNoPlan {
		t.Errorf("无计划期望 ErrExportNoPlan，实际=%v", err)
	}
}

func TestExportEmptyPlan(t *testing.T) {
	repo := newTestRepo()
	user := seedUser(t, repo, "sayisal", 3, 20)
	repo.Plan.(*mockPlanRepo).active[user.UserID] = &model.StudyPlan{
		PlanID: "plan-empty", UserID: user.UserID, Status: "active",
	}

	svc := &exportService{repo: repo, logger: testLogger(), now: time.Now}
	if _, _, err := svc.ExportExcel(context.Background(), user.UserID); err != ErrExportNoPlan {
		t.Errorf("空计划期望 ErrExportNoPlan，实际=%v", err)
	}
}

func TestNextOccurrence(t *testing.T) {
	// 2025-01-09 为周四 → 周期日 3
	now := time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)
	todayCycleIndex := int(now.Weekday()+6) % 7

	cases := []struct {
		dayIndex int
		wantDay  int // 1 月的日期
	}{
		{dayIndex: 3, wantDay: 9},  // 今天
		{dayIndex: 4, wantDay: 10}, // 明天
		{dayIndex: 0, wantDay: 13}, // 下周一
		{dayIndex: 6, wantDay: 12}, // 周日
	}

	for _, tc := range cases {
		sess := &model.StudySession{DayIndex: tc.dayIndex, StartTime: "10:30"}
		start, ok := nextOccurrence(sess, now, todayCycleIndex)
		if !ok {
			t.Fatalf("周期日 %d 期望解析成功", tc.dayIndex)
		}
		if start.Day() != tc.wantDay || start.Hour() != 10 || start.Minute() != 30 {
			t.Errorf("周期日 %d 期望 1 月 %d 日 10:30，实际=%v", tc.dayIndex, tc.wantDay, start)
		}
	}

	bad := &model.StudySession{DayIndex: 0, StartTime: "bozuk"}
	if _, ok := nextOccurrence(bad, now, todayCycleIndex); ok {
		t.Error("非法时间格式期望解析失败")
	}
}
