package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yks-planner/backend/internal/model"
	"yks-planner/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPlan       = errors.New("暂无可导出的周计划")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 周计划导出为 Excel (.xlsx) 与 iCalendar (.ics) 两种格式
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - ICS 导出把每个场次放在其周期日的下一次日历出现上（周期第 0 天 = 周一）
type ExportService interface {
	// ExportExcel 导出周计划为 Excel
	ExportExcel(ctx context.Context, userID string) (*bytes.Buffer, string, error)
	// ExportICS 导出周计划为 iCalendar
	ExportICS(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// 周期日展示名（周期第 0 天 = 周一）
var cycleDayNames = [cycleDays]string{
	"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar",
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出周计划为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，行按 (周期日, 开始时间) 排列
//   - 列：| 星期 | 时间 | 科目 | 时长(分钟) | 完成 |
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportExcel(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Haftalık Plan"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 26)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 8)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Haftalık Çalışma Planı — %s", plan.GeneratedAt.Format("2006-01-02")))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"Gün", "Saat", "Ders", "Süre (dk)", "Durum"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行（场次在仓储层已按 day_index + start_time 排序）
	row := 3
	for i := range plan.Sessions {
		sess := &plan.Sessions[i]
		dayName := ""
		if sess.DayIndex >= 0 && sess.DayIndex < cycleDays {
			dayName = cycleDayNames[sess.DayIndex]
		}
		status := "—"
		if sess.IsCompleted {
			status = "✓"
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), dayName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sess.StartTime)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sess.SubjectName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), sess.Duration)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), status)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("haftalik_plan_%s.xlsx", plan.GeneratedAt.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出周计划为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	todayCycleIndex := int(now.Weekday()+6) % 7

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//yks-planner//backend//TR")

	for i := range plan.Sessions {
		sess := &plan.Sessions[i]
		start, ok := nextOccurrence(sess, now, todayCycleIndex)
		if !ok {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@yks-planner", sess.SessionID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Duration(sess.Duration) * time.Minute))
		event.SetSummary(sess.SubjectName)
		if sess.IsSentinel() {
			event.SetDescription("Tekrar / deneme oturumu")
		} else {
			event.SetDescription(fmt.Sprintf("%s çalışma oturumu", sess.SubjectName))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("haftalik_plan_%s.ics", plan.GeneratedAt.Format("20060102"))
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) loadPlan(ctx context.Context, userID string) (*model.StudyPlan, error) {
	plan, err := s.repo.Plan.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExportNoPlan
		}
		s.logger.Error("查询周计划失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(plan.Sessions) == 0 {
		return nil, ErrExportNoPlan
	}
	return plan, nil
}

// nextOccurrence 计算场次周期日的下一次日历出现时刻
func nextOccurrence(sess *model.StudySession, now time.Time, todayCycleIndex int) (time.Time, bool) {
	parts := strings.SplitN(sess.StartTime, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}

	delta := (sess.DayIndex - todayCycleIndex + cycleDays) % cycleDays
	day := now.AddDate(0, 0, delta)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location()), true
}
