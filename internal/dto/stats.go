package dto

// ── 统计模块响应 ──

// SubjectHoursEntry 单科目学时统计
type SubjectHoursEntry struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	Hours       float64 `json:"hours"`
}

// StatisticsResponse 学习统计响应
type StatisticsResponse struct {
	TotalHours        float64             `json:"total_hours"`
	CompletedSessions int                 `json:"completed_sessions"`
	TotalSessions     int                 `json:"total_sessions"`
	CompletionRate    float64             `json:"completion_rate"` // 0~100
	StreakDays        int                 `json:"streak_days"`
	WeeklyGoalHours   int                 `json:"weekly_goal_hours"`
	WeeklyGoalMet     bool                `json:"weekly_goal_met"`
	SubjectHours      []SubjectHoursEntry `json:"subject_hours"`
}
