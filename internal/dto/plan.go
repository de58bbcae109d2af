package dto

// ── 计划模块请求 ──

// CompleteSessionRequest 完成会话请求
// actual_minutes 为实际用时（分钟），用于快速完成统计；0 表示未上报
type CompleteSessionRequest struct {
	ActualMinutes int `json:"actual_minutes" binding:"omitempty,min=0,max=600"`
}

// ── 计划模块响应 ──

// SessionResponse 学习会话响应
type SessionResponse struct {
	ID          string  `json:"id"`
	SessionKey  string  `json:"session_key"`
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	StartTime   string  `json:"start_time"` // HH:MM
	Duration    int     `json:"duration"`   // 分钟
	DayIndex    int     `json:"day_index"`  // 0=周一 … 6=周日
	IsCompleted bool    `json:"is_completed"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

// PlanResponse 周计划响应，会话按 day_index 分组
type PlanResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Level       int                 `json:"level"`
	GeneratedAt string              `json:"generated_at"`
	Days        [][]SessionResponse `json:"days"` // 长度固定为 7
}
