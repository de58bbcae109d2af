package model

import "time"

// 哨兵科目 ID：非真实科目的合成场次
const (
	SubjectSentinelReview       = "review"        // 复习/模拟考
	SubjectSentinelExamAnalysis = "exam-analysis" // 真题/错题分析
)

// StudyPlan 周计划表 — 对应 study_plans
// 重新生成时旧计划被归档、场次整体删除（含完成状态），不做增量合并
type StudyPlan struct {
	PlanID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | archived
	Level       int       `gorm:"type:smallint;not null;default:3"               json:"level"`  // 生成时总体水平快照
	GeneratedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"generated_at"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Sessions []StudySession `gorm:"foreignKey:PlanID" json:"sessions,omitempty"`
}

// TableName 指定表名
func (StudyPlan) TableName() string { return "study_plans" }

// StudySession 学习场次表 — 对应 study_sessions
// SessionKey 形如 "{day}-{slot}" / "{day}-review"，仅在所属计划内唯一；
// SubjectName 为生成时的名称快照，科目改名/删除不影响历史归因
type StudySession struct {
	SessionID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	PlanID      string     `gorm:"type:uuid;not null"                             json:"plan_id"`
	SessionKey  string     `gorm:"type:varchar(20);not null"                      json:"session_key"`
	SubjectID   string     `gorm:"type:varchar(64);not null"                      json:"subject_id"` // 科目 UUID 或哨兵
	SubjectName string     `gorm:"type:varchar(100);not null"                     json:"subject_name"`
	StartTime   string     `gorm:"type:varchar(5);not null"                       json:"start_time"` // "HH:MM"
	Duration    int        `gorm:"type:smallint;not null"                         json:"duration"`   // 分钟
	DayIndex    int        `gorm:"type:smallint;not null"                         json:"day_index"`  // 0-6，周期第0天=周一
	IsCompleted bool       `gorm:"not null;default:false"                         json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (StudySession) TableName() string { return "study_sessions" }

// IsSentinel 是否为合成场次（复习/真题分析）
func (s *StudySession) IsSentinel() bool {
	return s.SubjectID == SubjectSentinelReview || s.SubjectID == SubjectSentinelExamAnalysis
}
