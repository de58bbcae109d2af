package model

import "time"

// UserAchievement 用户成就解锁状态表 — 对应 user_achievements
// unlocked 单调：一旦为 true 不再回退；progress 仅作展示用途
type UserAchievement struct {
	UserID         string     `gorm:"type:uuid;primaryKey"               json:"user_id"`
	AchievementKey string     `gorm:"type:varchar(50);primaryKey"        json:"achievement_key"`
	Progress       float64    `gorm:"not null;default:0"                 json:"progress"`
	Unlocked       bool       `gorm:"not null;default:false"             json:"unlocked"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (UserAchievement) TableName() string { return "user_achievements" }

// UserCounters 辅助计数器表 — 对应 user_counters（与 users 1:1）
// 由完成打卡流程维护，供成就引擎消费
type UserCounters struct {
	UserID          string    `gorm:"type:uuid;primaryKey"               json:"user_id"`
	PerfectWeeks    int       `gorm:"not null;default:0"                 json:"perfect_weeks"`
	EarlySessions   int       `gorm:"not null;default:0"                 json:"early_sessions"`
	LateSessions    int       `gorm:"not null;default:0"                 json:"late_sessions"`
	FastCompletions int       `gorm:"not null;default:0"                 json:"fast_completions"`
	WeeklyGoalHits  int       `gorm:"not null;default:0"                 json:"weekly_goal_hits"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (UserCounters) TableName() string { return "user_counters" }
