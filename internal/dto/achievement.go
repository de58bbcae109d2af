package dto

// ── 成就模块响应 ──

// AchievementResponse 单条成就状态（目录定义 + 用户进度）
type AchievementResponse struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Category    string  `json:"category"`
	Tier        string  `json:"tier"`
	Points      int     `json:"points"`
	Progress    float64 `json:"progress"` // 0~100
	Unlocked    bool    `json:"unlocked"`
	UnlockedAt  *string `json:"unlocked_at,omitempty"`
}

// AchievementListResponse 成就列表 + 等级汇总
type AchievementListResponse struct {
	Achievements      []AchievementResponse `json:"achievements"`
	TotalPoints       int                   `json:"total_points"`
	Level             int                   `json:"level"`
	PointsToNextLevel int                   `json:"points_to_next_level"`
	UnlockedCount     int                   `json:"unlocked_count"`
}

// EvaluateResponse 成就评估结果（本次新解锁）
type EvaluateResponse struct {
	NewlyUnlocked []AchievementResponse `json:"newly_unlocked"`
	TotalPoints   int                   `json:"total_points"`
	Level         int                   `json:"level"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
}
