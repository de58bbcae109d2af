package dto

// UpdateProfileRequest 更新档案请求
// track/level 变更会触发周计划重新生成（全量替换）
type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=100"`
	Track           *string `json:"track" binding:"omitempty,oneof=sayisal ea sozel dil"`
	Level           *int    `json:"level" binding:"omitempty,min=1,max=5"`
	WeeklyGoalHours *int    `json:"weekly_goal_hours" binding:"omitempty,min=1,max=80"`
}
