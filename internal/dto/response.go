package dto

// ── 通用分页 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// GetPage 返回页码（默认 1）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 返回页大小（默认 20，上限 100）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// GetOffset 返回偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Track           string `json:"track"`
	Level           int    `json:"level"`
	WeeklyGoalHours int    `json:"weekly_goal_hours"`
}

// UserDetailResponse 用户详细信息（GET /auth/me）
type UserDetailResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Track           string `json:"track"`
	Level           int    `json:"level"`
	WeeklyGoalHours int    `json:"weekly_goal_hours"`
	CreatedAt       string `json:"created_at"`
}
