package dto

// ── 科目模块请求 ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Level int    `json:"level" binding:"required,min=1,max=5"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Level    *int    `json:"level" binding:"omitempty,min=1,max=5"`
	Color    *string `json:"color" binding:"omitempty,max=20"`
	IsActive *bool   `json:"is_active"`
}

// ── 科目模块响应 ──

// SubjectResponse 科目响应
type SubjectResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Color    string `json:"color"`
	IsActive bool   `json:"is_active"`
}
