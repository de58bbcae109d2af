package dto

// ── 通知模块 ──

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	IsRead      bool    `json:"is_read"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ListNotificationsRequest 通知列表查询
type ListNotificationsRequest struct {
	PaginationRequest
	OnlyUnread bool `form:"only_unread" json:"only_unread"`
}
