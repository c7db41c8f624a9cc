package dto

// ── 监考分配模块 DTO ──

// AssignmentListRequest 我的监考分配查询参数
type AssignmentListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=pending accepted rejected"`
}

// AssignmentResponse 监考分配
type AssignmentResponse struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Exam        *ExamBrief `json:"exam,omitempty"`
	ExamID      string     `json:"exam_id"`
	RespondedAt string     `json:"responded_at,omitempty"`
}

// NotificationResponse 通知
type NotificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`
	RelatedType string `json:"related_type,omitempty"`
	RelatedID   string `json:"related_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}
