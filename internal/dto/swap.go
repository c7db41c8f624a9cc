package dto

// ── 换班模块 DTO ──

// CreatePersonalSwapRequest 发起定向换班申请
type CreatePersonalSwapRequest struct {
	Target         string `json:"target"          binding:"required,max=255"` // 对方用户ID或邮箱
	ExamID         string `json:"exam_id"         binding:"required,uuid"`
	AvailableFrom  string `json:"available_from"  binding:"required,datetime=2006-01-02"`
	AvailableUntil string `json:"available_until" binding:"required,datetime=2006-01-02"`
	Reason         string `json:"reason"          binding:"omitempty,max=500"`
}

// CreateForumSwapRequest 在换班论坛发帖
type CreateForumSwapRequest struct {
	ExamID         string `json:"exam_id"         binding:"required,uuid"`
	AvailableFrom  string `json:"available_from"  binding:"required,datetime=2006-01-02"`
	AvailableUntil string `json:"available_until" binding:"required,datetime=2006-01-02"`
	Reason         string `json:"reason"          binding:"omitempty,max=500"`
}

// RespondSwapRequest 响应换班申请：拿出自己的一场已接受监考作为交换
type RespondSwapRequest struct {
	ExamID string `json:"exam_id" binding:"required,uuid"`
}

// SwapRequestResponse 换班申请详情
type SwapRequestResponse struct {
	ID             string     `json:"id"`
	Status         string     `json:"status"`
	IsForumPost    bool       `json:"is_forum_post"`
	Requester      *UserBrief `json:"requester,omitempty"`
	RequesterID    string     `json:"requester_id"`
	TargetUserID   string     `json:"target_user_id,omitempty"`
	TargetUser     *UserBrief `json:"target_user,omitempty"`
	Exam           *ExamBrief `json:"exam,omitempty"`
	ExamID         string     `json:"exam_id"`
	RespondentExam *ExamBrief `json:"respondent_exam,omitempty"`
	AvailableFrom  string     `json:"available_from"`
	AvailableUntil string     `json:"available_until"`
	Reason         string     `json:"reason,omitempty"`
	ResolvedAt     string     `json:"resolved_at,omitempty"`
	CreatedAt      string     `json:"created_at"`
}

// WorkloadResponse 工作量台账
type WorkloadResponse struct {
	UserID               string `json:"user_id"`
	Department           string `json:"department"`
	TotalAssignedMinutes int    `json:"total_assigned_minutes"`
	InDeptHours          int    `json:"in_dept_hours"`
	OutDeptHours         int    `json:"out_dept_hours"`
}

// SwapResultResponse 换班成功结果：申请终态与双方台账
type SwapResultResponse struct {
	Request    SwapRequestResponse `json:"request"`
	Requester  WorkloadResponse    `json:"requester"`
	Respondent WorkloadResponse    `json:"respondent"`
}
