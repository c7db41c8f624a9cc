package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ── 错误类别 ──
// 业务层的具体错误通过 %w 包装以下类别，Handler 据此映射 HTTP 状态码。

var (
	// ErrNotFound 引用的人员、考试、监考分配或换班申请不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrNotEligible 监考分配未处于已接受状态，或操作者不具备所需角色
	ErrNotEligible = errors.New("不满足操作条件")
	// ErrUnauthorized 调用者不是有权操作该申请的当事人
	ErrUnauthorized = errors.New("无权操作")
	// ErrAlreadyProcessed 申请在原子校验时已不处于待处理状态
	ErrAlreadyProcessed = errors.New("申请已被处理")
	// ErrAssignmentNotAcceptable 执行换班时一方或双方的监考分配未处于已接受状态
	ErrAssignmentNotAcceptable = errors.New("监考分配不可用于换班")
	// ErrValidation 请求参数不合法
	ErrValidation = errors.New("参数不合法")
)
