package service

import "github.com/Gall-ardo/ProctorHub-sub002/internal/model"

// ── 工作量台账 ──
// 台账按场累加：每场监考的小时数单独向上取整后计入本系/外系桶，
// 因此 in+out 不保证等于 ceil(总分钟/60)。

// proctorHours 单场监考折算小时数（向上取整）
func proctorHours(minutes int) int {
	return (minutes + 59) / 60
}

// ledgerRelease 从台账中扣除一场监考
func ledgerRelease(u *model.User, exam *model.Exam) {
	h := proctorHours(exam.DurationMinutes)
	if exam.Department == u.Department {
		u.InDeptHours -= h
	} else {
		u.OutDeptHours -= h
	}
	u.TotalAssignedMinutes -= exam.DurationMinutes
}

// ledgerAcquire 向台账中计入一场监考
func ledgerAcquire(u *model.User, exam *model.Exam) {
	h := proctorHours(exam.DurationMinutes)
	if exam.Department == u.Department {
		u.InDeptHours += h
	} else {
		u.OutDeptHours += h
	}
	u.TotalAssignedMinutes += exam.DurationMinutes
}

// applySwapToLedgers 换班双方台账更新：
// 申请人交出 give、换得 take；响应人交出 take、换得 give。
// 结果不做下限截断，原样反映累加结果。
func applySwapToLedgers(requester, respondent *model.User, give, take *model.Exam) {
	ledgerRelease(requester, give)
	ledgerAcquire(requester, take)

	ledgerRelease(respondent, take)
	ledgerAcquire(respondent, give)
}
