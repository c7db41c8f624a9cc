// Package testutil 提供基于 SQLite 的真实 GORM 数据库与测试数据构造，
// 供 repository / service 层测试事务、行锁与条件更新语义。
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
)

// NewDB 在临时目录创建 SQLite 数据库并完成建表
// 连接池限制为 1：SQLite 不支持行级锁，单连接使事务天然串行，
// 并发测试中后到的事务会等待先到的事务提交后再执行。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "proctorhub.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&model.User{},
		&model.Exam{},
		&model.ProctorAssignment{},
		&model.SwapRequest{},
		&model.AssignmentChangeLog{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}

	// 与迁移脚本一致：同一申请人同一考试至多一条待处理申请
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_swap_requests_pending
		ON swap_requests (requester_id, exam_id) WHERE status = 'pending'`).Error
	if err != nil {
		t.Fatalf("创建部分唯一索引失败: %v", err)
	}
	return db
}

// Fixtures 测试数据构造器
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
	n  int
}

// NewFixtures 创建测试数据构造器
func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// User 创建一个用户
func (f *Fixtures) User(name, role, department string) *model.User {
	f.t.Helper()
	f.n++
	u := &model.User{
		Name:       name,
		Email:      fmt.Sprintf("%s-%d@proctorhub.test", name, f.n),
		Role:       role,
		Department: department,
	}
	u.Version = 1
	if err := f.db.WithContext(context.Background()).Create(u).Error; err != nil {
		f.t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

// TA 创建一个助教
func (f *Fixtures) TA(name, department string) *model.User {
	return f.User(name, model.RoleTA, department)
}

// Exam 创建一场考试
func (f *Fixtures) Exam(course, department string, date time.Time, minutes int, instructorID string) *model.Exam {
	f.t.Helper()
	e := &model.Exam{
		CourseCode:      course,
		Department:      department,
		ExamDate:        date,
		DurationMinutes: minutes,
		InstructorID:    instructorID,
	}
	if err := f.db.WithContext(context.Background()).Create(e).Error; err != nil {
		f.t.Fatalf("创建考试失败: %v", err)
	}
	return e
}

// Assign 为用户创建监考分配
func (f *Fixtures) Assign(exam *model.Exam, user *model.User, status string) *model.ProctorAssignment {
	f.t.Helper()
	a := &model.ProctorAssignment{
		ExamID: exam.ExamID,
		UserID: user.UserID,
		Status: status,
	}
	a.Version = 1
	if err := f.db.WithContext(context.Background()).Create(a).Error; err != nil {
		f.t.Fatalf("创建监考分配失败: %v", err)
	}
	return a
}

// AssignAccepted 创建已接受的分配，并按换班规则把工作量计入台账
func (f *Fixtures) AssignAccepted(exam *model.Exam, user *model.User) *model.ProctorAssignment {
	f.t.Helper()
	a := f.Assign(exam, user, model.AssignmentAccepted)

	hours := (exam.DurationMinutes + 59) / 60
	user.TotalAssignedMinutes += exam.DurationMinutes
	if exam.Department == user.Department {
		user.InDeptHours += hours
	} else {
		user.OutDeptHours += hours
	}
	err := f.db.WithContext(context.Background()).
		Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"total_assigned_minutes": user.TotalAssignedMinutes,
			"in_dept_hours":          user.InDeptHours,
			"out_dept_hours":         user.OutDeptHours,
		}).Error
	if err != nil {
		f.t.Fatalf("初始化台账失败: %v", err)
	}
	return a
}

// Reload 重新读取用户
func (f *Fixtures) Reload(user *model.User) *model.User {
	f.t.Helper()
	var u model.User
	if err := f.db.Where("user_id = ?", user.UserID).First(&u).Error; err != nil {
		f.t.Fatalf("读取用户失败: %v", err)
	}
	return &u
}

// ReloadAssignment 重新读取监考分配
func (f *Fixtures) ReloadAssignment(a *model.ProctorAssignment) *model.ProctorAssignment {
	f.t.Helper()
	var out model.ProctorAssignment
	if err := f.db.Where("assignment_id = ?", a.AssignmentID).First(&out).Error; err != nil {
		f.t.Fatalf("读取监考分配失败: %v", err)
	}
	return &out
}

// CountAssignments 监考分配总行数
func (f *Fixtures) CountAssignments() int64 {
	f.t.Helper()
	var n int64
	if err := f.db.Model(&model.ProctorAssignment{}).Count(&n).Error; err != nil {
		f.t.Fatalf("统计监考分配失败: %v", err)
	}
	return n
}
