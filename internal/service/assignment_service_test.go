package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/testutil"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

func newAssignmentEnv(t *testing.T) (AssignmentService, *testutil.Fixtures, *model.User) {
	t.Helper()
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	inst := fx.User("instructor", model.RoleInstructor, "CS")
	return NewAssignmentService(repository.NewRepository(db), zap.NewNop()), fx, inst
}

func TestAssignment_AcceptChangesStatusOnly(t *testing.T) {
	svc, fx, inst := newAssignmentEnv(t)
	ta := fx.TA("ta", "CS")
	exam := fx.Exam("CS101", "CS", examAt(10), 120, inst.UserID)
	a := fx.Assign(exam, ta, model.AssignmentPending)

	resp, err := svc.Accept(context.Background(), a.AssignmentID, ta.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentAccepted, resp.Status)
	assert.NotEmpty(t, resp.RespondedAt)

	after := fx.Reload(ta)
	assert.Equal(t, 0, after.TotalAssignedMinutes)
	assert.Equal(t, 0, after.InDeptHours)

	_, err = svc.Reject(context.Background(), a.AssignmentID, ta.UserID)
	assert.ErrorIs(t, err, pkgerrors.ErrAlreadyProcessed)
}

func TestAssignment_OnlyOwnerMayRespond(t *testing.T) {
	svc, fx, inst := newAssignmentEnv(t)
	ta := fx.TA("ta", "CS")
	other := fx.TA("other", "CS")
	exam := fx.Exam("CS101", "CS", examAt(10), 60, inst.UserID)
	a := fx.Assign(exam, ta, model.AssignmentPending)

	_, err := svc.Reject(context.Background(), a.AssignmentID, other.UserID)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	assert.Equal(t, model.AssignmentPending, fx.ReloadAssignment(a).Status)

	_, err = svc.Accept(context.Background(), "00000000-0000-0000-0000-000000000000", ta.UserID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignment_ListMineSortedByExamDate(t *testing.T) {
	svc, fx, inst := newAssignmentEnv(t)
	ta := fx.TA("ta", "CS")
	late := fx.Exam("CS102", "CS", examAt(20), 60, inst.UserID)
	early := fx.Exam("CS101", "CS", examAt(5), 60, inst.UserID)
	fx.AssignAccepted(late, ta)
	fx.Assign(early, ta, model.AssignmentPending)

	all, err := svc.ListMine(context.Background(), ta.UserID, &dto.AssignmentListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ExamID, all[0].ExamID)

	accepted, err := svc.ListMine(context.Background(), ta.UserID, &dto.AssignmentListRequest{Status: model.AssignmentAccepted})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, late.ExamID, accepted[0].ExamID)
}

func TestAssignment_ExportCalendar(t *testing.T) {
	svc, fx, inst := newAssignmentEnv(t)
	ta := fx.TA("ta", "CS")
	e1 := fx.Exam("CS101", "CS", examAt(10), 120, inst.UserID)
	e2 := fx.Exam("EE201", "EE", examAt(12), 90, inst.UserID)
	e3 := fx.Exam("CS103", "CS", examAt(14), 60, inst.UserID)
	fx.AssignAccepted(e1, ta)
	fx.AssignAccepted(e2, ta)
	fx.Assign(e3, ta, model.AssignmentPending)

	data, err := svc.ExportCalendar(context.Background(), ta.UserID)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(e1.ExamDate), "第一条事件应为最早的考试")
	end, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Minute, end.Sub(start))
}

func TestAssignment_GetWorkload(t *testing.T) {
	svc, fx, inst := newAssignmentEnv(t)
	ta := fx.TA("ta", "CS")
	fx.AssignAccepted(fx.Exam("CS101", "CS", examAt(10), 120, inst.UserID), ta)
	fx.AssignAccepted(fx.Exam("EE201", "EE", examAt(12), 61, inst.UserID), ta)

	w, err := svc.GetWorkload(context.Background(), ta.UserID)
	require.NoError(t, err)
	assert.Equal(t, 181, w.TotalAssignedMinutes)
	assert.Equal(t, 2, w.InDeptHours)
	assert.Equal(t, 2, w.OutDeptHours)
}
