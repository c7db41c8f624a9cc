package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/testutil"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

func TestAssignmentRepo_ListByUser_SortedByExamDate(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	inst := fx.User("inst", model.RoleInstructor, "CS")
	r := fx.TA("r", "CS")
	late := fx.Exam("CS102", "CS", time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC), 60, inst.UserID)
	early := fx.Exam("CS101", "CS", time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), 60, inst.UserID)
	fx.AssignAccepted(late, r)
	fx.AssignAccepted(early, r)
	fx.Assign(fx.Exam("CS103", "CS", time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), 60, inst.UserID), r, model.AssignmentPending)

	all, err := repo.Assignment.ListByUser(ctx, r.UserID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "CS101", all[0].Exam.CourseCode)
	assert.Equal(t, "CS103", all[1].Exam.CourseCode)
	assert.Equal(t, "CS102", all[2].Exam.CourseCode)

	accepted, err := repo.Assignment.ListByUser(ctx, r.UserID, model.AssignmentAccepted)
	require.NoError(t, err)
	assert.Len(t, accepted, 2)
}

func TestAssignmentRepo_UpdateStatus_OptimisticLock(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	inst := fx.User("inst", model.RoleInstructor, "CS")
	r := fx.TA("r", "CS")
	exam := fx.Exam("CS101", "CS", time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), 60, inst.UserID)
	a := fx.Assign(exam, r, model.AssignmentPending)

	stale := *a
	a.Status = model.AssignmentAccepted
	require.NoError(t, repo.Assignment.UpdateStatus(ctx, a))

	stale.Status = model.AssignmentRejected
	assert.ErrorIs(t, repo.Assignment.UpdateStatus(ctx, &stale), pkgerrors.ErrOptimisticLock)

	got, err := repo.Assignment.GetByID(ctx, a.AssignmentID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentAccepted, got.Status)
	require.NotNil(t, got.Exam)
}

func TestUserRepo_UpdateLedger(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	r := fx.TA("r", "CS")
	locked, err := repo.User.GetByIDForUpdate(ctx, r.UserID)
	require.NoError(t, err)

	stale := *locked
	locked.TotalAssignedMinutes = 90
	locked.OutDeptHours = 2
	require.NoError(t, repo.User.UpdateLedger(ctx, locked))

	stale.TotalAssignedMinutes = 999
	assert.ErrorIs(t, repo.User.UpdateLedger(ctx, &stale), pkgerrors.ErrOptimisticLock)

	got := fx.Reload(r)
	assert.Equal(t, 90, got.TotalAssignedMinutes)
	assert.Equal(t, 2, got.OutDeptHours)

	_, err = repo.User.GetByEmail(ctx, "nobody@proctorhub.test")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
