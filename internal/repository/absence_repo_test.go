package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hris_backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var absenceColumns = []string{"id", "user_id", "status", "work_date", "created_at", "updated_at", "name", "position"}

func TestAbsenceRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	now := time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC)
	workDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a := &model.Absence{ID: "abs-1", UserID: "user-1", Status: model.AbsenceStatusIn, WorkDate: workDate, CreatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO absences")).
		WithArgs("abs-1", "user-1", "in", workDate, now).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, now, a.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_Create_SameDayConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	a := &model.Absence{ID: "abs-2", UserID: "user-1", Status: model.AbsenceStatusIn}

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, status, work_date) DO NOTHING")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	err = repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_FindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	a, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_FindLatestByUserAndStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	at := time.Date(2024, 1, 3, 17, 0, 0, 0, time.UTC)
	day := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.created_at DESC LIMIT 1")).
		WithArgs("user-1", "out").
		WillReturnRows(pgxmock.NewRows(absenceColumns).AddRow("abs-9", "user-1", "out", day, at, at, "Budi", "Developer"))

	a, err := repo.FindLatestByUserAndStatus(context.Background(), "user-1", model.AbsenceStatusOut)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "abs-9", a.ID)
	assert.Equal(t, model.AbsenceStatusOut, a.Status)
	assert.Equal(t, "Budi", a.UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_ListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	t1 := time.Date(2024, 1, 2, 7, 30, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.user_id = $1 ORDER BY a.created_at ASC")).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(absenceColumns).
			AddRow("abs-1", "user-1", "in", day, t1, t1, "", "").
			AddRow("abs-2", "user-1", "out", day, t2, t2, "", ""))

	list, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.AbsenceStatusIn, list[0].Status)
	assert.Equal(t, model.AbsenceStatusOut, list[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM absences")).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), "missing")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepository_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAbsenceRepository(mock)
	userID := "user-1"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	filters := model.AbsenceFilters{UserID: &userID, StartDate: &start, Page: model.PageOptions{Page: 2, Take: 5}}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM absences a WHERE a.user_id = $1 AND a.created_at >= $2")).
		WithArgs(userID, start).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.created_at DESC LIMIT $3 OFFSET $4")).
		WithArgs(userID, start, 5, 5).
		WillReturnRows(pgxmock.NewRows(absenceColumns).AddRow("abs-6", userID, "in", start, start, start, "", ""))

	list, total, err := repo.List(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
