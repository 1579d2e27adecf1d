package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"creditrating_backend/internals/features/rating/approval"
	"creditrating_backend/internals/features/rating/assessments/model"
	helper "creditrating_backend/internals/helpers"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormListByCustomer_OldestFirstVisibleOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAssessmentRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "customer_assessments" WHERE assessment_customer_id = \$1 AND assessment_is_deleted = \$2 ORDER BY assessment_created_at ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"assessment_id", "assessment_customer_id", "assessment_total_score", "assessment_rating", "assessment_answers"}).
			AddRow("a-1", "CUS-1", 80.0, "A", []byte(`[{"questionId":"q1","answerId":"a1","customerType":"new"}]`)).
			AddRow("a-2", "CUS-1", 40.0, "C", []byte(`[]`)))

	rows, err := repo.ListByCustomer(context.Background(), "CUS-1", false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a-1", rows[0].AssessmentID)
	require.Len(t, rows[0].Answers, 1)
	assert.Equal(t, "a1", rows[0].Answers[0].AnswerID)
	assert.Equal(t, 40.0, rows[1].TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormList_CountsThenPages(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAssessmentRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customer_assessments" WHERE assessment_approval_status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`SELECT \* FROM "customer_assessments" WHERE assessment_approval_status = \$1 ORDER BY assessment_created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"assessment_id"}).AddRow("a-21"))

	rows, total, err := repo.List(context.Background(), ListQuery{
		Status:        approval.StatusPending,
		IncludeHidden: true,
		Paging:        helper.NewPaging(2, 20),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSaveRevision_Conflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAssessmentRepository(db)

	mock.ExpectExec(`UPDATE "customer_assessments" SET .* WHERE assessment_id = \$\d+ AND assessment_version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	m := &model.AssessmentModel{AssessmentID: "a-1", ApprovalStatus: approval.StatusApproved, Version: 4}
	ok, err := repo.SaveRevision(context.Background(), m, 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, m.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSetHidden_GuardedByCurrentFlag(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAssessmentRepository(db)

	mock.ExpectExec(`UPDATE "customer_assessments" SET "assessment_is_deleted"=\$1,"assessment_visibility_changed_at"=\$2,"assessment_visibility_changed_by"=\$3 WHERE assessment_id = \$4 AND assessment_is_deleted <> \$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetHidden(context.Background(), "a-1", true, "alice", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
