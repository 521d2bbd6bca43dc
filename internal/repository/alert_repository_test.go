package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (AlertRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewAlertRepository(db), mock
}

func TestGormAlertRepository_MarkResolved_GuardsOnUnresolved(t *testing.T) {
	repo, mock := setupMockDB(t)

	// The WHERE clause must include resolved = false so a repeated
	// resolve touches no rows instead of failing.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `alerts` SET `resolved`=?,`updated_at`=? WHERE id = ? AND resolved = ?")).
		WithArgs(true, sqlmock.AnyArg(), uint64(42), false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkResolved(42))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAlertRepository_CountSince(t *testing.T) {
	repo, mock := setupMockDB(t)

	since := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT count(*) FROM `alerts` WHERE community_id = ? AND created_at >= ?")).
		WithArgs(uint64(7), since).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	count, err := repo.CountSince(7, since)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAlertRepository_List_FiltersResolved(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `alerts` WHERE alerts.community_id = ? AND alerts.resolved = ? ORDER BY alerts.created_at DESC")).
		WithArgs(uint64(7), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "community_id", "user_id", "category", "description", "resolved"}).
			AddRow(1, 7, 2, "Fire", "Veld fire", false))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `users` WHERE `users`.`id` = ?")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(2, "thandi@example.com"))

	alerts, err := repo.List(AlertFilter{CommunityID: 7})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "thandi@example.com", alerts[0].User.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
