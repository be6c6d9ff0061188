package notes

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_Create(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+items\s*\(user_id,\s*text\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id,\s*created_at\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(3), `hello "world"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), time.Now()))

	got, err := repo.Create(context.Background(), &models.Note{UserID: 3, Text: `hello "world"`})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, `hello "world"`, got.Text)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Create_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO items`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Note{UserID: 3, Text: "x"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_ListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*user_id,\s*text,\s*created_at\s+FROM\s+items\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "text", "created_at"}).
		AddRow(int64(1), int64(3), "first", now).
		AddRow(int64(5), int64(3), "second", now)
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "second", got[1].Text)
}

func TestPostgres_ListByOwner_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text", "created_at"}))

	got, err := repo.ListByOwner(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgres_ListByOwner_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "text", "created_at"}).
		AddRow(int64(1), int64(3), "first", time.Now()).
		RowError(0, errors.New("broken row"))
	mock.ExpectQuery(`SELECT`).WithArgs(int64(3)).WillReturnRows(rows)

	_, err := repo.ListByOwner(context.Background(), 3)
	require.Error(t, err)
}

func TestPostgres_GetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*user_id,\s*text,\s*created_at\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	mock.ExpectQuery(q).WithArgs(int64(5), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "text", "created_at"}).
			AddRow(int64(5), int64(3), "text", time.Now()))

	got, err := repo.GetByID(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "text", got.Text)
}

func TestPostgres_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT`).WithArgs(int64(5), int64(3)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3, 5)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_Update(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+items\s+SET\s+text\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3$`
	mock.ExpectExec(q).WithArgs("new", int64(5), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), 3, 5, "new"))

	mock.ExpectExec(q).WithArgs("new", int64(6), int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Update(context.Background(), 3, 6, "new"), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs("new", int64(7), int64(3)).WillReturnError(errors.New("boom"))
	err := repo.Update(context.Background(), 3, 7, "new")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_Delete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+items\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs(int64(5), int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 3, 5))

	mock.ExpectExec(q).WithArgs(int64(5), int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), 4, 5), common.ErrorNotFound)

	mock.ExpectExec(q).WithArgs(int64(9), int64(3)).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))
	err := repo.Delete(context.Background(), 3, 9)
	if err == nil || !regexp.MustCompile(`rows affected`).MatchString(err.Error()) {
		t.Fatalf("expected rows affected error, got %v", err)
	}
}
