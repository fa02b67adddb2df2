package store

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresBackendLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT content FROM documents WHERE name = \\$1").
		WithArgs("questions.json").
		WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow([]byte(`{"science":[]}`)))

	var got map[string][]any
	require.NoError(t, LoadDocument(NewPostgresBackend(db), "questions.json", &got))
	assert.Contains(t, got, "science")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendLoadMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT content FROM documents WHERE name = \\$1").
		WithArgs("leaderboard.json").
		WillReturnRows(sqlmock.NewRows([]string{"content"}))

	_, err = NewPostgresBackend(db).Load("leaderboard.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("leaderboard.json", "{\n  \"2024\": []\n}").
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc := map[string][]any{"2024": {}}
	require.NoError(t, SaveDocument(NewPostgresBackend(db), "leaderboard.json", doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendSaveError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").WillReturnError(errors.New("connection reset"))

	err = SaveDocument(NewPostgresBackend(db), "questions.json", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresBackendEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresBackend(db).EnsureSchema())
	assert.NoError(t, mock.ExpectationsWereMet())
}
