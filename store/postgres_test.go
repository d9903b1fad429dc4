package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	s := NewPostgresStoreFromDB(db)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, mock
}

func TestPostgresStore_UpdateMissingIsNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET data = data || $1::jsonb, updated_at = $2 WHERE collection = $3 AND id = $4`)).
		WithArgs(`{"updatedAt":{"$ts":"2024-01-02T03:04:05.000000000Z"}}`, sqlmock.AnyArg(), "meals", "m1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), Root("meals").Doc("m1"), Fields{"updatedAt": ServerTimestamp})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateExisting(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET data = data || $1::jsonb`)).
		WithArgs(`{"isFavorite":true}`, sqlmock.AnyArg(), "users/u1/foods", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), Root("users").Doc("u1").Sub("foods").Doc("f1"), Fields{"isFavorite": true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetMissing(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("meals", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	_, err := s.Get(context.Background(), Root("meals").Doc("ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_GetDecodesTimestamps(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, data FROM documents`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("m1", []byte(`{"mealName":"oats","createdAt":{"$ts":"2024-01-01T00:00:00.000000000Z"}}`)))

	snap, err := s.Get(context.Background(), Root("meals").Doc("m1"))
	require.NoError(t, err)
	assert.Equal(t, "m1", snap.ID())
	assert.Equal(t, "oats", snap.Data["mealName"])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), snap.Data["createdAt"])
}

func TestPostgresStore_QueryOrdering(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectQuery(`SELECT id, data FROM "documents" WHERE collection = \$1 AND data @> \$2::jsonb AND jsonb_exists\(data, \$3\) ORDER BY data -> \$4 DESC, id ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("b", []byte(`{"isLogged":true}`)).
			AddRow("a", []byte(`{"isLogged":true}`)))

	q := From(Root("meals")).Where(Eq("isLogged", true)).OrderBy("lastUsed", Desc).Take(10)
	got, err := s.Query(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteMissingIsNoop(t *testing.T) {
	s, mock := newMockPostgres(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("meals", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), Root("meals").Doc("ghost")))
}

func TestEncodeValue_TimestampsSortAsStrings(t *testing.T) {
	early := encodeValue(time.Date(2024, 1, 1, 9, 0, 0, 5, time.UTC)).(map[string]any)[tsKey].(string)
	late := encodeValue(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)).(map[string]any)[tsKey].(string)
	assert.Less(t, early, late)
	assert.Len(t, early, len(late))
}
