package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/pet-house-api/repositories"
	"go.uber.org/zap"
)

type petDoc struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newMockStore(t *testing.T) (*DocumentStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := zap.NewNop()
	return NewDocumentStore(&DB{DB: db, logger: logger}, logger), mock
}

func TestWhereClause(t *testing.T) {
	where, args, err := whereClause("pets", repositories.ByID("p1").With("email", "a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "collection = $1 AND id = $2 AND doc->>'email' = $3", where)
	assert.Equal(t, []interface{}{"pets", "p1", "a@example.com"}, args)

	where, args, err = whereClause("users", nil)
	require.NoError(t, err)
	assert.Equal(t, "collection = $1", where)
	assert.Equal(t, []interface{}{"users"}, args)

	_, _, err = whereClause("pets", repositories.Filter{"email' OR '1'='1": "x"})
	assert.Error(t, err)
}

func TestDocumentStore_Find(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM documents WHERE collection = $1 AND doc->>'email' = $2 ORDER BY created_at, id")).
		WithArgs("pets", "a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"_id":"p1","name":"Rex","email":"a@example.com"}`)).
			AddRow([]byte(`{"_id":"p2","name":"Tom","email":"a@example.com"}`)))

	var pets []petDoc
	err := store.Find(context.Background(), "pets", repositories.Filter{"email": "a@example.com"}, &pets)
	require.NoError(t, err)
	require.Len(t, pets, 2)
	assert.Equal(t, "p1", pets[0].ID)
	assert.Equal(t, "Tom", pets[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_FindEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM documents WHERE collection = $1 ORDER BY")).
		WithArgs("pets").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	var pets []petDoc
	require.NoError(t, store.Find(context.Background(), "pets", nil, &pets))
	assert.NotNil(t, pets)
	assert.Empty(t, pets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_FindOne(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT doc FROM documents WHERE collection = $1 AND id = $2 LIMIT 1")).
			WithArgs("pets", "p1").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"_id":"p1","name":"Rex"}`)))

		var pet petDoc
		require.NoError(t, store.FindOne(context.Background(), "pets", repositories.ByID("p1"), &pet))
		assert.Equal(t, "Rex", pet.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT doc FROM documents").
			WithArgs("pets", "missing").
			WillReturnError(sql.ErrNoRows)

		var pet petDoc
		err := store.FindOne(context.Background(), "pets", repositories.ByID("missing"), &pet)
		assert.ErrorIs(t, err, repositories.ErrNoDocuments)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT doc FROM documents").WillReturnError(sql.ErrConnDone)

		var pet petDoc
		err := store.FindOne(context.Background(), "pets", repositories.ByID("p1"), &pet)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.NotErrorIs(t, err, repositories.ErrNoDocuments)
	})
}

func TestDocumentStore_InsertOne(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)")).
			WithArgs("pets", "p1", `{"_id":"p1","email":"a@example.com","name":"Rex"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.InsertOne(context.Background(), "pets", "p1", petDoc{Name: "Rex", Email: "a@example.com"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate key", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec("INSERT INTO documents").
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.InsertOne(context.Background(), "pets", "p1", petDoc{})
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})
}

func TestDocumentStore_ReplaceOne(t *testing.T) {
	filter := repositories.ByID("p1").With("email", "a@example.com")
	updateSQL := regexp.QuoteMeta("WITH target AS (SELECT id, doc FROM documents WHERE collection = $1 AND id = $2 AND doc->>'email' = $3 LIMIT 1)")

	t.Run("matched and modified", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(updateSQL).
			WithArgs("pets", "p1", "a@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"changed"}).AddRow(true))

		res, err := store.ReplaceOne(context.Background(), "pets", filter, "p1", petDoc{Name: "Rex"}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)
		assert.Nil(t, res.UpsertedID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matched unchanged", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows([]string{"changed"}).AddRow(false))

		res, err := store.ReplaceOne(context.Background(), "pets", filter, "p1", petDoc{Name: "Rex"}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)
	})

	t.Run("no match without upsert", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows([]string{"changed"}))

		res, err := store.ReplaceOne(context.Background(), "pets", filter, "p1", petDoc{}, false)
		require.NoError(t, err)
		assert.Equal(t, repositories.UpdateResult{}, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upsert inserts", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows([]string{"changed"}))
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id) DO NOTHING")).
			WithArgs("pets", "p1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		res, err := store.ReplaceOne(context.Background(), "pets", filter, "p1", petDoc{Name: "Rex"}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
		require.NotNil(t, res.UpsertedID)
		assert.Equal(t, "p1", *res.UpsertedID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upsert blocked by foreign document", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows([]string{"changed"}))
		mock.ExpectExec("ON CONFLICT").
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := store.ReplaceOne(context.Background(), "pets", filter, "p1", petDoc{}, true)
		assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
	})
}

func TestDocumentStore_SetFields(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SET doc = d.doc || $3::jsonb")).
		WithArgs("users", "u1", `{"role":"admin"}`).
		WillReturnRows(sqlmock.NewRows([]string{"changed"}).AddRow(true))

	res, err := store.SetFields(context.Background(), "users", repositories.ByID("u1"), map[string]interface{}{"role": "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = store.SetFields(context.Background(), "users", repositories.ByID("u1"), map[string]interface{}{"_id": "x"})
	assert.Error(t, err)
}

func TestDocumentStore_DeleteOne(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents WHERE collection = $1 AND id = (SELECT id FROM documents WHERE collection = $1 AND id = $2 AND doc->>'createdBy' = $3 LIMIT 1)")).
		WithArgs("campaigns", "c1", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := store.DeleteOne(context.Background(), "campaigns", repositories.ByID("c1").With("createdBy", "a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	store := NewDocumentStore(&DB{DB: db, logger: zap.NewNop()}, zap.NewNop())
	require.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
