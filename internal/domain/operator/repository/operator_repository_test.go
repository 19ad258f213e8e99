package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"
	"github.com/jjhbk/Devrang/pkg/testkit"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestOperatorRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cols := []string{"id", "created_at", "updated_at", "name", "email", "phone", "address", "password_hash"}

	t.Run("GetByEmail", func(t *testing.T) {
		db, mock := testkit.MockDB(t)
		repo := NewOperatorRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "operators" WHERE email = $1`)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("op-1", now, now, "Astro", "astro@gem.com", "98", "Jaipur", "$2a$hash"))

		o, err := repo.GetByEmail(ctx, "astro@gem.com")
		require.NoError(t, err)
		assert.Equal(t, "op-1", o.ID)
		assert.Equal(t, "$2a$hash", o.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetByID missing", func(t *testing.T) {
		db, mock := testkit.MockDB(t)
		repo := NewOperatorRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "operators" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Create duplicate email", func(t *testing.T) {
		db, mock := testkit.MockDB(t)
		repo := NewOperatorRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "operators"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(ctx, &model.Operator{Name: "Astro", Email: "astro@gem.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestMongoOperatorRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("GetByEmail", func(mt *mtest.T) {
		repo := NewMongoOperatorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devrang.operators", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "op-1"},
			{Key: "name", Value: "Astro"},
			{Key: "email", Value: "astro@gem.com"},
			{Key: "passwordHash", Value: "$2a$hash"},
		}))

		o, err := repo.GetByEmail(ctx, "astro@gem.com")
		require.NoError(mt, err)
		assert.Equal(mt, "op-1", o.ID)
		assert.Equal(mt, "$2a$hash", o.PasswordHash)
	})

	mt.Run("GetByID missing", func(mt *mtest.T) {
		repo := NewMongoOperatorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "devrang.operators", mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Create duplicate", func(mt *mtest.T) {
		repo := NewMongoOperatorRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Create(ctx, &model.Operator{Email: "astro@gem.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})
}
