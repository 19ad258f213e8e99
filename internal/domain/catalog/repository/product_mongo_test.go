package repository

import (
	"context"
	"testing"

	"github.com/jjhbk/Devrang/internal/domain/catalog/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func productDoc(id, name, price string) bson.D {
	d128, _ := primitive.ParseDecimal128(price)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "category", Value: "precious"},
		{Key: "price", Value: d128},
	}
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "devrang.products"

	mt.Run("Create assigns id", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &model.Product{Name: "Amethyst Cluster", Price: decimal.RequireFromString("45.00")}
		require.NoError(mt, repo.Create(ctx, p))
		assert.NotEmpty(mt, p.ID)
		assert.False(mt, p.CreatedAt.IsZero())
	})

	mt.Run("GetByID decodes decimal", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, productDoc("p-1", "Ruby", "1200.50")))

		p, err := repo.GetByID(ctx, "p-1")
		require.NoError(mt, err)
		assert.Equal(mt, "Ruby", p.Name)
		assert.Equal(mt, "p-1", p.ID)
		assert.True(mt, p.Price.Equal(decimal.RequireFromString("1200.5")))
	})

	mt.Run("GetByID missing", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("List", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				productDoc("p-1", "Ruby", "1200.50"),
				productDoc("p-2", "Rudraksha", "99")),
		)

		list, total, err := repo.List(ctx, model.ProductFilter{Query: "ru"}, 0, 20)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), total)
		require.Len(mt, list, 2)
		assert.Equal(mt, "Rudraksha", list[1].Name)
	})

	mt.Run("Update missing", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(ctx, &model.Product{Name: "Ruby"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Delete", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(ctx, "p-1"))
	})
}

func TestProductFilter(t *testing.T) {
	f := productFilter(model.ProductFilter{Query: "a.b", Brand: "Devrang"})
	assert.Equal(t, bson.M{"$regex": `a\.b`, "$options": "i"}, f["name"])
	assert.Equal(t, "Devrang", f["brand"])
	_, hasCategory := f["category"]
	assert.False(t, hasCategory)
}
