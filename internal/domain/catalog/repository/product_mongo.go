package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/jjhbk/Devrang/internal/domain/catalog/model"
	"github.com/jjhbk/Devrang/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productCollection = "products"

type mongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: database.Collection(db, productCollection)}
}

func (r *mongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	p.EnsureID()
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func productFilter(f model.ProductFilter) bson.M {
	m := bson.M{}
	if f.Query != "" {
		m["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
	}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.Brand != "" {
		m["brand"] = f.Brand
	}
	return m
}

func (r *mongoProductRepository) List(ctx context.Context, filter model.ProductFilter, offset, limit int) ([]model.Product, int64, error) {
	query := productFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, p *model.Product) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"name":        p.Name,
		"type":        p.Type,
		"category":    p.Category,
		"brand":       p.Brand,
		"use":         p.Use,
		"size":        p.Size,
		"description": p.Description,
		"price":       p.Price,
		"imageUrl":    p.ImageURL,
		"updatedAt":   p.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
