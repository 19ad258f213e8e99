package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/jjhbk/Devrang/internal/domain/customer/model"
	"github.com/jjhbk/Devrang/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const customerCollection = "customers"

type mongoCustomerRepository struct {
	coll *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepository{coll: database.Collection(db, customerCollection)}
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	c.EnsureID()
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *mongoCustomerRepository) GetByID(ctx context.Context, owner, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "operatorEmail": owner}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func customerFilter(owner, query string) bson.M {
	m := bson.M{"operatorEmail": owner}
	if query != "" {
		pattern := regexp.QuoteMeta(query)
		m["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": pattern}},
		}
	}
	return m
}

func (r *mongoCustomerRepository) List(ctx context.Context, owner, query string, offset, limit int) ([]model.Customer, int64, error) {
	filter := customerFilter(owner, query)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	customers := make([]model.Customer, 0)
	if err := cur.All(ctx, &customers); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": c.ID, "operatorEmail": c.OperatorEmail},
		bson.M{"$set": bson.M{
			"name":            c.Name,
			"phone":           c.Phone,
			"email":           c.Email,
			"shippingAddress": c.ShippingAddress,
			"dob":             c.DOB,
			"gotra":           c.Gotra,
			"rating":          c.Rating,
			"comments":        c.Comments,
			"updatedAt":       c.UpdatedAt,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCustomerRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "operatorEmail": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
