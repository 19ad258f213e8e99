package repository

import (
	"context"
	"errors"

	"github.com/jjhbk/Devrang/internal/domain/operator/model"
	"github.com/jjhbk/Devrang/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "operators"

// EnsureIndexes makes email unique
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := database.Collection(db, collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoOperatorRepository struct {
	coll *mongo.Collection
}

func NewMongoOperatorRepository(db *mongo.Database) OperatorRepository {
	return &mongoOperatorRepository{coll: database.Collection(db, collection)}
}

func (r *mongoOperatorRepository) Create(ctx context.Context, o *model.Operator) error {
	o.EnsureID()
	_, err := r.coll.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoOperatorRepository) findOne(ctx context.Context, filter bson.M) (*model.Operator, error) {
	var o model.Operator
	if err := r.coll.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *mongoOperatorRepository) GetByID(ctx context.Context, id string) (*model.Operator, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOperatorRepository) GetByEmail(ctx context.Context, email string) (*model.Operator, error) {
	return r.findOne(ctx, bson.M{"email": email})
}
