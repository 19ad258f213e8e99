package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jjhbk/Devrang/internal/domain/order/model"
	"github.com/jjhbk/Devrang/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollection = "orders"

type mongoOrderRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{coll: database.Collection(db, orderCollection)}
}

// EnsureIndexes creates the unique gateway id index and the list indexes
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := database.Collection(db, orderCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *mongoOrderRepository) Create(ctx context.Context, o *model.Order) error {
	o.EnsureID()
	if o.Items == nil {
		o.Items = model.Items{}
	}
	_, err := r.coll.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*model.Order, error) {
	var o model.Order
	if err := r.coll.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID})
}

func (r *mongoOrderRepository) List(ctx context.Context, filter model.OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.CreatedBy != "" {
		query["createdBy"] = filter.CreatedBy
	}

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

	orders := make([]model.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *mongoOrderRepository) set(ctx context.Context, filter bson.M, fields bson.M) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoOrderRepository) MarkPaid(ctx context.Context, orderID string, upd model.PaidUpdate, at time.Time) error {
	fields := bson.M{
		"payment_id": upd.PaymentID,
		"updatedAt":  at,
	}
	if !upd.KeepStatus {
		fields["status"] = model.StatusPaid
	}
	if upd.Items != nil {
		fields["items"] = upd.Items
	}
	if upd.Customer != nil {
		fields["customer"] = *upd.Customer
	}
	return r.set(ctx, bson.M{"order_id": orderID}, fields)
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) error {
	return r.set(ctx, bson.M{"_id": id}, bson.M{"status": status, "updatedAt": at})
}

func (r *mongoOrderRepository) UpdateTracking(ctx context.Context, id, tracking string, at time.Time) error {
	return r.set(ctx, bson.M{"_id": id}, bson.M{"trackingNumber": tracking, "updatedAt": at})
}

func (r *mongoOrderRepository) ExistingOrderIDs(ctx context.Context, orderIDs []string) (map[string]bool, error) {
	found := make(map[string]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return found, nil
	}

	opts := options.Find().SetProjection(bson.M{"order_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"order_id": bson.M{"$in": orderIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			OrderID string `bson:"order_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		found[row.OrderID] = true
	}
	return found, cur.Err()
}
