package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Menu      string             `bson:"menu"`
	Quantity  int                `bson:"quantity"`
	Type      string             `bson:"type"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d orderDocument) toModel() models.Order {
	return models.Order{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Menu:      d.Menu,
		Quantity:  d.Quantity,
		Type:      d.Type,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// MongoOrderRepository implements OrderRepository on a MongoDB collection
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates an order repository on the orders collection
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{coll: db.Collection(OrdersCollection)}
}

// Create inserts the order and assigns its ID
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	doc := orderDocument{
		Name:      order.Name,
		Menu:      order.Menu,
		Quantity:  order.Quantity,
		Type:      order.Type,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return nil
}

// List returns matching orders, most recent first
func (r *MongoOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = filter.Name
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, d.toModel())
	}
	return orders, nil
}

// GetByID returns an order by its ID
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrOrderNotFound
	}

	var doc orderDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order %s: %w", id, err)
	}

	order := doc.toModel()
	return &order, nil
}

// UpdateStatus overwrites the status without looking at the current one
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id, status string) (UpdateResult, error) {
	return r.set(ctx, id, bson.M{"status": status})
}

// UpdateQuantity overwrites the quantity without looking at the status
func (r *MongoOrderRepository) UpdateQuantity(ctx context.Context, id string, quantity int) (UpdateResult, error) {
	return r.set(ctx, id, bson.M{"quantity": quantity})
}

// Delete removes an order by its ID
func (r *MongoOrderRepository) Delete(ctx context.Context, id string) (UpdateResult, error) {
	oid, ok := objectID(id)
	if !ok {
		return UpdateResult{}, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return UpdateResult{Matched: res.DeletedCount > 0}, nil
}

func (r *MongoOrderRepository) set(ctx context.Context, id string, fields bson.M) (UpdateResult, error) {
	oid, ok := objectID(id)
	if !ok {
		return UpdateResult{}, nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return UpdateResult{Matched: res.MatchedCount > 0}, nil
}
