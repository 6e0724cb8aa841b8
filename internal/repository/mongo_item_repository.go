package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/YANGYUNJIK/my-app/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// itemDocument is the stored shape of an item.
// Stock is a pointer because documents written by older clients omit it.
type itemDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Type  string             `bson:"type"`
	Image string             `bson:"image"`
	Stock *bool              `bson:"stock,omitempty"`
}

func (d itemDocument) toModel() models.Item {
	stock := true
	if d.Stock != nil {
		stock = *d.Stock
	}
	return models.Item{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Type:  d.Type,
		Image: d.Image,
		Stock: stock,
	}
}

// MongoItemRepository implements ItemRepository on a MongoDB collection
type MongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository creates an item repository on the items collection
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{coll: db.Collection(ItemsCollection)}
}

// List returns items matching the filter
func (r *MongoItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	cur, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}

	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	items := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toModel())
	}
	return items, nil
}

// GetByID returns an item by its ID
func (r *MongoItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrItemNotFound
	}

	var doc itemDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", id, err)
	}

	item := doc.toModel()
	return &item, nil
}

// Create inserts the item and assigns its ID
func (r *MongoItemRepository) Create(ctx context.Context, item *models.Item) error {
	stock := item.Stock
	doc := itemDocument{
		Name:  item.Name,
		Type:  item.Type,
		Image: item.Image,
		Stock: &stock,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid.Hex()
	}
	return nil
}

// Update applies the non-nil patch fields and returns the stored item
func (r *MongoItemRepository) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	oid, ok := objectID(id)
	if !ok {
		return nil, ErrItemNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc itemDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", id, err)
	}

	item := doc.toModel()
	return &item, nil
}

// Delete removes an item by its ID
func (r *MongoItemRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return ErrItemNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}
