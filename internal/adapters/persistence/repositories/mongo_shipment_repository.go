package repositories

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"madhav-couriers/internal/adapters/persistence/models"
	"madhav-couriers/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoShipmentRepository implements ShipmentRepository on a mongo collection
type mongoShipmentRepository struct {
	collection *mongo.Collection
}

// NewMongoShipmentRepository creates a mongo shipment repository and its indexes
func NewMongoShipmentRepository(ctx context.Context, db *mongo.Database) (ShipmentRepository, error) {
	collection := db.Collection("shipments")

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "current_city", Value: 1}}},
	})
	if err != nil {
		return nil, wrapStoreError("create shipment indexes", err)
	}

	return &mongoShipmentRepository{collection: collection}, nil
}

func translateMongoShipmentError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrShipmentNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicateTrackingNumber
	}
	return wrapStoreError(op, err)
}

// Create inserts a shipment document with its embedded history
func (r *mongoShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	_, err := r.collection.InsertOne(ctx, models.ShipmentDocumentFromDomain(s))
	return translateMongoShipmentError("create shipment", err)
}

func (r *mongoShipmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Shipment, error) {
	var doc models.ShipmentDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoShipmentError("get shipment", err)
	}
	return doc.ToDomain(), nil
}

// GetByTrackingNumber finds a shipment by tracking number
func (r *mongoShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"tracking_number": trackingNumber})
}

// GetByID finds a shipment by ID
func (r *mongoShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func containsRegex(v string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(v)), Options: "i"}
}

func mongoShipmentFilter(f domain.ShipmentFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		re := containsRegex(f.Search)
		filter["$or"] = []bson.M{
			{"tracking_number": re},
			{"customer_name": re},
			{"origin": re},
			{"destination": re},
			{"current_city": re},
		}
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.CurrentCity != "" {
		filter["current_city"] = containsRegex(f.CurrentCity)
	}
	if f.Origin != "" {
		filter["origin"] = containsRegex(f.Origin)
	}
	if f.Destination != "" {
		filter["destination"] = containsRegex(f.Destination)
	}
	return filter
}

// List finds shipments with filter, sort and pagination
func (r *mongoShipmentRepository) List(ctx context.Context, f domain.ShipmentFilter, offset, limit int) ([]*domain.Shipment, int64, error) {
	filter := mongoShipmentFilter(f)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateMongoShipmentError("count shipments", err)
	}

	sort := f.Sort
	if sort.Field == "" {
		sort = domain.DefaultSort
	}
	direction := 1
	if sort.Desc {
		direction = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sort.Field, Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll reads every shipment
func (r *mongoShipmentRepository) ListAll(ctx context.Context) ([]*domain.Shipment, error) {
	return r.find(ctx, bson.M{}, options.Find())
}

func (r *mongoShipmentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Shipment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateMongoShipmentError("list shipments", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.ShipmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoShipmentError("list shipments", err)
	}

	items := make([]*domain.Shipment, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.ToDomain())
	}
	return items, nil
}

// shipmentUpdate builds the $set for patch and, when entry is set, the $push of its history document
func shipmentUpdate(patch *domain.ShipmentPatch, entry *domain.HistoryEntry) bson.M {
	update := bson.M{"$set": bson.M(models.PatchDocument(patch))}
	if entry != nil {
		update["$push"] = bson.M{"status_history": models.HistoryDocumentFromDomain(*entry)}
	}
	return update
}

// Update applies patch and pushes entry in one document update
func (r *mongoShipmentRepository) Update(ctx context.Context, trackingNumber string, patch *domain.ShipmentPatch, entry *domain.HistoryEntry) (*domain.Shipment, error) {
	update := shipmentUpdate(patch, entry)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.ShipmentDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"tracking_number": trackingNumber}, update, opts).Decode(&doc)
	if err != nil {
		return nil, translateMongoShipmentError("update shipment", err)
	}
	return doc.ToDomain(), nil
}

// Delete removes a shipment document
func (r *mongoShipmentRepository) Delete(ctx context.Context, trackingNumber string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"tracking_number": trackingNumber})
	if err != nil {
		return translateMongoShipmentError("delete shipment", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrShipmentNotFound
	}
	return nil
}
