package stores

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ajith2401/delivery-app-fresh/geo"
	"github.com/ajith2401/delivery-app-fresh/models"
)

type MongoVendorStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoVendorStore(db *mongo.Database) *MongoVendorStore {
	return &MongoVendorStore{collection: db.Collection("vendors"), now: time.Now}
}

// geoIndex is the 2dsphere index the $near queries below depend on. Without
// it MongoDB rejects every nearby/search query outright.
func geoIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "address.location", Value: "2dsphere"}},
	}
}

// EnsureIndexes creates the vendor collection's indexes; CreateOne is a
// no-op when they already exist, so startup calls are idempotent.
func (s *MongoVendorStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, geoIndex())
	return err
}

func (s *MongoVendorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindNearby relies on the 2dsphere index for the radius filter and sort; the
// in-process haversine recompute is only for display rounding.
func (s *MongoVendorStore) FindNearby(ctx context.Context, lon, lat, radiusKm float64, limit int64) ([]NearbyVendor, error) {
	filter := bson.M{
		"isActive": true,
		"address.location": bson.M{
			"$near": bson.M{
				"$geometry":    bson.M{"type": "Point", "coordinates": []float64{lon, lat}},
				"$maxDistance": radiusKm * 1000,
			},
		},
	}
	return s.annotate(ctx, filter, lon, lat, limit)
}

func (s *MongoVendorStore) SearchByItemName(ctx context.Context, lon, lat, radiusKm float64, query string, limit int64) ([]NearbyVendor, error) {
	filter := bson.M{
		"isActive": true,
		"menuItems": bson.M{"$elemMatch": bson.M{
			"name":        primitive.Regex{Pattern: regexEscape(query), Options: "i"},
			"isAvailable": true,
		}},
		"address.location": bson.M{
			"$near": bson.M{
				"$geometry":    bson.M{"type": "Point", "coordinates": []float64{lon, lat}},
				"$maxDistance": radiusKm * 1000,
			},
		},
	}
	return s.annotate(ctx, filter, lon, lat, limit)
}

func (s *MongoVendorStore) annotate(ctx context.Context, filter bson.M, lon, lat float64, limit int64) ([]NearbyVendor, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	now := s.now()
	var result []NearbyVendor
	for cursor.Next(ctx) {
		var vendor models.Vendor
		if err := cursor.Decode(&vendor); err != nil {
			return nil, err
		}
		loc := vendor.Address.Location
		result = append(result, NearbyVendor{
			Vendor:     vendor,
			DistanceKm: geo.DisplayDistance(geo.Distance(lat, lon, loc.Latitude(), loc.Longitude())),
			IsOpen:     vendor.IsCurrentlyOpen(now),
		})
	}
	return result, cursor.Err()
}

func (s *MongoVendorStore) Create(ctx context.Context, vendor *models.Vendor) error {
	now := time.Now()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	res, err := s.collection.InsertOne(ctx, vendor)
	if err != nil {
		return err
	}
	vendor.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoVendorStore) ReplaceMenu(ctx context.Context, id primitive.ObjectID, menu []models.MenuItem) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"menuItems": menu,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// regexEscape quotes regex metacharacters in a user-supplied search term.
func regexEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
