package stores

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// FindNearby and SearchByItemName both issue $near against address.location;
// the index model has to cover exactly that path or MongoDB rejects the
// queries on a fresh deployment.
func TestGeoIndexCoversNearQueries(t *testing.T) {
	keys, ok := geoIndex().Keys.(bson.D)
	if !ok {
		t.Fatalf("index keys have type %T, want bson.D", geoIndex().Keys)
	}
	if len(keys) != 1 {
		t.Fatalf("index keys = %v, want a single entry", keys)
	}
	if keys[0].Key != "address.location" {
		t.Fatalf("index path = %q, want address.location", keys[0].Key)
	}
	if keys[0].Value != "2dsphere" {
		t.Fatalf("index type = %v, want 2dsphere", keys[0].Value)
	}
}
