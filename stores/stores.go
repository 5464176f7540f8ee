// Package stores owns persistence for users, vendors and orders, plus the
// inbound-event dedup cache. The conversation engine and checkout assembly
// depend only on the interfaces here, so tests substitute in-memory fakes.
package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ajith2401/delivery-app-fresh/models"
)

var ErrNotFound = errors.New("stores: not found")

type UserStore interface {
	// FindOrCreateByPhone returns the user for a phone number, creating the
	// record lazily on first contact.
	FindOrCreateByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// NearbyVendor pairs a vendor with its proximity annotations for listing.
type NearbyVendor struct {
	Vendor     models.Vendor
	DistanceKm float64
	IsOpen     bool
}

type VendorStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error)
	// FindNearby returns active vendors within radiusKm of (lon, lat),
	// nearest first, annotated with display distance and open state.
	FindNearby(ctx context.Context, lon, lat, radiusKm float64, limit int64) ([]NearbyVendor, error)
	// SearchByItemName returns nearby active vendors carrying an available
	// menu item whose name matches the query, case-insensitive.
	SearchByItemName(ctx context.Context, lon, lat, radiusKm float64, query string, limit int64) ([]NearbyVendor, error)
	Create(ctx context.Context, vendor *models.Vendor) error
	ReplaceMenu(ctx context.Context, id primitive.ObjectID, menu []models.MenuItem) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, status models.OrderStatus, limit int64) ([]models.Order, error)
	// FindByPaymentID looks an order up by its gateway payment reference,
	// used by the payment webhook path.
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// DedupStore remembers recently seen inbound event ids so at-least-once
// webhook delivery cannot replay side effects.
type DedupStore interface {
	// MarkSeen records the event id and reports true the first time it is
	// seen within the TTL window.
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}
