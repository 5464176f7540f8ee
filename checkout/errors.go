package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoAddress         = errors.New("no delivery address on file")
	ErrVendorUnavailable = errors.New("vendor is not available")
	ErrTerminalStatus    = errors.New("order is in a terminal status")
)

// BelowMinOrderError reports a cart total under the vendor's minimum.
type BelowMinOrderError struct {
	Min   float64
	Total float64
}

func (e *BelowMinOrderError) Error() string {
	return fmt.Sprintf("cart total ₹%.0f is below the minimum order amount ₹%.0f", e.Total, e.Min)
}

// UnavailableItemsError names every cart line that no longer resolves to an
// available menu item. The whole checkout fails; stale lines are never
// silently dropped.
type UnavailableItemsError struct {
	Items []string
}

func (e *UnavailableItemsError) Error() string {
	return "items no longer available: " + strings.Join(e.Items, ", ")
}
