package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func menuItem(name string, price float64) MenuItem {
	return MenuItem{ID: primitive.NewObjectID(), Name: name, Price: price, Category: "Meals", IsAvailable: true}
}

func TestCartAddItemRecomputesTotal(t *testing.T) {
	vendorID := primitive.NewObjectID()
	idli := menuItem("Idli", 40)
	dosa := menuItem("Dosa", 60)

	var cart Cart
	cart.AddItem(vendorID, idli, 2)
	cart.AddItem(vendorID, dosa, 1)

	if cart.Total != 140 {
		t.Errorf("expected total 140, got %f", cart.Total)
	}

	// Incrementing an existing line keeps one line and recomputes.
	cart.AddItem(vendorID, idli, 1)
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.Total != 180 {
		t.Errorf("expected total 180, got %f", cart.Total)
	}

	var want float64
	for _, it := range cart.Items {
		want += it.UnitPrice * float64(it.Quantity)
	}
	if cart.Total != want {
		t.Errorf("total %f does not match recomputed sum %f", cart.Total, want)
	}
}

func TestCartVendorSwitchClears(t *testing.T) {
	vendorA := primitive.NewObjectID()
	vendorB := primitive.NewObjectID()

	var cart Cart
	cart.AddItem(vendorA, menuItem("Idli", 40), 2)
	cart.AddItem(vendorB, menuItem("Biryani", 180), 1)

	if cart.VendorID != vendorB {
		t.Errorf("expected cart vendor to switch to B")
	}
	if len(cart.Items) != 1 || cart.Items[0].Name != "Biryani" {
		t.Fatalf("expected cart to hold only vendor B's item, got %+v", cart.Items)
	}
	if cart.Total != 180 {
		t.Errorf("expected total 180 after switch, got %f", cart.Total)
	}
}

func TestCartClear(t *testing.T) {
	var cart Cart
	cart.AddItem(primitive.NewObjectID(), menuItem("Idli", 40), 3)
	cart.Clear()

	if !cart.IsEmpty() {
		t.Errorf("expected empty cart after clear")
	}
	if cart.Total != 0 {
		t.Errorf("expected zero total after clear, got %f", cart.Total)
	}
}

func TestAddAddressSetsDefault(t *testing.T) {
	var u User
	u.AddAddress(Address{Label: "Home", FullAddress: "1st Cross", Location: NewGeoPoint(77.59, 12.97)})
	u.AddAddress(Address{Label: "Work", FullAddress: "MG Road", Location: NewGeoPoint(77.61, 12.98)})

	if u.DefaultAddressIndex != 1 {
		t.Errorf("expected default index 1, got %d", u.DefaultAddressIndex)
	}
	addr, ok := u.DefaultAddress()
	if !ok || addr.Label != "Work" {
		t.Errorf("expected most recent address as default, got %+v", addr)
	}
}
