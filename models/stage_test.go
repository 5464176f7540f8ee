package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversationStateRoundTrip(t *testing.T) {
	vendorID := primitive.NewObjectID()
	itemID := primitive.NewObjectID()

	cases := []ConversationState{
		{Stage: StageMainMenu},
		{Stage: StageVendorSelection, Data: VendorListData{Rows: []ListingRow{{ID: vendorID.Hex(), Title: "Amma's Kitchen", Description: "South Indian"}}}},
		{Stage: StageMenuBrowsing, Data: CategoryListData{VendorID: vendorID, Rows: []ListingRow{{ID: "category:Tiffin", Title: "Tiffin"}}}},
		{Stage: StageItemSelection, Data: ItemListData{VendorID: vendorID, Category: "Tiffin", Rows: []ListingRow{{ID: "item:" + itemID.Hex(), Title: "Idli - ₹40"}}}},
		{Stage: StageCartManagement, Data: QuantityPromptData{VendorID: vendorID, ItemID: itemID}},
		{Stage: StageSpecialInstructions, Data: PaymentData{Method: PaymentUPI}},
		{Stage: StageOrderStatus, Data: OrderRefData{OrderID: primitive.NewObjectID()}},
	}

	for _, in := range cases {
		raw, err := bson.Marshal(in)
		if err != nil {
			t.Fatalf("marshal %s: %v", in.Stage, err)
		}
		var out ConversationState
		if err := bson.Unmarshal(raw, &out); err != nil {
			t.Fatalf("unmarshal %s: %v", in.Stage, err)
		}
		if out.Stage != in.Stage {
			t.Errorf("stage mismatch: got %s want %s", out.Stage, in.Stage)
		}
		if (in.Data == nil) != (out.Data == nil) {
			t.Fatalf("%s: data presence mismatch", in.Stage)
		}
		if in.Data != nil && out.Data.stageDataKind() != in.Data.stageDataKind() {
			t.Errorf("%s: kind mismatch: got %s want %s", in.Stage, out.Data.stageDataKind(), in.Data.stageDataKind())
		}
	}
}

func TestItemListDataSurvivesFields(t *testing.T) {
	vendorID := primitive.NewObjectID()
	in := ConversationState{
		Stage: StageItemSelection,
		Data:  ItemListData{VendorID: vendorID, Category: "Meals", Rows: []ListingRow{{ID: "item:x", Title: "Sambar Rice - ₹90", Description: "With papad"}}},
	}

	raw, err := bson.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out ConversationState
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}

	data, ok := out.Data.(ItemListData)
	if !ok {
		t.Fatalf("expected ItemListData, got %T", out.Data)
	}
	if data.VendorID != vendorID || data.Category != "Meals" || len(data.Rows) != 1 {
		t.Errorf("stage data fields lost in round trip: %+v", data)
	}
	if data.Rows[0].Description != "With papad" {
		t.Errorf("row description lost: %+v", data.Rows[0])
	}
}

func TestOrderApplyStatusHistory(t *testing.T) {
	var o Order
	t0 := mondayAt(12, 0)
	o.ApplyStatus(OrderPlaced, t0)
	o.ApplyStatus(OrderConfirmed, t0.Add(5*time.Minute))
	o.ApplyStatus(OrderPreparing, t0.Add(10*time.Minute))

	if len(o.StatusHistory) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(o.StatusHistory))
	}
	last := o.StatusHistory[len(o.StatusHistory)-1]
	if last.Status != o.OrderStatus {
		t.Errorf("last history status %s must equal current status %s", last.Status, o.OrderStatus)
	}
	if !o.StatusHistory[1].Timestamp.After(o.StatusHistory[0].Timestamp) {
		t.Errorf("history timestamps must be monotonic")
	}
}
