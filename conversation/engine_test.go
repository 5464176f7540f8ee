package conversation

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/intent"
	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindOrCreateByPhone(ctx context.Context, phone string) (*models.User, error) {
	if u, ok := f.users[phone]; ok {
		return u, nil
	}
	u := &models.User{
		ID:                primitive.NewObjectID(),
		PhoneNumber:       phone,
		ConversationState: models.ConversationState{Stage: models.StageWelcome},
	}
	f.users[phone] = u
	return u, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (f *fakeUserStore) Save(ctx context.Context, user *models.User) error {
	f.users[user.PhoneNumber] = user
	return nil
}

type fakeVendorStore struct {
	vendors   map[primitive.ObjectID]*models.Vendor
	nearby    []stores.NearbyVendor
	nearbyErr error
}

func (f *fakeVendorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	v, ok := f.vendors[id]
	if !ok {
		return nil, stores.ErrNotFound
	}
	return v, nil
}

func (f *fakeVendorStore) FindNearby(ctx context.Context, lon, lat, radiusKm float64, limit int64) ([]stores.NearbyVendor, error) {
	return f.nearby, f.nearbyErr
}

func (f *fakeVendorStore) SearchByItemName(ctx context.Context, lon, lat, radiusKm float64, query string, limit int64) ([]stores.NearbyVendor, error) {
	return f.nearby, f.nearbyErr
}

func (f *fakeVendorStore) Create(ctx context.Context, vendor *models.Vendor) error {
	f.vendors[vendor.ID] = vendor
	return nil
}

func (f *fakeVendorStore) ReplaceMenu(ctx context.Context, id primitive.ObjectID, menu []models.MenuItem) error {
	f.vendors[id].MenuItems = menu
	return nil
}

type fakeOrderStore struct {
	orders []*models.Order
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	copied := *order
	f.orders = append(f.orders, &copied)
	return nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (f *fakeOrderStore) FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			copied := *f.orders[i]
			return &copied, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (f *fakeOrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID, status models.OrderStatus, limit int64) ([]models.Order, error) {
	var out []models.Order
	for i := len(f.orders) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		o := f.orders[i]
		if o.UserID == userID && (status == "" || o.OrderStatus == status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.PaymentID == paymentID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, stores.ErrNotFound
}

func (f *fakeOrderStore) Update(ctx context.Context, order *models.Order) error {
	for i, o := range f.orders {
		if o.ID == order.ID {
			copied := *order
			f.orders[i] = &copied
			return nil
		}
	}
	return stores.ErrNotFound
}

type fakeDedupStore struct {
	seen map[string]bool
}

func (f *fakeDedupStore) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

type sentMessage struct {
	To  string
	Msg models.Message
}

type fakeMessageGateway struct {
	sent []sentMessage
}

func (f *fakeMessageGateway) Send(ctx context.Context, to string, msg models.Message) error {
	f.sent = append(f.sent, sentMessage{To: to, Msg: msg})
	return nil
}

type fakePaymentGateway struct{}

func (f *fakePaymentGateway) CreateOrder(ctx context.Context, amountRupees float64, receipt string) (*gateways.PaymentOrder, error) {
	return &gateways.PaymentOrder{ID: "pay_test", Amount: int64(amountRupees * 100)}, nil
}

func (f *fakePaymentGateway) CreatePaymentLink(ctx context.Context, amountRupees float64, description, phone, referenceID string) (string, error) {
	return "https://rzp.io/l/test", nil
}

func (f *fakePaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return true
}

func (f *fakePaymentGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return true
}

type fixture struct {
	engine   *Engine
	users    *fakeUserStore
	vendors  *fakeVendorStore
	orders   *fakeOrderStore
	messages *fakeMessageGateway
	vendor   *models.Vendor
	idliID   primitive.ObjectID
	dosaID   primitive.ObjectID
}

func newFixture() *fixture {
	idliID := primitive.NewObjectID()
	dosaID := primitive.NewObjectID()
	vendor := &models.Vendor{
		ID:             primitive.NewObjectID(),
		BusinessName:   "Amma's Kitchen",
		CuisineTypes:   []string{"South Indian"},
		Rating:         4.5,
		ReviewCount:    120,
		IsActive:       true,
		MinOrderAmount: 100,
		DeliveryFee:    30,
		MenuItems: []models.MenuItem{
			{ID: idliID, Name: "Idli", Price: 40, Category: "Tiffin", IsAvailable: true},
			{ID: dosaID, Name: "Dosa", Price: 60, Category: "Tiffin", IsAvailable: true},
		},
	}

	users := &fakeUserStore{users: make(map[string]*models.User)}
	vendors := &fakeVendorStore{
		vendors: map[primitive.ObjectID]*models.Vendor{vendor.ID: vendor},
		nearby:  []stores.NearbyVendor{{Vendor: *vendor, DistanceKm: 1.2, IsOpen: true}},
	}
	orders := &fakeOrderStore{}
	messages := &fakeMessageGateway{}
	logger := zap.NewNop()

	svc := checkout.NewService(users, vendors, orders, &fakePaymentGateway{}, messages, 0, logger)
	engine := NewEngine(Options{
		Users:    users,
		Vendors:  vendors,
		Orders:   orders,
		Dedup:    &fakeDedupStore{seen: make(map[string]bool)},
		Detector: intent.NewRuleDetector(),
		Messages: messages,
		Checkout: svc,
		Logger:   logger,
	})

	return &fixture{
		engine:   engine,
		users:    users,
		vendors:  vendors,
		orders:   orders,
		messages: messages,
		vendor:   vendor,
		idliID:   idliID,
		dosaID:   dosaID,
	}
}

// readyUser seeds a user past onboarding: English, one address, main menu.
func (f *fixture) readyUser(phone string) *models.User {
	u := &models.User{
		ID:                primitive.NewObjectID(),
		PhoneNumber:       phone,
		PreferredLanguage: models.LanguageEnglish,
		ConversationState: models.ConversationState{Stage: models.StageMainMenu},
	}
	u.AddAddress(models.Address{
		Label:       "Home",
		FullAddress: "12 Gandhi Street, Chennai",
		Location:    models.NewGeoPoint(80.27, 13.08),
	})
	f.users.users[phone] = u
	return u
}

var eventSeq int

func textEvent(from, text string) models.InboundEvent {
	eventSeq++
	return models.InboundEvent{
		EventID: "ev-" + from + "-" + strconv.Itoa(eventSeq),
		From:    from,
		Kind:    models.InboundText,
		Text:    text,
	}
}

func buttonEvent(from, replyID string) models.InboundEvent {
	ev := textEvent(from, replyID)
	ev.Kind = models.InboundButton
	return ev
}

func listEvent(from, replyID string) models.InboundEvent {
	ev := textEvent(from, replyID)
	ev.Kind = models.InboundListSelection
	return ev
}

func locationEvent(from string, lat, lon float64) models.InboundEvent {
	ev := textEvent(from, "")
	ev.Kind = models.InboundLocation
	ev.Latitude = lat
	ev.Longitude = lon
	ev.Address = "Shared pin"
	return ev
}

// drain returns messages sent since the last drain.
func (f *fixture) drain() []sentMessage {
	out := f.messages.sent
	f.messages.sent = nil
	return out
}

func (f *fixture) handle(t *testing.T, ev models.InboundEvent) []sentMessage {
	t.Helper()
	if err := f.engine.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	replies := f.drain()
	if len(replies) == 0 {
		t.Fatalf("no reply sent for event %q", ev.Text)
	}
	return replies
}

func bodiesContain(replies []sentMessage, substr string) bool {
	for _, r := range replies {
		if strings.Contains(r.Msg.Body, substr) {
			return true
		}
	}
	return false
}

func TestOnboardingFlow(t *testing.T) {
	f := newFixture()
	phone := "919800000001"

	replies := f.handle(t, textEvent(phone, "hi"))
	if len(replies) != 1 || replies[0].Msg.Type != models.MessageButtons {
		t.Fatalf("expected language buttons, got %+v", replies)
	}
	if replies[0].Msg.Buttons[0].ID != "english" || replies[0].Msg.Buttons[1].ID != "tamil" {
		t.Fatalf("unexpected language buttons: %+v", replies[0].Msg.Buttons)
	}
	user := f.users.users[phone]
	if user.ConversationState.Stage != models.StageLanguageSelection {
		t.Fatalf("stage = %q, want language_selection", user.ConversationState.Stage)
	}

	replies = f.handle(t, buttonEvent(phone, "english"))
	if user.PreferredLanguage != models.LanguageEnglish {
		t.Fatalf("language = %q, want english", user.PreferredLanguage)
	}
	last := replies[len(replies)-1]
	if last.Msg.Type != models.MessageLocationRequest {
		t.Fatalf("expected location request, got %+v", last.Msg)
	}
	if user.ConversationState.Stage != models.StageLocationSharing {
		t.Fatalf("stage = %q, want location_sharing", user.ConversationState.Stage)
	}

	replies = f.handle(t, locationEvent(phone, 13.08, 80.27))
	if len(user.Addresses) != 1 {
		t.Fatalf("addresses = %d, want 1", len(user.Addresses))
	}
	if user.Addresses[0].Location.Latitude() != 13.08 {
		t.Fatalf("latitude = %v", user.Addresses[0].Location.Latitude())
	}
	last = replies[len(replies)-1]
	if len(last.Msg.Buttons) != 3 || last.Msg.Buttons[0].ID != "nearby_vendors" {
		t.Fatalf("expected main menu buttons, got %+v", last.Msg.Buttons)
	}
	if user.ConversationState.Stage != models.StageMainMenu {
		t.Fatalf("stage = %q, want main_menu", user.ConversationState.Stage)
	}
}

func TestBrowseAddToCart(t *testing.T) {
	f := newFixture()
	phone := "919800000002"
	user := f.readyUser(phone)

	replies := f.handle(t, buttonEvent(phone, "nearby_vendors"))
	if replies[0].Msg.Type != models.MessageList {
		t.Fatalf("expected vendor list, got %+v", replies[0].Msg)
	}
	if got := replies[0].Msg.Rows[0].Title; got != "Amma's Kitchen (4.5★)" {
		t.Fatalf("row title = %q", got)
	}
	if user.ConversationState.Stage != models.StageVendorBrowsing {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}

	// Bare ordinal picks the first vendor.
	replies = f.handle(t, textEvent(phone, "1"))
	if !bodiesContain(replies, "Amma's Kitchen") {
		t.Fatalf("expected vendor info, got %+v", replies)
	}
	last := replies[len(replies)-1]
	if last.Msg.Type != models.MessageList || last.Msg.Rows[0].ID != "category:Tiffin" {
		t.Fatalf("expected category list, got %+v", last.Msg)
	}
	if user.ConversationState.Stage != models.StageVendorSelection {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}
	if user.Cart.VendorID != f.vendor.ID {
		t.Fatal("cart not bound to vendor")
	}

	replies = f.handle(t, listEvent(phone, "category:Tiffin"))
	last = replies[len(replies)-1]
	if last.Msg.Type != models.MessageList || len(last.Msg.Rows) != 2 {
		t.Fatalf("expected 2 item rows, got %+v", last.Msg)
	}
	if last.Msg.Rows[0].Title != "Idli - ₹40" {
		t.Fatalf("item row = %q", last.Msg.Rows[0].Title)
	}

	replies = f.handle(t, textEvent(phone, "1"))
	if !bodiesContain(replies, "Idli") {
		t.Fatalf("expected quantity prompt for Idli, got %+v", replies)
	}
	if user.ConversationState.Stage != models.StageItemSelection {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}

	// In item_selection a bare number is the quantity, not a list index.
	replies = f.handle(t, textEvent(phone, "3"))
	if len(user.Cart.Items) != 1 || user.Cart.Items[0].Quantity != 3 {
		t.Fatalf("cart = %+v", user.Cart.Items)
	}
	if user.Cart.Total != 120 {
		t.Fatalf("cart total = %v, want 120", user.Cart.Total)
	}
	last = replies[len(replies)-1]
	if len(last.Msg.Buttons) != 3 || last.Msg.Buttons[2].ID != "checkout" {
		t.Fatalf("expected cart option buttons, got %+v", last.Msg)
	}
	if user.ConversationState.Stage != models.StageCartManagement {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}
}

func TestOrdinalOutOfRangeReprompts(t *testing.T) {
	f := newFixture()
	phone := "919800000003"
	user := f.readyUser(phone)

	f.handle(t, buttonEvent(phone, "nearby_vendors"))
	replies := f.handle(t, textEvent(phone, "7"))

	if !bodiesContain(replies, "not one of the options") {
		t.Fatalf("expected re-prompt, got %+v", replies)
	}
	if user.ConversationState.Stage != models.StageVendorBrowsing {
		t.Fatalf("stage = %q, selection state lost", user.ConversationState.Stage)
	}
	data, ok := user.ConversationState.Data.(models.VendorListData)
	if !ok || len(data.Rows) != 1 {
		t.Fatalf("vendor rows lost: %+v", user.ConversationState.Data)
	}
}

func TestCheckoutBelowMinimumKeepsCart(t *testing.T) {
	f := newFixture()
	phone := "919800000004"
	user := f.readyUser(phone)
	idli, _ := f.vendor.MenuItemByID(f.idliID)
	user.Cart.AddItem(f.vendor.ID, idli, 2) // 80 < min 100
	user.ConversationState = models.ConversationState{Stage: models.StageCartManagement}

	replies := f.handle(t, buttonEvent(phone, "checkout"))

	if !bodiesContain(replies, "₹100") || !bodiesContain(replies, "₹80") {
		t.Fatalf("expected min-order amounts in reply, got %+v", replies)
	}
	if user.Cart.IsEmpty() {
		t.Fatal("cart cleared on failed checkout")
	}
	if user.ConversationState.Stage != models.StageCartManagement {
		t.Fatalf("stage = %q, want cart_management", user.ConversationState.Stage)
	}
	if len(f.orders.orders) != 0 {
		t.Fatal("order created below minimum")
	}
}

func TestCheckoutCODEndToEnd(t *testing.T) {
	f := newFixture()
	phone := "919800000005"
	user := f.readyUser(phone)
	idli, _ := f.vendor.MenuItemByID(f.idliID)
	user.Cart.AddItem(f.vendor.ID, idli, 3) // 120 >= min 100
	user.ConversationState = models.ConversationState{Stage: models.StageViewCart}

	replies := f.handle(t, buttonEvent(phone, "checkout"))
	if !bodiesContain(replies, "12 Gandhi Street") {
		t.Fatalf("expected address confirmation, got %+v", replies)
	}
	if user.ConversationState.Stage != models.StageAddressConfirmation {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}

	replies = f.handle(t, buttonEvent(phone, "confirm_address"))
	if replies[0].Msg.Buttons[0].ID != "payment_COD" {
		t.Fatalf("expected payment buttons, got %+v", replies[0].Msg)
	}

	f.handle(t, buttonEvent(phone, "payment_COD"))
	if user.ConversationState.Stage != models.StageSpecialInstructions {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}

	replies = f.handle(t, textEvent(phone, "no"))
	if len(f.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(f.orders.orders))
	}
	order := f.orders.orders[0]
	if order.PaymentMethod != models.PaymentCOD || order.GrandTotal != 150 {
		t.Fatalf("order = %+v", order)
	}
	if order.SpecialInstructions != "" {
		t.Fatalf("instructions = %q, want empty", order.SpecialInstructions)
	}
	if !user.Cart.IsEmpty() {
		t.Fatal("cart not cleared after order")
	}
	if !bodiesContain(replies, order.ID.Hex()) {
		t.Fatalf("expected order id in confirmation, got %+v", replies)
	}
}

func TestSpecialInstructionsKeptVerbatim(t *testing.T) {
	f := newFixture()
	phone := "919800000006"
	user := f.readyUser(phone)
	idli, _ := f.vendor.MenuItemByID(f.idliID)
	user.Cart.AddItem(f.vendor.ID, idli, 3)
	user.ConversationState = models.ConversationState{
		Stage: models.StageSpecialInstructions,
		Data:  models.PaymentData{Method: models.PaymentCOD},
	}

	f.handle(t, textEvent(phone, "less spicy please"))

	if len(f.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(f.orders.orders))
	}
	if got := f.orders.orders[0].SpecialInstructions; got != "less spicy please" {
		t.Fatalf("instructions = %q", got)
	}
}

func TestCrossVendorSelectionClearsCart(t *testing.T) {
	f := newFixture()
	phone := "919800000007"
	user := f.readyUser(phone)
	idli, _ := f.vendor.MenuItemByID(f.idliID)
	user.Cart.AddItem(f.vendor.ID, idli, 2)

	other := &models.Vendor{
		ID:           primitive.NewObjectID(),
		BusinessName: "Chettinad Corner",
		IsActive:     true,
		MenuItems: []models.MenuItem{
			{ID: primitive.NewObjectID(), Name: "Biryani", Price: 150, Category: "Rice", IsAvailable: true},
		},
	}
	f.vendors.vendors[other.ID] = other
	user.ConversationState = models.ConversationState{
		Stage: models.StageVendorBrowsing,
		Data: models.VendorListData{Rows: []models.ListingRow{
			{ID: other.ID.Hex(), Title: "Chettinad Corner"},
		}},
	}

	f.handle(t, listEvent(phone, other.ID.Hex()))

	if len(user.Cart.Items) != 0 {
		t.Fatalf("cart items survived vendor switch: %+v", user.Cart.Items)
	}
	if user.Cart.VendorID != other.ID {
		t.Fatal("cart not rebound to new vendor")
	}
}

func TestDuplicateEventDropped(t *testing.T) {
	f := newFixture()
	phone := "919800000008"
	f.readyUser(phone)

	ev := buttonEvent(phone, "nearby_vendors")
	f.handle(t, ev)

	if err := f.engine.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := f.drain(); len(got) != 0 {
		t.Fatalf("duplicate event produced %d messages", len(got))
	}
}

func TestStoreFailureResetsToMenu(t *testing.T) {
	f := newFixture()
	phone := "919800000009"
	user := f.readyUser(phone)
	f.vendors.nearbyErr = errors.New("mongo down")

	replies := f.handle(t, buttonEvent(phone, "nearby_vendors"))

	if !bodiesContain(replies, "something went wrong") {
		t.Fatalf("expected apology, got %+v", replies)
	}
	last := replies[len(replies)-1]
	if len(last.Msg.Buttons) != 3 {
		t.Fatalf("expected main menu after reset, got %+v", last.Msg)
	}
	if user.ConversationState.Stage != models.StageMainMenu {
		t.Fatalf("stage = %q, want main_menu", user.ConversationState.Stage)
	}
}

func TestUnknownTextFallsBackToMenu(t *testing.T) {
	f := newFixture()
	phone := "919800000010"
	f.readyUser(phone)

	replies := f.handle(t, textEvent(phone, "asdfghjkl qwerty"))

	if !bodiesContain(replies, "didn't understand") {
		t.Fatalf("expected invalid-option note, got %+v", replies)
	}
}

func TestMainMenuIntentEscapesAnyStage(t *testing.T) {
	f := newFixture()
	phone := "919800000011"
	user := f.readyUser(phone)
	user.ConversationState = models.ConversationState{
		Stage: models.StagePaymentSelection,
	}

	f.handle(t, textEvent(phone, "main menu"))

	if user.ConversationState.Stage != models.StageMainMenu {
		t.Fatalf("stage = %q, want main_menu", user.ConversationState.Stage)
	}
}

func TestLocationSharedMidFlowAppendsAddress(t *testing.T) {
	f := newFixture()
	phone := "919800000012"
	user := f.readyUser(phone)
	user.ConversationState = models.ConversationState{Stage: models.StageCartManagement}

	f.handle(t, locationEvent(phone, 12.97, 77.59))

	if len(user.Addresses) != 2 {
		t.Fatalf("addresses = %d, want 2", len(user.Addresses))
	}
	if user.ConversationState.Stage != models.StageCartManagement {
		t.Fatalf("stage = %q, location share must not change flow", user.ConversationState.Stage)
	}
	if _, ok := user.DefaultAddress(); !ok {
		t.Fatal("no default address")
	}
	addr, _ := user.DefaultAddress()
	if addr.Location.Latitude() != 12.97 {
		t.Fatalf("default address not the new one: %+v", addr)
	}
}

func TestFoodSearchFlow(t *testing.T) {
	f := newFixture()
	phone := "919800000013"
	user := f.readyUser(phone)

	replies := f.handle(t, textEvent(phone, "search idli"))
	if replies[0].Msg.Type != models.MessageList {
		t.Fatalf("expected search results list, got %+v", replies[0].Msg)
	}
	wantID := f.vendor.ID.Hex() + ":" + f.idliID.Hex()
	if replies[0].Msg.Rows[0].ID != wantID {
		t.Fatalf("row id = %q, want %q", replies[0].Msg.Rows[0].ID, wantID)
	}
	if user.ConversationState.Stage != models.StageFoodSearch {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}

	replies = f.handle(t, textEvent(phone, "1"))
	if !bodiesContain(replies, "Idli") {
		t.Fatalf("expected quantity prompt, got %+v", replies)
	}
	if user.ConversationState.Stage != models.StageItemSelection {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}
	if user.Cart.VendorID != f.vendor.ID {
		t.Fatal("cart not bound to search result vendor")
	}
}

func TestFeedbackButtonRecordsScore(t *testing.T) {
	f := newFixture()
	phone := "919800000014"
	user := f.readyUser(phone)
	f.orders.orders = append(f.orders.orders, &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      user.ID,
		OrderStatus: models.OrderDelivered,
	})

	replies := f.handle(t, buttonEvent(phone, "feedback_5"))

	if !bodiesContain(replies, "Thank you for your feedback") {
		t.Fatalf("expected thanks, got %+v", replies)
	}
	order := f.orders.orders[0]
	if order.Feedback == nil || order.Feedback.Score != 5 {
		t.Fatalf("feedback = %+v", order.Feedback)
	}
	if user.ConversationState.Stage != models.StageMainMenu {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}
}

func TestOrderHistoryShowsRecentOrders(t *testing.T) {
	f := newFixture()
	phone := "919800000015"
	user := f.readyUser(phone)
	f.orders.orders = append(f.orders.orders, &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      user.ID,
		VendorName:  "Amma's Kitchen",
		GrandTotal:  150,
		OrderStatus: models.OrderDelivered,
		CreatedAt:   time.Now(),
	})

	replies := f.handle(t, buttonEvent(phone, "my_orders"))

	if !bodiesContain(replies, "Amma's Kitchen") || !bodiesContain(replies, "₹150") {
		t.Fatalf("expected order line, got %+v", replies)
	}
	if user.ConversationState.Stage != models.StageOrderHistory {
		t.Fatalf("stage = %q", user.ConversationState.Stage)
	}
}
