package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/intent"
	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

// resolveSelection maps a structured reply id or a bare ordinal onto the rows
// last shown. Ordinals are valid for 1..N only; anything else re-prompts.
func resolveSelection(res intent.Result, rows []models.ListingRow) (string, bool) {
	switch res.Intent {
	case intent.IntentSelection:
		return res.Slots.SelectionID, true
	case intent.IntentOrdinal:
		n := res.Slots.Ordinal
		if n >= 1 && n <= len(rows) {
			return rows[n-1].ID, true
		}
	}
	return "", false
}

func (e *Engine) handleWelcome(user *models.User, res intent.Result) []models.Message {
	if res.Intent == intent.IntentSetLanguage {
		return e.handleLanguageSelection(user, res)
	}
	if user.PreferredLanguage == models.LanguageUnset {
		user.ConversationState = models.ConversationState{Stage: models.StageLanguageSelection}
		return []models.Message{welcomeMessage()}
	}
	return e.afterLanguage(user)
}

// afterLanguage is welcome's post-language branch: request a location if none
// is saved, otherwise land on the main menu.
func (e *Engine) afterLanguage(user *models.User) []models.Message {
	if len(user.Addresses) == 0 {
		user.ConversationState = models.ConversationState{Stage: models.StageLocationSharing}
		return []models.Message{locationRequestMessage(user.PreferredLanguage)}
	}
	return e.showMainMenu(user, "")
}

func (e *Engine) handleLanguageSelection(user *models.User, res intent.Result) []models.Message {
	if res.Intent != intent.IntentSetLanguage {
		return []models.Message{languageRePrompt()}
	}
	user.PreferredLanguage = res.Slots.Language
	replies := []models.Message{models.TextMessage(languageConfirmed(user.PreferredLanguage))}
	return append(replies, e.afterLanguage(user)...)
}

func (e *Engine) handleLocationSharing(user *models.User, res intent.Result) []models.Message {
	if res.Intent != intent.IntentShareLocation {
		return []models.Message{locationRequestMessage(user.PreferredLanguage)}
	}
	e.saveLocation(user, res.Slots)
	replies := []models.Message{models.TextMessage(locationSavedText(user.PreferredLanguage))}
	return append(replies, e.showMainMenu(user, "")...)
}

// handleLocationAnywhere appends an address without disturbing whatever flow
// the user is in (a checkout retry picks the new default up).
func (e *Engine) handleLocationAnywhere(user *models.User, slots intent.Slots) []models.Message {
	e.saveLocation(user, slots)
	return []models.Message{models.TextMessage(locationSavedText(user.PreferredLanguage))}
}

func (e *Engine) saveLocation(user *models.User, slots intent.Slots) {
	full := slots.Address
	if full == "" {
		full = "Location shared via WhatsApp"
	}
	user.AddAddress(models.Address{
		Label:       "Shared Location",
		FullAddress: full,
		Location:    models.NewGeoPoint(slots.Longitude, slots.Latitude),
	})
}

func (e *Engine) showMainMenu(user *models.User, note string) []models.Message {
	user.ConversationState = models.ConversationState{Stage: models.StageMainMenu}
	return []models.Message{mainMenuMessage(user.PreferredLanguage, note)}
}

func (e *Engine) handleMainMenu(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage
	switch res.Intent {
	case intent.IntentGreeting:
		return e.showMainMenu(user, ""), nil
	case intent.IntentBrowseVendors:
		return e.showNearbyVendors(ctx, user)
	case intent.IntentSearchFood:
		if res.Slots.Query != "" {
			return e.searchFood(ctx, user, res.Slots.Query)
		}
		user.ConversationState = models.ConversationState{Stage: models.StageFoodSearch}
		return []models.Message{models.TextMessage(searchPromptText(lang))}, nil
	case intent.IntentMyOrders:
		return e.showOrderHistory(ctx, user)
	case intent.IntentOrderStatus:
		return e.showOrderStatus(ctx, user)
	case intent.IntentViewCart:
		return e.showCart(ctx, user)
	case intent.IntentClearCart:
		user.Cart.Clear()
		return append([]models.Message{models.TextMessage(cartClearedText(lang))},
			e.showMainMenu(user, "")...), nil
	case intent.IntentCheckout:
		return e.startCheckout(ctx, user)
	case intent.IntentHelp:
		return e.showHelp(user), nil
	case intent.IntentHelpOrdering, intent.IntentHelpPayment, intent.IntentHelpDelivery:
		return e.showHelpPage(user, res.Intent), nil
	case intent.IntentContactSupport:
		return e.showContactSupport(user), nil
	case intent.IntentSetLanguage:
		user.PreferredLanguage = res.Slots.Language
		return append([]models.Message{models.TextMessage(languageConfirmed(user.PreferredLanguage))},
			e.showMainMenu(user, "")...), nil
	default:
		return e.showMainMenu(user, invalidOptionNote(lang)), nil
	}
}

func (e *Engine) showNearbyVendors(ctx context.Context, user *models.User) ([]models.Message, error) {
	address, ok := user.DefaultAddress()
	if !ok {
		user.ConversationState = models.ConversationState{Stage: models.StageLocationSharing}
		return []models.Message{locationRequestMessage(user.PreferredLanguage)}, nil
	}

	nearby, err := e.vendors.FindNearby(ctx,
		address.Location.Longitude(), address.Location.Latitude(), e.radiusKm, listingLimit)
	if err != nil {
		return nil, fmt.Errorf("nearby vendors: %w", err)
	}
	if len(nearby) == 0 {
		return []models.Message{models.TextMessage(noVendorsText(user.PreferredLanguage))}, nil
	}

	rows := make([]models.ListingRow, 0, len(nearby))
	for _, n := range nearby {
		openMark := "🟢"
		if !n.IsOpen {
			openMark = "🔴"
		}
		rows = append(rows, models.ListingRow{
			ID:          n.Vendor.ID.Hex(),
			Title:       fmt.Sprintf("%s (%.1f★)", n.Vendor.BusinessName, n.Vendor.Rating),
			Description: fmt.Sprintf("%s %s • %.1fkm away", openMark, joinCuisines(&n.Vendor), n.DistanceKm),
		})
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageVendorBrowsing,
		Data:  models.VendorListData{Rows: rows},
	}
	return []models.Message{models.ListMessage(
		vendorsFoundText(user.PreferredLanguage, len(rows)),
		pick(user.PreferredLanguage, "View Cooks", "பார்க்க"),
		pick(user.PreferredLanguage, "Home Cooks", "உணவகங்கள்"),
		rows,
	)}, nil
}

func (e *Engine) handleVendorBrowsing(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	data, _ := user.ConversationState.Data.(models.VendorListData)
	id, ok := resolveSelection(res, data.Rows)
	if !ok {
		return []models.Message{models.TextMessage(invalidSelectionText(user.PreferredLanguage))}, nil
	}
	vendorID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return []models.Message{models.TextMessage(invalidSelectionText(user.PreferredLanguage))}, nil
	}
	return e.showVendorCategories(ctx, user, vendorID, true)
}

// showVendorCategories opens a vendor: shows its info card, binds the cart to
// it (clearing any other vendor's lines) and lists the menu categories.
func (e *Engine) showVendorCategories(ctx context.Context, user *models.User, vendorID primitive.ObjectID, withInfo bool) ([]models.Message, error) {
	lang := user.PreferredLanguage

	vendor, err := e.vendors.FindByID(ctx, vendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	if user.Cart.VendorID != vendor.ID {
		user.Cart.Clear()
		user.Cart.VendorID = vendor.ID
	}

	var replies []models.Message
	if withInfo {
		replies = append(replies, models.TextMessage(
			vendorInfoText(lang, vendor, vendor.IsCurrentlyOpen(e.now()))))
	}

	// First-seen order keeps the listing stable across messages.
	var categories []string
	counts := make(map[string]int)
	for _, item := range vendor.MenuItems {
		if !item.IsAvailable {
			continue
		}
		if counts[item.Category] == 0 {
			categories = append(categories, item.Category)
		}
		counts[item.Category]++
	}
	if len(categories) == 0 {
		return append(replies, models.TextMessage(noItemsInCategoryText(lang))), nil
	}

	rows := make([]models.ListingRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, models.ListingRow{
			ID:          "category:" + c,
			Title:       c,
			Description: fmt.Sprintf("%d items", counts[c]),
		})
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageVendorSelection,
		Data:  models.CategoryListData{VendorID: vendor.ID, Rows: rows},
	}
	return append(replies, models.ListMessage(
		categoriesPromptText(lang),
		pick(lang, "View Menu", "மெனு"),
		pick(lang, "Categories", "வகைகள்"),
		rows,
	)), nil
}

func (e *Engine) handleVendorSelection(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage
	data, _ := user.ConversationState.Data.(models.CategoryListData)
	id, ok := resolveSelection(res, data.Rows)
	if !ok {
		return []models.Message{models.TextMessage(invalidSelectionText(lang))}, nil
	}
	category := strings.TrimPrefix(id, "category:")

	vendor, err := e.vendors.FindByID(ctx, data.VendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	items := vendor.AvailableByCategory()[category]
	if len(items) == 0 {
		return []models.Message{models.TextMessage(noItemsInCategoryText(lang))}, nil
	}

	rows := make([]models.ListingRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.ListingRow{
			ID:          "item:" + item.ID.Hex(),
			Title:       fmt.Sprintf("%s - ₹%.0f", item.Name, item.Price),
			Description: item.Description,
		})
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageMenuBrowsing,
		Data:  models.ItemListData{VendorID: vendor.ID, Category: category, Rows: rows},
	}
	return []models.Message{models.ListMessage(
		itemsPromptText(lang, category),
		pick(lang, "View Items", "உணவுகள்"),
		category,
		rows,
	)}, nil
}

func (e *Engine) handleMenuBrowsing(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage
	data, _ := user.ConversationState.Data.(models.ItemListData)
	id, ok := resolveSelection(res, data.Rows)
	if !ok {
		return []models.Message{models.TextMessage(invalidSelectionText(lang))}, nil
	}
	itemID, err := primitive.ObjectIDFromHex(strings.TrimPrefix(id, "item:"))
	if err != nil {
		return []models.Message{models.TextMessage(invalidSelectionText(lang))}, nil
	}
	return e.promptQuantity(ctx, user, data.VendorID, itemID)
}

func (e *Engine) promptQuantity(ctx context.Context, user *models.User, vendorID, itemID primitive.ObjectID) ([]models.Message, error) {
	lang := user.PreferredLanguage

	vendor, err := e.vendors.FindByID(ctx, vendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	item, found := vendor.MenuItemByID(itemID)
	if !found || !item.IsAvailable {
		return []models.Message{models.TextMessage(itemUnavailableText(lang))}, nil
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageItemSelection,
		Data:  models.QuantityPromptData{VendorID: vendorID, ItemID: itemID},
	}
	return []models.Message{quantityPromptMessage(lang, item.Name)}, nil
}

func (e *Engine) handleItemSelection(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage
	data, _ := user.ConversationState.Data.(models.QuantityPromptData)

	// In this stage a bare number is the quantity, not a list ordinal.
	quantity := 0
	switch res.Intent {
	case intent.IntentQuantity:
		quantity = res.Slots.Quantity
	case intent.IntentOrdinal:
		quantity = res.Slots.Ordinal
	}
	if quantity < 1 || quantity > 50 {
		item := ""
		if vendor, err := e.vendors.FindByID(ctx, data.VendorID); err == nil {
			if it, found := vendor.MenuItemByID(data.ItemID); found {
				item = it.Name
			}
		}
		return []models.Message{quantityPromptMessage(lang, item)}, nil
	}

	vendor, err := e.vendors.FindByID(ctx, data.VendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	item, found := vendor.MenuItemByID(data.ItemID)
	if !found || !item.IsAvailable {
		return []models.Message{models.TextMessage(itemUnavailableText(lang))}, nil
	}

	user.Cart.AddItem(vendor.ID, item, quantity)
	user.ConversationState = models.ConversationState{Stage: models.StageCartManagement}
	return []models.Message{cartOptionsMessage(lang,
		addedToCartText(lang, item.Name, quantity, &user.Cart))}, nil
}

func (e *Engine) handleCartOptions(ctx context.Context, user *models.User, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage
	switch res.Intent {
	case intent.IntentAddMore:
		if user.Cart.VendorID.IsZero() {
			return e.showNearbyVendors(ctx, user)
		}
		return e.showVendorCategories(ctx, user, user.Cart.VendorID, false)
	case intent.IntentViewCart:
		return e.showCart(ctx, user)
	case intent.IntentClearCart:
		user.Cart.Clear()
		return append([]models.Message{models.TextMessage(cartClearedText(lang))},
			e.showMainMenu(user, "")...), nil
	case intent.IntentCheckout:
		return e.startCheckout(ctx, user)
	default:
		return e.handleMainMenu(ctx, user, res)
	}
}

func (e *Engine) showCart(ctx context.Context, user *models.User) ([]models.Message, error) {
	lang := user.PreferredLanguage
	if user.Cart.IsEmpty() {
		// Read-only short circuit, no state transition.
		return []models.Message{models.TextMessage(emptyCartText(lang))}, nil
	}

	vendor, err := e.vendors.FindByID(ctx, user.Cart.VendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, pick(lang, "*Your Cart*\nFrom %s\n\n", "*உங்கள் கார்ட்*\n%s உணவகத்திலிருந்து\n\n"), vendor.BusinessName)
	for i, item := range user.Cart.Items {
		fmt.Fprintf(&b, "%d. %s x%d - ₹%.0f\n", i+1, item.Name, item.Quantity, item.UnitPrice*float64(item.Quantity))
	}
	fmt.Fprintf(&b, pick(lang,
		"\n*SUBTOTAL: ₹%.0f*\n*DELIVERY FEE: ₹%.0f*\n*GRAND TOTAL: ₹%.0f*",
		"\n*மொத்தம்: ₹%.0f*\n*டெலிவரி கட்டணம்: ₹%.0f*\n*இறுதித் தொகை: ₹%.0f*"),
		user.Cart.Total, vendor.DeliveryFee, user.Cart.Total+vendor.DeliveryFee)

	user.ConversationState = models.ConversationState{Stage: models.StageViewCart}
	return []models.Message{
		models.TextMessage(b.String()),
		viewCartOptionsMessage(lang),
	}, nil
}

// startCheckout runs the pre-flight validations. Any failure emits a specific
// message and leaves the stage unchanged so the user can resolve and retry
// the same intent.
func (e *Engine) startCheckout(ctx context.Context, user *models.User) ([]models.Message, error) {
	lang := user.PreferredLanguage

	if user.Cart.IsEmpty() {
		return []models.Message{models.TextMessage(emptyCartText(lang))}, nil
	}

	vendor, err := e.vendors.FindByID(ctx, user.Cart.VendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(vendorGoneText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}

	if user.Cart.Total < vendor.MinOrderAmount {
		return []models.Message{models.TextMessage(
			belowMinOrderText(lang, vendor.MinOrderAmount, user.Cart.Total))}, nil
	}

	address, ok := user.DefaultAddress()
	if !ok {
		return []models.Message{locationRequestMessage(lang)}, nil
	}

	user.ConversationState = models.ConversationState{Stage: models.StageAddressConfirmation}
	return []models.Message{confirmAddressMessage(lang, address.FullAddress)}, nil
}

func (e *Engine) handleAddressConfirmation(user *models.User, res intent.Result) []models.Message {
	lang := user.PreferredLanguage
	switch res.Intent {
	case intent.IntentConfirmAddress, intent.IntentAffirm:
		user.ConversationState = models.ConversationState{Stage: models.StagePaymentSelection}
		return []models.Message{paymentMethodMessage(lang)}
	case intent.IntentNewAddress, intent.IntentDeny:
		// Re-enter the address capture loop; the cart is untouched.
		user.ConversationState = models.ConversationState{Stage: models.StageLocationSharing}
		return []models.Message{locationRequestMessage(lang)}
	default:
		address, _ := user.DefaultAddress()
		return []models.Message{confirmAddressMessage(lang, address.FullAddress)}
	}
}

func (e *Engine) handlePaymentSelection(user *models.User, res intent.Result) []models.Message {
	lang := user.PreferredLanguage
	if res.Intent != intent.IntentSelectPayment || !res.Slots.Method.Valid() {
		return []models.Message{paymentMethodMessage(lang)}
	}
	user.ConversationState = models.ConversationState{
		Stage: models.StageSpecialInstructions,
		Data:  models.PaymentData{Method: res.Slots.Method},
	}
	return []models.Message{models.TextMessage(instructionsPromptText(lang))}
}

func (e *Engine) handleSpecialInstructions(ctx context.Context, user *models.User, ev models.InboundEvent, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage

	data, ok := user.ConversationState.Data.(models.PaymentData)
	if !ok || !data.Method.Valid() {
		return e.resetToMenu(user), nil
	}

	// The raw text is authoritative here: a literal "no" means no
	// instructions, anything else is kept verbatim.
	instructions := strings.TrimSpace(ev.Text)
	if res.Intent == intent.IntentDeny || strings.EqualFold(instructions, "no") {
		instructions = ""
	}

	placed, err := e.checkout.PlaceOrder(ctx, user, data.Method, instructions)
	if err != nil {
		return e.checkoutFailureReplies(user, err), nil
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageOrderStatus,
		Data:  models.OrderRefData{OrderID: placed.Order.ID},
	}
	return []models.Message{
		models.TextMessage(orderPlacedText(lang, placed.Order.ID.Hex())),
		mainMenuMessage(lang, ""),
	}, nil
}

// checkoutFailureReplies turns checkout errors into localized chat messages.
// Validation failures keep the cart and return to the menu; the user can fix
// the problem and try again.
func (e *Engine) checkoutFailureReplies(user *models.User, err error) []models.Message {
	lang := user.PreferredLanguage

	var reply string
	var minErr *checkout.BelowMinOrderError
	var staleErr *checkout.UnavailableItemsError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		reply = emptyCartText(lang)
	case errors.Is(err, checkout.ErrVendorUnavailable):
		reply = vendorGoneText(lang)
	case errors.Is(err, checkout.ErrNoAddress):
		user.ConversationState = models.ConversationState{Stage: models.StageLocationSharing}
		return []models.Message{locationRequestMessage(lang)}
	case errors.As(err, &minErr):
		reply = belowMinOrderText(lang, minErr.Min, minErr.Total)
	case errors.As(err, &staleErr):
		reply = pick(lang,
			"Some items in your cart are no longer available: "+strings.Join(staleErr.Items, ", ")+". Please update your cart and try again.",
			"உங்கள் கார்ட்டில் உள்ள சில உணவுகள் இப்போது கிடைக்கவில்லை: "+strings.Join(staleErr.Items, ", ")+". கார்ட்டைப் புதுப்பித்து மீண்டும் முயற்சிக்கவும்.")
	default:
		e.logger.Error("order placement failed",
			zap.String("from", user.PhoneNumber),
			zap.Error(err))
		reply = checkoutFailedText(lang)
	}

	replies := []models.Message{models.TextMessage(reply)}
	return append(replies, e.showMainMenu(user, "")...)
}

func (e *Engine) handleFoodSearch(ctx context.Context, user *models.User, ev models.InboundEvent, res intent.Result) ([]models.Message, error) {
	lang := user.PreferredLanguage

	if data, ok := user.ConversationState.Data.(models.SearchListData); ok {
		id, found := resolveSelection(res, data.Rows)
		if !found {
			return []models.Message{models.TextMessage(invalidSelectionText(lang))}, nil
		}
		vendorHex, itemHex, split := strings.Cut(id, ":")
		vendorID, err1 := primitive.ObjectIDFromHex(vendorHex)
		itemID, err2 := primitive.ObjectIDFromHex(itemHex)
		if !split || err1 != nil || err2 != nil {
			return []models.Message{models.TextMessage(invalidSelectionText(lang))}, nil
		}
		// A search result can come from a different vendor than the cart.
		if user.Cart.VendorID != vendorID {
			user.Cart.Clear()
			user.Cart.VendorID = vendorID
		}
		return e.promptQuantity(ctx, user, vendorID, itemID)
	}

	query := strings.TrimSpace(ev.Text)
	if res.Slots.Query != "" {
		query = res.Slots.Query
	}
	if query == "" {
		return []models.Message{models.TextMessage(searchPromptText(lang))}, nil
	}
	return e.searchFood(ctx, user, query)
}

func (e *Engine) searchFood(ctx context.Context, user *models.User, query string) ([]models.Message, error) {
	lang := user.PreferredLanguage

	address, ok := user.DefaultAddress()
	if !ok {
		user.ConversationState = models.ConversationState{Stage: models.StageLocationSharing}
		return []models.Message{locationRequestMessage(lang)}, nil
	}

	nearby, err := e.vendors.SearchByItemName(ctx,
		address.Location.Longitude(), address.Location.Latitude(), e.radiusKm, query, listingLimit)
	if err != nil {
		return nil, fmt.Errorf("search vendors: %w", err)
	}

	var rows []models.ListingRow
	lowered := strings.ToLower(query)
	for _, n := range nearby {
		for _, item := range n.Vendor.MenuItems {
			if !item.IsAvailable || !strings.Contains(strings.ToLower(item.Name), lowered) {
				continue
			}
			rows = append(rows, models.ListingRow{
				ID:          n.Vendor.ID.Hex() + ":" + item.ID.Hex(),
				Title:       fmt.Sprintf("%s - ₹%.0f", item.Name, item.Price),
				Description: fmt.Sprintf("From: %s (%.1f★)", n.Vendor.BusinessName, n.Vendor.Rating),
			})
			if len(rows) == listingLimit {
				break
			}
		}
		if len(rows) == listingLimit {
			break
		}
	}

	if len(rows) == 0 {
		return append([]models.Message{models.TextMessage(searchNoResultsText(lang, query))},
			e.showMainMenu(user, "")...), nil
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageFoodSearch,
		Data:  models.SearchListData{Rows: rows},
	}
	return []models.Message{models.ListMessage(
		searchResultsText(lang, len(rows), query),
		pick(lang, "View Results", "முடிவுகள்"),
		pick(lang, "Search Results", "தேடல் முடிவுகள்"),
		rows,
	)}, nil
}

func (e *Engine) showOrderStatus(ctx context.Context, user *models.User) ([]models.Message, error) {
	lang := user.PreferredLanguage

	var order *models.Order
	var err error
	if ref, ok := user.ConversationState.Data.(models.OrderRefData); ok && user.ConversationState.Stage == models.StageOrderStatus {
		order, err = e.orders.FindByID(ctx, ref.OrderID)
	} else {
		order, err = e.orders.FindLatestByUser(ctx, user.ID)
	}
	if errors.Is(err, stores.ErrNotFound) {
		return append([]models.Message{models.TextMessage(noOrdersText(lang))},
			e.showMainMenu(user, "")...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	text := fmt.Sprintf(pick(lang,
		"*Order Status*\nOrder ID: %s\nVendor: %s\nStatus: %s\nTotal: ₹%.0f",
		"*ஆர்டர் நிலை*\nஆர்டர் ஐடி: %s\nஉணவகம்: %s\nநிலை: %s\nமொத்தம்: ₹%.0f"),
		order.ID.Hex(), order.VendorName, order.OrderStatus, order.GrandTotal)
	if order.OrderStatus == models.OrderConfirmed && !order.EstimatedDeliveryTime.IsZero() {
		text += pick(lang, "\nEstimated delivery: ", "\nஎதிர்பார்க்கப்படும் டெலிவரி: ") +
			order.EstimatedDeliveryTime.Format("15:04")
	}

	user.ConversationState = models.ConversationState{
		Stage: models.StageOrderStatus,
		Data:  models.OrderRefData{OrderID: order.ID},
	}
	return []models.Message{models.ButtonsMessage(text, backToMenuButton(lang))}, nil
}

func (e *Engine) showOrderHistory(ctx context.Context, user *models.User) ([]models.Message, error) {
	lang := user.PreferredLanguage

	orders, err := e.orders.FindByUser(ctx, user.ID, "", historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	if len(orders) == 0 {
		return append([]models.Message{models.TextMessage(noOrdersText(lang))},
			e.showMainMenu(user, "")...), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, pick(lang,
		"*Previous Orders*\nYour most recent %d orders:\n",
		"*முந்தைய ஆர்டர்கள்*\nஉங்கள் சமீபத்திய %d ஆர்டர்கள்:\n"), len(orders))
	for i, o := range orders {
		fmt.Fprintf(&b, "%d. %s - %s - ₹%.0f - %s\n",
			i+1, o.CreatedAt.Format("02/01/2006"), o.VendorName, o.GrandTotal, o.OrderStatus)
	}

	user.ConversationState = models.ConversationState{Stage: models.StageOrderHistory}
	return []models.Message{models.ButtonsMessage(b.String(),
		models.Button{ID: "track_order", Title: pick(lang, "Track Latest", "கண்காணிக்க")},
		backToMenuButton(lang))}, nil
}

func (e *Engine) showHelp(user *models.User) []models.Message {
	user.ConversationState = models.ConversationState{Stage: models.StageHelp}
	return []models.Message{helpMessage(user.PreferredLanguage)}
}

func (e *Engine) showHelpPage(user *models.User, in intent.Intent) []models.Message {
	var stage models.Stage
	switch in {
	case intent.IntentHelpOrdering:
		stage = models.StageHelpOrdering
	case intent.IntentHelpPayment:
		stage = models.StageHelpPayment
	default:
		stage = models.StageHelpDelivery
	}
	user.ConversationState = models.ConversationState{Stage: stage}
	return []models.Message{helpPageMessage(user.PreferredLanguage, stage)}
}

func (e *Engine) showContactSupport(user *models.User) []models.Message {
	user.ConversationState = models.ConversationState{Stage: models.StageContactSupport}
	return []models.Message{contactSupportMessage(user.PreferredLanguage)}
}

func (e *Engine) handleFeedback(ctx context.Context, user *models.User, score int) ([]models.Message, error) {
	lang := user.PreferredLanguage

	order, err := e.orders.FindLatestByUser(ctx, user.ID)
	if errors.Is(err, stores.ErrNotFound) {
		return e.showMainMenu(user, ""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order for feedback: %w", err)
	}
	if err := e.checkout.RecordFeedback(ctx, order.ID, score); err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}

	return append([]models.Message{models.TextMessage(feedbackThanksText(lang))},
		e.showMainMenu(user, "")...), nil
}
