package conversation

import (
	"fmt"

	"github.com/ajith2401/delivery-app-fresh/models"
)

// pick selects the copy for the user's language; unset falls back to English.
func pick(lang models.Language, en, ta string) string {
	if lang == models.LanguageTamil {
		return ta
	}
	return en
}

func apologyText(lang models.Language) string {
	return pick(lang,
		"I'm sorry, something went wrong on our side. Let's start over from the main menu.",
		"மன்னிக்கவும், எங்கள் தரப்பில் ஏதோ தவறு நடந்துவிட்டது. முகப்பு மெனுவிலிருந்து மீண்டும் தொடங்குவோம்.")
}

func welcomeMessage() models.Message {
	return models.ButtonsMessage(
		"வணக்கம்! Welcome to TamilFoods! 🍲\nI can help you order delicious home-cooked food from nearby cooks.\n\nPlease choose your preferred language:",
		models.Button{ID: "english", Title: "English"},
		models.Button{ID: "tamil", Title: "தமிழ்"},
	)
}

func languageRePrompt() models.Message {
	return models.ButtonsMessage(
		"Please choose your preferred language. / உங்கள் மொழியைத் தேர்ந்தெடுக்கவும்:",
		models.Button{ID: "english", Title: "English"},
		models.Button{ID: "tamil", Title: "தமிழ்"},
	)
}

func languageConfirmed(lang models.Language) string {
	return pick(lang, "English language selected. 🎉", "தமிழ் மொழி தேர்ந்தெடுக்கப்பட்டது. 🎉")
}

func locationRequestMessage(lang models.Language) models.Message {
	return models.LocationRequestMessage(pick(lang,
		"We can show you nearby home cooks if we have your location. Please share it using the button below.",
		"உங்கள் இருப்பிடம் கிடைத்தால் அருகிலுள்ள உணவகங்களைக் காண்பிக்க முடியும். கீழே உள்ள பட்டனைப் பயன்படுத்தி பகிரவும்."))
}

func locationSavedText(lang models.Language) string {
	return pick(lang, "Location saved! 📍", "உங்கள் இருப்பிடம் சேமிக்கப்பட்டது! 📍")
}

func mainMenuMessage(lang models.Language, note string) models.Message {
	body := pick(lang, "How can I help you today?", "நான் எப்படி உதவ முடியும்?")
	if note != "" {
		body = note + "\n\n" + body
	}
	return models.ButtonsMessage(body,
		models.Button{ID: "nearby_vendors", Title: pick(lang, "Nearby Home Cooks", "அருகிலுள்ள உணவகங்கள்")},
		models.Button{ID: "search_food", Title: pick(lang, "Search Food", "உணவைத் தேடு")},
		models.Button{ID: "my_orders", Title: pick(lang, "My Orders", "எனது ஆர்டர்கள்")},
	)
}

func invalidOptionNote(lang models.Language) string {
	return pick(lang,
		"Sorry, I didn't understand that option.",
		"மன்னிக்கவும், அந்த விருப்பம் புரியவில்லை.")
}

func invalidSelectionText(lang models.Language) string {
	return pick(lang,
		"That's not one of the options shown. Please pick a number from the list.",
		"அது பட்டியலில் உள்ள விருப்பம் அல்ல. பட்டியலில் உள்ள எண்ணைத் தேர்ந்தெடுக்கவும்.")
}

func noVendorsText(lang models.Language) string {
	return pick(lang,
		"Sorry, we couldn't find any home cooks near you. Please try again later.",
		"மன்னிக்கவும், அருகிலுள்ள உணவகங்கள் எதுவும் கிடைக்கவில்லை. பின்னர் மீண்டும் முயற்சிக்கவும்.")
}

func vendorsFoundText(lang models.Language, n int) string {
	return pick(lang,
		fmt.Sprintf("We found %d home cooks near you. Select one:", n),
		fmt.Sprintf("உங்களுக்கு அருகில் %d உணவகங்கள் கண்டுபிடிக்கப்பட்டன. ஒன்றைத் தேர்ந்தெடுக்கவும்:", n))
}

func vendorGoneText(lang models.Language) string {
	return pick(lang,
		"Sorry, this home cook is no longer available.",
		"மன்னிக்கவும், இந்த உணவகம் இப்போது கிடைக்கவில்லை.")
}

func vendorInfoText(lang models.Language, v *models.Vendor, isOpen bool) string {
	open := pick(lang, "🟢 Currently Open", "🟢 இப்போது திறந்திருக்கிறது")
	if !isOpen {
		open = pick(lang, "🔴 Currently Closed", "🔴 தற்போது மூடப்பட்டுள்ளது")
	}
	return fmt.Sprintf(pick(lang,
		"*%s*\n%s\n%s\nRating: %.1f★ (%d reviews)\nMin Order: ₹%.0f\nDelivery Fee: ₹%.0f",
		"*%s*\n%s\n%s\nமதிப்பீடு: %.1f★ (%d மதிப்புரைகள்)\nகுறைந்தபட்ச ஆர்டர்: ₹%.0f\nடெலிவரி கட்டணம்: ₹%.0f"),
		v.BusinessName, joinCuisines(v), open, v.Rating, v.ReviewCount, v.MinOrderAmount, v.DeliveryFee)
}

func categoriesPromptText(lang models.Language) string {
	return pick(lang,
		"Select a category from the menu:",
		"பின்வரும் வகைகளிலிருந்து தேர்ந்தெடுக்கவும்:")
}

func noItemsInCategoryText(lang models.Language) string {
	return pick(lang,
		"No items currently available in this category.",
		"இந்த வகையில் தற்போது கிடைக்கும் உணவுகள் இல்லை.")
}

func itemsPromptText(lang models.Language, category string) string {
	return pick(lang,
		fmt.Sprintf("Available items in *%s*:", category),
		fmt.Sprintf("*%s* வகையில் கிடைக்கும் உணவுகள்:", category))
}

func itemUnavailableText(lang models.Language) string {
	return pick(lang,
		"Sorry, this item is currently unavailable.",
		"மன்னிக்கவும், இந்த உணவு தற்போது கிடைக்கவில்லை.")
}

func quantityPromptMessage(lang models.Language, itemName string) models.Message {
	return models.ButtonsMessage(
		pick(lang,
			fmt.Sprintf("How many *%s* would you like? Tap a button or type a number.", itemName),
			fmt.Sprintf("*%s* எத்தனை வேண்டும்? பட்டனைத் தட்டவும் அல்லது எண்ணை அனுப்பவும்.", itemName)),
		models.Button{ID: "qty:1", Title: "1"},
		models.Button{ID: "qty:2", Title: "2"},
		models.Button{ID: "qty:3", Title: "3"},
	)
}

func addedToCartText(lang models.Language, itemName string, quantity int, cart *models.Cart) string {
	return pick(lang,
		fmt.Sprintf("Added *%s* x%d to your cart.\nYour cart now has %d items worth ₹%.0f.",
			itemName, quantity, len(cart.Items), cart.Total),
		fmt.Sprintf("*%s* x%d உங்கள் கார்ட்டில் சேர்க்கப்பட்டது.\nஉங்கள் கார்ட்டில் இப்போது ₹%.0f மதிப்புள்ள %d பொருட்கள் உள்ளன.",
			itemName, quantity, cart.Total, len(cart.Items)))
}

func cartOptionsMessage(lang models.Language, body string) models.Message {
	return models.ButtonsMessage(body,
		models.Button{ID: "add_more", Title: pick(lang, "Add More", "மேலும் சேர்")},
		models.Button{ID: "view_cart", Title: pick(lang, "View Cart", "கார்ட் பார்க்க")},
		models.Button{ID: "checkout", Title: pick(lang, "Checkout", "செக்அவுட்")},
	)
}

func viewCartOptionsMessage(lang models.Language) models.Message {
	return models.ButtonsMessage(
		pick(lang, "What would you like to do?", "என்ன செய்ய விரும்புகிறீர்கள்?"),
		models.Button{ID: "add_more", Title: pick(lang, "Add More", "மேலும் சேர்")},
		models.Button{ID: "clear_cart", Title: pick(lang, "Clear Cart", "கார்ட் அழி")},
		models.Button{ID: "checkout", Title: pick(lang, "Checkout", "செக்அவுட்")},
	)
}

func emptyCartText(lang models.Language) string {
	return pick(lang,
		"Your cart is empty. Please select a home cook and choose some food.",
		"உங்கள் கார்ட் காலியாக உள்ளது. உணவகத்தைத் தேர்ந்தெடுத்து உணவைத் தேர்ந்தெடுக்கவும்.")
}

func cartClearedText(lang models.Language) string {
	return pick(lang, "Your cart has been cleared.", "உங்கள் கார்ட் காலி செய்யப்பட்டது.")
}

func belowMinOrderText(lang models.Language, min, total float64) string {
	return pick(lang,
		fmt.Sprintf("Minimum order amount is ₹%.0f. Your cart is currently only ₹%.0f. Please add more items.", min, total),
		fmt.Sprintf("குறைந்தபட்ச ஆர்டர் தொகை ₹%.0f ஆகும். உங்கள் கார்ட் தற்போது ₹%.0f மட்டுமே. இன்னும் சில பொருட்களைச் சேர்க்கவும்.", min, total))
}

func confirmAddressMessage(lang models.Language, fullAddress string) models.Message {
	return models.ButtonsMessage(
		pick(lang,
			fmt.Sprintf("*Delivery Address:*\n%s\n\nWould you like to use this address?", fullAddress),
			fmt.Sprintf("*டெலிவரி முகவரி:*\n%s\n\nஇந்த முகவரியை பயன்படுத்த விரும்புகிறீர்களா?", fullAddress)),
		models.Button{ID: "confirm_address", Title: pick(lang, "Yes, deliver here", "ஆம், இங்கே")},
		models.Button{ID: "new_address", Title: pick(lang, "Another address", "வேறு முகவரி")},
	)
}

func paymentMethodMessage(lang models.Language) models.Message {
	return models.ButtonsMessage(
		pick(lang, "How would you like to pay?", "எப்படி பணம் செலுத்த விரும்புகிறீர்கள்?"),
		models.Button{ID: "payment_COD", Title: pick(lang, "Cash on Delivery", "ரொக்கம்")},
		models.Button{ID: "payment_ONLINE", Title: pick(lang, "Pay Online", "ஆன்லைன்")},
		models.Button{ID: "payment_UPI", Title: "UPI"},
	)
}

func instructionsPromptText(lang models.Language) string {
	return pick(lang,
		"Any special instructions for your order? (e.g. less spicy)\nReply *no* if there are none.",
		"உங்கள் ஆர்டருக்கு ஏதேனும் சிறப்பு குறிப்புகள் உள்ளதா? (உதா: காரம் குறைவாக)\nஇல்லை என்றால் *no* என பதிலளிக்கவும்.")
}

func orderPlacedText(lang models.Language, orderID string) string {
	return pick(lang,
		fmt.Sprintf("🎉 Order successfully placed! Your order ID is: %s\n\nThank you! Your food will be on the way soon.", orderID),
		fmt.Sprintf("🎉 ஆர்டர் வெற்றிகரமாக வைக்கப்பட்டது! உங்கள் ஆர்டர் ஐடி: %s\n\nநன்றி! உங்கள் உணவு விரைவில் வரும்.", orderID))
}

func checkoutFailedText(lang models.Language) string {
	return pick(lang,
		"Sorry, we encountered an error while placing your order. Please try again.",
		"மன்னிக்கவும், உங்கள் ஆர்டரை வைக்கும்போது பிழை ஏற்பட்டது. மீண்டும் முயற்சிக்கவும்.")
}

func searchPromptText(lang models.Language) string {
	return pick(lang,
		"What food item are you looking for?",
		"நீங்கள் எந்த உணவை தேடுகிறீர்கள்?")
}

func searchNoResultsText(lang models.Language, query string) string {
	return pick(lang,
		fmt.Sprintf("Sorry, we couldn't find any nearby home cooks offering \"%s\". Please try searching for something else.", query),
		fmt.Sprintf("மன்னிக்கவும், \"%s\" வழங்கும் அருகிலுள்ள உணவகங்கள் எதுவும் கிடைக்கவில்லை. வேறு உணவை தேட முயற்சிக்கவும்.", query))
}

func searchResultsText(lang models.Language, n int, query string) string {
	return pick(lang,
		fmt.Sprintf("We found %d \"%s\" items. Select one:", n, query),
		fmt.Sprintf("நாங்கள் %d \"%s\" பொருட்களைக் கண்டுபிடித்தோம். ஒன்றைத் தேர்ந்தெடுக்கவும்:", n, query))
}

func noOrdersText(lang models.Language) string {
	return pick(lang,
		"No orders found. Would you like to place a new order?",
		"ஆர்டர்கள் எதுவும் கிடைக்கவில்லை. புதிய ஆர்டர் வைக்க விரும்புகிறீர்களா?")
}

func feedbackThanksText(lang models.Language) string {
	return pick(lang,
		"Thank you for your feedback! 🙏",
		"உங்கள் கருத்துக்கு நன்றி! 🙏")
}

func backToMenuButton(lang models.Language) models.Button {
	return models.Button{ID: "back_to_menu", Title: pick(lang, "Main Menu", "முகப்பு மெனு")}
}

func helpMessage(lang models.Language) models.Message {
	return models.ButtonsMessage(
		pick(lang,
			"*TamilFoods Help*\n\nThis is a food delivery bot. You can:\n1. Browse nearby home cooks\n2. Search for specific food items\n3. View your previous orders\n4. Track your current order\n\nWhat do you need help with?",
			"*TamilFoods உதவி*\n\nஇது ஒரு உணவு டெலிவரி பாட். நீங்கள்:\n1. அருகிலுள்ள உணவகங்களைப் பார்க்கலாம்\n2. குறிப்பிட்ட உணவைத் தேடலாம்\n3. முந்தைய ஆர்டர்களைப் பார்க்கலாம்\n4. தற்போதைய ஆர்டரைக் கண்காணிக்கலாம்\n\nஎதில் உதவி வேண்டும்?"),
		models.Button{ID: "help_ordering", Title: pick(lang, "Ordering", "ஆர்டர் செய்வது")},
		models.Button{ID: "help_payment", Title: pick(lang, "Payments", "பணம் செலுத்துதல்")},
		models.Button{ID: "help_delivery", Title: pick(lang, "Delivery", "டெலிவரி")},
	)
}

func helpPageMessage(lang models.Language, page models.Stage) models.Message {
	var body string
	switch page {
	case models.StageHelpOrdering:
		body = pick(lang,
			"*Ordering Help*\n\nTap *Nearby Home Cooks* to browse menus, pick items and quantities, then checkout from your cart. You can also type what you want, e.g. \"search idli\".",
			"*ஆர்டர் உதவி*\n\n*அருகிலுள்ள உணவகங்கள்* என்பதைத் தட்டி மெனுக்களைப் பார்க்கவும், உணவுகளையும் அளவையும் தேர்ந்தெடுத்து கார்ட்டிலிருந்து செக்அவுட் செய்யவும். \"search idli\" என தட்டச்சு செய்தும் தேடலாம்.")
	case models.StageHelpPayment:
		body = pick(lang,
			"*Payment Help*\n\nWe accept Cash on Delivery, online card payment and UPI. For online payments you'll receive a secure payment link in this chat.",
			"*பணம் செலுத்தும் உதவி*\n\nரொக்கம், ஆன்லைன் கார்டு மற்றும் UPI ஏற்றுக்கொள்ளப்படும். ஆன்லைன் பணம் செலுத்த இந்த அரட்டையில் பாதுகாப்பான லிங்க் அனுப்பப்படும்.")
	case models.StageHelpDelivery:
		body = pick(lang,
			"*Delivery Help*\n\nDelivery usually takes 45-60 minutes after the cook confirms your order. You'll get a message at every step, and you can type \"track\" anytime.",
			"*டெலிவரி உதவி*\n\nஉணவகம் உறுதிப்படுத்திய பின் 45-60 நிமிடங்களில் டெலிவரி ஆகும். ஒவ்வொரு கட்டத்திலும் செய்தி வரும்; எப்போது வேண்டுமானாலும் \"track\" என அனுப்பலாம்.")
	}
	return models.ButtonsMessage(body, backToMenuButton(lang))
}

func contactSupportMessage(lang models.Language) models.Message {
	return models.ButtonsMessage(
		pick(lang,
			"*Contact Support*\n\nPhone: +91 98765 43210 (9am-9pm)\nEmail: support@tamilfoods.in\n\nWe usually reply within a few hours.",
			"*ஆதரவைத் தொடர்பு கொள்ள*\n\nதொலைபேசி: +91 98765 43210 (காலை 9 - இரவு 9)\nமின்னஞ்சல்: support@tamilfoods.in\n\nசில மணி நேரங்களில் பதிலளிப்போம்."),
		backToMenuButton(lang))
}

func joinCuisines(v *models.Vendor) string {
	out := ""
	for i, c := range v.CuisineTypes {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
