package models

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuItem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           float64            `bson:"price" json:"price"`
	Category        string             `bson:"category" json:"category"`
	IsAvailable     bool               `bson:"isAvailable" json:"isAvailable"`
	PreparationTime int                `bson:"preparationTime,omitempty" json:"preparationTime,omitempty"` // minutes
}

// DayHours is a single weekday's open/close window in "HH:MM". Either bound
// empty means closed all day.
type DayHours struct {
	Open  string `bson:"open,omitempty" json:"open,omitempty"`
	Close string `bson:"close,omitempty" json:"close,omitempty"`
}

type OperatingHours struct {
	Monday    DayHours `bson:"monday,omitempty" json:"monday,omitempty"`
	Tuesday   DayHours `bson:"tuesday,omitempty" json:"tuesday,omitempty"`
	Wednesday DayHours `bson:"wednesday,omitempty" json:"wednesday,omitempty"`
	Thursday  DayHours `bson:"thursday,omitempty" json:"thursday,omitempty"`
	Friday    DayHours `bson:"friday,omitempty" json:"friday,omitempty"`
	Saturday  DayHours `bson:"saturday,omitempty" json:"saturday,omitempty"`
	Sunday    DayHours `bson:"sunday,omitempty" json:"sunday,omitempty"`
}

func (h OperatingHours) forWeekday(day time.Weekday) DayHours {
	switch day {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	default:
		return h.Sunday
	}
}

type VendorAddress struct {
	FullAddress string   `bson:"fullAddress" json:"fullAddress"`
	Location    GeoPoint `bson:"location" json:"location"`
}

type Vendor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BusinessName    string             `bson:"businessName" json:"businessName"`
	OwnerName       string             `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	PhoneNumber     string             `bson:"phoneNumber" json:"phoneNumber"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Address         VendorAddress      `bson:"address" json:"address"`
	CuisineTypes    []string           `bson:"cuisineType" json:"cuisineType"`
	MenuItems       []MenuItem         `bson:"menuItems" json:"menuItems"`
	OperatingHours  OperatingHours     `bson:"operatingHours" json:"operatingHours"`
	Rating          float64            `bson:"rating" json:"rating"`
	ReviewCount     int                `bson:"reviewCount" json:"reviewCount"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	ServicingRadius float64            `bson:"servicingRadius" json:"servicingRadius"` // km
	AvgDeliveryTime int                `bson:"avgDeliveryTime" json:"avgDeliveryTime"` // minutes
	MinOrderAmount  float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	DeliveryFee     float64            `bson:"deliveryFee" json:"deliveryFee"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsCurrentlyOpen reports whether the vendor is open at the given local time.
// Both window bounds are inclusive; a missing open or close means closed.
func (v *Vendor) IsCurrentlyOpen(at time.Time) bool {
	hours := v.OperatingHours.forWeekday(at.Weekday())
	if hours.Open == "" || hours.Close == "" {
		return false
	}

	current := at.Hour()*100 + at.Minute()
	open, err := parseHHMM(hours.Open)
	if err != nil {
		return false
	}
	closeAt, err := parseHHMM(hours.Close)
	if err != nil {
		return false
	}

	return current >= open && current <= closeAt
}

// MenuItemByID finds a menu item on the vendor, false when absent.
func (v *Vendor) MenuItemByID(id primitive.ObjectID) (MenuItem, bool) {
	for _, item := range v.MenuItems {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// AvailableByCategory groups the currently available menu items by category.
func (v *Vendor) AvailableByCategory() map[string][]MenuItem {
	grouped := make(map[string][]MenuItem)
	for _, item := range v.MenuItems {
		if item.IsAvailable {
			grouped[item.Category] = append(grouped[item.Category], item)
		}
	}
	return grouped
}

// parseHHMM converts "09:30" to 930 for window comparison.
func parseHHMM(s string) (int, error) {
	return strconv.Atoi(strings.Replace(s, ":", "", 1))
}
