package vendors

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/responses"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

const queryTimeout = 10 * time.Second

type Controller struct {
	vendors         stores.VendorStore
	defaultRadiusKm float64
	logger          *zap.Logger
}

func NewController(vendors stores.VendorStore, defaultRadiusKm float64, logger *zap.Logger) *Controller {
	return &Controller{vendors: vendors, defaultRadiusKm: defaultRadiusKm, logger: logger}
}

// Nearby lists active vendors around ?lat=..&lon=.., nearest first. The
// optional ?radius= is in kilometers.
func (h *Controller) Nearby(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "lat and lon query parameters are required",
		})
	}

	radius := h.defaultRadiusKm
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
				Status:  fiber.StatusBadRequest,
				Message: "radius must be a positive number of kilometers",
			})
		}
		radius = parsed
	}

	nearby, err := h.vendors.FindNearby(ctx, lon, lat, radius, 50)
	if err != nil {
		h.logger.Error("nearby vendor query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"vendors": nearby},
	})
}

func (h *Controller) Details(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("vendorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	vendor, err := h.vendors.FindByID(ctx, id)
	if errors.Is(err, stores.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Vendor not found",
		})
	}
	if err != nil {
		h.logger.Error("vendor lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"vendor": vendor},
	})
}

func (h *Controller) Register(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	var vendor models.Vendor
	if err := c.BodyParser(&vendor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if vendor.BusinessName == "" || vendor.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "businessName and phoneNumber are required",
		})
	}

	if err := h.vendors.Create(ctx, &vendor); err != nil {
		h.logger.Error("vendor registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "success",
		Result:  &fiber.Map{"vendor": vendor},
	})
}

// ReplaceMenu swaps the vendor's full menu in one write; per-item edits go
// through here by sending the whole updated list.
func (h *Controller) ReplaceMenu(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("vendorId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	var body struct {
		MenuItems []models.MenuItem `json:"menuItems"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	for i := range body.MenuItems {
		if body.MenuItems[i].ID.IsZero() {
			body.MenuItems[i].ID = primitive.NewObjectID()
		}
	}

	err = h.vendors.ReplaceMenu(ctx, id, body.MenuItems)
	if errors.Is(err, stores.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Vendor not found",
		})
	}
	if err != nil {
		h.logger.Error("menu replace failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"menuItems": body.MenuItems},
	})
}
