package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contentos/internal/models"
	"contentos/internal/pins"
)

// PinHandler exposes the pin registry over HTTP.
type PinHandler struct {
	registry *pins.Registry
}

// NewPinHandler creates a new pin handler
func NewPinHandler(registry *pins.Registry) *PinHandler {
	return &PinHandler{registry: registry}
}

// Add stores a new pin.
func (h *PinHandler) Add(c *fiber.Ctx) error {
	var pin models.PinnedItem
	if err := c.BodyParser(&pin); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if pin.ItemType == "" {
		return fail(c, fiber.StatusBadRequest, "itemType is required")
	}
	if pin.UserID == "" {
		pin.UserID = defaultUserID(c)
	}

	res, err := h.registry.Add(c.Context(), pin)
	if err != nil {
		if err == pins.ErrEmptyContent {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return failErr(c, err)
	}
	return okResult(c, res)
}

// List returns the caller's pins, optionally filtered with ?type=.
func (h *PinHandler) List(c *fiber.Ctx) error {
	itemType := models.PinItemType(c.Query("type"))
	res, err := h.registry.List(c.Context(), defaultUserID(c), itemType)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Remove deletes a pin by id.
func (h *PinHandler) Remove(c *fiber.Ctx) error {
	res, err := h.registry.Remove(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// defaultUserID resolves the acting user. Single-tenant deployments run
// without auth, so an anonymous default keeps pins usable.
func defaultUserID(c *fiber.Ctx) string {
	if id := c.Get("X-User-Id"); id != "" {
		return id
	}
	if id := c.Query("userId"); id != "" {
		return id
	}
	return "default"
}
