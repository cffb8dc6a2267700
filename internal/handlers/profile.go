package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contentos/internal/gateway"
	"contentos/internal/models"
)

// ProfileHandler exposes the creator brand profile.
type ProfileHandler struct {
	store *gateway.DocStore
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(store *gateway.DocStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Get returns the caller's creator profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	res, err := h.store.GetProfile(c.Context(), defaultUserID(c))
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Save stores the caller's creator profile.
func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	var profile models.CreatorProfile
	if err := c.BodyParser(&profile); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if profile.Name == "" {
		return fail(c, fiber.StatusBadRequest, "profile name is required")
	}

	res, err := h.store.SaveProfile(c.Context(), defaultUserID(c), &profile)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}
