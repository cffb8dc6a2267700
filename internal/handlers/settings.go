package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contentos/internal/config"
)

// SettingsHandler exposes the runtime settings store.
type SettingsHandler struct {
	store *config.SettingsStore
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *config.SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the current settings with the API key masked.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s := h.store.Current()
	s.ProviderAPIKey = maskKey(s.ProviderAPIKey)
	return ok(c, s)
}

// Update replaces the settings and persists them. A masked key in the
// request keeps the stored one.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var s config.Settings
	if err := c.BodyParser(&s); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	current := h.store.Current()
	if s.ProviderAPIKey == "" || s.ProviderAPIKey == maskKey(current.ProviderAPIKey) {
		s.ProviderAPIKey = current.ProviderAPIKey
	}

	if err := h.store.Update(s); err != nil {
		return failErr(c, err)
	}

	s.ProviderAPIKey = maskKey(s.ProviderAPIKey)
	return ok(c, s)
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
