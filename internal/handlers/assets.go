package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/gateway"
	"contentos/internal/models"
)

const maxUploadSize = 20 << 20

// AssetHandler exposes image uploads over the object storage gateway.
type AssetHandler struct {
	objects *gateway.ObjectStore
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(objects *gateway.ObjectStore) *AssetHandler {
	return &AssetHandler{objects: objects}
}

// Upload stores a multipart image upload.
func (h *AssetHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file field is required")
	}
	if fileHeader.Size > maxUploadSize {
		return fail(c, fiber.StatusRequestEntityTooLarge, "upload exceeds 20MB limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fail(c, fiber.StatusBadRequest, "only image uploads are accepted")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return failErr(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return failErr(c, err)
	}

	res, err := h.objects.Upload(c.Context(), data, contentType, models.AssetMetadata{})
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Get resolves an asset to its URL (or inline data URI).
func (h *AssetHandler) Get(c *fiber.Ctx) error {
	asset, err := h.objects.Resolve(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, asset)
}

// Delete removes an asset.
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	res, err := h.objects.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}
