package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/gateway"
	"contentos/internal/imagequeue"
	"contentos/internal/mockgen"
	"contentos/internal/models"
	"contentos/internal/utils"
)

// GenerateHandler exposes AI generation and the scene image queue.
type GenerateHandler struct {
	ai    *gateway.AIGateway
	queue *imagequeue.Queue
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(ai *gateway.AIGateway, queue *imagequeue.Queue) *GenerateHandler {
	return &GenerateHandler{ai: ai, queue: queue}
}

// Generate runs a single generation request. The response always succeeds;
// degraded results carry fallbackUsed.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Prompt == "" {
		return fail(c, fiber.StatusBadRequest, "prompt is required")
	}
	if req.Type == "" {
		req.Type = models.GenerateText
	}

	resp := h.ai.Generate(c.Context(), req)
	return c.JSON(Envelope{
		Success:      resp.Success,
		Data:         resp.Data,
		FallbackUsed: resp.FallbackUsed,
		Message:      resp.Message,
	})
}

type sceneImageRequest struct {
	SceneID string `json:"sceneId"`
	Prompt  string `json:"prompt"`
}

// SceneImage generates one scene image, holding the scene's in-flight slot.
func (h *GenerateHandler) SceneImage(c *fiber.Ctx) error {
	var req sceneImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.SceneID == "" || req.Prompt == "" {
		return fail(c, fiber.StatusBadRequest, "sceneId and prompt are required")
	}

	resp, err := h.queue.Generate(c.Context(), req.SceneID, req.Prompt)
	if err != nil {
		return failErr(c, err)
	}
	return c.JSON(Envelope{
		Success:      resp.Success,
		Data:         resp.Data,
		FallbackUsed: resp.FallbackUsed,
		Message:      resp.Message,
	})
}

type sceneBatchRequest struct {
	Scenes []imagequeue.BatchItem `json:"scenes"`
}

// SceneImageBatch generates a batch of scene images in parallel, best
// effort. Per-scene failures land in their result slot.
func (h *GenerateHandler) SceneImageBatch(c *fiber.Ctx) error {
	var req sceneBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Scenes) == 0 {
		return fail(c, fiber.StatusBadRequest, "scenes are required")
	}

	results := h.queue.GenerateAll(c.Context(), req.Scenes)
	return ok(c, results)
}

type shortsRequest struct {
	Script         string `json:"script"`
	SourceScriptID string `json:"sourceScriptId"`
	Prompt         string `json:"prompt"`
}

// Shorts extracts short-form clip candidates from a script. Provider output
// is parsed leniently and enum fields are coerced; anything unparsable is
// replaced with the template extracts.
func (h *GenerateHandler) Shorts(c *fiber.Ctx) error {
	var req shortsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Script == "" {
		return fail(c, fiber.StatusBadRequest, "script is required")
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("Extract the best short-form clips from this script as a JSON array of shorts:\n\n%s", req.Script)
	}

	resp := h.ai.Generate(c.Context(), models.GenerateRequest{
		Prompt: prompt,
		Type:   models.GenerateText,
		Format: "json",
	})

	extracts, parsed := parseShorts(resp.Data)
	fallbackUsed := resp.FallbackUsed
	message := resp.Message
	if !parsed {
		extracts = mockgen.MockShorts()
		fallbackUsed = true
		if message == "" {
			message = "AI provider returned malformed shorts: served template extracts instead."
		}
	}
	for i := range extracts {
		if extracts[i].SourceScriptID == "" {
			extracts[i].SourceScriptID = req.SourceScriptID
		}
		extracts[i].Coerce()
	}

	return c.JSON(Envelope{
		Success:      true,
		Data:         extracts,
		FallbackUsed: fallbackUsed,
		Message:      message,
	})
}

// parseShorts accepts either a bare array or a {"shorts": [...]} wrapper.
func parseShorts(data string) ([]models.ShortsExtract, bool) {
	cleaned := utils.StripCodeFences(data)

	var extracts []models.ShortsExtract
	if err := utils.UnmarshalFirstJSON(cleaned, &extracts); err == nil && len(extracts) > 0 {
		return extracts, true
	}

	var wrapper struct {
		Shorts []models.ShortsExtract `json:"shorts"`
	}
	if err := utils.UnmarshalFirstJSON(cleaned, &wrapper); err == nil && len(wrapper.Shorts) > 0 {
		return wrapper.Shorts, true
	}
	return nil, false
}

// Status reports which scenes are currently generating.
func (h *GenerateHandler) Status(c *fiber.Ctx) error {
	return ok(c, fiber.Map{
		"inFlight": h.queue.Count(),
	})
}
