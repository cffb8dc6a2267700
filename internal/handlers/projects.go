package handlers

import (
	"github.com/gofiber/fiber/v2"

	"contentos/internal/models"
	"contentos/internal/project"
)

// ProjectHandler exposes the project aggregate over HTTP.
type ProjectHandler struct {
	projects *project.Service
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *project.Service) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Create starts a new project and makes it active.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		req.Name = "Untitled Project"
	}

	res, err := h.projects.Create(c.Context(), req.Name, req.UserID)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// List returns all stored projects.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	res, err := h.projects.List(c.Context())
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Open loads a project by id and makes it active.
func (h *ProjectHandler) Open(c *fiber.Ctx) error {
	res, err := h.projects.Open(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Current returns the active project, if any.
func (h *ProjectHandler) Current(c *fiber.Ctx) error {
	p := h.projects.Current()
	if p == nil {
		return ok(c, nil)
	}
	return ok(c, p)
}

// Update applies a partial update to the active project.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var patch models.ProjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.projects.Update(c.Context(), patch)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Delete removes a project.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	res, err := h.projects.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

type transitionRequest struct {
	Stage models.WorkflowStage `json:"stage"`
}

// Transition moves the workflow to the requested stage, enforcing gating.
func (h *ProjectHandler) Transition(c *fiber.Ctx) error {
	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.projects.Transition(c.Context(), req.Stage)
	if err != nil {
		return failErr(c, err)
	}
	if res.Value == nil {
		// imagegen with no project loaded
		return ok(c, fiber.Map{"stage": h.projects.Stage()})
	}
	return okResult(c, res)
}

// FinalizeTopic commits the topic selection.
func (h *ProjectHandler) FinalizeTopic(c *fiber.Ctx) error {
	var sel models.SelectedTopic
	if err := c.BodyParser(&sel); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if sel.Title == "" {
		return fail(c, fiber.StatusBadRequest, "topic title is required")
	}

	res, err := h.projects.FinalizeTopic(c.Context(), sel)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// FinalizeScript commits the script selection.
func (h *ProjectHandler) FinalizeScript(c *fiber.Ctx) error {
	var sel models.SelectedScript
	if err := c.BodyParser(&sel); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if sel.Content == "" {
		return fail(c, fiber.StatusBadRequest, "script content is required")
	}

	res, err := h.projects.FinalizeScript(c.Context(), sel)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// FinalizeStoryboard commits the scene breakdown.
func (h *ProjectHandler) FinalizeStoryboard(c *fiber.Ctx) error {
	var sb models.Storyboard
	if err := c.BodyParser(&sb); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(sb.Scenes) == 0 {
		return fail(c, fiber.StatusBadRequest, "storyboard needs at least one scene")
	}

	res, err := h.projects.FinalizeStoryboard(c.Context(), sb)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// FinalizeMetadata commits the publishing metadata.
func (h *ProjectHandler) FinalizeMetadata(c *fiber.Ctx) error {
	var md models.VideoMetadata
	if err := c.BodyParser(&md); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if md.Title == "" {
		return fail(c, fiber.StatusBadRequest, "metadata title is required")
	}

	res, err := h.projects.FinalizeMetadata(c.Context(), md)
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Complete marks the active project finished.
func (h *ProjectHandler) Complete(c *fiber.Ctx) error {
	res, err := h.projects.Complete(c.Context())
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}

// Export returns a download-ready snapshot of the active project.
func (h *ProjectHandler) Export(c *fiber.Ctx) error {
	p, err := h.projects.Export()
	if err != nil {
		return failErr(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="project-export.json"`)
	return ok(c, p)
}
