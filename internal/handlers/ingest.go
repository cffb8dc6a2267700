package handlers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/ingest"
	"contentos/internal/models"
	"contentos/internal/project"
)

// IngestHandler parses analytics exports and attaches them to the active
// project.
type IngestHandler struct {
	projects *project.Service
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(projects *project.Service) *IngestHandler {
	return &IngestHandler{projects: projects}
}

// Upload parses a CSV or XLSX analytics export and stores the rows as the
// active project's data source.
func (h *IngestHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file field is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return failErr(c, err)
	}
	defer file.Close()

	var rows []models.DashboardData
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		rows, err = ingest.ParseCSV(file)
	case ".xlsx", ".xls":
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			return failErr(c, rerr)
		}
		rows, err = ingest.ParseXLSX(data)
	default:
		return fail(c, fiber.StatusBadRequest, "unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		if err == ingest.ErrNoRows || err == ingest.ErrNoTitleColumn {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return failErr(c, err)
	}

	ds := ingest.Process(rows, models.DataSourceCSV)
	res, perr := h.projects.Update(c.Context(), models.ProjectPatch{DataSource: &ds})
	if perr != nil {
		return failErr(c, perr)
	}
	return okResult(c, res)
}

type manualIngestRequest struct {
	Rows []models.DashboardData `json:"rows"`
}

// Manual attaches hand-entered analytics rows to the active project.
func (h *IngestHandler) Manual(c *fiber.Ctx) error {
	var req manualIngestRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Rows) == 0 {
		return fail(c, fiber.StatusBadRequest, "rows are required")
	}

	ds := ingest.Process(req.Rows, models.DataSourceManual)
	res, err := h.projects.Update(c.Context(), models.ProjectPatch{DataSource: &ds})
	if err != nil {
		return failErr(c, err)
	}
	return okResult(c, res)
}
