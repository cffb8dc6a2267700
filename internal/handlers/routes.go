package handlers

import "github.com/gofiber/fiber/v2"

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Projects *ProjectHandler
	Pins     *PinHandler
	Generate *GenerateHandler
	Assets   *AssetHandler
	Ingest   *IngestHandler
	Settings *SettingsHandler
	Profile  *ProfileHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.Health.Handle)
	app.Post("/health/refresh", h.Health.Refresh)

	api := app.Group("/api")

	projects := api.Group("/projects")
	projects.Post("/", h.Projects.Create)
	projects.Get("/", h.Projects.List)
	projects.Get("/current", h.Projects.Current)
	projects.Patch("/current", h.Projects.Update)
	projects.Post("/current/transition", h.Projects.Transition)
	projects.Post("/current/finalize/topic", h.Projects.FinalizeTopic)
	projects.Post("/current/finalize/script", h.Projects.FinalizeScript)
	projects.Post("/current/finalize/storyboard", h.Projects.FinalizeStoryboard)
	projects.Post("/current/finalize/metadata", h.Projects.FinalizeMetadata)
	projects.Post("/current/complete", h.Projects.Complete)
	projects.Get("/current/export", h.Projects.Export)
	projects.Get("/:id", h.Projects.Open)
	projects.Delete("/:id", h.Projects.Delete)

	pins := api.Group("/pins")
	pins.Post("/", h.Pins.Add)
	pins.Get("/", h.Pins.List)
	pins.Delete("/:id", h.Pins.Remove)

	ai := api.Group("/ai")
	ai.Post("/generate", h.Generate.Generate)
	ai.Post("/shorts", h.Generate.Shorts)
	ai.Post("/scene-image", h.Generate.SceneImage)
	ai.Post("/scene-images", h.Generate.SceneImageBatch)
	ai.Get("/status", h.Generate.Status)

	assets := api.Group("/assets")
	assets.Post("/", h.Assets.Upload)
	assets.Get("/:id", h.Assets.Get)
	assets.Delete("/:id", h.Assets.Delete)

	ingest := api.Group("/ingest")
	ingest.Post("/upload", h.Ingest.Upload)
	ingest.Post("/manual", h.Ingest.Manual)

	api.Get("/settings", h.Settings.Get)
	api.Put("/settings", h.Settings.Update)

	api.Get("/profile", h.Profile.Get)
	api.Put("/profile", h.Profile.Save)
}
