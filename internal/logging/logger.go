package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithProject returns a logger with project context fields attached.
// Use this for all logging within a project-scoped operation.
func WithProject(projectID, stage string) *slog.Logger {
	return slog.With(
		"project_id", projectID,
		"stage", stage,
	)
}

// WithTier returns a logger scoped to a persistence or generation tier.
func WithTier(logger *slog.Logger, service, tier string) *slog.Logger {
	return logger.With(
		"service", service,
		"tier", tier,
	)
}
