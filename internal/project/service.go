// Package project owns the active project aggregate: creation, partial
// updates, stage transitions, and the finalize operations that commit a
// choice and invalidate everything downstream of it.
package project

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contentos/internal/gateway"
	"contentos/internal/logging"
	"contentos/internal/models"
	"contentos/internal/workflow"
)

// Service coordinates the active project with the workflow machine and the
// document gateway. Every mutation persists synchronously before it is
// committed in memory, so a failed save never leaves phantom state.
type Service struct {
	mu      sync.Mutex
	active  *models.Project
	machine *workflow.Machine
	store   *gateway.DocStore
}

// NewService builds the aggregate service.
func NewService(store *gateway.DocStore) *Service {
	return &Service{
		machine: workflow.NewMachine(),
		store:   store,
	}
}

// Create starts a new project at the ingestion stage and makes it active.
func (s *Service) Create(ctx context.Context, name, userID string) (gateway.Result[*models.Project], error) {
	p := &models.Project{
		Name:   name,
		UserID: userID,
		Stage:  models.StageIngestion,
	}

	res, err := s.store.SaveProject(ctx, p)
	if err != nil {
		return gateway.Result[*models.Project]{}, fmt.Errorf("failed to create project: %w", err)
	}

	s.mu.Lock()
	s.active = res.Value
	s.machine.Advance(s.active, models.StageIngestion)
	s.mu.Unlock()

	logging.WithProject(res.Value.ID, string(res.Value.Stage)).Info("project created")
	return withClone(res), nil
}

// Open loads a stored project and makes it active, resuming the workflow at
// the project's recorded stage.
func (s *Service) Open(ctx context.Context, id string) (gateway.Result[*models.Project], error) {
	res, err := s.store.GetProject(ctx, id)
	if err != nil {
		return gateway.Result[*models.Project]{}, err
	}

	s.mu.Lock()
	s.active = res.Value
	s.machine.Advance(s.active, res.Value.Stage)
	s.mu.Unlock()

	return withClone(res), nil
}

// Current returns a snapshot of the active project, or nil when none is
// loaded.
func (s *Service) Current() *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.Clone()
}

// Stage returns the workflow machine's current stage.
func (s *Service) Stage() models.WorkflowStage {
	return s.machine.Current()
}

// List returns all stored projects.
func (s *Service) List(ctx context.Context) (gateway.Result[[]*models.Project], error) {
	return s.store.ListProjects(ctx)
}

// Delete removes a project. Deleting the active project also clears it and
// resets the workflow.
func (s *Service) Delete(ctx context.Context, id string) (gateway.Result[struct{}], error) {
	res, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	if s.active != nil && s.active.ID == id {
		s.active = nil
		s.machine.Advance(nil, models.StageIngestion)
	}
	s.mu.Unlock()

	return res, nil
}

// Update applies a partial update to the active project and persists it.
// Patches never touch committed selections; those move only through the
// finalize operations.
func (s *Service) Update(ctx context.Context, patch models.ProjectPatch) (gateway.Result[*models.Project], error) {
	return s.mutate(ctx, func(p *models.Project) error {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.DataSource != nil {
			patch.DataSource.ProcessedAt = time.Now().UTC()
			p.DataSource = patch.DataSource
		}
		if patch.TopicSuggestions != nil {
			p.TopicSuggestions = *patch.TopicSuggestions
		}
		if patch.ScriptVariants != nil {
			p.ScriptVariants = *patch.ScriptVariants
		}
		if patch.TitleSuggestions != nil {
			p.TitleSuggestions = *patch.TitleSuggestions
		}
		if patch.ThumbnailConcepts != nil {
			p.ThumbnailConcepts = *patch.ThumbnailConcepts
		}
		if patch.ShortsExtracts != nil {
			extracts := *patch.ShortsExtracts
			for i := range extracts {
				extracts[i].Coerce()
			}
			p.ShortsExtracts = extracts
		}
		if patch.CreatorProfile != nil {
			p.CreatorProfile = patch.CreatorProfile
		}
		return nil
	})
}

// Transition moves the workflow to target, enforcing stage gating, and
// persists the project's new position.
func (s *Service) Transition(ctx context.Context, target models.WorkflowStage) (gateway.Result[*models.Project], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// imagegen does not need a project at all.
	if s.active == nil {
		if err := s.machine.Transition(nil, target); err != nil {
			return gateway.Result[*models.Project]{}, err
		}
		return gateway.Result[*models.Project]{}, nil
	}

	working := s.active.Clone()
	if err := s.machine.Transition(working, target); err != nil {
		return gateway.Result[*models.Project]{}, err
	}

	res, err := s.persistLocked(ctx, working)
	if err != nil {
		// The machine moved but the save failed; snap it back to the
		// persisted stage.
		s.machine.Advance(nil, s.active.Stage)
		return gateway.Result[*models.Project]{}, err
	}
	return res, nil
}

// FinalizeTopic commits the topic choice and invalidates every downstream
// artifact, then advances to the script stage. Re-finalizing the same topic
// still cascades: downstream work derived from the previous commit is stale
// either way.
func (s *Service) FinalizeTopic(ctx context.Context, sel models.SelectedTopic) (gateway.Result[*models.Project], error) {
	return s.finalize(ctx, models.StageScript, func(p *models.Project) error {
		sel.FinalizedAt = time.Now().UTC()
		p.SelectedTopic = &sel
		p.ScriptVariants = nil
		p.SelectedScript = nil
		p.SelectedStoryboard = nil
		p.SelectedMetadata = nil
		p.TitleSuggestions = nil
		p.ThumbnailConcepts = nil
		p.ShortsExtracts = nil
		return nil
	})
}

// FinalizeScript commits the script choice, invalidates storyboard and
// everything after it, and advances to the storyboard stage.
func (s *Service) FinalizeScript(ctx context.Context, sel models.SelectedScript) (gateway.Result[*models.Project], error) {
	return s.finalize(ctx, models.StageStoryboard, func(p *models.Project) error {
		if p.SelectedTopic == nil {
			return workflow.ErrStageLocked
		}
		p.SelectedScript = &sel
		p.SelectedStoryboard = nil
		p.SelectedMetadata = nil
		p.TitleSuggestions = nil
		p.ThumbnailConcepts = nil
		p.ShortsExtracts = nil
		return nil
	})
}

// FinalizeStoryboard commits the scene breakdown, invalidates metadata and
// shorts, and advances to the metadata stage. Scenes are normalized on the
// way in.
func (s *Service) FinalizeStoryboard(ctx context.Context, sb models.Storyboard) (gateway.Result[*models.Project], error) {
	return s.finalize(ctx, models.StageMetadata, func(p *models.Project) error {
		if p.SelectedScript == nil {
			return workflow.ErrStageLocked
		}
		topicTitle := ""
		if p.SelectedTopic != nil {
			topicTitle = p.SelectedTopic.Title
		}
		for i := range sb.Scenes {
			sb.Scenes[i].Normalize(topicTitle)
		}
		if sb.Format == "" {
			sb.Format = p.SelectedScript.Format
		}
		p.SelectedStoryboard = &sb
		p.SelectedMetadata = nil
		p.TitleSuggestions = nil
		p.ThumbnailConcepts = nil
		p.ShortsExtracts = nil
		return nil
	})
}

// FinalizeMetadata commits the publishing metadata, invalidates shorts, and
// advances to the shorts stage.
func (s *Service) FinalizeMetadata(ctx context.Context, md models.VideoMetadata) (gateway.Result[*models.Project], error) {
	return s.finalize(ctx, models.StageShorts, func(p *models.Project) error {
		if p.SelectedStoryboard == nil {
			return workflow.ErrStageLocked
		}
		p.SelectedMetadata = &md
		p.ShortsExtracts = nil
		return nil
	})
}

// Complete marks the project finished once metadata is committed.
func (s *Service) Complete(ctx context.Context) (gateway.Result[*models.Project], error) {
	return s.finalize(ctx, models.StageComplete, func(p *models.Project) error {
		if p.SelectedMetadata == nil {
			return workflow.ErrStageLocked
		}
		return nil
	})
}

// Export returns a persistence-shaped snapshot of the active project, with
// ephemeral preview URLs stripped.
func (s *Service) Export() (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, workflow.ErrNoActiveProject
	}
	return sanitizeForPersist(s.active), nil
}

// mutate applies fn to a working copy of the active project, persists it,
// and commits it only when the save succeeds.
func (s *Service) mutate(ctx context.Context, fn func(*models.Project) error) (gateway.Result[*models.Project], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return gateway.Result[*models.Project]{}, workflow.ErrNoActiveProject
	}

	working := s.active.Clone()
	if err := fn(working); err != nil {
		return gateway.Result[*models.Project]{}, err
	}
	return s.persistLocked(ctx, working)
}

// finalize is mutate plus a forced stage advance. The cascade and the stage
// move persist as one write.
func (s *Service) finalize(ctx context.Context, next models.WorkflowStage, fn func(*models.Project) error) (gateway.Result[*models.Project], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return gateway.Result[*models.Project]{}, workflow.ErrNoActiveProject
	}

	working := s.active.Clone()
	if err := fn(working); err != nil {
		return gateway.Result[*models.Project]{}, err
	}
	working.Stage = next

	res, err := s.persistLocked(ctx, working)
	if err != nil {
		return gateway.Result[*models.Project]{}, err
	}
	s.machine.Advance(nil, next)
	return res, nil
}

// persistLocked saves a sanitized snapshot and commits the working copy as
// the new active project. Callers hold s.mu.
func (s *Service) persistLocked(ctx context.Context, working *models.Project) (gateway.Result[*models.Project], error) {
	snapshot := sanitizeForPersist(working)
	res, err := s.store.SaveProject(ctx, snapshot)
	if err != nil {
		return gateway.Result[*models.Project]{}, fmt.Errorf("failed to persist project: %w", err)
	}

	// The gateway may have minted an id and bumped timestamps.
	working.ID = res.Value.ID
	working.CreatedAt = res.Value.CreatedAt
	working.UpdatedAt = res.Value.UpdatedAt
	s.active = working

	tier := "remote"
	if res.FallbackUsed {
		tier = "local"
	}
	logger := logging.WithProject(working.ID, string(working.Stage))
	logging.WithTier(logger, "documents", tier).Debug("project persisted")

	out := res
	out.Value = working.Clone()
	return out, nil
}

// sanitizeForPersist strips generated preview URLs from storyboard scenes.
// Those are ephemeral: persisted snapshots carry the prompt, not the image.
func sanitizeForPersist(p *models.Project) *models.Project {
	out := p.Clone()
	if out.SelectedStoryboard != nil {
		for i := range out.SelectedStoryboard.Scenes {
			out.SelectedStoryboard.Scenes[i].GeneratedImageURL = ""
		}
	}
	return out
}

func withClone(res gateway.Result[*models.Project]) gateway.Result[*models.Project] {
	out := res
	out.Value = res.Value.Clone()
	return out
}
