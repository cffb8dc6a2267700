package project

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"contentos/internal/database"
	"contentos/internal/gateway"
	"contentos/internal/models"
	"contentos/internal/workflow"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	local, err := database.NewLocalStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return NewService(gateway.NewDocStore(nil, local, time.Second))
}

func createProject(t *testing.T, s *Service) *models.Project {
	t.Helper()
	res, err := s.Create(context.Background(), "Test Video", "u1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return res.Value
}

func TestCreateStartsAtIngestion(t *testing.T) {
	s := newTestService(t)
	p := createProject(t, s)

	if p.Stage != models.StageIngestion {
		t.Errorf("new project stage = %s", p.Stage)
	}
	if p.ID == "" {
		t.Error("create must assign an id")
	}
	if s.Stage() != models.StageIngestion {
		t.Errorf("machine stage = %s", s.Stage())
	}
}

func TestOperationsRequireActiveProject(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Update(ctx, models.ProjectPatch{}); err != workflow.ErrNoActiveProject {
		t.Errorf("update: expected ErrNoActiveProject, got %v", err)
	}
	if _, err := s.FinalizeTopic(ctx, models.SelectedTopic{ID: "t1"}); err != workflow.ErrNoActiveProject {
		t.Errorf("finalize: expected ErrNoActiveProject, got %v", err)
	}
	if _, err := s.Export(); err != workflow.ErrNoActiveProject {
		t.Errorf("export: expected ErrNoActiveProject, got %v", err)
	}
}

func TestTransitionGatesForwardMovement(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)
	ctx := context.Background()

	if _, err := s.Transition(ctx, models.StageScript); err != workflow.ErrStageLocked {
		t.Errorf("expected ErrStageLocked without a topic, got %v", err)
	}
	if s.Stage() != models.StageIngestion {
		t.Errorf("failed transition must not move the machine, at %s", s.Stage())
	}

	// topics has no prerequisite
	if _, err := s.Transition(ctx, models.StageTopics); err != nil {
		t.Fatalf("transition to topics failed: %v", err)
	}

	// backward is always free
	if _, err := s.Transition(ctx, models.StageIngestion); err != nil {
		t.Fatalf("backward transition failed: %v", err)
	}
}

func TestImageGenNeedsNoProject(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Transition(context.Background(), models.StageImageGen); err != nil {
		t.Fatalf("imagegen must be reachable without a project: %v", err)
	}
	if s.Stage() != models.StageImageGen {
		t.Errorf("machine stage = %s", s.Stage())
	}
}

func TestFinalizeTopicCascades(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)
	ctx := context.Background()

	// Seed downstream artifacts that a re-finalize must wipe.
	scripts := []models.ScriptVariant{{ID: "s1", Content: "draft"}}
	titles := []string{"old title"}
	if _, err := s.Update(ctx, models.ProjectPatch{ScriptVariants: &scripts, TitleSuggestions: &titles}); err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	res, err := s.FinalizeTopic(ctx, models.SelectedTopic{ID: "t1", Title: "Chosen Topic"})
	if err != nil {
		t.Fatalf("finalize topic failed: %v", err)
	}

	p := res.Value
	if p.SelectedTopic == nil || p.SelectedTopic.Title != "Chosen Topic" {
		t.Fatal("topic not committed")
	}
	if p.SelectedTopic.FinalizedAt.IsZero() {
		t.Error("finalize must stamp the time")
	}
	if p.ScriptVariants != nil || p.TitleSuggestions != nil {
		t.Error("finalize topic must clear downstream artifacts")
	}
	if p.Stage != models.StageScript {
		t.Errorf("stage = %s, want script", p.Stage)
	}
	if s.Stage() != models.StageScript {
		t.Errorf("machine stage = %s", s.Stage())
	}
}

func TestRefinalizeSameTopicStillCascades(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)
	ctx := context.Background()

	topic := models.SelectedTopic{ID: "t1", Title: "Topic"}
	if _, err := s.FinalizeTopic(ctx, topic); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if _, err := s.FinalizeScript(ctx, models.SelectedScript{ID: "s1", Content: "script", Format: models.FormatFacecam}); err != nil {
		t.Fatalf("finalize script failed: %v", err)
	}

	res, err := s.FinalizeTopic(ctx, topic)
	if err != nil {
		t.Fatalf("re-finalize failed: %v", err)
	}
	if res.Value.SelectedScript != nil {
		t.Error("re-finalizing the same topic must still clear the script")
	}
	if res.Value.Stage != models.StageScript {
		t.Errorf("stage = %s", res.Value.Stage)
	}
}

func TestFinalizeScriptRequiresTopic(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)

	_, err := s.FinalizeScript(context.Background(), models.SelectedScript{ID: "s1"})
	if err != workflow.ErrStageLocked {
		t.Errorf("expected ErrStageLocked, got %v", err)
	}
}

func TestFullPipeline(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)
	ctx := context.Background()

	if _, err := s.FinalizeTopic(ctx, models.SelectedTopic{ID: "t1", Title: "Topic"}); err != nil {
		t.Fatalf("finalize topic: %v", err)
	}
	if _, err := s.FinalizeScript(ctx, models.SelectedScript{ID: "s1", Content: "script", Format: models.FormatFaceless}); err != nil {
		t.Fatalf("finalize script: %v", err)
	}

	sb := models.Storyboard{Scenes: []models.StoryboardScene{
		{SceneNumber: 1, TimestampStart: "0:00", TimestampEnd: "0:30", ScriptSegment: "intro"},
	}}
	res, err := s.FinalizeStoryboard(ctx, sb)
	if err != nil {
		t.Fatalf("finalize storyboard: %v", err)
	}
	scene := res.Value.SelectedStoryboard.Scenes[0]
	if scene.Duration != 30 {
		t.Errorf("scene duration not derived, got %d", scene.Duration)
	}
	if scene.ImagePrompt == "" {
		t.Error("scene normalization must synthesize an image prompt")
	}
	if res.Value.SelectedStoryboard.Format != models.FormatFaceless {
		t.Errorf("storyboard format must inherit the script's, got %s", res.Value.SelectedStoryboard.Format)
	}

	if _, err := s.FinalizeMetadata(ctx, models.VideoMetadata{Title: "Final Title"}); err != nil {
		t.Fatalf("finalize metadata: %v", err)
	}
	if s.Stage() != models.StageShorts {
		t.Errorf("stage after metadata = %s", s.Stage())
	}

	done, err := s.Complete(ctx)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Value.Stage != models.StageComplete {
		t.Errorf("stage = %s", done.Value.Stage)
	}
}

func TestCompleteRequiresMetadata(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)

	if _, err := s.Complete(context.Background()); err != workflow.ErrStageLocked {
		t.Errorf("expected ErrStageLocked, got %v", err)
	}
}

func TestExportStripsPreviewURLs(t *testing.T) {
	s := newTestService(t)
	createProject(t, s)
	ctx := context.Background()

	if _, err := s.FinalizeTopic(ctx, models.SelectedTopic{ID: "t1", Title: "Topic"}); err != nil {
		t.Fatalf("finalize topic: %v", err)
	}
	if _, err := s.FinalizeScript(ctx, models.SelectedScript{ID: "s1", Content: "c", Format: models.FormatFacecam}); err != nil {
		t.Fatalf("finalize script: %v", err)
	}
	sb := models.Storyboard{Scenes: []models.StoryboardScene{
		{SceneNumber: 1, GeneratedImageURL: "data:image/png;base64,xyz", ImagePrompt: "prompt"},
	}}
	if _, err := s.FinalizeStoryboard(ctx, sb); err != nil {
		t.Fatalf("finalize storyboard: %v", err)
	}

	exported, err := s.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if url := exported.SelectedStoryboard.Scenes[0].GeneratedImageURL; url != "" {
		t.Errorf("export must strip preview urls, got %q", url)
	}
	if exported.SelectedStoryboard.Scenes[0].ImagePrompt != "prompt" {
		t.Error("export must keep the prompt")
	}
}

func TestPersistedSnapshotStripsPreviewURLs(t *testing.T) {
	s := newTestService(t)
	p := createProject(t, s)
	ctx := context.Background()

	if _, err := s.FinalizeTopic(ctx, models.SelectedTopic{ID: "t1", Title: "Topic"}); err != nil {
		t.Fatalf("finalize topic: %v", err)
	}
	if _, err := s.FinalizeScript(ctx, models.SelectedScript{ID: "s1", Content: "c", Format: models.FormatFacecam}); err != nil {
		t.Fatalf("finalize script: %v", err)
	}
	sb := models.Storyboard{Scenes: []models.StoryboardScene{
		{SceneNumber: 1, GeneratedImageURL: "data:image/png;base64,xyz"},
	}}
	if _, err := s.FinalizeStoryboard(ctx, sb); err != nil {
		t.Fatalf("finalize storyboard: %v", err)
	}

	// Reload from storage: the persisted copy must not carry the preview.
	reloaded, err := s.Open(ctx, p.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if url := reloaded.Value.SelectedStoryboard.Scenes[0].GeneratedImageURL; url != "" {
		t.Errorf("persisted snapshot must strip preview urls, got %q", url)
	}
}

func TestDeleteActiveProjectResets(t *testing.T) {
	s := newTestService(t)
	p := createProject(t, s)
	ctx := context.Background()

	if _, err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Current() != nil {
		t.Error("deleting the active project must clear it")
	}
	if s.Stage() != models.StageIngestion {
		t.Errorf("machine must reset, at %s", s.Stage())
	}
}
