// Package workflow owns the stage-gated state machine of the content
// pipeline. Backward and lateral navigation is always free; forward movement
// is gated on the project having committed the upstream selection.
package workflow

import (
	"errors"
	"sync"

	"contentos/internal/models"
)

// Pipeline is the fixed stage order. The imagegen utility mode sits outside
// it and bypasses gating entirely.
var Pipeline = []models.WorkflowStage{
	models.StageIngestion,
	models.StageTopics,
	models.StageScript,
	models.StageStoryboard,
	models.StageMetadata,
	models.StageShorts,
	models.StageComplete,
}

var (
	// ErrStageLocked signals a forward transition whose prerequisite is unmet.
	// It is a user-facing notice, not a failure; the machine is unchanged.
	ErrStageLocked = errors.New("complete the current stage first")
	// ErrNoActiveProject signals an operation that needs a project when none
	// is loaded. Operations never create a project implicitly.
	ErrNoActiveProject = errors.New("no active project")
	// ErrUnknownStage signals a stage name outside the pipeline.
	ErrUnknownStage = errors.New("unknown workflow stage")
)

// Position returns a stage's index in the pipeline, or -1 for stages outside
// it (imagegen and unknown values).
func Position(stage models.WorkflowStage) int {
	for i, s := range Pipeline {
		if s == stage {
			return i
		}
	}
	return -1
}

// Prerequisite reports whether the project satisfies the entry condition for
// a forward move into target. Evaluated against the current snapshot only.
func Prerequisite(target models.WorkflowStage, p *models.Project) bool {
	switch target {
	case models.StageIngestion, models.StageTopics, models.StageImageGen:
		return true
	case models.StageScript:
		return p.SelectedTopic != nil
	case models.StageStoryboard:
		return p.SelectedScript != nil
	case models.StageMetadata:
		return p.SelectedStoryboard != nil
	case models.StageShorts, models.StageComplete:
		return p.SelectedMetadata != nil
	default:
		return false
	}
}

// Machine tracks the current stage. It and the project's stage field are
// always written together so the two never diverge.
type Machine struct {
	mu      sync.Mutex
	current models.WorkflowStage
}

// NewMachine starts a machine at the ingestion stage.
func NewMachine() *Machine {
	return &Machine{current: models.StageIngestion}
}

// Current returns the machine's stage.
func (m *Machine) Current() models.WorkflowStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Transition attempts to move to target, applying the gating rule against
// the given project snapshot. On success both the machine and the project's
// stage field are updated. imagegen is reachable at any time, with or
// without a project.
func (m *Machine) Transition(p *models.Project, target models.WorkflowStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if target == models.StageImageGen {
		m.current = target
		if p != nil {
			p.Stage = target
		}
		return nil
	}

	targetPos := Position(target)
	if targetPos < 0 {
		return ErrUnknownStage
	}
	if p == nil {
		return ErrNoActiveProject
	}

	// Leaving imagegen resumes wherever the project left off, so treat the
	// project's own stage as the position reference.
	currentPos := Position(m.current)
	if m.current == models.StageImageGen {
		currentPos = Position(p.Stage)
	}

	if targetPos > currentPos && !Prerequisite(target, p) {
		return ErrStageLocked
	}

	m.current = target
	p.Stage = target
	return nil
}

// Advance force-sets the stage on both the machine and the project. It is
// used by finalization, which has already earned the move.
func (m *Machine) Advance(p *models.Project, stage models.WorkflowStage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = stage
	if p != nil {
		p.Stage = stage
	}
}
