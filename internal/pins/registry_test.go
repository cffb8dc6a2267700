package pins

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"contentos/internal/database"
	"contentos/internal/gateway"
	"contentos/internal/models"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	local, err := database.NewLocalStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })
	return NewRegistry(gateway.NewDocStore(nil, local, time.Second))
}

func TestAddAssignsIdentity(t *testing.T) {
	r := newTestRegistry(t)

	res, err := r.Add(context.Background(), models.PinnedItem{
		UserID:          "u1",
		ItemType:        models.PinTopic,
		Content:         map[string]any{"title": "Pinned topic"},
		SourceProjectID: "p1",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	pin := res.Value
	if pin.ID == "" {
		t.Error("add must assign an id")
	}
	if pin.PinnedAt.IsZero() {
		t.Error("add must stamp pinnedAt")
	}
	if !r.Has(pin.ID) {
		t.Error("mirror must know the stored pin")
	}
}

func TestAddRejectsEmptyContent(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Add(context.Background(), models.PinnedItem{UserID: "u1", ItemType: models.PinTopic})
	if err != ErrEmptyContent {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestListFiltersByType(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	for _, pin := range []models.PinnedItem{
		{UserID: "u1", ItemType: models.PinTopic, Content: "a"},
		{UserID: "u1", ItemType: models.PinScript, Content: "b"},
		{UserID: "u1", ItemType: models.PinTopic, Content: "c"},
	} {
		if _, err := r.Add(ctx, pin); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	topics, err := r.List(ctx, "u1", models.PinTopic)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(topics.Value) != 2 {
		t.Errorf("expected 2 topic pins, got %d", len(topics.Value))
	}

	all, err := r.List(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all.Value) != 3 {
		t.Errorf("expected 3 pins, got %d", len(all.Value))
	}
}

func TestPinsSurviveSourceProjectDeletion(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	// The registry never validates SourceProjectID; a dangling reference is
	// expected after the source project goes away.
	res, err := r.Add(ctx, models.PinnedItem{
		UserID:          "u1",
		ItemType:        models.PinScript,
		Content:         "script text",
		SourceProjectID: "deleted-project",
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	list, err := r.List(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Value) != 1 || list.Value[0].ID != res.Value.ID {
		t.Error("pin must remain listable regardless of its source project")
	}
}

func TestRemove(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	res, err := r.Add(ctx, models.PinnedItem{UserID: "u1", ItemType: models.PinTitle, Content: "t"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, err := r.Remove(ctx, res.Value.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if r.Has(res.Value.ID) {
		t.Error("mirror must drop removed pins")
	}

	list, err := r.List(ctx, "u1", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Value) != 0 {
		t.Errorf("expected no pins, got %d", len(list.Value))
	}
}
