package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/config"
	"contentos/internal/database"
	"contentos/internal/gateway"
	"contentos/internal/health"
	"contentos/internal/imagequeue"
	"contentos/internal/pins"
	"contentos/internal/project"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	local, err := database.NewLocalStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	docs := gateway.NewDocStore(nil, local, time.Second)
	objects, err := gateway.NewObjectStore(gateway.ObjectStoreConfig{}, local, time.Second)
	if err != nil {
		t.Fatalf("failed to build object store: %v", err)
	}
	ai := gateway.NewAIGateway(func() config.Settings { return config.Settings{} })
	queue := imagequeue.NewQueue(ai)
	projects := project.NewService(docs)

	healthSvc := health.NewService(
		health.NewAIProber(ai),
		health.NewStoreProber(health.ServiceDatabase, docs),
		health.NewStoreProber(health.ServiceObjects, objects),
	)

	settingsStore, err := config.NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("failed to build settings store: %v", err)
	}
	t.Cleanup(func() { settingsStore.Close() })

	app := fiber.New()
	RegisterRoutes(app, &Handlers{
		Projects: NewProjectHandler(projects),
		Pins:     NewPinHandler(pins.NewRegistry(docs)),
		Generate: NewGenerateHandler(ai, queue),
		Assets:   NewAssetHandler(objects),
		Ingest:   NewIngestHandler(projects),
		Settings: NewSettingsHandler(settingsStore),
		Profile:  NewProfileHandler(docs),
		Health:   NewHealthHandler(healthSvc),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var env Envelope
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("invalid response JSON %q: %v", raw, err)
		}
	}
	return resp, env
}

func TestCreateAndFetchProject(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/projects/", map[string]string{"name": "My Video"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !env.Success {
		t.Fatalf("create failed: %s", env.Error)
	}
	if !env.FallbackUsed {
		t.Error("offline create must report fallbackUsed")
	}

	data := env.Data.(map[string]any)
	if data["stage"] != "ingestion" {
		t.Errorf("stage = %v", data["stage"])
	}

	resp, env = doJSON(t, app, http.MethodGet, "/api/projects/current", nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("current failed: %d %s", resp.StatusCode, env.Error)
	}
	if env.Data.(map[string]any)["name"] != "My Video" {
		t.Errorf("current project name = %v", env.Data.(map[string]any)["name"])
	}
}

func TestTransitionLockedReturnsConflict(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/projects/", map[string]string{"name": "p"})

	resp, env := doJSON(t, app, http.MethodPost, "/api/projects/current/transition",
		map[string]string{"stage": "script"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if env.Success {
		t.Error("locked transition must not succeed")
	}
}

func TestFinalizeFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	doJSON(t, app, http.MethodPost, "/api/projects/", map[string]string{"name": "p"})

	resp, env := doJSON(t, app, http.MethodPost, "/api/projects/current/finalize/topic",
		map[string]string{"id": "t1", "title": "Topic"})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("finalize topic: %d %s", resp.StatusCode, env.Error)
	}
	if env.Data.(map[string]any)["stage"] != "script" {
		t.Errorf("stage = %v", env.Data.(map[string]any)["stage"])
	}

	// Script finalize without content is a validation error.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/projects/current/finalize/script",
		map[string]string{"id": "s1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty script status = %d, want 400", resp.StatusCode)
	}

	resp, env = doJSON(t, app, http.MethodPost, "/api/projects/current/finalize/script",
		map[string]string{"id": "s1", "content": "script text", "format": "facecam"})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("finalize script: %d %s", resp.StatusCode, env.Error)
	}
	if env.Data.(map[string]any)["stage"] != "storyboard" {
		t.Errorf("stage = %v", env.Data.(map[string]any)["stage"])
	}
}

func TestFinalizeWithoutProject(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/projects/current/finalize/topic",
		map[string]string{"id": "t1", "title": "Topic"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateFallbackEnvelope(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/ai/generate",
		map[string]string{"prompt": "Suggest topic ideas"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !env.Success || !env.FallbackUsed {
		t.Errorf("expected successful fallback, got success=%v fallback=%v", env.Success, env.FallbackUsed)
	}
	if env.Data == nil {
		t.Error("fallback must carry template data")
	}
}

func TestShortsGenerationCoercesAndFallsBack(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/ai/shorts",
		map[string]string{"script": "A long script about deep work.", "sourceScriptId": "s1"})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("shorts: %d %s", resp.StatusCode, env.Error)
	}
	if !env.FallbackUsed {
		t.Error("offline shorts generation must report fallbackUsed")
	}

	extracts := env.Data.([]any)
	if len(extracts) == 0 {
		t.Fatal("expected template shorts extracts")
	}
	for _, raw := range extracts {
		e := raw.(map[string]any)
		dur := e["duration"].(float64)
		if dur < 10 || dur > 30 {
			t.Errorf("duration %v outside clip bounds", dur)
		}
		switch e["viralPotential"] {
		case "low", "medium", "high", "viral":
		default:
			t.Errorf("viralPotential %v not coerced", e["viralPotential"])
		}
		if e["sourceScriptId"] == "" {
			t.Error("sourceScriptId must be filled from the request")
		}
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/api/ai/shorts", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing script status = %d, want 400", resp.StatusCode)
	}
}

func TestParseShortsLenient(t *testing.T) {
	prose := "Here are your clips:\n```json\n[{\"title\":\"Clip\",\"duration\":95,\"viralPotential\":\"mega\",\"contentType\":\"cliffhanger\"}]\n```"
	extracts, ok := parseShorts(prose)
	if !ok || len(extracts) != 1 {
		t.Fatalf("expected one extract from fenced prose, got %v %d", ok, len(extracts))
	}

	wrapped := `{"shorts":[{"title":"Clip A"},{"title":"Clip B"}]}`
	extracts, ok = parseShorts(wrapped)
	if !ok || len(extracts) != 2 {
		t.Fatalf("expected two extracts from wrapper object, got %v %d", ok, len(extracts))
	}

	if _, ok := parseShorts("no structured content here"); ok {
		t.Error("prose without JSON must not parse")
	}
}

func TestPinLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/pins/", map[string]any{
		"itemType": "topic",
		"content":  map[string]string{"title": "Pinned"},
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("pin add: %d %s", resp.StatusCode, env.Error)
	}
	pinID := env.Data.(map[string]any)["id"].(string)

	_, env = doJSON(t, app, http.MethodGet, "/api/pins/?type=topic", nil)
	pinsList := env.Data.([]any)
	if len(pinsList) != 1 {
		t.Fatalf("expected 1 pin, got %d", len(pinsList))
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/pins/"+pinID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("pin delete status = %d", resp.StatusCode)
	}

	_, env = doJSON(t, app, http.MethodGet, "/api/pins/", nil)
	if env.Data != nil && len(env.Data.([]any)) != 0 {
		t.Error("expected no pins after delete")
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Healthy  bool                            `json:"healthy"`
		Services map[string]health.ServiceHealth `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Healthy {
		t.Error("fully offline system must not be healthy")
	}
	if body.Services[health.ServiceAI].Status != health.StatusMock {
		t.Errorf("ai = %s, want mock", body.Services[health.ServiceAI].Status)
	}
	if body.Services[health.ServiceDatabase].Status != health.StatusDisconnected {
		t.Errorf("database = %s, want disconnected", body.Services[health.ServiceDatabase].Status)
	}
}

func TestSettingsMasking(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPut, "/api/settings", map[string]any{
		"useAI":          true,
		"providerApiKey": "sk-verysecretkey123",
		"model":          "gpt-4o-mini",
	})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("settings update: %d %s", resp.StatusCode, env.Error)
	}

	_, env = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	key := env.Data.(map[string]any)["providerApiKey"].(string)
	if key == "sk-verysecretkey123" {
		t.Error("api key must be masked in responses")
	}
	if key == "" {
		t.Error("masked key must still indicate presence")
	}
}
