package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Settings are the runtime tunables users change from the settings screen.
// They are persisted to a YAML file and hot-reloaded when the file changes.
type Settings struct {
	UseAI           bool    `yaml:"useAI" json:"useAI"`
	ProviderBaseURL string  `yaml:"providerBaseUrl" json:"providerBaseUrl"`
	ProviderAPIKey  string  `yaml:"providerApiKey" json:"providerApiKey"`
	Model           string  `yaml:"model" json:"model"`
	ImageModel      string  `yaml:"imageModel" json:"imageModel"`
	ImageGeneration bool    `yaml:"imageGeneration" json:"imageGeneration"`
	Temperature     float64 `yaml:"temperature" json:"temperature"`
	MaxTokens       int     `yaml:"maxTokens" json:"maxTokens"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		UseAI:           false,
		ProviderBaseURL: "https://api.openai.com/v1",
		Model:           "gpt-4o-mini",
		ImageModel:      "dall-e-3",
		ImageGeneration: false,
		Temperature:     0.7,
		MaxTokens:       4096,
	}
}

// SettingsStore owns the settings file: load, save, and change notification.
// Reload happens only on an observed file event or an explicit Update, never
// implicitly mid-operation.
type SettingsStore struct {
	path string

	mu        sync.RWMutex
	current   Settings
	callbacks []func(Settings)

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSettingsStore loads settings from path, writing defaults if the file is
// missing, and starts watching the file for external edits.
func NewSettingsStore(path string) (*SettingsStore, error) {
	s := &SettingsStore{
		path: path,
		done: make(chan struct{}),
	}

	settings, err := readSettingsFile(path)
	if os.IsNotExist(err) {
		settings = DefaultSettings()
		if werr := writeSettingsFile(path, settings); werr != nil {
			return nil, fmt.Errorf("failed to write default settings: %w", werr)
		}
		log.Printf("📝 Created default settings file at %s", path)
	} else if err != nil {
		return nil, err
	}
	s.current = settings

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}
	// Watch the directory, not the file: editors replace files on save and
	// the inode-level watch would be lost.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch settings dir: %w", err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Current returns a snapshot of the settings. Callers hold the snapshot for
// the duration of one operation so a concurrent reload cannot change behavior
// mid-flight.
func (s *SettingsStore) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnChange registers a callback invoked with the new settings after every
// applied change. Callbacks run on the watcher goroutine and must be quick.
func (s *SettingsStore) OnChange(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Update applies new settings, persists them, and notifies callbacks.
func (s *SettingsStore) Update(settings Settings) error {
	if err := writeSettingsFile(s.path, settings); err != nil {
		return err
	}
	s.apply(settings)
	return nil
}

// Close stops the file watcher.
func (s *SettingsStore) Close() error {
	close(s.done)
	return s.watcher.Close()
}

func (s *SettingsStore) apply(settings Settings) {
	s.mu.Lock()
	s.current = settings
	callbacks := make([]func(Settings), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(settings)
	}
}

func (s *SettingsStore) watch() {
	// Debounce: editors fire several events per save.
	var timer *time.Timer
	base := filepath.Base(s.path)

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, s.reload)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️ Settings watcher error: %v", err)
		}
	}
}

func (s *SettingsStore) reload() {
	settings, err := readSettingsFile(s.path)
	if err != nil {
		log.Printf("⚠️ Failed to reload settings, keeping previous: %v", err)
		return
	}
	s.apply(settings)
	log.Printf("🔄 Settings reloaded from %s", s.path)
}

func readSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	return settings, nil
}

func writeSettingsFile(path string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
