package models

// GenerationType selects text or image output.
type GenerationType string

const (
	GenerateText  GenerationType = "text"
	GenerateImage GenerationType = "image"
)

// GenerateConfig carries optional per-request provider overrides.
type GenerateConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
}

// GenerateRequest is a single generation call into the AI gateway. Images are
// data URIs attached for multimodal prompts; Format "json" asks the provider
// for structured output, which callers still extract leniently.
type GenerateRequest struct {
	Prompt string          `json:"prompt"`
	Type   GenerationType  `json:"type"`
	Images []string        `json:"images,omitempty"`
	Format string          `json:"format,omitempty"`
	Config *GenerateConfig `json:"config,omitempty"`
}

// GenerateResponse is the gateway's always-resolving result envelope.
type GenerateResponse struct {
	Success      bool   `json:"success"`
	Data         string `json:"data"`
	FallbackUsed bool   `json:"fallbackUsed"`
	Message      string `json:"message"`
}
