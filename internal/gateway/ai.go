package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"contentos/internal/config"
	"contentos/internal/mockgen"
	"contentos/internal/models"
	"contentos/internal/utils"
)

const aiService = "ai"

// AIGateway fronts an OpenAI-compatible provider with the deterministic
// template generator as its fallback tier. Generate never returns an error:
// any remote failure degrades to a template response flagged FallbackUsed.
type AIGateway struct {
	settings func() config.Settings
	client   *http.Client
	limiter  *rate.Limiter
}

// NewAIGateway builds a gateway reading a fresh settings snapshot per call.
func NewAIGateway(settings func() config.Settings) *AIGateway {
	return &AIGateway{
		settings: settings,
		client: &http.Client{
			Timeout: 120 * time.Second, // long-form script generation is slow
		},
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// Available reports whether the remote tier is configured. Configuration is
// the only availability signal; no network probe is made for AI.
func (g *AIGateway) Available() bool {
	s := g.settings()
	return s.UseAI && s.ProviderAPIKey != ""
}

// Generate resolves a generation request through the best available tier.
func (g *AIGateway) Generate(ctx context.Context, req models.GenerateRequest) models.GenerateResponse {
	s := g.settings()

	if !s.UseAI || s.ProviderAPIKey == "" {
		recordOperation(aiService, "generate", TierFallback)
		return mockgen.Generate(req)
	}

	// Image generation has its own toggle. When off, the request goes
	// straight to the placeholder without touching the network.
	if req.Type == models.GenerateImage && !s.ImageGeneration {
		recordOperation(aiService, "generate", TierFallback)
		return mockgen.Generate(req)
	}

	start := time.Now()
	var (
		data string
		err  error
	)
	if req.Type == models.GenerateImage {
		data, err = g.generateImage(ctx, s, req)
	} else {
		data, err = g.generateText(ctx, s, req)
	}
	recordGenerateLatency(time.Since(start).Seconds())

	if err != nil {
		log.Printf("⚠️ AI provider call failed, using template fallback: %v", err)
		recordProbeFailure(aiService)
		recordOperation(aiService, "generate", TierFallback)
		resp := mockgen.Generate(req)
		resp.Message = "AI provider unavailable: served template content instead."
		return resp
	}

	// Structured requests parse leniently: providers wrap JSON in prose or
	// fences even with response_format set. Malformed output degrades to the
	// template tier like any other remote failure.
	if req.Format == "json" && req.Type != models.GenerateImage {
		extracted, jerr := utils.FirstJSON(utils.StripCodeFences(data))
		if jerr != nil {
			log.Printf("⚠️ AI provider returned malformed structured output, using template fallback: %v", jerr)
			recordOperation(aiService, "generate", TierFallback)
			resp := mockgen.Generate(req)
			resp.Message = "AI provider returned malformed output: served template content instead."
			return resp
		}
		data = extracted
	}

	recordOperation(aiService, "generate", TierRemote)
	return models.GenerateResponse{Success: true, Data: data}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	ImageURL *imageURLField `json:"image_url,omitempty"`
}

type imageURLField struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature,omitempty"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *AIGateway) generateText(ctx context.Context, s config.Settings, req models.GenerateRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := s.Model
	temperature := s.Temperature
	maxTokens := s.MaxTokens
	if req.Config != nil {
		if req.Config.Model != "" {
			model = req.Config.Model
		}
		if req.Config.Temperature != 0 {
			temperature = req.Config.Temperature
		}
		if req.Config.MaxTokens != 0 {
			maxTokens = req.Config.MaxTokens
		}
	}

	var content any = req.Prompt
	if len(req.Images) > 0 {
		parts := []contentPart{{Type: "text", Text: req.Prompt}}
		for _, img := range req.Images {
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURLField{URL: img}})
		}
		content = parts
	}

	body := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if req.Format == "json" {
		body.ResponseFormat = map[string]any{"type": "json_object"}
	}

	var parsed chatResponse
	if err := g.post(ctx, s, "/chat/completions", body, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *AIGateway) generateImage(ctx context.Context, s config.Settings, req models.GenerateRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	model := s.ImageModel
	if req.Config != nil && req.Config.Model != "" {
		model = req.Config.Model
	}

	body := imageRequest{
		Model:          model,
		Prompt:         req.Prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	var parsed imageResponse
	if err := g.post(ctx, s, "/images/generations", body, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 {
		return "", fmt.Errorf("provider returned no image data")
	}
	if b64 := parsed.Data[0].B64JSON; b64 != "" {
		return "data:image/png;base64," + b64, nil
	}
	if url := parsed.Data[0].URL; url != "" {
		return url, nil
	}
	return "", fmt.Errorf("provider returned empty image payload")
}

func (g *AIGateway) post(ctx context.Context, s config.Settings, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimRight(s.ProviderBaseURL, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.ProviderAPIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse provider response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
