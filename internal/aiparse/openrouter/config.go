package openrouter

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the OpenRouter client.
type Config struct {
	BaseURL           string        // default https://openrouter.ai/api/v1/chat/completions
	Model             string        // e.g., "google/gemini-flash-1.5"
	Temperature       float32       // low for literal extraction
	ClassifyMaxTokens int           // budget for the type-detection call
	ExtractMaxTokens  int           // budget for the full extraction call
	ClassifyTimeout   time.Duration // short; detection is a one-token answer
	ExtractTimeout    time.Duration // long; multimodal payloads round-trip slowly
	Referer           string        // HTTP-Referer header value
	AppTitle          string        // X-Title header value
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "google/gemini-flash-1.5"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.ClassifyMaxTokens <= 0 {
		cfg.ClassifyMaxTokens = 100
	}
	if cfg.ExtractMaxTokens <= 0 {
		cfg.ExtractMaxTokens = 4000
	}
	if cfg.ClassifyTimeout <= 0 {
		cfg.ClassifyTimeout = 30 * time.Second
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 90 * time.Second
	}
	if cfg.Referer == "" {
		cfg.Referer = "https://medvault.app"
	}
	if cfg.AppTitle == "" {
		cfg.AppTitle = "MedVault"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg: cfg,
		// Timeouts are per call purpose, so the client itself carries none.
		httpClient: &http.Client{},
		logger:     logger,
	}
}
