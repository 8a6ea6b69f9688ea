package gemini

import (
	"context"
	"log/slog"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/resume-intake/internal/common"
)

// Config for the Gemini client.
type Config struct {
	APIKey      string        // if empty, falls back to env GEMINI_API_KEY
	Model       string        // e.g., "gemini-2.5-flash"
	Temperature float32       // 0..2
	Timeout     time.Duration // per-request deadline
}

type Client struct {
	cfg    Config
	genai  *genai.Client
	logger *slog.Logger
}

// NewClient builds a Gemini-backed field extractor. A missing API key is a
// configuration error: callers cannot extract anything without a credential.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", common.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, common.WrapError(err, "create genai client")
	}
	return &Client{
		cfg:    cfg,
		genai:  gc,
		logger: logger,
	}, nil
}
