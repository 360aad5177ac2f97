package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/medvault/medvault/constants"
	"github.com/medvault/medvault/internal/aiparse/openrouter"
	"github.com/medvault/medvault/internal/common"
	"github.com/medvault/medvault/internal/pipeline"
)

// parsedoc runs the parse pipeline once on a local file and prints the
// outcome as JSON. Handy for prompt tuning without a running server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: parsedoc <file> [category_hint]")
		os.Exit(2)
	}
	path := os.Args[1]
	hint := ""
	if len(os.Args) >= 3 {
		hint = os.Args[2]
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.AI.APIKey == "" {
		logger.Error("OPENROUTER_API_KEY env var is required")
		os.Exit(2)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		logger.Error("unsupported file extension", "path", path)
		os.Exit(2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}

	parser := openrouter.NewClient(openrouter.Config{
		BaseURL:           cfg.AI.BaseURL,
		Model:             cfg.AI.Model,
		Temperature:       cfg.AI.Temperature,
		ClassifyMaxTokens: cfg.AI.ClassifyMaxTokens,
		ExtractMaxTokens:  cfg.AI.ExtractMaxTokens,
		ClassifyTimeout:   cfg.AI.ClassifyTimeout,
		ExtractTimeout:    cfg.AI.ExtractTimeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	out := pipeline.New(parser, logger).Parse(ctx, data, format, cfg.AI.APIKey, hint)
	logger.Info("parse.done",
		"category", out.DetectedCategory,
		"status", out.Status,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode outcome", "error", err)
		os.Exit(1)
	}
}
