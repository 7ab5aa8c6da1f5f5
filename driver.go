package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// promptVar is the substitution point for the app name in the prompt template.
const promptVar = "{{.App}}"

const defaultBackoff = 2 * time.Second

// DriverConfig carries everything the driver needs for one run.
type DriverConfig struct {
	OutputDir  string
	Delay      time.Duration // pacing between successive items
	MaxRetries int           // extra attempts per item after the first
	Backoff    time.Duration // base retry delay, doubles per attempt
	Prompt     string        // template containing {{.App}}
}

// Driver generates one single-file HTML app per work item, sequentially.
type Driver struct {
	generator Generator
	cfg       DriverConfig
	wait      func(context.Context, time.Duration)
}

// NewDriver validates the configuration and builds a driver.
func NewDriver(generator Generator, cfg DriverConfig) (*Driver, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if !strings.Contains(cfg.Prompt, promptVar) {
		return nil, fmt.Errorf("prompt template must contain %s variable", promptVar)
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}

	return &Driver{
		generator: generator,
		cfg:       cfg,
		wait:      sleepContext,
	}, nil
}

// Run attempts every item in order and returns the aggregate summary.
// Per-item failures are recorded, never propagated; only an unusable
// output directory aborts the run. Cancelling the context stops the
// run between items, leaving already-written apps in place.
func (d *Driver) Run(ctx context.Context, items []WorkItem) (*Summary, error) {
	if err := os.MkdirAll(d.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	summary := &Summary{}

	for i, item := range items {
		if ctx.Err() != nil {
			log.Printf("Cancelled, %d item(s) left unprocessed", len(items)-i)
			break
		}

		log.Printf("[%d/%d] Generating: %s", i+1, len(items), item.Label)
		result := d.processItem(ctx, item)
		summary.add(result)

		if result.Status == StatusGenerated {
			log.Printf("✓ Generated: %s (%s)", result.Filename, result.Elapsed.Round(time.Millisecond))
		} else {
			log.Printf("✗ Failed %s after %d attempt(s): %v", item.Label, result.Attempts, result.Err)
		}

		if i < len(items)-1 {
			d.wait(ctx, d.cfg.Delay)
		}
	}

	log.Printf("Done: %d generated, %d failed", summary.Generated, summary.Failed)
	return summary, nil
}

// processItem runs the bounded attempt loop for a single item.
func (d *Driver) processItem(ctx context.Context, item WorkItem) ItemResult {
	start := time.Now()
	prompt := strings.ReplaceAll(d.cfg.Prompt, promptVar, item.Label)
	result := ItemResult{Label: item.Label}

	var lastErr error
	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			d.wait(ctx, d.cfg.Backoff<<uint(attempt-1))
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
		result.Attempts++

		content, err := d.generator.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(content) == "" {
			err = errEmptyResponse
		}
		if err != nil {
			lastErr = err
			continue
		}

		// Collisions between labels overwrite silently; see deriveFilename.
		filename := deriveFilename(item.Label)
		path := filepath.Join(d.cfg.OutputDir, filename)
		if err := os.WriteFile(path, []byte(extractHTML(content)), 0644); err != nil {
			// The destination broke mid-run; retrying the service won't help.
			lastErr = fmt.Errorf("writing %s: %w", path, err)
			break
		}

		result.Status = StatusGenerated
		result.Filename = filename
		result.Elapsed = time.Since(start)
		return result
	}

	result.Status = StatusFailed
	result.Err = lastErr
	result.Elapsed = time.Since(start)
	return result
}

// extractHTML unwraps a fenced ```html block when the service returns
// markdown around the document instead of the raw file content.
func extractHTML(content string) string {
	trimmed := strings.TrimSpace(content)

	start := strings.Index(trimmed, "```html")
	if start == -1 {
		return trimmed
	}

	rest := trimmed[start+len("```html"):]
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
