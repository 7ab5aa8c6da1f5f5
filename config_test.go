package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadSettingsEmbeddedDefaults(t *testing.T) {
	settings, err := loadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.OutputDirectory != "apps" {
		t.Errorf("OutputDirectory = %q, want apps", settings.OutputDirectory)
	}
	if settings.RequestDelay() != 5*time.Second {
		t.Errorf("RequestDelay() = %v, want 5s", settings.RequestDelay())
	}
	if settings.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", settings.MaxRetries)
	}
	if settings.Generator.Provider != "openai" {
		t.Errorf("Generator.Provider = %q, want openai", settings.Generator.Provider)
	}
	if len(settings.Apps) == 0 {
		t.Error("default apps list is empty")
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	content := `output_directory: generated
request_delay_seconds: 1
max_retries: 3
backoff_seconds: 4
generator:
  provider: anthropic
  model: claude-sonnet-4-20250514
apps:
  - "Digital Clock"
`
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}

	if settings.OutputDirectory != "generated" {
		t.Errorf("OutputDirectory = %q", settings.OutputDirectory)
	}
	if settings.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", settings.MaxRetries)
	}
	if settings.Backoff() != 4*time.Second {
		t.Errorf("Backoff() = %v, want 4s", settings.Backoff())
	}
	if settings.Generator.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Generator.Model = %q", settings.Generator.Model)
	}
	if len(settings.Apps) != 1 || settings.Apps[0] != "Digital Clock" {
		t.Errorf("Apps = %v", settings.Apps)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "output_directory: [unterminated"},
		{"empty output dir", "output_directory: \"\""},
		{"negative delay", "output_directory: apps\nrequest_delay_seconds: -1"},
		{"negative retries", "output_directory: apps\nmax_retries: -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := loadSettings(path); err == nil {
				t.Error("loadSettings() should reject invalid settings")
			}
		})
	}
}

func TestLoadPromptTemplate(t *testing.T) {
	t.Run("embedded default", func(t *testing.T) {
		prompt, err := loadPromptTemplate("")
		if err != nil {
			t.Fatalf("loadPromptTemplate() error = %v", err)
		}
		if !strings.Contains(prompt, promptVar) {
			t.Errorf("embedded template missing %s", promptVar)
		}
	})

	t.Run("override file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.md")
		os.WriteFile(path, []byte("Write a {{.App}} please.\n"), 0644)

		prompt, err := loadPromptTemplate(path)
		if err != nil {
			t.Fatalf("loadPromptTemplate() error = %v", err)
		}
		if prompt != "Write a {{.App}} please." {
			t.Errorf("prompt = %q", prompt)
		}
	})

	t.Run("override without variable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.md")
		os.WriteFile(path, []byte("No substitution point."), 0644)

		if _, err := loadPromptTemplate(path); err == nil {
			t.Error("loadPromptTemplate() should reject template without variable")
		}
	})

	t.Run("missing override file", func(t *testing.T) {
		if _, err := loadPromptTemplate(filepath.Join(t.TempDir(), "nope.md")); err == nil {
			t.Error("loadPromptTemplate() should fail for missing file")
		}
	})
}

func TestEnsureConfigExists(t *testing.T) {
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(tempDir)

	if err := ensureConfigExists(); err != nil {
		t.Fatalf("ensureConfigExists() error = %v", err)
	}

	data, err := os.ReadFile(getConfigPath("settings.yaml"))
	if err != nil {
		t.Fatalf("settings.yaml not written: %v", err)
	}
	if !strings.Contains(string(data), "output_directory") {
		t.Error("written settings.yaml missing output_directory")
	}

	// Second call must leave the existing file alone.
	os.WriteFile(getConfigPath("settings.yaml"), []byte("output_directory: custom"), 0644)
	if err := ensureConfigExists(); err != nil {
		t.Fatalf("ensureConfigExists() second call error = %v", err)
	}
	data, _ = os.ReadFile(getConfigPath("settings.yaml"))
	if string(data) != "output_directory: custom" {
		t.Error("ensureConfigExists() overwrote customized settings")
	}
}

func TestWorkItems(t *testing.T) {
	defaults := []string{"Digital Clock", "Hangman Game"}

	items := workItems(nil, defaults)
	if len(items) != 2 || items[0].Label != "Digital Clock" {
		t.Errorf("workItems(nil) = %v", items)
	}

	items = workItems([]string{"Stopwatch"}, defaults)
	if len(items) != 1 || items[0].Label != "Stopwatch" {
		t.Errorf("workItems(args) = %v", items)
	}
}
