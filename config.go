package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".appforge"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/app-prompt.md
var defaultPromptTemplate string

// GeneratorSettings selects and tunes the completion provider.
type GeneratorSettings struct {
	Provider    string  `yaml:"provider"`
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory     string            `yaml:"output_directory"`
	RequestDelaySeconds int               `yaml:"request_delay_seconds"`
	MaxRetries          int               `yaml:"max_retries"`
	BackoffSeconds      int               `yaml:"backoff_seconds"`
	Generator           GeneratorSettings `yaml:"generator"`
	Apps                []string          `yaml:"apps"`
}

// RequestDelay returns the pacing delay between successive items.
func (s *Settings) RequestDelay() time.Duration {
	return time.Duration(s.RequestDelaySeconds) * time.Second
}

// Backoff returns the base retry delay; it doubles per attempt.
func (s *Settings) Backoff() time.Duration {
	return time.Duration(s.BackoffSeconds) * time.Second
}

func (s *Settings) validate() error {
	if s.OutputDirectory == "" {
		return fmt.Errorf("output_directory must not be empty")
	}
	if s.RequestDelaySeconds < 0 {
		return fmt.Errorf("request_delay_seconds must not be negative")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if s.BackoffSeconds < 0 {
		return fmt.Errorf("backoff_seconds must not be negative")
	}
	return nil
}

// loadSettings loads settings from a YAML file, falling back to the
// embedded defaults when the file does not exist.
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		data = []byte(defaultSettings)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &settings, nil
}

// loadPromptTemplate returns the prompt template from an override file
// or the embedded default. The template must keep the substitution
// point for the app name.
func loadPromptTemplate(overridePath string) (string, error) {
	template := defaultPromptTemplate
	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return "", fmt.Errorf("reading prompt template %s: %w", overridePath, err)
		}
		template = string(data)
	}

	template = strings.TrimSpace(template)
	if !strings.Contains(template, promptVar) {
		return "", fmt.Errorf("prompt template must contain %s variable", promptVar)
	}
	return template, nil
}

// getConfigPath returns the path to a config file in the .appforge directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// ensureConfigExists creates the config directory and writes the default
// settings.yaml on first run so users have something to customize.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}
