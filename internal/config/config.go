// Package config loads the YAML settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Naimy441/nutriuni/internal/constants"
	"github.com/Naimy441/nutriuni/internal/models"
	"github.com/Naimy441/nutriuni/internal/utils"
)

// TimezoneEnv overrides the timezone from the settings file.
const TimezoneEnv = "NUTRIUNI_TIMEZONE"

// DefaultPath returns the settings file path inside configDir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, constants.SettingsFileName)
}

// Load reads path on top of the defaults. A missing or empty file yields the
// defaults; unknown keys are rejected.
func Load(path string) (models.Settings, error) {
	settings := models.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if err == nil {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
			return models.Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	if tz := strings.TrimSpace(os.Getenv(TimezoneEnv)); tz != "" {
		settings.Timezone = tz
	}

	models.ApplyDefaultSettings(&settings)
	if err := Validate(settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Validate rejects settings the application cannot run with.
func Validate(s models.Settings) error {
	if !utils.ValidateTimezone(s.Timezone) {
		return fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if s.QuickAccessCapacity <= 0 {
		return fmt.Errorf("quick_access_capacity must be positive, got %d", s.QuickAccessCapacity)
	}
	if s.MenuDir != "" {
		info, err := os.Stat(s.MenuDir)
		if err != nil {
			return fmt.Errorf("menu_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("menu_dir %s is not a directory", s.MenuDir)
		}
	}
	return nil
}

// Save writes s to path, creating the parent directory.
func Save(path string, s models.Settings) error {
	if err := Validate(s); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Set updates one setting by its file key.
func Set(s models.Settings, key, value string) (models.Settings, error) {
	values := models.SettingsToMap(s)
	if _, ok := values[key]; !ok {
		return models.Settings{}, fmt.Errorf("unknown setting %q", key)
	}
	values[key] = value

	updated, err := models.MapToSettings(values)
	if err != nil {
		return models.Settings{}, err
	}
	if err := Validate(updated); err != nil {
		return models.Settings{}, err
	}
	return updated, nil
}
