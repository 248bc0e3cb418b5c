package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PrefsFileName is stored next to the config file.
const PrefsFileName = "ui_prefs.yaml"

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `yaml:"sort_key,omitempty"`
	SortReverse   bool     `yaml:"sort_reverse,omitempty"`
	HiddenColumns []string `yaml:"hidden_columns,omitempty"`
	ActiveColumn  string   `yaml:"active_column,omitempty"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Users      TablePrefs `yaml:"users"`
	Files      TablePrefs `yaml:"files"`
	Configs    TablePrefs `yaml:"configs"`
	Clusters   TablePrefs `yaml:"clusters"`
	Partitions TablePrefs `yaml:"partitions"`
}

// loadUIPreferences returns zero prefs when the file is missing or broken.
func loadUIPreferences(path string) UIPreferences {
	var prefs UIPreferences
	if path == "" {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return UIPreferences{}
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
