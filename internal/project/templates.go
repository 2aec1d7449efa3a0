package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RackPlan/internal/model"
)

// DefaultTemplatePath returns the default file path for the templates store.
// This is located at ~/.rackplan/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// TemplatePath returns the template store location configured in cfg,
// falling back to DefaultTemplatePath.
func TemplatePath(cfg model.AppConfig) string {
	if cfg.TemplatePath != "" {
		return cfg.TemplatePath
	}
	return DefaultTemplatePath()
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	if err := writeJSON(path, store); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}
	return nil
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, fmt.Errorf("failed to parse templates %s: %w", path, err)
	}
	if store.Templates == nil {
		store.Templates = []model.RackTemplate{}
	}
	return store, nil
}
