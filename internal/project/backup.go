package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/RackPlan/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version     string               `json:"version"`
	CreatedAt   string               `json:"created_at"`
	Config      model.AppConfig      `json:"config"`
	DeviceTypes []model.DeviceType   `json:"device_types"`
	Templates   []model.RackTemplate `json:"templates"`
}

// ExportAllData exports the config, device library and rack templates to
// a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, types []model.DeviceType, templates []model.RackTemplate) error {
	if types == nil {
		types = []model.DeviceType{}
	}
	if templates == nil {
		templates = []model.RackTemplate{}
	}
	backup := BackupData{
		Version:     "1.0.0",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      config,
		DeviceTypes: types,
		Templates:   templates,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure RecentLayouts is never nil
	if backup.Config.RecentLayouts == nil {
		backup.Config.RecentLayouts = []string{}
	}
	if backup.DeviceTypes == nil {
		backup.DeviceTypes = []model.DeviceType{}
	}
	if backup.Templates == nil {
		backup.Templates = []model.RackTemplate{}
	}
	return backup, nil
}
