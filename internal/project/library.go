package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RackPlan/internal/catalog"
	"github.com/piwi3910/RackPlan/internal/model"
)

// libraryFile is the on-disk form of the device library.
type libraryFile struct {
	Version     string             `json:"version"`
	DeviceTypes []model.DeviceType `json:"device_types"`
}

const libraryVersion = "1.0.0"

// DefaultLibraryPath returns the default file path for the device library.
// This is located at ~/.rackplan/library.json.
func DefaultLibraryPath() string {
	return filepath.Join(DefaultConfigDir(), "library.json")
}

// LibraryPath returns the library location configured in cfg, falling back
// to the default.
func LibraryPath(cfg model.AppConfig) string {
	if cfg.LibraryPath != "" {
		return cfg.LibraryPath
	}
	return DefaultLibraryPath()
}

// SaveLibrary writes the device types to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveLibrary(path string, types []model.DeviceType) error {
	if types == nil {
		types = []model.DeviceType{}
	}
	return writeJSON(path, libraryFile{Version: libraryVersion, DeviceTypes: types})
}

// LoadLibrary reads device types from the specified JSON file.
// If the file does not exist, it returns the starter library and saves it.
// Types that fail validation are rejected with an error naming the slug.
func LoadLibrary(path string) ([]model.DeviceType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			types := model.StarterLibrary()
			if saveErr := SaveLibrary(path, types); saveErr != nil {
				return types, saveErr
			}
			return types, nil
		}
		return nil, err
	}
	var lf libraryFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse library %s: %w", path, err)
	}
	for _, dt := range lf.DeviceTypes {
		if err := dt.Validate(); err != nil {
			return nil, fmt.Errorf("library %s: %w", path, err)
		}
	}
	if lf.DeviceTypes == nil {
		lf.DeviceTypes = []model.DeviceType{}
	}
	return lf.DeviceTypes, nil
}

// LoadOrCreateLibrary loads the library from the configured path as a
// catalog.Library. If the file does not exist, it creates one with the
// starter device types.
func LoadOrCreateLibrary(cfg model.AppConfig) (*catalog.Library, string, error) {
	path := LibraryPath(cfg)
	types, err := LoadLibrary(path)
	return catalog.NewLibrary(types), path, err
}
