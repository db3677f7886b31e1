package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Plugin is an installed plugin and its manifest
type Plugin struct {
	Root     string
	Manifest *Manifest
}

// Name returns the manifest name
func (p Plugin) Name() string {
	return p.Manifest.Plugin.Name
}

// Discover loads every plugin directory under dir, in name order.
// A missing dir yields no plugins; directories with an unreadable manifest are skipped.
func Discover(dir string, logger *slog.Logger) ([]Plugin, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plugins directory; %w", err)
	}

	var plugins []Plugin
	for _, entry := range entries {
		root := filepath.Join(dir, entry.Name())

		// Stat follows symlinked plugin directories
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		manifestPath := filepath.Join(root, ManifestFile)
		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}

		manifest, err := LoadManifest(manifestPath)
		if err != nil {
			logger.Warn("skipping plugin with invalid manifest", "plugin", entry.Name(), "error", err)
			continue
		}

		plugins = append(plugins, Plugin{Root: root, Manifest: manifest})
	}

	return plugins, nil
}
