package plugin

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// ManifestFile is the manifest name expected at each plugin root
const ManifestFile = "plugin.yaml"

// DefaultScriptTimeout applies when a hook script declares no timeout
const DefaultScriptTimeout = 30 * time.Second

// Language is the implementation language a plugin declares
type Language string

const (
	LanguagePython Language = "python"
	LanguageRust   Language = "rust"
	LanguageGo     Language = "go"
	LanguageMixed  Language = "mixed"
)

// Info describes the plugin itself
type Info struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Language    Language `yaml:"language"`
}

// HookScript is one script registered for an event
type HookScript struct {
	Script  string `yaml:"script"`
	Matcher string `yaml:"matcher,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"` // seconds
}

// TimeoutDuration returns the declared timeout, or the default
func (h HookScript) TimeoutDuration() time.Duration {
	if h.Timeout <= 0 {
		return DefaultScriptTimeout
	}
	return time.Duration(h.Timeout) * time.Second
}

// Manifest is the parsed plugin.yaml
type Manifest struct {
	Plugin Info                    `yaml:"plugin"`
	Hooks  map[string][]HookScript `yaml:"hooks"`
}

// LoadManifest reads and parses a manifest file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin manifest; %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse plugin manifest; %w", err)
	}

	if m.Plugin.Name == "" {
		return nil, fmt.Errorf("invalid plugin manifest; plugin.name is required")
	}

	switch m.Plugin.Language {
	case "":
		m.Plugin.Language = LanguagePython
	case LanguagePython, LanguageRust, LanguageGo, LanguageMixed:
	default:
		return nil, fmt.Errorf("invalid plugin manifest; unsupported language %q", m.Plugin.Language)
	}

	for event, scripts := range m.Hooks {
		for _, script := range scripts {
			if script.Script == "" {
				return nil, fmt.Errorf("invalid plugin manifest; hook %s declares a script without a path", event)
			}
		}
	}

	return &m, nil
}

// ScriptsFor returns the scripts declared for an event kind. Hook keys are matched
// with the same normalization as event names, so PreToolUse and pre_tool_use are equivalent.
func (m *Manifest) ScriptsFor(kind types.EventKind) []HookScript {
	keys := make([]string, 0, len(m.Hooks))
	for key := range m.Hooks {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var scripts []HookScript
	for _, key := range keys {
		if parsed, ok := types.ParseEventKind(key); ok && parsed == kind {
			scripts = append(scripts, m.Hooks[key]...)
		}
	}
	return scripts
}

// HasHooks reports whether the manifest declares any script
func (m *Manifest) HasHooks() bool {
	for _, scripts := range m.Hooks {
		if len(scripts) > 0 {
			return true
		}
	}
	return false
}
