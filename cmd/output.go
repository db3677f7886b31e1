package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/leefowlercu/pais-hooks/pkg/types"
)

// Output formats accepted by --format
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// resolveFormat validates --format. An empty value means text on a terminal and json otherwise.
func resolveFormat(flag string, out io.Writer) (string, error) {
	switch flag {
	case formatText, formatJSON, formatYAML:
		return flag, nil
	case "":
		if isTerminal(out) {
			return formatText, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q; expected one of: text, json, yaml", flag)
	}
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeStructured renders v as json or yaml
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json output; %w", err)
		}
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml output; %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml output; %w", err)
		}
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
	return nil
}

// actionColor returns the display color for a security action
func actionColor(action types.SecurityAction) *color.Color {
	switch action {
	case types.ActionBlock:
		return color.New(color.FgRed, color.Bold)
	case types.ActionWarn:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// truncate shortens s to max runes, ending in "..." when cut
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
