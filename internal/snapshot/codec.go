package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for dashboard snapshots
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name, defaulting to JSON when empty
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported snapshot format: %q", s)
}

// ContentType returns the HTTP content type for the format
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes the snapshot to w
func Encode(w io.Writer, s *types.Snapshot, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode snapshot as json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to encode snapshot as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml encoder: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported snapshot format: %q", f)
}

// Decode reads a snapshot from r
func Decode(r io.Reader, f Format) (*types.Snapshot, error) {
	var s types.Snapshot

	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %q", f)
	}

	return &s, nil
}
