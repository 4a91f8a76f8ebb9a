package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/leapprofile/internal/profile"
	"gopkg.in/yaml.v3"
)

// JSON writes rep as indented JSON.
func JSON(w io.Writer, rep *profile.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAML writes rep as YAML.
func YAML(w io.Writer, rep *profile.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
