package output

import (
	"encoding/json"
	"fmt"
	"os"

	"attrsync/internal/results"
)

// WriteReport writes the ordered outcome list as a pretty-printed JSON array.
// An empty outcome list is written as [] rather than null so consumers always
// get an array.
func WriteReport(path string, outcomes []results.Outcome) error {
	if outcomes == nil {
		outcomes = []results.Outcome{}
	}
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
