package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"ddbench/application/benchmark"
)

// RunArtifact is the on-disk record of one bench run, consumed by the
// report and serve commands.
type RunArtifact struct {
	GeneratedAt  time.Time               `json:"generatedAt"`
	Measurements []benchmark.Measurement `json:"measurements"`
}

// SaveRun writes a run artifact as JSON.
func SaveRun(path string, artifact RunArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run artifact: %w", err)
	}
	return nil
}

// LoadRun reads a run artifact written by SaveRun.
func LoadRun(path string) (RunArtifact, error) {
	var artifact RunArtifact
	data, err := os.ReadFile(path)
	if err != nil {
		return artifact, fmt.Errorf("failed to read run artifact: %w", err)
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return artifact, fmt.Errorf("failed to parse run artifact: %w", err)
	}
	return artifact, nil
}
