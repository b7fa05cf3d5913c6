package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gogpu/gfxhealth/health"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Summary is the content of summary.yaml.
type Summary struct {
	ID      string           `yaml:"id"`
	Created time.Time        `yaml:"created"`
	Status  health.Status    `yaml:"status"`
	System  health.Facts     `yaml:"system"`
	Checks  []*health.Result `yaml:"checks"`
}

// New returns a summary of results with a fresh report id.
func New(facts health.Facts, results []*health.Result) *Summary {
	return &Summary{
		ID:      uuid.NewString(),
		Created: time.Now().UTC().Truncate(time.Second),
		Status:  health.Worst(results),
		System:  facts,
		Checks:  results,
	}
}

// Encode writes the summary as YAML.
func (s *Summary) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("report: encode summary: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the summary to path.
func (s *Summary) WriteFile(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is built from the configured temp dir
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := s.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
