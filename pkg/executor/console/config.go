package console

import (
	"fmt"
	"math"
	"os"

	"github.com/entrhq/coursepilot/pkg/course"
	"gopkg.in/yaml.v3"
)

// RunConfig is the optional YAML run file. Zero values mean "ask the
// operator" (tasks, speed) or "use the settings file".
type RunConfig struct {
	// Tasks to walk, in order. Empty means prompt.
	Tasks []string `yaml:"tasks" json:"tasks"`

	// Speed is the playback multiplier. Zero means prompt.
	Speed float64 `yaml:"speed" json:"speed"`

	// Plain disables the full-screen prompts
	Plain bool `yaml:"plain" json:"plain"`

	// Headless overrides the browser section when set
	Headless *bool `yaml:"headless,omitempty" json:"headless,omitempty"`

	// AssessmentPatterns are glob patterns for units that are never played
	AssessmentPatterns []string `yaml:"assessment_patterns" json:"assessment_patterns"`

	// Selectors overrides individual entries of the default selector table
	Selectors map[string]string `yaml:"selectors" json:"selectors"`

	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`
	History   HistoryConfig  `yaml:"history" json:"history"`
}

// ArtifactConfig defines artifact generation configuration
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Snapshots writes a page digest for every failed node
	Snapshots bool `yaml:"snapshots" json:"snapshots"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls console output: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// HistoryConfig controls the local run journal.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Path of the SQLite database; empty means ~/.coursepilot/history.db
	Path string `yaml:"path" json:"path"`
}

// DefaultRunConfig returns the configuration used without a run file.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		AssessmentPatterns: append([]string(nil), course.DefaultAssessmentPatterns...),
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".coursepilot/artifacts",
			Snapshots: true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// LoadRunConfig reads a YAML run file on top of the defaults.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	config := DefaultRunConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse run file: %w", err)
	}
	return config, nil
}

// Validate fills defaults and rejects invalid values.
func (c *RunConfig) Validate() error {
	if c.Speed < 0 || math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		return fmt.Errorf("speed must be a positive number, got %v", c.Speed)
	}

	if len(c.AssessmentPatterns) == 0 {
		c.AssessmentPatterns = append([]string(nil), course.DefaultAssessmentPatterns...)
	}
	if _, err := course.NewAssessmentFilter(c.AssessmentPatterns); err != nil {
		return err
	}

	if _, err := course.DefaultSelectors().WithOverrides(c.Selectors); err != nil {
		return err
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts.output_dir is required when artifacts are enabled")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// SelectorTable returns the default selectors with the configured overrides.
func (c *RunConfig) SelectorTable() (course.SelectorTable, error) {
	return course.DefaultSelectors().WithOverrides(c.Selectors)
}
