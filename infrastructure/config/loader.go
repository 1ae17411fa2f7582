package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration. Each
// component receives its own tunable group by value; there are no
// hidden module-level defaults.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Filter   FilterConfig   `yaml:"filter"`
	Google   GoogleConfig   `yaml:"google"`
}

// PathsConfig contains directory paths for curation input and output
type PathsConfig struct {
	SourceDirectory string `yaml:"source_directory"`
	OutputDirectory string `yaml:"output_directory"`
	FramesDirectory string `yaml:"frames_directory"`
}

// AnalyzerConfig contains stability-analysis tunables.
//
// CoarseThreshold applies to the fast metric and RefineThreshold to
// the composite metric; the two scales are not normalized against each
// other and must stay independently configurable.
type AnalyzerConfig struct {
	// CoarseThreshold is the fast-metric difference above which a
	// coarse sample is flagged as a rough change
	CoarseThreshold float64 `yaml:"coarse_threshold"`

	// MinChangeSpacing is the minimum gap in seconds between flagged
	// rough changes
	MinChangeSpacing float64 `yaml:"min_change_spacing"`

	// RefineThreshold is the composite-metric instability above which
	// a refinement sample counts as unstable
	RefineThreshold float64 `yaml:"refine_threshold"`

	// SearchWindow is the half-width in seconds of the refinement
	// window around each rough change
	SearchWindow float64 `yaml:"search_window"`

	// RefineStep is the sampling step in seconds during refinement
	RefineStep float64 `yaml:"refine_step"`

	// FallbackWindow is the half-width used when refinement finds no
	// qualifying samples
	FallbackWindow float64 `yaml:"fallback_window"`

	// BoundaryPad widens each refined unstable window on both sides
	BoundaryPad float64 `yaml:"boundary_pad"`

	// MinStableDuration is the shortest gap kept as a stable interval
	MinStableDuration float64 `yaml:"min_stable_duration"`
}

// SamplerConfig contains candidate-sampling tunables
type SamplerConfig struct {
	// SampleInterval is the spacing in seconds between stable-interval
	// samples
	SampleInterval float64 `yaml:"sample_interval"`

	// MaxAdjust is the furthest a scene-change candidate may be moved
	// to reach a stable interval
	MaxAdjust float64 `yaml:"max_adjust"`

	// Inset is how far inside a stable interval boundary a snapped
	// candidate lands
	Inset float64 `yaml:"inset"`
}

// FilterConfig contains keyframe-filter tunables
type FilterConfig struct {
	// MinInterval is the minimum spacing in seconds between accepted
	// keyframes
	MinInterval float64 `yaml:"min_interval"`

	// StabilizeWindow is the width in seconds of the retargeting
	// search window
	StabilizeWindow float64 `yaml:"stabilize_window"`

	// Bidirectional searches [t-w, t+w] instead of the default [t, t+w]
	Bidirectional bool `yaml:"bidirectional"`

	// StabilizeStep is the sampling step during retargeting
	StabilizeStep float64 `yaml:"stabilize_step"`

	// StabilityThreshold is the composite score below which a sampled
	// frame counts as settled
	StabilityThreshold float64 `yaml:"stability_threshold"`

	// BiasWeight is subtracted per second of forward offset so later,
	// equally-stable frames win ties
	BiasWeight float64 `yaml:"bias_weight"`

	// RetargetMargin: retarget only when the best score is below this
	// fraction of the original score
	RetargetMargin float64 `yaml:"retarget_margin"`

	// MaxShift bounds how far retargeting may move a candidate
	MaxShift float64 `yaml:"max_shift"`

	// MinEdgeRatio and MaxEdgeRatio bound the text-density band
	MinEdgeRatio float64 `yaml:"min_edge_ratio"`
	MaxEdgeRatio float64 `yaml:"max_edge_ratio"`

	// ContextWindow is the transcript window in seconds around a
	// candidate
	ContextWindow float64 `yaml:"context_window"`

	// MinContextChars: shorter context always needs a visual
	MinContextChars int `yaml:"min_context_chars"`

	// LongContextChars: longer context with no keyword match is
	// self-sufficient
	LongContextChars int `yaml:"long_context_chars"`
}

// GoogleConfig contains Google Drive export settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	ExportFolderID  string `yaml:"export_folder_id"`
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
