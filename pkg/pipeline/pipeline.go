// Package pipeline provides the core diagram pipeline for bgpmap.
//
// This package implements the complete parse → validate → expand → layout →
// render pipeline that can be used by CLI and API components. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of these stages:
//
//  1. Parse: Load a topology from a JSON interchange file or TOML definition
//  2. Validate: Fail fast on dangling endpoints and unknown interfaces
//  3. Expand: Derive interface nodes, hierarchy edges and transformed edges
//  4. Layout: Compute deterministic positions for every node
//  5. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Parse, layout and render results are cached; validation and expansion are
// cheap and always run.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "lab.json",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/routeviz/bgpmap/pkg/cache"
	"github.com/routeviz/bgpmap/pkg/layout"
	"github.com/routeviz/bgpmap/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Source format constants.
const (
	SourceJSON = "json"
	SourceTOML = "toml"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options. Exactly one of Source (a file path) or Data (raw
	// document bytes) must be set.
	Source       string `json:"source,omitempty"`
	SourceFormat string `json:"source_format,omitempty"` // "json" or "toml"; inferred from Source when empty
	Refresh      bool   `json:"refresh,omitempty"`

	// Layout options
	Seed       uint64  `json:"seed,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	NodeRadius float64 `json:"node_radius,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Data      []byte                  `json:"-"` // raw document bytes (API uploads)
	Positions map[string]layout.Point `json:"-"` // saved positions to pin
	Logger    *log.Logger             `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Topology is the parsed and validated topology.
	Topology *topology.Topology

	// Expansion holds the derived interface nodes and edges.
	Expansion *topology.Expansion

	// TopologyHash is the content hash of the canonical topology document.
	TopologyHash string

	// Positions is the computed position table for every node.
	Positions map[string]layout.Point

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RouterCount    int
	EdgeCount      int
	InterfaceCount int
	DroppedEdges   int
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed topology came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Source == "" && len(o.Data) == 0 {
		return fmt.Errorf("source path or document data is required")
	}

	if o.SourceFormat == "" {
		if strings.EqualFold(filepath.Ext(o.Source), ".toml") {
			o.SourceFormat = SourceTOML
		} else {
			o.SourceFormat = SourceJSON
		}
	}
	if o.SourceFormat != SourceJSON && o.SourceFormat != SourceTOML {
		return fmt.Errorf("invalid source format: %q (must be json or toml)", o.SourceFormat)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.NodeRadius == 0 {
		o.NodeRadius = layout.DefaultNodeRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutOptions returns the layout engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Seed:       o.Seed,
		Iterations: o.Iterations,
		NodeRadius: o.NodeRadius,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Seed:       o.Seed,
		Iterations: o.Iterations,
		NodeRadius: o.NodeRadius,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}

// sourceLabel names the input for logs and hooks.
func (o *Options) sourceLabel() string {
	if o.Source != "" {
		return o.Source
	}
	return "inline"
}
