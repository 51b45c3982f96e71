package cache

import "time"

// Time-to-live per pipeline stage. Parsed topologies change when the input
// file changes, so their entries can live long; layouts and artifacts are
// pure functions of their inputs and effectively immutable.
const (
	TTLTopology = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts captures everything that changes a computed layout.
type LayoutKeyOpts struct {
	Seed       uint64
	Iterations int
	NodeRadius float64
}

// ArtifactKeyOpts captures everything that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string // "svg", "png" or "dot"
	Detailed bool
}

// Keyer generates cache keys for the pipeline stages. Each stage keys off a
// content hash of the previous stage's output, so a changed topology
// invalidates its layouts and artifacts without explicit bookkeeping.
type Keyer interface {
	// TopologyKey generates a key for a parsed topology, from a content
	// hash of the source document.
	TopologyKey(sourceHash string) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(topologyHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard Keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TopologyKey generates a key for a parsed topology.
func (k *DefaultKeyer) TopologyKey(sourceHash string) string {
	return hashKey("topology", sourceHash)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(topologyHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", topologyHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
