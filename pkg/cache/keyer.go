package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout computed from the graph with
	// the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of an artifact rendered from the layout
	// with the given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the graph that determine a layout.
type LayoutKeyOpts struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
	Steps  int     `json:"steps"`
	Params any     `json:"params,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the layout that determine an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
