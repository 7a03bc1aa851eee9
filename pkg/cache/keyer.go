package cache

// Keyer generates cache keys.
type Keyer interface {
	// ImportsKey is the key for the raw imports of a source file.
	ImportsKey(contentHash, extractorVersion string) string

	// ArtifactKey is the key for a rendered graph.
	ArtifactKey(dotHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImportsKey returns "imports:<hash>".
func (DefaultKeyer) ImportsKey(contentHash, extractorVersion string) string {
	return hashKey("imports", extractorVersion, contentHash)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(dotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dotHash, opts)
}
