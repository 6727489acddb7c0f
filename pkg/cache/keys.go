package cache

// Keyer derives cache keys.
type Keyer interface {
	// ReportKey names a benchmark report for a tree.
	ReportKey(treeHash string, opts ReportKeyOpts) string
}

// ReportKeyOpts are the options that change a benchmark report.
type ReportKeyOpts struct {
	Engine  string `json:"engine"`
	Workers int    `json:"workers"`
	Reps    int    `json:"reps"`
}

// DefaultKeyer derives keys as "kind:sha256(...)".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(treeHash string, opts ReportKeyOpts) string {
	return hashKey("report", treeHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses
// it to keep its entries apart from the command line's.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey implements Keyer.
func (k *ScopedKeyer) ReportKey(treeHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(treeHash, opts)
}
