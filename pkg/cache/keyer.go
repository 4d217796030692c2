package cache

// Keyer builds cache keys. Every key starts with a kind prefix ("stats",
// "output", "render") followed by a hash of the input hash and options.
type Keyer interface {
	StatsKey(inputHash string) string
	OutputKey(inputHash string, opts OutputKeyOpts) string
	RenderKey(inputHash string, opts RenderKeyOpts) string
}

// OutputKeyOpts are the options that change a transformed treebank.
type OutputKeyOpts struct {
	FixCycles    bool   `json:"fix_cycles"`
	Collapse     bool   `json:"collapse"`
	Separator    string `json:"separator,omitempty"`
	KeepEmptyIDs bool   `json:"keep_empty_ids,omitempty"`
	// SkipInvalid results may hold sentences a strict run rejects.
	SkipInvalid  bool   `json:"skip_invalid"`
}

// RenderKeyOpts are the options that change a rendered sentence.
type RenderKeyOpts struct {
	Sentence int    `json:"sentence"`
	Enhanced bool   `json:"enhanced"`
	Detailed bool   `json:"detailed"`
	Format   string `json:"format"`
}

// Key kind prefixes, also used as observability labels.
const (
	KindStats  = "stats"
	KindOutput = "output"
	KindRender = "render"
)

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() *DefaultKeyer { return &DefaultKeyer{} }

// StatsKey returns the key for corpus statistics of an input.
func (DefaultKeyer) StatsKey(inputHash string) string {
	return hashKey(KindStats, inputHash)
}

// OutputKey returns the key for a transformed treebank.
func (DefaultKeyer) OutputKey(inputHash string, opts OutputKeyOpts) string {
	return hashKey(KindOutput, inputHash, opts)
}

// RenderKey returns the key for one rendered sentence.
func (DefaultKeyer) RenderKey(inputHash string, opts RenderKeyOpts) string {
	return hashKey(KindRender, inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
