package crawler

// Phase identifies which stage of a run a progress event belongs to.
type Phase int

const (
	// PhaseCrawl covers the walk of the original site.
	PhaseCrawl Phase = iota
	// PhaseCompare covers the per-path checks against the target site.
	PhaseCompare
)

// Event reports progress for a single handled URL.
type Event struct {
	Phase      Phase
	URL        string
	StatusCode int
	Error      string
	Done       int // URLs handled so far in this phase
}
