package metrics

// Collector receives render outcomes. Implementations must be safe for
// concurrent use by batch workers.
type Collector interface {
	Record(rec RenderRecord)
	Summary() Summary
	Recent(limit int) []RenderRecord
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(RenderRecord)       {}
func (Nop) Summary() Summary          { return Summary{ByFormat: map[string]*FormatSummary{}} }
func (Nop) Recent(int) []RenderRecord { return nil }

var _ Collector = Nop{}
