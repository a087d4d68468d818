package media

// SegmentType tags a server-declared time window within an item.
type SegmentType string

const (
	SegmentIntro      SegmentType = "Intro"
	SegmentOutro      SegmentType = "Outro"
	SegmentRecap      SegmentType = "Recap"
	SegmentPreview    SegmentType = "Preview"
	SegmentCommercial SegmentType = "Commercial"
)

// Segment is a read-only skip-eligible time window, fetched alongside the
// negotiated media source.
type Segment struct {
	Type       SegmentType `json:"type"`
	StartTicks int64       `json:"start_ticks"`
	EndTicks   int64       `json:"end_ticks"`
}

// Contains reports interval containment: start inclusive, end exclusive.
func (s Segment) Contains(positionTicks int64) bool {
	return positionTicks >= s.StartTicks && positionTicks < s.EndTicks
}

// StartSeconds returns the window start in surface seconds.
func (s Segment) StartSeconds() float64 {
	return TicksToSeconds(s.StartTicks)
}

// EndSeconds returns the window end in surface seconds.
func (s Segment) EndSeconds() float64 {
	return TicksToSeconds(s.EndTicks)
}
