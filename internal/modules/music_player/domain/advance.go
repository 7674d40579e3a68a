package domain

// Advance describes how the next stream end moves the queue.
type Advance int

const (
	// NaturalAdvance removes the head when its stream ends.
	NaturalAdvance Advance = iota
	// ForcedAdvance means the head was already removed out of band,
	// so the next stream end must leave the queue untouched.
	ForcedAdvance
)

// String returns a human-readable representation of the advance mode.
func (a Advance) String() string {
	switch a {
	case ForcedAdvance:
		return "forced"
	default:
		return "natural"
	}
}
