package graph

// Instant is an event-precision point on the timeline: the coarse slice
// index plus the event's position within that slice. Multiple events can
// occur within one slice, so slice indices alone cannot answer questions
// like "was the brother alive at the moment his brother died" -- Instant
// carries the finer ordering.
//
// Instants are plain comparable values; the zero value is the very first
// event of the very first slice.
type Instant struct {
	Slice int `yaml:"slice"`
	Event int `yaml:"event"`
}

// Compare returns -1, 0 or +1 for the lexicographic (slice, event) order.
func (i Instant) Compare(o Instant) int {
	switch {
	case i.Slice < o.Slice:
		return -1
	case i.Slice > o.Slice:
		return 1
	case i.Event < o.Event:
		return -1
	case i.Event > o.Event:
		return 1
	}
	return 0
}

func (i Instant) Before(o Instant) bool { return i.Compare(o) < 0 }

func (i Instant) After(o Instant) bool { return i.Compare(o) > 0 }
