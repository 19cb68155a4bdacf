package models

// Signal holds one row of channel values per frame, in sequence order.
// Row i is the per-channel vector of frame i.
type Signal [][]float64

// NewSignal allocates a zeroed signal of the given shape.
func NewSignal(frames, channels int) Signal {
	s := make(Signal, frames)
	for i := range s {
		s[i] = make([]float64, channels)
	}
	return s
}

// Len returns the number of frames.
func (s Signal) Len() int { return len(s) }

// Channels returns the number of channels, or 0 for an empty signal.
func (s Signal) Channels() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Channel returns a copy of channel c across all frames.
func (s Signal) Channel(c int) []float64 {
	out := make([]float64, len(s))
	for i, row := range s {
		out[i] = row[c]
	}
	return out
}

// SetChannel overwrites channel c with values, which must have s.Len() items.
func (s Signal) SetChannel(c int, values []float64) {
	for i, v := range values {
		s[i][c] = v
	}
}
