// Package series smooths per-frame signals with a square (box) filter.
package series

import (
	"errors"
	"fmt"

	"github.com/ArnaudCalmettes/deflicker/models"
	"github.com/cwbudde/algo-dsp/dsp/conv"
)

var (
	ErrEmptySignal  = errors.New("series: empty signal")
	ErrInvalidWidth = errors.New("series: filter width must be >= 1")
)

// Square smooths sig with a square filter of the given width. The signal is
// padded on both ends by repeating its first and last values width/2 times,
// so the result has the same length as sig and no dropoff at the edges.
//
// For even widths the window covers width/2 samples before the current one
// and width/2-1 after it.
func Square(sig []float64, width int) ([]float64, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if len(sig) == 0 {
		return nil, ErrEmptySignal
	}

	half := width / 2
	padded := make([]float64, 0, len(sig)+2*half)
	for i := 0; i < half; i++ {
		padded = append(padded, sig[0])
	}
	padded = append(padded, sig...)
	for i := 0; i < half; i++ {
		padded = append(padded, sig[len(sig)-1])
	}

	kernel := make([]float64, width)
	weight := 0.0
	for i := range kernel {
		kernel[i] = 1
		weight += kernel[i]
	}

	// Centered on the full result, len(padded) long.
	same, err := conv.ConvolveMode(padded, kernel, conv.ModeSame)
	if err != nil {
		return nil, err
	}

	// Drop the padding contribution.
	out := make([]float64, len(sig))
	for i := range out {
		out[i] = same[half+i] / weight
	}
	return out, nil
}

// SmoothChannels applies Square to every channel of sig independently.
func SmoothChannels(sig models.Signal, width int) (models.Signal, error) {
	if sig.Len() == 0 {
		return nil, ErrEmptySignal
	}
	out := models.NewSignal(sig.Len(), sig.Channels())
	for c := 0; c < sig.Channels(); c++ {
		smoothed, err := Square(sig.Channel(c), width)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		out.SetChannel(c, smoothed)
	}
	return out, nil
}
