package imp

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Mean computes the spatial mean of every channel of img.
func Mean(img *FloatImage) ([]float64, error) {
	means := make([]float64, img.NumChannels())
	for c := range means {
		m, err := MeanChannel(img, c)
		if err != nil {
			return nil, err
		}
		means[c] = m
	}
	return means, nil
}

// MeanChannel computes the spatial mean of channel c of img.
func MeanChannel(img *FloatImage, c int) (float64, error) {
	if c < 0 || c >= img.NumChannels() {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, c, img.NumChannels())
	}
	return channelMean(img.Channels[c])
}

func channelMean(ch []float64) (float64, error) {
	m, err := stats.Mean(ch)
	if err != nil {
		return 0, ErrEmptyImage
	}
	return m, nil
}
