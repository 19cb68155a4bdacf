// Package imp holds the image processing routines of deflicker: the float
// image representation, channel means, mean relaxation and conversions
// from/to regular Go images.
package imp

// FloatImage is a planar image whose attributes are floats in [0,1].
// Channels[c] holds channel c in row-major order, Width*Height values.
type FloatImage struct {
	Width    int
	Height   int
	Channels [][]float64

	// Alpha is carried through unchanged and never processed. It is nil for
	// opaque images.
	Alpha []uint8
}

// NewFloatImage allocates a black image.
func NewFloatImage(width, height, channels int) *FloatImage {
	img := &FloatImage{
		Width:    width,
		Height:   height,
		Channels: make([][]float64, channels),
	}
	for c := range img.Channels {
		img.Channels[c] = make([]float64, width*height)
	}
	return img
}

// NumChannels returns the number of channels of the image.
func (img *FloatImage) NumChannels() int {
	return len(img.Channels)
}

// At returns the value of channel c at (x, y).
func (img *FloatImage) At(x, y, c int) float64 {
	return img.Channels[c][y*img.Width+x]
}

// Set sets the value of channel c at (x, y).
func (img *FloatImage) Set(x, y, c int, v float64) {
	img.Channels[c][y*img.Width+x] = v
}

// Clone returns a deep copy of the image.
func (img *FloatImage) Clone() *FloatImage {
	dst := &FloatImage{
		Width:    img.Width,
		Height:   img.Height,
		Channels: make([][]float64, len(img.Channels)),
	}
	for c, ch := range img.Channels {
		dst.Channels[c] = append([]float64(nil), ch...)
	}
	if img.Alpha != nil {
		dst.Alpha = append([]uint8(nil), img.Alpha...)
	}
	return dst
}
