package imp

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Number of color channels handled by FromImage and ToImage.
const rgbChannels = 3

// FromImage converts any image to an RGB FloatImage. Values are the 8-bit
// non-premultiplied components divided by 255. Non-opaque alpha is kept
// aside in the Alpha plane.
func FromImage(src image.Image) *FloatImage {
	nrgba := imaging.Clone(src)
	bounds := nrgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dst := NewFloatImage(w, h, rgbChannels)
	alpha := make([]uint8, w*h)
	opaque := true

	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			i := y*w + x
			for c := 0; c < rgbChannels; c++ {
				dst.Channels[c][i] = float64(p[c]) / 255
			}
			alpha[i] = p[3]
			if p[3] != 0xff {
				opaque = false
			}
		}
	}
	if !opaque {
		dst.Alpha = alpha
	}
	return dst
}

// ToImage quantizes img to 8 bits per channel. One-channel images are
// rendered as gray, and images with three or more channels use the first
// three as R, G and B.
func ToImage(img *FloatImage) (*image.NRGBA, error) {
	fixed, err := ToFixedPoint(img, 8)
	if err != nil {
		return nil, err
	}
	if img.NumChannels() != 1 && img.NumChannels() < rgbChannels {
		return nil, fmt.Errorf("%w: cannot render %d channels", ErrMismatchedChannels, img.NumChannels())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := y*img.Width + x
			p := dst.Pix[y*dst.Stride+x*4 : y*dst.Stride+x*4+4]
			for c := 0; c < rgbChannels; c++ {
				src := c
				if fixed.NumChannels() == 1 {
					src = 0
				}
				p[c] = uint8(fixed.Channels[src][i])
			}
			p[3] = 0xff
			if img.Alpha != nil {
				p[3] = img.Alpha[i]
			}
		}
	}
	return dst, nil
}

// FixedImage is the integer counterpart of FloatImage, with values in
// [0, 2^BitDepth-1].
type FixedImage struct {
	Width    int
	Height   int
	BitDepth int
	Channels [][]uint16
	Alpha    []uint8
}

// NumChannels returns the number of channels of the image.
func (img *FixedImage) NumChannels() int {
	return len(img.Channels)
}

// Max returns the largest representable value at the image's bit depth.
func (img *FixedImage) Max() uint16 {
	top := 1<<img.BitDepth - 1
	return uint16(top)
}

// Float scales the image back to [0,1] floats.
func (img *FixedImage) Float() *FloatImage {
	scale := float64(img.Max())
	dst := NewFloatImage(img.Width, img.Height, img.NumChannels())
	for c, ch := range img.Channels {
		for i, v := range ch {
			dst.Channels[c][i] = float64(v) / scale
		}
	}
	if img.Alpha != nil {
		dst.Alpha = append([]uint8(nil), img.Alpha...)
	}
	return dst
}

// ToFixedPoint scales every value by the maximum integer representable on
// bitDepth bits and rounds to nearest, ties to even. Values outside [0,1]
// saturate.
func ToFixedPoint(img *FloatImage, bitDepth int) (*FixedImage, error) {
	if bitDepth < 1 || bitDepth > 16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitDepth, bitDepth)
	}
	dst := &FixedImage{
		Width:    img.Width,
		Height:   img.Height,
		BitDepth: bitDepth,
		Channels: make([][]uint16, img.NumChannels()),
	}
	scale := float64(dst.Max())
	for c, ch := range img.Channels {
		out := make([]uint16, len(ch))
		for i, v := range ch {
			q := math.RoundToEven(v * scale)
			q = math.Max(0, math.Min(scale, q))
			out[i] = uint16(q)
		}
		dst.Channels[c] = out
	}
	if img.Alpha != nil {
		dst.Alpha = append([]uint8(nil), img.Alpha...)
	}
	return dst, nil
}
