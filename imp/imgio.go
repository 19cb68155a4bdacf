package imp

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	// Decoders not bundled with imaging
	_ "golang.org/x/image/webp"
)

// ReadFile reads and decodes an image file. EXIF orientation is applied.
// Decoding failures wrap ErrDecode.
func ReadFile(filename string) (*FloatImage, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, filename, err)
	}
	return FromImage(img), nil
}

// Read decodes an image from a io.Reader.
func Read(r io.Reader) (*FloatImage, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return FromImage(img), nil
}

// CheckSaveFormat tells whether Save can encode to filename, judging from
// its extension (jpg, jpeg, png, gif, tif, tiff or bmp).
func CheckSaveFormat(filename string) error {
	if _, err := imaging.FormatFromFilename(filename); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	return nil
}

// Save quantizes img to 8 bits and writes it to filename. The format is
// decided by the extension; quality only applies to JPEG.
func Save(filename string, img *FloatImage, quality int) error {
	if err := CheckSaveFormat(filename); err != nil {
		return err
	}
	out, err := ToImage(img)
	if err != nil {
		return err
	}
	if err := imaging.Save(out, filename, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
