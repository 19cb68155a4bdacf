package imp

import "errors"

var (
	ErrInvalidIndex       = errors.New("imp: channel index out of range")
	ErrMismatchedChannels = errors.New("imp: target and image channel counts differ")
	ErrConvergence        = errors.New("imp: relaxation did not converge")
	ErrDecode             = errors.New("imp: cannot decode image")
	ErrInvalidBitDepth    = errors.New("imp: bit depth must be in [1,16]")
	ErrEmptyImage         = errors.New("imp: empty image")
	ErrUnsupportedFormat  = errors.New("imp: cannot encode this format")
)
