// Package input lists the frames of an image sequence from a directory.
package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ArnaudCalmettes/deflicker/models"
)

// ErrEmptySequence is returned when a directory holds no numbered file.
var ErrEmptySequence = errors.New("input: no numbered image in directory")

var numberRegexp = regexp.MustCompile(`\d+`)

// FrameNumber returns the first run of digits in name.
func FrameNumber(name string) (string, bool) {
	n := numberRegexp.FindString(name)
	return n, n != ""
}

// Sequence lists the regular files of dir whose name contains a digit,
// sorted by the numeric value of the first run of digits. Files sharing the
// same number are sorted by name.
func Sequence(dir string) ([]models.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	frames := make([]models.Frame, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, ok := FrameNumber(e.Name())
		if !ok {
			continue
		}
		frames = append(frames, models.Frame{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Number: n,
		})
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySequence, dir)
	}

	sort.SliceStable(frames, func(i, j int) bool {
		if c := compareNumbers(frames[i].Number, frames[j].Number); c != 0 {
			return c < 0
		}
		return frames[i].Name < frames[j].Name
	})
	return frames, nil
}

// compareNumbers compares two runs of decimal digits by value, whatever
// their length.
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
