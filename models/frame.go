package models

import "fmt"

// A Frame is one image of the sequence, identified by the first run of
// digits found in its file name.
type Frame struct {
	Name   string // file name, relative to the sequence directory
	Path   string // full path to the file
	Number string // first run of digits in Name, as written
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (#%s)", f.Name, f.Number)
}
