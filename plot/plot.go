// Package plot renders the raw and smoothed mean-color sequences side by side.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArnaudCalmettes/deflicker/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default size of the rendered figure.
const (
	Width  = 12 * vg.Inch
	Height = 4.5 * vg.Inch
)

var errNoChannels = errors.New("plot: signal has no channels")

// Line colors, one per channel.
var channelColors = []color.Color{
	color.RGBA{R: 0xd0, A: 0xff},
	color.RGBA{G: 0xa0, A: 0xff},
	color.RGBA{B: 0xd0, A: 0xff},
}

var channelNames = []string{"R", "G", "B"}

// Render draws raw and smoothed as two side-by-side time series and writes
// the figure to filename. The raster format follows the extension (png,
// jpg/jpeg or tif/tiff), defaulting to png.
func Render(filename string, raw, smoothed models.Signal, width int) error {
	left, err := newSeriesPlot("Unfiltered RGB sequence", raw)
	if err != nil {
		return err
	}
	right, err := newSeriesPlot(fmt.Sprintf("Filtered RGB sequence (w = %d)", width), smoothed)
	if err != nil {
		return err
	}

	img := vgimg.New(Width, Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 2,
	}
	plots := [][]*plot.Plot{{left, right}}
	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := encoder(filename, img).WriteTo(f); err != nil {
		return fmt.Errorf("rendering %s: %w", filename, err)
	}
	return f.Close()
}

func encoder(filename string, img *vgimg.Canvas) io.WriterTo {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return vgimg.JpegCanvas{Canvas: img}
	case ".tif", ".tiff":
		return vgimg.TiffCanvas{Canvas: img}
	default:
		return vgimg.PngCanvas{Canvas: img}
	}
}

func newSeriesPlot(title string, sig models.Signal) (*plot.Plot, error) {
	if sig.Channels() == 0 {
		return nil, errNoChannels
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Mean value"

	for c := 0; c < sig.Channels(); c++ {
		pts := make(plotter.XYs, sig.Len())
		for i, v := range sig.Channel(c) {
			pts[i].X = float64(i)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1)
		if c < len(channelColors) {
			line.LineStyle.Color = channelColors[c]
			p.Legend.Add(channelNames[c], line)
		}
		p.Add(line)
	}
	return p, nil
}
