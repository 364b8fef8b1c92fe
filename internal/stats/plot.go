package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "100%"
	axisLabelMid        = "50%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var seriesMarkers = []rune{'*', '+', 'o', 'x'}

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

type seriesRange struct {
	min float64
	max float64
}

// PlotSeries renders a multi-line text plot. Each series is scaled to
// its own min/max, which are printed below the title.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	ranges := make([]seriesRange, len(kept))
	scaled := make([][]float64, len(kept))
	for i, s := range kept {
		values := resample(s.Values, width)
		minVal, maxVal := minMax(values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		ranges[i] = seriesRange{min: minVal, max: maxVal}
		scaled[i] = values
	}

	// grid[y][x] holds the index of the series that claimed the cell,
	// or -1. The first series to land keeps the cell.
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
		for x := range grid[y] {
			grid[y][x] = -1
		}
	}
	for si, values := range scaled {
		prevRow := -1
		for x, v := range values {
			row := valueToRow(v, ranges[si], height)
			claim(grid, si, x, row, prevRow)
			prevRow = row
		}
	}

	useColor := shouldUseColor(w, forceColor)
	axisWidth := len(axisLabelTop)
	labels := axisLabels(height)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for i, s := range kept {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i].min, ranges[i].max); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var b strings.Builder
		fmt.Fprintf(&b, "%*s%s", axisWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			si := grid[y][x]
			if si < 0 {
				b.WriteByte(' ')
				continue
			}
			marker := seriesMarkers[si%len(seriesMarkers)]
			if useColor {
				b.WriteString(colorPalette[si%len(colorPalette)])
				b.WriteRune(marker)
				b.WriteString(colorReset)
			} else {
				b.WriteRune(marker)
			}
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(kept, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// claim marks the column's cell and fills the vertical gap toward the
// previous column so steep slopes stay connected.
func claim(grid [][]int, si, x, row, prevRow int) {
	set := func(y int) {
		if y >= 0 && y < len(grid) && grid[y][x] < 0 {
			grid[y][x] = si
		}
	}
	set(row)
	if prevRow < 0 {
		return
	}
	lo, hi := prevRow, row
	if lo > hi {
		lo, hi = hi, lo
	}
	for y := lo + 1; y < hi; y++ {
		set(y)
	}
}

// valueToRow maps a value onto a grid row, row 0 being the top.
func valueToRow(v float64, r seriesRange, height int) int {
	pos := (v - r.min) / (r.max - r.min)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

// resample stretches or shrinks values onto the target width using
// linear interpolation.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	if len(values) == 1 {
		out := make([]float64, width)
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	for i := 0; i < width; i++ {
		pos := float64(i) * step
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if hi >= len(values) {
			hi = len(values) - 1
		}
		frac := pos - float64(lo)
		out[i] = values[lo]*(1-frac) + values[hi]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		marker := string(seriesMarkers[i%len(seriesMarkers)])
		if useColor {
			marker = colorPalette[i%len(colorPalette)] + marker + colorReset
		}
		parts = append(parts, fmt.Sprintf("%s %s", marker, s.Name))
	}
	return strings.Join(parts, "   ")
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total
// available terminal width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - len(axisLabelTop) - displayWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
