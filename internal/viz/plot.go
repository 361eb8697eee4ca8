package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/dronelab/tellosim/internal/sim"
)

// AltitudePlot renders the altitude series, one sample per
// altitude-affecting command.
func AltitudePlot(altitudes []float64, width, height int) string {
	if len(altitudes) < 2 {
		return "not enough altitude data to plot"
	}
	return asciigraph.Plot(altitudes,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("altitude (cm) per step"),
	)
}

// SmoothedAltitudePlot renders the altitude series through a centered
// moving average, for flights noisy enough that the raw steps jump.
func SmoothedAltitudePlot(altitudes []float64, window, width, height int) string {
	smoothed := SmoothedAltitude(altitudes, window)
	if len(smoothed) < 2 {
		return "not enough altitude data to plot"
	}
	return asciigraph.Plot(smoothed,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("smoothed altitude (cm), window %d", window)),
	)
}

// SmoothedAltitude applies a centered moving average to the altitude
// series. Series shorter than the window come back unchanged.
func SmoothedAltitude(data []float64, window int) []float64 {
	if window < 2 || len(data) < window {
		return append([]float64(nil), data...)
	}
	half := window / 2
	out := make([]float64, len(data))
	for i := range data {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(data) {
			hi = len(data) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += data[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// PathPlot renders an overhead view of the flight path. The takeoff
// point sits at the origin; later points use denser glyphs, flips are
// marked with F.
func PathPlot(path sim.FlightPath, flips []sim.FlipMark, width, height int) string {
	pts := make([]point, 0, len(path)+1)
	pts = append(pts, point{0, 0}) // takeoff location
	for _, st := range path {
		pts = append(pts, point{st.X, st.Y})
	}

	c := newCanvas(width, height, pts, flips)
	caption := "overhead path (cm from takeoff)"
	if n := len(path); n > 0 {
		caption = fmt.Sprintf("overhead path, last heading %.0f deg from start", path[n-1].Yaw)
	}
	return c.render(caption)
}
