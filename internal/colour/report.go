package colour

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Report is the result of averaging an image, in every supported colour model.
type Report struct {
	RGB  RGB
	Mean Mean
	HSL  HSL
	Mode Mode
}

// NewReport derives the rounded RGB and HSL values from a mean colour.
func NewReport(mean Mean, mode Mode) Report {
	return Report{
		RGB:  mean.RGB(),
		Mean: mean,
		HSL:  mean.HSL(mode),
		Mode: mode,
	}
}

// Hex returns the rounded colour as "#rrggbb".
func (r Report) Hex() string {
	return colorful.Color{
		R: float64(r.RGB.R) / 255.0,
		G: float64(r.RGB.G) / 255.0,
		B: float64(r.RGB.B) / 255.0,
	}.Hex()
}

// Text renders the two-line plain text report.
func (r Report) Text() string {
	return fmt.Sprintf("RGB => R: %d, G: %d, B: %d\nHSL => H: %s, S: %s, L: %s\n",
		r.RGB.R, r.RGB.G, r.RGB.B,
		formatFloat(r.HSL.H), formatFloat(r.HSL.S), formatFloat(r.HSL.L))
}

// formatFloat prints the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// reportJSON represents the report in JSON format.
type reportJSON struct {
	Hex  string `json:"hex"`
	RGB  RGB    `json:"rgb"`
	Mean Mean   `json:"mean"`
	HSL  HSL    `json:"hsl"`
	Mode Mode   `json:"mode"`
}

// JSON renders the report as indented JSON.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(reportJSON{
		Hex:  r.Hex(),
		RGB:  r.RGB,
		Mean: r.Mean,
		HSL:  r.HSL,
		Mode: r.Mode,
	}, "", "  ")
}
