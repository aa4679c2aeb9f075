package colour

import (
	"fmt"
	"math"
)

// Mode selects how the RGB to HSL conversion treats its inputs.
type Mode string

const (
	// ModeStandard converts (r, g, b) with the textbook HSL formulas.
	ModeStandard Mode = "standard"

	// ModeLegacy reproduces the output of the original GetColorOfImage tool:
	// the blue channel is replaced by red before conversion and the minimum
	// is taken as min(r, max(g, b)).
	ModeLegacy Mode = "legacy"
)

// ValidModes returns a list of valid conversion modes.
func ValidModes() []Mode {
	return []Mode{ModeStandard, ModeLegacy}
}

// ParseMode converts a mode name to a Mode. The empty string yields ModeStandard.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStandard:
		return ModeStandard, nil
	case ModeLegacy:
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("invalid mode: %s (valid: %v)", s, ValidModes())
	}
}

// HSL is a colour in the Hue/Saturation/Lightness model.
// All three values are in [0, 1]; H is a fraction of a full hue rotation.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ToHSL converts normalised RGB values in [0, 1] to HSL.
func ToHSL(r, g, b float64, mode Mode) HSL {
	var maxVal, minVal float64
	if mode == ModeLegacy {
		b = r
		maxVal = math.Max(r, math.Max(g, b))
		minVal = math.Min(r, math.Max(g, b))
	} else {
		maxVal = math.Max(r, math.Max(g, b))
		minVal = math.Min(r, math.Min(g, b))
	}

	l := (maxVal + minVal) / 2

	// Achromatic.
	if maxVal == minVal {
		return HSL{H: 0, S: 0, L: l}
	}

	d := maxVal - minVal

	var s float64
	if l > 0.5 {
		s = d / (2 - maxVal - minVal)
	} else {
		s = d / (maxVal + minVal)
	}

	var h float64
	switch maxVal {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}

	return HSL{H: h / 6, S: s, L: l}
}

// HSL converts the mean colour to HSL using the given mode.
func (m Mean) HSL(mode Mode) HSL {
	r, g, b := m.Normalized()
	return ToHSL(r, g, b, mode)
}
