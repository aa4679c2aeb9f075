package colour

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/sync/errgroup"
)

// ErrEmptyImage is returned when an image has no pixels to average.
var ErrEmptyImage = errors.New("image has zero width or height")

// Sum holds the per-channel totals of a set of pixels.
// Totals are 64-bit so that 255 * Count never overflows for any decodable image.
type Sum struct {
	R, G, B uint64
	Count   uint64
}

// Add merges two partial sums. Addition is associative and commutative, so
// partials from any number of bands may be merged in any order.
func (s Sum) Add(o Sum) Sum {
	return Sum{
		R:     s.R + o.R,
		G:     s.G + o.G,
		B:     s.B + o.B,
		Count: s.Count + o.Count,
	}
}

// Mean divides the totals by the pixel count.
// With truncate set the division is performed on the integer totals first,
// discarding the fractional part of every channel.
func (s Sum) Mean(truncate bool) (Mean, error) {
	if s.Count == 0 {
		return Mean{}, ErrEmptyImage
	}

	if truncate {
		return Mean{
			R: float64(s.R / s.Count),
			G: float64(s.G / s.Count),
			B: float64(s.B / s.Count),
		}, nil
	}

	n := float64(s.Count)
	return Mean{
		R: float64(s.R) / n,
		G: float64(s.G) / n,
		B: float64(s.B) / n,
	}, nil
}

// Mean is the arithmetic mean of each channel, each in [0, 255].
type Mean struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// RGB rounds each channel half away from zero.
func (m Mean) RGB() RGB {
	return RGB{R: roundChannel(m.R), G: roundChannel(m.G), B: roundChannel(m.B)}
}

// Normalized scales each channel to [0, 1].
func (m Mean) Normalized() (r, g, b float64) {
	return m.R / 255.0, m.G / 255.0, m.B / 255.0
}

func roundChannel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// AverageOptions controls how Average scans an image.
type AverageOptions struct {
	// Workers is the number of row bands accumulated concurrently.
	// Values below 2 scan the image on the calling goroutine.
	Workers int

	// Truncate selects integer division of the channel totals.
	Truncate bool
}

// Average computes the mean colour of every pixel in img.
// Alpha is ignored; channels are taken non-premultiplied.
func Average(img image.Image, opts AverageOptions) (Mean, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return Mean{}, fmt.Errorf("%w: %dx%d", ErrEmptyImage, bounds.Dx(), bounds.Dy())
	}

	return accumulateBands(img, bounds, opts.Workers).Mean(opts.Truncate)
}

// Accumulate sums the channels of every pixel in img in row-major order.
func Accumulate(img image.Image) Sum {
	return accumulateRect(img, img.Bounds())
}

// accumulateBands splits rect into horizontal bands and sums them concurrently.
func accumulateBands(img image.Image, rect image.Rectangle, workers int) Sum {
	rows := rect.Dy()
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		return accumulateRect(img, rect)
	}

	band := (rows + workers - 1) / workers
	partials := make([]Sum, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		y0 := rect.Min.Y + i*band
		if y0 >= rect.Max.Y {
			break
		}
		y1 := min(y0+band, rect.Max.Y)
		sub := image.Rect(rect.Min.X, y0, rect.Max.X, y1)

		g.Go(func() error {
			partials[i] = accumulateRect(img, sub)
			return nil
		})
	}
	_ = g.Wait()

	var total Sum
	for _, p := range partials {
		total = total.Add(p)
	}
	return total
}

// accumulateRect sums the channels of the pixels in rect.
func accumulateRect(img image.Image, rect image.Rectangle) Sum {
	switch src := img.(type) {
	case *image.NRGBA:
		return accumulateNRGBA(src, rect)
	case *image.RGBA:
		return accumulateRGBA(src, rect)
	}

	var s Sum
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			s.R += uint64(n.R)
			s.G += uint64(n.G)
			s.B += uint64(n.B)
		}
	}
	s.Count = uint64(rect.Dx()) * uint64(rect.Dy())
	return s
}

func accumulateNRGBA(img *image.NRGBA, rect image.Rectangle) Sum {
	var s Sum
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			s.R += uint64(img.Pix[i])
			s.G += uint64(img.Pix[i+1])
			s.B += uint64(img.Pix[i+2])
			i += 4
		}
	}
	s.Count = uint64(rect.Dx()) * uint64(rect.Dy())
	return s
}

// accumulateRGBA reads opaque pixels directly and un-premultiplies the rest.
func accumulateRGBA(img *image.RGBA, rect image.Rectangle) Sum {
	var s Sum
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := img.Pix[i : i+4 : i+4]
			if p[3] == 0xff {
				s.R += uint64(p[0])
				s.G += uint64(p[1])
				s.B += uint64(p[2])
			} else {
				n := color.NRGBAModel.Convert(color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}).(color.NRGBA)
				s.R += uint64(n.R)
				s.G += uint64(n.G)
				s.B += uint64(n.B)
			}
			i += 4
		}
	}
	s.Count = uint64(rect.Dx()) * uint64(rect.Dy())
	return s
}
