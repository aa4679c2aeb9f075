package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid in-memory test image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGradientImage creates an image whose pixels all differ.
func createGradientImage(rect image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(rect)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*7 + y*13) % 256),
				G: uint8((x*31 + y*3) % 256),
				B: uint8((x ^ y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestAverageUniform(t *testing.T) {
	tests := []struct {
		name  string
		color color.RGBA
	}{
		{"red", color.RGBA{R: 255, G: 0, B: 0, A: 255}},
		{"orange", color.RGBA{R: 255, G: 128, B: 64, A: 255}},
		{"gray", color.RGBA{R: 128, G: 128, B: 128, A: 255}},
		{"black", color.RGBA{R: 0, G: 0, B: 0, A: 255}},
		{"white", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(17, 9, tt.color)

			mean, err := Average(img, AverageOptions{})
			if err != nil {
				t.Fatalf("Average() error = %v", err)
			}

			want := Mean{R: float64(tt.color.R), G: float64(tt.color.G), B: float64(tt.color.B)}
			if mean != want {
				t.Errorf("Average() = %+v, want %+v", mean, want)
			}

			if got := mean.RGB(); got != (RGB{R: tt.color.R, G: tt.color.G, B: tt.color.B}) {
				t.Errorf("RGB() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestAverageFourPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	img.Set(1, 1, color.RGBA{A: 255})

	mean, err := Average(img, AverageOptions{})
	if err != nil {
		t.Fatalf("Average() error = %v", err)
	}
	if want := (Mean{R: 63.75, G: 63.75, B: 63.75}); mean != want {
		t.Errorf("Average() = %+v, want %+v", mean, want)
	}
	if got := mean.RGB(); got != (RGB{R: 64, G: 64, B: 64}) {
		t.Errorf("RGB() = %v, want rgb(64, 64, 64)", got)
	}

	for _, mode := range ValidModes() {
		hsl := mean.HSL(mode)
		if hsl.H != 0 || hsl.S != 0 {
			t.Errorf("%s: HSL = %+v, want achromatic", mode, hsl)
		}
		if hsl.L != 0.25 {
			t.Errorf("%s: L = %v, want 0.25", mode, hsl.L)
		}
	}

	truncated, err := Average(img, AverageOptions{Truncate: true})
	if err != nil {
		t.Fatalf("Average(truncate) error = %v", err)
	}
	if want := (Mean{R: 63, G: 63, B: 63}); truncated != want {
		t.Errorf("Average(truncate) = %+v, want %+v", truncated, want)
	}
}

func TestAverageEmptyImage(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"zero by zero", image.Rect(0, 0, 0, 0)},
		{"zero width", image.Rect(0, 0, 0, 5)},
		{"zero height", image.Rect(0, 0, 5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(tt.rect)

			_, err := Average(img, AverageOptions{Workers: 4})
			if !errors.Is(err, ErrEmptyImage) {
				t.Errorf("Average() error = %v, want ErrEmptyImage", err)
			}
		})
	}
}

func TestSumMeanEmpty(t *testing.T) {
	if _, err := (Sum{}).Mean(false); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Mean() error = %v, want ErrEmptyImage", err)
	}
}

func TestAverageWorkersMatchSequential(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(0, 0, 64, 48),
		image.Rect(10, 10, 23, 19), // non-zero origin
		image.Rect(0, 0, 5, 1),
	}

	for _, rect := range rects {
		img := createGradientImage(rect)
		want := Accumulate(img)

		if got := want.Count; got != uint64(rect.Dx()*rect.Dy()) {
			t.Fatalf("Accumulate(%v).Count = %d, want %d", rect, got, rect.Dx()*rect.Dy())
		}

		for _, workers := range []int{0, 1, 2, 3, 7, 1000} {
			if got := accumulateBands(img, rect, workers); got != want {
				t.Errorf("%v with %d workers = %+v, want %+v", rect, workers, got, want)
			}
		}
	}
}

func TestAccumulateGenericMatchesFastPath(t *testing.T) {
	nrgba := createGradientImage(image.Rect(0, 0, 20, 20))

	// RGBA64 has no fast path.
	rgba64 := image.NewRGBA64(nrgba.Bounds())
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			rgba64.Set(x, y, nrgba.At(x, y))
		}
	}

	if got, want := Accumulate(rgba64), Accumulate(nrgba); got != want {
		t.Errorf("generic = %+v, fast path = %+v", got, want)
	}
}

func TestAccumulateIgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 100, G: 150, B: 200, A: 128})
		}
	}

	mean, err := Average(img, AverageOptions{})
	if err != nil {
		t.Fatalf("Average() error = %v", err)
	}
	if want := (Mean{R: 100, G: 150, B: 200}); mean != want {
		t.Errorf("Average() = %+v, want %+v", mean, want)
	}
}

func TestAccumulateGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 77
	}

	s := Accumulate(img)
	if s.R != 77*16 || s.G != 77*16 || s.B != 77*16 || s.Count != 16 {
		t.Errorf("Accumulate(gray) = %+v", s)
	}
}

func TestSumAdd(t *testing.T) {
	a := Sum{R: 1, G: 2, B: 3, Count: 4}
	b := Sum{R: 10, G: 20, B: 30, Count: 40}

	if got, want := a.Add(b), (Sum{R: 11, G: 22, B: 33, Count: 44}); got != want {
		t.Errorf("Add() = %+v, want %+v", got, want)
	}
	if a.Add(b) != b.Add(a) {
		t.Error("Add() is not commutative")
	}
}

func TestMeanRGBRounding(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"half rounds up", 63.5, 64},
		{"below half", 63.49, 63},
		{"zero", 0, 0},
		{"top half", 254.5, 255},
		{"max", 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean{R: tt.in, G: tt.in, B: tt.in}.RGB()
			if got.R != tt.want || got.G != tt.want || got.B != tt.want {
				t.Errorf("RGB() = %v, want %d", got, tt.want)
			}
		})
	}
}
