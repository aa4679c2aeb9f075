// Package swatch displays a solid colour until the user dismisses it.
package swatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/jmylchreest/getcolour/internal/colour"
)

// ErrNotTerminal is returned when the swatch cannot take over a terminal.
var ErrNotTerminal = errors.New("swatch requires an interactive terminal")

// Terminal control sequences.
const (
	enterAltScreen = "\033[?1049h"
	leaveAltScreen = "\033[?1049l"
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
	cursorHome     = "\033[H"

	fallbackWidth  = 80
	fallbackHeight = 24
)

// Display renders a colour and blocks until it is dismissed.
type Display interface {
	Render(ctx context.Context, c colour.RGB) error
}

// Terminal fills the terminal's alternate screen with the colour and waits
// for a single key press.
type Terminal struct {
	in     *os.File
	out    *os.File
	logger hclog.Logger
}

// NewTerminal creates a Terminal display reading keys from in and drawing to out.
func NewTerminal(in, out *os.File, logger hclog.Logger) *Terminal {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Terminal{in: in, out: out, logger: logger.Named("swatch")}
}

// Render draws c and returns once any key is pressed, input is closed or ctx
// is cancelled. The terminal state is restored on every path.
func (t *Terminal) Render(ctx context.Context, c colour.RGB) error {
	inFd, outFd := int(t.in.Fd()), int(t.out.Fd())
	if !term.IsTerminal(inFd) || !term.IsTerminal(outFd) {
		return ErrNotTerminal
	}

	width, height, err := term.GetSize(outFd)
	if err != nil {
		t.logger.Debug("terminal size unavailable, using fallback", "error", err)
		width, height = fallbackWidth, fallbackHeight
	}

	state, err := term.MakeRaw(inFd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(inFd, state); err != nil {
			t.logger.Warn("failed to restore terminal", "error", err)
		}
	}()

	t.logger.Debug("rendering swatch", "colour", c.Hex(), "width", width, "height", height)
	return show(ctx, t.out, t.in, c, width, height)
}

// show paints the swatch on w, waits for dismissal on r and then clears it.
func show(ctx context.Context, w io.Writer, r io.Reader, c colour.RGB, width, height int) error {
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
	}

	if _, err := io.WriteString(w, paint(c, width, height)); err != nil {
		return fmt.Errorf("failed to draw swatch: %w", err)
	}
	defer io.WriteString(w, showCursor+leaveAltScreen) //nolint:errcheck

	return waitForKey(ctx, r)
}

// paint builds a full screen of the colour with its hex code on the middle row.
func paint(c colour.RGB, width, height int) string {
	var b strings.Builder
	b.WriteString(enterAltScreen + hideCursor + cursorHome)
	for row := 0; row < height; row++ {
		if row == height/2 {
			b.WriteString(colour.ColourPreviewWithText(c, c.Hex(), width))
		} else {
			b.WriteString(colour.ColourPreview(c, width))
		}
		// Raw mode disables output post-processing, so carriage returns are explicit.
		if row < height-1 {
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

// waitForKey blocks until one byte is read from r or ctx is done.
// A closed input counts as a dismissal.
func waitForKey(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)
	go func() {
		var buf [1]byte
		_, err := r.Read(buf[:])
		done <- err
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read key: %w", err)
		}
		return nil
	}
}

// Export writes a solid image of the colour to path. The format follows the
// file extension.
func Export(path string, c colour.RGB, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid swatch size: %dx%d", width, height)
	}

	img := imaging.New(width, height, c.NRGBA())
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save swatch: %w", err)
	}
	return nil
}
