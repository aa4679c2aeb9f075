// Package cli provides the command-line interface for getcolour.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/getcolour/internal/colour"
	"github.com/jmylchreest/getcolour/internal/config"
	"github.com/jmylchreest/getcolour/internal/image"
	"github.com/jmylchreest/getcolour/internal/swatch"
	"github.com/jmylchreest/getcolour/internal/version"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitNotFound   = 3
	ExitDecode     = 4
	ExitDegenerate = 5
)

// ErrUsage is returned for malformed argument combinations.
var ErrUsage = errors.New("invalid usage")

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, image.ErrNotFound), errors.Is(err, image.ErrEmptyPath):
		return ExitNotFound
	case errors.Is(err, image.ErrDecode):
		return ExitDecode
	case errors.Is(err, colour.ErrEmptyImage):
		return ExitDegenerate
	default:
		return ExitFailure
	}
}

// Option configures the root command.
type Option func(*runner)

// WithLoader replaces the filesystem image loader.
func WithLoader(l image.Loader) Option {
	return func(r *runner) { r.loader = l }
}

// WithDisplay replaces the terminal swatch display.
func WithDisplay(d swatch.Display) Option {
	return func(r *runner) { r.display = d }
}

// runner holds the flag values and collaborators of one invocation.
type runner struct {
	cfg     config.Config
	loader  image.Loader
	display swatch.Display

	showDialog bool
	mode       colour.Mode
	workers    int
	truncate   bool
	format     string
	swatchOut  string
	verbose    bool
}

// NewRootCmd creates the getcolour command. Flag defaults come from cfg.
func NewRootCmd(cfg config.Config, opts ...Option) *cobra.Command {
	r := &runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}

	cmd := &cobra.Command{
		Use:   "getcolour [--showcolordialog] <image>",
		Short: "Calculate the average colour of an image",
		Long: `This application calculates the average colour of an image.

getcolour decodes the image, averages the red, green and blue channels of
every pixel and prints the result as RGB and HSL. HSL values are fractions
in [0, 1]; hue is a fraction of a full turn.

Supported image formats: ` + strings.Join(image.SupportedImageExtensions(), ", ") + `

Conversion modes:
  standard  textbook RGB to HSL conversion (default)
  legacy    the HSL quirks of the original GetColorOfImage tool, which ignores
            the blue channel; combine with --truncate for its exact averages

Exit codes:
  0  success or help
  1  unexpected failure
  2  invalid usage
  3  file does not exist
  4  file is not a decodable image
  5  image has zero width or height

Examples:
  getcolour wallpaper.jpg
  getcolour --showcolordialog wallpaper.png
  getcolour --format json --workers 4 scan.tiff`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          validateArgs,
		RunE:          r.run,
	}

	cmd.SetVersionTemplate(version.String() + "\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	flags := cmd.Flags()
	flags.BoolVar(&r.showDialog, "showcolordialog", false, "show the average colour in the terminal until a key is pressed")
	flags.VarP(newModeFlag(cfg.Mode, &r.mode), "mode", "m", "HSL conversion mode (standard, legacy)")
	flags.IntVarP(&r.workers, "workers", "w", cfg.Workers, "number of goroutines scanning the image")
	flags.BoolVar(&r.truncate, "truncate", cfg.Truncate, "truncate channel averages with integer division")
	flags.StringVarP(&r.format, "format", "f", cfg.Format, "output format (text, json)")
	flags.StringVarP(&r.swatchOut, "swatch-out", "o", "", "also write a solid swatch image to this file")
	flags.BoolVarP(&r.verbose, "verbose", "v", cfg.Verbose, "enable verbose output")

	return cmd
}

// validateArgs accepts at most one image path.
func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: expected a single image path, got %d arguments", ErrUsage, len(args))
	}
	return nil
}

// newLogger creates the command logger. Verbose output enables debug messages.
func newLogger(w io.Writer, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "getcolour",
		Output: w,
		Level:  level,
	})
}

// run executes a single averaging pass.
func (r *runner) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || args[0] == "/?" {
		return cmd.Help()
	}
	path := args[0]

	logger := newLogger(cmd.ErrOrStderr(), r.verbose)

	settings := r.cfg
	settings.Mode = r.mode
	settings.Workers = r.workers
	settings.Truncate = r.truncate
	settings.Format = strings.ToLower(r.format)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := image.Exists(path); err != nil {
		return err
	}
	if !image.IsImageFile(path) {
		logger.Debug("unrecognised extension, relying on content detection", "path", path)
	}

	loader := r.loader
	if loader == nil {
		loader = image.NewFileLoader(logger)
	}
	img, err := loader.Load(path)
	if err != nil {
		return err
	}

	logger.Debug("averaging image", "workers", settings.Workers, "truncate", settings.Truncate)
	mean, err := colour.Average(img, colour.AverageOptions{
		Workers:  settings.Workers,
		Truncate: settings.Truncate,
	})
	if err != nil {
		return err
	}

	report := colour.NewReport(mean, settings.Mode)
	logger.Debug("average computed", "hex", report.Hex(), "mode", settings.Mode)

	if err := writeReport(cmd.OutOrStdout(), report, settings.Format); err != nil {
		return err
	}

	if r.swatchOut != "" {
		if err := swatch.Export(r.swatchOut, report.RGB, settings.SwatchWidth, settings.SwatchHeight); err != nil {
			return err
		}
		logger.Debug("swatch written", "path", r.swatchOut)
	}

	if !r.showDialog {
		return nil
	}

	display := r.display
	if display == nil {
		display = swatch.NewTerminal(os.Stdin, os.Stdout, logger)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Press any key to continue...")
	return display.Render(cmd.Context(), report.RGB)
}

// writeReport prints the report in the requested format.
func writeReport(w io.Writer, report colour.Report, format string) error {
	switch format {
	case config.FormatJSON:
		data, err := report.JSON()
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		_, err := io.WriteString(w, report.Text())
		return err
	}
}

// Run executes cmd and reports any error on its error stream.
// It returns the process exit code.
func Run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "getcolour: %v\n", err)
		if errors.Is(err, ErrUsage) {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		}
	}
	return ExitCode(err)
}

// Execute loads the configuration, runs the root command against os.Args and
// returns the process exit code. This is called by main.main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "getcolour: invalid configuration: %v\n", err)
		return ExitUsage
	}

	return Run(ctx, NewRootCmd(cfg))
}
