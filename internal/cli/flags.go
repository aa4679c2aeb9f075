package cli

import (
	"github.com/spf13/pflag"

	"github.com/jmylchreest/getcolour/internal/colour"
)

// modeFlag adapts colour.Mode to pflag.Value so invalid modes are rejected
// while flags are parsed.
type modeFlag struct {
	mode *colour.Mode
}

var _ pflag.Value = (*modeFlag)(nil)

func newModeFlag(def colour.Mode, p *colour.Mode) *modeFlag {
	*p = def
	return &modeFlag{mode: p}
}

func (f *modeFlag) String() string {
	if f.mode == nil {
		return ""
	}
	return string(*f.mode)
}

func (f *modeFlag) Set(s string) error {
	m, err := colour.ParseMode(s)
	if err != nil {
		return err
	}
	*f.mode = m
	return nil
}

func (f *modeFlag) Type() string {
	return "mode"
}
