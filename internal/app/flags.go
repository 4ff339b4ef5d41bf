package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yapb/amxx-release/internal/report"
)

// formatValue implements pflag.Value for the summary format. Accepted values
// come from report.Formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if !slices.Contains(report.Formats(), v) {
		return fmt.Errorf("must be one of %s", strings.Join(report.Formats(), ", "))
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value so --config shows as <path> in help.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
