// Package report renders the outcome of a release run for the terminal or
// for machines.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/yapb/amxx-release/internal/pack"
	"github.com/yapb/amxx-release/internal/release"
)

// Summary collects what a run did.
type Summary struct {
	Version   string
	StartTime time.Time
	EndTime   time.Time

	// Package is nil when packaging was not part of the run.
	Package *pack.Result

	// PublishRan is set when the publish step was attempted. Publication is
	// nil when it was skipped because an archive was missing.
	PublishRan  bool
	DryRun      bool
	Publication *release.Publication
}

// Reporter writes a Summary in some output format.
type Reporter interface {
	Write(w io.Writer, s *Summary) error
}

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats returns the output formats New accepts, default first.
func Formats() []string {
	return []string{FormatText, FormatJSON}
}

// UnknownFormatError is returned by New for a format it does not know.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown report format '%s'", e.Format)
}

// New returns the Reporter for format. An empty format selects text.
func New(format string, useColour bool) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{UseColour: useColour}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}
