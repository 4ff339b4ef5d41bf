package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yapb/amxx-release/internal/release"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, s *Summary) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "YAPB AMXX RELEASE "+s.Version+"\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, s.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, s.EndTime.Sub(s.StartTime).String()))
	fmt.Fprintf(w, "%s\n", divider)

	if s.Package != nil {
		for _, a := range s.Package.Artifacts {
			fmt.Fprintf(w, "%s %s %s\n",
				tr.cs(colGreen, "[BUILT]"),
				tr.cs(colWhite, filepath.Base(a.Path)),
				tr.cs(colGrey, fmt.Sprintf("(%s, %d bytes)", a.Platform, a.Size)))
		}
		for _, name := range s.Package.Skipped {
			fmt.Fprintf(w, "%s %s %s\n",
				tr.cs(colYellow, "[SKIP] "),
				tr.cs(colWhite, name),
				tr.cs(colGrey, "(binary not found)"))
		}
	}

	if s.PublishRan {
		tr.writePublication(w, s)
	}

	fmt.Fprintf(w, "%s\n", divider)
	return nil
}

func (tr *TextReporter) writePublication(w io.Writer, s *Summary) {
	if s.Publication == nil {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colYellow, "[SKIP] "), tr.cs(colWhite, "release (archives missing)"))
		return
	}

	label := "[RELEASED]"
	if s.DryRun {
		label = "[DRY RUN]"
	}
	fmt.Fprintf(w, "%s %s\n", tr.cs(colBoldGreen, label), tr.cs(colWhite, releaseTitle(s.Publication.Release)))
	if s.Publication.Release.HTMLURL != "" {
		fmt.Fprintf(w, "  %s\n", tr.cs(colGrey, s.Publication.Release.HTMLURL))
	}
	for _, a := range s.Publication.Assets {
		fmt.Fprintf(w, "  %s %s\n", tr.cs(colGreen, "✓"), tr.cs(colGrey, a.Name))
	}
}

func releaseTitle(r release.Release) string {
	if r.Name != "" {
		return r.Name
	}
	return r.TagName
}
