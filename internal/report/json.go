package report

import (
	"encoding/json"
	"io"
	"time"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonArtifact struct {
	Platform string `json:"platform"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

type jsonPackage struct {
	Artifacts []jsonArtifact `json:"artifacts"`
	Skipped   []string       `json:"skipped"`
}

type jsonAsset struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Size  int64  `json:"size"`
	URL   string `json:"url,omitempty"`
}

type jsonRelease struct {
	Skipped bool        `json:"skipped"`
	DryRun  bool        `json:"dryRun"`
	Tag     string      `json:"tag,omitempty"`
	Name    string      `json:"name,omitempty"`
	URL     string      `json:"url,omitempty"`
	Assets  []jsonAsset `json:"assets,omitempty"`
}

type jsonOutput struct {
	Version   string       `json:"version"`
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Duration  string       `json:"duration"`
	Package   *jsonPackage `json:"package,omitempty"`
	Release   *jsonRelease `json:"release,omitempty"`
}

func (jr *JSONReporter) Write(w io.Writer, s *Summary) error {
	out := jsonOutput{
		Version:   s.Version,
		StartTime: s.StartTime.Format(time.RFC3339),
		EndTime:   s.EndTime.Format(time.RFC3339),
		Duration:  s.EndTime.Sub(s.StartTime).String(),
	}

	if s.Package != nil {
		p := &jsonPackage{Artifacts: []jsonArtifact{}, Skipped: []string{}}
		for _, a := range s.Package.Artifacts {
			p.Artifacts = append(p.Artifacts, jsonArtifact{Platform: a.Platform, Path: a.Path, Size: a.Size})
		}
		p.Skipped = append(p.Skipped, s.Package.Skipped...)
		out.Package = p
	}

	if s.PublishRan {
		r := &jsonRelease{DryRun: s.DryRun, Skipped: s.Publication == nil}
		if pub := s.Publication; pub != nil {
			r.Tag = pub.Release.TagName
			r.Name = pub.Release.Name
			r.URL = pub.Release.HTMLURL
			for _, a := range pub.Assets {
				r.Assets = append(r.Assets, jsonAsset{Name: a.Name, Label: a.Label, Size: a.Size, URL: a.URL})
			}
		}
		out.Release = r
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
