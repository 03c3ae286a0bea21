package output

import (
	"errors"
	"fmt"
)

// Mode selects how successful uploads are rendered
type Mode int

const (
	// ModeURL prints the bare public URL
	ModeURL Mode = iota
	// ModeMarkdown prints a Markdown image reference
	ModeMarkdown
)

// MarkdownToken is the leading argument that switches to ModeMarkdown
const MarkdownToken = "md"

func (m Mode) String() string {
	if m == ModeMarkdown {
		return "markdown"
	}
	return "url"
}

// Render formats a public URL for display. display is the alt text used in
// Markdown mode.
func Render(mode Mode, url, display string) string {
	if mode == ModeMarkdown {
		return fmt.Sprintf("![%s](%s)", display, url)
	}
	return url
}

// Outcome is the result of uploading a single file. Err is nil on success.
type Outcome struct {
	// Index is the position of the file among the submitted files.
	Index   int
	Path    string
	Key     string
	URL     string
	Display string
	Err     error
}

// OK reports whether the upload succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Line returns the rendered success line for o
func (o Outcome) Line(mode Mode) string {
	return Render(mode, o.URL, o.Display)
}

// Report is the machine-readable summary of a batch
type Report struct {
	Mode      string  `json:"mode"`
	Provider  string  `json:"provider"`
	Bucket    string  `json:"bucket"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Files     []Entry `json:"files"`
}

// Entry describes one file of a Report
type Entry struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Key    string `json:"key,omitempty"`
	URL    string `json:"url,omitempty"`
	Output string `json:"output,omitempty"`
	Stage  string `json:"stage,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// StageError is implemented by failures that know which step of the upload
// they happened in
type StageError interface {
	error
	Stage() string
}

// NewReport builds a Report from outcomes, preserving their order
func NewReport(mode Mode, provider, bucket string, outcomes []Outcome) *Report {
	report := &Report{
		Mode:     mode.String(),
		Provider: provider,
		Bucket:   bucket,
		Files:    make([]Entry, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		entry := Entry{Path: o.Path, Key: o.Key}
		if o.OK() {
			report.Succeeded++
			entry.Status = StatusSuccess
			entry.URL = o.URL
			entry.Output = o.Line(mode)
		} else {
			report.Failed++
			entry.Status = StatusFailed
			entry.Error = o.Err.Error()
			var se StageError
			if errors.As(o.Err, &se) {
				entry.Stage = se.Stage()
			}
		}
		report.Files = append(report.Files, entry)
	}

	return report
}
