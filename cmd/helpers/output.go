package helpers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/figbed/internal/output"
)

// OutputResults prints one line per outcome. With asJSON the success lines
// are replaced by the JSON report; failures always go to errOut.
func OutputResults(out, errOut io.Writer, outcomes []output.Outcome, report *output.Report, asJSON bool) (output.Summary, error) {
	mode := output.ModeURL
	if report.Mode == output.ModeMarkdown.String() {
		mode = output.ModeMarkdown
	}

	reporter := &output.Reporter{Out: out, ErrOut: errOut, Mode: mode}
	if !asJSON {
		return reporter.Report(outcomes), nil
	}

	reporter.Out = io.Discard
	summary := reporter.Report(outcomes)
	return summary, OutputJSON(out, report)
}

// OutputJSON marshals and prints the report as JSON
func OutputJSON(w io.Writer, report *output.Report) error {
	jsonOutput, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}
