package helpers

import "github.com/zinc-sig/figbed/internal/output"

// ParseFileArgs splits positional arguments into the output mode and the
// files to upload. A leading "md" selects Markdown output and is not a file.
func ParseFileArgs(args []string) (output.Mode, []string) {
	if len(args) > 0 && args[0] == output.MarkdownToken {
		return output.ModeMarkdown, args[1:]
	}
	return output.ModeURL, args
}
