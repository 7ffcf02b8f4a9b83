package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// summaryMarkdown describes the run as Markdown: counts first, then the
// repaired and excluded documents.
func summaryMarkdown(r Report) string {
	var b strings.Builder

	mode := "serial"
	if r.Parallel {
		mode = fmt.Sprintf("parallel, %d workers", r.Workers)
	}
	fmt.Fprintf(&b, "- **Search root:** %s\n", codeSpan(r.Root))
	fmt.Fprintf(&b, "- **Documents found:** %d\n", r.Candidates)
	fmt.Fprintf(&b, "- **Documents searched:** %d\n", r.Candidates-len(r.Excluded))
	fmt.Fprintf(&b, "- **Repaired:** %d\n", len(r.Repaired))
	fmt.Fprintf(&b, "- **Excluded:** %d\n", len(r.Excluded))
	fmt.Fprintf(&b, "- **Mode:** %s\n", mode)
	fmt.Fprintf(&b, "- **Duration:** %s\n", r.Duration.Round(time.Millisecond))
	if r.RunID != "" {
		fmt.Fprintf(&b, "- **Run:** %s\n", codeSpan(r.RunID))
	}

	if len(r.Repaired) > 0 {
		b.WriteString("\n#### Repaired documents\n\n")
		for _, p := range r.Repaired {
			fmt.Fprintf(&b, "- %s\n", codeSpan(p))
		}
	}
	if len(r.Excluded) > 0 {
		b.WriteString("\n#### Excluded documents\n\n")
		for _, e := range r.Excluded {
			fmt.Fprintf(&b, "- %s: %s\n", codeSpan(e.Path), escapeMarkdown(e.Reason))
		}
	}
	return b.String()
}

// renderMarkdown converts Markdown to HTML. Raw HTML in the source is
// omitted by goldmark.
func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// codeSpan wraps s in a backtick fence longer than any backtick run it contains.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`, "\n", " ", "\r", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
