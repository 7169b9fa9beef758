package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/muesli/termenv"
)

// Markdown formats a snapshot as a markdown document: a header table and the outline in a code block.
func Markdown(snap *domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Container `%s`\n\n", snap.ContainerID)
	sb.WriteString("| Sequence | Committed |\n")
	sb.WriteString("|---:|---|\n")
	committed := "never"
	if !snap.CommittedAt.IsZero() && snap.Sequence > 0 {
		committed = snap.CommittedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	}
	fmt.Fprintf(&sb, "| %d | %s |\n\n", snap.Sequence, committed)

	if snap.Outline == "" {
		sb.WriteString("_empty_\n")
		return sb.String()
	}
	sb.WriteString("```\n")
	sb.WriteString(snap.Outline)
	if !strings.HasSuffix(snap.Outline, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
	return sb.String()
}

var (
	outlineText   = regexp.MustCompile(`^(\s*)(".*")$`)
	outlineLine   = regexp.MustCompile(`^(\s*)(\S+)(.*)$`)
	outlineEvents = regexp.MustCompile(`\[[^\]]*\]`)
)

// Colorize highlights an outline for the terminal profile p.
// Types are bold, text leaves green and event lists yellow. termenv.Ascii returns the outline unchanged.
func Colorize(outline string, p termenv.Profile) string {
	if p == termenv.Ascii {
		return outline
	}
	lines := strings.Split(outline, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		if m := outlineText.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + termenv.String(m[2]).Foreground(p.Color("#34d399")).String()
			continue
		}
		m := outlineLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rest := outlineEvents.ReplaceAllStringFunc(m[3], func(ev string) string {
			return termenv.String(ev).Foreground(p.Color("#facc15")).String()
		})
		lines[i] = m[1] + termenv.String(m[2]).Bold().String() + rest
	}
	return strings.Join(lines, "\n")
}
