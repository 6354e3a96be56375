package changelog

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderMarkdown writes the sections as a markdown fragment suitable for a
// CHANGELOG file or release notes. The function is idempotent: the same
// input produces identical output.
func RenderMarkdown(sections []Section, heading string, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "## %s\n", heading); err != nil {
		return err
	}

	if len(sections) == 0 {
		_, err := fmt.Fprint(w, "\nNo notable changes.\n")
		return err
	}

	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "\n### %s\n\n", s.Title); err != nil {
			return err
		}
		for _, entry := range s.Entries {
			if _, err := fmt.Fprintf(w, "- %s\n", entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// sectionStyles maps section titles to their terminal styling.
var sectionStyles = map[string]*color.Color{
	"Breaking Changes": color.New(color.FgRed, color.Bold),
	"Features":         color.New(color.FgGreen, color.Bold),
	"Bug Fixes":        color.New(color.FgYellow, color.Bold),
	"Other":            color.New(color.FgWhite, color.Bold),
}

// RenderTerminal writes the sections with colored headings and bullets.
func RenderTerminal(sections []Section, heading string, w io.Writer) error {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	if _, err := fmt.Fprintf(w, "%s\n", title(heading)); err != nil {
		return err
	}

	if len(sections) == 0 {
		_, err := fmt.Fprintln(w, "  no notable changes")
		return err
	}

	for _, s := range sections {
		style := sectionStyles[s.Title]
		if style == nil {
			style = color.New(color.Bold)
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", style.Sprint(s.Title)); err != nil {
			return err
		}
		for _, entry := range s.Entries {
			if _, err := fmt.Fprintf(w, "  • %s\n", entry); err != nil {
				return err
			}
		}
	}
	return nil
}
