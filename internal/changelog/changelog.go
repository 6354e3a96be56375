// Package changelog renders the pending release section from classified
// commits: the changes since the last tag, grouped by what they mean for
// the next version. It renders either markdown (for pasting into a
// CHANGELOG file or release notes) or colored terminal output.
package changelog

import (
	"strings"

	"github.com/ariel-frischer/autobump/internal/conventional"
)

// Section groups entries under one heading of the rendered changelog.
type Section struct {
	Title   string
	Entries []string
}

// Options controls which commits appear in the rendered changelog.
type Options struct {
	// IncludeUnrecognized lists non-conventional commits under "Other"
	// even though they carry no bump weight. Kept as a selectable policy:
	// some teams want every commit visible, some only conventional ones.
	IncludeUnrecognized bool
}

// sectionOrder fixes the rendering order of the groups.
var sectionOrder = []string{"Breaking Changes", "Features", "Bug Fixes", "Other"}

// Build groups classified commits into ordered sections. Empty sections
// are omitted. A breaking commit appears only under Breaking Changes,
// regardless of its nominal type.
func Build(commits []conventional.Commit, opts Options) []Section {
	grouped := map[string][]string{}

	for _, c := range commits {
		switch {
		case c.Breaking:
			grouped["Breaking Changes"] = append(grouped["Breaking Changes"], entryText(c))
		case !c.Recognized:
			if opts.IncludeUnrecognized {
				grouped["Other"] = append(grouped["Other"], entryText(c))
			}
		case c.Type == "feat":
			grouped["Features"] = append(grouped["Features"], entryText(c))
		case c.Type == "fix":
			grouped["Bug Fixes"] = append(grouped["Bug Fixes"], entryText(c))
		default:
			grouped["Other"] = append(grouped["Other"], entryText(c))
		}
	}

	var sections []Section
	for _, title := range sectionOrder {
		if entries := grouped[title]; len(entries) > 0 {
			sections = append(sections, Section{Title: title, Entries: entries})
		}
	}
	return sections
}

// entryText formats one commit as a changelog bullet: the scope as a bold
// prefix when present, then the description. Unrecognized commits fall
// back to their header line.
func entryText(c conventional.Commit) string {
	if !c.Recognized {
		header, _, _ := strings.Cut(c.Raw, "\n")
		return header
	}
	if c.Scope != "" {
		return "**" + c.Scope + "**: " + c.Description
	}
	return c.Description
}
