package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	insertLine = color.New(color.FgGreen).SprintFunc()
	deleteLine = color.New(color.FgRed).SprintFunc()
	equalLine  = color.New(color.Faint).SprintFunc()
)

// RenderDiff writes a line-oriented colored diff of before vs after:
// removed lines in red with a "-" gutter, added lines in green with "+",
// unchanged lines dimmed. Used to show the exact manifest change a bump
// would apply.
func RenderDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()

	// Line-mode diff: map lines to runes, diff the runes, map back.
	beforeRunes, afterRunes, lineIndex := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(beforeRunes, afterRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fmt.Fprintln(w, insertLine("+ "+line))
			case diffmatchpatch.DiffDelete:
				fmt.Fprintln(w, deleteLine("- "+line))
			default:
				fmt.Fprintln(w, equalLine("  "+line))
			}
		}
	}
}

// splitDiffLines splits a diff chunk into lines, dropping the trailing
// empty element produced by a final newline.
func splitDiffLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
