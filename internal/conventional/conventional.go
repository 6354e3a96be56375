// Package conventional classifies raw commit messages against the
// Conventional Commits grammar and aggregates classifications into a single
// bump level. Classification is a total function: any input, however
// malformed, yields a Commit value. Malformed messages are common, expected
// input, so they are modeled as unrecognized commits rather than errors.
package conventional

import (
	"strings"

	"github.com/ariel-frischer/autobump/internal/semver"
)

// typeLevels maps recognized commit types to the bump level they imply.
// Other syntactically valid types (chore, docs, refactor, ...) parse but
// carry no bump weight.
var typeLevels = map[string]semver.Level{
	"fix":  semver.LevelPatch,
	"feat": semver.LevelMinor,
}

// Breaking-change footer tokens, matched case-sensitively per the
// Conventional Commits convention.
const (
	breakingFooter       = "BREAKING CHANGE:"
	breakingFooterHyphen = "BREAKING-CHANGE:"
)

// Commit is the classification of one raw commit message.
type Commit struct {
	// Raw is the full original message, header plus body and footers.
	Raw string
	// Type is the lowercased commit type ("fix", "feat", "chore", ...).
	// Empty when Recognized is false.
	Type string
	// Scope is the optional parenthesized scope, empty when absent.
	Scope string
	// Description is the text after the colon in the header.
	Description string
	// Breaking is true for a "!" marker or a BREAKING CHANGE footer.
	Breaking bool
	// Recognized is false when the header does not match the grammar.
	Recognized bool
}

// ImpliedLevel returns the bump level this single commit calls for:
// breaking changes force a major bump regardless of the nominal type.
func (c Commit) ImpliedLevel() semver.Level {
	if c.Breaking {
		return semver.LevelMajor
	}
	if !c.Recognized {
		return semver.LevelNone
	}
	return typeLevels[c.Type]
}

// Classify parses one raw commit message (header line plus optional body
// and footer lines) into a Commit. It never fails: headers that do not
// match the type(scope)?!?: description grammar yield Recognized=false.
// A breaking-change footer still marks a non-conventional commit breaking.
func Classify(raw string) Commit {
	c := Commit{Raw: raw}

	header, rest, _ := strings.Cut(raw, "\n")
	c.Breaking = hasBreakingFooter(rest)

	typ, scope, bang, desc, ok := parseHeader(header)
	if !ok {
		return c
	}

	c.Recognized = true
	c.Type = strings.ToLower(typ)
	c.Scope = scope
	c.Description = desc
	c.Breaking = c.Breaking || bang
	return c
}

// parseHeader matches "type(scope)?!?: description". The type must be a
// non-empty run of letters; the scope, when present, is any text between a
// balanced pair of parentheses directly after the type.
func parseHeader(header string) (typ, scope string, bang bool, desc string, ok bool) {
	i := 0
	for i < len(header) && isLetter(header[i]) {
		i++
	}
	if i == 0 {
		return "", "", false, "", false
	}
	typ = header[:i]

	if i < len(header) && header[i] == '(' {
		end := strings.IndexByte(header[i:], ')')
		if end < 0 {
			return "", "", false, "", false
		}
		scope = header[i+1 : i+end]
		i += end + 1
	}

	if i < len(header) && header[i] == '!' {
		bang = true
		i++
	}

	// The grammar requires ": " between header prefix and description.
	if !strings.HasPrefix(header[i:], ": ") {
		return "", "", false, "", false
	}
	desc = strings.TrimSpace(header[i+2:])
	if desc == "" {
		return "", "", false, "", false
	}
	return typ, scope, bang, desc, true
}

// hasBreakingFooter reports whether any line below the header starts with a
// breaking-change footer token.
func hasBreakingFooter(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, breakingFooter) || strings.HasPrefix(line, breakingFooterHyphen) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Aggregate reduces classifications to the single bump level they call for
// collectively: the maximum of each commit's implied level. The reduction
// is commutative and associative, so processing order is irrelevant and
// repeated commits do not over-count. An empty input yields LevelNone.
func Aggregate(commits []Commit) semver.Level {
	level := semver.LevelNone
	for _, c := range commits {
		level = semver.MaxLevel(level, c.ImpliedLevel())
	}
	return level
}

// ClassifyAll classifies each raw message in order.
func ClassifyAll(messages []string) []Commit {
	commits := make([]Commit, len(messages))
	for i, m := range messages {
		commits[i] = Classify(m)
	}
	return commits
}
