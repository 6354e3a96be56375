package semver

import "fmt"

// Level is the magnitude of a version bump. Levels are totally ordered:
// LevelNone < LevelPatch < LevelMinor < LevelMajor.
type Level int

const (
	// LevelNone leaves the version unchanged.
	LevelNone Level = iota
	// LevelPatch increments the patch component.
	LevelPatch
	// LevelMinor increments the minor component and resets patch.
	LevelMinor
	// LevelMajor increments the major component and resets minor and patch.
	LevelMajor
)

// String returns the lowercase level name used on the CLI and in output.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelPatch:
		return "patch"
	case LevelMinor:
		return "minor"
	case LevelMajor:
		return "major"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel converts a CLI level name to a Level. Only the explicit bump
// levels are accepted; "none" is not a valid user-supplied override.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "patch":
		return LevelPatch, nil
	case "minor":
		return LevelMinor, nil
	case "major":
		return LevelMajor, nil
	default:
		return LevelNone, fmt.Errorf("invalid bump level %q: must be patch, minor, or major", s)
	}
}

// MaxLevel returns the higher of two levels.
func MaxLevel(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}
