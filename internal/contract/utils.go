package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kyhsueh/codegrade/schema"
)

// Color variables for console output.
var (
	TopGradeColor  = color.New(color.FgGreen, color.Bold) // S grade
	GoodGradeColor = color.New(color.FgGreen)             // A grade
	FairGradeColor = color.New(color.FgYellow)            // B grade
	WeakGradeColor = color.New(color.FgMagenta)           // C grade
	PoorGradeColor = color.New(color.FgRed, color.Bold)   // D grade
)

// GetColorGradeLabel returns a colored grade string for console output.
func GetColorGradeLabel(grade schema.Grade) string {
	switch grade {
	case schema.GradeS:
		return TopGradeColor.Sprint(string(grade))
	case schema.GradeA:
		return GoodGradeColor.Sprint(string(grade))
	case schema.GradeB:
		return FairGradeColor.Sprint(string(grade))
	case schema.GradeC:
		return WeakGradeColor.Sprint(string(grade))
	default: // D
		return PoorGradeColor.Sprint(string(grade))
	}
}

// SelectOutputFile returns the appropriate file handle for output based on
// the provided file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude
// patterns. It supports simple glob patterns (using filepath.Match) when the
// pattern contains wildcard characters. Patterns ending with '/' are treated
// as prefixes; patterns starting with '.' match as suffixes; anything else
// matches the base filename exactly or as a path substring.
func ShouldIgnore(path string, excludes []string) bool {
	base := filepath.Base(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			if ok, err := filepath.Match(ex, path); err == nil && ok {
				return true
			}
			if ok, err := filepath.Match(ex, base); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case ex == base:
			return true
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// MatchesAuthorFilter reports whether an author passes the allow-list.
// An empty allow-list admits everyone; matching is case-insensitive exact.
func MatchesAuthorFilter(author string, allowList []string) bool {
	if len(allowList) == 0 {
		return true
	}
	needle := strings.ToLower(strings.TrimSpace(author))
	for _, allowed := range allowList {
		if strings.ToLower(strings.TrimSpace(allowed)) == needle {
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}
