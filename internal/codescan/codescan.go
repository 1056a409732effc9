// Package codescan is the static-complexity collaborator: it walks a source
// tree and produces per-file line, function and complexity figures. The
// analysis pipeline only aggregates these numbers; nothing in core computes
// complexity itself.
package codescan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kyhsueh/codegrade/internal/contract"
	"github.com/kyhsueh/codegrade/schema"
)

// maxReportedFiles caps the per-file detail list at the most complex files.
const maxReportedFiles = 50

// Complexity tier bounds on per-file average complexity (inclusive).
const (
	lowComplexityMax    = 5
	mediumComplexityMax = 10
	highComplexityMax   = 20
)

// defaultExcludeFolders are always skipped regardless of user configuration.
var defaultExcludeFolders = []string{
	"node_modules", "venv", ".git", "dist", "build",
	"__pycache__", ".venv", "env", ".idea", ".vscode",
}

// defaultExcludeFiles are vendored or generated artifacts that would skew
// complexity totals.
var defaultExcludeFiles = []string{
	"min.js", "jquery", "knockout", "sockjs", "bootstrap",
	"moment", "api.js", ".worker.js",
}

// language describes how to spot functions and branches for one family of
// file extensions.
type language struct {
	funcMarkers    []string
	branchKeywords []string
	lineComment    string
}

// languages maps file extensions to their scanning rules.
var languages = map[string]language{
	".go":   {funcMarkers: []string{"func "}, branchKeywords: []string{"if ", "for ", "case ", "&&", "||"}, lineComment: "//"},
	".py":   {funcMarkers: []string{"def "}, branchKeywords: []string{"if ", "elif ", "for ", "while ", "except", " and ", " or "}, lineComment: "#"},
	".js":   {funcMarkers: []string{"function ", "=> {"}, branchKeywords: []string{"if ", "for ", "while ", "case ", "catch", "&&", "||"}, lineComment: "//"},
	".ts":   {funcMarkers: []string{"function ", "=> {"}, branchKeywords: []string{"if ", "for ", "while ", "case ", "catch", "&&", "||"}, lineComment: "//"},
	".java": {funcMarkers: []string{"public ", "private ", "protected "}, branchKeywords: []string{"if ", "for ", "while ", "case ", "catch", "&&", "||"}, lineComment: "//"},
	".cs":   {funcMarkers: []string{"public ", "private ", "protected "}, branchKeywords: []string{"if ", "for ", "while ", "case ", "catch", "&&", "||"}, lineComment: "//"},
	".c":    {funcMarkers: []string{"("}, branchKeywords: []string{"if ", "for ", "while ", "case ", "&&", "||"}, lineComment: "//"},
	".rb":   {funcMarkers: []string{"def "}, branchKeywords: []string{"if ", "elsif ", "for ", "while ", "rescue", "&&", "||"}, lineComment: "#"},
	".rs":   {funcMarkers: []string{"fn "}, branchKeywords: []string{"if ", "for ", "while ", "match ", "&&", "||"}, lineComment: "//"},
	".php":  {funcMarkers: []string{"function "}, branchKeywords: []string{"if ", "for ", "while ", "case ", "catch", "&&", "||"}, lineComment: "//"},
}

// TreeScanner implements contract.CodeScanner over the local filesystem.
// Files are scanned by a pool of Workers goroutines.
type TreeScanner struct {
	Workers int
}

var _ contract.CodeScanner = &TreeScanner{} // Compile-time check

// NewTreeScanner creates a scanner with the built-in language table.
func NewTreeScanner(workers int) *TreeScanner {
	if workers < 1 {
		workers = 1
	}
	return &TreeScanner{Workers: workers}
}

// scanTarget is one candidate source file found during the walk.
type scanTarget struct {
	path string
	rel  string
	lang language
}

// Scan walks the tree rooted at root and aggregates per-file figures into a
// CodeResult. User exclude lists extend the built-in defaults. Unreadable
// files are skipped with a warning rather than failing the scan.
func (s *TreeScanner) Scan(ctx context.Context, root string, excludeFolders, excludeFiles []string) (*schema.CodeResult, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project path does not exist: %s", root)
	}

	targets, err := collectTargets(ctx, root, excludeFolders, excludeFiles)
	if err != nil {
		return nil, fmt.Errorf("code analysis failed: %w", err)
	}

	scans := s.scanAll(targets)

	var details []schema.CodeFile
	summary := schema.CodeSummary{}
	complexitySum := 0
	for _, detail := range scans {
		details = append(details, detail.file)
		summary.TotalFiles++
		summary.TotalLines += detail.file.Lines
		summary.TotalFunctions += detail.file.Functions
		complexitySum += detail.file.Complexity
		if detail.maxFunc != nil && detail.maxFunc.Complexity > summary.MaxComplexity {
			summary.MaxComplexity = detail.maxFunc.Complexity
			summary.MaxComplexityFunction = detail.maxFunc
		}
	}
	if summary.TotalFunctions > 0 {
		summary.AvgComplexity = schema.Round(float64(complexitySum)/float64(summary.TotalFunctions), 2)
	}

	dist := complexityDistribution(details)

	sort.Slice(details, func(i, j int) bool {
		if details[i].Complexity == details[j].Complexity {
			return details[i].Path < details[j].Path
		}
		return details[i].Complexity > details[j].Complexity
	})
	if len(details) > maxReportedFiles {
		details = details[:maxReportedFiles]
	}

	return &schema.CodeResult{
		Summary:                summary,
		Files:                  details,
		ComplexityDistribution: dist,
	}, nil
}

// collectTargets walks the tree and gathers every scannable source file,
// honoring folder and file excludes.
func collectTargets(ctx context.Context, root string, excludeFolders, excludeFiles []string) ([]scanTarget, error) {
	folders := append(append([]string(nil), defaultExcludeFolders...), excludeFolders...)
	files := append(append([]string(nil), defaultExcludeFiles...), excludeFiles...)

	var targets []scanTarget
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != root && contract.ShouldIgnore(d.Name(), folders) {
				return filepath.SkipDir
			}
			return nil
		}

		lang, ok := languages[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if contract.ShouldIgnore(rel, files) {
			return nil
		}

		targets = append(targets, scanTarget{path: path, rel: rel, lang: lang})
		return nil
	})
	return targets, err
}

// scanAll fans the targets out to the worker pool and collects per-file
// results. Output order follows completion, which is fine: callers sort.
func (s *TreeScanner) scanAll(targets []scanTarget) []fileScan {
	targetCh := make(chan scanTarget, len(targets))
	resultCh := make(chan fileScan, len(targets))

	var wg sync.WaitGroup
	for range s.workerCount() {
		wg.Go(func() {
			for t := range targetCh {
				detail, err := scanFile(t.path, t.rel, t.lang)
				if err != nil {
					contract.LogWarn("Skipping unreadable file "+t.rel, err)
					continue
				}
				resultCh <- detail
			}
		})
	}

	for _, t := range targets {
		targetCh <- t
	}
	close(targetCh)
	wg.Wait()
	close(resultCh)

	scans := make([]fileScan, 0, len(targets))
	for detail := range resultCh {
		scans = append(scans, detail)
	}
	return scans
}

func (s *TreeScanner) workerCount() int {
	if s.Workers < 1 {
		return 1
	}
	return s.Workers
}

// fileScan carries the per-file detail plus the most complex function seen.
type fileScan struct {
	file    schema.CodeFile
	maxFunc *schema.MaxComplexityFunction
}

// scanFile reads one source file, counting non-blank non-comment lines,
// function declarations, and branch keywords attributed to the enclosing
// function. Every function starts at complexity 1.
func scanFile(path, rel string, lang language) (fileScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileScan{}, err
	}
	defer func() { _ = f.Close() }()

	result := fileScan{file: schema.CodeFile{Path: rel}}
	var currentFunc *schema.MaxComplexityFunction

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, lang.lineComment) {
			continue
		}
		result.file.Lines++

		if name, ok := functionName(line, lang); ok {
			flushFunction(&result, currentFunc)
			currentFunc = &schema.MaxComplexityFunction{
				Name:       name,
				File:       rel,
				Complexity: 1,
				Line:       lineNo,
			}
			result.file.Functions++
			result.file.Complexity++
			continue
		}

		branches := countBranches(line, lang)
		result.file.Complexity += branches
		if currentFunc != nil {
			currentFunc.Complexity += branches
		}
	}
	if err := scanner.Err(); err != nil {
		return fileScan{}, err
	}
	flushFunction(&result, currentFunc)

	if result.file.Functions > 0 {
		result.file.AvgComplexity = schema.Round(float64(result.file.Complexity)/float64(result.file.Functions), 2)
	}
	return result, nil
}

// flushFunction keeps the running maximum-complexity function.
func flushFunction(result *fileScan, fn *schema.MaxComplexityFunction) {
	if fn == nil {
		return
	}
	if result.maxFunc == nil || fn.Complexity > result.maxFunc.Complexity {
		result.maxFunc = fn
	}
}

// functionName reports whether the line declares a function and extracts a
// display name for it.
func functionName(line string, lang language) (string, bool) {
	for _, marker := range lang.funcMarkers {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(marker):]
		if paren := strings.IndexAny(rest, "(:"); paren > 0 {
			name := strings.TrimSpace(rest[:paren])
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// countBranches counts branch keyword occurrences on one line.
func countBranches(line string, lang language) int {
	count := 0
	for _, kw := range lang.branchKeywords {
		count += strings.Count(line, kw)
	}
	return count
}

// complexityDistribution buckets files by average complexity into the four
// fixed tiers.
func complexityDistribution(files []schema.CodeFile) schema.TierDistribution {
	var dist schema.TierDistribution
	for _, f := range files {
		switch {
		case f.AvgComplexity <= lowComplexityMax:
			dist.Low++
		case f.AvgComplexity <= mediumComplexityMax:
			dist.Medium++
		case f.AvgComplexity <= highComplexityMax:
			dist.High++
		default:
			dist.VeryHigh++
		}
	}
	return dist
}
