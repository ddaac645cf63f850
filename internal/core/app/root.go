package app

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// rootIndicators are the byte patterns that mark a file as a plausible
// project root: a top-level class declaration or the document-body marker.
var rootIndicators = [][]byte{
	[]byte(`\documentclass`),
	[]byte(`\begin{document}`),
}

// determineRoot finds the project's entry file. For a directory it first
// checks the conventional file names, then scans recursively for files whose
// content matches a root indicator. Ambiguity is resolved deterministically by
// taking the first candidate in traversal order, with a warning; that is a
// policy, not a guess.
func (a *App) determineRoot(entry string) (string, error) {
	info, err := os.Stat(entry)
	if err != nil {
		return "", fmt.Errorf("entry path %s: %v", entry, err)
	}

	if !info.IsDir() {
		if !a.Config.RecognizedExtension(entry) {
			return "", fmt.Errorf("entry file %s has no recognized extension", entry)
		}
		return entry, nil
	}

	for _, name := range a.Config.RootCandidates {
		candidate := filepath.Join(entry, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, nil
		}
	}

	candidates, err := a.scanForRoots(entry)
	if err != nil {
		return "", fmt.Errorf("scan %s for root files: %v", entry, err)
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no root file found under %s", entry)
	case 1:
		return candidates[0], nil
	default:
		slog.Warn("multiple root candidates, using the first found", "root", candidates[0], "candidates", len(candidates))
		return candidates[0], nil
	}
}

func (a *App) scanForRoots(dir string) ([]string, error) {
	excludes := make([]glob.Glob, 0, len(a.Config.Exclude.Dirs))
	for _, pattern := range a.Config.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		excludes = append(excludes, g)
	}

	var candidates []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			base := filepath.Base(path)
			for _, g := range excludes {
				if path != dir && g.Match(base) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !a.Config.RecognizedExtension(path) {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable root candidate", "path", path, "error", err)
			return nil
		}
		if hasRootIndicator(content) {
			candidates = append(candidates, path)
		}
		return nil
	})
	return candidates, err
}

func hasRootIndicator(content []byte) bool {
	for _, marker := range rootIndicators {
		if bytes.Contains(content, marker) {
			return true
		}
	}
	return false
}
