package input

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// ErrUnavailable marks a configured input that could not be read. It is
// fatal for the whole run; partial-file skips happen only inside rule
// evaluation, never here.
var ErrUnavailable = errors.New("document unavailable")

// Extensions recognized when a pattern names a directory.
var logExtensions = map[string]bool{
	".md":  true,
	".txt": true,
	".log": true,
}

// Discover expands glob patterns (or directories) into documents. The
// same resolved path matched by several patterns is read exactly once.
func Discover(patterns []string) ([]compliance.Document, error) {
	var paths []string
	seen := make(map[string]struct{})

	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		paths = append(paths, clean)
	}

	for _, pat := range patterns {
		info, err := os.Stat(pat)
		if err == nil && info.IsDir() {
			if err := walkDir(pat, add); err != nil {
				return nil, err
			}
			continue
		}
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			// A literal path that doesn't exist is a hard failure; a
			// glob that matches nothing is not.
			if !strings.ContainsAny(pat, "*?[") {
				return nil, fmt.Errorf("%w: %s", ErrUnavailable, pat)
			}
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && fi.IsDir() {
				if err := walkDir(m, add); err != nil {
					return nil, err
				}
				continue
			}
			add(m)
		}
	}

	docs := make([]compliance.Document, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, p, err)
		}
		docs = append(docs, compliance.Document{Filename: p, Content: string(b)})
	}
	return docs, nil
}

func walkDir(root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
		}
		if d.IsDir() {
			return nil
		}
		if logExtensions[strings.ToLower(filepath.Ext(path))] {
			add(path)
		}
		return nil
	})
}
