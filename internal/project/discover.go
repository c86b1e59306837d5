package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"localfn/internal/fixture"
)

// DiscoverFixtures expands entries (files or directories, relative to root
// unless absolute) into a sorted, de-duplicated list of fixture files.
func DiscoverFixtures(root string, entries []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, entry := range entries {
		path := entry
		if !filepath.IsAbs(path) && root != "" {
			path = filepath.Join(root, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("fixture path %q: %w", entry, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), fixture.Ext) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", entry, err)
		}
	}
	sort.Strings(out)
	return out, nil
}
