package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// defaultDenyDirs are system and cache directories never worth scanning.
var defaultDenyDirs = map[string]bool{
	"$Recycle.Bin":              true,
	"System Volume Information": true,
	"Windows.old":               true,
	".git":                      true,
	"node_modules":              true,
	"__pycache__":               true,
}

// junkExts are artifacts pre-filtered before queuing.
var junkExts = map[string]bool{
	".tmp": true, ".log": true, ".cache": true, ".bak": true, ".old": true,
}

var junkNames = map[string]bool{
	"thumbs.db":   true,
	"desktop.ini": true,
}

// enumerate walks roots and returns the file paths eligible for
// classification. Deny-listed and hidden directories are pruned, junk
// and oversized files are pre-filtered, and permission errors skip the
// subtree without failing the walk. The stop flag is honored between
// entries.
func (c *Coordinator) enumerate(ctx context.Context, session *Session, roots []string) ([]string, error) {
	var paths []string

	deny := make(map[string]bool, len(defaultDenyDirs)+len(c.denyDirs))
	for d := range defaultDenyDirs {
		deny[d] = true
	}
	for _, d := range c.denyDirs {
		deny[d] = true
	}

	for _, root := range roots {
		if session.Stopping() || ctx.Err() != nil {
			break
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// An unreadable root fails the scan; errors below it
				// only skip the affected entry.
				if d == nil {
					return fmt.Errorf("scanning %s: %w", root, err)
				}
				if os.IsPermission(err) {
					c.log.Warn("permission denied, skipping subtree", "path", path)
					if d.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				c.log.Warn("enumeration error, skipping entry", "path", path, "err", err)
				return nil
			}
			if session.Stopping() || ctx.Err() != nil {
				return filepath.SkipAll
			}
			name := d.Name()
			if d.IsDir() {
				if path != root && (deny[name] || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if skipName(name) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				c.log.Warn("stat failed, skipping", "path", path, "err", err)
				return nil
			}
			if info.Size() > c.sizeCap {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func skipName(name string) bool {
	lower := strings.ToLower(name)
	if junkNames[lower] || strings.HasPrefix(lower, "~") {
		return true
	}
	return junkExts[filepath.Ext(lower)]
}
