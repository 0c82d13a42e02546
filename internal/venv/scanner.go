// ABOUTME: Workspace scanner that classifies directories as Ruyi virtual environments
// ABOUTME: Depth-2 walk, marker-file probe, per-candidate error recovery

package venv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// DefaultProbeLimit bounds how many marker probes run concurrently.
const DefaultProbeLimit = 8

// Scanner discovers virtual environments under a workspace root. Only the
// first two directory levels are considered; deeper nesting is deliberately
// not descended into, to bound scan cost on large trees.
type Scanner struct {
	// ProbeLimit caps concurrent marker-file probes. Zero means
	// DefaultProbeLimit.
	ProbeLimit int
}

// Scan lists depth-1 and depth-2 subdirectories of root and returns those
// that carry a readable activation marker with a display-name line.
//
// An unreadable root is an error (callers must be able to tell "no
// workspace" from "workspace has no venvs"). Everything below the root is
// best-effort: unsafe directory names are skipped with a warning, and any
// filesystem error local to one candidate just excludes that candidate.
// Result order follows directory-listing order; callers needing a
// deterministic order sort explicitly.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading workspace root %s: %w", root, err)
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if !IsSafeRelativeSegment(name) {
			log.Warn("scan: skipping unsafe directory name %q", name)
			continue
		}
		candidates = append(candidates, name)

		subEntries, err := os.ReadDir(filepath.Join(root, name))
		if err != nil {
			// Unreadable first-level dir excludes its subtree, not the scan.
			continue
		}
		for _, se := range subEntries {
			if !se.IsDir() {
				continue
			}
			if !IsSafeRelativeSegment(se.Name()) {
				log.Warn("scan: skipping unsafe directory name %q", se.Name())
				continue
			}
			candidates = append(candidates, filepath.Join(name, se.Name()))
		}
	}

	limit := s.ProbeLimit
	if limit <= 0 {
		limit = DefaultProbeLimit
	}

	// Probes fan out but results keep listing order via indexed writes.
	found := make([]*Info, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for idx, rel := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if info, ok := probe(root, rel); ok {
				found[idx] = &info
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	infos := make([]Info, 0, len(found))
	for _, info := range found {
		if info != nil {
			infos = append(infos, *info)
		}
	}
	return infos, nil
}

// probe reports whether rel is a venv under root. Filesystem errors count
// as "not a venv"; a marker file without the prompt key is excluded too
// (malformed environment, not a crash).
func probe(root, rel string) (Info, bool) {
	marker := filepath.Join(root, rel, "bin", MarkerFile)
	data, err := os.ReadFile(marker)
	if err != nil {
		return Info{}, false
	}
	name, ok := promptName(string(data))
	if !ok {
		return Info{}, false
	}
	return Info{Path: rel, Name: name}, true
}

// promptName extracts the display name from the marker file contents.
// The format is a versionless text contract: the first line containing
// RUYI_VENV_PROMPT= wins, and everything after the = up to end of line,
// trimmed of whitespace, is the name.
func promptName(content string) (string, bool) {
	key := PromptKey + "="
	for _, line := range strings.Split(content, "\n") {
		idx := strings.Index(line, key)
		if idx < 0 {
			continue
		}
		return strings.TrimSpace(line[idx+len(key):]), true
	}
	return "", false
}
