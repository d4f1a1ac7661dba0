// Package rundir creates timestamped output directories for bake runs, with
// a "latest" symlink pointing at the newest one.
package rundir

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

const latestSymlink = "latest"

var (
	adjectives = []string{
		"amber", "bright", "calm", "crimson", "dusty", "faded", "frosty",
		"gilded", "hollow", "lucid", "misty", "pale", "quiet", "rusty",
		"shaded", "silent", "slate", "smoky", "sunlit", "twilight", "umbral",
		"violet", "wandering", "weathered",
	}

	nouns = []string{
		"arch", "beacon", "canyon", "cavern", "column", "corridor", "ember",
		"gable", "grate", "lantern", "ledge", "mesa", "pane", "parapet",
		"pillar", "quarry", "rampart", "shaft", "sill", "spire", "vault",
		"well",
	}
)

// Dir is one created run directory.
type Dir struct {
	Path      string
	ID        string
	Timestamp time.Time
}

// newID builds a memorable identifier like "faded-parapet-20240131-154500".
func newID(now time.Time) string {
	adj := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return adj + "-" + noun + "-" + now.Format("20060102-150405")
}

// Create makes base/<id>/ and repoints base/latest at it. A failed symlink
// is not fatal; some filesystems cannot hold one.
func Create(base string) (*Dir, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", base, err)
	}

	now := time.Now().UTC()
	id := newID(now)
	path, err := filepath.Abs(filepath.Join(base, id))
	if err != nil {
		return nil, fmt.Errorf("resolving run directory: %w", err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	latest := filepath.Join(base, latestSymlink)
	_ = os.Remove(latest)
	_ = os.Symlink(id, latest)

	return &Dir{Path: path, ID: id, Timestamp: now}, nil
}

// FilePath returns the path of a file inside the run directory.
func (d *Dir) FilePath(name string) string {
	return filepath.Join(d.Path, name)
}

// CopyFile copies an input file into the run directory, keeping its name, so
// a run records the configuration that produced it.
func (d *Dir) CopyFile(src string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(d.FilePath(filepath.Base(src)), content, 0644); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return nil
}
