// Package catalog reads the shared artifact catalog: fetching a size-bounded
// snapshot of its manifest, extracting previously issued identifiers, and
// computing the next sequence number.
//
// The catalog is the only shared ground truth between agents, and it is
// read-only from this package's perspective. Every failure degrades to
// "treat the catalog as empty": agents must keep making progress under
// partial observability, so a false-empty read is preferred over blocking.
package catalog

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ManifestName is the single document fetched from the catalog repository.
const ManifestName = "README.md"

// Snapshotter fetches the raw manifest text for a catalog location.
// Implementations return "" on any failure, signaling a fresh/empty catalog.
type Snapshotter interface {
	Fetch(catalogURL string) string
}

// GitSnapshot retrieves the manifest with a shallow, no-checkout clone plus
// a cone sparse-checkout of the single manifest file, bounding transfer cost
// to one document. The scratch clone is removed unconditionally.
type GitSnapshot struct{}

var _ Snapshotter = GitSnapshot{}

// Fetch returns the manifest text, or "" if any step of the retrieval fails.
func (GitSnapshot) Fetch(catalogURL string) string {
	scratch, err := os.MkdirTemp("", "appforge-catalog-")
	if err != nil {
		logrus.Warnf("catalog: create scratch dir: %v", err)
		return ""
	}
	defer os.RemoveAll(scratch)

	steps := [][]string{
		{"git", "clone", "--no-checkout", "--depth", "1", catalogURL, scratch},
		{"git", "-C", scratch, "sparse-checkout", "init", "--cone"},
		{"git", "-C", scratch, "sparse-checkout", "set", ManifestName},
		{"git", "-C", scratch, "checkout"},
	}
	for _, step := range steps {
		cmd := exec.Command(step[0], step[1:]...)
		if out, err := cmd.CombinedOutput(); err != nil {
			logrus.WithField("url", catalogURL).
				Warnf("catalog: %s failed: %v (%s)", step[1], err, firstLine(out))
			return ""
		}
	}

	data, err := os.ReadFile(filepath.Join(scratch, ManifestName))
	if err != nil {
		logrus.Warnf("catalog: manifest missing, treating catalog as empty: %v", err)
		return ""
	}
	return string(data)
}

func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}
