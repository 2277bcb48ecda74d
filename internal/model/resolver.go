// Package model locates and loads the pre-trained sentiment classifier
// artifact exported by the offline training pipeline.
package model

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

const (
	// markerFile names the artifact's root directory inside the model tree.
	markerFile = "MLmodel"
	// weightsFile holds the serialized classifier next to the marker.
	weightsFile = "model.json"

	// VersionUnknown is the sentinel tag used when no artifact is available.
	VersionUnknown = "unknown"
)

// ErrNotFound indicates no artifact marker exists under the search root.
var ErrNotFound = errors.New("model: artifact not found")

// VersionFunc derives a version tag from the directory the artifact was
// found in. The tag is whatever identifier the training process encoded in
// the tree; it is opaque to this service.
type VersionFunc func(artifactDir string) string

// VersionFromAncestor tags the artifact with the name of the directory
// `depth` levels above the artifact directory. Depth zero tags with the
// artifact directory itself.
func VersionFromAncestor(depth int) VersionFunc {
	return func(artifactDir string) string {
		dir := artifactDir
		for i := 0; i < depth; i++ {
			dir = filepath.Dir(dir)
		}
		tag := filepath.Base(dir)
		if tag == "." || tag == string(filepath.Separator) {
			return ""
		}
		return tag
	}
}

// Resolve walks the tree under root depth-first in lexical order, looking
// for the artifact marker file. The first match wins. On success it loads
// the classifier and derives a version tag; on any failure it returns a nil
// classifier and the sentinel version so the process can start degraded.
func Resolve(root string, version VersionFunc) (*Classifier, string, error) {
	var artifactDir string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == markerFile {
			artifactDir = filepath.Dir(path)
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, VersionUnknown, fmt.Errorf("%w: walk %s: %v", ErrNotFound, root, err)
	}
	if artifactDir == "" {
		return nil, VersionUnknown, fmt.Errorf("%w: no %s under %s", ErrNotFound, markerFile, root)
	}

	classifier, err := Load(filepath.Join(artifactDir, weightsFile))
	if err != nil {
		return nil, VersionUnknown, fmt.Errorf("load artifact at %s: %w", artifactDir, err)
	}

	tag := version(artifactDir)
	if tag == "" {
		tag = VersionUnknown
	}
	return classifier, tag, nil
}
