package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	perrors "github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// readDocument reads a panel document from disk. Decoding happens in the
// pipeline so the raw bytes can feed the cache key.
func readDocument(path string) ([]byte, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := perrors.ValidateExtension(path, ".toml"); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeNotFound, err, "document %s", path)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return data, nil
}

// documentName returns the file name without directory or extension.
func documentName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// parsePoint parses "x,y" panel coordinates.
func parsePoint(s string) (geom.Coordinates, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Coordinates{}, perrors.New(perrors.ErrCodeInvalidInput, "pointer %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Coordinates{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "pointer %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Coordinates{}, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "pointer %q", s)
	}
	return geom.Coordinates{X: x, Y: y}, nil
}
