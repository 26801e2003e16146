// Package scan enumerates the input directory tree.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/th-dev-git/QSnich-img-processing/internal/imaging"
)

// artifacts are OS metadata files that show up in copied scan folders.
var artifacts = map[string]bool{
	".DS_Store": true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// List returns the entry names of dir in directory order, without OS
// artifacts and preprocessor output.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if artifacts[e.Name()] || IsProcessed(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Dirs returns the names of the sub-directories of dir.
func Dirs(dir string) ([]string, error) {
	return filter(dir, func(info os.FileInfo) bool { return info.IsDir() })
}

// Images returns the names of the image files in dir.
func Images(dir string) ([]string, error) {
	return filter(dir, func(info os.FileInfo) bool {
		return info.Mode().IsRegular() && IsImage(info.Name())
	})
}

func filter(dir string, keep func(os.FileInfo) bool) ([]string, error) {
	names, err := List(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, name := range names {
		// Stat follows symlinks so linked scan folders are walked too.
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(dir, name), err)
		}
		if keep(info) {
			out = append(out, name)
		}
	}
	return out, nil
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// IsProcessed reports whether name is preprocessor output. Such files are
// never returned by List, so reruns do not pick up their own output.
func IsProcessed(name string) bool {
	return strings.HasPrefix(name, imaging.ProcessedPrefix)
}
