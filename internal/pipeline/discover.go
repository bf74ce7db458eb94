package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmarin/vidpipe/pkg/models"
)

// Recognized video extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
}

// Discover walks inputDir recursively and collects files whose extension
// matches the allow-list case-insensitively. Paths come back sorted
// lexicographically for deterministic processing order. A missing input
// directory is an error.
func Discover(inputDir string) ([]models.MediaFile, error) {
	var files []models.MediaFile
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !videoExtensions[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, models.MediaFile{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
