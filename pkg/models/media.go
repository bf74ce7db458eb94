package models

import (
	"path/filepath"
	"strings"
)

// MediaFile represents a discovered input video on disk.
type MediaFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Stem returns the filename without its extension. Outputs derived from
// this file (transcoded video, thumbnail) share the stem.
func (f MediaFile) Stem() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Duration is a container-reported duration in seconds. Known is false
// when the probe failed or produced unparseable output.
type Duration struct {
	Seconds float64 `json:"seconds"`
	Known   bool    `json:"known"`
}

// UnknownDuration is the zero-value probe result.
var UnknownDuration = Duration{}

// SeekPoint returns the thumbnail seek position: half the duration, or 0
// when the duration is unknown or non-positive.
func (d Duration) SeekPoint() float64 {
	if !d.Known || d.Seconds <= 0 {
		return 0
	}
	return d.Seconds / 2.0
}
