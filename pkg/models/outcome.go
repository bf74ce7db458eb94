package models

// OutcomeStatus describes how processing one file ended.
type OutcomeStatus string

const (
	// StatusEncoded means both the video and its thumbnail were produced.
	StatusEncoded OutcomeStatus = "encoded"
	// StatusEncodedNoThumbnail means the video was produced but the
	// thumbnail step failed; the video output is retained.
	StatusEncodedNoThumbnail OutcomeStatus = "encoded_no_thumbnail"
	// StatusFailed means the encode itself failed; no outputs for this file.
	StatusFailed OutcomeStatus = "failed"
)

// Outcome is the per-file result of one pipeline iteration.
type Outcome struct {
	Input         MediaFile     `json:"input"`
	OutputPath    string        `json:"output_path,omitempty"`
	ThumbnailPath string        `json:"thumbnail_path,omitempty"`
	OutputSize    int64         `json:"output_size,omitempty"`
	Status        OutcomeStatus `json:"status"`
	Err           error         `json:"-"`
}

// Succeeded reports whether the video output exists, with or without a
// thumbnail.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusEncoded || o.Status == StatusEncodedNoThumbnail
}

// Reduction returns the size reduction percentage relative to the input.
// ok is false when the input size is zero (reduction undefined) or the
// encode failed.
func (o Outcome) Reduction() (float64, bool) {
	if !o.Succeeded() || o.Input.Size <= 0 {
		return 0, false
	}
	return (1 - float64(o.OutputSize)/float64(o.Input.Size)) * 100, true
}
