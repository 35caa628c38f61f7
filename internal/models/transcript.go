// ABOUTME: TranscriptResult is normalized video content ready for budgeting
// ABOUTME: Never constructed when the duration ceiling or availability checks fail
package models

// TranscriptResult is the transcript of a referenced video.
type TranscriptResult struct {
	SourceURL       string `json:"source_url"`
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	Transcript      string `json:"transcript"`
}
