// ABOUTME: Deterministic tool dispatch from the query and conversation state
// ABOUTME: Document references outrank video URLs, which outrank topic search

package orchestrator

import (
	"strings"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/video"
)

// Dispatch is the routing decision for one generation request.
type Dispatch struct {
	Tool       models.ToolKind
	DocumentID string // set when Tool is ToolDocument
	VideoURL   string // set when Tool is ToolVideo
}

// classify picks the tool for a query. An inline document reference or an
// active conversation document routes to document search; otherwise a video
// URL routes to transcription; everything else is a web topic. The same query
// and state always dispatch the same way.
func classify(query, activeDocumentID string) Dispatch {
	if ref := extractDocRef(query); ref != "" {
		return Dispatch{Tool: models.ToolDocument, DocumentID: ref}
	}
	if activeDocumentID != "" {
		return Dispatch{Tool: models.ToolDocument, DocumentID: activeDocumentID}
	}
	if url := video.FindVideoURL(query); url != "" {
		return Dispatch{Tool: models.ToolVideo, VideoURL: url}
	}
	return Dispatch{Tool: models.ToolWeb}
}

// extractDocRef returns the first inline document id mentioned in the query.
func extractDocRef(query string) string {
	for _, field := range strings.Fields(query) {
		field = strings.Trim(field, ".,;:!?()[]\"'")
		if strings.HasPrefix(field, "doc_") && len(field) > len("doc_") {
			return field
		}
	}
	return ""
}
