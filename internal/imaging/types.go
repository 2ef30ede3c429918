package imaging

import "strings"

// Caption is an optional user-supplied request accompanying an image.
// Presence is tracked explicitly rather than inferred from an empty string.
type Caption struct {
	Text  string
	Valid bool
}

// NewCaption wraps a caption string. An all-whitespace caption counts as
// absent.
func NewCaption(text string) Caption {
	if strings.TrimSpace(text) == "" {
		return Caption{}
	}
	return Caption{Text: text, Valid: true}
}

// ProcessedImage is the result of one ingestion request. It is immutable
// after construction and owns no resources: the staged file it references
// belongs to the managed directory and is released by an explicit
// Cleanup call, not by discarding this value.
type ProcessedImage struct {
	// Prompt is the full instruction text handed to the agent. It always
	// contains StagedPath verbatim.
	Prompt string `json:"prompt"`
	// ImageType is the semantic classification used for the template.
	ImageType Category `json:"image_type"`
	// Format is the sniffed wire format of the payload.
	Format Format `json:"format"`
	// Size is the exact byte length of the input buffer.
	Size int `json:"size"`
	// EncodedContent is a base64 copy of the raw bytes, kept for alternate
	// delivery paths that cannot read the staged file.
	EncodedContent string `json:"encoded_content,omitempty"`
	// StagedPath is where the bytes were written inside the managed root.
	StagedPath string `json:"staged_path,omitempty"`
	// Metadata carries at least "format" and "has_caption".
	Metadata map[string]any `json:"metadata,omitempty"`
}
