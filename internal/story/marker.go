package story

import "strings"

// MarkerAnchor is the text a run marker is attached to in a story file.
const MarkerAnchor = "export default"

// Marker is the position of the first MarkerAnchor in a story file.
type Marker struct {
	// Offset is the byte offset of the anchor.
	Offset int `json:"offset"`

	// Line and Column are 1-based; Column counts bytes.
	Line   int `json:"line"`
	Column int `json:"column"`
}

// FindMarker locates the first MarkerAnchor in content.
func FindMarker(content string) (Marker, bool) {
	offset := strings.Index(content, MarkerAnchor)
	if offset < 0 {
		return Marker{}, false
	}

	before := content[:offset]
	line := strings.Count(before, "\n") + 1
	column := offset - strings.LastIndex(before, "\n")
	return Marker{Offset: offset, Line: line, Column: column}, true
}
