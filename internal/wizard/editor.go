package wizard

import (
	"fmt"
	"regexp"
)

// markerRe matches page markers anywhere in a draft. Numbers are kept to
// two digits by the formatter but older drafts may carry three.
var markerRe = regexp.MustCompile(`SAYFA (\d{1,3})`)

// InsertAt splices text into doc at caret and returns the new document
// with the caret sitting right after the inserted text. A caret outside
// the document is clamped.
func InsertAt(doc string, caret int, text string) (string, int) {
	if caret < 0 {
		caret = 0
	}
	if caret > len(doc) {
		caret = len(doc)
	}
	return doc[:caret] + text + doc[caret:], caret + len(text)
}

// InsertPageMarker inserts a "SAYFA NN" marker at the caret. The new
// marker's number continues the sequence of markers before the caret,
// and every marker after the caret is renumbered so the sequence stays
// monotonically increasing through the whole document.
func InsertPageMarker(doc string, caret int) (string, int) {
	if caret < 0 {
		caret = 0
	}
	if caret > len(doc) {
		caret = len(doc)
	}

	matches := markerRe.FindAllStringIndex(doc, -1)
	before := 0
	for _, m := range matches {
		if m[0] < caret {
			before++
			// a caret inside a marker would split its text; snap to the end
			if caret < m[1] {
				caret = m[1]
			}
		}
	}

	marker := fmt.Sprintf("SAYFA %02d", before+1)

	head := doc[:caret]
	tail := doc[caret:]

	// Renumber the markers after the caret to continue past the new one.
	next := before + 2
	tail = markerRe.ReplaceAllStringFunc(tail, func(string) string {
		s := fmt.Sprintf("SAYFA %02d", next)
		next++
		return s
	})

	return head + marker + tail, caret + len(marker)
}

// InsertCaptionMarker inserts the caption symbol at the caret.
func InsertCaptionMarker(doc string, caret int) (string, int) {
	return InsertAt(doc, caret, "*")
}

// InsertSfxMarker inserts an empty sound-effect bracket pair and places
// the caret between the brackets.
func InsertSfxMarker(doc string, caret int) (string, int) {
	out, after := InsertAt(doc, caret, "[]")
	return out, after - 1
}
