package wizard

import (
	"strings"
	"testing"
)

func TestInsertAt(t *testing.T) {
	doc, caret := InsertAt("merhaba dünya", 7, " güzel")
	if doc != "merhaba güzel dünya" {
		t.Errorf("got %q", doc)
	}
	if caret != 7+len(" güzel") {
		t.Errorf("caret = %d", caret)
	}
}

func TestInsertAtClampsCaret(t *testing.T) {
	doc, caret := InsertAt("abc", 99, "X")
	if doc != "abcX" || caret != 4 {
		t.Errorf("got %q caret %d", doc, caret)
	}
	doc, caret = InsertAt("abc", -5, "X")
	if doc != "Xabc" || caret != 1 {
		t.Errorf("got %q caret %d", doc, caret)
	}
}

func TestInsertPageMarkerEmptyDocument(t *testing.T) {
	doc, caret := InsertPageMarker("", 0)
	if doc != "SAYFA 01" {
		t.Errorf("got %q", doc)
	}
	if caret != len("SAYFA 01") {
		t.Errorf("caret = %d", caret)
	}
}

func TestInsertPageMarkerAppendsNextNumber(t *testing.T) {
	base := "SAYFA 01\nilk sayfa\n"
	doc, _ := InsertPageMarker(base, len(base))
	if doc != base+"SAYFA 02" {
		t.Errorf("got %q", doc)
	}
}

func TestInsertPageMarkerBetweenRenumbersFollowing(t *testing.T) {
	head := "SAYFA 01\nbirinci\n"
	tail := "SAYFA 02\nikinci\n"
	caret := len(head)

	doc, after := InsertPageMarker(head+tail, caret)

	want := "SAYFA 01\nbirinci\nSAYFA 02SAYFA 03\nikinci\n"
	if doc != want {
		t.Errorf("got %q, want %q", doc, want)
	}
	if after != caret+len("SAYFA 02") {
		t.Errorf("caret = %d, want %d", after, caret+len("SAYFA 02"))
	}
	if strings.Count(doc, "SAYFA 02") != 1 {
		t.Errorf("duplicate SAYFA 02 in %q", doc)
	}
}

func TestInsertPageMarkerRenumbersLongTail(t *testing.T) {
	doc := "SAYFA 01\na\nSAYFA 02\nb\nSAYFA 03\nc\n"
	caret := strings.Index(doc, "SAYFA 02")

	out, _ := InsertPageMarker(doc, caret)

	for _, marker := range []string{"SAYFA 01", "SAYFA 02", "SAYFA 03", "SAYFA 04"} {
		if strings.Count(out, marker) != 1 {
			t.Errorf("marker %q appears %d times in %q", marker, strings.Count(out, marker), out)
		}
	}
	// The sequence must stay increasing through the document.
	order := []string{"SAYFA 01", "SAYFA 02", "SAYFA 03", "SAYFA 04"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx <= last {
			t.Fatalf("marker %q out of order in %q", marker, out)
		}
		last = idx
	}
}

func TestInsertPageMarkerCaretInsideMarkerSnapsToEnd(t *testing.T) {
	doc := "SAYFA 01\nmetin\nSAYFA 02\nson\n"
	caret := 3 // inside "SAYFA 01"

	out, after := InsertPageMarker(doc, caret)

	if !strings.HasPrefix(out, "SAYFA 01SAYFA 02\n") {
		t.Errorf("marker split or misplaced: %q", out)
	}
	if strings.Count(out, "SAYFA") != 3 {
		t.Errorf("orphaned marker fragment in %q", out)
	}
	for _, marker := range []string{"SAYFA 01", "SAYFA 02", "SAYFA 03"} {
		if strings.Count(out, marker) != 1 {
			t.Errorf("marker %q appears %d times in %q", marker, strings.Count(out, marker), out)
		}
	}
	if after != len("SAYFA 01")+len("SAYFA 02") {
		t.Errorf("caret = %d, want right after the new marker", after)
	}
}

func TestInsertCaptionMarker(t *testing.T) {
	doc, caret := InsertCaptionMarker("anlatım", 0)
	if doc != "*anlatım" || caret != 1 {
		t.Errorf("got %q caret %d", doc, caret)
	}
}

func TestInsertSfxMarkerCaretInsideBrackets(t *testing.T) {
	doc, caret := InsertSfxMarker("güm", 0)
	if doc != "[]güm" {
		t.Errorf("got %q", doc)
	}
	if caret != 1 {
		t.Errorf("caret = %d, want inside the brackets", caret)
	}
}
