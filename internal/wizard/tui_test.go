package wizard

import (
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
)

func TestCaretOffsetCountsRunesNotBytes(t *testing.T) {
	cases := []struct {
		doc     string
		row     int
		runeCol int
		want    int
	}{
		{"güm", 0, 0, 0},
		{"güm", 0, 1, 1},
		{"güm", 0, 2, 3},  // ü is two bytes
		{"güm", 0, 3, 4},  // end of line
		{"güm", 0, 99, 4}, // clamped
		{"çağ\ngüm", 1, 0, 6},
		{"çağ\ngüm", 1, 1, 7},
		{"çağ\ngüm", 9, 0, 8}, // row past the end
	}
	for _, tc := range cases {
		if got := caretOffset(tc.doc, tc.row, tc.runeCol); got != tc.want {
			t.Errorf("caretOffset(%q, %d, %d) = %d, want %d", tc.doc, tc.row, tc.runeCol, got, tc.want)
		}
	}
}

func TestCaretOffsetInsertionAfterMultibyte(t *testing.T) {
	doc := "güm"
	caret := caretOffset(doc, 0, 3)
	out, _ := InsertAt(doc, caret, "X")
	if out != "gümX" {
		t.Errorf("insertion landed mid-rune: %q", out)
	}
}

func TestMoveCaretRuneColumn(t *testing.T) {
	ta := textarea.New()
	ta.SetWidth(80)
	doc := "çağ\ngüm"
	ta.SetValue(doc)

	// After ü on the second line: byte offset 6+2 = 8, rune column 2.
	moveCaret(&ta, doc, 8)
	if ta.Line() != 1 {
		t.Fatalf("row = %d, want 1", ta.Line())
	}
	if col := ta.LineInfo().StartColumn + ta.LineInfo().ColumnOffset; col != 2 {
		t.Errorf("rune column = %d, want 2", col)
	}
}
