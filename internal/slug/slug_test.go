package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"One Piece", "one-piece"},
		{"  Büyülü   Dünya  ", "buyulu-dunya"},
		{"Şeker & Çikolata", "seker-ve-cikolata"},
		{"Kılıç Ustası: İstanbul'da", "kilic-ustasi-istanbulda"},
		{"Café Au Lait!!", "cafe-au-lait"},
		{"already-a-slug", "already-a-slug"},
		{"under_score and-dash", "under-score-and-dash"},
		{"日本語タイトル 2024", "2024"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := Make(tc.title); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	titles := []string{
		"One Piece",
		"Şeker & Çikolata",
		"Güneşin Oğlu — Efsane",
		"A  B\tC\nD",
	}
	for _, title := range titles {
		once := Make(title)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: %q != %q", title, once, twice)
		}
	}
}

func TestMakeCharset(t *testing.T) {
	titles := []string{
		"Şeker & Çikolata!!",
		"--- weird --- input ---",
		"çğıöşü ÇĞİÖŞÜ",
	}
	for _, title := range titles {
		got := Make(title)
		if got == "" {
			continue
		}
		if got[0] == '-' || got[len(got)-1] == '-' {
			t.Errorf("Make(%q) = %q has leading or trailing hyphen", title, got)
		}
		prev := byte(0)
		for i := 0; i < len(got); i++ {
			c := got[i]
			ok := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
			if !ok {
				t.Errorf("Make(%q) = %q contains %q", title, got, c)
			}
			if c == '-' && prev == '-' {
				t.Errorf("Make(%q) = %q contains a double hyphen", title, got)
			}
			prev = c
		}
	}
}
