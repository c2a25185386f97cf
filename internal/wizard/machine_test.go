package wizard

import (
	"fmt"
	"testing"
)

func TestGatingStepsRequireAcknowledgment(t *testing.T) {
	m := NewMachine(13)

	if m.Step() != StepRules {
		t.Fatalf("expected StepRules, got %v", m.Step())
	}

	// Next without acknowledgment must not move.
	m.Next()
	if m.Step() != StepRules {
		t.Fatalf("advanced without acknowledgment to %v", m.Step())
	}

	for _, want := range []Step{StepReadingOrder, StepExample, StepFinalNotes} {
		m.Acknowledge()
		m.Next()
		if m.Step() != want {
			t.Fatalf("expected %v, got %v", want, m.Step())
		}
	}

	m.Acknowledge()
	m.Next()
	if m.Step() != StepMangaTest || m.Page() != 1 {
		t.Fatalf("expected test page 1, got %v page %d", m.Step(), m.Page())
	}
}

func TestAcknowledgeToggles(t *testing.T) {
	m := NewMachine(3)
	m.Acknowledge()
	if !m.Acknowledged() {
		t.Fatal("expected acknowledged")
	}
	m.Acknowledge()
	if m.Acknowledged() {
		t.Fatal("expected unacknowledged after toggle")
	}
	m.Next()
	if m.Step() != StepRules {
		t.Fatalf("advanced with unchecked acknowledgment to %v", m.Step())
	}
}

func advanceToTest(t *testing.T, m *Machine) {
	t.Helper()
	for m.Step() != StepMangaTest {
		m.Acknowledge()
		m.Next()
	}
}

func TestThirteenPagesProduceThirteenEntriesInOrder(t *testing.T) {
	m := NewMachine(13)
	advanceToTest(t, m)

	// Type on some pages, leave others blank, advancing with Next 12 times.
	for i := 1; i <= 13; i++ {
		if i%2 == 1 {
			m.SetDraft(i, fmt.Sprintf("çeviri %d", i))
		}
		if i < 13 {
			m.Next()
			if m.Step() != StepMangaTest || m.Page() != i+1 {
				t.Fatalf("after Next on page %d: step %v page %d", i, m.Step(), m.Page())
			}
		}
	}

	// Next on the last page moves to the contact form.
	m.Next()
	if m.Step() != StepUserInfo {
		t.Fatalf("expected StepUserInfo, got %v", m.Step())
	}

	m.Name = "Ayşe Yılmaz"
	m.Email = "ayse@example.com"
	m.Nickname = "aysemanga"

	app := m.Application()
	if len(app.MangaTest) != 13 {
		t.Fatalf("expected 13 page entries, got %d", len(app.MangaTest))
	}
	for i, entry := range app.MangaTest {
		page := i + 1
		want := ""
		if page%2 == 1 {
			want = fmt.Sprintf("çeviri %d", page)
		}
		if entry != want {
			t.Errorf("page %d: got %q, want %q", page, entry, want)
		}
	}
}

func TestTestPagesMoveFreely(t *testing.T) {
	m := NewMachine(5)
	advanceToTest(t, m)

	m.Next()
	m.Next()
	if m.Page() != 3 {
		t.Fatalf("expected page 3, got %d", m.Page())
	}
	m.Prev()
	if m.Page() != 2 {
		t.Fatalf("expected page 2, got %d", m.Page())
	}
	m.Prev()
	m.Prev() // already at page 1, stays
	if m.Page() != 1 {
		t.Fatalf("expected page 1, got %d", m.Page())
	}
}

func TestPrevFromContactReturnsToLastPage(t *testing.T) {
	m := NewMachine(4)
	advanceToTest(t, m)
	for i := 0; i < 4; i++ {
		m.Next()
	}
	if m.Step() != StepUserInfo {
		t.Fatalf("expected StepUserInfo, got %v", m.Step())
	}
	m.Prev()
	if m.Step() != StepMangaTest || m.Page() != 4 {
		t.Fatalf("expected test page 4, got %v page %d", m.Step(), m.Page())
	}
}

func TestContactValidation(t *testing.T) {
	m := NewMachine(2)
	if m.ContactValid() {
		t.Fatal("empty contact fields must not validate")
	}
	m.Name = "Ali"
	m.Email = "  "
	m.Nickname = "aliceviri"
	if m.ContactValid() {
		t.Fatal("whitespace email must not validate")
	}
	m.Email = "ali@example.com"
	if !m.ContactValid() {
		t.Fatal("filled contact fields must validate")
	}
}

func TestFinishOnlyFromUserInfo(t *testing.T) {
	m := NewMachine(2)
	m.Finish()
	if m.Step() != StepRules {
		t.Fatalf("Finish moved from rules to %v", m.Step())
	}
	advanceToTest(t, m)
	m.Next()
	m.Next()
	m.Finish()
	if m.Step() != StepResult {
		t.Fatalf("expected StepResult, got %v", m.Step())
	}
}
