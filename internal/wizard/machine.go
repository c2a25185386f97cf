// Package wizard drives a translator candidate through the application
// flow: rules, reading order, a worked example, final notes, the
// per-page translation test, contact info, and the submission result.
// The state machine is pure so the terminal UI stays a thin shell.
package wizard

import (
	"strings"

	"mangapanel/pkg/models"
)

type Step int

const (
	StepRules Step = iota
	StepReadingOrder
	StepExample
	StepFinalNotes
	StepMangaTest
	StepUserInfo
	StepResult
)

func (s Step) String() string {
	switch s {
	case StepRules:
		return "Kurallar"
	case StepReadingOrder:
		return "Okuma Sırası"
	case StepExample:
		return "Örnek Çeviri"
	case StepFinalNotes:
		return "Son Notlar"
	case StepMangaTest:
		return "Çeviri Testi"
	case StepUserInfo:
		return "İletişim Bilgileri"
	case StepResult:
		return "Sonuç"
	}
	return "?"
}

// gatingSteps each require an explicit acknowledgment before Next is
// allowed. The test pages move freely.
var gatingSteps = map[Step]bool{
	StepRules:        true,
	StepReadingOrder: true,
	StepExample:      true,
	StepFinalNotes:   true,
}

// Machine holds all wizard state in memory. Nothing is persisted;
// abandoning the session loses the drafts.
type Machine struct {
	step Step
	page int // 1-based, valid while step == StepMangaTest

	acks   map[Step]bool
	drafts []string

	Name     string
	Email    string
	Nickname string
}

// NewMachine builds a machine with pages test pages, starting at the
// rules step.
func NewMachine(pages int) *Machine {
	if pages < 1 {
		pages = 1
	}
	return &Machine{
		step:   StepRules,
		page:   1,
		acks:   make(map[Step]bool),
		drafts: make([]string, pages),
	}
}

func (m *Machine) Step() Step { return m.step }

// Page returns the current 1-based test page.
func (m *Machine) Page() int { return m.page }

// Pages returns the total number of test pages.
func (m *Machine) Pages() int { return len(m.drafts) }

// Acknowledged reports whether the current gating step has been accepted.
func (m *Machine) Acknowledged() bool { return m.acks[m.step] }

// Acknowledge toggles the acknowledgment checkbox of the current step.
func (m *Machine) Acknowledge() {
	if gatingSteps[m.step] {
		m.acks[m.step] = !m.acks[m.step]
	}
}

// Draft returns the translation draft of page (1-based).
func (m *Machine) Draft(page int) string {
	if page < 1 || page > len(m.drafts) {
		return ""
	}
	return m.drafts[page-1]
}

// SetDraft stores the translation draft of page (1-based).
func (m *Machine) SetDraft(page int, text string) {
	if page < 1 || page > len(m.drafts) {
		return
	}
	m.drafts[page-1] = text
}

// CanAdvance reports whether Next is currently enabled.
func (m *Machine) CanAdvance() bool {
	switch {
	case gatingSteps[m.step]:
		return m.acks[m.step]
	case m.step == StepMangaTest:
		return true
	case m.step == StepUserInfo:
		// UserInfo advances through Submit, not Next.
		return false
	default:
		return false
	}
}

// Next moves forward: through the gating steps once acknowledged,
// through the test pages, and from the last page to the contact form.
func (m *Machine) Next() {
	if !m.CanAdvance() {
		return
	}
	switch m.step {
	case StepRules, StepReadingOrder, StepExample:
		m.step++
	case StepFinalNotes:
		m.step = StepMangaTest
		m.page = 1
	case StepMangaTest:
		if m.page < len(m.drafts) {
			m.page++
		} else {
			m.step = StepUserInfo
		}
	}
}

// Prev moves backward within the test pages, and from the contact form
// back to the last test page. The gating steps have no back edge.
func (m *Machine) Prev() {
	switch m.step {
	case StepMangaTest:
		if m.page > 1 {
			m.page--
		}
	case StepUserInfo:
		m.step = StepMangaTest
		m.page = len(m.drafts)
	}
}

// ContactValid reports whether all required contact fields are filled.
// Submission is blocked until it returns true.
func (m *Machine) ContactValid() bool {
	return strings.TrimSpace(m.Name) != "" &&
		strings.TrimSpace(m.Email) != "" &&
		strings.TrimSpace(m.Nickname) != ""
}

// Application snapshots the wizard state as the submission payload, one
// entry per test page in page order.
func (m *Machine) Application() models.Application {
	pages := make([]string, len(m.drafts))
	copy(pages, m.drafts)
	return models.Application{
		Name:      strings.TrimSpace(m.Name),
		Email:     strings.TrimSpace(m.Email),
		Nickname:  strings.TrimSpace(m.Nickname),
		MangaTest: pages,
	}
}

// Finish moves to the result step after a successful submission. On
// failure the caller leaves the machine in UserInfo and shows the error.
func (m *Machine) Finish() {
	if m.step == StepUserInfo {
		m.step = StepResult
	}
}
