package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mangapanel/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ackOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ackOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type keyMap struct {
	next    key.Binding
	prev    key.Binding
	ack     key.Binding
	marker  key.Binding
	caption key.Binding
	sfx     key.Binding
	submit  key.Binding
	field   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "ileri"),
		),
		prev: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "geri"),
		),
		ack: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "onayla"),
		),
		marker: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "sayfa işareti"),
		),
		caption: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "anlatım işareti"),
		),
		sfx: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "efekt işareti"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "gönder"),
		),
		field: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "sonraki alan"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "çık"),
		),
	}
}

type submitResultMsg struct {
	err error
}

// Model is the terminal shell around the wizard state machine.
type Model struct {
	machine   *Machine
	content   Content
	submitter *Submitter

	editor   textarea.Model
	contact  []textinput.Model // name, email, nickname
	field    int
	bar      progress.Model
	keys     keyMap
	width    int
	pending  bool
	errMsg   string
}

func NewModel(content Content, submitter *Submitter) Model {
	ta := textarea.New()
	ta.Placeholder = "Çevirinizi buraya yazın..."
	ta.CharLimit = 0
	ta.SetHeight(12)

	labels := []string{"Ad Soyad", "E-posta", "Takma Ad"}
	contact := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		ti.CharLimit = 120
		contact[i] = ti
	}
	contact[0].Focus()

	return Model{
		machine:   NewMachine(len(content.Pages)),
		content:   content,
		submitter: submitter,
		editor:    ta,
		contact:   contact,
		bar:       progress.New(progress.WithDefaultGradient()),
		keys:      newKeyMap(),
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.editor.SetWidth(min(msg.Width-6, 100))
		m.bar.Width = min(msg.Width-10, 60)
		return m, nil

	case submitResultMsg:
		m.pending = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.machine.Finish()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending {
		// submission in flight; re-submission stays disabled
		return m, nil
	}

	switch m.machine.Step() {
	case StepRules, StepReadingOrder, StepExample, StepFinalNotes:
		switch {
		case key.Matches(msg, m.keys.ack):
			m.machine.Acknowledge()
		case key.Matches(msg, m.keys.next):
			m.machine.Next()
			if m.machine.Step() == StepMangaTest {
				m.loadPage()
			}
		}
		return m, nil

	case StepMangaTest:
		return m.handleTestKey(msg)

	case StepUserInfo:
		return m.handleContactKey(msg)

	case StepResult:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleTestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.next):
		m.savePage()
		m.machine.Next()
		if m.machine.Step() == StepMangaTest {
			m.loadPage()
		} else {
			m.contact[0].Focus()
			m.field = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.prev):
		m.savePage()
		m.machine.Prev()
		m.loadPage()
		return m, nil

	case key.Matches(msg, m.keys.marker):
		m.applyEdit(InsertPageMarker)
		return m, nil

	case key.Matches(msg, m.keys.caption):
		m.applyEdit(InsertCaptionMarker)
		return m, nil

	case key.Matches(msg, m.keys.sfx):
		m.applyEdit(InsertSfxMarker)
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.savePage()
	return m, cmd
}

// applyEdit runs a cursor-aware insertion against the editor content and
// restores the caret right after the inserted text.
func (m *Model) applyEdit(insert func(string, int) (string, int)) {
	doc := m.editor.Value()
	// StartColumn anchors the soft-wrapped row within the logical line,
	// so the sum is the rune column regardless of wrapping.
	li := m.editor.LineInfo()
	caret := caretOffset(doc, m.editor.Line(), li.StartColumn+li.ColumnOffset)
	out, after := insert(doc, caret)
	m.editor.SetValue(out)
	moveCaret(&m.editor, out, after)
	m.savePage()
}

// caretOffset converts the textarea's logical (row, rune column) cursor
// to a byte offset into doc. The textarea counts in runes; the editor
// operations index bytes.
func caretOffset(doc string, row, runeCol int) int {
	lines := strings.Split(doc, "\n")
	if row >= len(lines) {
		return len(doc)
	}
	off := 0
	for i := 0; i < row; i++ {
		off += len(lines[i]) + 1
	}
	line := []rune(lines[row])
	if runeCol > len(line) {
		runeCol = len(line)
	}
	return off + len(string(line[:runeCol]))
}

// moveCaret walks the textarea cursor to the byte offset target.
// SetValue leaves the cursor at the end of the content, so the walk can
// go either direction. SetCursor takes a rune column.
func moveCaret(ta *textarea.Model, doc string, target int) {
	if target > len(doc) {
		target = len(doc)
	}
	row := strings.Count(doc[:target], "\n")
	lineStart := strings.LastIndex(doc[:target], "\n") + 1

	for ta.Line() > row {
		ta.CursorUp()
	}
	for ta.Line() < row {
		ta.CursorDown()
	}
	ta.SetCursor(utf8.RuneCountInString(doc[lineStart:target]))
}

func (m *Model) loadPage() {
	m.editor.SetValue(m.machine.Draft(m.machine.Page()))
	m.editor.Focus()
}

func (m *Model) savePage() {
	if m.machine.Step() == StepMangaTest {
		m.machine.SetDraft(m.machine.Page(), m.editor.Value())
	}
}

func (m Model) handleContactKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.prev):
		m.syncContact()
		m.machine.Prev()
		m.loadPage()
		return m, nil

	case key.Matches(msg, m.keys.field):
		m.contact[m.field].Blur()
		m.field = (m.field + 1) % len(m.contact)
		m.contact[m.field].Focus()
		return m, nil

	case key.Matches(msg, m.keys.submit):
		m.syncContact()
		if !m.machine.ContactValid() {
			m.errMsg = "ad, e-posta ve takma ad alanları zorunludur"
			return m, nil
		}
		m.errMsg = ""
		m.pending = true
		app := m.machine.Application()
		return m, submitCmd(m.submitter, app)
	}

	var cmd tea.Cmd
	m.contact[m.field], cmd = m.contact[m.field].Update(msg)
	m.syncContact()
	return m, cmd
}

func (m *Model) syncContact() {
	m.machine.Name = m.contact[0].Value()
	m.machine.Email = m.contact[1].Value()
	m.machine.Nickname = m.contact[2].Value()
}

func submitCmd(s *Submitter, app models.Application) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return submitResultMsg{err: s.Submit(ctx, app)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Çevirmen Başvurusu"))
	b.WriteString("  ")
	b.WriteString(stepStyle.Render(m.machine.Step().String()))
	b.WriteString("\n\n")

	switch m.machine.Step() {
	case StepRules:
		m.renderGate(&b, m.content.Rules)
	case StepReadingOrder:
		m.renderGate(&b, m.content.ReadingOrder)
	case StepExample:
		m.renderGate(&b, m.content.Example)
	case StepFinalNotes:
		m.renderGate(&b, m.content.FinalNotes)
	case StepMangaTest:
		m.renderTest(&b)
	case StepUserInfo:
		m.renderContact(&b)
	case StepResult:
		b.WriteString(okStyle.Render("Başvurunuz alındı. Teşekkürler!"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("çıkmak için bir tuşa basın"))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderGate(b *strings.Builder, text string) {
	b.WriteString(boxStyle.Render(text))
	b.WriteString("\n\n")

	check := ackOffStyle.Render("[ ] okudum, onaylıyorum")
	if m.machine.Acknowledged() {
		check = ackOnStyle.Render("[x] okudum, onaylıyorum")
	}
	b.WriteString(check)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+a onayla • ctrl+n ileri • ctrl+c çık"))
}

func (m Model) renderTest(b *strings.Builder) {
	page := m.machine.Page()
	total := m.machine.Pages()

	fmt.Fprintf(b, "Sayfa %d / %d\n", page, total)
	b.WriteString(m.bar.ViewAs(float64(page) / float64(total)))
	b.WriteString("\n")

	if img := m.content.Pages[page-1].Image; img != "" {
		b.WriteString(stepStyle.Render("Görsel: " + img))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(
		"ctrl+s sayfa işareti • ctrl+y anlatım • ctrl+e efekt • ctrl+p geri • ctrl+n ileri"))
}

func (m Model) renderContact(b *strings.Builder) {
	b.WriteString("Başvurunuzu tamamlamak için iletişim bilgilerinizi girin.\n\n")
	for i := range m.contact {
		b.WriteString(m.contact[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.pending {
		b.WriteString(stepStyle.Render("gönderiliyor..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab alan değiştir • enter gönder • ctrl+p geri"))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
