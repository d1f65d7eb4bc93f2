package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pbaille/journal/internal/domain"
)

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if msg.Width > 8 {
			m.ContentInput.SetWidth(min(msg.Width-8, 100))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Screen == ScreenEditor {
			return m.handleEditorKeys(msg)
		}
		if m.Screen == ScreenList && m.FilterInput.Focused() {
			return m.handleFilterKeys(msg)
		}
		return m.handleKeyPress(msg.String())

	case entriesLoadedMsg:
		m.setEntries(msg.entries)
		return m, nil

	case entrySavedMsg:
		if msg.err != nil {
			m.ErrorMsg = msg.err.Error()
			return m, nil
		}
		m.setEntries(msg.entries)
		m.Selected = msg.entry
		m.selectID(msg.entry.ID)
		m.Screen = ScreenDetail
		m.PrevScreen = ScreenList
		m.DetailScroll = 0
		if msg.created {
			m.StatusMsg = fmt.Sprintf("Entry [%d - %s] created", msg.entry.ID, msg.entry.Title)
		} else {
			m.StatusMsg = fmt.Sprintf("Entry [%d - %s] saved", msg.entry.ID, msg.entry.Title)
		}
		return m, nil

	case entryDeletedMsg:
		m.Screen = ScreenList
		if msg.err != nil {
			m.ErrorMsg = msg.err.Error()
			return m, nil
		}
		m.setEntries(msg.entries)
		m.StatusMsg = fmt.Sprintf("Entry [%d - %s] deleted", msg.entry.ID, msg.entry.Title)
		return m, nil
	}

	return m, nil
}

// setEntries replaces the list and keeps the cursor in range.
func (m *Model) setEntries(entries []domain.Entry) {
	m.Entries = entries
	if m.Cursor >= len(entries) {
		m.Cursor = max(len(entries)-1, 0)
	}
	m.clampScroll()
}

func (m *Model) selectID(id int64) {
	for i, e := range m.Entries {
		if e.ID == id {
			m.Cursor = i
			m.clampScroll()
			return
		}
	}
}

func (m Model) listHeight() int {
	if m.Height <= 0 {
		return 20
	}
	return max(m.Height-10, 3)
}

func (m *Model) clampScroll() {
	h := m.listHeight()
	if m.Cursor < m.Scroll {
		m.Scroll = m.Cursor
	}
	if m.Cursor >= m.Scroll+h {
		m.Scroll = m.Cursor - h + 1
	}
}

func (m Model) current() (domain.Entry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Entries) {
		return domain.Entry{}, false
	}
	return m.Entries[m.Cursor], true
}

// ─── Key Press Router ────────────────────────────────────────────────────────

func (m Model) handleKeyPress(key string) (tea.Model, tea.Cmd) {
	m.ErrorMsg = ""

	switch m.Screen {
	case ScreenList:
		return m.handleListKeys(key)
	case ScreenDetail:
		return m.handleDetailKeys(key)
	case ScreenConfirmDelete:
		return m.handleConfirmKeys(key)
	}
	return m, nil
}

// ─── List ────────────────────────────────────────────────────────────────────

func (m Model) handleListKeys(key string) (tea.Model, tea.Cmd) {
	m.StatusMsg = ""

	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.clampScroll()
		}
	case "down", "j":
		if m.Cursor < len(m.Entries)-1 {
			m.Cursor++
			m.clampScroll()
		}
	case "g", "home":
		m.Cursor = 0
		m.clampScroll()
	case "G", "end":
		m.Cursor = max(len(m.Entries)-1, 0)
		m.clampScroll()
	case "enter", " ":
		if e, ok := m.current(); ok {
			m.Selected = e
			m.DetailScroll = 0
			m.PrevScreen = ScreenList
			m.Screen = ScreenDetail
		}
	case "n":
		return m.openEditor(domain.Entry{})
	case "e":
		if e, ok := m.current(); ok {
			return m.openEditor(e)
		}
	case "d", "x":
		if e, ok := m.current(); ok {
			m.Selected = e
			m.PrevScreen = ScreenList
			m.Screen = ScreenConfirmDelete
		}
	case "/":
		m.FilterInput.SetValue(m.Filter)
		return m, m.FilterInput.Focus()
	case "esc":
		if m.Filter != "" {
			m.Filter = ""
			m.Cursor = 0
			m.Scroll = 0
			return m, loadEntries(m.journal, "")
		}
	case "r":
		return m, loadEntries(m.journal, m.Filter)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.FilterInput.Blur()
		m.Filter = strings.TrimSpace(m.FilterInput.Value())
		m.Cursor = 0
		m.Scroll = 0
		return m, loadEntries(m.journal, m.Filter)
	case "esc":
		m.FilterInput.Blur()
		m.FilterInput.SetValue(m.Filter)
		return m, nil
	}

	var cmd tea.Cmd
	m.FilterInput, cmd = m.FilterInput.Update(msg)
	return m, cmd
}

// ─── Detail ──────────────────────────────────────────────────────────────────

func (m Model) handleDetailKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "backspace":
		m.Screen = ScreenList
		m.StatusMsg = ""
	case "up", "k":
		if m.DetailScroll > 0 {
			m.DetailScroll--
		}
	case "down", "j":
		m.DetailScroll++
	case "e":
		return m.openEditor(m.Selected)
	case "d", "x":
		m.PrevScreen = ScreenDetail
		m.Screen = ScreenConfirmDelete
	}
	return m, nil
}

// ─── Delete confirmation ─────────────────────────────────────────────────────

func (m Model) handleConfirmKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		return m, deleteEntry(m.ctx, m.journal, m.Filter, m.Selected.ID)
	case "n", "N", "esc", "q":
		m.Screen = m.PrevScreen
	}
	return m, nil
}

// ─── Editor ──────────────────────────────────────────────────────────────────

// openEditor fills the form from e; a zero e starts a new entry.
func (m Model) openEditor(e domain.Entry) (tea.Model, tea.Cmd) {
	m.PrevScreen = m.Screen
	m.Screen = ScreenEditor
	m.StatusMsg = ""
	m.EditingID = e.ID

	if e.ID == 0 {
		m.TitleInput.SetValue("")
		m.TitleInput.Placeholder = domain.DefaultTitle(m.now())
	} else {
		m.TitleInput.SetValue(e.Title)
	}
	m.TagsInput.SetValue(domain.JoinTags(e.Tags))
	m.ContentInput.SetValue(e.Content)

	return m, m.focus(fieldTitle)
}

func (m *Model) focus(field int) tea.Cmd {
	m.Focus = field
	m.TitleInput.Blur()
	m.TagsInput.Blur()
	m.ContentInput.Blur()

	switch field {
	case fieldTitle:
		return m.TitleInput.Focus()
	case fieldTags:
		return m.TagsInput.Focus()
	default:
		return m.ContentInput.Focus()
	}
}

func (m Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.ErrorMsg = ""

	switch msg.String() {
	case "esc":
		m.Screen = m.PrevScreen
		return m, nil
	case "ctrl+s":
		return m.save()
	case "tab":
		return m, m.focus((m.Focus + 1) % fieldCount)
	case "shift+tab":
		return m, m.focus((m.Focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.Focus != fieldContent {
			return m, m.focus(m.Focus + 1)
		}
	}

	var cmd tea.Cmd
	switch m.Focus {
	case fieldTitle:
		m.TitleInput, cmd = m.TitleInput.Update(msg)
	case fieldTags:
		m.TagsInput, cmd = m.TagsInput.Update(msg)
	default:
		m.ContentInput, cmd = m.ContentInput.Update(msg)
	}
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.TitleInput.Value())
	if title == "" {
		title = domain.DefaultTitle(m.now())
	}
	content := m.ContentInput.Value()
	tags := domain.ParseTags(m.TagsInput.Value())

	if m.EditingID == 0 {
		return m, createEntry(m.ctx, m.journal, m.Filter, title, content, tags)
	}
	return m, editEntry(m.ctx, m.journal, m.Filter, domain.Entry{
		ID:      m.EditingID,
		Title:   title,
		Content: content,
		Tags:    domain.TagsFromNames(tags),
	})
}
