// Package tui implements the Bubble Tea terminal UI for the journal.
//
// One Model holds all state; Update switches on the message type and hands
// key presses to a handler per screen.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pbaille/journal/internal/domain"
)

// Journal is the subset of journal operations the UI needs.
type Journal interface {
	ListEntries() []domain.Entry
	Search(query string) []domain.Entry
	CreateEntry(ctx context.Context, title, content string, tags []string) (domain.Entry, error)
	EditEntry(ctx context.Context, e domain.Entry) (domain.Entry, error)
	DeleteEntry(ctx context.Context, id int64) (domain.Entry, error)
}

// ─── Screens ─────────────────────────────────────────────────────────────────

type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
	ScreenEditor
	ScreenConfirmDelete
)

// editor fields, in tab order
const (
	fieldTitle = iota
	fieldTags
	fieldContent
	fieldCount
)

// ─── Custom Messages ─────────────────────────────────────────────────────────

type entriesLoadedMsg struct {
	entries []domain.Entry
}

type entrySavedMsg struct {
	entry   domain.Entry
	created bool
	entries []domain.Entry
	err     error
}

type entryDeletedMsg struct {
	entry   domain.Entry
	entries []domain.Entry
	err     error
}

// ─── Model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx     context.Context
	journal Journal
	now     func() time.Time

	Screen     Screen
	PrevScreen Screen
	Width      int
	Height     int
	Cursor     int
	Scroll     int

	ErrorMsg  string
	StatusMsg string

	Entries []domain.Entry

	// Filter
	FilterInput textinput.Model
	Filter      string

	// Detail
	Selected     domain.Entry
	DetailScroll int

	// Editor; EditingID is 0 for a new entry
	EditingID    int64
	Focus        int
	TitleInput   textinput.Model
	TagsInput    textinput.Model
	ContentInput textarea.Model
}

// New creates a TUI model over j.
func New(ctx context.Context, j Journal) Model {
	fi := textinput.New()
	fi.Placeholder = "Filter entries..."
	fi.Prompt = "/ "
	fi.CharLimit = 256

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Width = 60

	tg := textinput.New()
	tg.Placeholder = "tag-one, tag-two"
	tg.CharLimit = 512
	tg.Width = 60

	ta := textarea.New()
	ta.Placeholder = "Write your entry..."
	ta.SetWidth(72)
	ta.SetHeight(12)
	ta.CharLimit = 0

	return Model{
		ctx:          ctx,
		journal:      j,
		now:          time.Now,
		Screen:       ScreenList,
		FilterInput:  fi,
		TitleInput:   ti,
		TagsInput:    tg,
		ContentInput: ta,
	}
}

// Init loads the entry list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadEntries(m.journal, ""),
		tea.EnterAltScreen,
	)
}

// ─── Commands ────────────────────────────────────────────────────────────────

func listFor(j Journal, filter string) []domain.Entry {
	if filter == "" {
		return j.ListEntries()
	}
	return j.Search(filter)
}

func loadEntries(j Journal, filter string) tea.Cmd {
	return func() tea.Msg {
		return entriesLoadedMsg{entries: listFor(j, filter)}
	}
}

func createEntry(ctx context.Context, j Journal, filter, title, content string, tags []string) tea.Cmd {
	return func() tea.Msg {
		e, err := j.CreateEntry(ctx, title, content, tags)
		return entrySavedMsg{entry: e, created: true, entries: listFor(j, filter), err: err}
	}
}

func editEntry(ctx context.Context, j Journal, filter string, e domain.Entry) tea.Cmd {
	return func() tea.Msg {
		saved, err := j.EditEntry(ctx, e)
		return entrySavedMsg{entry: saved, entries: listFor(j, filter), err: err}
	}
}

func deleteEntry(ctx context.Context, j Journal, filter string, id int64) tea.Cmd {
	return func() tea.Msg {
		old, err := j.DeleteEntry(ctx, id)
		return entryDeletedMsg{entry: old, entries: listFor(j, filter), err: err}
	}
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, j Journal) error {
	_, err := tea.NewProgram(New(ctx, j), tea.WithContext(ctx)).Run()
	return err
}
