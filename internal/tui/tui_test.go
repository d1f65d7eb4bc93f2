package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/logging"
	"github.com/pbaille/journal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T) (Model, *journal.Journal, *store.Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "journal.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	j, err := journal.New(ctx, s, logging.Discard())
	require.NoError(t, err)

	m := New(ctx, j)
	m.now = func() time.Time { return fixedNow }
	return m, j, s
}

func seed(t *testing.T, j *journal.Journal, title string, tags ...string) domain.Entry {
	t.Helper()
	e, err := j.CreateEntry(context.Background(), title, "content of "+title, tags)
	require.NoError(t, err)
	return e
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys one by one and returns the model with the last command.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

// run executes a data command and feeds its message back.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func loaded(t *testing.T, m Model) Model {
	return run(t, m, loadEntries(m.journal, ""))
}

func TestList_Navigation(t *testing.T) {
	m, j, _ := newTestModel(t)
	seed(t, j, "one")
	seed(t, j, "two")
	seed(t, j, "three")
	m = loaded(t, m)
	require.Len(t, m.Entries, 3)
	assert.Equal(t, "three", m.Entries[0].Title)

	m, _ = press(m, "k")
	assert.Equal(t, 0, m.Cursor)
	m, _ = press(m, "j", "j", "j")
	assert.Equal(t, 2, m.Cursor)
	m, _ = press(m, "k")
	assert.Equal(t, 1, m.Cursor)
	m, _ = press(m, "g")
	assert.Equal(t, 0, m.Cursor)
	m, _ = press(m, "G")
	assert.Equal(t, 2, m.Cursor)

	m, _ = press(m, "enter")
	assert.Equal(t, ScreenDetail, m.Screen)
	assert.Equal(t, "one", m.Selected.Title)
	m, _ = press(m, "esc")
	assert.Equal(t, ScreenList, m.Screen)
}

func TestCreateEntry(t *testing.T) {
	m, j, _ := newTestModel(t)
	m = loaded(t, m)

	m, _ = press(m, "n")
	require.Equal(t, ScreenEditor, m.Screen)
	assert.Equal(t, "01-03-2024 Entry", m.TitleInput.Placeholder)

	m, _ = press(m, "Trip", "tab", "travel, food", "tab", "Lisbon")
	assert.Equal(t, "Trip", m.TitleInput.Value())
	assert.Equal(t, "travel, food", m.TagsInput.Value())
	assert.Equal(t, "Lisbon", m.ContentInput.Value())

	m, cmd := press(m, "ctrl+s")
	m = run(t, m, cmd)

	assert.Equal(t, ScreenDetail, m.Screen)
	assert.Equal(t, "Trip", m.Selected.Title)
	assert.Equal(t, []string{"travel", "food"}, m.Selected.TagNames())
	assert.Contains(t, m.StatusMsg, "created")
	require.Len(t, m.Entries, 1)

	entries := j.ListEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Lisbon", entries[0].Content)
}

func TestCreateEntry_DefaultTitle(t *testing.T) {
	m, j, _ := newTestModel(t)

	m, _ = press(m, "n")
	m, cmd := press(m, "ctrl+s")
	run(t, m, cmd)

	entries := j.ListEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "01-03-2024 Entry", entries[0].Title)
	assert.Empty(t, entries[0].Tags)
}

func TestEditor_EscCancels(t *testing.T) {
	m, j, _ := newTestModel(t)

	m, _ = press(m, "n", "draft", "esc")
	assert.Equal(t, ScreenList, m.Screen)
	assert.Empty(t, j.ListEntries())
}

func TestEditEntry_ReplacesTags(t *testing.T) {
	m, j, _ := newTestModel(t)
	seed(t, j, "meal", "Turkey", "Cheese")
	m = loaded(t, m)

	m, _ = press(m, "e")
	require.Equal(t, ScreenEditor, m.Screen)
	assert.Equal(t, "meal", m.TitleInput.Value())
	assert.Equal(t, "Turkey,Cheese", m.TagsInput.Value())
	assert.Equal(t, "content of meal", m.ContentInput.Value())

	m.TagsInput.SetValue("chicken, salad")
	m, cmd := press(m, "ctrl+s")
	m = run(t, m, cmd)

	assert.Equal(t, []string{"chicken", "salad"}, m.Selected.TagNames())
	assert.Contains(t, m.StatusMsg, "saved")

	tags, err := j.Tags(context.Background())
	require.NoError(t, err)
	names := make([]string, len(tags))
	for i, tc := range tags {
		names[i] = tc.Name
	}
	assert.ElementsMatch(t, []string{"chicken", "salad"}, names)
}

func TestEditEntry_EmptyTagsClear(t *testing.T) {
	m, j, _ := newTestModel(t)
	e := seed(t, j, "meal", "Turkey")
	m = loaded(t, m)

	m, _ = press(m, "enter", "e")
	m.TagsInput.SetValue("")
	m, cmd := press(m, "ctrl+s")
	run(t, m, cmd)

	got, ok := j.GetEntryByID(e.ID)
	require.True(t, ok)
	assert.Empty(t, got.Tags)
}

func TestDeleteEntry_Confirmation(t *testing.T) {
	m, j, _ := newTestModel(t)
	e := seed(t, j, "gone")
	m = loaded(t, m)

	m, _ = press(m, "d")
	require.Equal(t, ScreenConfirmDelete, m.Screen)
	m, _ = press(m, "n")
	assert.Equal(t, ScreenList, m.Screen)
	assert.Len(t, j.ListEntries(), 1)

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m = run(t, m, cmd)

	assert.Equal(t, ScreenList, m.Screen)
	assert.Empty(t, m.Entries)
	assert.Empty(t, j.ListEntries())
	assert.Equal(t, "Entry [1 - gone] deleted", m.StatusMsg)
	assert.Equal(t, int64(1), e.ID)
}

func TestFilter(t *testing.T) {
	m, j, _ := newTestModel(t)
	seed(t, j, "Morning run", "sport")
	seed(t, j, "Groceries")
	m = loaded(t, m)

	m, _ = press(m, "/")
	require.True(t, m.FilterInput.Focused())

	// keys go to the input while it is focused
	m, _ = press(m, "run", "q")
	assert.Equal(t, "runq", m.FilterInput.Value())
	m.FilterInput.SetValue("run")

	m, cmd := press(m, "enter")
	m = run(t, m, cmd)
	assert.Equal(t, "run", m.Filter)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "Morning run", m.Entries[0].Title)

	m, cmd = press(m, "esc")
	m = run(t, m, cmd)
	assert.Empty(t, m.Filter)
	assert.Len(t, m.Entries, 2)
}

func TestSaveError_StaysInEditor(t *testing.T) {
	m, _, s := newTestModel(t)
	require.NoError(t, s.Close())

	m, _ = press(m, "n", "x")
	m, cmd := press(m, "ctrl+s")
	m = run(t, m, cmd)

	assert.Equal(t, ScreenEditor, m.Screen)
	assert.NotEmpty(t, m.ErrorMsg)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := press(m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	m, j, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No entries yet")

	seed(t, j, "Visible title", "tagged")
	m = loaded(t, m)
	out := m.View()
	assert.Contains(t, out, "Visible title")
	assert.Contains(t, out, "#tagged")

	m, _ = press(m, "enter")
	assert.Contains(t, m.View(), "content of Visible title")

	m, _ = press(m, "d")
	assert.Contains(t, m.View(), "Delete entry [1 - Visible title]?")
}
