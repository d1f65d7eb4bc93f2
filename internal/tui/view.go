package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pbaille/journal/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

// ─── View ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var body, help string

	switch m.Screen {
	case ScreenList:
		body = m.viewList()
		help = "j/k move • enter open • n new • e edit • d delete • / filter • q quit"
		if m.FilterInput.Focused() {
			help = "enter apply • esc cancel"
		}
	case ScreenDetail:
		body = m.viewDetail()
		help = "j/k scroll • e edit • d delete • esc back"
	case ScreenEditor:
		body = m.viewEditor()
		help = "tab next field • ctrl+s save • esc cancel"
	case ScreenConfirmDelete:
		body = m.viewConfirm()
		help = "y delete • n cancel"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Journal"))
	b.WriteString("\n")
	b.WriteString(body)
	if m.ErrorMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.ErrorMsg))
	}
	if m.StatusMsg != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.StatusMsg))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(help))

	return appStyle.Render(b.String())
}

// ─── List ────────────────────────────────────────────────────────────────────

func (m Model) viewList() string {
	var b strings.Builder

	if m.FilterInput.Focused() {
		b.WriteString(m.FilterInput.View())
		b.WriteString("\n\n")
	} else if m.Filter != "" {
		b.WriteString(idStyle.Render(fmt.Sprintf("filter: %q (esc to clear)", m.Filter)))
		b.WriteString("\n\n")
	}

	if len(m.Entries) == 0 {
		if m.Filter != "" {
			b.WriteString(emptyStyle.Render("No entries match."))
		} else {
			b.WriteString(emptyStyle.Render("No entries yet. Press n to write one."))
		}
		return b.String()
	}

	end := min(m.Scroll+m.listHeight(), len(m.Entries))
	for i := m.Scroll; i < end; i++ {
		b.WriteString(m.renderItem(m.Entries[i], i == m.Cursor))
		b.WriteString("\n")
	}
	if len(m.Entries) > m.listHeight() {
		b.WriteString(idStyle.Render(fmt.Sprintf("%d-%d of %d", m.Scroll+1, end, len(m.Entries))))
	}
	return b.String()
}

func (m Model) renderItem(e domain.Entry, selected bool) string {
	line := fmt.Sprintf("%s %s", idStyle.Render(fmt.Sprintf("%d -", e.ID)), e.Title)
	if len(e.Tags) > 0 {
		line += "  " + tagStyle.Render(renderTags(e.Tags))
	}
	if selected {
		return selectedItemStyle.Render(line)
	}
	return itemStyle.Render(line)
}

func renderTags(tags []domain.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t.Name
	}
	return strings.Join(parts, " ")
}

// ─── Detail ──────────────────────────────────────────────────────────────────

func (m Model) viewDetail() string {
	e := m.Selected

	var b strings.Builder
	b.WriteString(titleStyle.Render(e.Title))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Id") + fmt.Sprintf("%d", e.ID) + "\n")
	b.WriteString(labelStyle.Render("Tags") + tagStyle.Render(domain.JoinTags(e.Tags)) + "\n")
	b.WriteString(labelStyle.Render("Created") + e.CreatedAt.Local().Format(timeLayout) + "\n")
	b.WriteString(labelStyle.Render("Updated") + e.UpdatedAt.Local().Format(timeLayout))

	lines := strings.Split(e.Content, "\n")
	start := min(m.DetailScroll, max(len(lines)-1, 0))
	content := strings.Join(lines[start:], "\n")

	style := contentStyle
	if m.Width > 8 {
		style = style.Width(m.Width - 8)
	}
	b.WriteString("\n")
	b.WriteString(style.Render(content))
	return b.String()
}

// ─── Editor ──────────────────────────────────────────────────────────────────

func (m Model) viewEditor() string {
	heading := "New entry"
	if m.EditingID != 0 {
		heading = fmt.Sprintf("Edit entry %d", m.EditingID)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Title"), m.TitleInput.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Tags"), m.TagsInput.View()))
	b.WriteString("\n\n")
	b.WriteString(m.ContentInput.View())
	return b.String()
}

// ─── Delete confirmation ─────────────────────────────────────────────────────

func (m Model) viewConfirm() string {
	return confirmStyle.Render(fmt.Sprintf("Delete entry [%d - %s]?", m.Selected.ID, m.Selected.Title))
}
