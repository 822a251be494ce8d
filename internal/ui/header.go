package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar above the page.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("foldview", styles.Logo)}
	if m.deckName != "" {
		parts = append(parts, bg.Render(truncate(m.deckName, 24), styles.Text))
	}

	total := m.controller.PageCount()
	if total == 0 {
		parts = append(parts, bg.Render("no pages", styles.WarningText))
	} else {
		parts = append(parts, bg.Render(fmt.Sprintf("page %d/%d", m.controller.CurrentPage()+1, total), styles.AccentText))
	}

	mode := m.controller.Mode().String()
	parts = append(parts, styles.ModeStyle(mode).Render(strings.ToUpper(mode)))

	if n := len(m.controller.Units()); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d in flight", n), styles.InfoText))
	}

	peek := "off"
	if m.controller.AllowEdgePeek() {
		peek = "on"
	}
	parts = append(parts, bg.Render("peek "+peek, styles.MutedText))

	if m.snapshot.LastError != nil {
		errStyle := styles.WarningText
		if m.snapshot.IsStale() {
			errStyle = styles.DangerText
		}
		parts = append(parts, bg.Render("deck: "+truncate(m.snapshot.LastError.Error(), 40), errStyle))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(HeaderRows).
		Render(strings.Join(parts, sep))
}

// renderFooter renders the command bar below the page.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+2)
	for _, binding := range bindings {
		h := binding.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	if m.status != "" {
		segments = append(segments, bg.Render(m.status, styles.InfoText))
	}

	return styles.Footer.Width(m.width).MaxHeight(FooterRows).Render(strings.Join(segments, sep))
}

// truncate truncates a string to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
