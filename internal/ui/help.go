package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeConfirm:
		return renderConfirmHelp(width)
	}

	switch screen {
	case model.ScreenUsers, model.ScreenConfigs:
		return renderEditableTableHelp(width)
	case model.ScreenFiles:
		return renderFilesHelp(width)
	case model.ScreenClusters:
		return renderClustersHelp(width)
	case model.ScreenClusterDetail:
		return renderClusterDetailHelp(width)
	case model.ScreenFileDetail:
		return renderFileDetailHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderEditableTableHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("←/→", "screens"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("n/N", "filter"),
		helpKey("a", "add"),
		helpKey("e", "modify"),
		helpKey("d", "delete"),
		helpKey("u/ctrl+r", "undo/redo"),
	}
	return renderHelpLine(keys, width)
}

func renderFilesHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("←/→", "screens"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("enter", "open file"),
		helpKey("e", "modify"),
		helpKey("d", "delete"),
		helpKey("u/ctrl+r", "undo/redo"),
	}
	return renderHelpLine(keys, width)
}

func renderClustersHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("←/→", "screens"),
		helpKey("tab", "next col"),
		helpKey("s/S", "sort"),
		helpKey("c/C", "hide/show col"),
		helpKey("enter", "open link"),
		helpKey("r", "reload"),
		helpKey("/", "jump col"),
	}
	return renderHelpLine(keys, width)
}

func renderClusterDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "back"),
		helpKey("[/]", "tabs"),
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("c/C", "hide/show col"),
		helpKey("r", "reload"),
	}
	return renderHelpLine(keys, width)
}

func renderFileDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "back"),
		helpKey("e", "modify"),
		helpKey("d", "delete"),
	}
	return renderHelpLine(keys, width)
}

func renderConfirmHelp(width int) string {
	keys := []string{
		helpKey("y", "delete"),
		helpKey("n/esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation (Nav Mode)"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"← / →", "Previous / next screen"},
			{"h / b / esc", "Go back / parent"},
			{"l / enter", "Open / follow link"},
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"u / ctrl+r", "Undo / redo"},
			{"esc", "Cancel / close"},
			{"q", "Quit (from top-level)"},
			{"?", "Toggle help"},
		}),
		titleSection("Users / Configs"),
		helpSection([]helpItem{
			{"a", "Add a user or config entry"},
			{"e", "Modify the selected row"},
			{"d", "Delete the selected row (asks first)"},
		}),
		titleSection("Files"),
		helpSection([]helpItem{
			{"enter / l", "Open file version detail"},
			{"e / d", "Modify / delete the selected version"},
		}),
		titleSection("Clusters"),
		helpSection([]helpItem{
			{"enter / l", "Follow the link in the selected cell"},
			{"[ / ]", "Previous / next tab (cluster detail)"},
			{"r", "Reload"},
		}),
		titleSection("Delete Confirmation"),
		helpSection([]helpItem{
			{"y", "Delete"},
			{"n / esc", "Keep the record"},
		}),
		titleSection("Forms (Insert/Edit Mode)"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
