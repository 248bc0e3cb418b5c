package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/grid"
	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

// FileDetailModel shows every field of one uploaded file version.
type FileDetailModel struct {
	file model.UploadedFile
	opts grid.Options
}

func NewFileDetailModel(file model.UploadedFile, opts grid.Options) *FileDetailModel {
	return &FileDetailModel{file: file, opts: opts}
}

// File returns the shown file version.
func (m *FileDetailModel) File() model.UploadedFile {
	return m.file
}

func (m *FileDetailModel) View(width, height int) string {
	f := m.file
	shortcuts := HelpDescStyle.Render("e edit  d delete  h back")

	modified := grid.FormatEpochMillis(f.GmtModify, m.opts.DatePattern, m.opts.Location)
	if f.GmtModify > 0 {
		modified += "  " + HelpDescStyle.Render("("+util.FormatRelative(f.GmtModify)+")")
	}

	fields := []string{
		renderField("ID", f.RecordID()),
		renderField("File Name", f.FileName),
		renderField("MD5", f.FileMD5),
		LabelStyle.Render("Modified:") + " " + modified,
		renderField("Operator", f.Operator),
	}

	sections := []string{strings.Join(fields, "\n")}
	sections = append(sections, lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("─", max(0, width-8))))
	if f.Description != "" {
		sections = append(sections, LabelStyle.Render("Description:"), NormalRowStyle.Render(f.Description))
	} else {
		sections = append(sections, HelpDescStyle.Render("No description for this version"))
	}

	content := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}
