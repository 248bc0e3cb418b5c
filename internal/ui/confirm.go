package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmRequest is one pending yes/no question from a delete Cmd.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

// confirmRequestMsg switches the console into confirm mode.
type confirmRequestMsg struct {
	req confirmRequest
}

// promptConfirmer implements action.Confirmer by posting the question into
// the Update loop and blocking until it is answered. A done context counts
// as declined.
type promptConfirmer struct {
	requests chan confirmRequest
}

func newPromptConfirmer() *promptConfirmer {
	return &promptConfirmer{requests: make(chan confirmRequest)}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, nil
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, nil
	}
}

// waitForConfirmCmd delivers the next confirm request to Update.
func (c *promptConfirmer) waitForConfirmCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-c.requests:
			return confirmRequestMsg{req: req}
		case <-ctx.Done():
			return nil
		}
	}
}

func (r confirmRequest) answer(ok bool) {
	r.reply <- ok
}

func renderConfirmBanner(prompt, subject string, width int) string {
	text := prompt
	if subject != "" {
		text += "  " + LabelStyle.Render(subject)
	}
	keys := HelpKeyStyle.Render("y") + " " + HelpDescStyle.Render("delete") + "  " +
		HelpKeyStyle.Render("n/esc") + " " + HelpDescStyle.Render("cancel")
	return lipgloss.NewStyle().
		Foreground(ColorYellow).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorRed).
		Padding(0, 1).
		Width(max(10, width-2)).
		Render(text + "\n" + keys)
}
