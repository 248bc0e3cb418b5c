package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"kmadmin/internal/config"
	"kmadmin/internal/grid"
	"kmadmin/internal/ui"
)

// sampleMillis is 2023-11-14 22:13:20 UTC, used for the date preview.
const sampleMillis = 1700000000000

var errSetupCancelled = errors.New("setup cancelled")

func newSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write operator, base path, date pattern and timezone to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			if !stdinIsTerminal() {
				return errors.New("setup needs an interactive terminal")
			}
			path := cfg.ConfigFile
			if path == "" {
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if _, err := runSetupWizard(path, cfg); err != nil {
				if errors.Is(err, errSetupCancelled) {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Setup cancelled, nothing written.")
					return nil
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings saved to %s\n", path)
			return nil
		},
	}
}

type setupField struct {
	label string
	hint  string
	input textinput.Model
	check func(string) error
}

type setupModel struct {
	fields    []setupField
	step      int
	err       string
	cancelled bool
	done      bool
	width     int
	height    int
}

func newSetupModel(cfg *config.Config) setupModel {
	newInput := func(value, placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 128
		in.Prompt = "> "
		in.SetValue(value)
		return in
	}

	fields := []setupField{
		{
			label: "Operator",
			hint:  "Recorded on file versions you edit.",
			input: newInput(cfg.Operator, "your name"),
		},
		{
			label: "Base path",
			hint:  "Prefix of cluster and file links, e.g. /kafka.",
			input: newInput(cfg.BasePath, config.DefaultBasePath),
			check: func(s string) error {
				if s != "" && !strings.HasPrefix(s, "/") {
					return fmt.Errorf("base path must start with /")
				}
				return nil
			},
		},
		{
			label: "Date pattern",
			hint:  "Moment tokens (YYYY-MM-DD HH:mm:ss) or strftime (%Y-%m-%d).",
			input: newInput(cfg.DatePattern, config.DefaultDatePattern),
		},
		{
			label: "Timezone",
			hint:  "IANA name such as Asia/Shanghai. Empty means local time.",
			input: newInput(cfg.Timezone, "Local"),
			check: func(s string) error {
				if s == "" {
					return nil
				}
				_, err := time.LoadLocation(s)
				return err
			},
		},
	}
	fields[0].input.Focus()
	return setupModel{fields: fields}
}

func (m setupModel) Init() tea.Cmd { return textinput.Blink }

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "shift+tab", "up":
			if m.step > 0 {
				m.fields[m.step].input.Blur()
				m.step--
				m.fields[m.step].input.Focus()
			}
			return m, nil
		case "enter", "tab", "down":
			f := m.fields[m.step]
			if f.check != nil {
				if err := f.check(strings.TrimSpace(f.input.Value())); err != nil {
					m.err = err.Error()
					return m, nil
				}
			}
			m.err = ""
			m.fields[m.step].input.Blur()
			if m.step == len(m.fields)-1 {
				m.done = true
				return m, tea.Quit
			}
			m.step++
			m.fields[m.step].input.Focus()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.fields[m.step].input, cmd = m.fields[m.step].input.Update(msg)
	return m, cmd
}

func (m setupModel) settings() config.Settings {
	v := func(i int) string { return strings.TrimSpace(m.fields[i].input.Value()) }
	return config.Settings{
		Operator:    v(0),
		BasePath:    v(1),
		DatePattern: v(2),
		Timezone:    v(3),
	}
}

func (m setupModel) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	left := "  " + ui.HeaderStyle.Render("kmadmin") + ui.BreadcrumbStyle.Render(" › Setup")
	right := ui.BreadcrumbStyle.Render(fmt.Sprintf("step %d/%d", m.step+1, len(m.fields))) + "  "
	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	header := ui.TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)

	f := m.fields[m.step]
	lines := []string{
		ui.LabelStyle.Render(f.label),
		ui.HelpDescStyle.Render(f.hint),
		"",
		ui.InputStyle.Render(f.input.View()),
	}
	if m.step == 2 || m.step == 3 {
		s := m.settings()
		loc := time.Local
		if l, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
			loc = l
		}
		preview := grid.FormatEpochMillis(sampleMillis, s.DatePattern, loc)
		lines = append(lines, "", ui.HelpDescStyle.Render("Preview: ")+preview)
	}
	if m.err != "" {
		lines = append(lines, "", ui.ErrorStyle.Render(m.err))
	}

	card := ui.PanelStyle.Width(min(92, max(40, width-6))).Render(strings.Join(lines, "\n"))
	content := lipgloss.Place(width, max(8, height-4), lipgloss.Center, lipgloss.Top, card)
	footer := ui.FooterStyle.Width(width).Render("enter next  shift+tab back  esc cancel")

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// runSetupWizard asks for the display settings and merges them into the
// config file at path.
func runSetupWizard(path string, cfg *config.Config) (config.Settings, error) {
	prog := tea.NewProgram(newSetupModel(cfg), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return config.Settings{}, fmt.Errorf("setup wizard failed: %w", err)
	}
	m, ok := finalModel.(setupModel)
	if !ok {
		return config.Settings{}, fmt.Errorf("unexpected setup model type")
	}
	if m.cancelled || !m.done {
		return config.Settings{}, errSetupCancelled
	}
	s := m.settings()
	if err := config.Save(path, s); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}
