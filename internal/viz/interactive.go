package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
)

var (
	cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var presetInfo = map[string]string{
	"binary":  "two bodies in a circular orbit",
	"head-on": "unequal bodies on a collision course",
	"triple":  "equilateral three-body orbit",
	"ring":    "eight moons around a heavy core",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type param struct {
	name string
	ptr  *float64
}

// picker chooses a preset and a few physical constants, then hands over to
// the live Model.
type picker struct {
	state, cursor int
	presets       []string
	base          *config.Config
	cfg           *config.Config
	params        []param
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	width, height int
	live          Model
}

func newPicker(base *config.Config) picker {
	return picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.configKey(msg)
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selectPreset(m.presets[m.cursor])
		m.state = stateConfig
	}
	return m, nil
}

func (m *picker) selectPreset(name string) {
	c := *m.base
	c.Bodies, _ = config.GetPreset(name)
	m.cfg = &c
	m.params = []param{
		{"gravity_constant", &m.cfg.GravityConstant},
		{"base_sphere_radius", &m.cfg.BaseSphereRadius},
		{"spawn.speed", &m.cfg.Spawn.Speed},
		{"spawn.radius", &m.cfg.Spawn.Radius},
	}
	m.paramCursor, m.err = 0, ""
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				*m.params[m.paramCursor].ptr = v
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(*m.params[m.paramCursor].ptr, 'g', -1, 64)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	s, err := experiment.Build(m.cfg)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.live = NewModel(s, m.cfg, m.presets[m.cursor])
	if m.width > 0 {
		next, _ := m.live.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.live = next.(Model)
	}
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateSim:
		return m.live.View()
	case stateConfig:
		return m.configView()
	default:
		return m.menuView()
	}
}

func (m picker) menuView() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("GRAVSIM") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-8s %s", name, dim.Render(presetInfo[name]))
		if i == m.cursor {
			b.WriteString(cyan.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + KeyHint.Render("↑↓ select  enter choose  q quit"))
	return b.String()
}

func (m picker) configView() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(strings.ToUpper(m.presets[m.cursor])) + "\n\n")
	for i, p := range m.params {
		value := strconv.FormatFloat(*p.ptr, 'g', 6, 64)
		if m.editing && i == m.paramCursor {
			value = m.editBuf + "_"
		}
		line := fmt.Sprintf("%-20s %s", p.name, value)
		if i == m.paramCursor {
			b.WriteString(ActiveOption.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if m.err != "" {
		b.WriteString("\n" + red.Render(m.err) + "\n")
	}
	b.WriteString("\n" + KeyHint.Render("enter edit  s start  esc back"))
	return b.String()
}

// RunInteractive shows the preset picker and then the live view.
func RunInteractive(base *config.Config) error {
	p := tea.NewProgram(newPicker(base), programOptions()...)
	_, err := p.Run()
	return err
}
