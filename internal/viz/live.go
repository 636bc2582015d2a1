package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 44
	historyCapacity = 600

	// maxFrameDt caps the wall time fed to the clock after a stall.
	maxFrameDt = 0.25
	frameRate  = 60

	keyMoveTime = 0.1
	keyTurn     = 0.05
)

// Camera start used by the live views.
var (
	DefaultCameraPosition = mgl64.Vec3{-2.5, 4.5, 9}
	DefaultCameraTarget   = mgl64.Vec3{0, 0, 0}
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the interactive terminal view of a running simulator. It owns the
// simulator; input becomes queued commands or clock changes, and every tick
// message advances one tick and redraws from the snapshot.
type Model struct {
	sim    *sim.Simulator
	cfg    *config.Config
	name   string
	camera *Camera
	spawn  *control.SpawnOptions

	width, height int
	canvas        *Canvas
	lastTick      time.Time
	frame         sim.Frame
	merges        int
	energyHistory []float64
	status        string
	showHelp      bool

	recording bool
	frames    []*image.Paletted
	gifPath   string
}

// NewModel wraps s for interactive use. cfg supplies the input tuning.
func NewModel(s *sim.Simulator, cfg *config.Config, name string) Model {
	m := Model{
		sim:           s,
		cfg:           cfg,
		name:          name,
		camera:        NewCamera(DefaultCameraPosition, DefaultCameraTarget),
		spawn:         control.NewSpawnOptions(cfg.Spawn, cfg.SpeedModifierFactor),
		width:         defaultWidth,
		height:        defaultHeight,
		energyHistory: make([]float64, 0, historyCapacity),
		showHelp:      true,
		gifPath:       "gravsim.gif",
	}
	m.canvas = NewCanvas(m.canvasSize())
	m.frame = sim.Frame{Bodies: s.Store().Live()}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(m.canvasSize())
	case tea.BlurMsg:
		m.sim.Clock().Pause()
		m.status = "paused: focus lost"
	case tea.FocusMsg:
		// resuming stays explicit
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	factor := m.cfg.SpeedModifierFactor
	clock := m.sim.Clock()

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		return *m, tea.Quit
	case "p", " ":
		clock.Toggle()
		m.status = ""
	case "=", "+", "alt+=":
		clock.Adjust(control.RateDelta(1, m.cfg.RateSensitivity, control.Modifier(msg.String() == "+", msg.Alt, factor)))
	case "-", "_", "alt+-":
		clock.Adjust(control.RateDelta(-1, m.cfg.RateSensitivity, control.Modifier(msg.String() == "_", msg.Alt, factor)))
	case "r":
		m.sim.Enqueue(sim.Reset{})
		m.energyHistory = m.energyHistory[:0]
		m.merges = 0
		m.status = "reset"
	case "1":
		m.spawn.Select(control.ModeSpeed)
	case "2":
		m.spawn.Select(control.ModeSize)
	case "]", "}", "alt+]":
		m.spawn.Scroll(1, control.Modifier(msg.String() == "}", msg.Alt, factor))
	case "[", "{", "alt+[":
		m.spawn.Scroll(-1, control.Modifier(msg.String() == "{", msg.Alt, factor))
	case "f", "enter":
		m.fire()
	case "w":
		m.camera.Move(m.cfg.Camera.Speed*keyMoveTime, 0, 0)
	case "s":
		m.camera.Move(-m.cfg.Camera.Speed*keyMoveTime, 0, 0)
	case "a":
		m.camera.Move(0, -m.cfg.Camera.Speed*keyMoveTime, 0)
	case "d":
		m.camera.Move(0, m.cfg.Camera.Speed*keyMoveTime, 0)
	case "e":
		m.camera.Move(0, 0, m.cfg.Camera.Speed*keyMoveTime)
	case "c":
		m.camera.Move(0, 0, -m.cfg.Camera.Speed*keyMoveTime)
	case "left":
		m.camera.Rotate(keyTurn, 0)
	case "right":
		m.camera.Rotate(-keyTurn, 0)
	case "up":
		m.camera.Rotate(0, keyTurn)
	case "down":
		m.camera.Rotate(0, -keyTurn)
	case "o":
		m.camera = NewCamera(DefaultCameraPosition, DefaultCameraTarget)
	case "h", "?":
		m.showHelp = !m.showHelp
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
			m.status = "recording"
		}
	}
	return *m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	mod := control.Modifier(msg.Shift, msg.Alt, m.cfg.SpeedModifierFactor)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.spawn.Scroll(1, mod)
	case tea.MouseButtonWheelDown:
		m.spawn.Scroll(-1, mod)
	case tea.MouseButtonLeft:
		m.fire()
	}
}

func (m *Model) fire() {
	cmd, ok := m.spawn.Fire(m.camera.Position, m.camera.Forward(), m.cfg.BaseSphereRadius)
	if !ok {
		return
	}
	m.sim.Enqueue(cmd)
	m.status = fmt.Sprintf("spawned mass %.3f", cmd.Mass)
}

// step advances the simulation by the wall time since the previous tick.
func (m *Model) step(now time.Time) {
	realDt := 1.0 / frameRate
	if !m.lastTick.IsZero() {
		realDt = now.Sub(m.lastTick).Seconds()
	}
	if realDt > maxFrameDt {
		realDt = maxFrameDt
	}
	m.lastTick = now

	m.frame = m.sim.Tick(realDt)
	m.merges += len(m.frame.Merges)
	if len(m.frame.Errors) > 0 {
		m.status = m.frame.Errors[len(m.frame.Errors)-1].Error()
	}

	if m.frame.Dt > 0 {
		m.energyHistory = append(m.energyHistory, physics.Energy(m.frame.Bodies, m.sim.G()))
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}

	m.draw()
	if m.recording {
		m.captureFrame()
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	RenderAxes(m.canvas, m.camera, 1)
	Render(m.canvas, m.camera, m.sim.Snapshot())
}

func (m Model) canvasSize() (int, int) {
	w := m.width - statsWidth - 4
	h := m.height - 1
	return maxInt(w, 10), maxInt(h, 5)
}

// View renders the TUI interface.
func (m Model) View() string {
	clock := m.sim.Clock()
	lo, hi := clock.Bounds()

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if clock.IsPaused() {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Rate", fmt.Sprintf("%.2fx ", clock.Rate())+RateBar(clock.Rate(), lo, hi, 12))
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Bodies", fmt.Sprintf("%d", len(m.frame.Bodies)))
	row("Mass", fmt.Sprintf("%.3f", physics.TotalMass(m.frame.Bodies)))
	row("Momentum", fmt.Sprintf("%.3g", physics.Momentum(m.frame.Bodies).Len()))
	row("Merges", fmt.Sprintf("%d", m.merges))

	s.WriteString("\n" + Separator(statsWidth-4) + "\n")
	s.WriteString(m.spawnLine(control.ModeSize, "Size", fmt.Sprintf("r=%.2f m=%.3f", m.spawn.Radius, m.spawn.Mass(m.cfg.BaseSphereRadius))))
	s.WriteString(m.spawnLine(control.ModeSpeed, "Speed", fmt.Sprintf("%.2f", m.spawn.Speed)))

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(statsWidth-14), asciigraph.Caption("Energy"))
		s.WriteString("\n" + GraphStyle.Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + KeyHint.Render(m.status) + "\n")
	}
	if m.showHelp {
		s.WriteString("\n" + HelpPanel.Render(helpText))
	} else {
		s.WriteString("\n" + KeyHint.Render("H: help  Q: quit"))
	}

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m Model) spawnLine(mode control.SpawnMode, label, value string) string {
	line := fmt.Sprintf("%-6s %s", label, value)
	if m.spawn.Mode == mode {
		return ActiveOption.Render("> "+line) + "\n"
	}
	return "  " + MetricLabel.UnsetWidth().Render(line) + "\n"
}

const helpText = `P/Space  pause / resume
= -      rate  (+ _ coarse, alt fine)
R        reset
1 / 2    select speed / size
[ ]      adjust selection ({ } coarse)
F/Enter  fire body
WASD E C move camera
Arrows   look around
O        reset camera
G        record GIF
H        toggle help   Q quit`

// captureFrame rasterises the braille canvas into a GIF frame.
func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := m.canvas.Width*charW, m.canvas.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := charW/2, charH/4

	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := saveGIF(m.gifPath, m.frames); err != nil {
		m.status = "gif: " + err.Error()
	} else if len(m.frames) > 0 {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.gifPath)
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 100/frameRate)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the interactive view full screen and blocks until it quits.
func Run(s *sim.Simulator, cfg *config.Config, name string) error {
	p := tea.NewProgram(NewModel(s, cfg, name), programOptions()...)
	_, err := p.Run()
	return err
}

func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus()}
}
