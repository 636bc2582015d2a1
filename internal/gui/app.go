package gui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

	maxTelemetry = 200
	maxFrameDt   = 0.25
)

// App is the windowed view of a running simulator.
type App struct {
	Sim    *sim.Simulator
	Cfg    *config.Config
	Name   string
	Camera *viz.Camera
	Spawn  *control.SpawnOptions
	Font   rl.Font

	Frame     sim.Frame
	Merges    int
	Telemetry []float64
	ShowHelp  bool
	ShowGrid  bool
	Status    string

	focus focusGuard
	quit  bool
}

func initWindow(title string) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont uses Liberation Mono when it is installed and the raylib default
// font otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wraps s. The window must already be open.
func NewApp(s *sim.Simulator, cfg *config.Config, name string) *App {
	return &App{
		Sim:       s,
		Cfg:       cfg,
		Name:      name,
		Camera:    viz.NewCamera(viz.DefaultCameraPosition, viz.DefaultCameraTarget),
		Spawn:     control.NewSpawnOptions(cfg.Spawn, cfg.SpeedModifierFactor),
		Font:      loadFont(),
		Frame:     sim.Frame{Bodies: s.Store().Live()},
		Telemetry: make([]float64, 0, maxTelemetry),
		ShowHelp:  true,
		ShowGrid:  true,
		focus:     focusGuard{Grace: focusGraceFrames},
	}
}

// Run opens a window on s and blocks until it is closed.
func Run(s *sim.Simulator, cfg *config.Config, name string) error {
	initWindow("gravsim :: " + name)
	defer rl.CloseWindow()

	app := NewApp(s, cfg, name)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if a.focus.Observe(rl.IsWindowFocused()) {
		a.Sim.Clock().Pause()
		a.Status = "paused: focus lost"
	}

	a.handleKeys()
	a.handleMouse()
	a.moveCamera(float64(rl.GetFrameTime()))

	realDt := float64(rl.GetFrameTime())
	if realDt > maxFrameDt {
		realDt = maxFrameDt
	}
	a.Frame = a.Sim.Tick(realDt)
	a.Merges += len(a.Frame.Merges)
	if len(a.Frame.Errors) > 0 {
		a.Status = a.Frame.Errors[len(a.Frame.Errors)-1].Error()
	}
	if a.Frame.Dt > 0 {
		a.Telemetry = append(a.Telemetry, physics.Energy(a.Frame.Bodies, a.Sim.G()))
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	}
}

func (a *App) modifier() float64 {
	coarse := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	fine := rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
	return control.Modifier(coarse, fine, a.Cfg.SpeedModifierFactor)
}

func (a *App) handleKeys() {
	clock := a.Sim.Clock()
	mod := a.modifier()

	switch {
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	case rl.IsKeyPressed(rl.KeyP), rl.IsKeyPressed(rl.KeySpace):
		clock.Toggle()
		a.Status = ""
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		clock.Adjust(control.RateDelta(1, a.Cfg.RateSensitivity, mod))
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		clock.Adjust(control.RateDelta(-1, a.Cfg.RateSensitivity, mod))
	case rl.IsKeyPressed(rl.KeyR):
		a.Sim.Enqueue(sim.Reset{})
		a.Telemetry = a.Telemetry[:0]
		a.Merges = 0
		a.Status = "reset"
	case rl.IsKeyPressed(rl.KeyOne):
		a.Spawn.Select(control.ModeSpeed)
	case rl.IsKeyPressed(rl.KeyTwo):
		a.Spawn.Select(control.ModeSize)
	case rl.IsKeyPressed(rl.KeyRightBracket):
		a.Spawn.Scroll(1, mod)
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		a.Spawn.Scroll(-1, mod)
	case rl.IsKeyPressed(rl.KeyF), rl.IsKeyPressed(rl.KeyEnter):
		a.fire()
	case rl.IsKeyPressed(rl.KeyO):
		a.Camera = viz.NewCamera(viz.DefaultCameraPosition, viz.DefaultCameraTarget)
	case rl.IsKeyPressed(rl.KeyG):
		a.ShowGrid = !a.ShowGrid
	case rl.IsKeyPressed(rl.KeyH), rl.IsKeyPressed(rl.KeySlash):
		a.ShowHelp = !a.ShowHelp
	}
}

func (a *App) handleMouse() {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Spawn.Scroll(float64(wheel), a.modifier())
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.fire()
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		sens := a.Cfg.Camera.Sensitivity
		a.Camera.Rotate(-float64(d.X)*sens, -float64(d.Y)*sens)
	}
}

func (a *App) moveCamera(dt float64) {
	step := a.Cfg.Camera.Speed * dt * a.modifier()
	var forward, right, up float64
	if rl.IsKeyDown(rl.KeyW) {
		forward += step
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward -= step
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += step
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= step
	}
	if rl.IsKeyDown(rl.KeyE) {
		up += step
	}
	if rl.IsKeyDown(rl.KeyC) {
		up -= step
	}
	if forward != 0 || right != 0 || up != 0 {
		a.Camera.Move(forward, right, up)
	}

	turn := 1.5 * dt
	if rl.IsKeyDown(rl.KeyLeft) {
		a.Camera.Rotate(turn, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.Camera.Rotate(-turn, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.Camera.Rotate(0, turn)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.Camera.Rotate(0, -turn)
	}
}

func (a *App) fire() {
	cmd, ok := a.Spawn.Fire(a.Camera.Position, a.Camera.Forward(), a.Cfg.BaseSphereRadius)
	if !ok {
		return
	}
	a.Sim.Enqueue(cmd)
	a.Status = fmt.Sprintf("spawned mass %.3f", cmd.Mass)
}

// camera3D converts the simulation camera for raylib.
func camera3D(c *viz.Camera) rl.Camera3D {
	target := c.Position.Add(c.Forward())
	return rl.NewCamera3D(vec3(c.Position), vec3(target), vec3(c.Up()), float32(mgl64.RadToDeg(c.FOV)), rl.CameraPerspective)
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}
