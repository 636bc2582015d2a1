package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravsim/internal/dynamo"
)

var bodyPalette = []rl.Color{
	rl.NewColor(255, 255, 255, 255),
	rl.NewColor(200, 200, 210, 255),
	rl.NewColor(160, 170, 190, 255),
	rl.NewColor(220, 210, 190, 255),
}

func bodyColor(id dynamo.ID) rl.Color {
	return bodyPalette[int(id)%len(bodyPalette)]
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSim()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) drawSim() {
	rl.BeginMode3D(camera3D(a.Camera))
	if a.ShowGrid {
		a.customGrid(40, 1)
	}
	for _, s := range a.Sim.Snapshot() {
		rl.DrawSphere(vec3(s.Position), float32(s.Radius), bodyColor(s.ID))
	}
	rl.EndMode3D()
}

func (a *App) customGrid(slices int, spacing float32) {
	halfSize := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, 0, -halfSize), rl.NewVector3(pos, 0, halfSize), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-halfSize, 0, pos), rl.NewVector3(halfSize, 0, pos), ColGrid)
	}
}

func (a *App) DrawHUD() {
	a.drawText("gravsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 150, 34, 16, ColText)

	y := 80
	for _, line := range osdLines(a.Frame, a.Sim.Clock(), a.Merges, a.Spawn) {
		a.drawText(line, 30, y, 16, ColAccent)
		y += 22
	}
	if a.Status != "" {
		a.drawText(a.Status, 30, y+10, 14, ColText)
	}

	if a.ShowHelp {
		a.drawHelp()
	}
	a.drawTelemetry()
	a.drawCrosshair()
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)
}

func (a *App) drawHelp() {
	x, y := screenWidth-360, 30
	rl.DrawRectangle(int32(x-12), int32(y-10), 340, int32(len(helpLines)*20+20), rl.NewColor(0, 0, 0, 160))
	for _, line := range helpLines {
		a.drawText(line, x, y, 14, ColText)
		y += 20
	}
}

func (a *App) drawCrosshair() {
	cx, cy := int32(screenWidth/2), int32(screenHeight/2)
	rl.DrawLine(cx-6, cy, cx+6, cy, ColTextDim)
	rl.DrawLine(cx, cy-6, cx, cy+6, ColTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.4e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
