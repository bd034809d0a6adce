package main

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/mandible/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	debugCircleSegments = 24
)

var stateColors = map[string]color.RGBA{
	"Idle":  colornames.Lightgrey,
	"Chase": colornames.Crimson,
	"Flee":  colornames.Gold,
	"Fly":   colornames.Deepskyblue,
	"Dead":  colornames.Dimgray,
}

// Game drives an Arena from ebiten's fixed-rate update.
type Game struct {
	arena   *Arena
	watcher *prefabs.Watcher
	debug   bool
	paused  bool
	zoom    float64
}

func NewGame(arena *Arena, watcher *prefabs.Watcher, debug bool) *Game {
	zoom := math.Min(baseWidth/arena.cfg.Width, baseHeight/arena.cfg.Height)
	return &Game{arena: arena, watcher: watcher, debug: debug, zoom: zoom}
}

func (g *Game) Update() error {
	if g.watcher != nil {
		pollWatcher(g.arena, g.watcher)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if g.paused {
		return nil
	}
	g.arena.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	for _, h := range g.arena.cfg.Hazards {
		x, y := g.toScreen(h.Center)
		vector.DrawFilledCircle(screen, x, y, float32(h.Radius*g.zoom), color.RGBA{R: 80, G: 20, B: 20, A: 90}, true)
	}

	if g.debug {
		cp.DrawSpace(g.arena.Space().Space(), &debugDrawer{screen: screen, zoom: g.zoom})
	}

	for _, e := range g.arena.World().Entities() {
		x, y := g.toScreen(e.Position())
		tag := tagOf(e.StateMachine.Current())
		if e.IsDead() {
			tag = "Dead"
		}
		clr, ok := stateColors[tag]
		if !ok {
			clr = colornames.White
		}
		r := float32(0.5 * g.zoom)
		vector.DrawFilledCircle(screen, x, y, r, clr, true)

		// facing
		a := e.Angle()
		vector.StrokeLine(screen, x, y, x+float32(math.Cos(a))*r*1.6, y+float32(math.Sin(a))*r*1.6, 2, colornames.White, true)

		hp := float32(e.HealthPercentage())
		vector.DrawFilledRect(screen, x-r, y-r-6, 2*r*hp, 3, colornames.Limegreen, false)

		if g.debug {
			if target := e.AI.Target(); target != nil {
				tx, ty := g.toScreen(target.Position())
				vector.StrokeLine(screen, x, y, tx, ty, 1, colornames.Orange, true)
			}
		}
	}

	g.arena.visuals.each(func(name string, pos cp.Vector, alpha float64) {
		x, y := g.toScreen(pos)
		clr := colornames.Orangered
		if name == "sparks" {
			clr = colornames.Yellow
		}
		clr.A = uint8(255 * alpha)
		vector.StrokeCircle(screen, x, y, float32(0.8*g.zoom), 2, toPremultiplied(clr), true)
	})

	ebitenutil.DebugPrint(screen, g.status())
}

func (g *Game) status() string {
	summary := g.arena.Summary()
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d    FPS: %.2f    Deaths: %d    Effects: %d\n", g.arena.ticks, ebiten.ActualFPS(), g.arena.deaths, g.arena.visuals.Len())
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %d  ", k, summary[k])
	}
	if g.paused {
		b.WriteString("\n[paused]")
	}
	return b.String()
}

func (g *Game) toScreen(v cp.Vector) (float32, float32) {
	return float32(v.X * g.zoom), float32(v.Y * g.zoom)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// debugDrawer renders chipmunk shapes as outlines.
type debugDrawer struct {
	screen *ebiten.Image
	zoom   float64
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: pos.X + math.Cos(t)*radius, Y: pos.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, outline)
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {}

func (d *debugDrawer) Flags() uint { return cp.DRAW_SHAPES }

func (d *debugDrawer) OutlineColor() cp.FColor { return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9} }

func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *debugDrawer) ConstraintColor() cp.FColor { return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9} }

func (d *debugDrawer) CollisionPointColor() cp.FColor { return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9} }

func (d *debugDrawer) Data() interface{} { return nil }

func (d *debugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	vector.StrokeLine(d.screen, float32(a.X*d.zoom), float32(a.Y*d.zoom), float32(b.X*d.zoom), float32(b.Y*d.zoom), 1, toNRGBA(c), true)
}

func (d *debugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

// toPremultiplied scales a straight-alpha colour for ebiten.
func toPremultiplied(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{R: uint8(uint16(c.R) * a / 255), G: uint8(uint16(c.G) * a / 255), B: uint8(uint16(c.B) * a / 255), A: c.A}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	clamp := func(v float32) uint8 {
		return uint8(math.Max(0, math.Min(1, float64(v))) * 255)
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
