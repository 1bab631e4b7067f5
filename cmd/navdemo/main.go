// navdemo is a minimal focus-grid exercising the navigation coordinator:
// direction and key repeat move the highlight, confirm flashes a tile, the
// bumpers jump by a row, the right stick scrolls, and start toggles the
// coordinator off and on to show the arming behavior. Arrow keys and Enter
// work when no controller is connected.
package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/host/eb"
	"github.com/soar/padnav/internal/nav"
)

const (
	screenWidth  = 640
	screenHeight = 480

	cols     = 6
	rows     = 8
	tileSize = 88
	tileGap  = 12
	gridTop  = 48

	flashTicks  = 12
	scrollSpeed = 6.0
)

var (
	colorBackground = color.RGBA{0x14, 0x16, 0x1a, 0xff}
	colorTile       = color.RGBA{0x2e, 0x34, 0x40, 0xff}
	colorFocus      = color.RGBA{0x88, 0xc0, 0xd0, 0xff}
	colorFlash      = color.RGBA{0xa3, 0xbe, 0x8c, 0xff}
)

type game struct {
	provider *eb.Provider
	svc      *gamepad.Service
	coord    *nav.Coordinator

	focus   int
	flash   int // ticks left on the confirm flash
	scrollY float64
	last    string
}

func newGame() *game {
	logger := zap.NewNop().Sugar()

	g := &game{}
	g.provider = eb.NewProvider()
	g.svc = gamepad.NewService(g.provider, logger)
	g.coord = nav.New(g.svc, nav.Config{
		Enabled: true,
		Callbacks: nav.Callbacks{
			OnNavigate: g.onNavigate,
			OnConfirm: func() {
				g.flash = flashTicks
				g.last = fmt.Sprintf("confirm tile %d", g.focus)
			},
			OnBack:        func() { g.last = "back" },
			OnLeftBumper:  func() { g.moveFocus(-cols); g.last = "page up" },
			OnRightBumper: func() { g.moveFocus(cols); g.last = "page down" },
			OnStart:       func() { g.coord.SetEnabled(false); g.last = "navigation off (start resumes)" },
		},
		Scroll:   g,
		Keyboard: eb.Keyboard{},
	})
	return g
}

func (g *game) onNavigate(d gamepad.Direction) {
	switch d {
	case gamepad.DirectionUp:
		g.moveFocus(-cols)
	case gamepad.DirectionDown:
		g.moveFocus(cols)
	case gamepad.DirectionLeft:
		g.moveFocus(-1)
	case gamepad.DirectionRight:
		g.moveFocus(1)
	}
	g.last = "navigate " + string(d)
}

func (g *game) moveFocus(delta int) {
	next := g.focus + delta
	if next < 0 || next >= cols*rows {
		return
	}
	// Horizontal moves stop at row edges instead of wrapping.
	if delta == -1 && g.focus%cols == 0 {
		return
	}
	if delta == 1 && g.focus%cols == cols-1 {
		return
	}
	g.focus = next
}

// ScrollBy implements nav.ScrollTarget; deflection is the deadzone-corrected
// right-stick Y.
func (g *game) ScrollBy(deflection float64) {
	g.scrollY += deflection * scrollSpeed
	max := float64(rows*(tileSize+tileGap) + gridTop - screenHeight)
	if g.scrollY < 0 {
		g.scrollY = 0
	}
	if g.scrollY > max {
		g.scrollY = max
	}
}

func (g *game) Update() error {
	g.provider.Update()
	g.svc.Poll()

	// While the coordinator is off its callbacks are silent, so resuming
	// reads the start edge from the service directly.
	if !g.coord.Enabled() && g.svc.IsActionJustPressed(0, gamepad.ActionStart) {
		g.coord.SetEnabled(true)
		g.last = "navigation on"
	}

	g.coord.Tick()
	if g.flash > 0 {
		g.flash--
	}
	g.keepFocusVisible()
	return nil
}

func (g *game) keepFocusVisible() {
	row := g.focus / cols
	top := float64(gridTop + row*(tileSize+tileGap))
	if top-g.scrollY < gridTop {
		g.scrollY = top - gridTop
	}
	if bottom := top + tileSize - g.scrollY; bottom > screenHeight-8 {
		g.scrollY = top + tileSize - (screenHeight - 8)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for i := 0; i < cols*rows; i++ {
		x := float32(tileGap + (i%cols)*(tileSize+tileGap))
		y := float32(float64(gridTop+(i/cols)*(tileSize+tileGap)) - g.scrollY)
		clr := colorTile
		if i == g.focus {
			clr = colorFocus
			if g.flash > 0 {
				clr = colorFlash
			}
		}
		vector.DrawFilledRect(screen, x, y, tileSize, tileSize, clr, false)
	}

	status := fmt.Sprintf("pads: %d  focus: %d  last: %s",
		len(g.svc.Controllers()), g.focus, g.last)
	if !g.coord.Enabled() {
		status += "  [navigation off]"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("padnav demo")
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
