package eb

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/soar/padnav/internal/gamepad"
)

// Keyboard maps conventional navigation keys onto the coordinator's
// vocabulary. It is the fallback source used while no pad is connected.
type Keyboard struct{}

// Direction reports the held arrow key, up/down winning over left/right.
func (Keyboard) Direction() gamepad.Direction {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		return gamepad.DirectionUp
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		return gamepad.DirectionDown
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		return gamepad.DirectionLeft
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		return gamepad.DirectionRight
	}
	return gamepad.DirectionNone
}

var keyBindings = map[gamepad.Action][]ebiten.Key{
	gamepad.ActionConfirm:     {ebiten.KeyEnter, ebiten.KeySpace},
	gamepad.ActionBack:        {ebiten.KeyEscape, ebiten.KeyBackspace},
	gamepad.ActionOption1:     {ebiten.KeyX},
	gamepad.ActionOption2:     {ebiten.KeyY},
	gamepad.ActionLeftBumper:  {ebiten.KeyPageUp},
	gamepad.ActionRightBumper: {ebiten.KeyPageDown},
	gamepad.ActionSelect:      {ebiten.KeyTab},
	gamepad.ActionStart:       {ebiten.KeyF1},
}

// ActionPressed reports whether any key bound to the action is held.
func (Keyboard) ActionPressed(a gamepad.Action) bool {
	for _, k := range keyBindings[a] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
