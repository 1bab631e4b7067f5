// Package eb provides the Ebitengine gamepad backend and the keyboard
// fallback source. Update must be called once per ebiten Update tick before
// the service polls.
package eb

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/soar/padnav/internal/gamepad"
)

// The ebiten standard layout already matches the canonical slot order;
// this table makes the correspondence explicit.
var standardButtons = [gamepad.SlotCount]ebiten.StandardGamepadButton{
	gamepad.SlotFaceBottom:      ebiten.StandardGamepadButtonRightBottom,
	gamepad.SlotFaceRight:       ebiten.StandardGamepadButtonRightRight,
	gamepad.SlotFaceLeft:        ebiten.StandardGamepadButtonRightLeft,
	gamepad.SlotFaceTop:         ebiten.StandardGamepadButtonRightTop,
	gamepad.SlotLeftBumper:      ebiten.StandardGamepadButtonFrontTopLeft,
	gamepad.SlotRightBumper:     ebiten.StandardGamepadButtonFrontTopRight,
	gamepad.SlotLeftTrigger:     ebiten.StandardGamepadButtonFrontBottomLeft,
	gamepad.SlotRightTrigger:    ebiten.StandardGamepadButtonFrontBottomRight,
	gamepad.SlotSelect:          ebiten.StandardGamepadButtonCenterLeft,
	gamepad.SlotStart:           ebiten.StandardGamepadButtonCenterRight,
	gamepad.SlotLeftStickClick:  ebiten.StandardGamepadButtonLeftStick,
	gamepad.SlotRightStickClick: ebiten.StandardGamepadButtonRightStick,
	gamepad.SlotDpadUp:          ebiten.StandardGamepadButtonLeftTop,
	gamepad.SlotDpadDown:        ebiten.StandardGamepadButtonLeftBottom,
	gamepad.SlotDpadLeft:        ebiten.StandardGamepadButtonLeftLeft,
	gamepad.SlotDpadRight:       ebiten.StandardGamepadButtonLeftRight,
	gamepad.SlotHome:            ebiten.StandardGamepadButtonCenterCenter,
}

var standardAxes = [gamepad.AxisCount]ebiten.StandardGamepadAxis{
	gamepad.AxisLeftX:  ebiten.StandardGamepadAxisLeftStickHorizontal,
	gamepad.AxisLeftY:  ebiten.StandardGamepadAxisLeftStickVertical,
	gamepad.AxisRightX: ebiten.StandardGamepadAxisRightStickHorizontal,
	gamepad.AxisRightY: ebiten.StandardGamepadAxisRightStickVertical,
}

type padEntry struct {
	id     ebiten.GamepadID
	device *gamepad.DeviceState
}

// Provider implements gamepad.Provider on top of ebiten's gamepad API.
// Slot positions stay stable while a pad remains connected.
type Provider struct {
	ids     []ebiten.GamepadID
	slots   []*padEntry
	devices []*gamepad.DeviceState
}

func NewProvider() *Provider {
	return &Provider{}
}

// Gamepads returns the current device array; nil slots are disconnected.
func (p *Provider) Gamepads() []*gamepad.DeviceState {
	return p.devices
}

// Update refreshes the device array. Call once per ebiten Update.
func (p *Provider) Update() {
	p.ids = ebiten.AppendGamepadIDs(p.ids[:0])

	present := make(map[ebiten.GamepadID]bool, len(p.ids))
	for _, id := range p.ids {
		// Pads without a known standard mapping are skipped; there is
		// no reliable way to interpret their raw button order.
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		present[id] = true
		if !p.tracked(id) {
			p.open(id)
		}
	}
	for i, e := range p.slots {
		if e != nil && !present[e.id] {
			p.slots[i] = nil
			p.devices[i] = nil
		}
	}

	for _, e := range p.slots {
		if e != nil {
			readPad(e.id, e.device)
		}
	}
}

func (p *Provider) tracked(id ebiten.GamepadID) bool {
	for _, e := range p.slots {
		if e != nil && e.id == id {
			return true
		}
	}
	return false
}

func (p *Provider) open(id ebiten.GamepadID) {
	e := &padEntry{
		id: id,
		device: &gamepad.DeviceState{
			ID:        ebiten.GamepadName(id),
			Buttons:   make([]gamepad.Button, gamepad.SlotCount),
			Axes:      make([]float64, gamepad.AxisCount),
			Connected: true,
		},
	}
	for i, existing := range p.slots {
		if existing == nil {
			p.slots[i] = e
			p.devices[i] = e.device
			return
		}
	}
	p.slots = append(p.slots, e)
	p.devices = append(p.devices, e.device)
}

func readPad(id ebiten.GamepadID, d *gamepad.DeviceState) {
	for slot, b := range standardButtons {
		d.Buttons[slot] = gamepad.Button{
			Pressed: ebiten.IsStandardGamepadButtonPressed(id, b),
			Value:   ebiten.StandardGamepadButtonValue(id, b),
		}
	}
	for axis, a := range standardAxes {
		d.Axes[axis] = ebiten.StandardGamepadAxisValue(id, a)
	}
}
