// Package sdl provides the SDL3 joystick backend: it owns the OS-thread
// locked poll loop and normalizes raw joystick state into the device array
// the gamepad service consumes.
package sdl

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jupiterrider/purego-sdl3/sdl"
	"go.uber.org/zap"

	"github.com/soar/padnav/internal/gamepad"
)

const (
	pollDelayNS = 16_000_000 // ~60Hz

	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08

	// Analog triggers count as pressed past half travel.
	triggerPressThreshold = 0.5
)

type joystickInfo struct {
	joystick *sdl.Joystick
	layout   *deviceLayout
	name     string
	id       sdl.JoystickID
	slot     int
	device   *gamepad.DeviceState
}

// Provider reads joystick input from the SDL3 Joystick API. It implements
// gamepad.Provider; slot positions in the device array stay stable for a
// controller's connected lifetime and are reused after disconnect.
type Provider struct {
	logger    *zap.SugaredLogger
	joysticks map[sdl.JoystickID]*joystickInfo
	slots     []*joystickInfo
	devices   []*gamepad.DeviceState
}

func NewProvider(logger *zap.SugaredLogger) *Provider {
	return &Provider{
		logger:    logger,
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
	}
}

// Gamepads returns the current device array. Nil slots are disconnected
// indices. The array is only mutated inside Run's loop, between ticks.
func (p *Provider) Gamepads() []*gamepad.DeviceState {
	return p.devices
}

// Run initializes SDL and drives the event+poll loop on the current thread,
// invoking tick once per iteration after device state is refreshed. Must be
// called from a dedicated goroutine; it locks the OS thread for SDL.
func (p *Provider) Run(ctx context.Context, tick func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init: %s", sdl.GetError())
	}
	defer sdl.Quit()

	p.logger.Info("SDL3 joystick subsystem initialized")

	// Pick up joysticks that were connected before we started.
	for _, id := range sdl.GetJoysticks() {
		p.open(id)
	}

	for {
		select {
		case <-ctx.Done():
			p.closeAll()
			return nil
		default:
		}

		p.processEvents()
		p.refresh()
		tick()
		sdl.DelayNS(pollDelayNS)
	}
}

func (p *Provider) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			p.open(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			p.remove(event.JDevice().Which)
		}
	}
}

func (p *Provider) open(instanceID sdl.JoystickID) {
	if _, exists := p.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		p.logger.Warnf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	layout := layoutFor(vendorID, productID)

	info := &joystickInfo{
		joystick: js,
		layout:   layout,
		name:     name,
		id:       jsID,
		slot:     p.claimSlot(),
		device: &gamepad.DeviceState{
			// The id string carries the vendor/product pair so the
			// service can classify from it alone.
			ID:        fmt.Sprintf("%s (Vendor: %04x Product: %04x)", name, vendorID, productID),
			Buttons:   make([]gamepad.Button, gamepad.SlotCount),
			Axes:      make([]float64, gamepad.AxisCount),
			Connected: true,
		},
	}
	p.joysticks[jsID] = info
	p.slots[info.slot] = info
	p.devices[info.slot] = info.device

	p.logger.Infof("Joystick connected: %s (VID=%04X PID=%04X) layout=%s slot=%d axes=%d buttons=%d hats=%d",
		name, vendorID, productID, layout.Name, info.slot,
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js))
}

// claimSlot reuses the first free slot, growing the array only when full.
func (p *Provider) claimSlot() int {
	for i, info := range p.slots {
		if info == nil {
			return i
		}
	}
	p.slots = append(p.slots, nil)
	p.devices = append(p.devices, nil)
	return len(p.slots) - 1
}

func (p *Provider) remove(instanceID sdl.JoystickID) {
	info, exists := p.joysticks[instanceID]
	if !exists {
		return
	}

	p.logger.Infof("Joystick disconnected: %s (slot=%d)", info.name, info.slot)
	sdl.CloseJoystick(info.joystick)
	delete(p.joysticks, instanceID)
	p.slots[info.slot] = nil
	p.devices[info.slot] = nil
}

func (p *Provider) closeAll() {
	for id, info := range p.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(p.joysticks, id)
		p.slots[info.slot] = nil
		p.devices[info.slot] = nil
	}
}

// refresh re-reads every open joystick into its canonical device state.
// Deadzone handling is left to the service.
func (p *Provider) refresh() {
	for _, info := range p.joysticks {
		if !sdl.JoystickConnected(info.joystick) {
			continue
		}
		p.readJoystick(info)
	}
}

func (p *Provider) readJoystick(info *joystickInfo) {
	js := info.joystick
	layout := info.layout
	d := info.device

	for i := range d.Buttons {
		d.Buttons[i] = gamepad.Button{}
	}

	for _, sa := range layout.Sticks {
		d.Axes[sa.Axis] = normalizeAxis(sdl.GetJoystickAxis(js, sa.Index))
	}

	for _, ta := range layout.Triggers {
		val := normalizeTrigger(sdl.GetJoystickAxis(js, ta.Index), ta.RawMin, ta.RawMax)
		d.Buttons[ta.Slot] = gamepad.Button{Pressed: val > triggerPressThreshold, Value: val}
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for _, bm := range layout.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		if sdl.GetJoystickButton(js, bm.Index) {
			d.Buttons[bm.Slot] = gamepad.Button{Pressed: true, Value: 1}
		}
	}

	if layout.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		hat := sdl.GetJoystickHat(js, 0)
		setHat(d.Buttons, gamepad.SlotDpadUp, hat&hatUp != 0)
		setHat(d.Buttons, gamepad.SlotDpadDown, hat&hatDown != 0)
		setHat(d.Buttons, gamepad.SlotDpadLeft, hat&hatLeft != 0)
		setHat(d.Buttons, gamepad.SlotDpadRight, hat&hatRight != 0)
	}
}

func setHat(buttons []gamepad.Button, slot int, pressed bool) {
	if pressed {
		buttons[slot] = gamepad.Button{Pressed: true, Value: 1}
	}
}
