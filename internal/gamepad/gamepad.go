// Package gamepad implements the controller state service: it polls a host
// provider once per tick, tracks per-controller snapshots, and answers the
// input queries (pressed, just-pressed, sticks, navigation direction) that
// the rest of the application asks every frame.
package gamepad

// Canonical button slots, following the standard-gamepad layout. Providers
// normalize whatever the hardware reports into this order.
const (
	SlotFaceBottom = iota // A / Cross / Nintendo B
	SlotFaceRight         // B / Circle / Nintendo A
	SlotFaceLeft          // X / Square / Nintendo Y
	SlotFaceTop           // Y / Triangle / Nintendo X
	SlotLeftBumper
	SlotRightBumper
	SlotLeftTrigger
	SlotRightTrigger
	SlotSelect
	SlotStart
	SlotLeftStickClick
	SlotRightStickClick
	SlotDpadUp
	SlotDpadDown
	SlotDpadLeft
	SlotDpadRight
	SlotHome
	SlotCount
)

// Stick axes. Providers may append extra axes (hat encodings) beyond these.
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisCount
)

// Type is the vendor family a controller is classified into.
type Type string

const (
	TypeXbox        Type = "xbox"
	TypePlayStation Type = "playstation"
	TypeNintendo    Type = "nintendo"
	TypeGeneric     Type = "generic"
)

// Action is a vendor-independent input name, resolved to a button slot
// through the controller type's mapping table.
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionBack            Action = "back"
	ActionOption1         Action = "option1"
	ActionOption2         Action = "option2"
	ActionLeftBumper      Action = "leftBumper"
	ActionRightBumper     Action = "rightBumper"
	ActionLeftTrigger     Action = "leftTrigger"
	ActionRightTrigger    Action = "rightTrigger"
	ActionSelect          Action = "select"
	ActionStart           Action = "start"
	ActionLeftStickClick  Action = "leftStickClick"
	ActionRightStickClick Action = "rightStickClick"
	ActionDpadUp          Action = "dpadUp"
	ActionDpadDown        Action = "dpadDown"
	ActionDpadLeft        Action = "dpadLeft"
	ActionDpadRight       Action = "dpadRight"
	ActionHome            Action = "home"
)

// Direction is a discrete navigation direction.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Button is one pressed/value pair in a controller's button array.
type Button struct {
	Pressed bool    `json:"pressed"`
	Value   float64 `json:"value"`
}

// Vector is a deadzone-corrected stick position.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DeviceState is the raw per-device state a provider hands to the service
// each tick. Buttons follow the canonical slot order; short arrays are
// tolerated by every query. Axes holds the four stick axes and, optionally,
// extra hat axes after them.
type DeviceState struct {
	ID        string
	Buttons   []Button
	Axes      []float64
	Connected bool
}

// Provider is the host platform's controller API. Gamepads returns the
// current device array; slot position is the controller index, and nil
// slots stand for disconnected indices.
type Provider interface {
	Gamepads() []*DeviceState
}

// Controller is the service's snapshot of one connected controller. Fields
// are refreshed on every poll while the controller stays connected.
type Controller struct {
	Index       int       `json:"index"`
	RawID       string    `json:"rawId"`
	Type        Type      `json:"type"`
	DisplayName string    `json:"displayName"`
	Buttons     []Button  `json:"buttons"`
	Axes        []float64 `json:"axes"`
	Connected   bool      `json:"connected"`

	mapping ButtonMapping
	prev    [SlotCount]bool
}

// Mapping returns the controller's type-specific button mapping.
func (c *Controller) Mapping() ButtonMapping {
	return c.mapping
}

func (c *Controller) pressed(slot int) bool {
	return slot >= 0 && slot < len(c.Buttons) && c.Buttons[slot].Pressed
}

func (c *Controller) axis(i int) float64 {
	if i < 0 || i >= len(c.Axes) {
		return 0
	}
	return c.Axes[i]
}
