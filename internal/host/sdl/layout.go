package sdl

import "math"

// The SDL joystick API reports raw axis/button indices in device-specific
// order. These tables normalize known devices into the canonical slot and
// axis order the gamepad service consumes.

type stickAxis struct {
	Index int32
	Axis  int // canonical axis index
}

type triggerAxis struct {
	Index int32
	Slot  int // canonical button slot
	// Raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

type rawButton struct {
	Index int32
	Slot  int // canonical button slot
}

type deviceLayout struct {
	Name     string
	Sticks   []stickAxis
	Triggers []triggerAxis
	Buttons  []rawButton
	HasHat   bool
}

// normalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func normalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// normalizeTrigger converts a raw trigger value to 0.0..1.0.
func normalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := float64(raw-rawMin) / float64(rawMax-rawMin)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// Canonical slot numbers, spelled out here so the tables read standalone:
// 0-3 face, 4-5 bumpers, 6-7 triggers, 8 select, 9 start, 10-11 stick
// clicks, 12-15 dpad, 16 home.

var xboxLayout = &deviceLayout{
	Name: "xbox",
	Sticks: []stickAxis{
		{Index: 0, Axis: 0},
		{Index: 1, Axis: 1},
		{Index: 2, Axis: 2},
		{Index: 3, Axis: 3},
	},
	Triggers: []triggerAxis{
		{Index: 4, Slot: 6, RawMin: -32768, RawMax: 32767},
		{Index: 5, Slot: 7, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []rawButton{
		{Index: 0, Slot: 0},
		{Index: 1, Slot: 1},
		{Index: 2, Slot: 2},
		{Index: 3, Slot: 3},
		{Index: 4, Slot: 4},
		{Index: 5, Slot: 5},
		{Index: 6, Slot: 8},
		{Index: 7, Slot: 9},
		{Index: 8, Slot: 10},
		{Index: 9, Slot: 11},
		{Index: 10, Slot: 16},
	},
	HasHat: true,
}

var playstationLayout = &deviceLayout{
	Name: "playstation",
	Sticks: []stickAxis{
		{Index: 0, Axis: 0},
		{Index: 1, Axis: 1},
		{Index: 2, Axis: 2},
		{Index: 3, Axis: 3},
	},
	Triggers: []triggerAxis{
		{Index: 4, Slot: 6, RawMin: -32768, RawMax: 32767},
		{Index: 5, Slot: 7, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []rawButton{
		{Index: 0, Slot: 0},  // Cross
		{Index: 1, Slot: 1},  // Circle
		{Index: 2, Slot: 2},  // Square
		{Index: 3, Slot: 3},  // Triangle
		{Index: 4, Slot: 8},  // Share / Create
		{Index: 5, Slot: 16}, // PS button
		{Index: 6, Slot: 9},  // Options
		{Index: 7, Slot: 10},
		{Index: 8, Slot: 11},
		{Index: 9, Slot: 4},  // L1
		{Index: 10, Slot: 5}, // R1
	},
	HasHat: true,
}

// ZL/ZR are digital on the Pro Controller, so there are no trigger axes.
var switchProLayout = &deviceLayout{
	Name: "switch_pro",
	Sticks: []stickAxis{
		{Index: 0, Axis: 0},
		{Index: 1, Axis: 1},
		{Index: 2, Axis: 2},
		{Index: 3, Axis: 3},
	},
	Buttons: []rawButton{
		{Index: 0, Slot: 0},
		{Index: 1, Slot: 1},
		{Index: 2, Slot: 2},
		{Index: 3, Slot: 3},
		{Index: 4, Slot: 4},
		{Index: 5, Slot: 5},
		{Index: 6, Slot: 8},
		{Index: 7, Slot: 9},
		{Index: 8, Slot: 10},
		{Index: 9, Slot: 11},
		{Index: 10, Slot: 16},
		{Index: 11, Slot: 6}, // ZL
		{Index: 12, Slot: 7}, // ZR
	},
	HasHat: true,
}

var genericLayout = &deviceLayout{
	Name: "generic",
	Sticks: []stickAxis{
		{Index: 0, Axis: 0},
		{Index: 1, Axis: 1},
		{Index: 2, Axis: 2},
		{Index: 3, Axis: 3},
	},
	Triggers: []triggerAxis{
		{Index: 4, Slot: 6, RawMin: -32768, RawMax: 32767},
		{Index: 5, Slot: 7, RawMin: -32768, RawMax: 32767},
	},
	Buttons: []rawButton{
		{Index: 0, Slot: 0},
		{Index: 1, Slot: 1},
		{Index: 2, Slot: 2},
		{Index: 3, Slot: 3},
		{Index: 4, Slot: 4},
		{Index: 5, Slot: 5},
		{Index: 6, Slot: 8},
		{Index: 7, Slot: 9},
		{Index: 8, Slot: 10},
		{Index: 9, Slot: 11},
		{Index: 10, Slot: 16},
	},
	HasHat: true,
}

type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*deviceLayout{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxLayout, // Xbox 360
	{0x045E, 0x02FF}: xboxLayout, // Xbox One
	{0x045E, 0x0B12}: xboxLayout, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxLayout, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationLayout, // DualSense
	{0x054C, 0x09CC}: playstationLayout, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationLayout, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProLayout,
}

// layoutFor returns the normalization layout for a device, falling back to
// the generic layout when the vendor/product pair is unknown.
func layoutFor(vendorID, productID uint16) *deviceLayout {
	if l, ok := knownDevices[deviceKey{VendorID: vendorID, ProductID: productID}]; ok {
		return l
	}
	return genericLayout
}
