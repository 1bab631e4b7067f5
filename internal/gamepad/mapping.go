package gamepad

import (
	"regexp"
	"strings"
)

// ButtonMapping resolves logical actions to canonical button slots for one
// controller type. The tables are pure data, chosen once at classification
// time and never modified.
type ButtonMapping map[Action]int

var standardLayout = ButtonMapping{
	ActionConfirm:         SlotFaceBottom,
	ActionBack:            SlotFaceRight,
	ActionOption1:         SlotFaceLeft,
	ActionOption2:         SlotFaceTop,
	ActionLeftBumper:      SlotLeftBumper,
	ActionRightBumper:     SlotRightBumper,
	ActionLeftTrigger:     SlotLeftTrigger,
	ActionRightTrigger:    SlotRightTrigger,
	ActionSelect:          SlotSelect,
	ActionStart:           SlotStart,
	ActionLeftStickClick:  SlotLeftStickClick,
	ActionRightStickClick: SlotRightStickClick,
	ActionDpadUp:          SlotDpadUp,
	ActionDpadDown:        SlotDpadDown,
	ActionDpadLeft:        SlotDpadLeft,
	ActionDpadRight:       SlotDpadRight,
	ActionHome:            SlotHome,
}

// Nintendo's face layout mirrors A/B, so confirm sits on the right face
// button and back on the bottom one. Option1/option2 stay positional.
var nintendoLayout = func() ButtonMapping {
	m := make(ButtonMapping, len(standardLayout))
	for a, slot := range standardLayout {
		m[a] = slot
	}
	m[ActionConfirm] = SlotFaceRight
	m[ActionBack] = SlotFaceBottom
	return m
}()

var layouts = map[Type]ButtonMapping{
	TypeXbox:        standardLayout,
	TypePlayStation: standardLayout,
	TypeNintendo:    nintendoLayout,
	TypeGeneric:     standardLayout,
}

// DefaultMapping returns the mapping table for a controller type. Unknown
// types fall back to the generic (Xbox-shaped) layout.
func DefaultMapping(t Type) ButtonMapping {
	if m, ok := layouts[t]; ok {
		return m
	}
	return standardLayout
}

// ButtonIndex resolves a logical action to its button slot for the given
// controller type, or -1 if the action is unknown.
func ButtonIndex(a Action, t Type) int {
	if slot, ok := DefaultMapping(t)[a]; ok {
		return slot
	}
	return -1
}

// Vendor tokens matched case-insensitively against the raw id string. The
// hex tokens are the USB vendor ids that host APIs commonly embed in the id.
var (
	xboxTokens        = []string{"xbox", "xinput", "x-box", "045e"}
	playstationTokens = []string{"dualshock", "dualsense", "playstation", "sony", "054c"}
	nintendoTokens    = []string{"pro controller", "joy-con", "joycon", "nintendo", "switch", "057e"}
)

// ClassifyType derives the vendor family from the host-provided id string.
// The result is computed once per connection and cached on the controller.
func ClassifyType(rawID string) Type {
	id := strings.ToLower(rawID)
	switch {
	case containsAny(id, xboxTokens):
		return TypeXbox
	case containsAny(id, playstationTokens):
		return TypePlayStation
	case containsAny(id, nintendoTokens):
		return TypeNintendo
	default:
		return TypeGeneric
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// DeriveDisplayName strips the parenthetical capability annotations host
// APIs append to controller names, e.g.
// "Xbox 360 Controller (XInput STANDARD GAMEPAD)" -> "Xbox 360 Controller".
func DeriveDisplayName(rawID string) string {
	name := strings.TrimSpace(parenthetical.ReplaceAllString(rawID, ""))
	if name == "" {
		return rawID
	}
	return name
}
