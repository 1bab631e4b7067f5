package gamepad_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/soar/padnav/internal/gamepad"
)

func TestClassifyType(t *testing.T) {
	for _, tc := range []struct {
		rawID string
		want  gamepad.Type
	}{
		{"Xbox 360 Controller (XInput STANDARD GAMEPAD)", gamepad.TypeXbox},
		{"Xbox Wireless Controller (Vendor: 045e Product: 0b13)", gamepad.TypeXbox},
		{"XINPUT CONTROLLER", gamepad.TypeXbox},
		{"DualSense Wireless Controller", gamepad.TypePlayStation},
		{"Sony Interactive Entertainment DualShock 4", gamepad.TypePlayStation},
		{"Wireless Controller (Vendor: 054c Product: 09cc)", gamepad.TypePlayStation},
		{"Pro Controller", gamepad.TypeNintendo},
		{"Joy-Con (L)", gamepad.TypeNintendo},
		{"Nintendo Switch Pro Controller (Vendor: 057e Product: 2009)", gamepad.TypeNintendo},
		{"Generic USB Joystick", gamepad.TypeGeneric},
		{"", gamepad.TypeGeneric},
	} {
		t.Run(tc.rawID, func(t *testing.T) {
			test.That(t, gamepad.ClassifyType(tc.rawID), test.ShouldEqual, tc.want)
		})
	}
}

func TestButtonIndex(t *testing.T) {
	// Nintendo mirrors the A/B face buttons; everything else is positional.
	test.That(t, gamepad.ButtonIndex(gamepad.ActionConfirm, gamepad.TypeXbox), test.ShouldEqual, gamepad.SlotFaceBottom)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionBack, gamepad.TypeXbox), test.ShouldEqual, gamepad.SlotFaceRight)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionConfirm, gamepad.TypeNintendo), test.ShouldEqual, gamepad.SlotFaceRight)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionBack, gamepad.TypeNintendo), test.ShouldEqual, gamepad.SlotFaceBottom)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionOption1, gamepad.TypeNintendo), test.ShouldEqual, gamepad.SlotFaceLeft)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionOption2, gamepad.TypeNintendo), test.ShouldEqual, gamepad.SlotFaceTop)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionConfirm, gamepad.TypePlayStation), test.ShouldEqual, gamepad.SlotFaceBottom)
	test.That(t, gamepad.ButtonIndex(gamepad.ActionHome, gamepad.TypeGeneric), test.ShouldEqual, gamepad.SlotHome)
	test.That(t, gamepad.ButtonIndex(gamepad.Action("warp"), gamepad.TypeXbox), test.ShouldEqual, -1)
}

func TestDefaultMappingUnknownType(t *testing.T) {
	m := gamepad.DefaultMapping(gamepad.Type("steamdeck"))
	test.That(t, m[gamepad.ActionConfirm], test.ShouldEqual, gamepad.SlotFaceBottom)
}

func TestDeriveDisplayName(t *testing.T) {
	for _, tc := range []struct {
		rawID string
		want  string
	}{
		{"Xbox 360 Controller (XInput STANDARD GAMEPAD)", "Xbox 360 Controller"},
		{"Wireless Controller (Vendor: 054c Product: 09cc)", "Wireless Controller"},
		{"Pro Controller", "Pro Controller"},
		{"(STANDARD GAMEPAD)", "(STANDARD GAMEPAD)"},
	} {
		test.That(t, gamepad.DeriveDisplayName(tc.rawID), test.ShouldEqual, tc.want)
	}
}
