package nav_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"go.viam.com/test"

	"github.com/soar/padnav/internal/gamepad"
	"github.com/soar/padnav/internal/nav"
)

type fakeProvider struct {
	pads []*gamepad.DeviceState
}

func (p *fakeProvider) Gamepads() []*gamepad.DeviceState {
	return p.pads
}

func newDevice() *gamepad.DeviceState {
	return &gamepad.DeviceState{
		ID:        "Xbox 360 Controller",
		Buttons:   make([]gamepad.Button, gamepad.SlotCount),
		Axes:      make([]float64, gamepad.AxisCount),
		Connected: true,
	}
}

type fakeKeys struct {
	dir     gamepad.Direction
	pressed map[gamepad.Action]bool
}

func (k *fakeKeys) Direction() gamepad.Direction { return k.dir }

func (k *fakeKeys) ActionPressed(a gamepad.Action) bool { return k.pressed[a] }

// fixture wires a coordinator to a fake provider and records every callback
// as a string, e.g. "navigate:up" or "confirm".
type fixture struct {
	ds     *gamepad.DeviceState
	svc    *gamepad.Service
	coord  *nav.Coordinator
	clk    *clock.Mock
	events []string
}

func newFixture(t *testing.T, cfg nav.Config, pads ...*gamepad.DeviceState) *fixture {
	t.Helper()

	f := &fixture{clk: clock.NewMock()}
	if len(pads) > 0 {
		f.ds = pads[0]
	}
	f.svc = gamepad.NewService(&fakeProvider{pads: pads}, zap.NewNop().Sugar())

	cfg.Clock = f.clk
	cfg.Callbacks = nav.Callbacks{
		OnNavigate: func(d gamepad.Direction) {
			f.events = append(f.events, "navigate:"+string(d))
		},
		OnConfirm: func() { f.events = append(f.events, "confirm") },
		OnBack:    func() { f.events = append(f.events, "back") },
		OnStart:   func() { f.events = append(f.events, "start") },
	}
	f.coord = nav.New(f.svc, cfg)
	return f
}

func (f *fixture) tick() {
	f.svc.Poll()
	f.coord.Tick()
}

func (f *fixture) press(slot int) {
	f.ds.Buttons[slot] = gamepad.Button{Pressed: true, Value: 1}
}

func (f *fixture) release(slot int) {
	f.ds.Buttons[slot] = gamepad.Button{}
}

func TestNavigateFiresImmediately(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick() // arming

	f.press(gamepad.SlotDpadUp)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:up"})
}

func TestNoRepeatBeforeDelay(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick()

	f.press(gamepad.SlotDpadDown)
	for i := 0; i < 3; i++ {
		f.tick()
		f.clk.Add(16 * time.Millisecond)
	}
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:down"})
}

func TestRepeatTiming(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick()

	f.press(gamepad.SlotDpadRight)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 1)

	// Still inside the initial delay.
	f.clk.Add(399 * time.Millisecond)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 1)

	// Past the delay, first repeat.
	f.clk.Add(2 * time.Millisecond)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 2)

	// Repeats are rate limited.
	f.clk.Add(50 * time.Millisecond)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 2)

	f.clk.Add(51 * time.Millisecond)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 3)
	test.That(t, f.events[2], test.ShouldEqual, "navigate:right")
}

func TestDirectionChangeFiresImmediately(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick()

	f.press(gamepad.SlotDpadUp)
	f.tick()
	f.release(gamepad.SlotDpadUp)
	f.press(gamepad.SlotDpadLeft)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:up", "navigate:left"})
}

func TestArmingParksHeldDirection(t *testing.T) {
	ds := newDevice()
	ds.Buttons[gamepad.SlotDpadUp] = gamepad.Button{Pressed: true, Value: 1}
	f := newFixture(t, nav.Config{Enabled: true}, ds)

	// Held through arming and beyond: nothing fires, not even repeats.
	f.tick()
	f.clk.Add(time.Second)
	f.tick()
	test.That(t, f.events, test.ShouldBeEmpty)

	f.release(gamepad.SlotDpadUp)
	f.tick()
	f.press(gamepad.SlotDpadUp)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:up"})
}

func TestArmingSeedsHeldButtons(t *testing.T) {
	ds := newDevice()
	ds.Buttons[gamepad.SlotFaceBottom] = gamepad.Button{Pressed: true, Value: 1}
	f := newFixture(t, nav.Config{Enabled: true}, ds)

	f.tick()
	f.tick()
	test.That(t, f.events, test.ShouldBeEmpty)

	f.release(gamepad.SlotFaceBottom)
	f.tick()
	f.press(gamepad.SlotFaceBottom)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"confirm"})
}

func TestButtonEdgeFiresOnce(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick()

	f.press(gamepad.SlotStart)
	f.tick()
	f.tick()
	f.clk.Add(time.Second)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"start"})
}

func TestButtonsFireWhileDirectionAwaitsRelease(t *testing.T) {
	ds := newDevice()
	ds.Buttons[gamepad.SlotDpadDown] = gamepad.Button{Pressed: true, Value: 1}
	f := newFixture(t, nav.Config{Enabled: true}, ds)
	f.tick() // arms into awaiting release

	f.press(gamepad.SlotFaceBottom)
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"confirm"})
}

func TestDisableReenableRearms(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.tick()

	f.press(gamepad.SlotDpadUp)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 1)

	f.coord.SetEnabled(false)
	f.clk.Add(time.Second)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 1)

	// Still holding up across the re-enable: arming parks it again.
	f.coord.SetEnabled(true)
	f.tick()
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 1)

	f.release(gamepad.SlotDpadUp)
	f.tick()
	f.press(gamepad.SlotDpadUp)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 2)
}

func TestSetRepeat(t *testing.T) {
	f := newFixture(t, nav.Config{Enabled: true}, newDevice())
	f.coord.SetRepeat(50*time.Millisecond, 20*time.Millisecond)
	f.tick()

	f.press(gamepad.SlotDpadUp)
	f.tick()
	f.clk.Add(51 * time.Millisecond)
	f.tick()
	test.That(t, f.events, test.ShouldHaveLength, 2)
}

type recordingScroll struct {
	calls []float64
}

func (r *recordingScroll) ScrollBy(deflection float64) {
	r.calls = append(r.calls, deflection)
}

func TestScrollTarget(t *testing.T) {
	scroll := &recordingScroll{}
	f := newFixture(t, nav.Config{Enabled: true, Scroll: scroll}, newDevice())
	f.tick()

	f.ds.Axes[gamepad.AxisRightY] = 0.8
	f.tick()
	test.That(t, scroll.calls, test.ShouldHaveLength, 1)
	test.That(t, scroll.calls[0], test.ShouldAlmostEqual, (0.8-0.15)/0.85, 1e-9)

	// Small deflections stay below the scroll deadzone.
	f.ds.Axes[gamepad.AxisRightY] = 0.25
	f.tick()
	test.That(t, scroll.calls, test.ShouldHaveLength, 1)
}

func TestKeyboardFallback(t *testing.T) {
	keys := &fakeKeys{pressed: map[gamepad.Action]bool{}}
	f := newFixture(t, nav.Config{Enabled: true, Keyboard: keys})
	f.tick() // arming, no pads connected

	keys.dir = gamepad.DirectionDown
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:down"})

	keys.dir = gamepad.DirectionNone
	keys.pressed[gamepad.ActionBack] = true
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:down", "back"})
}

func TestKeyboardIgnoredWhilePadConnected(t *testing.T) {
	keys := &fakeKeys{dir: gamepad.DirectionUp}
	f := newFixture(t, nav.Config{Enabled: true, Keyboard: keys}, newDevice())
	f.tick()
	f.tick()
	test.That(t, f.events, test.ShouldBeEmpty)
}

func TestSetControllerPinsIndex(t *testing.T) {
	first := newDevice()
	second := newDevice()
	f := newFixture(t, nav.Config{Enabled: true}, first, second)
	f.coord.SetController(1)
	f.tick()

	// Input on the unpinned pad is ignored.
	first.Buttons[gamepad.SlotDpadUp] = gamepad.Button{Pressed: true, Value: 1}
	f.tick()
	test.That(t, f.events, test.ShouldBeEmpty)

	second.Buttons[gamepad.SlotDpadDown] = gamepad.Button{Pressed: true, Value: 1}
	f.tick()
	test.That(t, f.events, test.ShouldResemble, []string{"navigate:down"})
}
