// Package nav turns the controller state service's per-tick queries into a
// discrete, debounced event stream for one UI focus scope: directional
// navigation with key repeat, edge-fired action buttons, and an optional
// right-stick scroll channel.
package nav

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/soar/padnav/internal/gamepad"
)

const (
	// DefaultRepeatDelay is how long a direction must be held before
	// key repeat starts.
	DefaultRepeatDelay = 400 * time.Millisecond

	// DefaultRepeatRate is the interval between repeats once repeating.
	DefaultRepeatRate = 100 * time.Millisecond

	// Right-stick deflection needed before the scroll channel engages.
	scrollDeadzone = 0.2
)

// Callbacks is the event vocabulary delivered to the owning UI scope. Any
// field may be nil. Directional events go through OnNavigate; the rest fire
// exactly once per press-to-release interval of their button.
type Callbacks struct {
	OnNavigate    func(gamepad.Direction)
	OnConfirm     func()
	OnBack        func()
	OnOption1     func()
	OnOption2     func()
	OnLeftBumper  func()
	OnRightBumper func()
	OnSelect      func()
	OnStart       func()
}

// ScrollTarget receives continuous right-stick scrolling. Deflection is the
// deadzone-corrected stick Y in [-1, 1]; it is not edge-gated.
type ScrollTarget interface {
	ScrollBy(deflection float64)
}

// KeySource is a best-effort keyboard fallback queried only while no
// controller is connected, so it never double-fires alongside a pad.
type KeySource interface {
	Direction() gamepad.Direction
	ActionPressed(a gamepad.Action) bool
}

// Config carries construction parameters for a Coordinator.
type Config struct {
	Enabled     bool
	Callbacks   Callbacks
	RepeatDelay time.Duration // 0 means DefaultRepeatDelay
	RepeatRate  time.Duration // 0 means DefaultRepeatRate
	Scroll      ScrollTarget
	Keyboard    KeySource
	Clock       clock.Clock // nil means the wall clock
}

// The coordinator's state machine. Arming is the single tick right after
// enabling: no events fire, the previous-button table is seeded with the
// current held state, and a direction already held at that moment parks the
// machine in awaitingRelease until it clears.
type coordState int

const (
	stateDisabled coordState = iota
	stateArming
	stateAwaitingRelease
	stateIdle
	stateDirectionHeld
)

// Buttons evaluated for edges each tick, and the order they are evaluated in.
var actionOrder = []gamepad.Action{
	gamepad.ActionConfirm,
	gamepad.ActionBack,
	gamepad.ActionOption1,
	gamepad.ActionOption2,
	gamepad.ActionLeftBumper,
	gamepad.ActionRightBumper,
	gamepad.ActionSelect,
	gamepad.ActionStart,
}

// Coordinator converts polling into discrete navigation events for exactly
// one UI scope. Like the service it runs on the single tick goroutine.
type Coordinator struct {
	svc *gamepad.Service
	clk clock.Clock

	cbs         Callbacks
	repeatDelay time.Duration
	repeatRate  time.Duration
	scroll      ScrollTarget
	keyboard    KeySource

	controller int // explicit controller index, -1 means first connected

	state       coordState
	dir         gamepad.Direction
	pressedAt   time.Time
	lastRepeat  time.Time
	prevActions map[gamepad.Action]bool
}

// New creates a coordinator reading from the given service.
func New(svc *gamepad.Service, cfg Config) *Coordinator {
	c := &Coordinator{
		svc:         svc,
		clk:         cfg.Clock,
		cbs:         cfg.Callbacks,
		repeatDelay: cfg.RepeatDelay,
		repeatRate:  cfg.RepeatRate,
		scroll:      cfg.Scroll,
		keyboard:    cfg.Keyboard,
		controller:  -1,
		state:       stateDisabled,
		prevActions: make(map[gamepad.Action]bool, len(actionOrder)),
	}
	if c.clk == nil {
		c.clk = clock.New()
	}
	if c.repeatDelay == 0 {
		c.repeatDelay = DefaultRepeatDelay
	}
	if c.repeatRate == 0 {
		c.repeatRate = DefaultRepeatRate
	}
	if cfg.Enabled {
		c.state = stateArming
	}
	return c
}

// SetEnabled toggles the coordinator. Disabling halts all callbacks
// immediately; re-enabling replays the full arming sequence, so input held
// across the boundary is never mistaken for a fresh press.
func (c *Coordinator) SetEnabled(enabled bool) {
	if enabled == c.Enabled() {
		return
	}
	if enabled {
		c.state = stateArming
	} else {
		c.state = stateDisabled
		c.dir = gamepad.DirectionNone
	}
}

// Enabled reports whether the coordinator is processing input.
func (c *Coordinator) Enabled() bool {
	return c.state != stateDisabled
}

// SetCallbacks replaces the callback set. Safe at any time; callback
// identity is independent of the enabled lifecycle.
func (c *Coordinator) SetCallbacks(cbs Callbacks) {
	c.cbs = cbs
}

// SetRepeat updates the repeat timing. Zero values keep the defaults.
func (c *Coordinator) SetRepeat(delay, rate time.Duration) {
	if delay > 0 {
		c.repeatDelay = delay
	}
	if rate > 0 {
		c.repeatRate = rate
	}
}

// SetController pins the coordinator to an explicit controller index.
// Pass -1 to follow the first connected controller.
func (c *Coordinator) SetController(index int) {
	c.controller = index
}

// Tick runs one step of the state machine. Call once per poll, after
// Service.Poll.
func (c *Coordinator) Tick() {
	if c.state == stateDisabled {
		return
	}

	ctrl := c.activeController()
	if ctrl == nil {
		if len(c.svc.Controllers()) == 0 {
			c.keyboardTick()
		}
		return
	}
	index := ctrl.Index

	dir := c.svc.NavigationDirection(index)
	pressed := func(a gamepad.Action) bool { return c.svc.IsActionPressed(index, a) }

	if c.state == stateArming {
		c.arm(dir, pressed)
		return
	}

	c.stepDirection(dir)
	c.stepButtons(pressed)
	c.stepScroll(c.svc.RightStick(index).Y)
}

func (c *Coordinator) activeController() *gamepad.Controller {
	if c.controller >= 0 {
		return c.svc.Controller(c.controller)
	}
	list := c.svc.Controllers()
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// keyboardTick runs the same state machine against the keyboard fallback.
func (c *Coordinator) keyboardTick() {
	if c.keyboard == nil {
		return
	}
	dir := c.keyboard.Direction()
	if c.state == stateArming {
		c.arm(dir, c.keyboard.ActionPressed)
		return
	}
	c.stepDirection(dir)
	c.stepButtons(c.keyboard.ActionPressed)
}

// arm handles the first tick after enabling: no events, previous button
// state seeded with what is held right now, and any held direction parked
// until released. Both guards are established here, on the same tick.
func (c *Coordinator) arm(dir gamepad.Direction, pressed func(gamepad.Action) bool) {
	if dir != gamepad.DirectionNone {
		c.state = stateAwaitingRelease
		c.dir = dir
	} else {
		c.state = stateIdle
		c.dir = gamepad.DirectionNone
	}
	for _, a := range actionOrder {
		c.prevActions[a] = pressed(a)
	}
}

func (c *Coordinator) stepDirection(dir gamepad.Direction) {
	if c.state == stateAwaitingRelease {
		if dir == gamepad.DirectionNone {
			c.state = stateIdle
			c.dir = gamepad.DirectionNone
		}
		return
	}

	if dir == gamepad.DirectionNone {
		c.state = stateIdle
		c.dir = gamepad.DirectionNone
		return
	}

	now := c.clk.Now()
	if c.state != stateDirectionHeld || dir != c.dir {
		c.state = stateDirectionHeld
		c.dir = dir
		c.pressedAt = now
		c.lastRepeat = now
		c.fireNavigate(dir)
		return
	}

	if now.Sub(c.pressedAt) > c.repeatDelay && now.Sub(c.lastRepeat) > c.repeatRate {
		c.lastRepeat = now
		c.fireNavigate(dir)
	}
}

// stepButtons is deliberately independent of the awaiting-release gate:
// confirm and back must stay usable even when a screen gains focus while a
// direction is incidentally held. Held-button safety comes from the seeding
// in arm, not from the directional gate.
func (c *Coordinator) stepButtons(pressed func(gamepad.Action) bool) {
	for _, a := range actionOrder {
		cur := pressed(a)
		if cur && !c.prevActions[a] {
			c.fireAction(a)
		}
		c.prevActions[a] = cur
	}
}

func (c *Coordinator) stepScroll(deflection float64) {
	if c.scroll == nil {
		return
	}
	if math.Abs(deflection) > scrollDeadzone {
		c.scroll.ScrollBy(deflection)
	}
}

func (c *Coordinator) fireNavigate(dir gamepad.Direction) {
	if c.cbs.OnNavigate != nil {
		c.cbs.OnNavigate(dir)
	}
}

func (c *Coordinator) fireAction(a gamepad.Action) {
	var fn func()
	switch a {
	case gamepad.ActionConfirm:
		fn = c.cbs.OnConfirm
	case gamepad.ActionBack:
		fn = c.cbs.OnBack
	case gamepad.ActionOption1:
		fn = c.cbs.OnOption1
	case gamepad.ActionOption2:
		fn = c.cbs.OnOption2
	case gamepad.ActionLeftBumper:
		fn = c.cbs.OnLeftBumper
	case gamepad.ActionRightBumper:
		fn = c.cbs.OnRightBumper
	case gamepad.ActionSelect:
		fn = c.cbs.OnSelect
	case gamepad.ActionStart:
		fn = c.cbs.OnStart
	}
	if fn != nil {
		fn()
	}
}
