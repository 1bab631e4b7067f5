package gamepad

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

const (
	// DefaultDeadzone is the analog deadzone applied until SetDeadzone is
	// called with a configured value.
	DefaultDeadzone = 0.15

	// MaxDeadzone caps configured deadzones; anything larger would leave
	// too little usable stick travel.
	MaxDeadzone = 0.5

	// Stick deflection needed before a stick counts as a navigation
	// direction. Deliberately looser than the deadzone so drift-prone
	// hardware stays usable.
	navStickThreshold = 0.5
)

// ConnectionFunc observes connect (true) and disconnect (false) transitions.
type ConnectionFunc func(c *Controller, connected bool)

// PollFunc observes every poll with the full connected-controller list.
type PollFunc func(controllers []*Controller)

// Service is the single source of truth for current controller state. It is
// not safe for concurrent use: Poll and every query must run on the one tick
// goroutine, which is how the host loop drives it.
type Service struct {
	provider Provider
	logger   *zap.SugaredLogger

	deadzone    float64
	controllers map[int]*Controller

	nextSubID int
	pollSubs  map[int]PollFunc
	connSubs  map[int]ConnectionFunc
}

// NewService creates a service reading from the given provider.
func NewService(provider Provider, logger *zap.SugaredLogger) *Service {
	return &Service{
		provider:    provider,
		logger:      logger,
		deadzone:    DefaultDeadzone,
		controllers: make(map[int]*Controller),
		pollSubs:    make(map[int]PollFunc),
		connSubs:    make(map[int]ConnectionFunc),
	}
}

// Poll reads the provider's device array, refreshes snapshots, detects
// connects and disconnects, and notifies subscribers. Called once per tick.
func (s *Service) Poll() {
	pads := s.provider.Gamepads()

	seen := make(map[int]bool, len(pads))
	for index, ds := range pads {
		if ds == nil || !ds.Connected {
			continue
		}
		seen[index] = true

		c, ok := s.controllers[index]
		if !ok {
			s.connect(index, ds)
			continue
		}
		c.refresh(ds)
	}

	for index, c := range s.controllers {
		if seen[index] {
			continue
		}
		delete(s.controllers, index)
		c.Connected = false
		s.logger.Infof("Controller disconnected: %s (index=%d)", c.DisplayName, c.Index)
		for _, fn := range s.connSubs {
			fn(c, false)
		}
	}

	if len(s.pollSubs) > 0 {
		list := s.Controllers()
		for _, fn := range s.pollSubs {
			fn(list)
		}
	}
}

func (s *Service) connect(index int, ds *DeviceState) {
	t := ClassifyType(ds.ID)
	c := &Controller{
		Index:       index,
		RawID:       ds.ID,
		Type:        t,
		DisplayName: DeriveDisplayName(ds.ID),
		mapping:     DefaultMapping(t),
	}
	c.refresh(ds)
	// Seed edge history with the current state so a button held during
	// connect does not read as just-pressed on the first tick.
	for slot := range c.prev {
		c.prev[slot] = c.pressed(slot)
	}
	s.controllers[index] = c
	s.logger.Infof("Controller connected: %s (index=%d type=%s)", c.DisplayName, c.Index, c.Type)
	for _, fn := range s.connSubs {
		fn(c, true)
	}
}

func (c *Controller) refresh(ds *DeviceState) {
	for slot := range c.prev {
		c.prev[slot] = c.pressed(slot)
	}
	c.Buttons = append(c.Buttons[:0], ds.Buttons...)
	c.Axes = append(c.Axes[:0], ds.Axes...)
	c.Connected = true
}

// Controllers returns all currently connected controllers in index order.
func (s *Service) Controllers() []*Controller {
	list := make([]*Controller, 0, len(s.controllers))
	for _, c := range s.controllers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Index < list[j].Index })
	return list
}

// Controller returns the controller at the given index, or nil when absent.
func (s *Service) Controller(index int) *Controller {
	return s.controllers[index]
}

// IsActionPressed reports whether the logical action's button is currently
// down. Absent controllers and unmapped actions read as not pressed.
func (s *Service) IsActionPressed(index int, a Action) bool {
	c := s.controllers[index]
	if c == nil {
		return false
	}
	slot, ok := c.mapping[a]
	if !ok {
		return false
	}
	return c.pressed(slot)
}

// IsActionJustPressed reports a false-to-true transition of the action's
// button between the two most recent polls. Every caller observing the same
// controller sees the same edge on the same tick.
func (s *Service) IsActionJustPressed(index int, a Action) bool {
	c := s.controllers[index]
	if c == nil {
		return false
	}
	slot, ok := c.mapping[a]
	if !ok || slot < 0 || slot >= SlotCount {
		return false
	}
	return c.pressed(slot) && !c.prev[slot]
}

// LeftStick returns the deadzone-corrected left stick position.
func (s *Service) LeftStick(index int) Vector {
	return s.stick(index, AxisLeftX, AxisLeftY)
}

// RightStick returns the deadzone-corrected right stick position.
func (s *Service) RightStick(index int) Vector {
	return s.stick(index, AxisRightX, AxisRightY)
}

func (s *Service) stick(index, xAxis, yAxis int) Vector {
	c := s.controllers[index]
	if c == nil {
		return Vector{}
	}
	return Vector{
		X: rescaleDeadzone(c.axis(xAxis), s.deadzone),
		Y: rescaleDeadzone(c.axis(yAxis), s.deadzone),
	}
}

// rescaleDeadzone collapses magnitudes inside the deadzone to exactly zero
// and rescales the remainder so the response runs continuously from 0 at
// the deadzone edge to 1 at full deflection.
func rescaleDeadzone(v, deadzone float64) float64 {
	m := math.Abs(v)
	if m <= deadzone {
		return 0
	}
	r := (m - deadzone) / (1 - deadzone)
	if r > 1 {
		r = 1
	}
	return math.Copysign(r, v)
}

// NavigationDirection combines D-pad buttons, hat-axis encodings and the
// left stick into a single direction. D-pad buttons win over hat axes,
// which win over the stick; within each source the priority is up, down,
// left, right.
func (s *Service) NavigationDirection(index int) Direction {
	c := s.controllers[index]
	if c == nil {
		return DirectionNone
	}

	switch {
	case c.pressed(SlotDpadUp):
		return DirectionUp
	case c.pressed(SlotDpadDown):
		return DirectionDown
	case c.pressed(SlotDpadLeft):
		return DirectionLeft
	case c.pressed(SlotDpadRight):
		return DirectionRight
	}

	if d := hatDirection(c.Axes); d != DirectionNone {
		return d
	}

	x, y := c.axis(AxisLeftX), c.axis(AxisLeftY)
	switch {
	case y < -navStickThreshold:
		return DirectionUp
	case y > navStickThreshold:
		return DirectionDown
	case x < -navStickThreshold:
		return DirectionLeft
	case x > navStickThreshold:
		return DirectionRight
	}
	return DirectionNone
}

// Hat axes encode eight directions as -1 + 2i/7 for i in 0..7, clockwise
// from up. The idle value sits outside [-1, 1]. Diagonals resolve to their
// vertical component, matching the up/down-over-left/right priority.
var hatDirections = [8]Direction{
	DirectionUp, DirectionUp, DirectionRight, DirectionDown,
	DirectionDown, DirectionDown, DirectionLeft, DirectionUp,
}

func hatDirection(axes []float64) Direction {
	for i := AxisCount; i < len(axes); i++ {
		v := axes[i]
		if math.Abs(v) > 1.0001 {
			continue
		}
		step := int(math.Round((v + 1) * 3.5))
		if step < 0 || step > 7 {
			continue
		}
		// A resting non-hat axis reads 0.0, which is not one of the
		// eight steps; only accept values that land on a step.
		if math.Abs(v-(-1+2*float64(step)/7)) > 0.01 {
			continue
		}
		return hatDirections[step]
	}
	return DirectionNone
}

// SetDeadzone updates the analog deadzone for all subsequent axis reads.
// Values are clamped to [0, MaxDeadzone].
func (s *Service) SetDeadzone(v float64) {
	if v < 0 {
		v = 0
	}
	if v > MaxDeadzone {
		v = MaxDeadzone
	}
	s.deadzone = v
}

// Deadzone returns the currently applied analog deadzone.
func (s *Service) Deadzone() float64 {
	return s.deadzone
}

// Subscribe registers a callback fired on every poll with the full
// controller list. The returned function unsubscribes; it takes effect
// before the next poll.
func (s *Service) Subscribe(fn PollFunc) func() {
	id := s.nextSubID
	s.nextSubID++
	s.pollSubs[id] = fn
	return func() { delete(s.pollSubs, id) }
}

// OnConnection registers a callback fired on connect and disconnect
// transitions. The returned function unsubscribes.
func (s *Service) OnConnection(fn ConnectionFunc) func() {
	id := s.nextSubID
	s.nextSubID++
	s.connSubs[id] = fn
	return func() { delete(s.connSubs, id) }
}
