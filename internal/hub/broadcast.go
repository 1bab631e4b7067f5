package hub

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soar/padnav/internal/gamepad"
)

const (
	fullSyncInterval = 5 * time.Second
	feedBuffer       = 64
)

// Broadcaster bridges the engine's tick goroutine and the hub: Publish*
// methods run on the tick thread (they marshal there, so snapshots never
// cross goroutines by reference) and Run fans the results out.
type Broadcaster struct {
	hub    *Hub
	logger *zap.SugaredLogger

	feed chan *WSMessage

	mu        sync.Mutex
	seq       int64
	lastState json.RawMessage
}

func (b *Broadcaster) nextSeq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return b.seq
}

func NewBroadcaster(h *Hub, logger *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{
		hub:    h,
		logger: logger,
		feed:   make(chan *WSMessage, feedBuffer),
	}
}

// PublishState is a gamepad.PollFunc: wire it up with Service.Subscribe.
// Unchanged state is dropped here so the 60Hz poll does not turn into a
// 60Hz broadcast.
func (b *Broadcaster) PublishState(controllers []*gamepad.Controller) {
	data, err := json.Marshal(controllers)
	if err != nil {
		b.logger.Errorf("Error marshaling controller state: %v", err)
		return
	}

	b.mu.Lock()
	changed := !bytes.Equal(data, b.lastState)
	if changed {
		b.lastState = data
	}
	b.mu.Unlock()
	if !changed {
		return
	}

	b.push(NewStateMessage(0, data))
}

// PublishConnection is a gamepad.ConnectionFunc for Service.OnConnection.
func (b *Broadcaster) PublishConnection(c *gamepad.Controller, connected bool) {
	data, err := json.Marshal(c)
	if err != nil {
		b.logger.Errorf("Error marshaling controller: %v", err)
		return
	}
	b.push(NewConnectionMessage(0, data, connected))
}

// PublishNav reports one coordinator callback firing, e.g. ("navigate",
// "up") or ("confirm", "").
func (b *Broadcaster) PublishNav(event, direction string) {
	b.push(NewNavMessage(0, event, direction))
}

func (b *Broadcaster) push(msg *WSMessage) {
	select {
	case b.feed <- msg:
	default:
		// Drop if the feed is full to avoid blocking the tick thread.
	}
}

// Run consumes the feed, assigns sequence numbers, and broadcasts. A full
// state message is re-sent periodically so late or lossy clients converge.
// Should be run in a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-b.feed:
			if !ok {
				return
			}
			b.send(msg)

		case <-ticker.C:
			b.mu.Lock()
			state := b.lastState
			b.mu.Unlock()
			if state != nil {
				b.send(NewStateMessage(0, state))
			}
		}
	}
}

// SendInitialState sends the last known full state to a new client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	state := b.lastState
	b.mu.Unlock()
	if state == nil {
		state = json.RawMessage("[]")
	}

	msg := NewStateMessage(b.nextSeq(), state)
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Errorf("Error marshaling initial state: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) send(msg *WSMessage) {
	msg.Seq = b.nextSeq()
	data, err := json.Marshal(msg)
	if err != nil {
		b.logger.Errorf("Error marshaling message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
