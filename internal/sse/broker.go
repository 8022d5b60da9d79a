// Package sse streams session notifications to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Session event types.
const (
	TypeChatTyping      = "chat.typing"
	TypeChatReply       = "chat.reply"
	TypeMusicGenerating = "music.generating"
	TypeMusicGenerated  = "music.generated"
	TypeSessionReset    = "session.reset"
	TypeActivity        = "activity"
)

// Event is one message broadcast to every client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SessionData is the payload of session-scoped events.
type SessionData struct {
	SessionID string `json:"session_id"`
	Detail    any    `json:"detail,omitempty"`
}

type sessionReq struct {
	kind string
	data SessionData
}

// Broker fans events out to subscribed clients.
//
// All mutable state (the client set, the event counter and the last activity
// timestamp) belongs to the run goroutine; public methods talk to it over
// channels.
type Broker struct {
	activityEvery time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	sessionCh     chan sessionReq
	countCh       chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker that emits at most one activity event per
// activityEvery (default 2s).
func NewBroker(activityEvery time.Duration) *Broker {
	if activityEvery <= 0 {
		activityEvery = 2 * time.Second
	}
	b := &Broker{
		activityEvery: activityEvery,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		sessionCh:     make(chan sessionReq, 256),
		countCh:       make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func frame(id uint64, ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", id, ev.Type, payload), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq          uint64
		lastActivity time.Time
	)

	send := func(ev Event) {
		seq++
		raw, err := frame(seq, ev)
		if err != nil {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// slow client, drop
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			send(ev)

		case req := <-b.sessionCh:
			send(Event{Type: req.kind, Data: req.data})
			if now := time.Now(); now.Sub(lastActivity) >= b.activityEvery {
				lastActivity = now
				send(Event{Type: TypeActivity, Data: map[string]int{"clients": len(clients)}})
			}

		case resp := <-b.countCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel. It is idempotent.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a new client. The returned channel is closed on
// Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countCh <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish broadcasts ev as is.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}

// PublishSessionEvent broadcasts a session-scoped event followed, at most
// once per throttle interval, by an activity event.
func (b *Broker) PublishSessionEvent(kind, sessionID string, detail any) {
	if b.closed.Load() {
		return
	}
	req := sessionReq{kind: kind, data: SessionData{SessionID: sessionID, Detail: detail}}
	select {
	case b.sessionCh <- req:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one client until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
